/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"context"
	"strings"
	"time"

	"github.com/mikeb26/boylstonchessclub-swiss/swiss"
	"github.com/rotisserie/eris"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidResult  = eris.New("unrecognized result")
	ErrUnknownPlayer  = eris.New("unknown player")
	ErrUnknownBoard   = eris.New("unknown board")
	ErrPlayerHasGames = eris.New("player already has pairings")
	ErrRoundClosed    = eris.New("round is closed")
	ErrInvalidEntry   = eris.New("invalid player entry")
)

// Repository persists tournaments. Lock serializes writers of a single
// tournament; the returned func releases it.
type Repository interface {
	Load(ctx context.Context, id string) (*Tournament, error)
	Save(ctx context.Context, t *Tournament) error
	Lock(ctx context.Context, id string) (func(), error)
}

type Service struct {
	repo Repository
	opts swiss.Options
	log  zerolog.Logger
	now  func() time.Time
}

// NewService returns a Service pairing with opts unless a tournament
// overrides the mode.
func NewService(repo Repository, opts swiss.Options, log zerolog.Logger) *Service {
	if opts.Logger == nil {
		opts.Logger = &log
	}
	return &Service{
		repo: repo,
		opts: opts,
		log:  log,
		now:  time.Now,
	}
}

func (s *Service) Get(ctx context.Context, id string) (*Tournament, error) {
	return s.repo.Load(ctx, id)
}

// Create starts an empty tournament. An empty mode keeps the service default.
func (s *Service) Create(ctx context.Context, name string,
	mode string) (*Tournament, error) {

	if mode != "" {
		if _, err := swiss.ParseMode(mode); err != nil {
			return nil, err
		}
	}
	now := s.now().UTC()
	t := &Tournament{
		ID:          xid.New().String(),
		Name:        strings.TrimSpace(name),
		PairingMode: mode,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, eris.Wrapf(err, "failed to save new tournament %q", name)
	}
	s.log.Info().Str("tournament", t.ID).Str("name", t.Name).Msg("tournament created")

	return t, nil
}

// update runs fn against the freshly loaded tournament while holding its
// lock and saves the result only if fn succeeds.
func (s *Service) update(ctx context.Context, id string,
	fn func(t *Tournament) error) (*Tournament, error) {

	unlock, err := s.repo.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	t, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(t); err != nil {
		return nil, err
	}
	t.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, eris.Wrapf(err, "failed to save tournament %v", id)
	}
	return t, nil
}

// AddPlayer registers e under the next free id and returns the stored entry.
func (s *Service) AddPlayer(ctx context.Context, id string, e Entry) (*Entry, error) {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return nil, eris.Wrap(ErrInvalidEntry, "name is required")
	}
	if e.Rating <= 0 {
		e.Rating = swiss.DefaultRating
	}
	e.ByeCount = 0

	var added Entry
	_, err := s.update(ctx, id, func(t *Tournament) error {
		e.ID = t.nextPlayerID()
		t.Players = append(t.Players, e)
		added = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("tournament", id).Int("player", int(added.ID)).
		Str("name", added.Name).Msg("player added")

	return &added, nil
}

// SetWithdrawn withdraws or reinstates a player for future rounds.
func (s *Service) SetWithdrawn(ctx context.Context, id string,
	pid swiss.PlayerID, withdrawn bool) error {

	_, err := s.update(ctx, id, func(t *Tournament) error {
		e := t.Entry(pid)
		if e == nil {
			return eris.Wrapf(ErrUnknownPlayer, "%d", pid)
		}
		e.Withdrawn = withdrawn
		return nil
	})
	return err
}

// RemovePlayer deletes a player who has never been paired.
func (s *Service) RemovePlayer(ctx context.Context, id string,
	pid swiss.PlayerID) error {

	_, err := s.update(ctx, id, func(t *Tournament) error {
		if t.Entry(pid) == nil {
			return eris.Wrapf(ErrUnknownPlayer, "%d", pid)
		}
		if t.hasGames(pid) {
			return eris.Wrapf(ErrPlayerHasGames, "player %d", pid)
		}
		kept := t.Players[:0]
		for _, p := range t.Players {
			if p.ID != pid {
				kept = append(kept, p)
			}
		}
		t.Players = kept
		return nil
	})
	return err
}

func (s *Service) options(t *Tournament) (swiss.Options, error) {
	opts := s.opts
	if t.PairingMode != "" {
		mode, err := swiss.ParseMode(t.PairingMode)
		if err != nil {
			return opts, err
		}
		opts.Mode = mode
	}
	return opts, nil
}

// NextRound pairs the next round in every section and stores it together
// with the bye counts it awards.
func (s *Service) NextRound(ctx context.Context, id string) (*Round, error) {
	var round *Round
	_, err := s.update(ctx, id, func(t *Tournament) error {
		opts, err := s.options(t)
		if err != nil {
			return err
		}
		r, awards, err := pairSections(ctx, t, opts)
		if err != nil {
			return err
		}
		r.CreatedAt = s.now().UTC()
		for _, a := range awards {
			t.Entry(a.Player).ByeCount = a.ByeCount
		}
		t.Rounds = append(t.Rounds, *r)
		round = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("tournament", id).Int("round", round.Number).
		Int("boards", len(round.Matches)).Msg("round paired")

	return round, nil
}

// pairSections runs the engine for each section concurrently and numbers
// boards continuously in section order.
func pairSections(ctx context.Context, t *Tournament,
	opts swiss.Options) (*Round, []swiss.ByeAward, error) {

	history := t.History()
	if err := swiss.CanGenerateRound(history); err != nil {
		return nil, nil, err
	}
	if err := checkEligible(t); err != nil {
		return nil, nil, err
	}
	sections := t.Sections()
	number := swiss.NextRoundNumber(history)
	plans := make([]*swiss.RoundPlan, len(sections))

	g, _ := errgroup.WithContext(ctx)
	for idx, sec := range sections {
		g.Go(func() error {
			players := t.roster(sec, true)
			if len(players) == 0 {
				return nil
			}
			plan, err := swiss.GenerateRound(players, history, number, opts)
			if err != nil {
				return eris.Wrapf(err, "%v", SectionTitle(sec))
			}
			plans[idx] = plan
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	round := &Round{Number: number}
	var awards []swiss.ByeAward
	boardNum := 1
	for _, plan := range plans {
		if plan == nil {
			continue
		}
		for _, m := range plan.Matches() {
			m.Table = boardNum
			boardNum++
			round.Matches = append(round.Matches, m)
		}
		if plan.Bye != nil {
			awards = append(awards, *plan.Bye)
		}
	}
	return round, awards, nil
}

// checkEligible fails when no section has players to pair or when any
// section has a lone eligible player.
func checkEligible(t *Tournament) error {
	total := 0
	for _, sec := range t.Sections() {
		n := len(t.roster(sec, true))
		if n == 1 {
			return eris.Wrapf(swiss.ErrInsufficientPlayers, "%v: 1 eligible",
				SectionTitle(sec))
		}
		total += n
	}
	if total == 0 {
		return eris.Wrap(swiss.ErrInsufficientPlayers, "no eligible players")
	}
	return nil
}

// RecordResult stores the result of one board. A blank result is rejected;
// "*" clears one, which is allowed only in the latest round. Bye boards
// cannot be changed.
func (s *Service) RecordResult(ctx context.Context, id string, number int,
	table int, result string) error {

	if strings.TrimSpace(result) == "" {
		return eris.Wrap(ErrInvalidResult, "result is required; use * to clear one")
	}
	outcome, err := ParseResult(result)
	if err != nil {
		return err
	}

	_, err = s.update(ctx, id, func(t *Tournament) error {
		r := t.Round(number)
		if r == nil {
			return eris.Wrapf(ErrUnknownBoard, "round %d does not exist", number)
		}
		m := r.Match(table)
		if m == nil {
			return eris.Wrapf(ErrUnknownBoard, "round %d table %d", number, table)
		}
		if m.IsBye() {
			return eris.Wrapf(ErrInvalidResult, "round %d table %d is a bye", number, table)
		}
		if outcome == swiss.Bye {
			return eris.Wrapf(ErrInvalidResult, "round %d table %d has two players",
				number, table)
		}
		if outcome == swiss.Unplayed && number != t.LastRound().Number {
			return eris.Wrapf(ErrRoundClosed, "round %d", number)
		}
		m.Outcome = outcome
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("tournament", id).Int("round", number).Int("table", table).
		Str("result", ResultString(outcome)).Msg("result recorded")

	return nil
}

// SectionStandings is the ranking of one section.
type SectionStandings struct {
	Section   string
	Standings []swiss.Standing
}

// Standings ranks every section, withdrawn players included.
func (s *Service) Standings(ctx context.Context, id string) ([]SectionStandings, error) {
	t, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return ComputeStandings(t)
}

func ComputeStandings(t *Tournament) ([]SectionStandings, error) {
	history := t.History()
	var ret []SectionStandings
	for _, sec := range t.Sections() {
		standings, err := swiss.ComputeStandings(t.roster(sec, false), history)
		if err != nil {
			return nil, eris.Wrapf(err, "%v", SectionTitle(sec))
		}
		ret = append(ret, SectionStandings{Section: sec, Standings: standings})
	}
	return ret, nil
}

type Status struct {
	Rounds      int
	Unplayed    int
	NextRound   int
	CanGenerate bool
	Reason      string
}

func (s *Service) Status(ctx context.Context, id string) (*Status, error) {
	t, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	history := t.History()
	st := &Status{
		Rounds:    len(t.Rounds),
		NextRound: swiss.NextRoundNumber(history),
	}
	if last := t.LastRound(); last != nil {
		for _, m := range last.Matches {
			if !m.Finished() {
				st.Unplayed++
			}
		}
	}

	if err := swiss.CanGenerateRound(history); err != nil {
		st.Reason = err.Error()
	} else if err := checkEligible(t); err != nil {
		st.Reason = err.Error()
	} else {
		st.CanGenerate = true
	}

	return st, nil
}
