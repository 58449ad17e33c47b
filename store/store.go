/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package store persists tournament snapshots as JSON documents in any
// httpcache.Cache: memory for tests, a local directory for a single
// director, or S3 for a shared deployment.
package store

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/mikeb26/boylstonchessclub-swiss/league"
	"github.com/peterbourgon/diskv"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

var (
	ErrNotFound    = eris.New("tournament not found")
	ErrWriteFailed = eris.New("snapshot write not persisted")
	ErrInvalidID   = eris.New("invalid tournament id")
)

const (
	keyPrefix = "tournament/"
	indexKey  = "index"
)

var _ league.Repository = (*Store)(nil)

type Store struct {
	cache httpcache.Cache
	log   zerolog.Logger

	mu    sync.Mutex
	locks map[string]*semaphore.Weighted
}

func New(cache httpcache.Cache, log zerolog.Logger) *Store {
	return &Store{
		cache: cache,
		log:   log,
		locks: make(map[string]*semaphore.Weighted),
	}
}

// NewDiskCache returns a cache rooted at dir whose writes land in a temp
// file first and are renamed into place.
func NewDiskCache(dir string) httpcache.Cache {
	d := diskv.New(diskv.Options{
		BasePath:     dir,
		TempDir:      dir + ".tmp",
		CacheSizeMax: 16 * 1024 * 1024,
	})
	return diskcache.NewWithDiskv(d)
}

func checkID(id string) error {
	if id == "" || strings.ContainsAny(id, "/\\ \t\n") {
		return eris.Wrapf(ErrInvalidID, "%q", id)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, id string) (*league.Tournament, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkID(id); err != nil {
		return nil, err
	}
	data, ok := s.cache.Get(keyPrefix + id)
	if !ok {
		return nil, eris.Wrapf(ErrNotFound, "%v", id)
	}

	var t league.Tournament
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrapf(err, "store.load: corrupt snapshot for %v", id)
	}
	return &t, nil
}

// Save writes the whole tournament as one document, so a round and the bye
// counts it awards become visible together. The write is read back to
// confirm the backend accepted it.
func (s *Store) Save(ctx context.Context, t *league.Tournament) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkID(t.ID); err != nil {
		return err
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "store.save: failed to encode %v", t.ID)
	}

	s.cache.Set(keyPrefix+t.ID, data)
	got, ok := s.cache.Get(keyPrefix + t.ID)
	if !ok || !bytes.Equal(got, data) {
		return eris.Wrapf(ErrWriteFailed, "%v", t.ID)
	}
	s.log.Debug().Str("tournament", t.ID).Int("bytes", len(data)).Msg("snapshot saved")

	return s.updateIndex(t.ID, true)
}

// Delete removes a tournament; deleting an unknown id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkID(id); err != nil {
		return err
	}
	s.cache.Delete(keyPrefix + id)
	return s.updateIndex(id, false)
}

// List returns the ids of every saved tournament, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readIndex()
}

func (s *Store) readIndex() ([]string, error) {
	data, ok := s.cache.Get(indexKey)
	if !ok {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, eris.Wrap(err, "store.index: corrupt tournament index")
	}
	return ids, nil
}

func (s *Store) updateIndex(id string, present bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.readIndex()
	if err != nil {
		s.log.Warn().Err(err).Msg("rebuilding tournament index")
		ids = nil
	}
	set := make(map[string]bool, len(ids)+1)
	for _, existing := range ids {
		set[existing] = true
	}
	if set[id] == present {
		return nil
	}
	if present {
		set[id] = true
	} else {
		delete(set, id)
	}

	ids = ids[:0]
	for existing := range set {
		ids = append(ids, existing)
	}
	sort.Strings(ids)
	data, err := json.Marshal(ids)
	if err != nil {
		return eris.Wrap(err, "store.index: encode failed")
	}
	s.cache.Set(indexKey, data)

	return nil
}

// Lock blocks until the caller is the only writer of tournament id or ctx
// is done. Locks are per Store, so every writer must share one Store.
func (s *Store) Lock(ctx context.Context, id string) (func(), error) {
	s.mu.Lock()
	sem, ok := s.locks[id]
	if !ok {
		sem = semaphore.NewWeighted(1)
		s.locks[id] = sem
	}
	s.mu.Unlock()

	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, eris.Wrapf(err, "store.lock: waiting for %v", id)
	}
	return func() { sem.Release(1) }, nil
}
