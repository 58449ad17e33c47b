/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"encoding/json"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundUnmarshalErrors(t *testing.T) {
	cases := []struct {
		name    string
		data    string
		wantErr error
		context string
	}{
		{
			name:    "bad result",
			data:    `{"number":2,"boards":[{"table":3,"white":1,"black":2,"result":"2-0"}]}`,
			wantErr: ErrInvalidResult,
			context: "round 2 table 3",
		},
		{
			name:    "bad timestamp",
			data:    `{"number":4,"createdAt":"not a date","boards":[]}`,
			context: "round 4: parsing createdAt",
		},
		{
			name: "wrong shape",
			data: `{"number":"one"}`,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var r Round
			err := json.Unmarshal([]byte(c.data), &r)
			require.Error(t, err)
			if c.wantErr != nil {
				assert.True(t, eris.Is(err, c.wantErr), "got %v", err)
			}
			if c.context != "" {
				assert.Contains(t, err.Error(), c.context)
			}
		})
	}
}
