/* Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 */
package s3cache

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/gregjones/httpcache/test"
	"github.com/mikeb26/boylstonchessclub-swiss/internal"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestS3Cache(t *testing.T) {
	cache := New(context.Background(), internal.SnapshotBucket, "swiss-test",
		false, zerolog.Nop())
	err := cache.Init()
	if err != nil {
		t.Skipf("Skipping test due to lack of access to %v: %v",
			internal.SnapshotBucket, err)
	}

	test.Cache(t, cache)
}

func TestS3CacheWithGzip(t *testing.T) {
	cache := New(context.Background(), internal.SnapshotBucket, "swiss-test",
		true, zerolog.Nop())
	err := cache.Init()
	if err != nil {
		t.Skipf("Skipping test due to lack of access to %v: %v",
			internal.SnapshotBucket, err)
	}

	test.Cache(t, cache)
}

func TestObjectKey(t *testing.T) {
	cases := []struct {
		name   string
		prefix string
		gzip   bool
		key    string
		want   string
	}{
		{"tournament", "swiss", false, "tournament/abc123", "swiss/tournament/abc123.json"},
		{"gzip", "swiss", true, "index", "swiss/index.json.gz"},
		{"trimmed prefix", "/swiss/", false, "index", "swiss/index.json"},
		{"no prefix", "", false, "index", "index.json"},
		{"no escape", "swiss", false, "../../etc/passwd", "swiss/etc/passwd.json"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cache := New(context.Background(), "bucket", c.prefix, c.gzip, zerolog.Nop())
			assert.Equal(t, c.want, cache.objectKey(c.key))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	missing := &smithy.GenericAPIError{Code: "NoSuchKey", Message: "gone"}
	assert.True(t, IsNotFound(missing))
	assert.True(t, IsNotFound(fmt.Errorf("get: %w", missing)))
	assert.False(t, IsNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, IsNotFound(eris.New("boom")))
}
