/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 *
 * Package s3cache provides an implementation of httpcache.Cache that stores and
 * retrieves tournament snapshots using Amazon S3. Objects are stored under
 * readable keys beneath a prefix so a bucket can be browsed and restored by
 * hand.
 */
package s3cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Cache objects store and retrieve data using Amazon S3.
type Cache struct {
	// Config is the Amazon S3 configuration.
	Config aws.Config

	// Client is the s3 client used when interacting with S3. Init sets it
	// from the default Config; callers may substitute their own.
	Client *s3.Client

	bucketName string

	// prefix is prepended to every object key.
	prefix string

	// gzip compresses objects in Set and decompresses them in Get. Object
	// keys get a ".gz" suffix.
	gzip bool

	log zerolog.Logger

	ctx context.Context
}

func (c *Cache) Get(key string) ([]byte, bool) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(c.objectKey(key)),
	}

	resp, err := c.Client.GetObject(c.ctx, input)
	if err != nil {
		if !IsNotFound(err) {
			c.log.Warn().Err(err).Str("bucket", c.bucketName).
				Str("key", *input.Key).Msg("s3cache.get failed")
		}
		return nil, false
	}
	defer resp.Body.Close()

	rdr := resp.Body
	if c.gzip {
		rdr, err = gzip.NewReader(rdr)
		if err != nil {
			c.log.Warn().Err(err).Str("key", *input.Key).
				Msg("s3cache.get: failed to open compressed object")
			return nil, false
		}
		defer rdr.Close()
	}
	data, err := io.ReadAll(rdr)
	if err != nil {
		c.log.Warn().Err(err).Str("key", *input.Key).
			Msg("s3cache.get: failed to read object")
		return nil, false
	}

	return data, true
}

// Set stores data under key. Failures are logged; callers that need to
// know read the key back.
func (c *Cache) Set(key string, data []byte) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(c.objectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}

	if c.gzip {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			c.log.Warn().Err(err).Str("key", *input.Key).
				Msg("s3cache.set: failed to gzip data")
			return
		}
		if err := gw.Close(); err != nil {
			c.log.Warn().Err(err).Str("key", *input.Key).
				Msg("s3cache.set: failed to close gzip writer")
			return
		}
		input.Body = &buf
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := c.Client.PutObject(c.ctx, input); err != nil {
		c.log.Warn().Err(err).Str("bucket", c.bucketName).
			Str("key", *input.Key).Msg("s3cache.set: put failed")
	}
}

func (c *Cache) Delete(key string) {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(c.objectKey(key)),
	}

	if _, err := c.Client.DeleteObject(c.ctx, input); err != nil {
		c.log.Warn().Err(err).Str("key", *input.Key).Msg("s3cache.delete failed")
	}
}

// objectKey maps a cache key to "<prefix>/<key>.json[.gz]".
func (c *Cache) objectKey(key string) string {
	clean := strings.TrimPrefix(path.Clean("/"+key), "/")
	objKey := path.Join(c.prefix, clean) + ".json"
	if c.gzip {
		objKey += ".gz"
	}

	return objKey
}

// IsNotFound reports whether err is S3's answer for a missing object.
func IsNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

// New returns a new Cache with underlying storage in the specified Amazon S3
// bucket under prefix. Callers must invoke Init() on the returned Cache
// before use.
func New(ctxIn context.Context, bucketNameIn string, prefixIn string,
	gzipIn bool, logIn zerolog.Logger) *Cache {

	return &Cache{
		ctx:        ctxIn,
		bucketName: bucketNameIn,
		prefix:     strings.Trim(prefixIn, "/"),
		gzip:       gzipIn,
		log:        logIn,
	}
}

// Init loads credentials from the default sources (environment, shared
// config and credentials files) and checks the bucket can be listed.
func (c *Cache) Init() error {
	var err error
	c.Config, err = config.LoadDefaultConfig(c.ctx)
	if err != nil {
		return eris.Wrap(err, "s3cache.init: failed to load AWS config")
	}
	c.Client = s3.NewFromConfig(c.Config)

	if _, err = c.Client.HeadBucket(c.ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucketName),
	}); err != nil {
		return eris.Wrapf(err, "s3cache.init: head bucket failed for %s", c.bucketName)
	}

	if _, err = c.Client.ListObjectsV2(c.ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(c.bucketName),
		Prefix:  aws.String(c.prefix),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return eris.Wrapf(err, "s3cache.init: list objects failed for %s", c.bucketName)
	}

	return nil
}
