/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 *
 * Package s3cache stores byte blobs in Amazon S3. A Cache satisfies
 * httpcache.Cache (hashed keys, optional gzip) for the Scryfall client and
 * also exposes raw-key object access used to persist event documents.
 */
package s3cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// ErrNoSuchKey is returned by GetObject when the key does not exist.
var ErrNoSuchKey = errors.New("s3cache: no such key")

const cachePrefix = "s3cache"

// Cache objects store and retrieve data using Amazon S3.
type Cache struct {
	// Config is the Amazon S3 configuration.
	Config aws.Config

	// Client is the s3 client used when interacting with S3. It is
	// initialized in Init() from the default Config unless set by the caller.
	Client *s3.Client

	bucketName string
	// prefix is prepended to raw object keys (GetObject/PutObject)
	prefix string
	// gzip applies to httpcache entries only
	gzip      bool
	logErrors bool

	// The context to specify when initiating httpcache s3 requests
	ctx context.Context
}

// New returns a new Cache with underlying storage in the specified Amazon S3
// bucket. Callers should take care to invoke Init() on the returned Cache
// object before use.
func New(ctxIn context.Context, bucketNameIn string, gzipIn bool,
	logErrorsIn bool) *Cache {

	return &Cache{
		ctx:        ctxIn,
		bucketName: bucketNameIn,
		gzip:       gzipIn,
		logErrors:  logErrorsIn,
	}
}

// WithPrefix sets the key prefix used by GetObject, PutObject and
// DeleteObject and returns c.
func (c *Cache) WithPrefix(prefix string) *Cache {
	c.prefix = prefix
	return c
}

// Bucket returns the bucket name.
func (c *Cache) Bucket() string {
	return c.bucketName
}

// Init loads the default AWS configuration (environment variables, shared
// config and credentials files) and verifies the bucket can be listed.
func (c *Cache) Init() error {
	if c.Client == nil {
		var err error
		c.Config, err = config.LoadDefaultConfig(c.ctx)
		if err != nil {
			return fmt.Errorf("s3cache.init: failed to load AWS config: %w", err)
		}
		c.Client = s3.NewFromConfig(c.Config)
	}

	if _, err := c.Client.HeadBucket(c.ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucketName),
	}); err != nil {
		return fmt.Errorf("s3cache.init: head bucket failed for %s: %w", c.bucketName, err)
	}

	if _, err := c.Client.ListObjectsV2(c.ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(c.bucketName),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return fmt.Errorf("s3cache.init: list objects failed for %s: %w", c.bucketName, err)
	}

	return nil
}

// Get implements httpcache.Cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	objKey := c.cacheKeyToObjectKey(key)
	data, err := c.get(c.ctx, objKey, c.gzip)
	if err != nil {
		// no such key just indicates a cache miss
		if c.logErrors && !errors.Is(err, ErrNoSuchKey) {
			log.Printf("s3cache.get: %v", err)
		}
		return []byte{}, false
	}

	return data, true
}

// Set implements httpcache.Cache.
func (c *Cache) Set(key string, data []byte) {
	err := c.put(c.ctx, c.cacheKeyToObjectKey(key), data, c.gzip)
	if err != nil && c.logErrors {
		log.Printf("s3cache.set: %v", err)
	}
}

// Delete implements httpcache.Cache.
func (c *Cache) Delete(key string) {
	err := c.del(c.ctx, c.cacheKeyToObjectKey(key))
	if err != nil && c.logErrors {
		log.Printf("s3cache.delete: %v", err)
	}
}

// GetObject reads prefix+key verbatim. A missing key yields ErrNoSuchKey.
func (c *Cache) GetObject(ctx context.Context, key string) ([]byte, error) {
	return c.get(ctx, c.objectKey(key), false)
}

// PutObject writes data to prefix+key, replacing any existing object.
func (c *Cache) PutObject(ctx context.Context, key string, data []byte) error {
	return c.put(ctx, c.objectKey(key), data, false)
}

// DeleteObject removes prefix+key. Deleting a missing key is not an error.
func (c *Cache) DeleteObject(ctx context.Context, key string) error {
	return c.del(ctx, c.objectKey(key))
}

func (c *Cache) get(ctx context.Context, objKey string,
	compressed bool) ([]byte, error) {

	resp, err := c.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(objKey),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("%v/%v: %w", c.bucketName, objKey, ErrNoSuchKey)
		}
		return nil, fmt.Errorf("failed to get object %v/%v: %w", c.bucketName,
			objKey, err)
	}
	defer resp.Body.Close()

	rdr := io.Reader(resp.Body)
	if compressed {
		gr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to open compressed object %v/%v: %w",
				c.bucketName, objKey, err)
		}
		defer gr.Close()
		rdr = gr
	}
	data, err := io.ReadAll(rdr)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %v/%v: %w", c.bucketName,
			objKey, err)
	}

	return data, nil
}

func (c *Cache) put(ctx context.Context, objKey string, data []byte,
	compressed bool) error {

	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(objKey),
		Body:   bytes.NewReader(data),
	}

	if compressed {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			return fmt.Errorf("failed to gzip data for %v/%v: %w", c.bucketName,
				objKey, err)
		}
		if err := gw.Close(); err != nil {
			return fmt.Errorf("failed to close gzip writer for %v/%v: %w",
				c.bucketName, objKey, err)
		}
		input.Body = &buf
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := c.Client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put failed for %v/%v: %w", c.bucketName, objKey, err)
	}

	return nil
}

func (c *Cache) del(ctx context.Context, objKey string) error {
	_, err := c.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(objKey),
	})
	if err != nil {
		return fmt.Errorf("delete failed for %v/%v: %w", c.bucketName, objKey, err)
	}

	return nil
}

func (c *Cache) objectKey(key string) string {
	return c.prefix + key
}

func (c *Cache) cacheKeyToObjectKey(key string) string {
	h := md5.New()
	io.WriteString(h, key)
	objKey := path.Join(cachePrefix, hex.EncodeToString(h.Sum(nil)))
	if c.gzip {
		objKey += ".gz"
	}

	return objKey
}

func isNoSuchKey(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}
