/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/mikeb26/commanderraffle/s3cache"
)

// NewCachedHttpClient returns an http.Client whose responses are cached for
// maxAge regardless of what the origin says. Entries are kept in the named S3
// bucket; with no bucket, or if the bucket cannot be reached, an in-memory
// cache is used instead.
func NewCachedHttpClient(ctx context.Context, bucket string,
	maxAge time.Duration) *http.Client {

	var cache httpcache.Cache
	if bucket != "" {
		s3c := s3cache.New(ctx, bucket, true, true)
		if err := s3c.Init(); err != nil {
			log.Printf("httpcache: warning failed to init S3 cache: %v; falling back to in-memory cache", err)
		} else {
			cache = s3c
		}
	}
	if cache == nil {
		cache = httpcache.NewMemoryCache()
	}

	return newCachedClient(cache, http.DefaultTransport, maxAge)
}

func newCachedClient(cache httpcache.Cache, rt http.RoundTripper,
	maxAge time.Duration) *http.Client {

	hc := httpcache.NewTransport(cache)
	// origin cache headers are replaced so that every successful response is
	// cached for maxAge
	hc.Transport = &HeaderOverrideTransport{
		wrappedRT: rt,
		Request: func(req *http.Request) {
			if req.Header.Get("User-Agent") == "" {
				req.Header.Set("User-Agent", UserAgent)
			}
		},
		Response: func(resp *http.Response) error {
			resp.Header.Del("Pragma")
			resp.Header.Del("Expires")
			resp.Header.Del("Cache-Control")
			if resp.StatusCode == http.StatusOK {
				resp.Header.Set("Cache-Control", fmt.Sprintf("public, max-age=%d",
					int(maxAge/time.Second)))
			} else {
				resp.Header.Set("Cache-Control", "no-store")
			}
			return nil
		},
	}

	return &http.Client{Transport: hc}
}

type HeaderOverrideTransport struct {
	Request  func(req *http.Request)
	Response func(resp *http.Response) error

	// Underlying RoundTripper (e.g. default transport or another decorator)
	wrappedRT http.RoundTripper
}

// RoundTrip applies Request and Response hooks around the underlying transport.
func (t *HeaderOverrideTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so we don’t stomp on the caller’s original
	req2 := req.Clone(req.Context())
	if t.Request != nil {
		t.Request(req2)
	}

	rt := t.wrappedRT
	if rt == nil {
		rt = http.DefaultTransport
	}
	resp, err := rt.RoundTrip(req2)
	if err != nil {
		return nil, err
	}

	if t.Response != nil {
		if err := t.Response(resp); err != nil {
			resp.Body.Close()
			return nil, err
		}
	}
	return resp, nil
}
