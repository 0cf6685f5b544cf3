/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package raffle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mikeb26/commanderraffle/s3cache"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string][]byte)}
}

func (m *memStore) Get(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.docs[name]
	if !ok {
		return nil, fmt.Errorf("%v: %w", name, ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

func (m *memStore) Put(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[name] = append([]byte(nil), data...)
	return nil
}

func (m *memStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, name)
	return nil
}

// fakeObjects mimics the s3cache object API.
type fakeObjects struct {
	objs   map[string][]byte
	getErr error
}

func (f *fakeObjects) GetObject(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objs[key]
	if !ok {
		return nil, fmt.Errorf("bucket/%v: %w", key, s3cache.ErrNoSuchKey)
	}
	return data, nil
}

func (f *fakeObjects) PutObject(_ context.Context, key string, data []byte) error {
	f.objs[key] = data
	return nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, key string) error {
	delete(f.objs, key)
	return nil
}

func exerciseStore(t *testing.T, st Store) {
	ctx := context.Background()

	if _, err := st.Get(ctx, "raffle.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing: err = %v; want ErrNotFound", err)
	}
	if err := st.Put(ctx, "raffle.json", []byte("[]")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := st.Put(ctx, "raffle.json", []byte(`[{"deck_id":1}]`)); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	data, err := st.Get(ctx, "raffle.json")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != `[{"deck_id":1}]` {
		t.Errorf("Get = %q", data)
	}
	if err := st.Delete(ctx, "raffle.json"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := st.Delete(ctx, "raffle.json"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
	if _, err := st.Get(ctx, "raffle.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: err = %v; want ErrNotFound", err)
	}
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	exerciseStore(t, NewFileStore(dir))

	// no temporary files are left behind
	st := NewFileStore(dir)
	if err := st.Put(context.Background(), "pairings.json", []byte("{}")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
	if _, err := os.Stat(filepath.Join(dir, "pairings.json")); err != nil {
		t.Errorf("pairings.json not written: %v", err)
	}
}

func TestFileStoreMissingDir(t *testing.T) {
	st := NewFileStore(filepath.Join(t.TempDir(), "nope"))
	if err := st.Put(context.Background(), "raffle.json", []byte("[]")); err == nil {
		t.Errorf("expected error writing into a missing directory")
	}
}

func TestS3Store(t *testing.T) {
	exerciseStore(t, &S3Store{objects: &fakeObjects{objs: map[string][]byte{}}})

	boom := errors.New("access denied")
	st := &S3Store{objects: &fakeObjects{objs: map[string][]byte{}, getErr: boom}}
	_, err := st.Get(context.Background(), "raffle.json")
	if !errors.Is(err, boom) || errors.Is(err, ErrNotFound) {
		t.Errorf("Get: err = %v; want wrapped access denied", err)
	}
}

func TestMemStore(t *testing.T) {
	exerciseStore(t, newMemStore())
}
