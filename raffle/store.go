/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package raffle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mikeb26/commanderraffle/s3cache"
)

// Store persists event documents by name (raffle.json, pairings.json, ...).
// Get returns an error wrapping ErrNotFound for a missing document.
type Store interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
}

// FileStore keeps documents as files in a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (fsx *FileStore) path(name string) string {
	return filepath.Join(fsx.dir, filepath.Base(name))
}

func (fsx *FileStore) Get(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(fsx.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%v: %w", name, ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("unable to read %v: %w", name, err)
	}

	return data, nil
}

// Put writes to a temporary file in the same directory and renames it over
// the destination so readers never observe a partial document.
func (fsx *FileStore) Put(_ context.Context, name string, data []byte) error {
	dst := fsx.path(name)
	tmp, err := os.CreateTemp(fsx.dir, filepath.Base(name)+".*.tmp")
	if err != nil {
		return fmt.Errorf("unable to write %v (create): %w", name, err)
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("unable to write %v (write): %w", name, err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("unable to write %v (rename): %w", name, err)
	}

	return nil
}

func (fsx *FileStore) Delete(_ context.Context, name string) error {
	err := os.Remove(fsx.path(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("unable to delete %v: %w", name, err)
	}

	return nil
}

// objectStore is the subset of *s3cache.Cache used by S3Store.
type objectStore interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
	PutObject(ctx context.Context, key string, data []byte) error
	DeleteObject(ctx context.Context, key string) error
}

// S3Store keeps documents as objects in an S3 bucket.
type S3Store struct {
	objects objectStore
}

// NewS3Store wraps an initialized s3cache.Cache; its prefix scopes the
// event's keys.
func NewS3Store(cache *s3cache.Cache) *S3Store {
	return &S3Store{objects: cache}
}

func (s *S3Store) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := s.objects.GetObject(ctx, name)
	if errors.Is(err, s3cache.ErrNoSuchKey) {
		return nil, fmt.Errorf("%v: %w", name, ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("unable to read %v: %w", name, err)
	}

	return data, nil
}

func (s *S3Store) Put(ctx context.Context, name string, data []byte) error {
	if err := s.objects.PutObject(ctx, name, data); err != nil {
		return fmt.Errorf("unable to write %v: %w", name, err)
	}

	return nil
}

func (s *S3Store) Delete(ctx context.Context, name string) error {
	if err := s.objects.DeleteObject(ctx, name); err != nil {
		return fmt.Errorf("unable to delete %v: %w", name, err)
	}

	return nil
}

func exists(ctx context.Context, st Store, name string) (bool, error) {
	_, err := st.Get(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	return true, nil
}
