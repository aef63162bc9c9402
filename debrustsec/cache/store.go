package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/debian-rust/deb-rust-sec/internal/log"
)

const fileExtension = ".json"

// Entry is the on-disk representation of a cached value.
type Entry struct {
	CapturedAt time.Time       `json:"captured_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Store persists values on disk under a single directory, one file per key. Reads fail soft: a missing,
// unreadable, corrupt or expired entry is reported as absent, never as an error. Expired entries are left
// on disk until the next successful Put for the same key replaces them.
type Store struct {
	fs  afero.Fs
	dir string
	now func() time.Time
}

func NewStore(fs afero.Fs, dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("no cache directory given")
	}
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create cache directory (%s): %w", dir, err)
	}
	return &Store{
		fs:  fs,
		dir: dir,
		now: time.Now,
	}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid cache key %q", key)
	}
	return filepath.Join(s.dir, key+fileExtension), nil
}

func (s *Store) read(key string) (*Entry, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	contents, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(contents, &entry); err != nil {
		return nil, fmt.Errorf("unable to decode cache entry (%s): %w", path, err)
	}
	if entry.CapturedAt.IsZero() {
		return nil, fmt.Errorf("cache entry has no capture time (%s)", path)
	}
	return &entry, nil
}

// Get decodes the payload stored under key into v, provided the entry is no older than ttl. The
// return value indicates whether v was populated.
func (s *Store) Get(key string, ttl time.Duration, v interface{}) bool {
	entry, err := s.read(key)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Debugf("ignoring unreadable cache entry %q: %+v", key, err)
		}
		return false
	}

	age := s.now().Sub(entry.CapturedAt)
	switch {
	case age < 0:
		log.Debugf("ignoring cache entry %q captured in the future (%s)", key, entry.CapturedAt)
		return false
	case age > ttl:
		log.Debugf("cache entry %q expired (captured %s)", key, humanize.Time(entry.CapturedAt))
		return false
	}

	if err := json.Unmarshal(entry.Payload, v); err != nil {
		log.Debugf("ignoring cache entry %q with malformed payload: %+v", key, err)
		return false
	}

	log.Debugf("using cache entry %q (captured %s)", key, humanize.Time(entry.CapturedAt))
	return true
}

// Age reports how long ago the entry under key was captured, regardless of any TTL.
func (s *Store) Age(key string) (time.Duration, bool) {
	entry, err := s.read(key)
	if err != nil {
		return 0, false
	}
	return s.now().Sub(entry.CapturedAt), true
}

// Put replaces the entry under key with v, stamped with the current time. The entry is written to a
// temporary file in the cache directory and renamed into place, so readers never observe a partial file.
func (s *Store) Put(key string, v interface{}) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("unable to encode cache payload for %q: %w", key, err)
	}

	contents, err := json.Marshal(Entry{
		CapturedAt: s.now(),
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("unable to encode cache entry for %q: %w", key, err)
	}

	tmp, err := afero.TempFile(s.fs, s.dir, "."+key+"-*")
	if err != nil {
		return fmt.Errorf("unable to create temporary cache file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(contents); err != nil {
		log.CloseAndLogError(tmp, tmpPath)
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("unable to write cache entry for %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("unable to write cache entry for %q: %w", key, err)
	}

	if err := s.fs.Rename(tmpPath, path); err != nil {
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("unable to replace cache entry (%s): %w", path, err)
	}
	return nil
}

// Keys lists the keys of every entry currently on disk, expired or not, in lexical order.
func (s *Store) Keys() ([]string, error) {
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("unable to list cache directory (%s): %w", s.dir, err)
	}

	var keys []string
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileExtension) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, fileExtension))
	}
	return keys, nil
}

// Clear removes everything under the cache directory, including content not written through the store.
func (s *Store) Clear() error {
	if err := s.fs.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("unable to remove cache directory (%s): %w", s.dir, err)
	}
	return s.fs.MkdirAll(s.dir, 0755)
}
