// Package localcache is a small device-local key/value store kept in a
// single JSON file. It backs the fallback copy of the latest assessment
// and the signed-in session.
package localcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Well-known keys.
const (
	KeyAssessment = "focusAssessmentResults"
	KeySession    = "session"
)

const fileName = "localcache.json"

// Cache is safe for concurrent use.
type Cache struct {
	mu   sync.Mutex
	path string
	data map[string]json.RawMessage
}

// Open loads the cache in dir, creating dir if needed. A missing or
// corrupt file starts an empty cache.
func Open(dir string) (*Cache, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache dir required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	c := &Cache{
		path: filepath.Join(dir, fileName),
		data: make(map[string]json.RawMessage),
	}
	if data, err := c.load(); err == nil && data != nil {
		c.data = data
	}
	return c, nil
}

// Path returns the backing file.
func (c *Cache) Path() string { return c.path }

// Get decodes the value under key into v and reports whether it existed.
func (c *Cache) Get(key string, v any) (bool, error) {
	c.mu.Lock()
	raw, ok := c.data[key]
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores v under key and flushes to disk.
func (c *Cache) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return c.flushLocked()
}

func (c *Cache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; !ok {
		return nil
	}
	delete(c.data, key)
	return c.flushLocked()
}

// Clear removes every key and the backing file.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]json.RawMessage)
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", c.path, err)
	}
	return nil
}

// load decodes the backing file. A file holding JSON null yields a nil map.
func (c *Cache) load() (map[string]json.RawMessage, error) {
	b, err := os.ReadFile(c.path)
	if err != nil {
		return nil, err
	}
	var data map[string]json.RawMessage
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// flushLocked writes through a temp file so a crash never leaves a
// truncated cache behind.
func (c *Cache) flushLocked() error {
	b, err := json.MarshalIndent(c.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(c.path), fileName+".*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}
