package source

import (
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/etnz/holdings"
)

// Snapshot is a holdings list and the time it was retrieved.
type Snapshot struct {
	Holdings  []holdings.Holding `msgpack:"holdings"`
	UpdatedAt time.Time          `msgpack:"updated_at"`
}

// Cache persists the last good snapshot in a msgpack file, so that a restart
// shows the previous data while the first poll is in flight.
type Cache struct {
	path string
}

// NewCache returns a cache stored at path.
func NewCache(path string) *Cache { return &Cache{path: path} }

// Path returns the cache file.
func (c *Cache) Path() string { return c.path }

// Load reads the cached snapshot. A missing file returns an error satisfying
// errors.Is(err, fs.ErrNotExist).
func (c *Cache) Load() (Snapshot, error) {
	var s Snapshot
	data, err := os.ReadFile(c.path)
	if err != nil {
		return s, err
	}
	err = msgpack.Unmarshal(data, &s)
	return s, err
}

// Save replaces the cached snapshot.
func (c *Cache) Save(s Snapshot) error {
	data, err := msgpack.Marshal(s)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(c.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	// write then rename, a reader never sees a partial file.
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}
