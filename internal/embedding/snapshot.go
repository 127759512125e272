package embedding

import (
	"container/list"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SnapshotEntry is the persisted form of a single cache entry.
type SnapshotEntry struct {
	Key       string    `json:"key"`
	Vector    []float64 `json:"vector"`
	CreatedAt time.Time `json:"created_at"`
}

// SnapshotFile bundles both engine caches for warm restart.
type SnapshotFile struct {
	Candidates []SnapshotEntry `json:"candidates"`
	References []SnapshotEntry `json:"references"`
}

// Snapshot returns the cache contents in most-recently-used-first order.
func (c *Cache) Snapshot() []SnapshotEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]SnapshotEntry, 0, c.order.Len())
	for element := c.order.Front(); element != nil; element = element.Next() {
		entry := element.Value.(*cacheEntry)
		entries = append(entries, SnapshotEntry{
			Key:       entry.key,
			Vector:    entry.vector,
			CreatedAt: entry.createdAt,
		})
	}
	return entries
}

// Restore replaces the cache contents with the snapshot, preserving the
// recorded recency order and creation timestamps. Entries beyond capacity
// are discarded from the least-recent end.
func (c *Cache) Restore(entries []SnapshotEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order = list.New()
	c.items = make(map[string]*list.Element, c.capacity)

	for _, snap := range entries {
		if snap.Key == "" || len(snap.Vector) == 0 {
			continue
		}
		if _, exists := c.items[snap.Key]; exists {
			continue
		}
		if c.order.Len() >= c.capacity {
			break
		}
		element := c.order.PushBack(&cacheEntry{
			key:       snap.Key,
			vector:    snap.Vector,
			createdAt: snap.CreatedAt,
		})
		c.items[snap.Key] = element
	}
}

// SaveSnapshot writes both caches to path with an atomic replace.
func SaveSnapshot(path string, candidates, references *Cache) error {
	file := SnapshotFile{
		Candidates: candidates.Snapshot(),
		References: references.Snapshot(),
	}

	raw, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshal cache snapshot: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write cache snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace cache snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot restores both caches from path. A missing or corrupt
// snapshot leaves the caches empty and returns an error for logging; it is
// never fatal to the caller.
func LoadSnapshot(path string, candidates, references *Cache) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read cache snapshot: %w", err)
	}

	var file SnapshotFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("decode cache snapshot: %w", err)
	}

	candidates.Restore(file.Candidates)
	references.Restore(file.References)
	return nil
}
