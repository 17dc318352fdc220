// Package subscription holds the shared topic-to-directory mapping and
// the control-plane operations that mutate it while the pipeline runs.
package subscription

import "sync"

// Table is the shared mapping from notification topic to download
// directory. Workers read it concurrently while control-plane requests
// insert or remove entries; each update is a single atomic
// insert-or-erase, so readers never observe a partial entry.
type Table struct {
	mu   sync.RWMutex
	subs map[string]string
}

// NewTable creates an empty subscription table.
func NewTable() *Table {
	return &Table{
		subs: make(map[string]string),
	}
}

// Get returns the download directory for a topic, or defaultDir if the
// topic is not present. It never blocks a worker indefinitely.
func (t *Table) Get(topic, defaultDir string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if dir, ok := t.subs[topic]; ok {
		return dir
	}
	return defaultDir
}

// Add inserts a topic with its download directory. An existing entry is
// never overwritten; Add reports whether an insert actually happened.
func (t *Table) Add(topic, dir string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.subs[topic]; ok {
		return false
	}

	t.subs[topic] = dir
	return true
}

// Remove deletes a topic and reports whether it was present.
func (t *Table) Remove(topic string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.subs[topic]; !ok {
		return false
	}

	delete(t.subs, topic)
	return true
}

// Snapshot returns a copy of the current mapping.
func (t *Table) Snapshot() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	subs := make(map[string]string, len(t.subs))
	for topic, dir := range t.subs {
		subs[topic] = dir
	}
	return subs
}
