// Package archive holds the retention rules for archived patients and employees:
// the per-entity archive store, expiry calculation, eligibility and purge.
//
// Everything in this package is a pure function of its inputs. Callers pass the
// current time explicitly and own persistence and locking.
package archive

import (
	"time"

	"clinic-archive/internal/model"
)

// Store maps an entity ID to its archive entries in chronological order.
// An entity with no entries has no key.
type Store map[string][]model.ArchiveEntry

// Append adds entry to the tail of the entity's list.
func (s Store) Append(entityID string, entry model.ArchiveEntry) {
	s[entityID] = append(s[entityID], entry)
}

// Remove deletes the entry at index and drops the key once the list is empty.
// An unknown entity or out-of-range index leaves the store untouched.
func (s Store) Remove(entityID string, index int) (model.ArchiveEntry, error) {
	entries, ok := s[entityID]
	if !ok || index < 0 || index >= len(entries) {
		return model.ArchiveEntry{}, model.ErrArchiveEntryNotFound
	}

	removed := entries[index]
	remaining := make([]model.ArchiveEntry, 0, len(entries)-1)
	remaining = append(remaining, entries[:index]...)
	remaining = append(remaining, entries[index+1:]...)

	if len(remaining) == 0 {
		delete(s, entityID)
	} else {
		s[entityID] = remaining
	}

	return removed, nil
}

// Get returns a copy of the entity's entries, empty for unknown IDs.
func (s Store) Get(entityID string) []model.ArchiveEntry {
	entries := s[entityID]
	out := make([]model.ArchiveEntry, len(entries))
	copy(out, entries)
	return out
}

func (s Store) Clone() Store {
	out := make(Store, len(s))
	for id, entries := range s {
		if len(entries) == 0 {
			continue
		}
		out[id] = append([]model.ArchiveEntry(nil), entries...)
	}
	return out
}

// Count returns the total number of entries across all entities.
func (s Store) Count() int {
	total := 0
	for _, entries := range s {
		total += len(entries)
	}
	return total
}

// HasUnexpired reports whether the entity has at least one entry still inside its retention period.
func (s Store) HasUnexpired(entityID string, now time.Time) bool {
	for _, entry := range s[entityID] {
		if !entry.Expired(now) {
			return true
		}
	}
	return false
}
