// Package register implements the daily access register: the canonical
// in-memory entry list, the permission-gated state machine that mutates it,
// the derived year/month/day bucket index, and the daily view projector.
package register

import (
	"sync"

	"github.com/rlourenco/bicicletario/internal/common"
	"github.com/rlourenco/bicicletario/internal/models"
)

// Repository owns the canonical in-memory list of entries for the current
// session. It is copy-on-write: reads hand out copies, and the only way to
// change a stored entry is Replace. Holders of an Entry value never observe
// later mutations without re-fetching by id.
//
// All reads are O(n) scans over the full list, which is fine at the expected
// scale of a few thousand records.
type Repository struct {
	mu      sync.Mutex
	entries []models.Entry
}

// NewRepository builds a repository seeded with the given entries,
// preserving their order.
func NewRepository(entries []models.Entry) *Repository {
	r := &Repository{entries: make([]models.Entry, len(entries))}
	copy(r.entries, entries)
	return r
}

// GetAll returns a copy of the full entry list in insertion order.
func (r *Repository) GetAll() []models.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Add appends an entry to the list.
func (r *Repository) Add(e models.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

// FindByID returns a copy of the entry with the given id, or
// common.ErrNotFound.
func (r *Repository) FindByID(id string) (models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return models.Entry{}, common.ErrNotFound
}

// Replace updates the stored entry with the same ID, keeping its position
// in the list. Returns common.ErrNotFound if no entry has that id.
func (r *Repository) Replace(e models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].ID == e.ID {
			r.entries[i] = e
			return nil
		}
	}
	return common.ErrNotFound
}

// Remove deletes the entry with the given id. Returns common.ErrNotFound if
// no entry has that id.
func (r *Repository) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

// HasOpenEntryForBike reports whether any entry for the given bike is still
// open. Used by the companion-bike availability filter to keep the
// at-most-one-open-entry-per-bike invariant.
func (r *Repository) HasOpenEntryForBike(bikeID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].BikeID == bikeID && r.entries[i].ExitTimestamp == nil {
			return true
		}
	}
	return false
}

// Len returns the number of stored entries.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
