package state

import (
	"sync"

	"bookclub/internal/domain/club"
)

// Directory is the shared in-memory collection of club summaries consumed by
// the club list page. Managers push a club's new state into it after every
// successful mutation so other views stay consistent.
type Directory struct {
	mu    sync.RWMutex
	clubs []club.Summary
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{}
}

// Replace swaps the whole collection, preserving the given order.
func (d *Directory) Replace(clubs []club.Summary) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clubs = append([]club.Summary(nil), clubs...)
}

// Merge pushes one club's new state into the collection. An existing entry
// with the same id is replaced in place; an unknown club is appended.
// POST: exactly one entry with the club's id exists
func (d *Directory) Merge(c club.Club) {
	s := c.Summarize()
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.clubs {
		if d.clubs[i].ID == s.ID {
			d.clubs[i] = s
			return
		}
	}
	d.clubs = append(d.clubs, s)
}

// List returns a copy of the collection.
func (d *Directory) List() []club.Summary {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]club.Summary(nil), d.clubs...)
}

// Len returns the number of clubs in the directory.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.clubs)
}
