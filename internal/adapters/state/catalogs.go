package state

import (
	"sync"

	"bookclub/internal/domain/catalog"
)

// Catalogs holds the read-only book and genre reference lists used to
// populate selection controls. Fetched from the backend once and shared.
type Catalogs struct {
	mu     sync.RWMutex
	books  catalog.Books
	genres catalog.Genres
}

// NewCatalogs creates an empty catalog holder.
func NewCatalogs() *Catalogs {
	return &Catalogs{}
}

// Replace swaps both reference lists.
func (c *Catalogs) Replace(books catalog.Books, genres catalog.Genres) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.books = append(catalog.Books(nil), books...)
	c.genres = append(catalog.Genres(nil), genres...)
}

// Books returns a copy of the book catalog.
func (c *Catalogs) Books() catalog.Books {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append(catalog.Books(nil), c.books...)
}

// Genres returns a copy of the genre catalog.
func (c *Catalogs) Genres() catalog.Genres {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append(catalog.Genres(nil), c.genres...)
}

// Empty reports whether the catalogs have not been loaded yet.
func (c *Catalogs) Empty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.books) == 0 && len(c.genres) == 0
}
