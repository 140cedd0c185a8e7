package catalog

// Book is a read-only catalog entry used to populate the reading selector.
type Book struct {
	ID       int
	Title    string
	Author   string
	ImageURL string
}

// Genre is a read-only catalog entry used to populate the genre selector.
type Genre struct {
	ID   int
	Name string
}

// Books is a catalog of books in server order.
type Books []Book

// FindByID returns the book with the given id.
// INVARIANT: the catalog is not mutated
func (b Books) FindByID(id int) (Book, bool) {
	for _, book := range b {
		if book.ID == id {
			return book, true
		}
	}
	return Book{}, false
}

// Genres is a catalog of genres in server order.
type Genres []Genre

// FindByID returns the genre with the given id.
// INVARIANT: the catalog is not mutated
func (g Genres) FindByID(id int) (Genre, bool) {
	for _, genre := range g {
		if genre.ID == id {
			return genre, true
		}
	}
	return Genre{}, false
}

// Select returns the catalog entries whose ids are in the given set,
// in catalog order. Unknown ids are ignored.
func (g Genres) Select(ids map[int]bool) []Genre {
	var out []Genre
	for _, genre := range g {
		if ids[genre.ID] {
			out = append(out, genre)
		}
	}
	return out
}
