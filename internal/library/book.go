package library

import (
	"fmt"
	"sort"
	"strings"
)

// Status is the reading state of a book in the collection.
type Status string

const (
	StatusWantToRead Status = "want_to_read"
	StatusBought     Status = "bought"
	StatusRead       Status = "read"
	StatusLent       Status = "lent"
)

var statusOrder = []Status{StatusWantToRead, StatusBought, StatusRead, StatusLent}

var statusLabels = map[Status]string{
	StatusWantToRead: "Want to Read",
	StatusBought:     "Bought",
	StatusRead:       "Read",
	StatusLent:       "Lent",
}

// Statuses returns every status in display order.
func Statuses() []Status {
	return append([]Status(nil), statusOrder...)
}

// ParseStatus accepts the wire value of a status (case and surrounding space
// insensitive).
func ParseStatus(value string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := statusLabels[s]; !ok {
		return "", fmt.Errorf("unknown status %q", value)
	}
	return s, nil
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the human readable name of the status.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Next returns the status following s in display order, wrapping around.
func (s Status) Next() Status {
	for i, st := range statusOrder {
		if st == s {
			return statusOrder[(i+1)%len(statusOrder)]
		}
	}
	return statusOrder[0]
}

// Prev returns the status preceding s in display order, wrapping around.
func (s Status) Prev() Status {
	for i, st := range statusOrder {
		if st == s {
			return statusOrder[(i-1+len(statusOrder))%len(statusOrder)]
		}
	}
	return statusOrder[0]
}

// Book mirrors a record of the library-records backend.
type Book struct {
	ID           string   `json:"id"`
	CatalogID    string   `json:"googleBooksId"`
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	Status       Status   `json:"status"`
	LentTo       string   `json:"lentTo,omitempty"`
}

// AuthorLine joins the authors for display.
func (b Book) AuthorLine() string {
	return JoinAuthors(b.Authors)
}

// Draft is the input of Store.Add. The store assigns the id.
type Draft struct {
	CatalogID    string   `json:"googleBooksId"`
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	Status       Status   `json:"status"`
}

// Change is the input of Store.Update.
type Change struct {
	Status Status `json:"status"`
	LentTo string `json:"lentTo,omitempty"`
}

// Normalize drops the borrower unless the book is being lent out.
func (c Change) Normalize() Change {
	c.LentTo = strings.TrimSpace(c.LentTo)
	if c.Status != StatusLent {
		c.LentTo = ""
	}
	return c
}

// JoinAuthors renders an author list, falling back to "Unknown Author".
func JoinAuthors(authors []string) string {
	parts := make([]string, 0, len(authors))
	for _, a := range authors {
		if a = strings.TrimSpace(a); a != "" {
			parts = append(parts, a)
		}
	}
	if len(parts) == 0 {
		return "Unknown Author"
	}
	return strings.Join(parts, ", ")
}

func cloneBook(b Book) Book {
	b.Authors = append([]string(nil), b.Authors...)
	return b
}

func cloneBooks(books []Book) []Book {
	dup := make([]Book, len(books))
	for i, b := range books {
		dup[i] = cloneBook(b)
	}
	return dup
}

// FilterByStatus returns the books with the given status. An empty status
// keeps every book.
func FilterByStatus(books []Book, status Status) []Book {
	if status == "" {
		return append([]Book(nil), books...)
	}
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out
}

// CountByStatus tallies books per status.
func CountByStatus(books []Book) map[Status]int {
	counts := make(map[Status]int, len(statusOrder))
	for _, b := range books {
		counts[b.Status]++
	}
	return counts
}

// SortOrder selects how the collection is ordered for display.
type SortOrder string

const (
	SortAdded  SortOrder = "date"
	SortTitle  SortOrder = "title"
	SortAuthor SortOrder = "author"
)

var sortOrders = []SortOrder{SortAdded, SortTitle, SortAuthor}

// ParseSortOrder falls back to SortAdded for unknown values.
func ParseSortOrder(value string) SortOrder {
	v := SortOrder(strings.ToLower(strings.TrimSpace(value)))
	for _, o := range sortOrders {
		if o == v {
			return o
		}
	}
	return SortAdded
}

// Next returns the following sort order, wrapping around.
func (o SortOrder) Next() SortOrder {
	for i, s := range sortOrders {
		if s == o {
			return sortOrders[(i+1)%len(sortOrders)]
		}
	}
	return sortOrders[0]
}

// Label returns the display name of the order.
func (o SortOrder) Label() string {
	switch o {
	case SortTitle:
		return "Title"
	case SortAuthor:
		return "Author"
	default:
		return "Date Added"
	}
}

// Sort returns a sorted copy of books. Stores list books in the order they
// were added, so SortAdded shows the newest first.
func Sort(books []Book, order SortOrder) []Book {
	out := append([]Book(nil), books...)
	switch order {
	case SortTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	case SortAuthor:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(firstAuthor(out[i])) < strings.ToLower(firstAuthor(out[j]))
		})
	default:
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

func firstAuthor(b Book) string {
	if len(b.Authors) == 0 {
		return ""
	}
	return b.Authors[0]
}
