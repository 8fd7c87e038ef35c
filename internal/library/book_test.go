package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"want_to_read", StatusWantToRead, false},
		{" LENT ", StatusLent, false},
		{"bought", StatusBought, false},
		{"read", StatusRead, false},
		{"borrowed", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusCycling(t *testing.T) {
	assert.Equal(t, StatusBought, StatusWantToRead.Next())
	assert.Equal(t, StatusWantToRead, StatusLent.Next())
	assert.Equal(t, StatusLent, StatusWantToRead.Prev())
	assert.Equal(t, StatusWantToRead, Status("bogus").Next())
	assert.Equal(t, "Want to Read", StatusWantToRead.Label())
	assert.Len(t, Statuses(), 4)
}

func TestChangeNormalize(t *testing.T) {
	c := Change{Status: StatusLent, LentTo: "  Alice "}.Normalize()
	assert.Equal(t, "Alice", c.LentTo)

	c = Change{Status: StatusBought, LentTo: "Alice"}.Normalize()
	assert.Empty(t, c.LentTo)
}

func TestJoinAuthors(t *testing.T) {
	assert.Equal(t, "Unknown Author", JoinAuthors(nil))
	assert.Equal(t, "Unknown Author", JoinAuthors([]string{" "}))
	assert.Equal(t, "A, B", JoinAuthors([]string{"A", "", "B"}))
}

func TestFilterAndCount(t *testing.T) {
	books := []Book{
		{ID: "1", Status: StatusRead},
		{ID: "2", Status: StatusLent},
		{ID: "3", Status: StatusRead},
	}
	assert.Len(t, FilterByStatus(books, ""), 3)
	read := FilterByStatus(books, StatusRead)
	require.Len(t, read, 2)
	assert.Equal(t, "1", read[0].ID)
	assert.Empty(t, FilterByStatus(books, StatusBought))

	counts := CountByStatus(books)
	assert.Equal(t, 2, counts[StatusRead])
	assert.Equal(t, 1, counts[StatusLent])
	assert.Equal(t, 0, counts[StatusBought])
}

func TestSort(t *testing.T) {
	books := []Book{
		{ID: "1", Title: "dune", Authors: []string{"Herbert"}},
		{ID: "2", Title: "Emma", Authors: []string{"Austen"}},
		{ID: "3", Title: "anna karenina", Authors: nil},
	}

	ids := func(bs []Book) []string {
		out := make([]string, len(bs))
		for i, b := range bs {
			out[i] = b.ID
		}
		return out
	}

	assert.Equal(t, []string{"3", "1", "2"}, ids(Sort(books, SortTitle)))
	assert.Equal(t, []string{"3", "2", "1"}, ids(Sort(books, SortAuthor)))
	assert.Equal(t, []string{"3", "2", "1"}, ids(Sort(books, SortAdded)))
	assert.Equal(t, "1", books[0].ID, "Sort must not reorder its input")
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortTitle, ParseSortOrder(" Title "))
	assert.Equal(t, SortAdded, ParseSortOrder("unknown"))
	assert.Equal(t, SortTitle, SortAdded.Next())
	assert.Equal(t, SortAdded, SortAuthor.Next())
}
