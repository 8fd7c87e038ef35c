package catalog

import (
	"strings"

	"github.com/five82/shelf/internal/library"
)

// searchResponse mirrors the volumes search payload.
type searchResponse struct {
	TotalItems int          `json:"totalItems"`
	Items      []volumeItem `json:"items"`
}

type volumeItem struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title         string      `json:"title"`
	Authors       []string    `json:"authors"`
	ImageLinks    *imageLinks `json:"imageLinks"`
	Description   string      `json:"description"`
	PublishedDate string      `json:"publishedDate"`
}

type imageLinks struct {
	Thumbnail      string `json:"thumbnail"`
	SmallThumbnail string `json:"smallThumbnail"`
}

// Volume is a flattened search result.
type Volume struct {
	ID            string
	Title         string
	Authors       []string
	ThumbnailURL  string
	SmallThumbURL string
	PublishedDate string
	Description   string
}

func (v volumeItem) flatten() Volume {
	out := Volume{
		ID:            v.ID,
		Title:         strings.TrimSpace(v.VolumeInfo.Title),
		Authors:       append([]string(nil), v.VolumeInfo.Authors...),
		PublishedDate: strings.TrimSpace(v.VolumeInfo.PublishedDate),
		Description:   strings.TrimSpace(v.VolumeInfo.Description),
	}
	if links := v.VolumeInfo.ImageLinks; links != nil {
		out.ThumbnailURL = links.Thumbnail
		out.SmallThumbURL = links.SmallThumbnail
	}
	return out
}

// AuthorLine joins the authors for display.
func (v Volume) AuthorLine() string {
	return library.JoinAuthors(v.Authors)
}

// Draft turns the volume into an add request. New books start as
// want-to-read.
func (v Volume) Draft() library.Draft {
	authors := append([]string{}, v.Authors...)
	return library.Draft{
		CatalogID:    v.ID,
		Title:        v.Title,
		Authors:      authors,
		ThumbnailURL: v.ThumbnailURL,
		Status:       library.StatusWantToRead,
	}
}

// ValidQuery reports whether a query is long enough to submit.
func ValidQuery(query string) bool {
	return len([]rune(strings.TrimSpace(query))) >= MinQueryLength
}
