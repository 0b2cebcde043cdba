package bandcamp

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"

	"github.com/handiism/bcdl/internal/model"
)

// ErrNoTralbum is returned when a page contains no data-tralbum blob.
// This is fatal for that album's resolution but must not abort a
// surrounding multi-album batch.
var ErrNoTralbum = errors.New("no data-tralbum metadata found in page")

// tralbum mirrors the embedded JSON payload. Fields the downloader does
// not consume are intentionally absent.
type tralbum struct {
	IsPurchased bool   `json:"is_purchased"`
	Artist      string `json:"artist"`
	Current     struct {
		Title string `json:"title"`
	} `json:"current"`
	TrackInfo []tralbumTrack `json:"trackinfo"`
}

type tralbumTrack struct {
	Number   int               `json:"track_num"`
	Title    string            `json:"title"`
	Duration float64           `json:"duration"`
	Lyrics   string            `json:"lyrics"`
	File     map[string]string `json:"file"`
}

// Parser extracts album information from Bandcamp album page HTML.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a Parser. A nil logger disables warnings.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log}
}

// ParseAlbumPage extracts and validates the data-tralbum payload of an
// album or track page.
//
// Returns ErrNoTralbum when the page carries no payload. When a page
// carries more than one, the first is used and a warning is logged; that
// ambiguity is not fatal.
func (p *Parser) ParseAlbumPage(htmlContent string) (*model.Album, error) {
	raw, count, err := extractTralbum(htmlContent)
	if err != nil {
		return nil, err
	}
	if count > 1 {
		p.log.Warn("multiple data-tralbum blobs on page, using the first",
			zap.Int("count", count))
	}

	var data tralbum
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("malformed tralbum JSON: %w", err)
	}
	return toAlbum(&data)
}

// extractTralbum returns the first data-tralbum JSON blob in the page
// and the total number of blobs found.
//
// The JSON lives in an HTML attribute, so it arrives entity-escaped:
//
//	<script ... data-tralbum="{&quot;artist&quot;:...}">
func extractTralbum(htmlContent string) (string, int, error) {
	const startMarker = `data-tralbum="{`
	const endMarker = `}"`

	count := strings.Count(htmlContent, startMarker)
	if count == 0 {
		return "", 0, ErrNoTralbum
	}

	start := strings.Index(htmlContent, startMarker)
	start += len(startMarker) - 1 // keep the opening brace
	remaining := htmlContent[start:]

	end := strings.Index(remaining, endMarker)
	if end == -1 {
		return "", count, fmt.Errorf("unterminated data-tralbum attribute")
	}

	return html.UnescapeString(remaining[:end+1]), count, nil
}

// toAlbum validates the payload and converts it to the model type.
// Validation is fail-fast: a payload missing its identifying fields, or
// carrying a non-positive track number, is rejected outright rather than
// producing a half-usable album.
func toAlbum(data *tralbum) (*model.Album, error) {
	if data.Artist == "" {
		return nil, fmt.Errorf("tralbum metadata missing artist")
	}
	if data.Current.Title == "" {
		return nil, fmt.Errorf("tralbum metadata missing album title")
	}

	album := &model.Album{
		Artist:      data.Artist,
		Title:       data.Current.Title,
		IsPurchased: data.IsPurchased,
		Tracks:      make([]*model.Track, 0, len(data.TrackInfo)),
	}

	for i, tt := range data.TrackInfo {
		if tt.Number <= 0 {
			return nil, fmt.Errorf("track %d of %q: non-positive track number %d", i+1, album.Title, tt.Number)
		}
		album.Tracks = append(album.Tracks, &model.Track{
			Number:   tt.Number,
			Title:    tt.Title,
			Duration: tt.Duration,
			Lyrics:   tt.Lyrics,
			Sources:  tt.File,
		})
	}

	return album, nil
}
