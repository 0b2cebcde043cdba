// Package audio writes ID3 tags to downloaded MP3 files.
package audio

import (
	"fmt"

	"github.com/bogem/id3v2"
	"go.uber.org/zap"

	"github.com/handiism/bcdl/internal/model"
)

// Tagger writes artist/album/title/track-number frames, lyrics when the
// page carried them, and optionally an embedded front cover.
type Tagger struct {
	log *zap.Logger
}

// NewTagger creates a Tagger. A nil logger disables diagnostics.
func NewTagger(log *zap.Logger) *Tagger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tagger{log: log}
}

// Tag updates the ID3 tags of the MP3 at path from the album and track
// metadata. artwork, when non-nil, is embedded as the front cover
// (JPEG bytes expected).
func (t *Tagger) Tag(path string, album *model.Album, track *model.Track, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open %s for tagging: %w", path, err)
	}
	defer tag.Close()

	tag.SetArtist(album.Artist)
	tag.SetAlbum(album.Title)
	tag.SetTitle(track.Title)
	tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, album.Artist)
	tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, fmt.Sprintf("%d", track.Number))

	if track.Lyrics != "" {
		tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
			Encoding:          id3v2.EncodingUTF8,
			Language:          "eng",
			ContentDescriptor: "",
			Lyrics:            track.Lyrics,
		})
	}

	if artwork != nil {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     artwork,
		})
	}

	if err := tag.Save(); err != nil {
		return err
	}
	t.log.Debug("tagged", zap.String("path", path))
	return nil
}
