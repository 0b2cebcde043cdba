package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/bcdl/internal/model"
)

func testAlbum() (*model.Album, *model.Track) {
	track := &model.Track{Number: 3, Title: "Third Song", Lyrics: "la la la"}
	album := &model.Album{
		Artist: "Tag Artist",
		Title:  "Tag Album",
		Tracks: []*model.Track{track},
	}
	return album, track
}

func TestTagger_Tag_WritesFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "03 - Third Song.mp3")
	require.NoError(t, os.WriteFile(path, []byte("fake audio payload"), 0644))

	album, track := testAlbum()
	tagger := NewTagger(nil)
	require.NoError(t, tagger.Tag(path, album, track, []byte("jpeg-bytes")))

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()

	assert.Equal(t, "Tag Artist", tag.Artist())
	assert.Equal(t, "Tag Album", tag.Album())
	assert.Equal(t, "Third Song", tag.Title())

	pictures := tag.GetFrames(tag.CommonID("Attached picture"))
	require.Len(t, pictures, 1)
	picture, ok := pictures[0].(id3v2.PictureFrame)
	require.True(t, ok)
	assert.Equal(t, []byte("jpeg-bytes"), picture.Picture)
}

func TestTagger_Tag_MissingFile(t *testing.T) {
	album, track := testAlbum()
	tagger := NewTagger(nil)

	err := tagger.Tag(filepath.Join(t.TempDir(), "nope.mp3"), album, track, nil)
	assert.Error(t, err)
}

func TestTagger_Tag_NoArtworkLeavesNoPicture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mp3")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	album, track := testAlbum()
	tagger := NewTagger(nil)
	require.NoError(t, tagger.Tag(path, album, track, nil))

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()

	assert.Empty(t, tag.GetFrames(tag.CommonID("Attached picture")))
}
