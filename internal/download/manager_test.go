package download

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/bcdl/internal/bandcamp"
	"github.com/handiism/bcdl/internal/config"
)

// albumPageHTML renders an album page whose track sources point back at
// the given base URL.
func albumPageHTML(baseURL string, purchased bool) string {
	return fmt.Sprintf(`<html><head>
<script data-tralbum="{
	&quot;is_purchased&quot;:%t,
	&quot;artist&quot;:&quot;Some Artist&quot;,
	&quot;current&quot;:{&quot;title&quot;:&quot;Some Album&quot;},
	&quot;trackinfo&quot;:[
		{&quot;track_num&quot;:1,&quot;title&quot;:&quot;Opener&quot;,&quot;duration&quot;:100,&quot;file&quot;:{&quot;mp3-128&quot;:&quot;%s/t1.mp3&quot;}},
		{&quot;track_num&quot;:2,&quot;title&quot;:&quot;Closer&quot;,&quot;duration&quot;:120,&quot;file&quot;:{&quot;mp3-128&quot;:&quot;%s/t2.mp3&quot;}}
	]
}"></script>
</head></html>`, purchased, baseURL, baseURL)
}

type managerFixture struct {
	server        *httptest.Server
	assetRequests *atomic.Int64
	settings      *config.Settings
}

func newManagerFixture(t *testing.T, purchased bool) *managerFixture {
	t.Helper()

	fixture := &managerFixture{assetRequests: new(atomic.Int64)}

	mux := http.NewServeMux()
	mux.HandleFunc("/album", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(albumPageHTML(fixture.server.URL, purchased)))
	})
	mux.HandleFunc("/t1.mp3", func(w http.ResponseWriter, r *http.Request) {
		fixture.assetRequests.Add(1)
		_, _ = w.Write([]byte("audio one"))
	})
	mux.HandleFunc("/t2.mp3", func(w http.ResponseWriter, r *http.Request) {
		fixture.assetRequests.Add(1)
		_, _ = w.Write([]byte("audio two"))
	})
	mux.HandleFunc("/art.jpg", func(w http.ResponseWriter, r *http.Request) {
		fixture.assetRequests.Add(1)
		_, _ = w.Write([]byte("jpeg bytes"))
	})

	fixture.server = httptest.NewServer(mux)
	t.Cleanup(fixture.server.Close)

	fixture.settings = config.DefaultSettings()
	fixture.settings.LibraryFolder = t.TempDir()
	fixture.settings.MaxConcurrentDownloads = 2
	fixture.settings.ModifyTags = false
	return fixture
}

func TestManager_SyncAlbum_DownloadsTracksAndArt(t *testing.T) {
	fixture := newManagerFixture(t, true)
	manager := NewManager(fixture.settings, nil, nil)

	album, report, err := manager.SyncAlbum(context.Background(), AlbumRequest{
		URL:    fixture.server.URL + "/album",
		ArtURL: fixture.server.URL + "/art.jpg",
	})
	require.NoError(t, err)
	require.NotNil(t, album)

	succeeded, skipped, failed := report.Counts()
	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, 0, failed)

	folder := filepath.Join(fixture.settings.LibraryFolder, "Some Artist", "Some Album")
	for _, name := range []string{"01 - Opener.mp3", "02 - Closer.mp3", "albumart.jpg"} {
		_, err := os.Stat(filepath.Join(folder, name))
		assert.NoError(t, err, name)
	}

	progress := manager.Progress()
	assert.Equal(t, int64(3), progress.FilesTotal)
	assert.Equal(t, int64(3), progress.FilesDone)
	assert.Equal(t, report.Bytes(), progress.BytesReceived)
}

func TestManager_SyncAlbum_NotPurchasedFetchesNoAssets(t *testing.T) {
	fixture := newManagerFixture(t, false)
	manager := NewManager(fixture.settings, nil, nil)

	_, _, err := manager.SyncAlbum(context.Background(), AlbumRequest{
		URL: fixture.server.URL + "/album",
	})
	assert.ErrorIs(t, err, bandcamp.ErrNotPurchased)
	assert.Equal(t, int64(0), fixture.assetRequests.Load())
}

func TestManager_Plan_ResolvesWithoutDownloading(t *testing.T) {
	// Plan is a read-only operation, so it works even when the album is
	// not purchased.
	fixture := newManagerFixture(t, false)
	manager := NewManager(fixture.settings, nil, nil)

	jobs, err := manager.Plan(context.Background(), AlbumRequest{
		URL:    fixture.server.URL + "/album",
		ArtURL: fixture.server.URL + "/art.jpg",
	})
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.True(t, jobs[2].IsCoverArt())
	assert.Equal(t, int64(0), fixture.assetRequests.Load())
}

func TestManager_Sync_ContinuesPastFailedAlbums(t *testing.T) {
	fixture := newManagerFixture(t, true)

	var events []ProgressEvent
	manager := NewManager(fixture.settings, nil, func(e ProgressEvent) {
		events = append(events, e)
	})

	results := manager.Sync(context.Background(), []AlbumRequest{
		{URL: fixture.server.URL + "/does-not-exist"},
		{URL: fixture.server.URL + "/album"},
	})
	require.Len(t, results, 2)

	assert.Error(t, results[0].Err)
	require.NoError(t, results[1].Err)
	succeeded, _, _ := results[1].Report.Counts()
	assert.Equal(t, 2, succeeded)

	var sawError bool
	for _, event := range events {
		if event.Level == ProgressError {
			sawError = true
		}
	}
	assert.True(t, sawError, "a resolution failure must surface as an error event")
}
