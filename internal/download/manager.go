package download

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/handiism/bcdl/internal/audio"
	"github.com/handiism/bcdl/internal/bandcamp"
	"github.com/handiism/bcdl/internal/config"
	"github.com/handiism/bcdl/internal/httpclient"
	"github.com/handiism/bcdl/internal/imaging"
	"github.com/handiism/bcdl/internal/model"
)

// ProgressLevel classifies a progress event for display purposes.
type ProgressLevel int

const (
	ProgressInfo ProgressLevel = iota
	ProgressVerbose
	ProgressWarning
	ProgressError
	ProgressSuccess
)

// ProgressEvent is a human-oriented notification emitted while an album
// is being synchronized. Events are advisory; the authoritative result
// of a run is its Report.
type ProgressEvent struct {
	Level   ProgressLevel
	Message string
}

// AlbumRequest names one album to synchronize. ArtURL is optional; when
// set, the album's cover art is downloaded alongside the tracks.
type AlbumRequest struct {
	URL    string
	ArtURL string
}

// AlbumResult pairs a request with its outcome. Err is set when the
// album could not be resolved at all (page fetch, metadata parse or
// entitlement failure); per-asset failures live inside Report instead.
type AlbumResult struct {
	Request AlbumRequest
	Album   *model.Album
	Report  Report
	Err     error
}

// Progress is a snapshot of the counters a UI can poll while Sync runs.
type Progress struct {
	FilesTotal    int64
	FilesDone     int64
	BytesReceived int64
}

// Manager composes the full synchronization flow for one or more albums:
// fetch page, parse metadata, assert entitlement, resolve asset jobs,
// download, then tag. A single Manager is safe for one Sync at a time.
type Manager struct {
	settings *config.Settings
	client   *httpclient.Client
	parser   *bandcamp.Parser
	resolver *bandcamp.Resolver
	orch     *Orchestrator
	tagger   *audio.Tagger
	imaging  *imaging.Service
	log      *zap.Logger

	onProgress func(ProgressEvent)

	filesTotal    atomic.Int64
	filesDone     atomic.Int64
	bytesReceived atomic.Int64
}

// NewManager wires a Manager from settings. onProgress may be nil.
func NewManager(settings *config.Settings, log *zap.Logger, onProgress func(ProgressEvent)) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	client := httpclient.New(settings.IdentityCookie, log)

	m := &Manager{
		settings:   settings,
		client:     client,
		parser:     bandcamp.NewParser(log),
		resolver:   bandcamp.NewResolver(log),
		tagger:     audio.NewTagger(log),
		imaging:    imaging.NewService(),
		log:        log,
		onProgress: onProgress,
	}
	m.orch = NewOrchestrator(client, settings.MaxConcurrentDownloads, log)
	m.orch.OnOutcome = m.trackOutcome
	return m
}

// Progress returns the current counter snapshot.
func (m *Manager) Progress() Progress {
	return Progress{
		FilesTotal:    m.filesTotal.Load(),
		FilesDone:     m.filesDone.Load(),
		BytesReceived: m.bytesReceived.Load(),
	}
}

// Plan resolves the asset jobs an album would produce without touching
// the network for the assets themselves and without the entitlement
// check, which only gates writes. Used for dry runs.
func (m *Manager) Plan(ctx context.Context, req AlbumRequest) ([]model.AssetJob, error) {
	album, err := m.resolveAlbum(ctx, req)
	if err != nil {
		return nil, err
	}
	folder := album.Folder(m.settings.LibraryFolder)
	return m.resolver.Resolve(album, folder, req.ArtURL), nil
}

// SyncAlbum synchronizes a single album and returns the batch report.
// A non-nil error means the album never reached the download stage.
func (m *Manager) SyncAlbum(ctx context.Context, req AlbumRequest) (*model.Album, Report, error) {
	album, err := m.resolveAlbum(ctx, req)
	if err != nil {
		return nil, Report{}, err
	}
	if err := bandcamp.AssertEntitled(album); err != nil {
		return album, Report{}, err
	}

	folder := album.Folder(m.settings.LibraryFolder)
	jobs := m.resolver.Resolve(album, folder, req.ArtURL)
	m.filesTotal.Add(int64(len(jobs)))

	m.progressf(ProgressInfo, "%s - %s: %d assets", album.Artist, album.Title, len(jobs))
	report := m.orch.Run(ctx, jobs)

	if m.settings.ModifyTags {
		m.tagAlbum(album, jobs, report)
	}

	succeeded, skipped, failed := report.Counts()
	level := ProgressSuccess
	if failed > 0 {
		level = ProgressWarning
	}
	m.progressf(level, "%s - %s: %d downloaded, %d skipped, %d failed",
		album.Artist, album.Title, succeeded, skipped, failed)

	return album, report, nil
}

// Sync synchronizes every requested album, continuing past albums that
// fail resolution or entitlement. Results are returned in request order.
func (m *Manager) Sync(ctx context.Context, reqs []AlbumRequest) []AlbumResult {
	results := make([]AlbumResult, 0, len(reqs))
	for _, req := range reqs {
		album, report, err := m.SyncAlbum(ctx, req)
		if err != nil {
			m.progressf(ProgressError, "%s: %v", req.URL, err)
		}
		results = append(results, AlbumResult{Request: req, Album: album, Report: report, Err: err})
	}
	return results
}

func (m *Manager) resolveAlbum(ctx context.Context, req AlbumRequest) (*model.Album, error) {
	m.progressf(ProgressVerbose, "fetching %s", req.URL)
	page, err := m.client.GetString(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	return m.parser.ParseAlbumPage(page)
}

// tagAlbum writes ID3 tags for every track downloaded in this run. Art
// is embedded from the cover-art job's destination when the file exists,
// scaled down to the configured edge length. Tagging errors degrade to
// warnings; the files themselves are already complete on disk.
func (m *Manager) tagAlbum(album *model.Album, jobs []model.AssetJob, report Report) {
	var artwork []byte
	if m.settings.EmbedCoverArt {
		for _, job := range jobs {
			if !job.IsCoverArt() {
				continue
			}
			raw, err := os.ReadFile(job.Destination)
			if err != nil {
				m.log.Warn("cover art unavailable for embedding", zap.Error(err))
				break
			}
			scaled, err := m.imaging.PrepareCoverArt(raw, m.settings.CoverArtMaxSize)
			if err != nil {
				m.log.Warn("cover art preparation failed", zap.Error(err))
				break
			}
			artwork = scaled
			break
		}
	}

	for _, outcome := range report.Outcomes {
		if outcome.Kind != OutcomeSucceeded || outcome.Job.Track == nil {
			continue
		}
		if err := m.tagger.Tag(outcome.Job.Destination, album, outcome.Job.Track, artwork); err != nil {
			m.log.Warn("tagging failed",
				zap.String("destination", outcome.Job.Destination),
				zap.Error(err))
			m.progressf(ProgressWarning, "tagging failed for %s", outcome.Job.Destination)
		}
	}
}

func (m *Manager) trackOutcome(outcome Outcome) {
	m.filesDone.Add(1)
	m.bytesReceived.Add(outcome.Bytes)
}

func (m *Manager) progressf(level ProgressLevel, format string, args ...any) {
	if m.onProgress == nil {
		return
	}
	m.onProgress(ProgressEvent{Level: level, Message: fmt.Sprintf(format, args...)})
}
