// Command bcdl synchronizes a Bandcamp collection into a local library.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/handiism/bcdl/internal/bandcamp"
	"github.com/handiism/bcdl/internal/collection"
	"github.com/handiism/bcdl/internal/config"
	"github.com/handiism/bcdl/internal/download"
	"github.com/handiism/bcdl/internal/httpclient"
)

type configureCmd struct{}

type refreshCmd struct{}

type listCmd struct {
	JSON bool `arg:"--json" help:"emit the collection as JSON"`
}

type downloadCmd struct {
	URLs   []string `arg:"positional,required" help:"album page URLs"`
	DryRun bool     `arg:"--dry-run" help:"resolve assets without downloading"`
}

type syncCmd struct {
	DryRun bool `arg:"--dry-run" help:"resolve assets without downloading"`
}

type cliArgs struct {
	Configure *configureCmd `arg:"subcommand:configure" help:"interactively write the settings file"`
	Refresh   *refreshCmd   `arg:"subcommand:refresh" help:"refresh the local collection cache"`
	List      *listCmd      `arg:"subcommand:list" help:"list the cached collection"`
	Download  *downloadCmd  `arg:"subcommand:download" help:"download specific album pages"`
	Sync      *syncCmd      `arg:"subcommand:sync" help:"download every purchased album in the cache"`

	Config  string `arg:"--config" help:"settings file path (default: user config dir)"`
	Verbose bool   `arg:"-v,--verbose" help:"debug logging"`
}

func (cliArgs) Description() string {
	return "bcdl keeps a local library in sync with a Bandcamp collection.\n"
}

func main() {
	var args cliArgs
	parser := arg.MustParse(&args)

	configPath := args.Config
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	log := newLogger(args.Verbose)
	defer func() { _ = log.Sync() }()

	settings, err := config.Load(configPath)
	if err != nil {
		fatal("load settings: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case args.Configure != nil:
		err = runConfigure(settings, configPath)
	case args.Refresh != nil:
		err = runRefresh(ctx, settings, log)
	case args.List != nil:
		err = runList(settings, args.List.JSON)
	case args.Download != nil:
		err = runDownload(ctx, settings, log, args.Download.URLs, args.Download.DryRun, args.Verbose)
	case args.Sync != nil:
		err = runSync(ctx, settings, log, args.Sync.DryRun, args.Verbose)
	default:
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "interrupted")
			os.Exit(130)
		}
		fatal("%v", err)
	}
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		fatal("build logger: %v", err)
	}
	return log
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "bcdl: "+format+"\n", args...)
	os.Exit(1)
}

// runConfigure prompts for the core settings and writes them to disk.
// The identity cookie is read without echo.
func runConfigure(settings *config.Settings, path string) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("Library folder [%s]: ", settings.LibraryFolder)
	if line, err := reader.ReadString('\n'); err == nil {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			settings.LibraryFolder = trimmed
		}
	}

	fmt.Printf("Fan ID [%s]: ", settings.FanID)
	if line, err := reader.ReadString('\n'); err == nil {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			settings.FanID = trimmed
		}
	}

	fmt.Print("Identity cookie (input hidden, empty keeps current): ")
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("read identity cookie: %w", err)
	}
	if len(secret) > 0 {
		settings.IdentityCookie = string(secret)
	}

	if err := settings.Save(path); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	fmt.Printf("Settings written to %s\n", path)
	return nil
}

// runRefresh pulls the full collection listing and replaces the cache.
func runRefresh(ctx context.Context, settings *config.Settings, log *zap.Logger) error {
	if settings.FanID == "" {
		return fmt.Errorf("fan ID is not configured, run `bcdl configure`")
	}

	client := httpclient.New(settings.IdentityCookie, log)
	collectionClient := bandcamp.NewCollectionClient(client, "", settings.CollectionPageSize, log)

	items, err := collectionClient.FetchAll(ctx, settings.FanID)
	if err != nil {
		return fmt.Errorf("fetch collection: %w", err)
	}

	store, err := collection.Open(settings.CachePath)
	if err != nil {
		return fmt.Errorf("open collection cache: %w", err)
	}
	defer store.Close()

	if err := store.Replace(items); err != nil {
		return fmt.Errorf("write collection cache: %w", err)
	}
	fmt.Printf("Cached %d collection items\n", len(items))
	return nil
}

// runList prints the cached collection, as JSON when requested.
func runList(settings *config.Settings, asJSON bool) error {
	store, err := collection.Open(settings.CachePath)
	if err != nil {
		return fmt.Errorf("open collection cache: %w", err)
	}
	defer store.Close()

	items, err := store.List()
	if err != nil {
		return err
	}

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(items)
	}

	for _, item := range items {
		marker := " "
		if item.Purchased {
			marker = "*"
		}
		fmt.Printf("%s %s - %s\n\t%s\n", marker, item.BandName, item.AlbumTitle, item.ItemURL)
	}
	if len(items) == 0 {
		fmt.Println("collection cache is empty, run `bcdl refresh` first")
	}
	return nil
}

// runDownload fetches explicitly named album pages. Cover art URLs only
// come from the collection listing, so direct downloads carry none.
func runDownload(ctx context.Context, settings *config.Settings, log *zap.Logger, urls []string, dryRun, verbose bool) error {
	reqs := make([]download.AlbumRequest, 0, len(urls))
	for _, u := range urls {
		reqs = append(reqs, download.AlbumRequest{URL: u})
	}
	return syncRequests(ctx, settings, log, reqs, dryRun, verbose)
}

// runSync downloads every purchased album in the collection cache.
func runSync(ctx context.Context, settings *config.Settings, log *zap.Logger, dryRun, verbose bool) error {
	store, err := collection.Open(settings.CachePath)
	if err != nil {
		return fmt.Errorf("open collection cache: %w", err)
	}
	items, err := store.List()
	store.Close()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("collection cache is empty, run `bcdl refresh` first")
	}

	reqs := make([]download.AlbumRequest, 0, len(items))
	for _, item := range items {
		if !item.Purchased {
			continue
		}
		reqs = append(reqs, download.AlbumRequest{URL: item.ItemURL, ArtURL: item.ItemArtURL})
	}
	return syncRequests(ctx, settings, log, reqs, dryRun, verbose)
}

// syncRequests drives the manager over the given albums and prints a
// summary. Any album or asset failure makes the run exit non-zero.
func syncRequests(ctx context.Context, settings *config.Settings, log *zap.Logger, reqs []download.AlbumRequest, dryRun, verbose bool) error {
	manager := download.NewManager(settings, log, func(event download.ProgressEvent) {
		if event.Level == download.ProgressVerbose && !verbose {
			return
		}
		fmt.Println(eventPrefix(event.Level) + event.Message)
	})

	if dryRun {
		for _, req := range reqs {
			jobs, err := manager.Plan(ctx, req)
			if err != nil {
				return fmt.Errorf("%s: %w", req.URL, err)
			}
			for _, job := range jobs {
				fmt.Printf("%s\n\t<- %s\n", job.Destination, job.SourceURL)
			}
		}
		return nil
	}

	bar := progressbar.DefaultBytes(-1, "downloading")
	barDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-barDone:
				return
			case <-ticker.C:
				_ = bar.Set64(manager.Progress().BytesReceived)
			}
		}
	}()

	results := manager.Sync(ctx, reqs)
	close(barDone)
	_ = bar.Finish()
	fmt.Println()

	var succeeded, skipped, failed, albumErrs int
	for _, result := range results {
		if result.Err != nil {
			albumErrs++
			continue
		}
		s, k, f := result.Report.Counts()
		succeeded += s
		skipped += k
		failed += f
	}

	progress := manager.Progress()
	fmt.Printf("Done: %d downloaded, %d skipped, %d failed (%s received)\n",
		succeeded, skipped, failed, humanize.Bytes(uint64(progress.BytesReceived)))

	if albumErrs > 0 || failed > 0 {
		return fmt.Errorf("%d album(s) and %d asset(s) failed", albumErrs, failed)
	}
	return nil
}

func eventPrefix(level download.ProgressLevel) string {
	switch level {
	case download.ProgressError:
		return "x "
	case download.ProgressWarning:
		return "! "
	case download.ProgressSuccess:
		return "+ "
	case download.ProgressInfo:
		return "> "
	default:
		return "  "
	}
}
