package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/iconidentify/ytthumbs/internal/config"
	"github.com/iconidentify/ytthumbs/internal/domain"
	"github.com/iconidentify/ytthumbs/internal/downloader"
	"github.com/iconidentify/ytthumbs/internal/logging"
	"github.com/iconidentify/ytthumbs/internal/report"
	"github.com/iconidentify/ytthumbs/internal/repository"
	"github.com/iconidentify/ytthumbs/internal/service"
	"github.com/iconidentify/ytthumbs/pkg/youtube"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Exit codes.
const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitCancelled = 130
)

const usageText = `Extract and download YouTube video thumbnails

Usage:
  yt-thumb <url> [--download] [--output <path>] [--verify]
  yt-thumb --batch <file> [--output <path>]
  yt-thumb --history

Examples:
  yt-thumb https://www.youtube.com/watch?v=dQw4w9WgXcQ
  yt-thumb https://youtu.be/dQw4w9WgXcQ --download
  yt-thumb https://youtu.be/dQw4w9WgXcQ --download --output my_thumb.jpg
  yt-thumb --batch urls.txt --output thumbnails.md

Flags:
`

type options struct {
	download   bool
	output     string
	batch      string
	verify     bool
	configPath string
	history    bool
	version    bool
	logLevel   string
	url        string
}

func main() {
	// A missing .env is fine
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}

	// Setup context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// parseArgs parses flags that may appear before or after the URL.
func parseArgs(args []string, stderr io.Writer) (*options, int, error) {
	opts := &options{}

	fs := flag.NewFlagSet("yt-thumb", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.download, "download", false, "Download the thumbnail instead of printing the URL")
	fs.BoolVar(&opts.download, "d", false, "Shorthand for --download")
	fs.StringVar(&opts.output, "output", "", "Output file (default: {video_id}.jpg, or stdout in batch mode)")
	fs.StringVar(&opts.output, "o", "", "Shorthand for --output")
	fs.StringVar(&opts.batch, "batch", "", "File with one YouTube URL per line; prints a markdown table")
	fs.StringVar(&opts.batch, "b", "", "Shorthand for --batch")
	fs.BoolVar(&opts.verify, "verify", false, "Check which thumbnail tier exists before printing the URL")
	fs.StringVar(&opts.configPath, "config", "", "Path to config file")
	fs.BoolVar(&opts.history, "history", false, "Show recent downloads and exit")
	fs.BoolVar(&opts.version, "version", false, "Show version and exit")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.Usage = func() {
		fmt.Fprint(stderr, usageText)
		fs.PrintDefaults()
	}

	var positional []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, exitOK, err
			}
			return nil, exitUsage, err
		}
		rest = fs.Args()
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		rest = rest[1:]
	}

	if len(positional) > 1 {
		fmt.Fprintf(stderr, "Error: unexpected arguments: %v\n", positional[1:])
		return nil, exitUsage, errors.New("too many arguments")
	}
	if len(positional) == 1 {
		opts.url = positional[0]
	}

	if opts.version || opts.history {
		return opts, exitOK, nil
	}

	switch {
	case opts.batch != "" && opts.url != "":
		fmt.Fprintln(stderr, "Error: a URL cannot be combined with --batch")
	case opts.batch != "" && opts.download:
		fmt.Fprintln(stderr, "Error: --download cannot be used with --batch")
	case opts.batch == "" && opts.url == "":
		fmt.Fprintln(stderr, "Error: a YouTube URL or --batch is required")
	default:
		return opts, exitOK, nil
	}
	fs.Usage()
	return nil, exitUsage, errors.New("invalid arguments")
}

// app holds the wired dependencies for one invocation.
type app struct {
	cfg        *config.Config
	thumbnails *service.ThumbnailService
	metadata   *youtube.MetadataClient
	history    *repository.SQLiteHistoryRepository
	logger     *slog.Logger
	stdout     io.Writer
	stderr     io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, code, err := parseArgs(args, stderr)
	if err != nil {
		return code
	}

	if opts.version {
		fmt.Fprintf(stdout, "yt-thumb %s (built %s)\n", Version, BuildTime)
		return exitOK
	}

	// Load configuration
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to load config: %v\n", err)
		return exitFailure
	}

	a, err := newApp(cfg, opts, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	defer a.close()

	switch {
	case opts.history:
		return a.listHistory(ctx)
	case opts.batch != "":
		return a.runBatch(ctx, opts.batch, opts.output)
	default:
		return a.runSingle(ctx, opts)
	}
}

func newApp(cfg *config.Config, opts *options, stdout, stderr io.Writer) (*app, error) {
	levelName := opts.logLevel
	if levelName == "" {
		levelName = cfg.Log.Level
	}
	if levelName == "" {
		levelName = "warn"
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	logger := logging.New(stderr, level, cfg.Log.Format)

	a := &app{
		cfg:      cfg,
		metadata: youtube.NewMetadataClient(cfg.Metadata),
		logger:   logger,
		stdout:   stdout,
		stderr:   stderr,
	}

	// Initialize history ledger
	var history repository.HistoryRepository
	if cfg.History.Path != "" {
		repo, err := repository.NewSQLiteHistoryRepository(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		a.history = repo
		history = repo
	}

	dl := downloader.NewHTTPDownloader(cfg.Download)
	dl.SetLogger(logger)
	a.thumbnails = service.NewThumbnailService(
		youtube.NewImageHost(cfg.Download.ImageBaseURL),
		dl,
		history,
		logger,
	)

	return a, nil
}

func (a *app) close() {
	if a.history != nil {
		a.history.Close()
	}
}

func (a *app) runSingle(ctx context.Context, opts *options) int {
	id, err := youtube.ExtractVideoID(opts.url)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: Could not extract video ID from URL: %s\n", opts.url)
		fmt.Fprintln(a.stderr, "Supported formats:")
		for _, format := range youtube.SupportedFormats() {
			fmt.Fprintf(a.stderr, "  - %s\n", format)
		}
		return exitFailure
	}

	if !opts.download {
		if !opts.verify {
			fmt.Fprintln(a.stdout, a.thumbnails.ResolveURL(id).URL)
			return exitOK
		}
		candidate, err := a.thumbnails.VerifyURL(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return exitCancelled
			}
			fmt.Fprintf(a.stderr, "Error: No thumbnail available for video ID: %s\n", id)
			return exitFailure
		}
		fmt.Fprintln(a.stdout, candidate.URL)
		return exitOK
	}

	// Download mode
	outputPath := opts.output
	if outputPath == "" {
		outputPath = service.DefaultOutputPath(id)
	}

	// Create parent directory if it doesn't exist
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintf(a.stderr, "Error: Could not create directory %s: %v\n", dir, err)
			return exitFailure
		}
	}

	fmt.Fprintf(a.stdout, "Downloading thumbnail for video ID: %s\n", id)
	fmt.Fprintf(a.stdout, "Saving to: %s\n", outputPath)

	record, err := a.thumbnails.Download(ctx, id, outputPath)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(a.stderr, "\nDownload cancelled")
			return exitCancelled
		}
		var ioErr *domain.IOError
		if errors.As(err, &ioErr) {
			fmt.Fprintf(a.stderr, "Error: Could not write thumbnail to %s: %v\n", outputPath, ioErr.Err)
			return exitFailure
		}
		fmt.Fprintf(a.stderr, "Error: Failed to download thumbnail for video ID: %s\n", id)
		return exitFailure
	}

	if record.Tier != domain.TierMaxRes {
		fmt.Fprintf(a.stdout, "Max resolution not available, used %s\n", record.Tier)
	}
	fmt.Fprintf(a.stdout, "Successfully downloaded thumbnail to %s\n", outputPath)
	return exitOK
}

func (a *app) runBatch(ctx context.Context, batchPath, outputPath string) int {
	lines, err := service.ReadLines(batchPath)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBatchFileNotFound):
			fmt.Fprintf(a.stderr, "Error: Batch file not found: %s\n", batchPath)
		case errors.Is(err, domain.ErrEmptyBatch):
			fmt.Fprintln(a.stderr, "Error: No URLs found in batch file")
		default:
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
		}
		return exitFailure
	}

	batch := service.NewBatchService(a.thumbnails, a.metadata, a.logger)
	result, err := batch.Process(ctx, lines)
	if result != nil {
		for _, lineErr := range result.Errors {
			if errors.Is(lineErr, domain.ErrInvalidURL) {
				fmt.Fprintf(a.stderr, "Warning: Skipping invalid URL: %s\n", lineErr.Input)
			} else {
				fmt.Fprintf(a.stderr, "Warning: Error processing %s: %v\n", lineErr.Input, lineErr.Err)
			}
		}
	}
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(a.stderr, "\nBatch cancelled")
			return exitCancelled
		}
		if errors.Is(err, domain.ErrNoValidURLs) {
			fmt.Fprintln(a.stderr, "Error: No valid URLs were processed")
			return exitFailure
		}
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitFailure
	}

	if outputPath == "" {
		if err := report.Markdown(a.stdout, result.Records); err != nil {
			fmt.Fprintf(a.stderr, "Error: Could not write results: %v\n", err)
			return exitFailure
		}
	} else if err := writeReport(outputPath, result.Records); err != nil {
		fmt.Fprintf(a.stderr, "Error: Could not write to output file: %v\n", err)
		return exitFailure
	} else {
		fmt.Fprintf(a.stdout, "Results written to %s\n", outputPath)
	}

	fmt.Fprintf(a.stderr, "Processed %d of %d URLs\n", len(result.Records), result.Total)
	return exitOK
}

func writeReport(path string, records []domain.BatchRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return domain.NewIOError("create directory", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(report.MarkdownString(records)), 0644); err != nil {
		return domain.NewIOError("write", path, err)
	}
	return nil
}

func (a *app) listHistory(ctx context.Context) int {
	if a.history == nil {
		fmt.Fprintln(a.stderr, "Error: download history is disabled (set HISTORY_PATH or history.path)")
		return exitFailure
	}

	records, err := a.history.List(ctx, a.cfg.History.ListLimit)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: could not read history: %v\n", err)
		return exitFailure
	}
	if len(records) == 0 {
		fmt.Fprintf(a.stdout, "No downloads recorded yet in %s\n", a.history.Path())
		return exitOK
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDOWNLOADED\tVIDEO\tTIER\tBYTES\tPATH")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			rec.ID,
			rec.DownloadedAt.Format("2006-01-02 15:04:05"),
			rec.VideoID,
			rec.Tier,
			rec.Bytes,
			rec.Path,
		)
	}
	tw.Flush()
	return exitOK
}
