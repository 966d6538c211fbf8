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
	"runtime"
	"syscall"
	"time"

	"github.com/tartampluch/go-planner/internal/config"
	"github.com/tartampluch/go-planner/internal/engine"
	"github.com/tartampluch/go-planner/internal/refresh"
	"github.com/tartampluch/go-planner/internal/render"
	"github.com/tartampluch/go-planner/internal/server"
	"github.com/tartampluch/go-planner/internal/source"
)

// main is the application entry point.
// It delegates execution to runMain so that deferred calls (like closing the
// log file) run before the process terminates.
func main() {
	os.Exit(runMain(os.Args[1:], os.Stdout))
}

// options holds the parsed command line.
type options struct {
	version   bool
	debug     bool
	serve     bool
	config    string
	week      string
	saveFeed  string
	saveToken string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.BoolVar(&o.version, config.FlagVersion, false, config.FlagDescVersion)
	fs.BoolVar(&o.debug, config.FlagDebug, false, config.FlagDescDebug)
	fs.BoolVar(&o.serve, config.FlagServe, false, config.FlagDescServe)
	fs.StringVar(&o.config, config.FlagConfig, "", config.FlagDescConfig)
	fs.StringVar(&o.week, config.FlagWeek, "", config.FlagDescWeek)
	fs.StringVar(&o.saveFeed, config.FlagSaveFeed, "", config.FlagDescSaveFeed)
	fs.StringVar(&o.saveToken, config.FlagSaveToken, "", config.FlagDescSaveTok)
	err := fs.Parse(args)
	return o, err
}

// runMain manages the application lifecycle, argument parsing and exit codes.
func runMain(args []string, stdout io.Writer) int {
	opts, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return config.ExitCodeSuccess
		}
		return config.ExitCodeError
	}

	if opts.version {
		printVersion(stdout)
		return config.ExitCodeSuccess
	}

	// Logs never go to stdout: it carries the rendered week.
	logCloser := setupLogging(opts.debug)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close()
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	if err := run(ctx, opts, stdout); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run wires dependencies and executes either the one-shot render, a
// keyring update or the long-running server.
func run(ctx context.Context, opts options, stdout io.Writer) error {
	secrets := source.NewSecretStore()

	if opts.saveFeed != "" {
		if err := secrets.SaveFeedURL(opts.saveFeed); err != nil {
			return err
		}
		_, err := fmt.Fprint(stdout, config.MsgSavedFeedOut)
		return err
	}
	if opts.saveToken != "" {
		if err := secrets.SaveAPIToken(opts.saveToken); err != nil {
			return err
		}
		_, err := fmt.Fprint(stdout, config.MsgSavedTokenOut)
		return err
	}

	settings, err := loadSettings(opts.config)
	if err != nil {
		return err
	}

	clock, err := clockFor(opts.week, settings)
	if err != nil {
		return err
	}

	fetcher := source.NewHTTPFetcher()
	loader := &source.Loader{Fetcher: fetcher, Secrets: secrets}
	if cache, err := source.DefaultFeedCache(); err == nil {
		loader.Cache = cache
	} else {
		slog.Warn(config.MsgCacheStoreErr, config.LogKeyComponent, config.CompMain, config.LogKeyError, err)
	}

	pipeline := &refresh.Pipeline{
		Settings:   settings,
		Loader:     loader,
		Clock:      clock,
		Translator: render.NewTranslator(settings.Language),
	}
	if settings.CanvasURL != "" {
		pipeline.Announcements = &source.AnnouncementSource{
			BaseURL: settings.CanvasURL,
			Fetcher: fetcher,
			Tokens:  secrets,
		}
	}

	if !opts.serve {
		text, err := pipeline.Run(ctx)
		if err != nil {
			return err
		}
		_, err = io.WriteString(stdout, text)
		return err
	}

	return serve(ctx, settings, pipeline)
}

// serve runs the HTTP server and the refresh scheduler until ctx is cancelled.
func serve(ctx context.Context, settings *config.Settings, pipeline *refresh.Pipeline) error {
	srv := server.NewWeekServer(settings.Port)
	pipeline.Publisher = srv

	scheduler, err := refresh.NewScheduler(settings.Refresh, func(ctx context.Context) error {
		_, err := pipeline.Run(ctx)
		return err
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	schedulerDone := make(chan error, config.ChannelBufferSize)
	go func() {
		schedulerDone <- scheduler.Start(ctx)
	}()

	// A server failure stops the scheduler too.
	serverErr := srv.Start(ctx)
	cancel()
	return errors.Join(serverErr, <-schedulerDone)
}

func loadSettings(path string) (*config.Settings, error) {
	if path == "" {
		p, err := config.DefaultSettingsPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return config.LoadSettings(path)
}

// clockFor pins the clock to the -week date, or follows the wall clock.
func clockFor(week string, settings *config.Settings) (engine.Clock, error) {
	if week == "" {
		return engine.RealClock{}, nil
	}
	loc, err := settings.Location()
	if err != nil {
		return nil, err
	}
	d, err := time.ParseInLocation(config.DateFormat, week, loc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDateParse, err)
	}
	return engine.FixedClock{Time: d}, nil
}

// printVersion outputs the build information.
func printVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger: JSON to stderr and to a
// file in the user's cache directory.
func setupLogging(debugMode bool) io.Closer {
	writers := []io.Writer{os.Stderr}
	var logFile *os.File

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts)))

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
