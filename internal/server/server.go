package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-planner/internal/config"
	"github.com/tartampluch/go-planner/internal/render"
)

// payload is one representation of the week with its caching metadata.
type payload struct {
	data        []byte
	etag        string
	contentType string
}

func newPayload(data []byte, contentType string) payload {
	hash := sha256.Sum256(data)
	return payload{
		data:        data,
		etag:        fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		contentType: contentType,
	}
}

// projection is one week-start rendering of the week in both formats.
type projection struct {
	json payload
	text payload
}

// cacheItem stores every projection of the latest week view.
type cacheItem struct {
	projections  map[string]projection // keyed by config.WeekStart*
	defaultStart string
	lastModified string // RFC1123 format required by HTTP headers
}

// WeekServer serves the latest week view over HTTP: JSON on "/", the
// terminal rendering on "/text" and a health check on "/health".
// A "week_start=sunday|monday" query selects another published projection.
type WeekServer struct {
	// cache uses atomic.Pointer for lock-free reads; the view is read far
	// more often than the refresh job replaces it.
	cache atomic.Pointer[cacheItem]
	Port  string
}

// NewWeekServer creates a new instance of the server.
func NewWeekServer(port string) *WeekServer {
	return &WeekServer{
		Port: port,
	}
}

// Handler returns the route multiplexer.
func (s *WeekServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteRoot, s.handleWeek)
	mux.HandleFunc(config.RouteText, s.handleText)
	mux.HandleFunc(config.RouteHealth, s.handleHealth)
	return mux
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *WeekServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the served week. The first snapshot is served
// when no week_start is requested; the others are keyed by their WeekStart.
func (s *WeekServer) Update(snaps ...render.Snapshot) error {
	if len(snaps) == 0 {
		return errors.New(config.ErrNoSnapshot)
	}

	item := &cacheItem{
		projections:  make(map[string]projection, len(snaps)),
		defaultStart: snaps[0].DTO.WeekStart,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	}
	for _, snap := range snaps {
		data, err := json.Marshal(snap.DTO)
		if err != nil {
			return fmt.Errorf("%s: %w", config.ErrEncodeResp, err)
		}
		if _, dup := item.projections[snap.DTO.WeekStart]; dup {
			continue
		}
		item.projections[snap.DTO.WeekStart] = projection{
			json: newPayload(data, config.MimeJSON),
			text: newPayload([]byte(snap.Text), config.MimeText),
		}
	}
	s.cache.Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyWeek, snaps[0].DTO.Week,
		config.LogKeyCount, len(item.projections),
		config.LogKeySizeBytes, len(item.projections[item.defaultStart].json.data),
		config.LogKeyETag, item.projections[item.defaultStart].json.etag,
	)
	return nil
}

func (s *WeekServer) handleWeek(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != config.RouteRoot {
		http.NotFound(w, r)
		return
	}
	s.serve(w, r, func(p projection) payload { return p.json })
}

func (s *WeekServer) handleText(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, func(p projection) payload { return p.text })
}

func (s *WeekServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(config.HeaderContentType, config.MimeText)
	_, _ = io.WriteString(w, config.HTTPMsgOK)
}

// serve writes one representation with HTTP caching support.
func (s *WeekServer) serve(w http.ResponseWriter, r *http.Request, pick func(projection) payload) {
	// 1. Method Validation
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	// 2. Load Data (Atomic / Lock-Free)
	item := s.cache.Load()

	// 3. Readiness Check
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	// 4. Projection Selection
	start := r.URL.Query().Get(config.QueryWeekStart)
	if start == "" {
		start = item.defaultStart
	}
	proj, ok := item.projections[start]
	if !ok {
		http.Error(w, config.HTTPMsgBadWeekStart, http.StatusBadRequest)
		return
	}
	p := pick(proj)

	// 5. Set Response Headers
	w.Header().Set(config.HeaderContentType, p.contentType)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, p.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	// 6. Check Conditional Headers
	if match := r.Header.Get(config.HeaderIfNoneMatch); match == p.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	// 7. Serve Content
	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(p.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}
