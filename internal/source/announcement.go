package source

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/tartampluch/go-planner/internal/config"
	"github.com/tartampluch/go-planner/internal/engine"
)

// Announcement is one course announcement as read from Canvas.
type Announcement struct {
	ID       string
	CourseID string
	Title    string
	PostedAt time.Time
}

// APIFetcher performs authenticated GETs against the Canvas REST API.
type APIFetcher interface {
	FetchWith(ctx context.Context, url string, header http.Header) (io.ReadCloser, error)
}

// TokenProvider supplies the Canvas API access token.
type TokenProvider interface {
	APIToken() (string, error)
}

// AnnouncementSource lists announcements through the Canvas REST API.
type AnnouncementSource struct {
	BaseURL string // Canvas instance root, e.g. https://canvas.example.edu
	Fetcher APIFetcher
	Tokens  TokenProvider
}

// Enabled reports whether a Canvas URL and token are both configured.
func (a *AnnouncementSource) Enabled() bool {
	if a == nil || a.BaseURL == "" || a.Fetcher == nil || a.Tokens == nil {
		return false
	}
	tok, err := a.Tokens.APIToken()
	return err == nil && tok != ""
}

// apiAnnouncement is the subset of the Canvas DiscussionTopic we read.
type apiAnnouncement struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	PostedAt    string `json:"posted_at"`
	ContextCode string `json:"context_code"`
}

// Load lists the announcements of courseIDs posted in [from, to].
// Canvas only knows numeric course ids; other ids are ignored.
// The result is ordered by posting time, then id.
func (a *AnnouncementSource) Load(ctx context.Context, courseIDs []string, from, to time.Time) ([]Announcement, error) {
	if a.BaseURL == "" {
		return nil, errors.New(config.ErrCanvasURLEmpty)
	}
	if a.Fetcher == nil {
		return nil, errors.New(config.ErrFetcherMissing)
	}
	token, err := a.Tokens.APIToken()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, errors.New(config.ErrTokenEmpty)
	}

	log := slog.With(config.LogKeyComponent, config.CompNotices)

	q := url.Values{}
	for _, id := range courseIDs {
		if _, err := strconv.ParseInt(id, 10, 64); err != nil {
			continue
		}
		q.Add(config.APIParamContext, config.APIContextPrefix+id)
	}
	if len(q) == 0 {
		return nil, nil
	}
	q.Set(config.APIParamStart, from.Format(config.DateFormat))
	q.Set(config.APIParamEnd, to.Format(config.DateFormat))
	q.Set(config.APIParamPerPage, config.APIPerPage)

	endpoint := strings.TrimSuffix(a.BaseURL, "/") + config.APIAnnouncementsPath + "?" + q.Encode()
	header := http.Header{}
	header.Set(config.HeaderAuthorization, config.AuthBearerPrefix+token)

	rc, err := a.Fetcher.FetchWith(ctx, endpoint, header)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	var raw []apiAnnouncement
	if err := json.NewDecoder(rc).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrNoticesDecode, err)
	}

	out := make([]Announcement, 0, len(raw))
	for _, r := range raw {
		posted, err := time.Parse(time.RFC3339, r.PostedAt)
		if err != nil {
			log.Warn(config.MsgSkippedNotice, config.LogKeyUID, r.ID, config.LogKeyError, err)
			continue
		}
		if posted.Before(from) || posted.After(to) {
			continue
		}
		out = append(out, Announcement{
			ID:       strconv.FormatInt(r.ID, 10),
			CourseID: strings.TrimPrefix(r.ContextCode, config.APIContextPrefix),
			Title:    strings.TrimSpace(r.Title),
			PostedAt: posted,
		})
	}

	slices.SortFunc(out, func(x, y Announcement) int {
		if c := x.PostedAt.Compare(y.PostedAt); c != 0 {
			return c
		}
		return cmp.Compare(x.ID, y.ID)
	})

	log.Info(config.MsgNoticesLoaded, config.LogKeyRecords, len(out))
	return out, nil
}

// ToNotices converts announcements for display. Course names come from
// names (by course id); the posting time is moved into loc.
func ToNotices(anns []Announcement, names map[string]string, loc *time.Location) []engine.Notice {
	out := make([]engine.Notice, 0, len(anns))
	for _, a := range anns {
		out = append(out, engine.Notice{
			ID:         a.ID,
			CourseID:   a.CourseID,
			CourseName: names[a.CourseID],
			Title:      a.Title,
			Posted:     a.PostedAt.In(loc),
		})
	}
	return out
}

// CourseNames maps course ids to display names: feed names first, then
// the profile overrides.
func CourseNames(records []Assignment, overrides map[string]string) map[string]string {
	names := make(map[string]string, len(records)+len(overrides))
	for _, a := range records {
		if a.CourseName != "" {
			names[a.CourseID] = a.CourseName
		}
	}
	for id, n := range overrides {
		if n != "" {
			names[id] = n
		}
	}
	return names
}
