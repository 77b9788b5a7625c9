package zoom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/teemow/zoombridge/internal/instrumentation"
	"github.com/teemow/zoombridge/internal/logging"
	"github.com/teemow/zoombridge/internal/zoomauth"
)

const (
	defaultBaseURL = "https://api.zoom.us/v2"

	// Zoom caps page_size at 300. The adapter reads a single page; the
	// availability lookup is best-effort.
	availabilityPageSize = 300
)

// Doer issues HTTP requests. The authenticated client from zoomauth
// implements it in production; tests supply a fake.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Adapter manages the lifecycle of Zoom meetings for one credential.
type Adapter struct {
	cred    *zoomauth.Credential
	http    Doer
	baseURL string
	log     *slog.Logger
	metrics *instrumentation.Metrics
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithHTTPClient injects the HTTP layer. When set, the adapter skips
// building the authenticated client and app key resolution.
func WithHTTPClient(d Doer) Option {
	return func(a *Adapter) { a.http = d }
}

// WithBaseURL overrides the Zoom API base URL, for tests.
func WithBaseURL(u string) Option {
	return func(a *Adapter) { a.baseURL = u }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(a *Adapter) { a.metrics = m }
}

// New creates an adapter for the credential. The application key pair is
// resolved up front; no network call happens at construction time.
func New(ctx context.Context, cred *zoomauth.Credential, store zoomauth.CredentialStore, keys zoomauth.KeyProvider, opts ...Option) (*Adapter, error) {
	if cred == nil {
		return nil, fmt.Errorf("credential cannot be nil")
	}

	a := &Adapter{
		cred:    cred,
		baseURL: defaultBaseURL,
		log:     slog.Default(),
		metrics: instrumentation.Noop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = logging.WithService(a.log, "zoom").With(logging.Credential(cred.ID))

	if a.http == nil {
		if keys == nil {
			keys = zoomauth.EnvKeyProvider{}
		}
		resolved, err := keys.AppKeys(ctx)
		if err != nil {
			return nil, err
		}
		client, err := zoomauth.NewHTTPClient(ctx, zoomauth.ClientConfig{
			Credential: cred,
			Keys:       resolved,
			Store:      store,
			Logger:     a.log,
			Metrics:    a.metrics,
		})
		if err != nil {
			return nil, err
		}
		a.http = client
	}

	return a, nil
}

// meetingResponse is the decoded shape of Zoom's meeting payloads: the
// create response, the single-meeting fetch, and the entries of the
// scheduled-meetings listing.
type meetingResponse struct {
	ID        int64  `json:"id"`
	UUID      string `json:"uuid"`
	Topic     string `json:"topic"`
	Type      int    `json:"type"`
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
	Timezone  string `json:"timezone"`
	JoinURL   string `json:"join_url"`
	Password  string `json:"password"`
}

// meetingsPage is one page of the scheduled-meetings listing. The adapter
// never walks past the first page.
type meetingsPage struct {
	PageCount     int               `json:"page_count"`
	PageNumber    int               `json:"page_number"`
	PageSize      int               `json:"page_size"`
	TotalRecords  int               `json:"total_records"`
	NextPageToken string            `json:"next_page_token"`
	Meetings      []meetingResponse `json:"meetings"`
}

// CreateMeeting creates a Zoom meeting for the event and returns the
// normalized meeting location. A recurring event with an unsupported
// frequency is created as a plain one-time meeting. A failed user-settings
// lookup degrades to defaults instead of aborting the creation.
func (a *Adapter) CreateMeeting(ctx context.Context, event *CalendarEvent) (*MeetingResult, error) {
	log := logging.WithOperation(a.log, "createMeeting")

	if err := validateEvent(event); err != nil {
		return nil, err
	}

	settings, err := a.userSettings(ctx)
	if err != nil {
		log.Error("failed to retrieve zoom user settings", logging.Err(err))
		settings = userSettings{}
	}

	var out meetingResponse
	if err := a.request(ctx, "createMeeting", http.MethodPost, "/users/me/meetings", translateEvent(event, settings), &out); err != nil {
		return nil, err
	}

	if out.ID == 0 || out.JoinURL == "" {
		log.Error("zoom create response is missing id or join_url")
		return nil, &CreateMeetingError{}
	}

	result := buildResult(out, settings)
	log.Info("meeting created",
		logging.MeetingID(result.ID), logging.Status(logging.StatusSuccess))
	return result, nil
}

// UpdateMeeting applies the event to an existing meeting and returns a
// fresh result. Zoom update responses are empty, so the meeting is
// re-fetched afterwards.
func (a *Adapter) UpdateMeeting(ctx context.Context, ref *BookingReference, event *CalendarEvent) (*MeetingResult, error) {
	log := logging.WithOperation(a.log, "updateMeeting")

	if ref == nil {
		return nil, &MissingFieldError{Field: "booking reference"}
	}
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	id := ref.UID
	if id == "" {
		id = ref.MeetingID
	}
	path := "/meetings/" + url.PathEscape(id)

	if err := a.request(ctx, "updateMeeting", http.MethodPatch, path, translateEvent(event, userSettings{}), nil); err != nil {
		return nil, &UpdateMeetingError{Err: err}
	}

	var out meetingResponse
	if err := a.request(ctx, "getMeeting", http.MethodGet, path, nil, &out); err != nil {
		return nil, &UpdateMeetingError{Err: err}
	}
	if out.ID == 0 || out.JoinURL == "" {
		log.Error("zoom meeting fetch after update is missing id or join_url")
		return nil, &UpdateMeetingError{}
	}

	result := buildResult(out, userSettings{})
	log.Info("meeting updated",
		logging.MeetingID(result.ID), logging.Status(logging.StatusSuccess))
	return result, nil
}

// DeleteMeeting deletes the meeting the reference points at: a single
// occurrence when OccurrenceID is set, the whole series when
// RecurringEventID is set, the plain meeting otherwise. An empty
// identifier is passed through unguarded; the vendor accepts it.
func (a *Adapter) DeleteMeeting(ctx context.Context, ref *BookingReference) error {
	log := logging.WithOperation(a.log, "deleteMeeting")

	if ref == nil {
		return &MissingFieldError{Field: "booking reference"}
	}

	path := deleteTarget(ref)
	if err := a.request(ctx, "deleteMeeting", http.MethodDelete, path, nil, nil); err != nil {
		return &DeleteMeetingError{Err: err}
	}

	log.Info("meeting deleted",
		logging.MeetingID(ref.MeetingID), logging.Status(logging.StatusSuccess))
	return nil
}

// DeleteMeetingByID deletes a meeting by its bare vendor identifier.
func (a *Adapter) DeleteMeetingByID(ctx context.Context, id string) error {
	return a.DeleteMeeting(ctx, &BookingReference{MeetingID: id})
}

// deleteTarget picks the deletion scope. Occurrence beats series beats
// plain meeting id.
func deleteTarget(ref *BookingReference) string {
	id := ref.MeetingID
	if id == "" {
		id = ref.UID
	}

	switch {
	case ref.OccurrenceID != "":
		return "/meetings/" + url.PathEscape(id) + "?occurrence_id=" + url.QueryEscape(ref.OccurrenceID)
	case ref.RecurringEventID != "":
		return "/meetings/" + url.PathEscape(ref.RecurringEventID)
	default:
		return "/meetings/" + url.PathEscape(id)
	}
}

// GetAvailability lists the account's scheduled meetings as busy windows.
// The lookup is best-effort: any failure yields an empty list so the
// caller's scheduling flow is never blocked.
func (a *Adapter) GetAvailability(ctx context.Context) []AvailabilityWindow {
	log := logging.WithOperation(a.log, "getAvailability")

	path := fmt.Sprintf("/users/me/meetings?type=scheduled&page_size=%d", availabilityPageSize)
	var page meetingsPage
	if err := a.request(ctx, "getAvailability", http.MethodGet, path, nil, &page); err != nil {
		log.Error("failed to list zoom meetings", logging.Err(err))
		return []AvailabilityWindow{}
	}

	windows := make([]AvailabilityWindow, 0, len(page.Meetings))
	for _, m := range page.Meetings {
		start, err := time.Parse(time.RFC3339, m.StartTime)
		if err != nil {
			log.Warn("skipping meeting with unparseable start time",
				logging.MeetingID(strconv.FormatInt(m.ID, 10)), logging.Err(err))
			continue
		}
		windows = append(windows, AvailabilityWindow{
			Start: start,
			End:   start.Add(time.Duration(m.Duration) * time.Minute),
		})
	}
	return windows
}

// userSettings fetches the account's recording preference and default
// scheduled-meeting password.
func (a *Adapter) userSettings(ctx context.Context) (userSettings, error) {
	var out userSettings
	if err := a.request(ctx, "getUserSettings", http.MethodGet, "/users/me/settings", nil, &out); err != nil {
		return userSettings{}, err
	}
	return out, nil
}

// buildResult normalizes a vendor meeting payload. When the vendor
// assigned no password the account's default scheduled-meeting password
// applies, and failing that the password is the empty string.
func buildResult(out meetingResponse, settings userSettings) *MeetingResult {
	password := out.Password
	if password == "" {
		password = settings.ScheduleMeeting.DefaultPasswordForScheduledMeetings
	}
	return &MeetingResult{
		Type:     AdapterType,
		ID:       strconv.FormatInt(out.ID, 10),
		Password: password,
		URL:      out.JoinURL,
	}
}

// request issues one authenticated call and decodes the response into out
// (skipped when out is nil or the body is empty). Transport failures,
// non-2xx statuses and malformed payloads all come back as UnexpectedError;
// the underlying vendor detail is logged here and goes no further.
func (a *Adapter) request(ctx context.Context, op, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &UnexpectedError{Err: fmt.Errorf("failed to encode request body: %w", err)}
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, rd)
	if err != nil {
		return &UnexpectedError{Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := a.log.With(logging.Operation(op), logging.RequestID(uuid.NewString()))

	start := time.Now()
	resp, err := a.http.Do(req)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		a.metrics.RecordAPIOperation(ctx, op, logging.StatusError, elapsed)
		log.Error("zoom api request failed", logging.Err(err))
		return &UnexpectedError{Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		a.metrics.RecordAPIOperation(ctx, op, logging.StatusError, elapsed)
		log.Error("failed to read zoom api response", logging.Err(err))
		return &UnexpectedError{Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		a.metrics.RecordAPIOperation(ctx, op, logging.StatusError, elapsed)
		log.Error("zoom api returned error status",
			slog.Int("http_status", resp.StatusCode),
			slog.String("body", string(payload)))
		return &UnexpectedError{Err: fmt.Errorf("zoom api status %d", resp.StatusCode)}
	}

	a.metrics.RecordAPIOperation(ctx, op, logging.StatusSuccess, elapsed)

	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		log.Error("failed to decode zoom api response", logging.Err(err))
		return &UnexpectedError{Err: err}
	}
	return nil
}
