package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/teemow/zoombridge/internal/instrumentation"
	"github.com/teemow/zoombridge/internal/sqlite"
	"github.com/teemow/zoombridge/internal/zoom"
	"github.com/teemow/zoombridge/internal/zoomauth"
)

// runtime bundles everything a command needs to talk to Zoom.
type runtime struct {
	adapter  *zoom.Adapter
	store    *sqlite.Store
	provider *instrumentation.Provider
}

func (r *runtime) close(ctx context.Context) {
	if err := r.provider.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error during instrumentation shutdown: %v\n", err)
	}
	r.store.Close()
}

// setup opens the credential store, loads the credential named by the
// --credential flag and builds an authenticated adapter around it.
func setup(ctx context.Context) (*runtime, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}

	cred, err := store.Get(ctx, credentialID)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}

	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
		ServiceVersion: version,
		Enabled:        metricsEnabled,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}

	adapter, err := zoom.New(ctx, cred, store, zoomauth.EnvKeyProvider{},
		zoom.WithLogger(newLogger()),
		zoom.WithMetrics(provider.Metrics()),
	)
	if err != nil {
		provider.Shutdown(ctx)
		store.Close()
		return nil, fmt.Errorf("failed to create Zoom adapter: %w", err)
	}

	return &runtime{adapter: adapter, store: store, provider: provider}, nil
}

func openStore() (*sqlite.Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	store, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential database: %w", err)
	}
	return store, nil
}

// eventFile is the JSON document accepted by create and update.
type eventFile struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     time.Time       `json:"end_time"`
	Organizer   personFile      `json:"organizer"`
	Attendees   []personFile    `json:"attendees"`
	Recurrence  *recurrenceFile `json:"recurrence"`
}

type personFile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	TimeZone string `json:"time_zone"`
}

type recurrenceFile struct {
	Freq     string    `json:"freq"`
	Interval int       `json:"interval"`
	Count    int       `json:"count"`
	Until    time.Time `json:"until"`
}

func (f *eventFile) convert() *zoom.CalendarEvent {
	event := &zoom.CalendarEvent{
		Title:       f.Title,
		Description: f.Description,
		StartTime:   f.StartTime,
		EndTime:     f.EndTime,
		Organizer:   zoom.Person{Name: f.Organizer.Name, Email: f.Organizer.Email, TimeZone: f.Organizer.TimeZone},
	}
	if f.Attendees != nil {
		event.Attendees = make([]zoom.Person, 0, len(f.Attendees))
		for _, p := range f.Attendees {
			event.Attendees = append(event.Attendees, zoom.Person{Name: p.Name, Email: p.Email, TimeZone: p.TimeZone})
		}
	}
	if f.Recurrence != nil {
		event.RecurringEvent = &zoom.RecurringEvent{
			Freq:     zoom.Frequency(f.Recurrence.Freq),
			Interval: f.Recurrence.Interval,
			Count:    f.Recurrence.Count,
			Until:    f.Recurrence.Until,
		}
	}
	return event
}

// readEvent loads the event document from path, or from stdin when path
// is "-".
func readEvent(path string) (*zoom.CalendarEvent, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open event file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var doc eventFile
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse event file: %w", err)
	}
	return doc.convert(), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
