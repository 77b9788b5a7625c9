package zoom

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalBody(t *testing.T, event *CalendarEvent, settings userSettings) map[string]any {
	t.Helper()

	buf, err := json.Marshal(translateEvent(event, settings))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(buf, &body))
	return body
}

func TestTranslateEvent_BasicFields(t *testing.T) {
	event := recurringEvent(nil)
	event.Description = "Test Description"

	body := marshalBody(t, event, userSettings{})

	assert.Equal(t, "Test Meeting", body["topic"])
	assert.Equal(t, "Test Description", body["agenda"])
	assert.Equal(t, float64(2), body["type"])
	assert.Equal(t, "2024-01-01T10:00:00Z", body["start_time"])
	assert.Equal(t, float64(60), body["duration"])
	assert.Equal(t, "UTC", body["timezone"])
	assert.NotContains(t, body, "recurrence")
}

func TestTranslateEvent_NeverRecurringNoFixedTimeType(t *testing.T) {
	events := []*CalendarEvent{
		recurringEvent(nil),
		recurringEvent(&RecurringEvent{Freq: FrequencyDaily, Count: 5, Interval: 1}),
		recurringEvent(&RecurringEvent{Freq: FrequencyWeekly, Count: 4, Interval: 1}),
		recurringEvent(&RecurringEvent{Freq: FrequencyMonthly, Count: 3, Interval: 1}),
		recurringEvent(&RecurringEvent{Freq: FrequencyYearly, Count: 1, Interval: 1}),
	}

	for _, event := range events {
		body := marshalBody(t, event, userSettings{})

		// The meeting type is always "scheduled", never 8, even when a
		// recurrence block is attached.
		assert.Equal(t, float64(2), body["type"])
		if rec, ok := body["recurrence"].(map[string]any); ok {
			assert.NotEqual(t, float64(8), rec["type"])
		}
	}
}

func TestTranslateEvent_RecurrenceAttached(t *testing.T) {
	event := recurringEvent(&RecurringEvent{Freq: FrequencyWeekly, Count: 4, Interval: 1})

	body := marshalBody(t, event, userSettings{})

	rec, ok := body["recurrence"].(map[string]any)
	require.True(t, ok, "expected recurrence block")
	assert.Equal(t, float64(2), rec["type"])
	assert.Equal(t, float64(1), rec["repeat_interval"])
	assert.Equal(t, float64(4), rec["end_times"])
	assert.Equal(t, float64(2), rec["weekly_days"])
	assert.NotContains(t, rec, "end_date_time")
}

func TestTranslateEvent_UnsupportedFrequencyOmitsRecurrence(t *testing.T) {
	event := recurringEvent(&RecurringEvent{Freq: FrequencyYearly, Count: 1, Interval: 1})

	body := marshalBody(t, event, userSettings{})
	assert.NotContains(t, body, "recurrence")
	assert.Equal(t, float64(2), body["type"])
}

func TestTranslateEvent_AutoRecordingFromSettings(t *testing.T) {
	event := recurringEvent(nil)

	var settings userSettings
	settings.Recording.AutoRecording = "cloud"

	body := marshalBody(t, event, settings)
	meetingSettings, ok := body["settings"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "cloud", meetingSettings["auto_recording"])

	// Degraded settings leave the preference unset.
	body = marshalBody(t, event, userSettings{})
	meetingSettings, ok = body["settings"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, meetingSettings, "auto_recording")
}

func TestValidateEvent(t *testing.T) {
	base := func() *CalendarEvent { return recurringEvent(nil) }

	tests := []struct {
		name    string
		mutate  func(*CalendarEvent)
		wantErr any
	}{
		{
			name:   "valid event",
			mutate: func(e *CalendarEvent) {},
		},
		{
			name: "end before start",
			mutate: func(e *CalendarEvent) {
				e.EndTime = e.StartTime.Add(-time.Hour)
			},
			wantErr: &InvalidEventError{},
		},
		{
			name: "end equals start",
			mutate: func(e *CalendarEvent) {
				e.EndTime = e.StartTime
			},
			wantErr: &InvalidEventError{},
		},
		{
			name: "missing title",
			mutate: func(e *CalendarEvent) {
				e.Title = ""
			},
			wantErr: &MissingFieldError{},
		},
		{
			name: "nil attendees",
			mutate: func(e *CalendarEvent) {
				e.Attendees = nil
			},
			wantErr: &MissingFieldError{},
		},
		{
			name: "empty attendees is valid",
			mutate: func(e *CalendarEvent) {
				e.Attendees = []Person{}
			},
		},
		{
			name: "zero recurrence interval",
			mutate: func(e *CalendarEvent) {
				e.RecurringEvent = &RecurringEvent{Freq: FrequencyDaily, Count: 5}
			},
			wantErr: &InvalidEventError{},
		},
		{
			name: "negative recurrence interval",
			mutate: func(e *CalendarEvent) {
				e.RecurringEvent = &RecurringEvent{Freq: FrequencyDaily, Count: 5, Interval: -1}
			},
			wantErr: &InvalidEventError{},
		},
		{
			name: "recurrence without end condition",
			mutate: func(e *CalendarEvent) {
				e.RecurringEvent = &RecurringEvent{Freq: FrequencyDaily, Interval: 1}
			},
			wantErr: &InvalidEventError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := base()
			tt.mutate(event)

			err := validateEvent(event)
			switch want := tt.wantErr.(type) {
			case nil:
				assert.NoError(t, err)
			case *InvalidEventError:
				var invalid *InvalidEventError
				assert.ErrorAs(t, err, &invalid)
				_ = want
			case *MissingFieldError:
				var missing *MissingFieldError
				assert.ErrorAs(t, err, &missing)
				_ = want
			}
		})
	}
}

func TestValidateEvent_Nil(t *testing.T) {
	var missing *MissingFieldError
	assert.ErrorAs(t, validateEvent(nil), &missing)
}
