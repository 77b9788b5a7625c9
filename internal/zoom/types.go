package zoom

import "time"

// AdapterType tags results produced by this adapter so the booking system
// can route the meeting location to the right integration.
const AdapterType = "zoom_video"

// Frequency describes how often a recurring event repeats.
type Frequency string

// Supported and recognized frequencies. Frequencies outside the daily,
// weekly and monthly set translate to no recurrence block at all; the
// meeting is created as a plain one-time meeting.
const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Person is an event participant.
type Person struct {
	Name     string
	Email    string
	TimeZone string
}

// RecurringEvent describes how a calendar event repeats. Exactly one of
// Count or Until terminates the series; when both are set Until wins.
type RecurringEvent struct {
	Freq Frequency

	// Interval repeats the event every N frequency units. Must be >= 1.
	Interval int

	// Count is the number of occurrences. Zero when Until is set.
	Count int

	// Until is the instant after which no occurrence starts. Zero when
	// Count is set.
	Until time.Time
}

// CalendarEvent is the booking-system event to mirror on Zoom.
type CalendarEvent struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Organizer   Person

	// Attendees must be non-nil; an empty list is valid.
	Attendees []Person

	// RecurringEvent is nil for one-time meetings.
	RecurringEvent *RecurringEvent
}

// location resolves the timezone used for day-of-week and day-of-month
// computations: the organizer's, else the first attendee's, else UTC.
// An unloadable timezone name also falls back to UTC.
func (e *CalendarEvent) location() *time.Location {
	name := e.Organizer.TimeZone
	if name == "" && len(e.Attendees) > 0 {
		name = e.Attendees[0].TimeZone
	}
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// timezoneName is the literal timezone name sent to the vendor. Unlike
// location it is not validated; the vendor applies its own fallback.
func (e *CalendarEvent) timezoneName() string {
	if e.Organizer.TimeZone != "" {
		return e.Organizer.TimeZone
	}
	if len(e.Attendees) > 0 {
		return e.Attendees[0].TimeZone
	}
	return ""
}

// BookingReference locates a previously created meeting for update or
// delete. UID is the opaque identifier stored by the booking system at
// creation time.
type BookingReference struct {
	UID             string
	MeetingID       string
	MeetingPassword string

	// OccurrenceID scopes a delete to a single occurrence of a
	// recurring series.
	OccurrenceID string

	// RecurringEventID scopes a delete to an entire recurring series.
	RecurringEventID string
}

// MeetingResult is the normalized meeting location returned to the booking
// system.
type MeetingResult struct {
	Type     string
	ID       string
	Password string
	URL      string
}

// AvailabilityWindow is a busy interval derived from an existing scheduled
// meeting.
type AvailabilityWindow struct {
	Start time.Time
	End   time.Time
}
