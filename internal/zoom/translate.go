package zoom

import "time"

// meetingRequest is the body of Zoom's meeting create and update calls.
type meetingRequest struct {
	Topic      string          `json:"topic"`
	Type       int             `json:"type"`
	StartTime  string          `json:"start_time"`
	Duration   int             `json:"duration"`
	Timezone   string          `json:"timezone,omitempty"`
	Agenda     string          `json:"agenda,omitempty"`
	Recurrence *Recurrence     `json:"recurrence,omitempty"`
	Settings   meetingSettings `json:"settings"`
}

// meetingSettings mirrors the subset of Zoom meeting settings the adapter
// controls.
type meetingSettings struct {
	HostVideo                    bool   `json:"host_video"`
	ParticipantVideo             bool   `json:"participant_video"`
	JoinBeforeHost               bool   `json:"join_before_host"`
	MuteUponEntry                bool   `json:"mute_upon_entry"`
	Watermark                    bool   `json:"watermark"`
	UsePMI                       bool   `json:"use_pmi"`
	ApprovalType                 int    `json:"approval_type"`
	Audio                        string `json:"audio"`
	AutoRecording                string `json:"auto_recording,omitempty"`
	EnforceLogin                 bool   `json:"enforce_login"`
	RegistrantsEmailNotification bool   `json:"registrants_email_notification"`
}

// userSettings is the subset of the Zoom user settings payload the adapter
// reads: the recording preference applied to created meetings and the
// account's default password for scheduled meetings.
type userSettings struct {
	Recording struct {
		AutoRecording string `json:"auto_recording"`
	} `json:"recording"`
	ScheduleMeeting struct {
		DefaultPasswordForScheduledMeetings string `json:"default_password_for_scheduled_meetings"`
	} `json:"schedule_meeting"`
}

// validateEvent checks the event before any network call.
func validateEvent(event *CalendarEvent) error {
	if event == nil {
		return &MissingFieldError{Field: "event"}
	}
	if !event.EndTime.After(event.StartTime) {
		return &InvalidEventError{Reason: "end time must be after start time"}
	}
	if event.Title == "" {
		return &MissingFieldError{Field: "title"}
	}
	if event.Attendees == nil {
		return &MissingFieldError{Field: "attendees"}
	}

	if re := event.RecurringEvent; re != nil {
		if re.Interval < 1 {
			return &InvalidEventError{Reason: "recurrence interval must be positive"}
		}
		if re.Count <= 0 && re.Until.IsZero() {
			return &InvalidEventError{Reason: "recurrence requires an occurrence count or an end date"}
		}
	}

	return nil
}

// translateEvent builds the vendor request body. The meeting type is always
// "scheduled", even for recurring meetings; the recurrence block carries
// the repetition.
func translateEvent(event *CalendarEvent, settings userSettings) meetingRequest {
	return meetingRequest{
		Topic:      event.Title,
		Type:       meetingTypeScheduled,
		StartTime:  event.StartTime.UTC().Format(time.RFC3339),
		Duration:   int(event.EndTime.Sub(event.StartTime).Minutes()),
		Timezone:   event.timezoneName(),
		Agenda:     event.Description,
		Recurrence: recurrenceFor(event),
		Settings: meetingSettings{
			HostVideo:                    true,
			ParticipantVideo:             true,
			JoinBeforeHost:               true,
			ApprovalType:                 2,
			Audio:                        "both",
			AutoRecording:                settings.Recording.AutoRecording,
			RegistrantsEmailNotification: true,
		},
	}
}
