package zoom

// Zoom recurrence type codes.
const (
	recurrenceDaily   = 1
	recurrenceWeekly  = 2
	recurrenceMonthly = 3
)

// Zoom meeting type codes. The adapter always schedules meetings as type 2,
// even when a recurrence block is attached. Type 8 ("recurring, no fixed
// time") broke downstream calendar sync and must never be emitted.
const (
	meetingTypeScheduled = 2
)

// endDateTimeFormat renders the until-instant the way the vendor expects:
// UTC with millisecond precision.
const endDateTimeFormat = "2006-01-02T15:04:05.000Z"

// Recurrence is Zoom's encoding of how a meeting repeats. Exactly one of
// EndTimes or EndDateTime is set.
type Recurrence struct {
	Type           int    `json:"type"`
	RepeatInterval int    `json:"repeat_interval"`
	WeeklyDays     int    `json:"weekly_days,omitempty"`
	MonthlyDay     int    `json:"monthly_day,omitempty"`
	EndTimes       int    `json:"end_times,omitempty"`
	EndDateTime    string `json:"end_date_time,omitempty"`
}

// recurrenceFor translates the event's recurrence description into Zoom's
// recurrence object. It returns nil when the event is not recurring or the
// frequency is unsupported; in the latter case the meeting is created as a
// plain one-time meeting rather than failing.
func recurrenceFor(event *CalendarEvent) *Recurrence {
	re := event.RecurringEvent
	if re == nil {
		return nil
	}

	r := &Recurrence{RepeatInterval: re.Interval}

	switch re.Freq {
	case FrequencyDaily:
		r.Type = recurrenceDaily
	case FrequencyWeekly:
		r.Type = recurrenceWeekly
		// Zoom counts days 1-indexed from Sunday; Go counts from 0.
		r.WeeklyDays = int(event.StartTime.In(event.location()).Weekday()) + 1
	case FrequencyMonthly:
		r.Type = recurrenceMonthly
		r.MonthlyDay = event.StartTime.In(event.location()).Day()
	default:
		return nil
	}

	if !re.Until.IsZero() {
		r.EndDateTime = re.Until.UTC().Format(endDateTimeFormat)
	} else {
		r.EndTimes = re.Count
	}

	return r
}
