package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/zoombridge/internal/zoom"
)

// meetingOutput is the JSON shape printed after create and update.
type meetingOutput struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	Password string `json:"password,omitempty"`
	URL      string `json:"url"`
}

func toOutput(res *zoom.MeetingResult) meetingOutput {
	return meetingOutput{Type: res.Type, ID: res.ID, Password: res.Password, URL: res.URL}
}

func newCreateCmd() *cobra.Command {
	var eventPath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a Zoom meeting for a calendar event",
		Long: `Create a scheduled Zoom meeting from an event document. The document is
JSON with title, start_time, end_time, organizer, attendees and an
optional recurrence block; pass "-" to read it from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			event, err := readEvent(eventPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			rt, err := setup(ctx)
			if err != nil {
				return err
			}
			defer rt.close(ctx)

			res, err := rt.adapter.CreateMeeting(ctx, event)
			if err != nil {
				return err
			}
			return printJSON(toOutput(res))
		},
	}

	cmd.Flags().StringVar(&eventPath, "event", "-", "Path to the event JSON document ('-' for stdin)")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	var (
		eventPath string
		uid       string
		meetingID string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update an existing Zoom meeting",
		RunE: func(cmd *cobra.Command, args []string) error {
			if uid == "" && meetingID == "" {
				return fmt.Errorf("one of --uid or --meeting-id is required")
			}

			event, err := readEvent(eventPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			rt, err := setup(ctx)
			if err != nil {
				return err
			}
			defer rt.close(ctx)

			ref := &zoom.BookingReference{UID: uid, MeetingID: meetingID}
			res, err := rt.adapter.UpdateMeeting(ctx, ref, event)
			if err != nil {
				return err
			}
			return printJSON(toOutput(res))
		},
	}

	cmd.Flags().StringVar(&eventPath, "event", "-", "Path to the event JSON document ('-' for stdin)")
	cmd.Flags().StringVar(&uid, "uid", "", "Booking UID holding the meeting ID")
	cmd.Flags().StringVar(&meetingID, "meeting-id", "", "Zoom meeting ID")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	var (
		uid              string
		meetingID        string
		occurrenceID     string
		recurringEventID string
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a Zoom meeting",
		Long: `Delete a Zoom meeting. With --occurrence-id only that occurrence of a
recurring series is cancelled; with --recurring-event-id the whole series
is deleted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if uid == "" && meetingID == "" && recurringEventID == "" {
				return fmt.Errorf("one of --uid, --meeting-id or --recurring-event-id is required")
			}

			ctx := cmd.Context()
			rt, err := setup(ctx)
			if err != nil {
				return err
			}
			defer rt.close(ctx)

			ref := &zoom.BookingReference{
				UID:              uid,
				MeetingID:        meetingID,
				OccurrenceID:     occurrenceID,
				RecurringEventID: recurringEventID,
			}
			if err := rt.adapter.DeleteMeeting(ctx, ref); err != nil {
				return err
			}
			fmt.Println("Meeting deleted")
			return nil
		},
	}

	cmd.Flags().StringVar(&uid, "uid", "", "Booking UID holding the meeting ID")
	cmd.Flags().StringVar(&meetingID, "meeting-id", "", "Zoom meeting ID")
	cmd.Flags().StringVar(&occurrenceID, "occurrence-id", "", "Occurrence to cancel within a recurring series")
	cmd.Flags().StringVar(&recurringEventID, "recurring-event-id", "", "Recurring series to delete")
	return cmd
}
