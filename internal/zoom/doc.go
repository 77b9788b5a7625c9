// Package zoom implements the meeting-lifecycle adapter for the Zoom REST
// API.
//
// The adapter mirrors booking-system calendar events onto Zoom meetings:
// it creates, updates and deletes meetings, reports the account's scheduled
// meetings as busy windows, and translates a generic recurrence description
// into Zoom's recurrence object. Expired access tokens are refreshed
// transparently by the HTTP client built in the zoomauth package.
//
// Callers only ever see the typed errors declared in this package or a
// typed result; raw HTTP status codes and vendor error bodies never cross
// the adapter boundary (they are logged here, at the boundary).
//
// Example usage:
//
//	cred, err := store.Get(ctx, credentialID)
//	if err != nil {
//	    return err
//	}
//	adapter, err := zoom.New(ctx, cred, store, zoomauth.EnvKeyProvider{})
//	if err != nil {
//	    return err
//	}
//	result, err := adapter.CreateMeeting(ctx, event)
package zoom
