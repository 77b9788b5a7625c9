// Package cmd implements the command-line interface for zoombridge.
//
// This package provides the following commands:
//   - create: Create a Zoom meeting from a calendar event document
//   - update: Update an existing Zoom meeting
//   - delete: Delete a Zoom meeting, an occurrence, or a recurring series
//   - availability: List busy windows from the credential's scheduled meetings
//   - token: Store and inspect OAuth token pairs
//   - version: Display version information
package cmd
