// Package zoomauth manages Zoom OAuth credentials for the meeting adapter.
//
// It provides the credential model shared with the booking system, a
// pluggable credential store, resolution of the Zoom application key pair,
// and an authenticated HTTP client that refreshes expired access tokens
// transparently and persists the new token pair back through the store.
//
// A still-valid access token is used as-is; no refresh call is ever made
// speculatively. When a refresh fails the credential is marked invalid so
// that subsequent calls short-circuit instead of hammering the token
// endpoint.
package zoomauth
