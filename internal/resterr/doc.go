// Package resterr extracts human-readable messages from the backend's
// failure bodies: either a single detail string or a validation map of
// field names to message lists.
package resterr
