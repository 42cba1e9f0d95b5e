// Package credstore provides asynchronous key-value persistence for the
// credential triple: access token, refresh token, and the serialized user
// record.
//
// The store makes no transactional guarantee across keys; a crash between
// two writes can leave a partial triple. Callers treat any read failure as
// "value absent"; the client's hydration step detects and repairs partial
// triples by clearing all three keys.
package credstore
