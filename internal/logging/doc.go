// Package logging provides structured logging utilities for meetfollow.
//
// Everything logs through log/slog. New builds the process logger from the
// LOG_LEVEL and LOG_FORMAT settings, and the attribute helpers keep key names
// consistent (run_id, step, mode, event_id).
//
// Components receive a Logger rather than a *slog.Logger so tests can pass
// Discard() or a capturing implementation.
//
// # Security Considerations
//
//   - Attendee emails are hashed with AnonymizeEmail before they are logged
//   - Credentials are only ever logged through SanitizeToken
package logging
