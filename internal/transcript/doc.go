// Package transcript provides meeting transcript retrieval.
//
// Mock serves a fixed transcript. Live is a placeholder: every call fails
// with ErrNotImplemented.
package transcript
