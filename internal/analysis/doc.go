// Package analysis turns a meeting's event metadata and transcript into a
// summary.
//
// Mock returns a fixed structured Result. Live sends one chat completion to
// the OpenAI API (model gpt-4o-mini) and returns the reply verbatim as
// Result.Summary; it does not parse highlights, next steps or proposed
// meetings out of the reply, so a live run never schedules a follow-up.
package analysis
