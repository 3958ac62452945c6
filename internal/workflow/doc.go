// Package workflow drives one meeting follow-up run:
//
//	start → event_fetched → transcript_fetched → analyzed →
//	(followup_created | followup_skipped) → done
//
// NewFromConfig is the only place where mock or live components are chosen.
// Every component of a Workflow is in the same mode.
package workflow
