// Package config loads meetfollow's configuration from the environment.
//
// Three credentials decide the run mode: OPENAI_API_KEY, GOOGLE_API_TOKEN and
// GOOGLE_CALENDAR_ID. If any of them is empty the whole run uses canned data
// and makes no network calls. Missing credentials are never an error.
package config
