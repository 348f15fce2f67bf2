// Package google publishes event items to Google Calendar.
//
// Each event item becomes one calendar event. The item id is stored as a
// private extended property so re-publishing the same item can be traced
// back. Requests are paced by a token bucket and back off after 429s.
package google
