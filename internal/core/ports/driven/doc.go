// Package driven lists what the core needs from the outside world.
//
// The engine cannot run without a SlotStore (raw bytes under one key),
// an ItemStore (the decoded collection on top of it) and a ConfigStore.
//
// The rest may be nil:
//
//   - MetricsRecorder: batch counters and durations
//   - CalendarPublisher: pushes routine events to a remote calendar
//   - TaskImporter: turns tracker issues into todo drafts
//
// Adapters import this package and domain. This package never imports an
// adapter.
package driven
