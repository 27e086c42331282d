// Package poller schedules gauge readings and retains their results.
//
// A Coordinator owns the list of configured sensors and runs one
// acquire-prepare-read cycle per sensor per polling interval, sequentially.
// The latest State per sensor (last reading, availability, last error)
// is kept in memory for the API layer to serve.
//
// # Availability Semantics
//
// A failed cycle (unreadable source, no needle detected) marks the sensor
// unavailable but keeps the last successful reading, so consumers can
// distinguish "stale value" from "never read". The next successful cycle
// flips the sensor back to available. No per-cycle failure ever stops the
// polling loop.
//
// # Writer Discipline
//
// The reading pipeline itself is reentrant, but each sensor's state must
// have at most one writer. The coordinator enforces this with a per-sensor
// mutex, so a manual Refresh through the API cannot interleave with the
// scheduled cycle for the same sensor.
package poller
