// Package analyser runs the configured tools and aggregates their issues.
//
// Tools run concurrently, each into a private store. Their stores are merged
// into the master store in registration order once every tool has finished,
// so the order of colliding issues does not depend on scheduling. Progress is
// reported to a [Listener].
package analyser
