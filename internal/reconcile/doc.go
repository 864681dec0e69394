// Package reconcile merges platform-specific setting layers onto a view's
// live settings and keeps the merge current as settings change.
//
// An ordered list of key templates is expanded against the host identity
// (platform, hostname, subsystem), the dictionary stored under each
// concrete key is merged with later keys overwriting earlier ones, and
// only values that differ from the live settings are written back. A named
// change listener re-triggers reconciliation on a fresh event-loop turn;
// the listener is detached before writing so the reconciler never
// re-triggers itself.
//
// Plan is the pure core: given a settings snapshot and concrete keys it
// returns the write-set without touching listeners or schedulers, which is
// what makes the merge logic testable in isolation.
package reconcile
