// Package pose defines the snapshot value produced by the capture loop
// and the single-slot mailbox that hands it to the broadcaster.
//
// The mailbox deliberately has no queue: the capture cadence is
// independent of the delivery cadence, and the system prefers freshness
// over completeness. Stale snapshots are overwritten, never buffered.
package pose
