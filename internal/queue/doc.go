// Package queue builds review queues from collections of learning items.
// Selection is pure and deterministic: the same items, clock, and
// configuration always produce the same ordering, which keeps queue
// construction testable and preview screens stable across refreshes.
package queue
