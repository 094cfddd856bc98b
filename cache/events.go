package cache

// Event payloads published on the Options.Events bus. Entries are snapshot
// copies taken at emission time.

// HitEvent is published on every cache hit.
type HitEvent struct {
	Key   string
	Entry Entry
}

// MissEvent is published when a key is absent.
type MissEvent struct {
	Key string
}

// ExpiredEvent is published when Get discovers a dead entry.
type ExpiredEvent struct {
	Key   string
	Entry Entry
}

// SetEvent is published after a successful Set.
type SetEvent struct {
	Key   string
	Entry Entry
}

// DeleteEvent is published for explicit deletes and tag invalidation.
type DeleteEvent struct {
	Key   string
	Entry Entry
}

// EvictionEvent is published once per makeSpace pass that removed entries.
type EvictionEvent struct {
	Evicted []Entry
}

// PreloadEvent is published when a preload request is queued or popped.
type PreloadEvent struct {
	Request PreloadRequest
}
