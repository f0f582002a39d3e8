package server

import "time"

// Position locates a visual record in the shared scene.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HolographicRecord is a short-lived visual reaction.
type HolographicRecord struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Kind       string    `json:"kind"`
	Position   Position  `json:"position"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SoundRecord is a short-lived sound-effect play.
type SoundRecord struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Sound      string    `json:"sound"`
	Volume     float64   `json:"volume"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ParticleRecord is a short-lived particle burst.
type ParticleRecord struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Kind       string    `json:"kind"`
	Position   Position  `json:"position"`
	Count      int       `json:"count"`
	CreatedAt  time.Time `json:"createdAt"`
}

// EffectUsageRecord notes that a message requested cosmetic effects.
type EffectUsageRecord struct {
	ID         string       `json:"id"`
	AuthorID   string       `json:"authorId"`
	AuthorName string       `json:"authorName"`
	Effects    []EffectName `json:"effects"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// ephemeralStore holds append-only records until they outlive the store's
// retention window. Callers serialize access through the hub mutex.
type ephemeralStore[T any] struct {
	retention time.Duration
	entries   []ephemeralEntry[T]
}

type ephemeralEntry[T any] struct {
	at     time.Time
	record T
}

func newEphemeralStore[T any](retention time.Duration) *ephemeralStore[T] {
	return &ephemeralStore[T]{retention: retention}
}

func (s *ephemeralStore[T]) append(now time.Time, record T) {
	s.entries = append(s.entries, ephemeralEntry[T]{at: now, record: record})
}

// purge drops records older than the retention window.
func (s *ephemeralStore[T]) purge(now time.Time) int {
	cutoff := now.Add(-s.retention)
	kept := s.entries[:0]
	removed := 0
	for _, entry := range s.entries {
		if entry.at.After(cutoff) {
			kept = append(kept, entry)
		} else {
			removed++
		}
	}
	s.entries = kept
	return removed
}

func (s *ephemeralStore[T]) snapshot() []T {
	records := make([]T, 0, len(s.entries))
	for _, entry := range s.entries {
		records = append(records, entry.record)
	}
	return records
}

func (s *ephemeralStore[T]) size() int {
	return len(s.entries)
}
