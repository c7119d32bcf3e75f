// Package recommend ranks candidate profiles for a subject profile.
//
// Every candidate is scored on five factors (shared interests, distance,
// age gap, how recently the candidate was active, and lifestyle
// preferences). The factors are combined with fixed weights into one score
// in [0,1], explained with short human-readable reasons, and sorted.
//
// Missing data never fails a score: each factor falls back to a neutral
// constant instead. The package performs no I/O and holds no shared state,
// so a Scorer is safe for concurrent use.
package recommend
