// Package uid provides unique identifier generators behind small interfaces.
//
// StringID covers textual identifiers (UUID, object IDs); NumberID covers
// numeric identifiers suitable for database primary keys (snowflake).
package uid

// StringID generates unique string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates unique int64 identifiers.
type NumberID interface {
	Generate() int64
}
