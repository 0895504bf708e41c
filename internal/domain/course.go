package domain

// Course is the canonical representation of a catalog course inside this tool.
// The provider maps wire records into this model, and every downstream stage
// (indexing, progress filtering, ranking, export) works from it.
type Course struct {
	Title       string // unique across the whole catalog; same title means same course
	Description string
	Hours       int // whole hours, never negative
}
