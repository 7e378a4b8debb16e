package entity

import "sort"

// Detection is a single piece of text recognized in one frame, with the
// backend's confidence normalized to the 0.0-1.0 range.
type Detection struct {
	Text       string
	Confidence float64
}

// ResultSet accumulates the unique strings recognized across a video's
// frames. Matching is exact and case-sensitive.
type ResultSet struct {
	seen map[string]struct{}
}

func NewResultSet() *ResultSet {
	return &ResultSet{seen: make(map[string]struct{})}
}

// Add records text and reports whether it was not already present.
func (r *ResultSet) Add(text string) bool {
	if _, ok := r.seen[text]; ok {
		return false
	}
	r.seen[text] = struct{}{}
	return true
}

func (r *ResultSet) Len() int {
	return len(r.seen)
}

// Strings returns the accumulated text sorted ascending by code point.
func (r *ResultSet) Strings() []string {
	out := make([]string, 0, len(r.seen))
	for s := range r.seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// RunSummary is the outcome of one directory scan.
type RunSummary struct {
	Discovered int
	Succeeded  int
	Failed     int
}
