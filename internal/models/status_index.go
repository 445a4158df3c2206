package models

// StatusIndex maps a media id to the user's list status for that title. It is
// built from the full list and only ever replaced, never edited.
type StatusIndex struct {
	byMedia map[int]ListStatus
}

// NewStatusIndex builds an index from the user's list. When a title appears
// twice the later entry wins.
func NewStatusIndex(entries []ListEntry) StatusIndex {
	m := make(map[int]ListStatus, len(entries))
	for _, e := range entries {
		m[e.Media.ID] = e.Status
	}
	return StatusIndex{byMedia: m}
}

// Lookup returns the status for a media id
func (x StatusIndex) Lookup(mediaID int) (ListStatus, bool) {
	s, ok := x.byMedia[mediaID]
	return s, ok
}

// Len returns the number of indexed titles
func (x StatusIndex) Len() int {
	return len(x.byMedia)
}

// Highlighted reports whether a title is one the user is watching or finished
func (x StatusIndex) Highlighted(mediaID int) bool {
	s, ok := x.byMedia[mediaID]
	return ok && (s == StatusCurrent || s == StatusCompleted)
}
