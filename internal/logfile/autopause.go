package logfile

import "strings"

// transitionFold keeps only the edges of a boolean state stream. A state is
// emitted when it differs from the last emitted one; "null" readings are
// never emitted and never reset the carried state.
type transitionFold struct {
	last  string
	valid bool
}

// next feeds one raw state and reports whether it is a transition.
func (f *transitionFold) next(state string) (moving, emit bool) {
	s := strings.ToLower(state)
	if s == "null" || (f.valid && s == f.last) {
		return false, false
	}
	f.last, f.valid = s, true
	return s == "true", true
}
