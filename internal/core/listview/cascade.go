package listview

import "strconv"

// ChildOptions returns the options of a dependent filter: every child when
// the parent is All, otherwise the children whose parent reference equals
// parentValue. Children without a parent reference are only offered under
// All.
func ChildOptions[C any](children []C, parentValue string, parentOf Field[C]) []C {
	if parentValue == All || parentValue == "" {
		return children
	}
	out := make([]C, 0, len(children))
	for _, child := range children {
		if v, ok := parentOf(child); ok && v == parentValue {
			out = append(out, child)
		}
	}
	return out
}

// ID formats an integer id as a filter value.
func ID(id int64) string { return strconv.FormatInt(id, 10) }

// Ref formats a nullable reference; a nil reference is absent.
func Ref(id *int64) (string, bool) {
	if id == nil {
		return "", false
	}
	return ID(*id), true
}

// Text treats an empty string as absent.
func Text(s string) (string, bool) {
	return s, s != ""
}
