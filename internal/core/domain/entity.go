package domain

// Entity is any record mirrored from the remote store.
type Entity interface {
	EntityID() int64
}

// Status values shared by companies, users and printers.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Int64Ptr returns a pointer to v, for nullable references.
func Int64Ptr(v int64) *int64 { return &v }

// SameRef reports whether two nullable references point to the same id.
func SameRef(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
