package domain

// Department represents an organizational unit persisted by the store.
// ID is assigned by the store on first save and never changes afterwards.
type Department struct {
	ID          int64
	Name        string
	Description string
}

// IsNew reports whether the department has not been persisted yet.
func (d Department) IsNew() bool {
	return d.ID == 0
}
