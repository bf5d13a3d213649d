package domain

// Developer is a global identity; it may have zero assignments in any
// given scope.
type Developer struct {
	ID       int64
	Username string
	FullName string
	Role     string
}

// DisplayName returns the full name when present, falling back to the
// username.
func (d Developer) DisplayName() string {
	if d.FullName != "" {
		return d.FullName
	}
	return d.Username
}
