package core

import "strings"

// Identity is the (name, phone) pair that joins customers and sales in the
// absence of a foreign key. Matching is exact after trimming surrounding
// whitespace: no case folding, no phone normalization. A trailing-space or
// case difference therefore fails to match and produces a separate "normal"
// ghost customer — legacy behavior kept for data compatibility and covered
// by tests.
type Identity struct {
	Name  string
	Phone string
}

// NewIdentity trims both components.
func NewIdentity(name, phone string) Identity {
	return Identity{Name: strings.TrimSpace(name), Phone: strings.TrimSpace(phone)}
}

// Key returns the canonical string key "name-phone".
func (id Identity) Key() string {
	return id.Name + "-" + id.Phone
}

// Valid reports whether both components are present.
func (id Identity) Valid() bool {
	return id.Name != "" && id.Phone != ""
}

// IdentityOfSale extracts the identity a sale row posts against.
func IdentityOfSale(s *Sale) Identity {
	return NewIdentity(s.CustomerName, s.CustomerPhone)
}
