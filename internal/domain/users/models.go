package users

import "strings"

// User is identified by name and references the groups it keeps.
type User struct {
	Name   string `json:"name"`
	Groups []int  `json:"groups"`
}

// HasGroup reports whether id is among the user's group references.
func (u User) HasGroup(id int) bool {
	for _, g := range u.Groups {
		if g == id {
			return true
		}
	}
	return false
}

// ValidName reports whether name is usable as a user name.
func ValidName(name string) bool {
	return strings.TrimSpace(name) != ""
}
