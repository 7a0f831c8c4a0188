package models

// Teacher represents a staff member. Immutable after registration apart
// from administrative edits.
type Teacher struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Subject  string `json:"subject"`
	Email    string `json:"email"`
	JoinDate string `json:"joinDate"`
}
