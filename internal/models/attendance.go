package models

import "time"

// FilterAll is the wildcard value for roster grade/course filters.
const FilterAll = "All"

// AttendanceRecord captures one saved register: the full present/absent
// id lists, the filters that produced the roster, and the acting staff.
// Append-only.
type AttendanceRecord struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"`
	Grade      string    `json:"grade"`
	Course     string    `json:"course"`
	PresentIDs []string  `json:"presentIds"`
	AbsentIDs  []string  `json:"absentIds"`
	TakenBy    string    `json:"takenBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RosterFilter narrows the attendance roster. Grade and Course default
// to FilterAll; Search matches name or id substrings. All three are
// ANDed.
type RosterFilter struct {
	Grade  string
	Course string
	Search string
}

// DispatchProgress reports sequential notification progress back to the
// operator while an attendance save is running.
type DispatchProgress struct {
	Current     int    `json:"current"`
	Total       int    `json:"total"`
	StudentName string `json:"studentName"`
}

// DeliveryResult records the outcome of one absentee notification.
type DeliveryResult struct {
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
	Delivered   bool   `json:"delivered"`
}
