package models

// AcademicSession is a named date range used to scope dashboard
// aggregates. At most one session is current; the save operation clears
// the flag on all others.
type AcademicSession struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	IsCurrent bool   `json:"isCurrent"`
}
