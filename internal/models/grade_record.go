package models

// GradeRecord is a single gradebook entry for a student.
type GradeRecord struct {
	ID        string  `json:"id"`
	StudentID string  `json:"studentId"`
	Subject   string  `json:"subject"`
	TestName  string  `json:"testName"`
	Score     float64 `json:"score"`
	MaxScore  float64 `json:"maxScore"`
	Date      string  `json:"date"`
	Feedback  string  `json:"feedback,omitempty"`
}
