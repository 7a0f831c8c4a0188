package models

// Note is a personal or class-wide note. Class notes target a grade and
// are visible to every student in that standard.
type Note struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Date        string `json:"date"`
	Color       string `json:"color,omitempty"`
	IsClassNote bool   `json:"isClassNote,omitempty"`
	TargetGrade Grade  `json:"targetGrade,omitempty"`
	AuthorName  string `json:"authorName,omitempty"`
}
