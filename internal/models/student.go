package models

// Grade is one of the six fixed class standards used to partition fee
// structures and rosters.
type Grade string

const (
	Grade5th  Grade = "5th"
	Grade6th  Grade = "6th"
	Grade7th  Grade = "7th"
	Grade8th  Grade = "8th"
	Grade9th  Grade = "9th"
	Grade10th Grade = "10th"
)

// Grades lists every standard in ascending order.
func Grades() []Grade {
	return []Grade{Grade5th, Grade6th, Grade7th, Grade8th, Grade9th, Grade10th}
}

// Valid returns true when the grade is a supported standard.
func (g Grade) Valid() bool {
	switch g {
	case Grade5th, Grade6th, Grade7th, Grade8th, Grade9th, Grade10th:
		return true
	default:
		return false
	}
}

// StudentStatus marks whether a student is currently enrolled.
type StudentStatus string

const (
	StudentActive   StudentStatus = "active"
	StudentInactive StudentStatus = "inactive"
)

// Valid returns true when the status is a supported value.
func (s StudentStatus) Valid() bool {
	return s == StudentActive || s == StudentInactive
}

// Student represents a learner admitted to the institution. Attendance
// is a rolling percentage nudged by the attendance workflow, not a
// ratio recomputed from the log.
type Student struct {
	ID               string        `json:"id"`
	FirstName        string        `json:"firstName"`
	LastName         string        `json:"lastName"`
	Email            string        `json:"email"`
	Grade            Grade         `json:"grade"`
	Status           StudentStatus `json:"status"`
	Attendance       float64       `json:"attendance"`
	GPA              float64       `json:"gpa"`
	TotalFees        float64       `json:"totalFees"`
	PhotoURL         string        `json:"photoUrl,omitempty"`
	Address          string        `json:"address,omitempty"`
	ParentMobile     string        `json:"parentMobile,omitempty"`
	WhatsappNo       string        `json:"whatsappNo,omitempty"`
	EnrolledCourses  []string      `json:"enrolledCourses,omitempty"`
	IsRegistered     bool          `json:"isRegistered,omitempty"`
	RegistrationDate string        `json:"registrationDate,omitempty"`
	AdmissionDate    string        `json:"admissionDate"`
}

// FullName returns the display name used for lookups and notifications.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// EnrolledIn reports whether the student takes the named course.
func (s Student) EnrolledIn(course string) bool {
	for _, c := range s.EnrolledCourses {
		if c == course {
			return true
		}
	}
	return false
}
