package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
	appErrors "github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/errors"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/export"
)

type studentStore interface {
	Students(ctx context.Context) ([]models.Student, error)
	SaveStudent(ctx context.Context, student models.Student) error
	RegisteredUsers(ctx context.Context) ([]models.User, error)
}

type feeCalculator interface {
	ComputeTotal(ctx context.Context, grade models.Grade, courses []string) (float64, error)
}

// StudentService owns the student directory and admissions.
type StudentService struct {
	store     studentStore
	fees      feeCalculator
	csv       *export.CSVExporter
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewStudentService constructs the student service.
func NewStudentService(store studentStore, fees feeCalculator, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{store: store, fees: fees, csv: export.NewCSVExporter(), validator: validate, logger: logger, now: time.Now}
}

// List returns the full directory.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	students, err := s.store.Students(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	return students, nil
}

// Get returns one student by id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	students, err := s.store.Students(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	for i := range students {
		if students[i].ID == id {
			return &students[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
}

// AdmitRequest carries a new admission.
type AdmitRequest struct {
	FirstName       string       `json:"firstName" validate:"required"`
	LastName        string       `json:"lastName" validate:"required"`
	Email           string       `json:"email" validate:"omitempty,email"`
	Grade           models.Grade `json:"grade" validate:"required"`
	Address         string       `json:"address"`
	ParentMobile    string       `json:"parentMobile"`
	WhatsappNo      string       `json:"whatsappNo"`
	EnrolledCourses []string     `json:"enrolledCourses"`
	PhotoURL        string       `json:"photoUrl"`
}

// AdmitResult returns the created student plus a notice when total fees
// could not be computed.
type AdmitResult struct {
	Student models.Student `json:"student"`
	Notice  string         `json:"notice,omitempty"`
}

// Admit creates a student with the admission defaults: full attendance,
// zero GPA, active status, and total fees priced from the grade's fee
// structure. A missing structure does not block admission; the student
// starts with zero fees and the caller gets a notice.
func (s *StudentService) Admit(ctx context.Context, req AdmitRequest) (*AdmitResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admission payload")
	}
	if !req.Grade.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown grade")
	}
	if len(req.EnrolledCourses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrIncompleteInput, "please select at least one course")
	}

	student := models.Student{
		ID:              uuid.NewString(),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Grade:           req.Grade,
		Status:          models.StudentActive,
		Attendance:      100,
		GPA:             0,
		Address:         req.Address,
		ParentMobile:    req.ParentMobile,
		WhatsappNo:      req.WhatsappNo,
		EnrolledCourses: req.EnrolledCourses,
		PhotoURL:        req.PhotoURL,
		AdmissionDate:   s.now().Format("2006-01-02"),
	}
	if student.PhotoURL == "" {
		student.PhotoURL = "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(req.FirstName)
	}

	result := &AdmitResult{}
	total, err := s.fees.ComputeTotal(ctx, req.Grade, req.EnrolledCourses)
	switch {
	case err == nil:
		student.TotalFees = total
	case isMissingStructure(err):
		result.Notice = fmt.Sprintf("no fee structure configured for grade %s; total fees set to 0", req.Grade)
	default:
		return nil, err
	}

	if err := s.store.SaveStudent(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save student")
	}

	s.logger.Info("student admitted",
		zap.String("student_id", student.ID),
		zap.String("grade", string(student.Grade)),
		zap.Float64("total_fees", student.TotalFees),
	)
	result.Student = student
	return result, nil
}

// UpdateRequest carries an administrative edit. Grade or course changes
// reprice total fees.
type UpdateRequest struct {
	FirstName       *string               `json:"firstName"`
	LastName        *string               `json:"lastName"`
	Email           *string               `json:"email"`
	Grade           *models.Grade         `json:"grade"`
	Status          *models.StudentStatus `json:"status"`
	Address         *string               `json:"address"`
	ParentMobile    *string               `json:"parentMobile"`
	WhatsappNo      *string               `json:"whatsappNo"`
	EnrolledCourses *[]string             `json:"enrolledCourses"`
	PhotoURL        *string               `json:"photoUrl"`
	GPA             *float64              `json:"gpa"`
}

// Update applies a partial edit to one student.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateRequest) (*models.Student, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	reprice := false
	if req.FirstName != nil {
		student.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
	}
	if req.Email != nil {
		student.Email = *req.Email
	}
	if req.Grade != nil {
		if !req.Grade.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown grade")
		}
		if *req.Grade != student.Grade {
			reprice = true
		}
		student.Grade = *req.Grade
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown status")
		}
		student.Status = *req.Status
	}
	if req.Address != nil {
		student.Address = *req.Address
	}
	if req.ParentMobile != nil {
		student.ParentMobile = *req.ParentMobile
	}
	if req.WhatsappNo != nil {
		student.WhatsappNo = *req.WhatsappNo
	}
	if req.EnrolledCourses != nil {
		if len(*req.EnrolledCourses) == 0 {
			return nil, appErrors.Clone(appErrors.ErrIncompleteInput, "please select at least one course")
		}
		student.EnrolledCourses = *req.EnrolledCourses
		reprice = true
	}
	if req.PhotoURL != nil {
		student.PhotoURL = *req.PhotoURL
	}
	if req.GPA != nil {
		student.GPA = *req.GPA
	}

	if reprice {
		total, err := s.fees.ComputeTotal(ctx, student.Grade, student.EnrolledCourses)
		switch {
		case err == nil:
			student.TotalFees = total
		case isMissingStructure(err):
			student.TotalFees = 0
		default:
			return nil, err
		}
	}

	if err := s.store.SaveStudent(ctx, *student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save student")
	}
	return student, nil
}

// RegistrationReportRow pairs a student with their portal account state.
type RegistrationReportRow struct {
	Student    models.Student `json:"student"`
	Username   string         `json:"username,omitempty"`
	Registered bool           `json:"registered"`
}

// RegistrationReport lists every student with their account status,
// unregistered students first so the office can chase them.
func (s *StudentService) RegistrationReport(ctx context.Context) ([]RegistrationReportRow, error) {
	students, err := s.store.Students(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	users, err := s.store.RegisteredUsers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}
	usernameByLinkedID := make(map[string]string, len(users))
	for _, u := range users {
		if u.Role == models.RoleStudent && u.LinkedID != "" {
			usernameByLinkedID[u.LinkedID] = u.Username
		}
	}

	rows := make([]RegistrationReportRow, 0, len(students))
	for _, st := range students {
		rows = append(rows, RegistrationReportRow{
			Student:    st,
			Username:   usernameByLinkedID[st.ID],
			Registered: st.IsRegistered,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Registered != rows[j].Registered {
			return !rows[i].Registered
		}
		return rows[i].Student.FullName() < rows[j].Student.FullName()
	})
	return rows, nil
}

// RegistrationReportCSV exports the registration report.
func (s *StudentService) RegistrationReportCSV(ctx context.Context) ([]byte, error) {
	rows, err := s.RegistrationReport(ctx)
	if err != nil {
		return nil, err
	}
	dataset := export.Dataset{
		Headers: []string{"Student ID", "Name", "Grade", "Registered", "Username", "Admission Date"},
	}
	for _, row := range rows {
		registered := "No"
		if row.Registered {
			registered = "Yes"
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Student ID":     row.Student.ID,
			"Name":           row.Student.FullName(),
			"Grade":          string(row.Student.Grade),
			"Registered":     registered,
			"Username":       row.Username,
			"Admission Date": row.Student.AdmissionDate,
		})
	}
	data, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	return data, nil
}

func isMissingStructure(err error) bool {
	var appErr *appErrors.Error
	return errors.As(err, &appErr) && appErr.Code == appErrors.ErrMissingStructure.Code
}
