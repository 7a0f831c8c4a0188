package service

import (
	"context"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
	appErrors "github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/errors"
)

type gradeStore interface {
	Students(ctx context.Context) ([]models.Student, error)
	Grades(ctx context.Context) ([]models.GradeRecord, error)
	AddGrade(ctx context.Context, grade models.GradeRecord) error
}

// GradeService owns the gradebook.
type GradeService struct {
	store     gradeStore
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewGradeService constructs the grade service.
func NewGradeService(store gradeStore, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{store: store, validator: validate, logger: logger, now: time.Now}
}

// ForStudent returns a student's gradebook entries, newest first by
// test date.
func (s *GradeService) ForStudent(ctx context.Context, studentID string) ([]models.GradeRecord, error) {
	grades, err := s.store.Grades(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grades")
	}
	out := make([]models.GradeRecord, 0, len(grades))
	for _, g := range grades {
		if g.StudentID == studentID {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

// RecordRequest carries one test result.
type RecordRequest struct {
	StudentID string  `json:"studentId" validate:"required"`
	Subject   string  `json:"subject" validate:"required"`
	TestName  string  `json:"testName" validate:"required"`
	Score     float64 `json:"score" validate:"gte=0"`
	MaxScore  float64 `json:"maxScore" validate:"required,gt=0"`
	Feedback  string  `json:"feedback"`
}

// Record appends a gradebook entry. Scores above the maximum are
// rejected.
func (s *GradeService) Record(ctx context.Context, req RecordRequest) (*models.GradeRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	if req.Score > req.MaxScore {
		return nil, appErrors.Clone(appErrors.ErrValidation, "score cannot exceed the maximum score")
	}

	students, err := s.store.Students(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	found := false
	for _, st := range students {
		if st.ID == req.StudentID {
			found = true
			break
		}
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	record := models.GradeRecord{
		ID:        uuid.NewString(),
		StudentID: req.StudentID,
		Subject:   req.Subject,
		TestName:  req.TestName,
		Score:     req.Score,
		MaxScore:  req.MaxScore,
		Date:      s.now().Format("2006-01-02"),
		Feedback:  req.Feedback,
	}
	if err := s.store.AddGrade(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save grade")
	}

	s.logger.Info("grade recorded",
		zap.String("student_id", record.StudentID),
		zap.String("subject", record.Subject),
		zap.Float64("score", record.Score),
	)
	return &record, nil
}
