package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
	appErrors "github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/errors"
)

type teacherStore interface {
	Teachers(ctx context.Context) ([]models.Teacher, error)
	SaveTeacher(ctx context.Context, teacher models.Teacher) error
}

type accountRegistrar interface {
	RegisterAccount(ctx context.Context, role models.Role, linkedID, name, password string) (*models.User, error)
}

// TeacherService owns the staff directory.
type TeacherService struct {
	store     teacherStore
	accounts  accountRegistrar
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(store teacherStore, accounts accountRegistrar, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{store: store, accounts: accounts, validator: validate, logger: logger, now: time.Now}
}

// List returns the staff directory.
func (s *TeacherService) List(ctx context.Context) ([]models.Teacher, error) {
	teachers, err := s.store.Teachers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	return teachers, nil
}

// RegisterTeacherRequest carries a new staff registration. Supplying a
// password also creates a login account.
type RegisterTeacherRequest struct {
	Name     string `json:"name" validate:"required"`
	Subject  string `json:"subject" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password"`
}

// Register adds a teacher to the directory, optionally with a portal
// account derived from the display name.
func (s *TeacherService) Register(ctx context.Context, req RegisterTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	teacher := models.Teacher{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Subject:  req.Subject,
		Email:    req.Email,
		JoinDate: s.now().Format("2006-01-02"),
	}

	if req.Password != "" {
		if _, err := s.accounts.RegisterAccount(ctx, models.RoleTeacher, teacher.ID, teacher.Name, req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.store.SaveTeacher(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save teacher")
	}

	s.logger.Info("teacher registered", zap.String("teacher_id", teacher.ID), zap.String("subject", teacher.Subject))
	return &teacher, nil
}
