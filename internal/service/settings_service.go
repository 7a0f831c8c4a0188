package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
	appErrors "github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/errors"
)

type settingsStore interface {
	Sessions(ctx context.Context) ([]models.AcademicSession, error)
	SaveSession(ctx context.Context, session models.AcademicSession) error
	SchoolProfile(ctx context.Context) (models.SchoolProfile, error)
	SaveSchoolProfile(ctx context.Context, profile models.SchoolProfile) error
}

// SettingsService owns the institution profile and academic sessions.
type SettingsService struct {
	store     settingsStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingsService constructs the settings service.
func NewSettingsService(store settingsStore, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{store: store, validator: validate, logger: logger}
}

// Sessions returns every academic session.
func (s *SettingsService) Sessions(ctx context.Context) ([]models.AcademicSession, error) {
	sessions, err := s.store.Sessions(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
	}
	return sessions, nil
}

// CurrentSession returns the session flagged current, or ErrNotFound
// when none is.
func (s *SettingsService) CurrentSession(ctx context.Context) (*models.AcademicSession, error) {
	sessions, err := s.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].IsCurrent {
			return &sessions[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "no current session configured")
}

// SaveSessionRequest carries a new or edited academic session.
type SaveSessionRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name" validate:"required"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
	IsCurrent bool   `json:"isCurrent"`
}

// SaveSession upserts a session. Marking it current demotes every other
// session.
func (s *SettingsService) SaveSession(ctx context.Context, req SaveSessionRequest) (*models.AcademicSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	if req.EndDate < req.StartDate {
		return nil, appErrors.Clone(appErrors.ErrValidation, "session end date precedes its start date")
	}

	session := models.AcademicSession{
		ID:        req.ID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsCurrent: req.IsCurrent,
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save session")
	}

	s.logger.Info("session saved", zap.String("session_id", session.ID), zap.Bool("current", session.IsCurrent))
	return &session, nil
}

// SchoolProfile returns the institution singleton.
func (s *SettingsService) SchoolProfile(ctx context.Context) (models.SchoolProfile, error) {
	profile, err := s.store.SchoolProfile(ctx)
	if err != nil {
		return models.SchoolProfile{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school profile")
	}
	return profile, nil
}

// UpdateSchoolProfileRequest carries a profile edit. The logo payload is
// an opaque string stored untouched.
type UpdateSchoolProfileRequest struct {
	Name           string   `json:"name" validate:"required"`
	LogoURL        string   `json:"logoUrl"`
	ContactNumbers []string `json:"contactNumbers"`
}

// UpdateSchoolProfile overwrites the institution profile.
func (s *SettingsService) UpdateSchoolProfile(ctx context.Context, req UpdateSchoolProfileRequest) (models.SchoolProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.SchoolProfile{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	profile := models.SchoolProfile{
		Name:           req.Name,
		LogoURL:        req.LogoURL,
		ContactNumbers: req.ContactNumbers,
	}
	if err := s.store.SaveSchoolProfile(ctx, profile); err != nil {
		return models.SchoolProfile{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save school profile")
	}
	return profile, nil
}
