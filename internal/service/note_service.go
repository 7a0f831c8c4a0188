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

type noteStore interface {
	Students(ctx context.Context) ([]models.Student, error)
	Notes(ctx context.Context) ([]models.Note, error)
	SaveNote(ctx context.Context, note models.Note) error
	DeleteNote(ctx context.Context, id string) error
}

// NoteService owns personal and class-wide notes.
type NoteService struct {
	store     noteStore
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewNoteService constructs the note service.
func NewNoteService(store noteStore, validate *validator.Validate, logger *zap.Logger) *NoteService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoteService{store: store, validator: validate, logger: logger, now: time.Now}
}

// For returns the notes visible to a principal: their own notes, plus,
// for students, class notes targeting their standard. Newest first.
func (s *NoteService) For(ctx context.Context, user models.User) ([]models.Note, error) {
	notes, err := s.store.Notes(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notes")
	}

	var grade models.Grade
	if user.Role == models.RoleStudent && user.LinkedID != "" {
		students, err := s.store.Students(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
		}
		for _, st := range students {
			if st.ID == user.LinkedID {
				grade = st.Grade
				break
			}
		}
	}

	visible := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		switch {
		case n.UserID == user.ID:
			visible = append(visible, n)
		case n.IsClassNote && user.Role == models.RoleStudent && grade != "" && n.TargetGrade == grade:
			visible = append(visible, n)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].Date > visible[j].Date })
	return visible, nil
}

// SaveNoteRequest carries a new or edited note.
type SaveNoteRequest struct {
	ID          string       `json:"id"`
	Title       string       `json:"title" validate:"required"`
	Content     string       `json:"content"`
	Color       string       `json:"color"`
	IsClassNote bool         `json:"isClassNote"`
	TargetGrade models.Grade `json:"targetGrade"`
}

// Save upserts a note for the acting principal. Only staff can publish
// class notes, and a class note needs a valid target standard.
func (s *NoteService) Save(ctx context.Context, user models.User, req SaveNoteRequest) (*models.Note, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid note payload")
	}
	if req.IsClassNote {
		if user.Role == models.RoleStudent {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "students cannot publish class notes")
		}
		if !req.TargetGrade.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "class notes need a target standard")
		}
	}

	note := models.Note{
		ID:          req.ID,
		UserID:      user.ID,
		Title:       req.Title,
		Content:     req.Content,
		Date:        s.now().Format("2006-01-02"),
		Color:       req.Color,
		IsClassNote: req.IsClassNote,
		AuthorName:  user.Name,
	}
	if note.IsClassNote {
		note.TargetGrade = req.TargetGrade
	}
	if note.ID == "" {
		note.ID = uuid.NewString()
	} else {
		existing, err := s.owned(ctx, user, note.ID)
		if err != nil {
			return nil, err
		}
		// Edits keep the original creation date.
		note.Date = existing.Date
	}

	if err := s.store.SaveNote(ctx, note); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save note")
	}
	return &note, nil
}

// Delete removes one of the principal's own notes.
func (s *NoteService) Delete(ctx context.Context, user models.User, id string) error {
	if _, err := s.owned(ctx, user, id); err != nil {
		return err
	}
	if err := s.store.DeleteNote(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete note")
	}
	return nil
}

func (s *NoteService) owned(ctx context.Context, user models.User, id string) (*models.Note, error) {
	notes, err := s.store.Notes(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notes")
	}
	for i := range notes {
		if notes[i].ID == id {
			if notes[i].UserID != user.ID {
				return nil, appErrors.Clone(appErrors.ErrForbidden, "not your note")
			}
			return &notes[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "note not found")
}
