package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
	appErrors "github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/errors"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/genai"
)

type assistantStore interface {
	Students(ctx context.Context) ([]models.Student, error)
	Grades(ctx context.Context) ([]models.GradeRecord, error)
}

// AssistantService wraps the external content-generation service for
// the three classroom helpers: study notes, quizzes, and progress
// remarks.
type AssistantService struct {
	store     assistantStore
	generator genai.Generator
	logger    *zap.Logger
}

// NewAssistantService constructs the assistant. A nil generator leaves
// the assistant disabled; every call then fails cleanly.
func NewAssistantService(store assistantStore, generator genai.Generator, logger *zap.Logger) *AssistantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssistantService{store: store, generator: generator, logger: logger}
}

// StudyNotes generates revision notes on a topic pitched at a standard.
func (s *AssistantService) StudyNotes(ctx context.Context, topic string, grade models.Grade) (string, error) {
	if strings.TrimSpace(topic) == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "topic is required")
	}
	if !grade.Valid() {
		return "", appErrors.Clone(appErrors.ErrValidation, "unknown grade")
	}
	prompt := fmt.Sprintf(
		"Generate concise, well-structured study notes on the topic %q for a %s standard CBSE student. Use simple language, short bullet points, and include 2-3 memory tricks.",
		topic, grade,
	)
	return s.generate(ctx, prompt)
}

// Quiz generates a short multiple-choice quiz on a topic.
func (s *AssistantService) Quiz(ctx context.Context, topic string, grade models.Grade, questions int) (string, error) {
	if strings.TrimSpace(topic) == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "topic is required")
	}
	if !grade.Valid() {
		return "", appErrors.Clone(appErrors.ErrValidation, "unknown grade")
	}
	if questions <= 0 || questions > 20 {
		questions = 5
	}
	prompt := fmt.Sprintf(
		"Create a quiz of %d multiple-choice questions on %q for a %s standard CBSE student. For each question give four options labelled A-D and mark the correct answer at the end.",
		questions, topic, grade,
	)
	return s.generate(ctx, prompt)
}

// ProgressRemark generates a report-card remark from a student's
// attendance, GPA, and recent test results.
func (s *AssistantService) ProgressRemark(ctx context.Context, studentID string) (string, error) {
	students, err := s.store.Students(ctx)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	var student *models.Student
	for i := range students {
		if students[i].ID == studentID {
			student = &students[i]
			break
		}
	}
	if student == nil {
		return "", appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	grades, err := s.store.Grades(ctx)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grades")
	}
	var results []string
	for _, g := range grades {
		if g.StudentID == studentID {
			results = append(results, fmt.Sprintf("%s %s: %.0f/%.0f", g.Subject, g.TestName, g.Score, g.MaxScore))
		}
	}
	scoreLine := "no test results recorded yet"
	if len(results) > 0 {
		scoreLine = strings.Join(results, "; ")
	}

	prompt := fmt.Sprintf(
		"Write a short, encouraging progress remark for %s, a %s standard student with %.1f%% attendance and a GPA of %.1f. Recent results: %s. Two to three sentences, addressed to the parents.",
		student.FullName(), student.Grade, student.Attendance, student.GPA, scoreLine,
	)
	return s.generate(ctx, prompt)
}

func (s *AssistantService) generate(ctx context.Context, prompt string) (string, error) {
	if s.generator == nil {
		return "", appErrors.Clone(appErrors.ErrExternalService, "assistant is not enabled")
	}
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("content generation failed", zap.Error(err))
		return "", appErrors.Wrap(err, appErrors.ErrExternalService.Code, appErrors.ErrExternalService.Status, "content generation failed")
	}
	return text, nil
}
