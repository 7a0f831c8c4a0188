package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/jobs"
)

type schoolProfileReader interface {
	SchoolProfile(ctx context.Context) (models.SchoolProfile, error)
}

// NotificationService simulates the parent SMS gateway. Dispatches run
// through a one-worker queue so ordering is a property of the design
// rather than an accident of the caller's loop; each call waits for its
// own job, which also serializes the simulated latency.
type NotificationService struct {
	profiles schoolProfileReader
	logger   *zap.Logger
	delay    time.Duration
	queue    *jobs.Queue
}

type smsJob struct {
	student   models.Student
	date      string
	delivered *bool
}

// NewNotificationService constructs the dispatcher. Start must be
// called before any dispatch.
func NewNotificationService(profiles schoolProfileReader, logger *zap.Logger, delay time.Duration) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if delay <= 0 {
		delay = 600 * time.Millisecond
	}
	s := &NotificationService{profiles: profiles, logger: logger, delay: delay}
	s.queue = jobs.NewQueue("absentee-sms", s.handle, jobs.QueueConfig{Workers: 1, Logger: logger})
	return s
}

// Start launches the dispatch worker.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the worker.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// SendAbsenteeSMS dispatches one absence alert and blocks until the
// worker has processed it. It reports true only when the student has a
// guardian mobile number on file; there is no retry and no batching.
func (s *NotificationService) SendAbsenteeSMS(ctx context.Context, student models.Student, dateDisplay string) (bool, error) {
	delivered := false
	err := s.queue.EnqueueWait(ctx, jobs.Job{
		ID:      uuid.NewString(),
		Type:    "absentee_sms",
		Payload: smsJob{student: student, date: dateDisplay, delivered: &delivered},
	})
	if err != nil {
		return false, err
	}
	return delivered, nil
}

func (s *NotificationService) handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(smsJob)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}

	schoolName := "the school"
	if profile, err := s.profiles.SchoolProfile(ctx); err == nil && profile.Name != "" {
		schoolName = profile.Name
	}

	message := fmt.Sprintf(
		"Alert: Your ward %s was marked ABSENT today (%s) at %s. Please contact the office for any queries.",
		payload.student.FullName(), payload.date, schoolName,
	)

	// Simulated network latency; the caller's context bounds it.
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	*payload.delivered = payload.student.ParentMobile != ""
	s.logger.Info("sms dispatched",
		zap.String("student_id", payload.student.ID),
		zap.String("to", payload.student.ParentMobile),
		zap.Bool("delivered", *payload.delivered),
		zap.String("message", message),
	)
	return nil
}
