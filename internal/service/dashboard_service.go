package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
	appErrors "github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/errors"
)

type dashboardStore interface {
	Students(ctx context.Context) ([]models.Student, error)
	Teachers(ctx context.Context) ([]models.Teacher, error)
	Fees(ctx context.Context) ([]models.FeeRecord, error)
	Sessions(ctx context.Context) ([]models.AcademicSession, error)
}

// DashboardStats aggregates the front-page numbers, scoped to one
// academic session.
type DashboardStats struct {
	Session           *models.AcademicSession `json:"session,omitempty"`
	TotalStudents     int                     `json:"totalStudents"`
	ActiveStudents    int                     `json:"activeStudents"`
	TotalTeachers     int                     `json:"totalTeachers"`
	FeesBilled        float64                 `json:"feesBilled"`
	FeesCollected     float64                 `json:"feesCollected"`
	FeesOutstanding   float64                 `json:"feesOutstanding"`
	AverageAttendance float64                 `json:"averageAttendance"`
	GradeCounts       map[models.Grade]int    `json:"gradeCounts"`
}

// DashboardService derives the landing-page aggregates.
type DashboardService struct {
	store  dashboardStore
	logger *zap.Logger
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(store dashboardStore, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{store: store, logger: logger}
}

// Stats computes aggregates scoped to the named session, or to the
// current session when sessionID is empty. Students count toward a
// session when admitted on or before its end date; payments count when
// dated inside its range. Date strings compare lexically (ISO dates).
func (s *DashboardService) Stats(ctx context.Context, sessionID string) (*DashboardStats, error) {
	sessions, err := s.store.Sessions(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
	}
	var session *models.AcademicSession
	for i := range sessions {
		if (sessionID != "" && sessions[i].ID == sessionID) || (sessionID == "" && sessions[i].IsCurrent) {
			session = &sessions[i]
			break
		}
	}
	if sessionID != "" && session == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
	}

	students, err := s.store.Students(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	teachers, err := s.store.Teachers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	fees, err := s.store.Fees(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fee ledger")
	}

	stats := &DashboardStats{
		Session:       session,
		TotalTeachers: len(teachers),
		GradeCounts:   make(map[models.Grade]int),
	}

	attendanceSum := 0.0
	for _, st := range students {
		if session != nil && st.AdmissionDate > session.EndDate {
			continue
		}
		stats.TotalStudents++
		if st.Status == models.StudentActive {
			stats.ActiveStudents++
		}
		stats.FeesBilled += st.TotalFees
		stats.GradeCounts[st.Grade]++
		attendanceSum += st.Attendance
	}
	if stats.TotalStudents > 0 {
		stats.AverageAttendance = attendanceSum / float64(stats.TotalStudents)
	}

	for _, f := range fees {
		if session != nil && (f.PaymentDate < session.StartDate || f.PaymentDate > session.EndDate) {
			continue
		}
		stats.FeesCollected += f.Amount
	}
	stats.FeesOutstanding = stats.FeesBilled - stats.FeesCollected

	return stats, nil
}
