package service

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
	appErrors "github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/errors"
)

// ErrConfirmationRequired gates saves that would mark students absent:
// the operator must explicitly confirm before notifications go out.
var ErrConfirmationRequired = appErrors.New("CONFIRMATION_REQUIRED", http.StatusConflict, "absent students require confirmation before saving")

type attendanceStore interface {
	Students(ctx context.Context) ([]models.Student, error)
	UpdateStudents(ctx context.Context, mutate func([]models.Student) []models.Student) error
	AttendanceLogs(ctx context.Context) ([]models.AttendanceRecord, error)
	AppendAttendanceLog(ctx context.Context, record models.AttendanceRecord) error
}

type absenteeNotifier interface {
	SendAbsenteeSMS(ctx context.Context, student models.Student, dateDisplay string) (bool, error)
}

// Attendance percentage nudges: repeated presence slowly rebuilds a
// percentage that a single absence meaningfully damages. The heuristic
// is never reconciled against the log.
const (
	presentIncrement = 0.1
	absentDecrement  = 0.5
)

// AttendanceService coordinates the take-attendance workflow.
type AttendanceService struct {
	store     attendanceStore
	notifier  absenteeNotifier
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(store attendanceStore, notifier absenteeNotifier, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{store: store, notifier: notifier, validator: validate, logger: logger, now: time.Now}
}

// Roster returns the students matching the filter. Grade and course
// default to the wildcard; search matches the display name or id. All
// three conditions are ANDed.
func (s *AttendanceService) Roster(ctx context.Context, filter models.RosterFilter) ([]models.Student, error) {
	students, err := s.store.Students(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	return filterRoster(students, filter), nil
}

// Courses lists every distinct enrolled course across the student body,
// sorted, for the course filter dropdown.
func (s *AttendanceService) Courses(ctx context.Context) ([]string, error) {
	students, err := s.store.Students(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	seen := make(map[string]struct{})
	for _, st := range students {
		for _, c := range st.EnrolledCourses {
			seen[c] = struct{}{}
		}
	}
	courses := make([]string, 0, len(seen))
	for c := range seen {
		courses = append(courses, c)
	}
	sort.Strings(courses)
	return courses, nil
}

// SaveAttendanceRequest carries one completed register. Marks map
// student id to present (true) or absent (false); roster students
// missing from the map are unmarked and block the save.
type SaveAttendanceRequest struct {
	Grade     string          `json:"grade" validate:"required"`
	Course    string          `json:"course" validate:"required"`
	Search    string          `json:"search"`
	Marks     map[string]bool `json:"marks"`
	Confirmed bool            `json:"confirmed"`
	TakenBy   string          `json:"-"`
}

// SaveAttendanceResult reports the appended record plus the per-student
// notification outcomes.
type SaveAttendanceResult struct {
	Record     models.AttendanceRecord `json:"record"`
	Deliveries []models.DeliveryResult `json:"deliveries"`
}

// ProgressFunc observes sequential dispatch progress.
type ProgressFunc func(models.DispatchProgress)

// Save runs the full save sequence: precondition checks, confirmation
// gate, one notification per absent student in roster order, record
// append, and the rolling-percentage nudges. Nothing is persisted when
// a precondition fails.
func (s *AttendanceService) Save(ctx context.Context, req SaveAttendanceRequest, onProgress ProgressFunc) (*SaveAttendanceResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	students, err := s.store.Students(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}

	roster := filterRoster(students, models.RosterFilter{Grade: req.Grade, Course: req.Course, Search: req.Search})

	var present, absent []models.Student
	unmarked := 0
	for _, st := range roster {
		mark, ok := req.Marks[st.ID]
		switch {
		case !ok:
			unmarked++
		case mark:
			present = append(present, st)
		default:
			absent = append(absent, st)
		}
	}

	if unmarked > 0 {
		return nil, appErrors.Clone(appErrors.ErrIncompleteInput,
			fmt.Sprintf("please mark attendance for all %d unmarked students first", unmarked))
	}
	if len(absent) > 0 && !req.Confirmed {
		return nil, appErrors.Clone(ErrConfirmationRequired,
			fmt.Sprintf("%d students will be marked absent and their parents notified; confirm to proceed", len(absent)))
	}

	today := s.now()
	dateDisplay := today.Format("Monday, January 2, 2006")

	deliveries := make([]models.DeliveryResult, 0, len(absent))
	for i, st := range absent {
		if onProgress != nil {
			onProgress(models.DispatchProgress{Current: i + 1, Total: len(absent), StudentName: st.FullName()})
		}
		delivered, err := s.notifier.SendAbsenteeSMS(ctx, st, dateDisplay)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "notification dispatch failed")
		}
		deliveries = append(deliveries, models.DeliveryResult{StudentID: st.ID, StudentName: st.FullName(), Delivered: delivered})
	}

	record := models.AttendanceRecord{
		ID:         uuid.NewString(),
		Date:       today.Format("2006-01-02"),
		Grade:      req.Grade,
		Course:     req.Course,
		PresentIDs: studentIDs(present),
		AbsentIDs:  studentIDs(absent),
		TakenBy:    req.TakenBy,
		CreatedAt:  today.UTC(),
	}
	if err := s.store.AppendAttendanceLog(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to append attendance record")
	}

	// Dispatch takes real time, so the nudges are applied against the
	// latest collection rather than the pre-dispatch snapshot.
	presentSet := idSet(record.PresentIDs)
	absentSet := idSet(record.AbsentIDs)
	err = s.store.UpdateStudents(ctx, func(latest []models.Student) []models.Student {
		for i := range latest {
			switch {
			case presentSet[latest[i].ID]:
				latest[i].Attendance = clamp(latest[i].Attendance+presentIncrement, 0, 100)
			case absentSet[latest[i].ID]:
				latest[i].Attendance = clamp(latest[i].Attendance-absentDecrement, 0, 100)
			}
		}
		return latest
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update attendance percentages")
	}

	s.logger.Info("attendance saved",
		zap.String("record_id", record.ID),
		zap.String("grade", record.Grade),
		zap.String("course", record.Course),
		zap.Int("present", len(record.PresentIDs)),
		zap.Int("absent", len(record.AbsentIDs)),
	)

	return &SaveAttendanceResult{Record: record, Deliveries: deliveries}, nil
}

// Logs returns the attendance history, newest first.
func (s *AttendanceService) Logs(ctx context.Context) ([]models.AttendanceRecord, error) {
	logs, err := s.store.AttendanceLogs(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance logs")
	}
	sort.SliceStable(logs, func(i, j int) bool {
		if !logs[i].CreatedAt.Equal(logs[j].CreatedAt) {
			return logs[i].CreatedAt.After(logs[j].CreatedAt)
		}
		return logs[i].ID > logs[j].ID
	})
	return logs, nil
}

func filterRoster(students []models.Student, filter models.RosterFilter) []models.Student {
	grade := filter.Grade
	if grade == "" {
		grade = models.FilterAll
	}
	course := filter.Course
	if course == "" {
		course = models.FilterAll
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	roster := make([]models.Student, 0, len(students))
	for _, st := range students {
		if grade != models.FilterAll && string(st.Grade) != grade {
			continue
		}
		if course != models.FilterAll && !st.EnrolledIn(course) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(st.FullName()), search) &&
			!strings.Contains(st.ID, filter.Search) {
			continue
		}
		roster = append(roster, st)
	}
	return roster
}

func studentIDs(students []models.Student) []string {
	ids := make([]string, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	return ids
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
