package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
	appErrors "github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/errors"
)

type fakeAttendanceStore struct {
	students []models.Student
	logs     []models.AttendanceRecord

	studentsErr error
	appendErr   error
}

func (f *fakeAttendanceStore) Students(ctx context.Context) ([]models.Student, error) {
	if f.studentsErr != nil {
		return nil, f.studentsErr
	}
	out := make([]models.Student, len(f.students))
	copy(out, f.students)
	return out, nil
}

func (f *fakeAttendanceStore) UpdateStudents(ctx context.Context, mutate func([]models.Student) []models.Student) error {
	f.students = mutate(f.students)
	return nil
}

func (f *fakeAttendanceStore) AttendanceLogs(ctx context.Context) ([]models.AttendanceRecord, error) {
	return f.logs, nil
}

func (f *fakeAttendanceStore) AppendAttendanceLog(ctx context.Context, record models.AttendanceRecord) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.logs = append(f.logs, record)
	return nil
}

type fakeNotifier struct {
	sent   []models.Student
	err    error
	onSend func()
}

func (f *fakeNotifier) SendAbsenteeSMS(ctx context.Context, student models.Student, dateDisplay string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.onSend != nil {
		f.onSend()
	}
	f.sent = append(f.sent, student)
	return student.ParentMobile != "", nil
}

func rosterFixture() []models.Student {
	return []models.Student{
		{ID: "1", FirstName: "Alice", LastName: "Johnson", Grade: models.Grade10th, Attendance: 95, ParentMobile: "9000000001", EnrolledCourses: []string{"Mathematics", "Science"}},
		{ID: "2", FirstName: "Bob", LastName: "Smith", Grade: models.Grade10th, Attendance: 82, ParentMobile: "", EnrolledCourses: []string{"English"}},
		{ID: "3", FirstName: "Charlie", LastName: "Davis", Grade: models.Grade7th, Attendance: 99.8, ParentMobile: "9000000003", EnrolledCourses: []string{"Mathematics"}},
	}
}

func TestRosterFilters(t *testing.T) {
	store := &fakeAttendanceStore{students: rosterFixture()}
	svc := NewAttendanceService(store, &fakeNotifier{}, nil, nil)
	ctx := context.Background()

	all, err := svc.Roster(ctx, models.RosterFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	tenth, err := svc.Roster(ctx, models.RosterFilter{Grade: "10th"})
	require.NoError(t, err)
	assert.Len(t, tenth, 2)

	math, err := svc.Roster(ctx, models.RosterFilter{Course: "Mathematics"})
	require.NoError(t, err)
	assert.Len(t, math, 2)

	// Grade and course are ANDed.
	both, err := svc.Roster(ctx, models.RosterFilter{Grade: "10th", Course: "Mathematics"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "1", both[0].ID)

	byName, err := svc.Roster(ctx, models.RosterFilter{Search: "char"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "3", byName[0].ID)

	none, err := svc.Roster(ctx, models.RosterFilter{Grade: "5th"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCoursesDistinctSorted(t *testing.T) {
	store := &fakeAttendanceStore{students: rosterFixture()}
	svc := NewAttendanceService(store, &fakeNotifier{}, nil, nil)

	courses, err := svc.Courses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"English", "Mathematics", "Science"}, courses)
}

func TestSaveRejectsUnmarkedStudents(t *testing.T) {
	store := &fakeAttendanceStore{students: rosterFixture()}
	svc := NewAttendanceService(store, &fakeNotifier{}, nil, nil)

	_, err := svc.Save(context.Background(), SaveAttendanceRequest{
		Grade:  "10th",
		Course: models.FilterAll,
		Marks:  map[string]bool{"1": true}, // Bob unmarked
	}, nil)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrIncompleteInput.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "1 unmarked")
	assert.Empty(t, store.logs)
}

func TestSaveRequiresConfirmationForAbsentees(t *testing.T) {
	store := &fakeAttendanceStore{students: rosterFixture()}
	notifier := &fakeNotifier{}
	svc := NewAttendanceService(store, notifier, nil, nil)

	_, err := svc.Save(context.Background(), SaveAttendanceRequest{
		Grade:  "10th",
		Course: models.FilterAll,
		Marks:  map[string]bool{"1": true, "2": false},
	}, nil)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFIRMATION_REQUIRED", appErr.Code)
	assert.Empty(t, notifier.sent)
	assert.Empty(t, store.logs)
}

func TestSaveAllPresentNeedsNoConfirmation(t *testing.T) {
	store := &fakeAttendanceStore{students: rosterFixture()}
	notifier := &fakeNotifier{}
	svc := NewAttendanceService(store, notifier, nil, nil)

	result, err := svc.Save(context.Background(), SaveAttendanceRequest{
		Grade:  "10th",
		Course: models.FilterAll,
		Marks:  map[string]bool{"1": true, "2": true},
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Deliveries)
	assert.Empty(t, notifier.sent)
	assert.Len(t, result.Record.PresentIDs, 2)
	assert.Empty(t, result.Record.AbsentIDs)
}

func TestSaveDispatchesAndNudges(t *testing.T) {
	store := &fakeAttendanceStore{students: rosterFixture()}
	notifier := &fakeNotifier{}
	svc := NewAttendanceService(store, notifier, nil, nil)
	svc.now = func() time.Time { return time.Date(2025, 2, 3, 9, 0, 0, 0, time.UTC) }

	var progress []models.DispatchProgress
	result, err := svc.Save(context.Background(), SaveAttendanceRequest{
		Grade:     models.FilterAll,
		Course:    models.FilterAll,
		Marks:     map[string]bool{"1": true, "2": false, "3": true},
		Confirmed: true,
		TakenBy:   "Super Admin",
	}, func(p models.DispatchProgress) { progress = append(progress, p) })
	require.NoError(t, err)

	// One notification, in roster order, with progress reported.
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "2", notifier.sent[0].ID)
	require.Len(t, progress, 1)
	assert.Equal(t, models.DispatchProgress{Current: 1, Total: 1, StudentName: "Bob Smith"}, progress[0])

	// Bob has no guardian mobile on file, so delivery is reported false.
	require.Len(t, result.Deliveries, 1)
	assert.False(t, result.Deliveries[0].Delivered)

	require.Len(t, store.logs, 1)
	record := store.logs[0]
	assert.Equal(t, "2025-02-03", record.Date)
	assert.Equal(t, []string{"1", "3"}, record.PresentIDs)
	assert.Equal(t, []string{"2"}, record.AbsentIDs)
	assert.Equal(t, "Super Admin", record.TakenBy)
	assert.NotEmpty(t, record.ID)

	// Nudges: +0.1 for present, -0.5 for absent, clamped at 100.
	byID := map[string]models.Student{}
	for _, st := range store.students {
		byID[st.ID] = st
	}
	assert.InDelta(t, 95.1, byID["1"].Attendance, 1e-9)
	assert.InDelta(t, 81.5, byID["2"].Attendance, 1e-9)
	assert.InDelta(t, 99.9, byID["3"].Attendance, 1e-9)
}

func TestSaveKeepsStudentsAdmittedDuringDispatch(t *testing.T) {
	store := &fakeAttendanceStore{students: rosterFixture()}
	notifier := &fakeNotifier{}
	// A new admission lands while notifications are going out.
	notifier.onSend = func() {
		store.students = append(store.students, models.Student{
			ID: "4", FirstName: "Dana", LastName: "Lee", Grade: models.Grade10th, Attendance: 100,
		})
	}
	svc := NewAttendanceService(store, notifier, nil, nil)

	_, err := svc.Save(context.Background(), SaveAttendanceRequest{
		Grade:     "10th",
		Course:    models.FilterAll,
		Marks:     map[string]bool{"1": true, "2": false},
		Confirmed: true,
	}, nil)
	require.NoError(t, err)

	byID := map[string]models.Student{}
	for _, st := range store.students {
		byID[st.ID] = st
	}
	require.Contains(t, byID, "4")
	assert.Equal(t, 100.0, byID["4"].Attendance)
	assert.InDelta(t, 95.1, byID["1"].Attendance, 1e-9)
	assert.InDelta(t, 81.5, byID["2"].Attendance, 1e-9)
}

func TestSaveClampsAttendanceAtBounds(t *testing.T) {
	store := &fakeAttendanceStore{students: []models.Student{
		{ID: "hi", FirstName: "Top", LastName: "Percent", Grade: models.Grade9th, Attendance: 100},
		{ID: "lo", FirstName: "Zero", LastName: "Percent", Grade: models.Grade9th, Attendance: 0.2},
	}}
	svc := NewAttendanceService(store, &fakeNotifier{}, nil, nil)

	_, err := svc.Save(context.Background(), SaveAttendanceRequest{
		Grade:     "9th",
		Course:    models.FilterAll,
		Marks:     map[string]bool{"hi": true, "lo": false},
		Confirmed: true,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 100.0, store.students[0].Attendance)
	assert.Equal(t, 0.0, store.students[1].Attendance)
}

func TestSaveDispatchFailureAborts(t *testing.T) {
	store := &fakeAttendanceStore{students: rosterFixture()}
	notifier := &fakeNotifier{err: errors.New("queue stopped")}
	svc := NewAttendanceService(store, notifier, nil, nil)

	_, err := svc.Save(context.Background(), SaveAttendanceRequest{
		Grade:     "10th",
		Course:    models.FilterAll,
		Marks:     map[string]bool{"1": true, "2": false},
		Confirmed: true,
	}, nil)
	require.Error(t, err)
	assert.Empty(t, store.logs)
}

func TestLogsNewestFirst(t *testing.T) {
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	store := &fakeAttendanceStore{logs: []models.AttendanceRecord{
		{ID: "a", CreatedAt: base},
		{ID: "b", CreatedAt: base.Add(24 * time.Hour)},
		{ID: "c", CreatedAt: base.Add(48 * time.Hour)},
	}}
	svc := NewAttendanceService(store, &fakeNotifier{}, nil, nil)

	logs, err := svc.Logs(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "c", logs[0].ID)
	assert.Equal(t, "b", logs[1].ID)
	assert.Equal(t, "a", logs[2].ID)
}
