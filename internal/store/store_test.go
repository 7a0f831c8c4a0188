package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/kv"
)

func newTestStore() *Store {
	return New(kv.NewMemoryStore(), zap.NewNop())
}

func TestStudentsSeededOnFirstRead(t *testing.T) {
	s := newTestStore()
	students, err := s.Students(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 3)
	assert.Equal(t, "Alice", students[0].FirstName)

	// Second read hits the persisted seed, not the seeding path again.
	again, err := s.Students(context.Background())
	require.NoError(t, err)
	assert.Equal(t, students, again)
}

func TestSaveStudentUpsert(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	students, err := s.Students(ctx)
	require.NoError(t, err)
	alice := students[0]
	alice.GPA = 4.0
	require.NoError(t, s.SaveStudent(ctx, alice))

	students, err = s.Students(ctx)
	require.NoError(t, err)
	require.Len(t, students, 3)
	assert.Equal(t, 4.0, students[0].GPA)

	require.NoError(t, s.SaveStudent(ctx, models.Student{ID: "99", FirstName: "New", LastName: "Kid", Grade: models.Grade5th, Status: models.StudentActive, AdmissionDate: "2025-06-01"}))
	students, err = s.Students(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 4)
}

func TestUpdateStudentsSeesLatestCollection(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	_, err := s.Students(ctx)
	require.NoError(t, err)
	require.NoError(t, s.SaveStudent(ctx, models.Student{ID: "99", FirstName: "New", LastName: "Kid", Grade: models.Grade5th, Status: models.StudentActive, AdmissionDate: "2025-06-01"}))

	require.NoError(t, s.UpdateStudents(ctx, func(students []models.Student) []models.Student {
		for i := range students {
			students[i].Attendance = 50
		}
		return students
	}))

	students, err := s.Students(ctx)
	require.NoError(t, err)
	require.Len(t, students, 4)
	for _, st := range students {
		assert.Equal(t, 50.0, st.Attendance)
	}
}

func TestReadsReturnDeepCopies(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	students, err := s.Students(ctx)
	require.NoError(t, err)
	students[0].FirstName = "Mutated"
	students[0].EnrolledCourses[0] = "Hacked"

	fresh, err := s.Students(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice", fresh[0].FirstName)
	assert.Equal(t, "Mathematics", fresh[0].EnrolledCourses[0])
}

func TestSchoolProfileRoundTripKeepsLogoPayload(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	profile, err := s.SchoolProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Manikgad Cbse classes", profile.Name)
	assert.Len(t, profile.ContactNumbers, 3)

	profile.LogoURL = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUg=="
	require.NoError(t, s.SaveSchoolProfile(ctx, profile))

	got, err := s.SchoolProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, profile, got)
}

func TestSaveSessionClearsOtherCurrentFlags(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	sessions, err := s.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.True(t, sessions[1].IsCurrent)

	require.NoError(t, s.SaveSession(ctx, models.AcademicSession{
		ID: "s3", Name: "2025-26", StartDate: "2025-04-01", EndDate: "2026-03-31", IsCurrent: true,
	}))

	sessions, err = s.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	currentCount := 0
	for _, sess := range sessions {
		if sess.IsCurrent {
			currentCount++
			assert.Equal(t, "s3", sess.ID)
		}
	}
	assert.Equal(t, 1, currentCount)
}

func TestFeeLedgerAppendOnly(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	fees, err := s.Fees(ctx)
	require.NoError(t, err)
	require.Len(t, fees, 1)

	require.NoError(t, s.AddFeeRecord(ctx, models.FeeRecord{
		ID: "f2", StudentID: "2", Amount: 3000, PaymentDate: "2025-01-05",
		Method: models.PaymentCash, Category: models.FeeExam, ReceiptNo: "RCP-1042", CollectedBy: "Super Admin",
	}))

	fees, err = s.Fees(ctx)
	require.NoError(t, err)
	require.Len(t, fees, 2)
	assert.Equal(t, "RCP-8821", fees[0].ReceiptNo)
	assert.Equal(t, "RCP-1042", fees[1].ReceiptNo)
}

func TestCurrentUserSlot(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	user, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	first := models.User{ID: "u1", Username: "first", Role: models.RoleOwner, Name: "First"}
	require.NoError(t, s.SetCurrentUser(ctx, first))

	// A later login overwrites any prior session.
	second := models.User{ID: "u2", Username: "second", Role: models.RoleTeacher, Name: "Second"}
	require.NoError(t, s.SetCurrentUser(ctx, second))

	user, err = s.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u2", user.ID)

	require.NoError(t, s.ClearCurrentUser(ctx))
	user, err = s.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestNotesLifecycle(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	notes, err := s.Notes(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)

	note := models.Note{ID: "n1", UserID: "u1", Title: "Homework", Content: "Ch 4", Date: "2025-02-01"}
	require.NoError(t, s.SaveNote(ctx, note))

	note.Content = "Ch 4 + 5"
	require.NoError(t, s.SaveNote(ctx, note))

	notes, err = s.Notes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Ch 4 + 5", notes[0].Content)

	require.NoError(t, s.DeleteNote(ctx, "n1"))
	notes, err = s.Notes(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)
}
