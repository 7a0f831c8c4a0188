package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
	appErrors "github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/errors"
)

type fakeStudentStore struct {
	students []models.Student
	users    []models.User
}

func (f *fakeStudentStore) Students(ctx context.Context) ([]models.Student, error) {
	return f.students, nil
}

func (f *fakeStudentStore) SaveStudent(ctx context.Context, student models.Student) error {
	for i := range f.students {
		if f.students[i].ID == student.ID {
			f.students[i] = student
			return nil
		}
	}
	f.students = append(f.students, student)
	return nil
}

func (f *fakeStudentStore) RegisteredUsers(ctx context.Context) ([]models.User, error) {
	return f.users, nil
}

func newStudentService(store *fakeStudentStore) *StudentService {
	fees := NewFeeService(&fakeFeeStore{
		structures: []models.FeeStructure{
			{Grade: models.Grade10th, BaseAmount: 5000, CourseFees: []models.CourseFee{
				{Name: "Mathematics", Amount: 7000},
				{Name: "Science", Amount: 7000},
				{Name: "English", Amount: 5000},
			}},
		},
	}, nil, nil)
	return NewStudentService(store, fees, nil, nil)
}

func TestAdmitDefaultsAndFees(t *testing.T) {
	store := &fakeStudentStore{}
	svc := newStudentService(store)

	result, err := svc.Admit(context.Background(), AdmitRequest{
		FirstName:       "Dana",
		LastName:        "Kale",
		Grade:           models.Grade10th,
		EnrolledCourses: []string{"Mathematics", "Science"},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Notice)

	st := result.Student
	assert.Equal(t, 100.0, st.Attendance)
	assert.Equal(t, 0.0, st.GPA)
	assert.Equal(t, models.StudentActive, st.Status)
	assert.Equal(t, 19000.0, st.TotalFees)
	assert.NotEmpty(t, st.AdmissionDate)
	assert.True(t, strings.HasPrefix(st.PhotoURL, "https://api.dicebear.com/"))
	require.Len(t, store.students, 1)
}

func TestAdmitRequiresCourses(t *testing.T) {
	svc := newStudentService(&fakeStudentStore{})

	_, err := svc.Admit(context.Background(), AdmitRequest{
		FirstName: "Dana", LastName: "Kale", Grade: models.Grade10th,
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrIncompleteInput.Code, appErr.Code)
}

func TestAdmitMissingStructureNotice(t *testing.T) {
	store := &fakeStudentStore{}
	svc := newStudentService(store)

	result, err := svc.Admit(context.Background(), AdmitRequest{
		FirstName: "Esha", LastName: "Rao", Grade: models.Grade5th,
		EnrolledCourses: []string{"Mathematics"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Notice)
	assert.Equal(t, 0.0, result.Student.TotalFees)
}

func TestUpdateRepricesOnCourseChange(t *testing.T) {
	store := &fakeStudentStore{students: []models.Student{
		{ID: "1", FirstName: "Alice", LastName: "Johnson", Grade: models.Grade10th,
			EnrolledCourses: []string{"English"}, TotalFees: 10000},
	}}
	svc := newStudentService(store)

	courses := []string{"Mathematics", "Science"}
	updated, err := svc.Update(context.Background(), "1", UpdateRequest{EnrolledCourses: &courses})
	require.NoError(t, err)
	assert.Equal(t, 19000.0, updated.TotalFees)

	// Edits that touch neither grade nor courses keep the priced total.
	email := "alice@school.edu"
	updated, err = svc.Update(context.Background(), "1", UpdateRequest{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, 19000.0, updated.TotalFees)

	empty := []string{}
	_, err = svc.Update(context.Background(), "1", UpdateRequest{EnrolledCourses: &empty})
	require.Error(t, err)
}

func TestUpdateMissingStudent(t *testing.T) {
	svc := newStudentService(&fakeStudentStore{})
	name := "X"
	_, err := svc.Update(context.Background(), "nope", UpdateRequest{FirstName: &name})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestRegistrationReportUnregisteredFirst(t *testing.T) {
	store := &fakeStudentStore{
		students: []models.Student{
			{ID: "1", FirstName: "Alice", LastName: "Johnson", IsRegistered: true},
			{ID: "2", FirstName: "Bob", LastName: "Smith"},
			{ID: "3", FirstName: "Charlie", LastName: "Davis"},
		},
		users: []models.User{
			{ID: "usr_1", Username: "1", Role: models.RoleStudent, LinkedID: "1"},
		},
	}
	svc := newStudentService(store)

	rows, err := svc.RegistrationReport(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.False(t, rows[0].Registered)
	assert.False(t, rows[1].Registered)
	assert.True(t, rows[2].Registered)
	assert.Equal(t, "1", rows[2].Username)

	data, err := svc.RegistrationReportCSV(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(data), "Alice Johnson")
	assert.Contains(t, string(data), "Yes")
}
