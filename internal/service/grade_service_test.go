package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
)

type fakeGradeStore struct {
	students []models.Student
	grades   []models.GradeRecord
}

func (f *fakeGradeStore) Students(ctx context.Context) ([]models.Student, error) {
	return f.students, nil
}

func (f *fakeGradeStore) Grades(ctx context.Context) ([]models.GradeRecord, error) {
	return f.grades, nil
}

func (f *fakeGradeStore) AddGrade(ctx context.Context, grade models.GradeRecord) error {
	f.grades = append(f.grades, grade)
	return nil
}

func TestRecordGrade(t *testing.T) {
	store := &fakeGradeStore{students: []models.Student{{ID: "1", FirstName: "Alice", LastName: "Johnson"}}}
	svc := NewGradeService(store, nil, nil)

	record, err := svc.Record(context.Background(), RecordRequest{
		StudentID: "1", Subject: "Science", TestName: "Unit Test 2", Score: 88, MaxScore: 100,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.NotEmpty(t, record.Date)
	require.Len(t, store.grades, 1)
}

func TestRecordGradeRejectsScoreAboveMax(t *testing.T) {
	store := &fakeGradeStore{students: []models.Student{{ID: "1"}}}
	svc := NewGradeService(store, nil, nil)

	_, err := svc.Record(context.Background(), RecordRequest{
		StudentID: "1", Subject: "Science", TestName: "Unit Test 2", Score: 110, MaxScore: 100,
	})
	require.Error(t, err)
}

func TestRecordGradeUnknownStudent(t *testing.T) {
	svc := NewGradeService(&fakeGradeStore{}, nil, nil)

	_, err := svc.Record(context.Background(), RecordRequest{
		StudentID: "missing", Subject: "Science", TestName: "Test", Score: 50, MaxScore: 100,
	})
	require.Error(t, err)
}

func TestForStudentNewestFirst(t *testing.T) {
	store := &fakeGradeStore{grades: []models.GradeRecord{
		{ID: "g1", StudentID: "1", Date: "2025-01-01"},
		{ID: "g2", StudentID: "1", Date: "2025-03-01"},
		{ID: "g3", StudentID: "2", Date: "2025-02-01"},
	}}
	svc := NewGradeService(store, nil, nil)

	grades, err := svc.ForStudent(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, grades, 2)
	assert.Equal(t, "g2", grades[0].ID)
	assert.Equal(t, "g1", grades[1].ID)
}
