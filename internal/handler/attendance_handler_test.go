package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/service"
)

func TestAttendanceHandlerRoster(t *testing.T) {
	env := newTestEnv(t)
	h := NewAttendanceHandler(env.attendance, env.metrics, nil)

	c, rec := testContext(t, jsonRequest(t, http.MethodGet, "/attendance/roster?grade=10th", nil))
	h.Roster(c)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var roster []models.Student
	require.NoError(t, json.Unmarshal(data, &roster))
	// Seeded directory has two 10th standard students.
	assert.Len(t, roster, 2)
}

func TestAttendanceHandlerSaveRequiresConfirmation(t *testing.T) {
	env := newTestEnv(t)
	h := NewAttendanceHandler(env.attendance, env.metrics, nil)

	c, rec := testContext(t, jsonRequest(t, http.MethodPost, "/attendance", service.SaveAttendanceRequest{
		Grade:  "10th",
		Course: models.FilterAll,
		Marks:  map[string]bool{"1": true, "2": false},
	}))
	withClaims(c, models.RoleTeacher, "Dr. Sarah Wilson")
	h.Save(c)

	require.Equal(t, http.StatusConflict, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "CONFIRMATION_REQUIRED", envelope.Error.Code)
}

func TestAttendanceHandlerSaveAndLogs(t *testing.T) {
	env := newTestEnv(t)
	h := NewAttendanceHandler(env.attendance, env.metrics, nil)

	c, rec := testContext(t, jsonRequest(t, http.MethodPost, "/attendance", service.SaveAttendanceRequest{
		Grade:     "10th",
		Course:    models.FilterAll,
		Marks:     map[string]bool{"1": true, "2": false},
		Confirmed: true,
	}))
	withClaims(c, models.RoleTeacher, "Dr. Sarah Wilson")
	h.Save(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	envelope := decodeEnvelope(t, rec)
	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var result service.SaveAttendanceResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, "Dr. Sarah Wilson", result.Record.TakenBy)
	assert.Equal(t, []string{"2"}, result.Record.AbsentIDs)
	require.Len(t, result.Deliveries, 1)

	c, rec = testContext(t, jsonRequest(t, http.MethodGet, "/attendance/logs", nil))
	h.Logs(c)
	require.Equal(t, http.StatusOK, rec.Code)

	envelope = decodeEnvelope(t, rec)
	data, err = json.Marshal(envelope.Data)
	require.NoError(t, err)
	var logs []models.AttendanceRecord
	require.NoError(t, json.Unmarshal(data, &logs))
	require.Len(t, logs, 1)
}

func TestAttendanceHandlerCourses(t *testing.T) {
	env := newTestEnv(t)
	h := NewAttendanceHandler(env.attendance, env.metrics, nil)

	c, rec := testContext(t, jsonRequest(t, http.MethodGet, "/attendance/courses", nil))
	h.Courses(c)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var courses []string
	require.NoError(t, json.Unmarshal(data, &courses))
	assert.Equal(t, []string{"English", "Mathematics", "Science"}, courses)
}
