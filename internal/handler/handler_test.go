package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/middleware"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/service"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/store"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/kv"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/response"
)

// testEnv wires real services over an in-memory document store, so
// handler tests exercise the whole stack below the router.
type testEnv struct {
	store         *store.Store
	auth          *service.AuthService
	fees          *service.FeeService
	students      *service.StudentService
	attendance    *service.AttendanceService
	notifications *service.NotificationService
	metrics       *service.MetricsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	documents := store.New(kv.NewMemoryStore(), zap.NewNop())
	notifications := service.NewNotificationService(documents, zap.NewNop(), time.Millisecond)
	notifications.Start(context.Background())
	t.Cleanup(notifications.Stop)

	auth, err := service.NewAuthService(documents, service.AuthConfig{
		TokenSecret:   "test_secret",
		TokenExpiry:   time.Hour,
		AdminUsername: "Manikgad-Classess",
		AdminPassword: "Manikgad@123",
	}, nil, nil)
	require.NoError(t, err)

	fees := service.NewFeeService(documents, nil, nil)
	return &testEnv{
		store:         documents,
		auth:          auth,
		fees:          fees,
		students:      service.NewStudentService(documents, fees, nil, nil),
		attendance:    service.NewAttendanceService(documents, notifications, nil, nil),
		notifications: notifications,
		metrics:       service.NewMetricsService(),
	}
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func testContext(t *testing.T, req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = req
	return c, rec
}

func withClaims(c *gin.Context, role models.Role, name string) {
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "test-user", Role: role, Name: name})
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}
