package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/handler"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/middleware"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/service"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/store"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/config"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/genai"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/kv"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/logger"
	corsmiddleware "github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/middleware/cors"
	reqidmiddleware "github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	backend, err := newBackend(cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to init storage backend", "backend", cfg.Storage.Backend, "error", err)
	}

	documents := store.New(backend, logr)
	validate := validator.New()
	metrics := service.NewMetricsService()

	notifications := service.NewNotificationService(documents, logr, cfg.Notifications.DispatchDelay)
	notifications.Start(context.Background())
	defer notifications.Stop()

	authSvc, err := service.NewAuthService(documents, service.AuthConfig{
		TokenSecret:   cfg.JWT.Secret,
		TokenExpiry:   cfg.JWT.Expiration,
		AdminUsername: cfg.Admin.Username,
		AdminPassword: cfg.Admin.Password,
	}, validate, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to init auth service", "error", err)
	}

	feeSvc := service.NewFeeService(documents, validate, logr)
	studentSvc := service.NewStudentService(documents, feeSvc, validate, logr)
	teacherSvc := service.NewTeacherService(documents, authSvc, validate, logr)
	attendanceSvc := service.NewAttendanceService(documents, notifications, validate, logr)
	gradeSvc := service.NewGradeService(documents, validate, logr)
	noteSvc := service.NewNoteService(documents, validate, logr)
	settingsSvc := service.NewSettingsService(documents, validate, logr)
	dashboardSvc := service.NewDashboardService(documents, logr)

	var generator genai.Generator
	if cfg.Assistant.Enabled {
		generator = genai.NewClient(genai.ClientConfig{
			Endpoint: cfg.Assistant.Endpoint,
			APIKey:   cfg.Assistant.APIKey,
			Model:    cfg.Assistant.Model,
			Timeout:  cfg.Assistant.Timeout,
		})
	}
	assistantSvc := service.NewAssistantService(documents, generator, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	registerRoutes(r, cfg.APIPrefix, routeDeps{
		auth:       handler.NewAuthHandler(authSvc, metrics),
		students:   handler.NewStudentHandler(studentSvc, metrics),
		teachers:   handler.NewTeacherHandler(teacherSvc),
		attendance: handler.NewAttendanceHandler(attendanceSvc, metrics, logr),
		fees:       handler.NewFeeHandler(feeSvc, metrics),
		grades:     handler.NewGradeHandler(gradeSvc),
		notes:      handler.NewNoteHandler(noteSvc),
		settings:   handler.NewSettingsHandler(settingsSvc),
		dashboard:  handler.NewDashboardHandler(dashboardSvc),
		assistant:  handler.NewAssistantHandler(assistantSvc),
		authSvc:    authSvc,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "storage", cfg.Storage.Backend)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func newBackend(cfg *config.Config) (kv.Store, error) {
	switch cfg.Storage.Backend {
	case config.StorageFile:
		return kv.NewFileStore(cfg.Storage.Dir)
	case config.StoragePostgres:
		db, err := kv.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		return kv.NewPostgresStore(db)
	case config.StorageRedis:
		return kv.NewRedisStore(cfg.Redis)
	case config.StorageMemory:
		return kv.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

type routeDeps struct {
	auth       *handler.AuthHandler
	students   *handler.StudentHandler
	teachers   *handler.TeacherHandler
	attendance *handler.AttendanceHandler
	fees       *handler.FeeHandler
	grades     *handler.GradeHandler
	notes      *handler.NoteHandler
	settings   *handler.SettingsHandler
	dashboard  *handler.DashboardHandler
	assistant  *handler.AssistantHandler
	authSvc    *service.AuthService
}

func registerRoutes(r *gin.Engine, prefix string, deps routeDeps) {
	api := r.Group(prefix)

	api.POST("/auth/login", deps.auth.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(deps.authSvc))

	authed.POST("/auth/logout", deps.auth.Logout)
	authed.GET("/auth/me", deps.auth.Me)
	authed.POST("/auth/register", middleware.RequireRoles(models.RoleStudent), deps.auth.RegisterStudent)

	staff := middleware.RequireRoles(models.RoleOwner, models.RoleTeacher)
	owner := middleware.RequireRoles(models.RoleOwner)
	staffOrSelf := middleware.RBAC(string(models.RoleOwner), string(models.RoleTeacher), "SELF")

	authed.GET("/students", staff, deps.students.List)
	authed.GET("/students/:id", staffOrSelf, deps.students.Get)
	authed.POST("/students", owner, deps.students.Admit)
	authed.PATCH("/students/:id", staff, deps.students.Update)
	authed.GET("/reports/registrations", owner, deps.students.RegistrationReport)

	authed.GET("/teachers", staff, deps.teachers.List)
	authed.POST("/teachers", owner, deps.teachers.Register)

	authed.GET("/attendance/roster", staff, deps.attendance.Roster)
	authed.GET("/attendance/courses", staff, deps.attendance.Courses)
	authed.POST("/attendance", staff, deps.attendance.Save)
	authed.GET("/attendance/logs", staff, deps.attendance.Logs)

	authed.GET("/fees", staff, deps.fees.Records)
	authed.POST("/fees", owner, deps.fees.Collect)
	authed.POST("/fees/quote", staff, deps.fees.Quote)
	authed.GET("/fees/summary", owner, deps.fees.Summary)
	authed.GET("/fees/structures", staff, deps.fees.Structures)
	authed.PUT("/fees/structures", owner, deps.fees.UpsertStructure)
	authed.GET("/fees/receipt/:id", staff, deps.fees.Receipt)
	authed.GET("/students/:id/balance", staffOrSelf, deps.fees.Balance)

	authed.GET("/students/:id/grades", staffOrSelf, deps.grades.ForStudent)
	authed.POST("/grades", staff, deps.grades.Record)

	authed.GET("/notes", deps.notes.List)
	authed.POST("/notes", deps.notes.Save)
	authed.DELETE("/notes/:id", deps.notes.Delete)

	authed.GET("/settings/sessions", staff, deps.settings.Sessions)
	authed.PUT("/settings/sessions", owner, deps.settings.SaveSession)
	authed.GET("/settings/school", deps.settings.SchoolProfile)
	authed.PUT("/settings/school", owner, deps.settings.UpdateSchoolProfile)

	authed.GET("/dashboard", staff, deps.dashboard.Stats)

	authed.POST("/assistant/notes", staff, deps.assistant.StudyNotes)
	authed.POST("/assistant/quiz", staff, deps.assistant.Quiz)
	authed.GET("/assistant/remark/:id", staff, deps.assistant.ProgressRemark)
}
