package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
	appErrors "github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/errors"
)

type authStore interface {
	Students(ctx context.Context) ([]models.Student, error)
	SaveStudent(ctx context.Context, student models.Student) error
	Teachers(ctx context.Context) ([]models.Teacher, error)
	RegisteredUsers(ctx context.Context) ([]models.User, error)
	SaveRegisteredUser(ctx context.Context, user models.User) error
	CurrentUser(ctx context.Context) (*models.User, error)
	SetCurrentUser(ctx context.Context, user models.User) error
	ClearCurrentUser(ctx context.Context) error
	SchoolProfile(ctx context.Context) (models.SchoolProfile, error)
}

// AuthConfig wires the token parameters and the bootstrap administrator
// account.
type AuthConfig struct {
	TokenSecret   string
	TokenExpiry   time.Duration
	AdminUsername string
	AdminPassword string
}

// AuthService resolves portal principals and issues access tokens. The
// administrator account is fixed at construction; teachers and students
// resolve against the registered-user collection. Students logging in
// for the first time get an unregistered session and finish account
// creation through RegisterStudent.
type AuthService struct {
	store     authStore
	cfg       AuthConfig
	adminHash []byte
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

var usernameCleaner = regexp.MustCompile(`[^\w]`)

// NewAuthService constructs the auth service. The admin password is
// hashed immediately so the plaintext never outlives startup.
func NewAuthService(store authStore, cfg AuthConfig, validate *validator.Validate, logger *zap.Logger) (*AuthService, error) {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TokenExpiry <= 0 {
		cfg.TokenExpiry = 24 * time.Hour
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AuthService{store: store, cfg: cfg, adminHash: hash, validator: validate, logger: logger, now: time.Now}, nil
}

// Login resolves a principal for the requested role. Resolution order:
// the fixed administrator (case-sensitive), then registered users
// (case-insensitive username), then for students a name+grade match
// against the roster. A student without an account gets an unregistered
// session so they can complete registration; the password is ignored
// and nothing is persisted until RegisterStudent.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	if !req.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}

	var (
		user *models.User
		err  error
	)
	switch req.Role {
	case models.RoleOwner:
		user, err = s.loginOwner(ctx, req)
	case models.RoleTeacher:
		user, err = s.loginRegistered(ctx, req, models.RoleTeacher)
	case models.RoleStudent:
		user, err = s.loginStudent(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.SetCurrentUser(ctx, user.Sanitized()); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}

	token, expiresIn, err := s.issueToken(*user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	s.logger.Info("login", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return &models.LoginResponse{AccessToken: token, ExpiresIn: expiresIn, User: user.Sanitized()}, nil
}

func (s *AuthService) loginOwner(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	// The built-in administrator matches case-sensitively, unlike every
	// registered account.
	if req.Username == s.cfg.AdminUsername {
		if bcrypt.CompareHashAndPassword(s.adminHash, []byte(req.Password)) != nil {
			return nil, appErrors.ErrInvalidCredentials
		}
		name := "Super Admin"
		if profile, err := s.store.SchoolProfile(ctx); err == nil && profile.Name != "" {
			name = profile.Name + " Admin"
		}
		return &models.User{ID: "admin", Username: s.cfg.AdminUsername, Role: models.RoleOwner, Name: name}, nil
	}
	return s.loginRegistered(ctx, req, models.RoleOwner)
}

func (s *AuthService) loginRegistered(ctx context.Context, req models.LoginRequest, role models.Role) (*models.User, error) {
	users, err := s.store.RegisteredUsers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}
	for i := range users {
		u := users[i]
		if u.Role != role || !strings.EqualFold(u.Username, req.Username) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
			return nil, appErrors.ErrInvalidCredentials
		}
		return &u, nil
	}
	return nil, appErrors.ErrInvalidCredentials
}

func (s *AuthService) loginStudent(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	if req.Grade == "" || !req.Grade.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "grade is required for student login")
	}

	students, err := s.store.Students(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}

	var student *models.Student
	for i := range students {
		if students[i].Grade == req.Grade && strings.EqualFold(students[i].FullName(), strings.TrimSpace(req.Username)) {
			student = &students[i]
			break
		}
	}
	if student == nil {
		return nil, appErrors.ErrInvalidCredentials
	}

	if student.IsRegistered {
		users, err := s.store.RegisteredUsers(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
		}
		for i := range users {
			u := users[i]
			if u.Role == models.RoleStudent && u.LinkedID == student.ID {
				if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
					return nil, appErrors.ErrInvalidCredentials
				}
				return &u, nil
			}
		}
		// Flagged registered but no account on file; treat as a first
		// login so the student is not locked out.
	}

	// First login: the supplied password is ignored. The session exists
	// only so the student can reach the registration step; retrying with
	// any password behaves identically until registration completes.
	return firstLoginSession(student), nil
}

// firstLoginSession synthesizes the unregistered principal for a
// student with no account yet. Nothing is persisted here.
func firstLoginSession(student *models.Student) *models.User {
	return &models.User{
		ID:       "usr_" + student.ID,
		Username: student.ID,
		Role:     models.RoleStudent,
		Name:     student.FullName(),
		LinkedID: student.ID,
	}
}

// RegisterStudentRequest completes a student's first-login registration.
type RegisterStudentRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// RegisterStudent turns a first-login session into a permanent account:
// the student record is flagged registered with today's date, a linked
// user keyed by the student id is created, and the new principal takes
// over the session slot. A fresh token is issued so the registered flag
// reaches the client immediately.
func (s *AuthService) RegisterStudent(ctx context.Context, req RegisterStudentRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	students, err := s.store.Students(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	var student *models.Student
	for i := range students {
		if students[i].ID == req.StudentID {
			student = &students[i]
			break
		}
	}
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	users, err := s.store.RegisteredUsers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}
	for _, u := range users {
		if u.Role == models.RoleStudent && u.LinkedID == student.ID {
			return nil, appErrors.Clone(appErrors.ErrConflict, "student is already registered")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	user := models.User{
		ID:           "usr_" + student.ID,
		Username:     student.ID,
		Role:         models.RoleStudent,
		Name:         student.FullName(),
		LinkedID:     student.ID,
		PasswordHash: string(hash),
		IsRegistered: true,
	}
	if err := s.store.SaveRegisteredUser(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save account")
	}

	updated := *student
	updated.IsRegistered = true
	updated.RegistrationDate = s.now().Format("2006-01-02")
	if err := s.store.SaveStudent(ctx, updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student registration")
	}

	if err := s.store.SetCurrentUser(ctx, user.Sanitized()); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}
	token, expiresIn, err := s.issueToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	s.logger.Info("student registered", zap.String("student_id", student.ID))
	return &models.LoginResponse{AccessToken: token, ExpiresIn: expiresIn, User: user.Sanitized()}, nil
}

// RegisterAccount creates a registered user for an existing teacher
// record. The username derives from the display name; duplicate
// usernames are rejected. Students register through RegisterStudent.
func (s *AuthService) RegisterAccount(ctx context.Context, role models.Role, linkedID, name, password string) (*models.User, error) {
	if role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrValidation, "only teacher accounts can be registered here")
	}
	if password == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "password is required")
	}

	username := deriveUsername(name)
	users, err := s.store.RegisteredUsers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}
	for _, u := range users {
		if strings.EqualFold(u.Username, username) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "an account with this username already exists")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Role:         role,
		Name:         name,
		LinkedID:     linkedID,
		PasswordHash: string(hash),
		IsRegistered: true,
	}
	if err := s.store.SaveRegisteredUser(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save account")
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// Logout clears the persisted session slot. Logging out while nobody is
// logged in is a no-op.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.store.ClearCurrentUser(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear session")
	}
	return nil
}

// CurrentUser returns the principal in the session slot, or ErrNotFound
// when nobody is logged in.
func (s *AuthService) CurrentUser(ctx context.Context) (*models.User, error) {
	user, err := s.store.CurrentUser(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if user == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no active session")
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.ErrUnauthorized
		}
		return []byte(s.cfg.TokenSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

func (s *AuthService) issueToken(user models.User) (string, int64, error) {
	now := s.now()
	claims := models.JWTClaims{
		UserID:       user.ID,
		Role:         user.Role,
		Name:         user.Name,
		LinkedID:     user.LinkedID,
		IsRegistered: user.IsRegistered,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.TokenSecret))
	if err != nil {
		return "", 0, err
	}
	return signed, int64(s.cfg.TokenExpiry.Seconds()), nil
}

// deriveUsername flattens a display name into a login handle: lowercase,
// spaces collapse to underscores, everything outside [a-z0-9_] is
// dropped.
func deriveUsername(name string) string {
	underscored := strings.Join(strings.Fields(strings.TrimSpace(name)), "_")
	return usernameCleaner.ReplaceAllString(strings.ToLower(underscored), "")
}
