package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/kv"
)

// Store is the profile store: every collection lives as one JSON
// document in the underlying key/value backend. Reads unmarshal a fresh
// copy so callers never alias persisted state; writes replace the whole
// collection. A single mutex serializes read-modify-write cycles — the
// single-writer discipline that the original left implicit.
type Store struct {
	kv     kv.Store
	mu     sync.Mutex
	logger *zap.Logger
}

// New wraps a key/value backend into the profile store.
func New(backend kv.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: backend, logger: logger}
}

// load reads a document into out. Returns false when the key is absent.
func (s *Store) load(ctx context.Context, key string, out interface{}) (bool, error) {
	data, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) save(ctx context.Context, key string, in interface{}) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// seeded loads the document at key, writing and returning seed when the
// key has never been written.
func (s *Store) seeded(ctx context.Context, key string, out interface{}, seed func() interface{}) error {
	ok, err := s.load(ctx, key, out)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	value := seed()
	if err := s.save(ctx, key, value); err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode seed %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode seed %s: %w", key, err)
	}
	s.logger.Info("seeded collection", zap.String("key", key))
	return nil
}

// Students returns the full student collection, seeding defaults on
// first read.
func (s *Store) Students(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := s.seeded(ctx, keyStudents, &students, func() interface{} { return defaultStudents() }); err != nil {
		return nil, err
	}
	return students, nil
}

// SaveStudent upserts one student by id.
func (s *Store) SaveStudent(ctx context.Context, student models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	students, err := s.Students(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range students {
		if students[i].ID == student.ID {
			students[i] = student
			replaced = true
			break
		}
	}
	if !replaced {
		students = append(students, student)
	}
	return s.save(ctx, keyStudents, students)
}

// UpdateStudents applies mutate to the student collection in one locked
// read-modify-write cycle, so edits that landed since the caller's last
// read are not lost to a stale snapshot.
func (s *Store) UpdateStudents(ctx context.Context, mutate func([]models.Student) []models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	students, err := s.Students(ctx)
	if err != nil {
		return err
	}
	return s.save(ctx, keyStudents, mutate(students))
}

// Teachers returns the teacher collection, seeding defaults on first
// read.
func (s *Store) Teachers(ctx context.Context) ([]models.Teacher, error) {
	var teachers []models.Teacher
	if err := s.seeded(ctx, keyTeachers, &teachers, func() interface{} { return defaultTeachers() }); err != nil {
		return nil, err
	}
	return teachers, nil
}

// SaveTeacher upserts one teacher by id.
func (s *Store) SaveTeacher(ctx context.Context, teacher models.Teacher) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	teachers, err := s.Teachers(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range teachers {
		if teachers[i].ID == teacher.ID {
			teachers[i] = teacher
			replaced = true
			break
		}
	}
	if !replaced {
		teachers = append(teachers, teacher)
	}
	return s.save(ctx, keyTeachers, teachers)
}

// Grades returns the gradebook, seeding defaults on first read.
func (s *Store) Grades(ctx context.Context) ([]models.GradeRecord, error) {
	var grades []models.GradeRecord
	if err := s.seeded(ctx, keyGrades, &grades, func() interface{} { return defaultGrades() }); err != nil {
		return nil, err
	}
	return grades, nil
}

// AddGrade appends one gradebook entry.
func (s *Store) AddGrade(ctx context.Context, grade models.GradeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	grades, err := s.Grades(ctx)
	if err != nil {
		return err
	}
	grades = append(grades, grade)
	return s.save(ctx, keyGrades, grades)
}

// Fees returns the fee ledger, seeding defaults on first read.
func (s *Store) Fees(ctx context.Context) ([]models.FeeRecord, error) {
	var fees []models.FeeRecord
	if err := s.seeded(ctx, keyFees, &fees, func() interface{} { return defaultFees() }); err != nil {
		return nil, err
	}
	return fees, nil
}

// AddFeeRecord appends one ledger entry. Ledger entries are never
// mutated or deleted.
func (s *Store) AddFeeRecord(ctx context.Context, fee models.FeeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fees, err := s.Fees(ctx)
	if err != nil {
		return err
	}
	fees = append(fees, fee)
	return s.save(ctx, keyFees, fees)
}

// Notes returns every note. Visibility filtering happens in the note
// service.
func (s *Store) Notes(ctx context.Context) ([]models.Note, error) {
	var notes []models.Note
	ok, err := s.load(ctx, keyNotes, &notes)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Note{}, nil
	}
	return notes, nil
}

// SaveNote upserts one note by id.
func (s *Store) SaveNote(ctx context.Context, note models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.Notes(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range notes {
		if notes[i].ID == note.ID {
			notes[i] = note
			replaced = true
			break
		}
	}
	if !replaced {
		notes = append(notes, note)
	}
	return s.save(ctx, keyNotes, notes)
}

// DeleteNote removes a note by id. Deleting a missing note is a no-op.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.Notes(ctx)
	if err != nil {
		return err
	}
	filtered := notes[:0]
	for _, n := range notes {
		if n.ID != id {
			filtered = append(filtered, n)
		}
	}
	return s.save(ctx, keyNotes, filtered)
}

// AttendanceLogs returns the append-only attendance log collection.
func (s *Store) AttendanceLogs(ctx context.Context) ([]models.AttendanceRecord, error) {
	var logs []models.AttendanceRecord
	ok, err := s.load(ctx, keyAttendance, &logs)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.AttendanceRecord{}, nil
	}
	return logs, nil
}

// AppendAttendanceLog appends one saved register.
func (s *Store) AppendAttendanceLog(ctx context.Context, record models.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs, err := s.AttendanceLogs(ctx)
	if err != nil {
		return err
	}
	logs = append(logs, record)
	return s.save(ctx, keyAttendance, logs)
}

// RegisteredUsers returns every dynamically registered principal.
func (s *Store) RegisteredUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	ok, err := s.load(ctx, keyUsers, &users)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.User{}, nil
	}
	return users, nil
}

// SaveRegisteredUser upserts one registered principal by id.
func (s *Store) SaveRegisteredUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.RegisteredUsers(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range users {
		if users[i].ID == user.ID {
			users[i] = user
			replaced = true
			break
		}
	}
	if !replaced {
		users = append(users, user)
	}
	return s.save(ctx, keyUsers, users)
}

// Sessions returns the academic sessions, seeding defaults on first
// read.
func (s *Store) Sessions(ctx context.Context) ([]models.AcademicSession, error) {
	var sessions []models.AcademicSession
	if err := s.seeded(ctx, keySessions, &sessions, func() interface{} { return defaultSessions() }); err != nil {
		return nil, err
	}
	return sessions, nil
}

// SaveSession upserts a session. Saving a current session clears the
// flag on every other session — at most one session is current.
func (s *Store) SaveSession(ctx context.Context, session models.AcademicSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.Sessions(ctx)
	if err != nil {
		return err
	}
	if session.IsCurrent {
		for i := range sessions {
			sessions[i].IsCurrent = false
		}
	}
	replaced := false
	for i := range sessions {
		if sessions[i].ID == session.ID {
			sessions[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		sessions = append(sessions, session)
	}
	return s.save(ctx, keySessions, sessions)
}

// FeeStructures returns the per-grade fee structures, seeding defaults
// on first read.
func (s *Store) FeeStructures(ctx context.Context) ([]models.FeeStructure, error) {
	var structures []models.FeeStructure
	if err := s.seeded(ctx, keyFeeStructures, &structures, func() interface{} { return defaultFeeStructures() }); err != nil {
		return nil, err
	}
	return structures, nil
}

// SaveFeeStructures overwrites the whole fee structure collection.
func (s *Store) SaveFeeStructures(ctx context.Context, structures []models.FeeStructure) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, keyFeeStructures, structures)
}

// SchoolProfile returns the institution singleton, seeding the default
// profile on first read.
func (s *Store) SchoolProfile(ctx context.Context) (models.SchoolProfile, error) {
	var profile models.SchoolProfile
	if err := s.seeded(ctx, keySchoolProfile, &profile, func() interface{} { return defaultSchoolProfile() }); err != nil {
		return models.SchoolProfile{}, err
	}
	return profile, nil
}

// SaveSchoolProfile overwrites the institution singleton.
func (s *Store) SaveSchoolProfile(ctx context.Context, profile models.SchoolProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, keySchoolProfile, profile)
}

// CurrentUser returns the principal in the session slot, or nil when
// nobody is logged in.
func (s *Store) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	ok, err := s.load(ctx, keyCurrentUser, &user)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// SetCurrentUser overwrites the single session slot.
func (s *Store) SetCurrentUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, keyCurrentUser, user)
}

// ClearCurrentUser empties the session slot unconditionally.
func (s *Store) ClearCurrentUser(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, keyCurrentUser); err != nil {
		return fmt.Errorf("clear session slot: %w", err)
	}
	return nil
}
