package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
	appErrors "github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/errors"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/export"
)

type feeStore interface {
	Students(ctx context.Context) ([]models.Student, error)
	Fees(ctx context.Context) ([]models.FeeRecord, error)
	AddFeeRecord(ctx context.Context, fee models.FeeRecord) error
	FeeStructures(ctx context.Context) ([]models.FeeStructure, error)
	SaveFeeStructures(ctx context.Context, structures []models.FeeStructure) error
	SchoolProfile(ctx context.Context) (models.SchoolProfile, error)
}

// FeeService owns fee computation, the payment ledger, and receipting.
type FeeService struct {
	store     feeStore
	pdf       *export.PDFExporter
	csv       *export.CSVExporter
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	randInt   func(n int) int
}

// NewFeeService constructs the fee service.
func NewFeeService(store feeStore, validate *validator.Validate, logger *zap.Logger) *FeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeeService{
		store:     store,
		pdf:       export.NewPDFExporter(),
		csv:       export.NewCSVExporter(),
		validator: validate,
		logger:    logger,
		now:       time.Now,
		randInt:   rand.Intn,
	}
}

// ComputeTotal prices an enrollment: the grade's base amount plus the
// fee of each selected course. Course names with no entry in the
// structure contribute nothing.
func (s *FeeService) ComputeTotal(ctx context.Context, grade models.Grade, courses []string) (float64, error) {
	structure, err := s.structureFor(ctx, grade)
	if err != nil {
		return 0, err
	}
	priceByName := make(map[string]float64, len(structure.CourseFees))
	for _, cf := range structure.CourseFees {
		priceByName[cf.Name] = cf.Amount
	}
	total := structure.BaseAmount
	for _, course := range courses {
		total += priceByName[course]
	}
	return total, nil
}

// Balance derives the paid/outstanding view for one student from the
// ledger. Overpayment drives outstanding negative.
func (s *FeeService) Balance(ctx context.Context, studentID string) (*models.FeeBalance, error) {
	student, err := s.findStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	fees, err := s.store.Fees(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fee ledger")
	}
	paid := 0.0
	for _, f := range fees {
		if f.StudentID == studentID {
			paid += f.Amount
		}
	}
	return &models.FeeBalance{
		StudentID:   studentID,
		TotalFees:   student.TotalFees,
		Paid:        paid,
		Outstanding: student.TotalFees - paid,
	}, nil
}

// CollectRequest carries one payment.
type CollectRequest struct {
	StudentID   string               `json:"studentId" validate:"required"`
	Amount      float64              `json:"amount" validate:"required,gt=0"`
	Method      models.PaymentMethod `json:"paymentMethod" validate:"required"`
	Category    models.FeeCategory   `json:"feeType" validate:"required"`
	CollectedBy string               `json:"-"`
}

// Collect appends a ledger entry and returns it with a freshly minted
// receipt number. Receipt numbers carry a random 4-digit suffix.
func (s *FeeService) Collect(ctx context.Context, req CollectRequest) (*models.FeeRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	if !req.Method.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown payment method")
	}
	if !req.Category.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown fee category")
	}
	if _, err := s.findStudent(ctx, req.StudentID); err != nil {
		return nil, err
	}

	record := models.FeeRecord{
		ID:          uuid.NewString(),
		StudentID:   req.StudentID,
		Amount:      req.Amount,
		PaymentDate: s.now().Format("2006-01-02"),
		Method:      req.Method,
		Category:    req.Category,
		ReceiptNo:   fmt.Sprintf("RCP-%d", 1000+s.randInt(9000)),
		CollectedBy: req.CollectedBy,
	}
	if err := s.store.AddFeeRecord(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record payment")
	}

	s.logger.Info("payment collected",
		zap.String("student_id", record.StudentID),
		zap.Float64("amount", record.Amount),
		zap.String("receipt_no", record.ReceiptNo),
	)
	return &record, nil
}

// Records returns the full ledger, optionally narrowed to one student.
func (s *FeeService) Records(ctx context.Context, studentID string) ([]models.FeeRecord, error) {
	fees, err := s.store.Fees(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fee ledger")
	}
	if studentID == "" {
		return fees, nil
	}
	filtered := make([]models.FeeRecord, 0, len(fees))
	for _, f := range fees {
		if f.StudentID == studentID {
			filtered = append(filtered, f)
		}
	}
	return filtered, nil
}

// Structures returns every per-grade fee structure.
func (s *FeeService) Structures(ctx context.Context) ([]models.FeeStructure, error) {
	structures, err := s.store.FeeStructures(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fee structures")
	}
	return structures, nil
}

// UpsertStructure replaces the structure for its grade, or adds it when
// the grade has none yet.
func (s *FeeService) UpsertStructure(ctx context.Context, structure models.FeeStructure) error {
	if !structure.Grade.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown grade")
	}
	if structure.BaseAmount < 0 {
		return appErrors.Clone(appErrors.ErrValidation, "base amount must not be negative")
	}
	for _, cf := range structure.CourseFees {
		if cf.Name == "" || cf.Amount < 0 {
			return appErrors.Clone(appErrors.ErrValidation, "course fees need a name and a non-negative amount")
		}
	}

	structures, err := s.store.FeeStructures(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fee structures")
	}
	replaced := false
	for i := range structures {
		if structures[i].Grade == structure.Grade {
			structures[i] = structure
			replaced = true
			break
		}
	}
	if !replaced {
		structures = append(structures, structure)
	}
	if err := s.store.SaveFeeStructures(ctx, structures); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save fee structures")
	}
	return nil
}

// ReceiptPDF renders the printable receipt for one ledger entry.
func (s *FeeService) ReceiptPDF(ctx context.Context, recordID string) ([]byte, error) {
	fees, err := s.store.Fees(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fee ledger")
	}
	var record *models.FeeRecord
	for i := range fees {
		if fees[i].ID == recordID {
			record = &fees[i]
			break
		}
	}
	if record == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "payment record not found")
	}

	student, err := s.findStudent(ctx, record.StudentID)
	if err != nil {
		return nil, err
	}
	balance, err := s.Balance(ctx, record.StudentID)
	if err != nil {
		return nil, err
	}
	profile, err := s.store.SchoolProfile(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school profile")
	}

	data, err := s.pdf.RenderReceipt(export.Receipt{
		SchoolName:     profile.Name,
		ContactNumbers: profile.ContactNumbers,
		ReceiptNo:      record.ReceiptNo,
		Date:           record.PaymentDate,
		StudentName:    student.FullName(),
		StudentID:      student.ID,
		Grade:          string(student.Grade),
		Category:       string(record.Category),
		Method:         string(record.Method),
		Amount:         fmt.Sprintf("Rs. %.2f", record.Amount),
		CollectedBy:    record.CollectedBy,
		Outstanding:    fmt.Sprintf("Rs. %.2f", balance.Outstanding),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render receipt")
	}
	return data, nil
}

// SummaryCSV exports the whole ledger as CSV for bookkeeping.
func (s *FeeService) SummaryCSV(ctx context.Context) ([]byte, error) {
	fees, err := s.store.Fees(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fee ledger")
	}
	students, err := s.store.Students(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	nameByID := make(map[string]string, len(students))
	for _, st := range students {
		nameByID[st.ID] = st.FullName()
	}

	dataset := export.Dataset{
		Headers: []string{"Receipt No", "Date", "Student", "Fee Type", "Method", "Amount", "Collected By"},
	}
	for _, f := range fees {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Receipt No":   f.ReceiptNo,
			"Date":         f.PaymentDate,
			"Student":      nameByID[f.StudentID],
			"Fee Type":     string(f.Category),
			"Method":       string(f.Method),
			"Amount":       fmt.Sprintf("%.2f", f.Amount),
			"Collected By": f.CollectedBy,
		})
	}
	data, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render summary")
	}
	return data, nil
}

func (s *FeeService) structureFor(ctx context.Context, grade models.Grade) (*models.FeeStructure, error) {
	if !grade.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown grade")
	}
	structures, err := s.store.FeeStructures(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fee structures")
	}
	for i := range structures {
		if structures[i].Grade == grade {
			return &structures[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrMissingStructure,
		fmt.Sprintf("no fee structure configured for grade %s", grade))
}

func (s *FeeService) findStudent(ctx context.Context, id string) (*models.Student, error) {
	students, err := s.store.Students(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	for i := range students {
		if students[i].ID == id {
			return &students[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
}
