package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
	appErrors "github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/errors"
)

type fakeFeeStore struct {
	students   []models.Student
	fees       []models.FeeRecord
	structures []models.FeeStructure
	profile    models.SchoolProfile
}

func (f *fakeFeeStore) Students(ctx context.Context) ([]models.Student, error) {
	return f.students, nil
}

func (f *fakeFeeStore) Fees(ctx context.Context) ([]models.FeeRecord, error) {
	return f.fees, nil
}

func (f *fakeFeeStore) AddFeeRecord(ctx context.Context, fee models.FeeRecord) error {
	f.fees = append(f.fees, fee)
	return nil
}

func (f *fakeFeeStore) FeeStructures(ctx context.Context) ([]models.FeeStructure, error) {
	return f.structures, nil
}

func (f *fakeFeeStore) SaveFeeStructures(ctx context.Context, structures []models.FeeStructure) error {
	f.structures = structures
	return nil
}

func (f *fakeFeeStore) SchoolProfile(ctx context.Context) (models.SchoolProfile, error) {
	return f.profile, nil
}

func feeFixture() *fakeFeeStore {
	return &fakeFeeStore{
		students: []models.Student{
			{ID: "1", FirstName: "Alice", LastName: "Johnson", Grade: models.Grade10th, TotalFees: 19000},
		},
		structures: []models.FeeStructure{
			{Grade: models.Grade10th, BaseAmount: 5000, CourseFees: []models.CourseFee{
				{Name: "Mathematics", Amount: 7000},
				{Name: "Science", Amount: 7000},
				{Name: "English", Amount: 5000},
			}},
		},
		profile: models.SchoolProfile{Name: "Manikgad Cbse classes", ContactNumbers: []string{"9309521598"}},
	}
}

func TestComputeTotal(t *testing.T) {
	svc := NewFeeService(feeFixture(), nil, nil)
	ctx := context.Background()

	total, err := svc.ComputeTotal(ctx, models.Grade10th, []string{"Mathematics", "Science"})
	require.NoError(t, err)
	assert.Equal(t, 19000.0, total)

	// No courses selected leaves just the base amount.
	total, err = svc.ComputeTotal(ctx, models.Grade10th, nil)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, total)

	// Unknown course names contribute nothing.
	total, err = svc.ComputeTotal(ctx, models.Grade10th, []string{"Mathematics", "Astrology"})
	require.NoError(t, err)
	assert.Equal(t, 12000.0, total)
}

func TestComputeTotalMissingStructure(t *testing.T) {
	svc := NewFeeService(feeFixture(), nil, nil)

	_, err := svc.ComputeTotal(context.Background(), models.Grade5th, []string{"Mathematics"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrMissingStructure.Code, appErr.Code)
}

func TestCollectAppendsLedgerEntry(t *testing.T) {
	store := feeFixture()
	svc := NewFeeService(store, nil, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC) }
	svc.randInt = func(n int) int { return 42 }

	record, err := svc.Collect(context.Background(), CollectRequest{
		StudentID:   "1",
		Amount:      5000,
		Method:      models.PaymentUPI,
		Category:    models.FeeTuition,
		CollectedBy: "Super Admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "RCP-1042", record.ReceiptNo)
	assert.Equal(t, "2025-03-10", record.PaymentDate)
	assert.Equal(t, "Super Admin", record.CollectedBy)
	require.Len(t, store.fees, 1)
}

func TestCollectValidation(t *testing.T) {
	svc := NewFeeService(feeFixture(), nil, nil)
	ctx := context.Background()

	_, err := svc.Collect(ctx, CollectRequest{StudentID: "1", Amount: 0, Method: models.PaymentCash, Category: models.FeeTuition})
	require.Error(t, err)

	_, err = svc.Collect(ctx, CollectRequest{StudentID: "1", Amount: 100, Method: "Barter", Category: models.FeeTuition})
	require.Error(t, err)

	_, err = svc.Collect(ctx, CollectRequest{StudentID: "missing", Amount: 100, Method: models.PaymentCash, Category: models.FeeTuition})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestBalanceAllowsOverpayment(t *testing.T) {
	store := feeFixture()
	store.fees = []models.FeeRecord{
		{ID: "f1", StudentID: "1", Amount: 12000},
		{ID: "f2", StudentID: "1", Amount: 8000},
		{ID: "f3", StudentID: "other", Amount: 999},
	}
	svc := NewFeeService(store, nil, nil)

	balance, err := svc.Balance(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 19000.0, balance.TotalFees)
	assert.Equal(t, 20000.0, balance.Paid)
	assert.Equal(t, -1000.0, balance.Outstanding)
}

func TestUpsertStructureReplacesByGrade(t *testing.T) {
	store := feeFixture()
	svc := NewFeeService(store, nil, nil)
	ctx := context.Background()

	require.NoError(t, svc.UpsertStructure(ctx, models.FeeStructure{
		Grade: models.Grade10th, BaseAmount: 6000,
		CourseFees: []models.CourseFee{{Name: "Mathematics", Amount: 8000}},
	}))
	require.Len(t, store.structures, 1)
	assert.Equal(t, 6000.0, store.structures[0].BaseAmount)

	require.NoError(t, svc.UpsertStructure(ctx, models.FeeStructure{Grade: models.Grade5th, BaseAmount: 2000}))
	assert.Len(t, store.structures, 2)

	err := svc.UpsertStructure(ctx, models.FeeStructure{Grade: "13th", BaseAmount: 100})
	require.Error(t, err)
}

func TestReceiptPDF(t *testing.T) {
	store := feeFixture()
	store.fees = []models.FeeRecord{{
		ID: "f1", StudentID: "1", Amount: 5000, PaymentDate: "2025-03-10",
		Method: models.PaymentUPI, Category: models.FeeTuition, ReceiptNo: "RCP-1042", CollectedBy: "Super Admin",
	}}
	svc := NewFeeService(store, nil, nil)

	data, err := svc.ReceiptPDF(context.Background(), "f1")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	_, err = svc.ReceiptPDF(context.Background(), "missing")
	require.Error(t, err)
}

func TestSummaryCSV(t *testing.T) {
	store := feeFixture()
	store.fees = []models.FeeRecord{{
		ID: "f1", StudentID: "1", Amount: 5000, PaymentDate: "2025-03-10",
		Method: models.PaymentUPI, Category: models.FeeTuition, ReceiptNo: "RCP-1042", CollectedBy: "Super Admin",
	}}
	svc := NewFeeService(store, nil, nil)

	data, err := svc.SummaryCSV(context.Background())
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.HasPrefix(out, "Receipt No,Date,Student,Fee Type,Method,Amount,Collected By"))
	assert.Contains(t, out, "RCP-1042")
	assert.Contains(t, out, "Alice Johnson")
}
