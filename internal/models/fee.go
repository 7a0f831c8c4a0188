package models

// PaymentMethod is the closed set of accepted payment channels.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "Cash"
	PaymentUPI          PaymentMethod = "UPI"
	PaymentBankTransfer PaymentMethod = "Bank Transfer"
	PaymentCheque       PaymentMethod = "Cheque"
)

// Valid returns true when the method is a supported value.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentUPI, PaymentBankTransfer, PaymentCheque:
		return true
	default:
		return false
	}
}

// FeeCategory is the closed set of fee ledger categories.
type FeeCategory string

const (
	FeeTuition   FeeCategory = "Tuition Fee"
	FeeAdmission FeeCategory = "Admission Fee"
	FeeExam      FeeCategory = "Exam Fee"
	FeeOther     FeeCategory = "Other"
)

// Valid returns true when the category is a supported value.
func (c FeeCategory) Valid() bool {
	switch c {
	case FeeTuition, FeeAdmission, FeeExam, FeeOther:
		return true
	default:
		return false
	}
}

// CourseFee prices a single course within a grade's fee structure.
type CourseFee struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// FeeStructure defines the per-grade base amount plus course pricing.
// Grade is the natural key; one record exists per standard.
type FeeStructure struct {
	Grade      Grade       `json:"grade"`
	BaseAmount float64     `json:"baseAmount"`
	CourseFees []CourseFee `json:"courseFees"`
}

// FeeRecord is an immutable ledger entry. Receipt numbers carry a
// random 4-digit suffix and are not guaranteed globally unique.
type FeeRecord struct {
	ID          string        `json:"id"`
	StudentID   string        `json:"studentId"`
	Amount      float64       `json:"amount"`
	PaymentDate string        `json:"paymentDate"`
	Method      PaymentMethod `json:"paymentMethod"`
	Category    FeeCategory   `json:"feeType"`
	ReceiptNo   string        `json:"receiptNo"`
	CollectedBy string        `json:"collectedBy"`
}

// FeeBalance is the derived paid/outstanding view for one student.
// Outstanding may go negative on overpayment; nothing clamps it.
type FeeBalance struct {
	StudentID   string  `json:"studentId"`
	TotalFees   float64 `json:"totalFees"`
	Paid        float64 `json:"paid"`
	Outstanding float64 `json:"outstanding"`
}
