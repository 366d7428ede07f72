package models

// Repayment schedule types.
const (
	RepaymentTypeEqualInstallment = "EQUAL_PAYMENT"
	RepaymentTypeEqualPrincipal   = "EQUAL_PRINCIPAL"
	RepaymentTypeBullet           = "BULLET"
)

// Repayment statuses.
const (
	RepaymentStatusNormal     = "NORMAL"
	RepaymentStatusOverdue    = "OVERDUE"
	RepaymentStatusTerminated = "TERMINATED"
	RepaymentStatusCompleted  = "COMPLETED"
)

// LoanLedger is a read-only snapshot of one loan held by a user.
type LoanLedger struct {
	LoanID            int64   `json:"loan_ledger_id" db:"loan_ledger_id"`
	UserID            int64   `json:"user_id" db:"user_id"`
	Principal         float64 `json:"principal" db:"principal"`
	RemainPrincipal   float64 `json:"remain_principal" db:"remain_principal"`
	CompletedInterest float64 `json:"completed_interest" db:"completed_interest"`
	RepaymentType     string  `json:"repayment_type" db:"repayment_type"`
	RepaymentStatus   string  `json:"repayment_status" db:"repayment_status"`
}
