package models

import "time"

// AccountTransaction is a single account movement: a deposit, withdrawal,
// transfer or repayment. IsIncome flags the direction.
type AccountTransaction struct {
	TransactionID int64     `json:"trx_a_id" db:"trx_a_id"`
	AccountID     int64     `json:"account_id" db:"account_id"`
	Type          string    `json:"type" db:"type"`
	Amount        float64   `json:"amount" db:"amount"`
	IsIncome      bool      `json:"is_income" db:"is_income"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// CardTransaction is a single card charge with its consumption category.
type CardTransaction struct {
	TransactionID int64     `json:"trx_c_id" db:"trx_c_id"`
	AccountID     int64     `json:"account_id" db:"account_id"`
	Amount        float64   `json:"amount" db:"amount"`
	Category      string    `json:"category" db:"category"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
