package models

import "github.com/shopspring/decimal"

// Change kinds accepted by the simulator. Anything else is ignored.
const (
	ChangeKindIncome  = "income"
	ChangeKindExpense = "expense"
)

// ChangeRequest is a hypothetical income or expense adjustment for
// counterfactual simulation. It never mutates stored records.
type ChangeRequest struct {
	Kind   string          `json:"type" binding:"required"`
	Label  string          `json:"name"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// RiskResult is one scoring outcome. Transient, never persisted.
type RiskResult struct {
	Probability  float64 `json:"delinquency_probability"`
	Label        int     `json:"delinquency_label"`
	Threshold    float64 `json:"threshold"`
	ModelVersion string  `json:"model_version"`
	Explanation  string  `json:"explanation"`
}

// RiskDelta compares a base score with a simulated score. A positive delta
// means the hypothetical changes increased delinquency risk.
type RiskDelta struct {
	BaseRiskScore      float64 `json:"base_risk_score"`
	SimulatedRiskScore float64 `json:"simulated_risk_score"`
	Delta              float64 `json:"delta"`
	Explanation        string  `json:"explanation"`
}
