package services

import "fmt"

// explanationInput carries the ratios the rule table inspects. Derived from
// the feature map with zero defaults, so missing fields never panic.
type explanationInput struct {
	SpendRatio float64
	DTI        float64
	Balance    float64
	Remaining  float64
}

// explanationRule pairs a predicate with its message builder. Rules are
// evaluated in order and the first match wins, so the ordering encodes the
// explanation policy.
type explanationRule struct {
	matches func(in explanationInput) bool
	message func(in explanationInput) string
}

// ExplanationEngine maps a scoring outcome to a short deterministic status
// explanation. Pure and side-effect free.
type ExplanationEngine struct {
	riskRules   []explanationRule
	normalRules []explanationRule
}

func NewExplanationEngine() *ExplanationEngine {
	return &ExplanationEngine{
		riskRules: []explanationRule{
			{
				matches: func(in explanationInput) bool { return in.SpendRatio > 0.5 },
				message: func(in explanationInput) string {
					return fmt.Sprintf("Spending is %.0f%% of income, which sharply raises delinquency risk.", in.SpendRatio*100)
				},
			},
			{
				matches: func(in explanationInput) bool { return in.DTI > 1 },
				message: func(in explanationInput) string {
					return fmt.Sprintf("Outstanding debt exceeds income (DTI=%.2f), making repayment a heavy burden.", in.DTI)
				},
			},
			{
				matches: func(in explanationInput) bool { return in.Balance < in.Remaining*0.2 },
				message: func(in explanationInput) string {
					return "Deposit balances are very low relative to outstanding loans, leaving little liquidity."
				},
			},
			{
				matches: func(in explanationInput) bool { return true },
				message: func(in explanationInput) string {
					return "Risk signals were detected in spending and loan patterns."
				},
			},
		},
		normalRules: []explanationRule{
			{
				matches: func(in explanationInput) bool { return in.SpendRatio < 0.3 },
				message: func(in explanationInput) string {
					return "Spending stays well within income and is being managed steadily."
				},
			},
			{
				matches: func(in explanationInput) bool { return in.DTI < 0.5 },
				message: func(in explanationInput) string {
					return "Income comfortably covers outstanding debt, so repayment risk is low."
				},
			},
			{
				matches: func(in explanationInput) bool { return true },
				message: func(in explanationInput) string {
					return "Overall spending, income and loan structure look stable."
				},
			},
		},
	}
}

// Explain produces the status explanation for a scored vector. Deterministic
// for identical inputs; never fails on well-formed numeric features.
func (e *ExplanationEngine) Explain(features map[string]float64, probability float64, label int) string {
	in := explanationInput{
		DTI:       features["debt_to_income_ratio"],
		Balance:   features["balance_mean"],
		Remaining: features["remaining_principal_mean"],
	}
	if salary := features["salary_mean"]; salary != 0 {
		in.SpendRatio = features["TOT_USE_AM_mean"] / salary
	}

	rules := e.normalRules
	if label == 1 {
		rules = e.riskRules
	}
	for _, rule := range rules {
		if rule.matches(in) {
			return rule.message(in)
		}
	}
	return ""
}
