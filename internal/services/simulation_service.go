package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/moabank/ai-risk-go/internal/models"
)

// SimulationService rescores a feature vector under hypothetical income and
// expense changes and reports the risk delta.
type SimulationService struct {
	risk *RiskService
}

func NewSimulationService(risk *RiskService) *SimulationService {
	return &SimulationService{risk: risk}
}

// SimulationOutcome bundles the delta with both underlying scoring results.
type SimulationOutcome struct {
	Base      *models.RiskResult `json:"base"`
	Simulated *models.RiskResult `json:"simulated"`
	Delta     models.RiskDelta   `json:"delta"`
}

// Simulate scores the unmodified base vector, applies the changes to an
// independent copy, rescores, and returns the delta. A positive delta means
// the changes increased delinquency risk.
func (s *SimulationService) Simulate(base *models.FeatureVector, changes []models.ChangeRequest) (*SimulationOutcome, error) {
	baseResult, err := s.risk.Score(base)
	if err != nil {
		return nil, err
	}

	adjusted := applyChanges(*base, changes)
	simResult, err := s.risk.Score(&adjusted)
	if err != nil {
		return nil, err
	}

	delta := round4(simResult.Probability - baseResult.Probability)
	outcome := &SimulationOutcome{
		Base:      baseResult,
		Simulated: simResult,
		Delta: models.RiskDelta{
			BaseRiskScore:      baseResult.Probability,
			SimulatedRiskScore: simResult.Probability,
			Delta:              delta,
			Explanation:        describeDelta(delta),
		},
	}

	logrus.WithFields(logrus.Fields{
		"base_score":      baseResult.Probability,
		"simulated_score": simResult.Probability,
		"delta":           delta,
		"changes":         len(changes),
	}).Info("Completed risk simulation")

	return outcome, nil
}

// applyChanges derives the adjusted vector. The receiver is a value copy so
// the caller's base vector is never aliased or mutated.
func applyChanges(vec models.FeatureVector, changes []models.ChangeRequest) models.FeatureVector {
	var incomeDelta, expenseDelta decimal.Decimal
	for _, change := range changes {
		switch change.Kind {
		case models.ChangeKindIncome:
			incomeDelta = incomeDelta.Add(change.Amount)
		case models.ChangeKindExpense:
			expenseDelta = expenseDelta.Add(change.Amount)
		default:
			// Unrecognized kinds are scenario noise, not an error.
			logrus.WithField("kind", change.Kind).Debug("Ignoring unrecognized change kind")
		}
	}

	income := incomeDelta.InexactFloat64()
	expense := expenseDelta.InexactFloat64()

	vec.TotUseAmMean += expense
	vec.SpendGrowthLast = vec.TotUseAmMean / (vec.SalaryMean + eps)
	vec.BalanceMean += income - expense

	newIncome := vec.SalaryMean + income
	vec.IncomeToLoanRatio = newIncome / (vec.RemainingPrincipalMean + eps)
	vec.DebtToIncomeRatio = vec.RemainingPrincipalMean / (newIncome + eps)

	return vec
}

// describeDelta summarizes the direction and size of a risk change.
func describeDelta(delta float64) string {
	switch {
	case delta > 0:
		return fmt.Sprintf("The income and expense changes raised delinquency risk by %+.4f.", delta)
	case delta < 0:
		return fmt.Sprintf("The income and expense changes lowered delinquency risk by %+.4f.", delta)
	default:
		return "The income and expense changes left delinquency risk unchanged."
	}
}
