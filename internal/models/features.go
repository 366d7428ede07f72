package models

// FeatureVector is the fixed-shape behavioral summary of one user, the sole
// input to risk scoring. The field set and its order are part of the trained
// model contract: FeatureNames lists every field in the exact order the
// classifier was trained against, and Values emits them in that order.
//
// AGE, SEX_CD and MBR_RK are integer-coded but carried as float64 so the
// whole vector stays a single numeric row.
type FeatureVector struct {
	TotUseAmMean float64 `json:"TOT_USE_AM_mean"`
	TotUseAmMax  float64 `json:"TOT_USE_AM_max"`
	TotUseAmMin  float64 `json:"TOT_USE_AM_min"`
	TotUseAmStd  float64 `json:"TOT_USE_AM_std"`

	CrdslUseAmMean float64 `json:"CRDSL_USE_AM_mean"`
	CrdslUseAmStd  float64 `json:"CRDSL_USE_AM_std"`

	CnfUseAmMean float64 `json:"CNF_USE_AM_mean"`
	CnfUseAmStd  float64 `json:"CNF_USE_AM_std"`

	CreditRatioMean float64 `json:"credit_ratio_mean"`
	CreditRatioStd  float64 `json:"credit_ratio_std"`
	CreditRatioLast float64 `json:"credit_ratio_last"`

	CheckRatioMean float64 `json:"check_ratio_mean"`
	CheckRatioStd  float64 `json:"check_ratio_std"`
	CheckRatioLast float64 `json:"check_ratio_last"`

	SpendGrowthMean float64 `json:"spend_growth_mean"`
	SpendGrowthStd  float64 `json:"spend_growth_std"`
	SpendGrowthLast float64 `json:"spend_growth_last"`

	SpendAccelMean float64 `json:"spend_accel_mean"`
	SpendAccelStd  float64 `json:"spend_accel_std"`
	SpendAccelLast float64 `json:"spend_accel_last"`

	Top3RatioSumMean float64 `json:"top3_ratio_sum_mean"`
	Top3RatioSumStd  float64 `json:"top3_ratio_sum_std"`
	Top3RatioSumLast float64 `json:"top3_ratio_sum_last"`

	Top3RatioTrendMean float64 `json:"top3_ratio_trend_mean"`
	Top3RatioTrendStd  float64 `json:"top3_ratio_trend_std"`
	Top3RatioTrendLast float64 `json:"top3_ratio_trend_last"`

	SpendingEntropyMean float64 `json:"spending_entropy_mean"`
	SpendingEntropyStd  float64 `json:"spending_entropy_std"`
	SpendingEntropyLast float64 `json:"spending_entropy_last"`

	Age        float64 `json:"AGE"`
	SexCode    float64 `json:"SEX_CD"`
	MemberRank float64 `json:"MBR_RK"`

	SalaryMean float64 `json:"salary_mean"`
	SalaryMax  float64 `json:"salary_max"`
	SalaryMin  float64 `json:"salary_min"`
	SalaryStd  float64 `json:"salary_std"`

	BalanceMean float64 `json:"balance_mean"`
	BalanceMax  float64 `json:"balance_max"`
	BalanceMin  float64 `json:"balance_min"`
	BalanceStd  float64 `json:"balance_std"`

	PrincipalAmountMean float64 `json:"principal_amount_mean"`
	PrincipalAmountMax  float64 `json:"principal_amount_max"`
	PrincipalAmountMin  float64 `json:"principal_amount_min"`
	PrincipalAmountStd  float64 `json:"principal_amount_std"`

	RemainingPrincipalMean float64 `json:"remaining_principal_mean"`
	RemainingPrincipalMax  float64 `json:"remaining_principal_max"`
	RemainingPrincipalMin  float64 `json:"remaining_principal_min"`
	RemainingPrincipalStd  float64 `json:"remaining_principal_std"`

	InterestRateMean float64 `json:"interest_rate_mean"`
	InterestRateMax  float64 `json:"interest_rate_max"`
	InterestRateMin  float64 `json:"interest_rate_min"`
	InterestRateStd  float64 `json:"interest_rate_std"`

	RepaymentRatioMean float64 `json:"repayment_ratio_mean"`
	LoanTypeMean       float64 `json:"loan_type_mean"`
	IsCompletedMean    float64 `json:"is_completed_mean"`

	BalanceToLoanRatio float64 `json:"balance_to_loan_ratio"`
	IncomeToLoanRatio  float64 `json:"income_to_loan_ratio"`
	DebtToIncomeRatio  float64 `json:"debt_to_income_ratio"`
	LoanUsageRatio     float64 `json:"loan_usage_ratio"`
}

// FeatureNames is the canonical ordered field list of a FeatureVector.
var FeatureNames = []string{
	"TOT_USE_AM_mean", "TOT_USE_AM_max", "TOT_USE_AM_min", "TOT_USE_AM_std",
	"CRDSL_USE_AM_mean", "CRDSL_USE_AM_std",
	"CNF_USE_AM_mean", "CNF_USE_AM_std",
	"credit_ratio_mean", "credit_ratio_std", "credit_ratio_last",
	"check_ratio_mean", "check_ratio_std", "check_ratio_last",
	"spend_growth_mean", "spend_growth_std", "spend_growth_last",
	"spend_accel_mean", "spend_accel_std", "spend_accel_last",
	"top3_ratio_sum_mean", "top3_ratio_sum_std", "top3_ratio_sum_last",
	"top3_ratio_trend_mean", "top3_ratio_trend_std", "top3_ratio_trend_last",
	"spending_entropy_mean", "spending_entropy_std", "spending_entropy_last",
	"AGE", "SEX_CD", "MBR_RK",
	"salary_mean", "salary_max", "salary_min", "salary_std",
	"balance_mean", "balance_max", "balance_min", "balance_std",
	"principal_amount_mean", "principal_amount_max", "principal_amount_min", "principal_amount_std",
	"remaining_principal_mean", "remaining_principal_max", "remaining_principal_min", "remaining_principal_std",
	"interest_rate_mean", "interest_rate_max", "interest_rate_min", "interest_rate_std",
	"repayment_ratio_mean", "loan_type_mean", "is_completed_mean",
	"balance_to_loan_ratio", "income_to_loan_ratio", "debt_to_income_ratio", "loan_usage_ratio",
}

// Values returns the vector's fields in FeatureNames order.
func (v *FeatureVector) Values() []float64 {
	return []float64{
		v.TotUseAmMean, v.TotUseAmMax, v.TotUseAmMin, v.TotUseAmStd,
		v.CrdslUseAmMean, v.CrdslUseAmStd,
		v.CnfUseAmMean, v.CnfUseAmStd,
		v.CreditRatioMean, v.CreditRatioStd, v.CreditRatioLast,
		v.CheckRatioMean, v.CheckRatioStd, v.CheckRatioLast,
		v.SpendGrowthMean, v.SpendGrowthStd, v.SpendGrowthLast,
		v.SpendAccelMean, v.SpendAccelStd, v.SpendAccelLast,
		v.Top3RatioSumMean, v.Top3RatioSumStd, v.Top3RatioSumLast,
		v.Top3RatioTrendMean, v.Top3RatioTrendStd, v.Top3RatioTrendLast,
		v.SpendingEntropyMean, v.SpendingEntropyStd, v.SpendingEntropyLast,
		v.Age, v.SexCode, v.MemberRank,
		v.SalaryMean, v.SalaryMax, v.SalaryMin, v.SalaryStd,
		v.BalanceMean, v.BalanceMax, v.BalanceMin, v.BalanceStd,
		v.PrincipalAmountMean, v.PrincipalAmountMax, v.PrincipalAmountMin, v.PrincipalAmountStd,
		v.RemainingPrincipalMean, v.RemainingPrincipalMax, v.RemainingPrincipalMin, v.RemainingPrincipalStd,
		v.InterestRateMean, v.InterestRateMax, v.InterestRateMin, v.InterestRateStd,
		v.RepaymentRatioMean, v.LoanTypeMean, v.IsCompletedMean,
		v.BalanceToLoanRatio, v.IncomeToLoanRatio, v.DebtToIncomeRatio, v.LoanUsageRatio,
	}
}

// ToMap returns the vector as a name -> value map in no particular order.
func (v *FeatureVector) ToMap() map[string]float64 {
	values := v.Values()
	m := make(map[string]float64, len(values))
	for i, name := range FeatureNames {
		m[name] = values[i]
	}
	return m
}

// FeatureVectorFromValues builds a vector from values in FeatureNames order.
func FeatureVectorFromValues(values []float64) *FeatureVector {
	var v FeatureVector
	fields := []*float64{
		&v.TotUseAmMean, &v.TotUseAmMax, &v.TotUseAmMin, &v.TotUseAmStd,
		&v.CrdslUseAmMean, &v.CrdslUseAmStd,
		&v.CnfUseAmMean, &v.CnfUseAmStd,
		&v.CreditRatioMean, &v.CreditRatioStd, &v.CreditRatioLast,
		&v.CheckRatioMean, &v.CheckRatioStd, &v.CheckRatioLast,
		&v.SpendGrowthMean, &v.SpendGrowthStd, &v.SpendGrowthLast,
		&v.SpendAccelMean, &v.SpendAccelStd, &v.SpendAccelLast,
		&v.Top3RatioSumMean, &v.Top3RatioSumStd, &v.Top3RatioSumLast,
		&v.Top3RatioTrendMean, &v.Top3RatioTrendStd, &v.Top3RatioTrendLast,
		&v.SpendingEntropyMean, &v.SpendingEntropyStd, &v.SpendingEntropyLast,
		&v.Age, &v.SexCode, &v.MemberRank,
		&v.SalaryMean, &v.SalaryMax, &v.SalaryMin, &v.SalaryStd,
		&v.BalanceMean, &v.BalanceMax, &v.BalanceMin, &v.BalanceStd,
		&v.PrincipalAmountMean, &v.PrincipalAmountMax, &v.PrincipalAmountMin, &v.PrincipalAmountStd,
		&v.RemainingPrincipalMean, &v.RemainingPrincipalMax, &v.RemainingPrincipalMin, &v.RemainingPrincipalStd,
		&v.InterestRateMean, &v.InterestRateMax, &v.InterestRateMin, &v.InterestRateStd,
		&v.RepaymentRatioMean, &v.LoanTypeMean, &v.IsCompletedMean,
		&v.BalanceToLoanRatio, &v.IncomeToLoanRatio, &v.DebtToIncomeRatio, &v.LoanUsageRatio,
	}
	for i, f := range fields {
		if i < len(values) {
			*f = values[i]
		}
	}
	return &v
}

// FeatureVectorFromMap builds a vector from a name -> value map. Missing
// names default to zero; unknown names are ignored.
func FeatureVectorFromMap(m map[string]float64) *FeatureVector {
	values := make([]float64, len(FeatureNames))
	for i, name := range FeatureNames {
		values[i] = m[name]
	}
	return FeatureVectorFromValues(values)
}
