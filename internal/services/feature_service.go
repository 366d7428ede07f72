package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/moabank/ai-risk-go/internal/cache"
	"github.com/moabank/ai-risk-go/internal/models"
	"github.com/moabank/ai-risk-go/internal/utils"
)

// eps keeps ratio denominators nonzero without branching.
const eps = 1e-6

// loanUsageNorm is the fixed loan-count normalizer the model was trained with.
const loanUsageNorm = 5.0

// DBQuerier is the subset of pgxpool.Pool the services need. Satisfied by
// pgxmock in tests.
type DBQuerier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// FeatureBuildResult bundles a built vector with the delinquency flag derived
// from loan statuses. The flag is a label, not a model input, and is dropped
// before scoring.
type FeatureBuildResult struct {
	Features        *models.FeatureVector `json:"features"`
	IsDelinquentAny bool                  `json:"is_delinquent_any"`
}

// FeatureService reduces a user's raw transaction, account and loan history
// into a fixed-shape feature vector.
type FeatureService struct {
	db        DBQuerier
	snapshots *cache.FeatureCache
	now       func() time.Time
}

// NewFeatureService creates a feature service. The snapshot cache is
// optional; a nil cache disables Redis lookups.
func NewFeatureService(db DBQuerier, snapshots *cache.FeatureCache) *FeatureService {
	return &FeatureService{db: db, snapshots: snapshots, now: time.Now}
}

// BuildFeatures computes the feature vector for a user from raw records and
// persists it as the user's latest snapshot.
func (s *FeatureService) BuildFeatures(ctx context.Context, userID int64) (*FeatureBuildResult, error) {
	user, err := s.fetchUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	accounts, err := s.fetchAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	accountIDs := make([]int64, 0, len(accounts))
	for _, acc := range accounts {
		accountIDs = append(accountIDs, acc.AccountID)
	}

	movements, err := s.fetchAccountMovements(ctx, accountIDs)
	if err != nil {
		return nil, err
	}

	charges, err := s.fetchCardCharges(ctx, accountIDs)
	if err != nil {
		return nil, err
	}

	loans, err := s.fetchLoans(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := buildFeatureVector(user, accounts, movements, charges, loans, s.now())

	if err := s.saveSnapshot(ctx, userID, result.Features); err != nil {
		// Snapshot persistence is best effort; the build itself succeeded.
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to persist feature snapshot")
	}
	if s.snapshots != nil {
		s.snapshots.Set(ctx, userID, result.Features)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":      userID,
		"accounts":     len(accounts),
		"movements":    len(movements),
		"card_charges": len(charges),
		"loans":        len(loans),
	}).Info("Built feature vector")

	return result, nil
}

// LatestFeatures returns the user's most recent feature snapshot: Redis cache
// first, then the newest user_features row. NotFoundError when neither exists.
func (s *FeatureService) LatestFeatures(ctx context.Context, userID int64) (*models.FeatureVector, error) {
	if s.snapshots != nil {
		if vec, ok := s.snapshots.Get(ctx, userID); ok {
			return vec, nil
		}
	}

	var payload []byte
	row := s.db.QueryRow(ctx,
		`SELECT payload FROM user_features WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`,
		userID)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.NewNotFoundErrorf("no feature snapshot for user %d", userID)
		}
		return nil, err
	}

	var vec models.FeatureVector
	if err := json.Unmarshal(payload, &vec); err != nil {
		return nil, err
	}

	if s.snapshots != nil {
		s.snapshots.Set(ctx, userID, &vec)
	}
	return &vec, nil
}

func (s *FeatureService) fetchUser(ctx context.Context, userID int64) (*models.UserProfile, error) {
	var user models.UserProfile
	row := s.db.QueryRow(ctx,
		`SELECT user_id, name, sex_cd, birthday, income::float8, customer_level FROM users WHERE user_id = $1`,
		userID)
	if err := row.Scan(&user.UserID, &user.Name, &user.SexCode, &user.Birthday, &user.Income, &user.CustomerLevel); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.NewNotFoundErrorf("user %d not found", userID)
		}
		return nil, err
	}
	return &user, nil
}

func (s *FeatureService) fetchAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	rows, err := s.db.Query(ctx,
		`SELECT account_id, user_id, balance::float8 FROM account WHERE user_id = $1`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var acc models.Account
		if err := rows.Scan(&acc.AccountID, &acc.UserID, &acc.Balance); err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

func (s *FeatureService) fetchAccountMovements(ctx context.Context, accountIDs []int64) ([]models.AccountTransaction, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx,
		`SELECT amount::float8, is_income, type, created_at FROM transaction_account WHERE account_id = ANY($1)`,
		accountIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []models.AccountTransaction
	for rows.Next() {
		var trx models.AccountTransaction
		if err := rows.Scan(&trx.Amount, &trx.IsIncome, &trx.Type, &trx.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, trx)
	}
	return movements, rows.Err()
}

func (s *FeatureService) fetchCardCharges(ctx context.Context, accountIDs []int64) ([]models.CardTransaction, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx,
		`SELECT amount::float8, COALESCE(category, ''), created_at FROM transaction_card WHERE account_id = ANY($1)`,
		accountIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charges []models.CardTransaction
	for rows.Next() {
		var trx models.CardTransaction
		if err := rows.Scan(&trx.Amount, &trx.Category, &trx.CreatedAt); err != nil {
			return nil, err
		}
		charges = append(charges, trx)
	}
	return charges, rows.Err()
}

func (s *FeatureService) fetchLoans(ctx context.Context, userID int64) ([]models.LoanLedger, error) {
	rows, err := s.db.Query(ctx,
		`SELECT principal::float8, remain_principal::float8, completed_interest::float8, repayment_type, repayment_status FROM loan_ledger WHERE user_id = $1`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []models.LoanLedger
	for rows.Next() {
		var loan models.LoanLedger
		if err := rows.Scan(&loan.Principal, &loan.RemainPrincipal, &loan.CompletedInterest, &loan.RepaymentType, &loan.RepaymentStatus); err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

func (s *FeatureService) saveSnapshot(ctx context.Context, userID int64, vec *models.FeatureVector) error {
	payload, err := json.Marshal(vec)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO user_features (user_id, payload, created_at) VALUES ($1, $2, NOW())`,
		userID, payload)
	return err
}

// buildFeatureVector runs the deterministic aggregation pipeline over raw
// record snapshots. Pure apart from the supplied clock.
func buildFeatureVector(user *models.UserProfile, accounts []models.Account,
	movements []models.AccountTransaction, charges []models.CardTransaction,
	loans []models.LoanLedger, now time.Time) *FeatureBuildResult {

	var vec models.FeatureVector

	// Outflow and card charge volume stats.
	var outflows []float64
	for _, trx := range movements {
		if !trx.IsIncome {
			outflows = append(outflows, trx.Amount)
		}
	}
	vec.TotUseAmMean = safeMean(outflows)
	vec.TotUseAmMax = safeMax(outflows)
	vec.TotUseAmMin = safeMin(outflows)
	vec.TotUseAmStd = safeStd(outflows)

	cardAmounts := make([]float64, 0, len(charges))
	for _, trx := range charges {
		cardAmounts = append(cardAmounts, trx.Amount)
	}
	vec.CrdslUseAmMean = safeMean(cardAmounts)
	vec.CrdslUseAmStd = safeStd(cardAmounts)

	// Withdrawal stats mirror the outflow subset.
	vec.CnfUseAmMean = safeMean(outflows)
	vec.CnfUseAmStd = safeStd(outflows)

	// Monthly credit/check ratio over card vs. account outflow totals.
	cardByMonth := map[string]float64{}
	for _, trx := range charges {
		cardByMonth[monthKey(trx.CreatedAt)] += trx.Amount
	}
	outflowByMonth := map[string]float64{}
	totalByMonth := map[string]float64{}
	for _, trx := range movements {
		m := monthKey(trx.CreatedAt)
		totalByMonth[m] += trx.Amount
		if !trx.IsIncome {
			outflowByMonth[m] += trx.Amount
		}
	}

	ratioMonths := map[string]struct{}{}
	for m := range cardByMonth {
		ratioMonths[m] = struct{}{}
	}
	for m := range outflowByMonth {
		ratioMonths[m] = struct{}{}
	}
	var creditRatios, checkRatios []float64
	for _, m := range sortedMonths(ratioMonths) {
		c := cardByMonth[m]
		w := outflowByMonth[m]
		total := c + w
		if total <= 0 {
			// A month with no activity scores a zero ratio instead of 0/0.
			total = 1
		}
		creditRatios = append(creditRatios, c/total)
		checkRatios = append(checkRatios, w/total)
	}
	vec.CreditRatioMean = safeMean(creditRatios)
	vec.CreditRatioStd = safeStd(creditRatios)
	vec.CreditRatioLast = safeLast(creditRatios)
	vec.CheckRatioMean = safeMean(checkRatios)
	vec.CheckRatioStd = safeStd(checkRatios)
	vec.CheckRatioLast = safeLast(checkRatios)

	// Monthly spend growth and acceleration over all account movements.
	var monthlyTotals []float64
	for _, m := range sortedMonths(totalByMonth) {
		monthlyTotals = append(monthlyTotals, totalByMonth[m])
	}
	growth := pctChange(monthlyTotals)
	accel := diffSeries(growth)
	vec.SpendGrowthMean = safeMean(growth)
	vec.SpendGrowthStd = safeStd(growth)
	vec.SpendGrowthLast = safeLast(growth)
	vec.SpendAccelMean = safeMean(accel)
	vec.SpendAccelStd = safeStd(accel)
	vec.SpendAccelLast = safeLast(accel)

	// Category concentration and entropy per month of card activity.
	countsByMonth := map[string]map[string]int{}
	for _, trx := range charges {
		m := monthKey(trx.CreatedAt)
		if countsByMonth[m] == nil {
			countsByMonth[m] = map[string]int{}
		}
		countsByMonth[m][trx.Category]++
	}
	var top3Sums, entropies []float64
	for _, m := range sortedMonths(countsByMonth) {
		top3Sums = append(top3Sums, top3Share(countsByMonth[m]))
		entropies = append(entropies, shannonEntropy(countsByMonth[m]))
	}
	top3Trend := diffSeries(top3Sums)
	vec.Top3RatioSumMean = safeMean(top3Sums)
	vec.Top3RatioSumStd = safeStd(top3Sums)
	vec.Top3RatioSumLast = safeLast(top3Sums)
	vec.Top3RatioTrendMean = safeMean(top3Trend)
	vec.Top3RatioTrendStd = safeStd(top3Trend)
	vec.Top3RatioTrendLast = safeLast(top3Trend)
	vec.SpendingEntropyMean = safeMean(entropies)
	vec.SpendingEntropyStd = safeStd(entropies)
	vec.SpendingEntropyLast = safeLast(entropies)

	// Demographics.
	vec.Age = float64(user.Age(now))
	vec.SexCode = float64(user.SexCode)
	vec.MemberRank = float64(models.MembershipRank(user.CustomerLevel))

	// Salary history is not separable from the transaction stream yet, so the
	// salary block stays a zero placeholder. The income-derived ratios below
	// use profile income instead.
	vec.SalaryMean, vec.SalaryMax, vec.SalaryMin, vec.SalaryStd = 0, 0, 0, 0

	// Balance stats across owned accounts.
	balances := make([]float64, 0, len(accounts))
	for _, acc := range accounts {
		balances = append(balances, acc.Balance)
	}
	vec.BalanceMean = safeMean(balances)
	vec.BalanceMax = safeMax(balances)
	vec.BalanceMin = safeMin(balances)
	vec.BalanceStd = safeStd(balances)

	// Loan ledger stats.
	var principals, remainings, interests []float64
	bullet, completed := 0, 0
	delinquent := false
	for _, loan := range loans {
		principals = append(principals, loan.Principal)
		remainings = append(remainings, loan.RemainPrincipal)
		interests = append(interests, loan.CompletedInterest)
		if loan.RepaymentType == models.RepaymentTypeBullet {
			bullet++
		}
		switch loan.RepaymentStatus {
		case models.RepaymentStatusCompleted:
			completed++
		case models.RepaymentStatusOverdue:
			delinquent = true
		}
	}
	vec.PrincipalAmountMean = safeMean(principals)
	vec.PrincipalAmountMax = safeMax(principals)
	vec.PrincipalAmountMin = safeMin(principals)
	vec.PrincipalAmountStd = safeStd(principals)
	vec.RemainingPrincipalMean = safeMean(remainings)
	vec.RemainingPrincipalMax = safeMax(remainings)
	vec.RemainingPrincipalMin = safeMin(remainings)
	vec.RemainingPrincipalStd = safeStd(remainings)
	vec.InterestRateMean = safeMean(interests)
	vec.InterestRateMax = safeMax(interests)
	vec.InterestRateMin = safeMin(interests)
	vec.InterestRateStd = safeStd(interests)

	vec.RepaymentRatioMean = (vec.PrincipalAmountMean - vec.RemainingPrincipalMean) / (vec.PrincipalAmountMean + eps)
	if len(loans) > 0 {
		vec.LoanTypeMean = float64(bullet) / float64(len(loans))
		vec.IsCompletedMean = float64(completed) / float64(len(loans))
	}

	vec.BalanceToLoanRatio = vec.BalanceMean / (vec.RemainingPrincipalMean + eps)
	vec.IncomeToLoanRatio = user.Income / (vec.RemainingPrincipalMean + eps)
	vec.DebtToIncomeRatio = vec.RemainingPrincipalMean / (user.Income + eps)
	vec.LoanUsageRatio = float64(len(loans)) / loanUsageNorm

	return &FeatureBuildResult{Features: &vec, IsDelinquentAny: delinquent}
}
