package services

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moabank/ai-risk-go/internal/models"
	"github.com/moabank/ai-risk-go/internal/utils"
)

var testNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func testUser() *models.UserProfile {
	return &models.UserProfile{
		UserID:        1,
		Name:          "test",
		SexCode:       1,
		Birthday:      time.Date(1994, 1, 15, 0, 0, 0, 0, time.UTC),
		Income:        3000000,
		CustomerLevel: models.CustomerLevelVIP,
	}
}

func TestBuildFeatureVector_EmptyHistory(t *testing.T) {
	result := buildFeatureVector(testUser(), nil, nil, nil, nil, testNow)
	vec := result.Features

	// Every aggregate over an empty history must be exactly zero, never NaN.
	// Demographics and the income-over-epsilon ratio are the only nonzero
	// fields.
	for i, value := range vec.Values() {
		name := models.FeatureNames[i]
		assert.False(t, math.IsNaN(value), "feature %s is NaN", name)
		switch name {
		case "AGE", "SEX_CD", "MBR_RK", "income_to_loan_ratio":
			continue
		}
		assert.Equal(t, 0.0, value, "feature %s", name)
	}

	assert.Equal(t, 30.0, vec.Age)
	assert.Equal(t, 1.0, vec.SexCode)
	assert.Equal(t, 4.0, vec.MemberRank)
	assert.InDelta(t, testUser().Income/eps, vec.IncomeToLoanRatio, 1)
	assert.Equal(t, 0.0, vec.RemainingPrincipalMean)
	assert.Equal(t, 0.0, vec.DebtToIncomeRatio)
	assert.Equal(t, 0.0, vec.LoanUsageRatio)
	assert.Equal(t, 0.0, vec.IsCompletedMean)
	assert.False(t, result.IsDelinquentAny)
}

func TestBuildFeatureVector_VolumeAndMonthlySeries(t *testing.T) {
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

	movements := []models.AccountTransaction{
		{Amount: 100000, IsIncome: false, Type: "ATM_WITHDRAW", CreatedAt: jan},
		{Amount: 300000, IsIncome: true, Type: "TRANSFER_RECEIVE", CreatedAt: jan},
		{Amount: 200000, IsIncome: false, Type: "CARD_PAYMENT", CreatedAt: feb},
	}
	charges := []models.CardTransaction{
		{Amount: 50000, Category: "FOOD", CreatedAt: jan},
		{Amount: 30000, Category: "FOOD", CreatedAt: jan},
		{Amount: 20000, Category: "ETC", CreatedAt: jan},
	}

	result := buildFeatureVector(testUser(), nil, movements, charges, nil, testNow)
	vec := result.Features

	// Outflow volume stats over [100000, 200000].
	assert.InDelta(t, 150000, vec.TotUseAmMean, 1e-9)
	assert.InDelta(t, 200000, vec.TotUseAmMax, 1e-9)
	assert.InDelta(t, 100000, vec.TotUseAmMin, 1e-9)
	assert.InDelta(t, 50000, vec.TotUseAmStd, 1e-9)
	assert.Equal(t, vec.TotUseAmMean, vec.CnfUseAmMean)
	assert.Equal(t, vec.TotUseAmStd, vec.CnfUseAmStd)

	// Card charge stats over [50000, 30000, 20000].
	assert.InDelta(t, 100000.0/3.0, vec.CrdslUseAmMean, 1e-9)

	// January: card 100000 vs outflow 100000. February: card 0 vs 200000.
	assert.InDelta(t, 0.25, vec.CreditRatioMean, 1e-9)
	assert.InDelta(t, 0.0, vec.CreditRatioLast, 1e-9)
	assert.InDelta(t, 0.75, vec.CheckRatioMean, 1e-9)
	assert.InDelta(t, 1.0, vec.CheckRatioLast, 1e-9)

	// Monthly totals 400000 -> 200000: growth [0, -0.5], accel [0, -0.5].
	assert.InDelta(t, -0.25, vec.SpendGrowthMean, 1e-9)
	assert.InDelta(t, -0.5, vec.SpendGrowthLast, 1e-9)
	assert.InDelta(t, -0.5, vec.SpendAccelLast, 1e-9)

	// Single card month: two categories, so top3 covers everything.
	assert.InDelta(t, 1.0, vec.Top3RatioSumMean, 1e-9)
	assert.InDelta(t, 1.0, vec.Top3RatioSumLast, 1e-9)
	assert.InDelta(t, 0.0, vec.Top3RatioTrendLast, 1e-9)

	// Entropy of counts {FOOD: 2, ETC: 1}.
	wantEntropy := -(2.0/3.0*math.Log(2.0/3.0) + 1.0/3.0*math.Log(1.0/3.0))
	assert.InDelta(t, wantEntropy, vec.SpendingEntropyMean, 1e-9)
	assert.InDelta(t, wantEntropy, vec.SpendingEntropyLast, 1e-9)
}

func TestBuildFeatureVector_LoansAndRatios(t *testing.T) {
	accounts := []models.Account{
		{AccountID: 1, UserID: 1, Balance: 1000000},
		{AccountID: 2, UserID: 1, Balance: 3000000},
	}
	loans := []models.LoanLedger{
		{Principal: 10000000, RemainPrincipal: 5000000, CompletedInterest: 200000,
			RepaymentType: models.RepaymentTypeBullet, RepaymentStatus: models.RepaymentStatusNormal},
		{Principal: 2000000, RemainPrincipal: 0, CompletedInterest: 100000,
			RepaymentType: models.RepaymentTypeEqualInstallment, RepaymentStatus: models.RepaymentStatusCompleted},
	}

	result := buildFeatureVector(testUser(), accounts, nil, nil, loans, testNow)
	vec := result.Features

	assert.InDelta(t, 2000000, vec.BalanceMean, 1e-9)
	assert.InDelta(t, 3000000, vec.BalanceMax, 1e-9)
	assert.InDelta(t, 1000000, vec.BalanceMin, 1e-9)
	assert.InDelta(t, 1000000, vec.BalanceStd, 1e-9)

	assert.InDelta(t, 6000000, vec.PrincipalAmountMean, 1e-9)
	assert.InDelta(t, 2500000, vec.RemainingPrincipalMean, 1e-9)
	assert.InDelta(t, 150000, vec.InterestRateMean, 1e-9)

	assert.InDelta(t, 3500000.0/6000000.0, vec.RepaymentRatioMean, 1e-6)
	assert.InDelta(t, 0.5, vec.LoanTypeMean, 1e-9)
	assert.InDelta(t, 0.5, vec.IsCompletedMean, 1e-9)
	assert.InDelta(t, 0.8, vec.BalanceToLoanRatio, 1e-6)
	assert.InDelta(t, 1.2, vec.IncomeToLoanRatio, 1e-6)
	assert.InDelta(t, 2.5/3.0, vec.DebtToIncomeRatio, 1e-6)
	assert.InDelta(t, 0.4, vec.LoanUsageRatio, 1e-9)
	assert.False(t, result.IsDelinquentAny)
}

func TestBuildFeatureVector_OverdueLoanFlagsDelinquency(t *testing.T) {
	loans := []models.LoanLedger{
		{Principal: 1000000, RemainPrincipal: 900000,
			RepaymentType: models.RepaymentTypeBullet, RepaymentStatus: models.RepaymentStatusOverdue},
	}
	result := buildFeatureVector(testUser(), nil, nil, nil, loans, testNow)
	assert.True(t, result.IsDelinquentAny)
}

func TestBuildFeatureVector_ZeroPrincipalGuard(t *testing.T) {
	loans := []models.LoanLedger{
		{Principal: 0, RemainPrincipal: 0, RepaymentType: models.RepaymentTypeBullet,
			RepaymentStatus: models.RepaymentStatusNormal},
	}
	result := buildFeatureVector(testUser(), nil, nil, nil, loans, testNow)
	assert.Equal(t, 0.0, result.Features.RepaymentRatioMean)
	assert.False(t, math.IsNaN(result.Features.RepaymentRatioMean))
}

func TestFeatureService_BuildFeatures_UserNotFound(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectQuery("SELECT user_id, name, sex_cd").
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)

	service := NewFeatureService(mockPool, nil)
	_, err = service.BuildFeatures(context.Background(), 42)
	assert.Error(t, err)
	assert.True(t, utils.IsNotFound(err))
}

func TestFeatureService_BuildFeatures_NoAccounts(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	user := testUser()
	mockPool.ExpectQuery("SELECT user_id, name, sex_cd").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "name", "sex_cd", "birthday", "income", "customer_level"}).
			AddRow(user.UserID, user.Name, user.SexCode, user.Birthday, user.Income, user.CustomerLevel))

	mockPool.ExpectQuery("SELECT account_id, user_id, balance").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"account_id", "user_id", "balance"}))

	mockPool.ExpectQuery("SELECT principal").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"principal", "remain_principal", "completed_interest", "repayment_type", "repayment_status"}))

	mockPool.ExpectExec("INSERT INTO user_features").
		WithArgs(int64(1), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	service := NewFeatureService(mockPool, nil)
	result, err := service.BuildFeatures(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Features.TotUseAmMean)
	assert.Equal(t, 0.0, result.Features.LoanUsageRatio)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestFeatureService_LatestFeatures_FromSnapshotRow(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	stored := &models.FeatureVector{TotUseAmMean: 123456, DebtToIncomeRatio: 0.7}
	payload, err := json.Marshal(stored)
	require.NoError(t, err)

	mockPool.ExpectQuery("SELECT payload FROM user_features").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(payload))

	service := NewFeatureService(mockPool, nil)
	vec, err := service.LatestFeatures(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 123456.0, vec.TotUseAmMean)
	assert.Equal(t, 0.7, vec.DebtToIncomeRatio)
}

func TestFeatureService_LatestFeatures_NotFound(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectQuery("SELECT payload FROM user_features").
		WithArgs(int64(9)).
		WillReturnError(pgx.ErrNoRows)

	service := NewFeatureService(mockPool, nil)
	_, err = service.LatestFeatures(context.Background(), 9)
	assert.True(t, utils.IsNotFound(err))
}
