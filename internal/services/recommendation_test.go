package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubComments struct {
	comment string
	err     error
}

func (s stubComments) Comment(string) (string, error) {
	return s.comment, s.err
}

func TestRecommend_TopCategoriesFirst(t *testing.T) {
	service := NewRecommendationService(nil)

	spending := map[string]decimal.Decimal{
		"FOOD":      decimal.NewFromInt(500000),
		"TRANSPORT": decimal.NewFromInt(150000),
		"SHOPPING":  decimal.NewFromInt(350000),
	}
	rec, err := service.Recommend(spending, decimal.NewFromInt(3000000))
	require.NoError(t, err)

	assert.Contains(t, rec.Summary, "1000000")
	assert.Contains(t, rec.Summary, "33.3%")
	require.Len(t, rec.Recommendations, 2)
	assert.Contains(t, rec.Recommendations[0], "FOOD")
	assert.Contains(t, rec.Recommendations[1], "SHOPPING")
	assert.NotEmpty(t, rec.Comment)
}

func TestRecommend_TiesBreakAlphabetically(t *testing.T) {
	service := NewRecommendationService(nil)

	spending := map[string]decimal.Decimal{
		"ZED":   decimal.NewFromInt(100),
		"ALPHA": decimal.NewFromInt(100),
	}
	rec, err := service.Recommend(spending, decimal.NewFromInt(1000))
	require.NoError(t, err)

	require.Len(t, rec.Recommendations, 2)
	assert.Contains(t, rec.Recommendations[0], "ALPHA")
}

func TestRecommend_EmptySpending(t *testing.T) {
	service := NewRecommendationService(nil)

	rec, err := service.Recommend(nil, decimal.NewFromInt(3000000))
	require.NoError(t, err)
	assert.Contains(t, rec.Summary, "0.0%")
	require.Len(t, rec.Recommendations, 1)
	assert.Contains(t, rec.Recommendations[0], "No spending recorded")
}

func TestRecommend_ZeroIncome(t *testing.T) {
	service := NewRecommendationService(nil)

	spending := map[string]decimal.Decimal{"FOOD": decimal.NewFromInt(100)}
	rec, err := service.Recommend(spending, decimal.Zero)
	require.NoError(t, err)
	assert.Contains(t, rec.Summary, "0.0%")
}

func TestRecommend_CommentGeneratorFailure(t *testing.T) {
	service := NewRecommendationService(stubComments{err: errors.New("upstream down")})

	_, err := service.Recommend(map[string]decimal.Decimal{"FOOD": decimal.NewFromInt(100)}, decimal.NewFromInt(1000))
	assert.Error(t, err)
}

func TestRecommend_CustomCommentGenerator(t *testing.T) {
	service := NewRecommendationService(stubComments{comment: "trim the dining budget"})

	rec, err := service.Recommend(map[string]decimal.Decimal{"FOOD": decimal.NewFromInt(100)}, decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.Equal(t, "trim the dining budget", rec.Comment)
}
