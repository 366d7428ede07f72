package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureNames_MatchJSONTags(t *testing.T) {
	vec := FeatureVector{}
	data, err := json.Marshal(&vec)
	require.NoError(t, err)

	var fields map[string]float64
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.Len(t, fields, len(FeatureNames))
	for _, name := range FeatureNames {
		_, ok := fields[name]
		assert.True(t, ok, "FeatureNames entry %q has no matching field tag", name)
	}
}

func TestFeatureVector_ValuesOrder(t *testing.T) {
	vec := FeatureVector{
		TotUseAmMean:   1,
		Age:            30,
		LoanUsageRatio: 0.4,
	}
	values := vec.Values()
	require.Len(t, values, len(FeatureNames))

	assert.Equal(t, 1.0, values[0], "TOT_USE_AM_mean leads the row")
	assert.Equal(t, 0.4, values[len(values)-1], "loan_usage_ratio closes the row")

	for i, name := range FeatureNames {
		if name == "AGE" {
			assert.Equal(t, 30.0, values[i])
		}
	}
}

func TestFeatureVector_MapRoundTrip(t *testing.T) {
	vec := FeatureVector{
		TotUseAmMean:      150000,
		CreditRatioLast:   0.25,
		Age:               30,
		DebtToIncomeRatio: 0.83,
	}

	got := FeatureVectorFromMap(vec.ToMap())
	assert.Equal(t, vec, *got)
}

func TestFeatureVector_ValuesRoundTrip(t *testing.T) {
	vec := FeatureVector{SpendGrowthLast: -0.5, BalanceMean: 2000000, MemberRank: 4}

	got := FeatureVectorFromValues(vec.Values())
	require.NotNil(t, got)
	assert.Equal(t, vec, *got)
}

func TestFeatureVectorFromValues_ShortInput(t *testing.T) {
	got := FeatureVectorFromValues([]float64{1, 2, 3})
	require.NotNil(t, got)
	assert.Equal(t, 1.0, got.TotUseAmMean)
	assert.Equal(t, 3.0, got.TotUseAmMin)
	assert.Equal(t, 0.0, got.LoanUsageRatio, "unsupplied fields default to zero")
}

func TestMembershipRank(t *testing.T) {
	tests := []struct {
		level string
		rank  int
	}{
		{CustomerLevelVVIP, 5},
		{CustomerLevelVIP, 4},
		{CustomerLevelGold, 3},
		{CustomerLevelSilver, 2},
		{CustomerLevelBronze, 1},
		{"PLATINUM", 0},
		{"", 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.rank, MembershipRank(tc.level), tc.level)
	}
}
