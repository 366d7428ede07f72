package services

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// CommentGenerator produces the free-form advisory comment attached to a
// spending recommendation. The production implementation is an external
// language-model service; the engine only depends on this interface.
type CommentGenerator interface {
	Comment(summary string) (string, error)
}

// templateComments is the built-in fallback generator.
type templateComments struct{}

func (templateComments) Comment(string) (string, error) {
	return "Keeping spending within a steady share of income supports a healthy risk profile.", nil
}

// RecommendationService summarizes a spending breakdown against income.
type RecommendationService struct {
	comments CommentGenerator
}

// NewRecommendationService creates a recommendation service. A nil generator
// falls back to template comments.
func NewRecommendationService(comments CommentGenerator) *RecommendationService {
	if comments == nil {
		comments = templateComments{}
	}
	return &RecommendationService{comments: comments}
}

// Recommendation is the summarized result of a spending breakdown.
type Recommendation struct {
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
	Comment         string   `json:"comment"`
}

// Recommend totals the category amounts, relates them to income and emits
// advice for the heaviest categories.
func (s *RecommendationService) Recommend(spending map[string]decimal.Decimal, income decimal.Decimal) (*Recommendation, error) {
	total := decimal.Zero
	type categoryAmount struct {
		name   string
		amount decimal.Decimal
	}
	categories := make([]categoryAmount, 0, len(spending))
	for name, amount := range spending {
		total = total.Add(amount)
		categories = append(categories, categoryAmount{name: name, amount: amount})
	}
	sort.Slice(categories, func(i, j int) bool {
		if !categories[i].amount.Equal(categories[j].amount) {
			return categories[i].amount.GreaterThan(categories[j].amount)
		}
		return categories[i].name < categories[j].name
	})

	ratio := decimal.Zero
	if !income.IsZero() {
		ratio = total.Div(income).Mul(decimal.NewFromInt(100))
	}
	summary := fmt.Sprintf("Total spending is %s, about %s%% of income.",
		total.StringFixed(0), ratio.StringFixed(1))

	var recommendations []string
	for i, cat := range categories {
		if i >= 2 || cat.amount.IsZero() {
			break
		}
		recommendations = append(recommendations,
			fmt.Sprintf("%s is your #%d spending category at %s; review it for easy cuts.",
				cat.name, i+1, cat.amount.StringFixed(0)))
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "No spending recorded; nothing to trim this period.")
	}

	comment, err := s.comments.Comment(summary)
	if err != nil {
		return nil, err
	}

	return &Recommendation{
		Summary:         summary,
		Recommendations: recommendations,
		Comment:         comment,
	}, nil
}
