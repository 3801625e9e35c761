package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satisfyhq/satisfy/internal/ai"
	"github.com/satisfyhq/satisfy/internal/config"
	"github.com/satisfyhq/satisfy/pkg/models"
)

type stubCatalog struct {
	products []models.Product
	err      error
}

func (s *stubCatalog) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.products, s.err
}

type stubGenerator struct {
	reply string
	err   error
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return s.reply, s.err
}

func (s *stubGenerator) Model() string { return "deepseek-r1:8b" }

func strPtr(s string) *string { return &s }

func testProduct(id int64, name, category, notes string) models.Product {
	return models.Product{
		ID:       id,
		Name:     name,
		Category: category,
		Notes:    strPtr(notes),
		Vendor:   "Starbrew",
	}
}

func testAIConfig() *config.AIConfig {
	return &config.AIConfig{
		MinConfidence: 5,
		MaxConfidence: 7,
		FallbackCount: 3,
	}
}

func newTestService(t *testing.T, catalog CatalogReader, generator ai.TextGenerator) *RecommendationService {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	svc, err := NewRecommendationService(catalog, generator, testAIConfig(), logger)
	require.NoError(t, err)
	return svc
}

func testMenu() []models.Product {
	return []models.Product{
		testProduct(1, "Caffe Latte", "Hot Coffees", "espresso, steamed milk"),
		testProduct(2, "Strawberry Refresher", "Refreshers", "strawberry, green coffee extract"),
		testProduct(3, "Matcha Tea Latte", "Teas", "matcha, milk"),
		testProduct(4, "Cold Brew", "Cold Coffees", "slow-steeped coffee"),
		testProduct(5, "Hot Chocolate", "Other", "chocolate, milk, whipped cream"),
	}
}

func TestFilterCandidates_CategoryLock(t *testing.T) {
	req := &models.RecommendationRequest{Query: "anything", Category: strPtr("Teas")}

	filtered := filterCandidates(testMenu(), req)

	require.Len(t, filtered, 1)
	assert.Equal(t, int64(3), filtered[0].ID)
}

func TestFilterCandidates_DislikedIDs(t *testing.T) {
	req := &models.RecommendationRequest{Query: "anything", DislikedIDs: []int64{1, 4}}

	filtered := filterCandidates(testMenu(), req)

	require.Len(t, filtered, 3)
	for _, p := range filtered {
		assert.NotContains(t, []int64{1, 4}, p.ID)
	}
}

func TestFilterCandidates_AllergenMatchesNameAndNotes(t *testing.T) {
	// milk appears in notes of 1, 3, 5; allergen matching scans name+notes only
	req := &models.RecommendationRequest{Query: "anything", Allergies: []string{"Milk"}}

	filtered := filterCandidates(testMenu(), req)

	ids := make([]int64, 0, len(filtered))
	for _, p := range filtered {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []int64{2, 4}, ids)
}

func TestFilterCandidates_AvoidMatchesCategory(t *testing.T) {
	// avoid matching scans name+notes+category, so "cold" hits the category
	req := &models.RecommendationRequest{Query: "anything", AvoidList: []string{"cold"}}

	filtered := filterCandidates(testMenu(), req)

	for _, p := range filtered {
		assert.NotEqual(t, int64(4), p.ID)
	}
}

func TestFilterCandidates_OrderPreserved(t *testing.T) {
	req := &models.RecommendationRequest{Query: "anything", DislikedIDs: []int64{3}}

	filtered := filterCandidates(testMenu(), req)

	require.Len(t, filtered, 4)
	assert.Equal(t, []int64{1, 2, 4, 5}, []int64{filtered[0].ID, filtered[1].ID, filtered[2].ID, filtered[3].ID})
}

func TestBuildPrompt_MenuLinesAndQuery(t *testing.T) {
	req := &models.RecommendationRequest{Query: "strawberry"}

	prompt := buildPrompt(testMenu(), req)

	assert.Contains(t, prompt, `"strawberry"`)
	assert.Contains(t, prompt, "2. Strawberry Refresher (Refreshers) - strawberry, green coffee extract")
	assert.Contains(t, prompt, "CAFFEINE KNOWLEDGE")
	assert.Contains(t, prompt, `Reply ONLY with JSON`)
}

func TestBuildPrompt_VendorAndCategoryNotes(t *testing.T) {
	req := &models.RecommendationRequest{
		Query:            "latte",
		PreferredVendors: []string{"Starbrew", "Beanhouse"},
		Category:         strPtr("Hot Coffees"),
	}

	prompt := buildPrompt(testMenu(), req)

	assert.Contains(t, prompt, "USER PREFERS THESE VENDORS: Starbrew, Beanhouse")
	assert.Contains(t, prompt, "ONLY RECOMMEND FROM CATEGORY: Hot Coffees")
}

func TestBuildPrompt_AllergenAdvisories(t *testing.T) {
	req := &models.RecommendationRequest{
		Query:     "latte",
		Allergies: []string{"dairy", "tree nuts"},
	}

	prompt := buildPrompt(testMenu(), req)

	assert.Contains(t, prompt, "USER HAS ALLERGIES: dairy, tree nuts")
	assert.Contains(t, prompt, "Oat milk, Almond milk, Soy milk, Coconut milk")
	assert.Contains(t, prompt, "Avoid almond milk")
	assert.NotContains(t, prompt, "decaf versions")
}

func TestRecommend_EmptyAfterFilters(t *testing.T) {
	catalog := &stubCatalog{products: testMenu()}
	svc := newTestService(t, catalog, &stubGenerator{})

	result, err := svc.Recommend(context.Background(), &models.RecommendationRequest{
		Query:    "anything",
		Category: strPtr("Nonexistent"),
	})

	require.NoError(t, err)
	assert.Empty(t, result.Recommendations)
	assert.Equal(t, "No drinks match your preferences and restrictions. Please adjust your filters.", result.Reasoning)
	assert.Equal(t, "deepseek-r1:8b (Local)", result.AIModel)
}

func TestRecommend_DefaultUserID(t *testing.T) {
	catalog := &stubCatalog{products: testMenu()}
	generator := &stubGenerator{reply: `{"recommendations": [{"id": 1, "confidence": 7}], "reasoning": "ok"}`}
	svc := newTestService(t, catalog, generator)

	result, err := svc.Recommend(context.Background(), &models.RecommendationRequest{Query: "latte"})

	require.NoError(t, err)
	assert.Equal(t, "guest", result.UserID)
}

func TestRecommend_GeneratorErrorsPropagate(t *testing.T) {
	catalog := &stubCatalog{products: testMenu()}

	svc := newTestService(t, catalog, &stubGenerator{err: &ai.StatusError{StatusCode: 503}})
	_, err := svc.Recommend(context.Background(), &models.RecommendationRequest{Query: "latte"})
	var statusErr *ai.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 503, statusErr.StatusCode)

	svc = newTestService(t, catalog, &stubGenerator{err: ai.ErrUnreachable})
	_, err = svc.Recommend(context.Background(), &models.RecommendationRequest{Query: "latte"})
	assert.ErrorIs(t, err, ai.ErrUnreachable)
}

func TestRecommend_SortsByConfidenceStable(t *testing.T) {
	catalog := &stubCatalog{products: testMenu()}
	generator := &stubGenerator{reply: `{
		"recommendations": [
			{"id": 1, "confidence": 5},
			{"id": 2, "confidence": 7},
			{"id": 3, "confidence": 6},
			{"id": 4, "confidence": 6}
		],
		"reasoning": "several matches"
	}`}
	svc := newTestService(t, catalog, generator)

	result, err := svc.Recommend(context.Background(), &models.RecommendationRequest{Query: "latte"})

	require.NoError(t, err)
	require.Len(t, result.Recommendations, 4)
	assert.Equal(t, int64(2), result.Recommendations[0].ID)
	// Tied confidences keep the model's order
	assert.Equal(t, int64(3), result.Recommendations[1].ID)
	assert.Equal(t, int64(4), result.Recommendations[2].ID)
	assert.Equal(t, int64(1), result.Recommendations[3].ID)
	assert.Equal(t, "several matches", result.Reasoning)
}

func TestRecommend_CoercesStringIDs(t *testing.T) {
	catalog := &stubCatalog{products: testMenu()}
	generator := &stubGenerator{reply: `{"recommendations": [{"id": "2", "confidence": 6}], "reasoning": "ok"}`}
	svc := newTestService(t, catalog, generator)

	result, err := svc.Recommend(context.Background(), &models.RecommendationRequest{Query: "strawberry"})

	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, int64(2), result.Recommendations[0].ID)
	assert.Equal(t, 6, result.Recommendations[0].Confidence)
}

func TestRecommend_DropsInvalidEntries(t *testing.T) {
	catalog := &stubCatalog{products: testMenu()}
	generator := &stubGenerator{reply: `{
		"recommendations": [
			{"id": 1, "confidence": 4},
			{"id": 999, "confidence": 7},
			{"id": "abc", "confidence": 6},
			{"confidence": 6},
			{"id": 2, "confidence": 8},
			{"id": 4, "confidence": 5}
		],
		"reasoning": "mixed bag"
	}`}
	svc := newTestService(t, catalog, generator)

	result, err := svc.Recommend(context.Background(), &models.RecommendationRequest{Query: "coffee"})

	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, int64(4), result.Recommendations[0].ID)
}

func TestRecommend_DislikedIDNeverReturned(t *testing.T) {
	// Even if the model recommends a disliked product, the join against the
	// filtered candidate set drops it.
	catalog := &stubCatalog{products: testMenu()}
	generator := &stubGenerator{reply: `{
		"recommendations": [{"id": 1, "confidence": 7}, {"id": 2, "confidence": 6}],
		"reasoning": "ok"
	}`}
	svc := newTestService(t, catalog, generator)

	result, err := svc.Recommend(context.Background(), &models.RecommendationRequest{
		Query:       "coffee",
		DislikedIDs: []int64{1},
	})

	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, int64(2), result.Recommendations[0].ID)
}

func TestRecommend_NoStrongMatches(t *testing.T) {
	catalog := &stubCatalog{products: testMenu()}
	generator := &stubGenerator{reply: `{"recommendations": [], "reasoning": "nothing fits"}`}
	svc := newTestService(t, catalog, generator)

	result, err := svc.Recommend(context.Background(), &models.RecommendationRequest{Query: "durian"})

	require.NoError(t, err)
	assert.Empty(t, result.Recommendations)
	assert.Equal(t, "No strong matches found (confidence 5+/7). Try adjusting your search or preferences.", result.Reasoning)
}

func TestRecommend_FallbackOnUnparseableReply(t *testing.T) {
	catalog := &stubCatalog{products: testMenu()}
	generator := &stubGenerator{reply: "I think you would enjoy a latte!"}
	svc := newTestService(t, catalog, generator)

	result, err := svc.Recommend(context.Background(), &models.RecommendationRequest{Query: "latte"})

	require.NoError(t, err)
	require.Len(t, result.Recommendations, 3)
	// First three filtered candidates, no confidence scores
	assert.Equal(t, int64(1), result.Recommendations[0].ID)
	assert.Equal(t, int64(2), result.Recommendations[1].ID)
	assert.Equal(t, int64(3), result.Recommendations[2].ID)
	assert.Equal(t, 0, result.Recommendations[0].Confidence)
	assert.Equal(t, "Using fallback recommendations", result.Reasoning)
	assert.Equal(t, "AI response parsing failed", result.Note)
}

func TestRecommend_FallbackShorterThanCandidateList(t *testing.T) {
	catalog := &stubCatalog{products: testMenu()[:2]}
	generator := &stubGenerator{reply: "not json"}
	svc := newTestService(t, catalog, generator)

	result, err := svc.Recommend(context.Background(), &models.RecommendationRequest{Query: "latte"})

	require.NoError(t, err)
	assert.Len(t, result.Recommendations, 2)
}

func TestRecommend_DefaultReasoning(t *testing.T) {
	catalog := &stubCatalog{products: testMenu()}
	generator := &stubGenerator{reply: `{"recommendations": [{"id": 1, "confidence": 7}]}`}
	svc := newTestService(t, catalog, generator)

	result, err := svc.Recommend(context.Background(), &models.RecommendationRequest{Query: "latte"})

	require.NoError(t, err)
	assert.Equal(t, "AI-powered recommendations based on your preferences.", result.Reasoning)
}

func TestRecommend_CatalogError(t *testing.T) {
	catalog := &stubCatalog{err: errors.New("connection refused")}
	svc := newTestService(t, catalog, &stubGenerator{})

	_, err := svc.Recommend(context.Background(), &models.RecommendationRequest{Query: "latte"})

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to load catalog"))
}

func TestTextBlob_NormalizesAndLowercases(t *testing.T) {
	// Decomposed e + combining acute normalizes to the precomposed form
	blob := textBlob("Café Latte")
	assert.Contains(t, blob, "café latte")
	assert.True(t, containsAny(blob, []string{"CAFÉ"}))
}

func TestCoerceID(t *testing.T) {
	id, ok := coerceID(float64(42))
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	id, ok = coerceID(" 7 ")
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)

	_, ok = coerceID("seven")
	assert.False(t, ok)

	_, ok = coerceID(nil)
	assert.False(t, ok)

	_, ok = coerceID([]interface{}{1})
	assert.False(t, ok)
}
