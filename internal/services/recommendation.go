package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/text/unicode/norm"

	"github.com/satisfyhq/satisfy/internal/ai"
	"github.com/satisfyhq/satisfy/internal/config"
	"github.com/satisfyhq/satisfy/pkg/models"
)

// Fixed rationale strings. The filter-empty and no-strong-matches messages
// are deliberately distinct so callers can tell which stage produced the
// empty result.
const (
	reasoningFilterEmpty = "No drinks match your preferences and restrictions. Please adjust your filters."
	reasoningNoStrong    = "No strong matches found (confidence 5+/7). Try adjusting your search or preferences."
	reasoningFallback    = "Using fallback recommendations"
	reasoningDefault     = "AI-powered recommendations based on your preferences."
	noteParsingFailed    = "AI response parsing failed"
)

// Drop reasons for the parser/validator metrics.
const (
	dropMalformedEntry = "malformed_entry"
	dropBadID          = "bad_id"
	dropLowConfidence  = "low_confidence"
	dropUnknownID      = "unknown_id"
)

// replySchema is the loosest shape we accept from the model: a JSON object.
// Field-level tolerance (missing or mistyped recommendations/reasoning) is
// handled downstream; anything that is not an object is treated as a parse
// failure and takes the fallback path.
const replySchema = `{
	"type": "object",
	"properties": {
		"recommendations": {"type": "array"},
		"reasoning": {"type": "string"}
	}
}`

type RecommendationService struct {
	catalog   CatalogReader
	generator ai.TextGenerator
	config    *config.AIConfig
	logger    *logrus.Logger
	schema    *gojsonschema.Schema

	droppedCandidates *prometheus.CounterVec
	fallbackTotal     prometheus.Counter
}

func NewRecommendationService(catalog CatalogReader, generator ai.TextGenerator, cfg *config.AIConfig, logger *logrus.Logger) (*RecommendationService, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(replySchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile reply schema: %w", err)
	}

	s := &RecommendationService{
		catalog:   catalog,
		generator: generator,
		config:    cfg,
		logger:    logger,
		schema:    schema,
		droppedCandidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recommendation_candidates_dropped_total",
			Help: "Model reply entries discarded during validation, by reason",
		}, []string{"reason"}),
		fallbackTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recommendation_fallback_total",
			Help: "Requests answered with the deterministic fallback list",
		}),
	}

	if err := prometheus.Register(s.droppedCandidates); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			s.droppedCandidates = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			logger.WithError(err).Warn("Failed to register recommendation_candidates_dropped_total metric")
		}
	}
	if err := prometheus.Register(s.fallbackTotal); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			s.fallbackTotal = are.ExistingCollector.(prometheus.Counter)
		} else {
			logger.WithError(err).Warn("Failed to register recommendation_fallback_total metric")
		}
	}

	return s, nil
}

func (s *RecommendationService) modelTag() string {
	return fmt.Sprintf("%s (Local)", s.generator.Model())
}

// Recommend runs the full pipeline for one request: catalog snapshot, hard
// filters, prompt, single generation call, parse/validate, assembly.
func (s *RecommendationService) Recommend(ctx context.Context, req *models.RecommendationRequest) (*models.RecommendationResult, error) {
	if req.UserID == "" {
		req.UserID = "guest"
	}

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	candidates := filterCandidates(products, req)
	if len(candidates) == 0 {
		return &models.RecommendationResult{
			UserID:          req.UserID,
			Query:           req.Query,
			Recommendations: []models.RecommendedProduct{},
			Reasoning:       reasoningFilterEmpty,
			AIModel:         s.modelTag(),
		}, nil
	}

	prompt := buildPrompt(candidates, req)

	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return s.assembleFromReply(req, candidates, reply), nil
}

// filterCandidates applies the hard filters in fixed order: category,
// dislikes, allergens, avoid-terms. Pure function over the snapshot.
func filterCandidates(products []models.Product, req *models.RecommendationRequest) []models.Product {
	filtered := products

	if req.Category != nil && *req.Category != "" {
		var kept []models.Product
		for _, p := range filtered {
			if p.Category == *req.Category {
				kept = append(kept, p)
			}
		}
		filtered = kept
	}

	if len(req.DislikedIDs) > 0 {
		disliked := make(map[int64]bool, len(req.DislikedIDs))
		for _, id := range req.DislikedIDs {
			disliked[id] = true
		}
		var kept []models.Product
		for _, p := range filtered {
			if !disliked[p.ID] {
				kept = append(kept, p)
			}
		}
		filtered = kept
	}

	if len(req.Allergies) > 0 {
		var kept []models.Product
		for _, p := range filtered {
			blob := textBlob(p.Name, deref(p.Notes))
			if !containsAny(blob, req.Allergies) {
				kept = append(kept, p)
			}
		}
		filtered = kept
	}

	if len(req.AvoidList) > 0 {
		var kept []models.Product
		for _, p := range filtered {
			blob := textBlob(p.Name, deref(p.Notes), p.Category)
			if !containsAny(blob, req.AvoidList) {
				kept = append(kept, p)
			}
		}
		filtered = kept
	}

	return filtered
}

// textBlob joins the parts into one normalized lowercase string for
// substring matching.
func textBlob(parts ...string) string {
	return strings.ToLower(norm.NFC.String(strings.Join(parts, " ")))
}

func containsAny(blob string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(blob, strings.ToLower(norm.NFC.String(term))) {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Allergen advisory lines appended to the prompt when a declared allergy
// matches one of the known keywords.
var allergenAdvisories = []struct {
	keywords []string
	advice   string
}{
	{[]string{"milk", "dairy"}, "- Milk -> Can substitute with: Oat milk, Almond milk, Soy milk, Coconut milk"},
	{[]string{"soy"}, "- Soy -> Can substitute with: Oat milk, Almond milk, Coconut milk"},
	{[]string{"nut"}, "- Nuts -> Avoid almond milk, use oat milk or soy milk instead"},
	{[]string{"chocolate", "cocoa"}, "- Chocolate -> Can try vanilla, caramel, or fruit-based drinks"},
	{[]string{"caffeine"}, "- Caffeine -> Suggest decaf versions, herbal teas, or non-coffee drinks"},
}

const caffeineKnowledge = `CAFFEINE KNOWLEDGE (use this for caffeine/energy/strong queries):
- HIGHEST CAFFEINE: Espresso shots (category: Espresso), Americano, Cold Brew, Nitro Cold Brew
- HIGH CAFFEINE: Most Hot Coffees, Cold Coffees with espresso (Latte, Cappuccino, Macchiato, Mocha)
- MEDIUM CAFFEINE: Coffee Frappuccinos, Iced Coffee
- LOW/NO CAFFEINE: Teas (except matcha), Refreshers, Hot Chocolate, Vanilla Bean Frappuccino
- When user asks for "strong", "caffeine", "energy", or "wake up" -> recommend Espresso category first!`

// buildPrompt serializes the candidate list and soft preferences into the
// instruction string. Deterministic: candidate lines follow filter order,
// advisory lines follow the fixed keyword table order.
func buildPrompt(candidates []models.Product, req *models.RecommendationRequest) string {
	var menu strings.Builder
	for _, p := range candidates {
		fmt.Fprintf(&menu, "%d. %s (%s) - %s\n", p.ID, p.Name, p.Category, deref(p.Notes))
	}

	var vendorNote string
	if len(req.PreferredVendors) > 0 {
		vendorNote = fmt.Sprintf("\n\nUSER PREFERS THESE VENDORS: %s. Prioritize drinks from these brands when possible.",
			strings.Join(req.PreferredVendors, ", "))
	}

	var categoryNote string
	if req.Category != nil && *req.Category != "" {
		categoryNote = fmt.Sprintf("\n\nONLY RECOMMEND FROM CATEGORY: %s", *req.Category)
	}

	var allergenNote string
	if len(req.Allergies) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "\n\nUSER HAS ALLERGIES: %s", strings.Join(req.Allergies, ", "))
		b.WriteString("\nIMPORTANT: Mention substitution options in your reasoning:")
		for _, adv := range allergenAdvisories {
			if allergyMatches(req.Allergies, adv.keywords) {
				b.WriteString("\n" + adv.advice)
			}
		}
		allergenNote = b.String()
	}

	return fmt.Sprintf(`Recommend drinks from this menu for: %q%s%s%s

Menu (format: ID. Name (Category) - Ingredients/Flavors):
%s
CRITICAL INSTRUCTIONS:
- SEARCH CAREFULLY: Match the query against drink names, categories, AND ingredients/flavors in the notes
- If user searches for an ingredient (strawberry, chocolate, milk, vanilla, etc), check ALL notes fields
- FIND ALL MATCHES: Include EVERY drink that matches the query, not just one
- For ingredient searches like "strawberry", look for it in: drink name, notes/description

%s

Rate drinks' match confidence on scale 1-7:
  * 7 = Perfect match (ingredient in name or main flavor)
  * 6 = Very good match (ingredient in notes/closely related)
  * 5 = Good match (same category or complementary)
  * 4 or below = Weak match
- Include drinks with confidence 5, 6, or 7 in your recommendations
- Include ALL qualifying matches (don't limit to just 1-2 drinks)
- Sort by confidence (highest first)

Reply ONLY with JSON: {"recommendations": [{"id": id, "confidence": 5-7}], "reasoning": "brief explanation of all matches found"}`,
		req.Query, vendorNote, categoryNote, allergenNote, menu.String(), caffeineKnowledge)
}

func allergyMatches(allergies, keywords []string) bool {
	for _, a := range allergies {
		lower := strings.ToLower(a)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

// modelReply mirrors the instructed reply shape. Recommendations is raw so a
// mistyped field degrades to empty instead of failing the whole parse.
type modelReply struct {
	Recommendations []json.RawMessage `json:"recommendations"`
	Reasoning       string            `json:"reasoning"`
}

// assembleFromReply parses and validates the model's text and joins the
// surviving candidates back to full product records. Never returns an error:
// a malformed reply degrades to the fallback result.
func (s *RecommendationService) assembleFromReply(req *models.RecommendationRequest, candidates []models.Product, reply string) *models.RecommendationResult {
	result := &models.RecommendationResult{
		UserID:  req.UserID,
		Query:   req.Query,
		AIModel: s.modelTag(),
	}

	if !s.replyIsWellFormed(reply) {
		s.fallbackTotal.Inc()
		s.logger.WithField("reply_length", len(reply)).Warn("Model reply not parseable, using fallback")

		count := s.config.FallbackCount
		if count > len(candidates) {
			count = len(candidates)
		}
		fallback := make([]models.RecommendedProduct, 0, count)
		for _, p := range candidates[:count] {
			fallback = append(fallback, models.RecommendedProduct{Product: p})
		}

		result.Recommendations = fallback
		result.Reasoning = reasoningFallback
		result.Note = noteParsingFailed
		return result
	}

	var parsed modelReply
	// Well-formed per schema, but a mistyped recommendations field can still
	// fail this unmarshal; treat it as an empty list.
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		parsed = modelReply{}
		var loose struct {
			Reasoning string `json:"reasoning"`
		}
		if json.Unmarshal([]byte(reply), &loose) == nil {
			parsed.Reasoning = loose.Reasoning
		}
	}

	if parsed.Reasoning == "" {
		parsed.Reasoning = reasoningDefault
	}

	scored := s.validateCandidates(parsed.Recommendations)
	if len(scored) == 0 {
		result.Recommendations = []models.RecommendedProduct{}
		result.Reasoning = reasoningNoStrong
		return result
	}

	byID := make(map[int64]models.Product, len(candidates))
	for _, p := range candidates {
		byID[p.ID] = p
	}

	recommendations := make([]models.RecommendedProduct, 0, len(scored))
	for _, sc := range scored {
		product, ok := byID[sc.ID]
		if !ok {
			// The model invented an identifier outside the supplied menu.
			s.droppedCandidates.WithLabelValues(dropUnknownID).Inc()
			continue
		}
		recommendations = append(recommendations, models.RecommendedProduct{
			Product:    product,
			Confidence: sc.Confidence,
		})
	}

	if len(recommendations) == 0 {
		result.Recommendations = []models.RecommendedProduct{}
		result.Reasoning = reasoningNoStrong
		return result
	}

	// The model is instructed to sort by confidence but not trusted to;
	// enforce the ordering, keeping the model's order for ties.
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Confidence > recommendations[j].Confidence
	})

	result.Recommendations = recommendations
	result.Reasoning = parsed.Reasoning
	return result
}

func (s *RecommendationService) replyIsWellFormed(reply string) bool {
	res, err := s.schema.Validate(gojsonschema.NewStringLoader(reply))
	if err != nil {
		return false
	}
	return res.Valid()
}

// validateCandidates turns raw reply entries into ScoredCandidates, dropping
// malformed records, uncoercible identifiers and confidences outside the
// accepted band. Each drop increments the matching metric.
func (s *RecommendationService) validateCandidates(entries []json.RawMessage) []models.ScoredCandidate {
	var scored []models.ScoredCandidate

	for _, raw := range entries {
		var entry map[string]interface{}
		if err := json.Unmarshal(raw, &entry); err != nil {
			s.droppedCandidates.WithLabelValues(dropMalformedEntry).Inc()
			continue
		}

		id, ok := coerceID(entry["id"])
		if !ok {
			s.droppedCandidates.WithLabelValues(dropBadID).Inc()
			continue
		}

		confidence, ok := entry["confidence"].(float64)
		if !ok || int(confidence) < s.config.MinConfidence || int(confidence) > s.config.MaxConfidence {
			s.droppedCandidates.WithLabelValues(dropLowConfidence).Inc()
			continue
		}

		scored = append(scored, models.ScoredCandidate{
			ID:         id,
			Confidence: int(confidence),
		})
	}

	return scored
}

// coerceID accepts numeric identifiers and numeric strings, which the model
// emits interchangeably.
func coerceID(v interface{}) (int64, bool) {
	switch id := v.(type) {
	case float64:
		return int64(id), true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
