package models

// RecommendationRequest is the payload of POST /api/ai-recommend. All fields
// except the query are optional; absent fields degrade to "no restriction".
type RecommendationRequest struct {
	Query            string   `json:"query" validate:"required,min=1"`
	UserID           string   `json:"user_id,omitempty"`
	DislikedIDs      []int64  `json:"disliked_ids,omitempty"`
	Allergies        []string `json:"allergies,omitempty"`
	AvoidList        []string `json:"avoid_list,omitempty"`
	PreferredVendors []string `json:"preferred_vendors,omitempty"`
	Category         *string  `json:"category,omitempty"`
}

// ScoredCandidate is one entry of the model's parsed reply: a product
// identifier with the model-assigned confidence on the 1-7 scale. Only
// entries with confidence 5-7 survive validation.
type ScoredCandidate struct {
	ID         int64 `json:"id"`
	Confidence int   `json:"confidence"`
}

// RecommendedProduct is a catalog product annotated with the validated
// confidence score.
type RecommendedProduct struct {
	Product
	Confidence int `json:"confidence"`
}

type RecommendationResult struct {
	UserID          string               `json:"user_id"`
	Query           string               `json:"query"`
	Recommendations []RecommendedProduct `json:"recommendations"`
	Reasoning       string               `json:"reasoning"`
	AIModel         string               `json:"ai_model"`
	Note            string               `json:"note,omitempty"`
}
