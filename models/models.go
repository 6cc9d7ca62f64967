package models

import "encoding/json"

// IdentificationCandidate is one ranked species suggestion. Score is a
// percentage in [0, 100] rounded to 2 decimal places.
type IdentificationCandidate struct {
	ScientificName string   `json:"scientific_name"`
	CommonNames    []string `json:"common_names"`
	Score          float64  `json:"score"`
	Genus          string   `json:"genus,omitempty"`
	Family         string   `json:"family,omitempty"`
}

// IdentificationResult is the unified species identification response.
// Query and RemainingIdentificationRequests are passed through from the
// provider when present.
type IdentificationResult struct {
	Results                         []IdentificationCandidate `json:"results"`
	BestMatch                       string                    `json:"best_match,omitempty"`
	Query                           json.RawMessage           `json:"query,omitempty"`
	RemainingIdentificationRequests *int64                    `json:"remaining_identification_requests,omitempty"`
}

// DiseaseCandidate is one ranked disease suggestion. Score is a percentage
// in [0, 100] rounded to 2 decimal places.
type DiseaseCandidate struct {
	DiseaseName string          `json:"disease_name"`
	Score       float64         `json:"score"`
	Description string          `json:"description,omitempty"`
	Treatment   json.RawMessage `json:"treatment,omitempty"`
}

// DiseaseResult is the unified disease detection response.
type DiseaseResult struct {
	Results   []DiseaseCandidate `json:"results"`
	BestMatch string             `json:"best_match,omitempty"`
}
