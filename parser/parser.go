package parser

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"plant-identification-service/models"
)

// speciesResponse mirrors the PlantNet identify response shape.
type speciesResponse struct {
	Results []struct {
		Score   float64 `json:"score"`
		Species struct {
			ScientificNameWithoutAuthor string   `json:"scientificNameWithoutAuthor"`
			CommonNames                 []string `json:"commonNames"`
			Genus                       struct {
				ScientificNameWithoutAuthor string `json:"scientificNameWithoutAuthor"`
			} `json:"genus"`
			Family struct {
				ScientificNameWithoutAuthor string `json:"scientificNameWithoutAuthor"`
			} `json:"family"`
		} `json:"species"`
	} `json:"results"`
	Query                           json.RawMessage `json:"query"`
	RemainingIdentificationRequests *int64          `json:"remainingIdentificationRequests"`
}

// healthAssessmentResponse mirrors the Plant.id health assessment shape:
// disease suggestions nested under result.disease.
type healthAssessmentResponse struct {
	Result struct {
		Disease struct {
			Suggestions []struct {
				Name        string  `json:"name"`
				Probability float64 `json:"probability"`
				Details     struct {
					Description string          `json:"description"`
					Treatment   json.RawMessage `json:"treatment"`
				} `json:"details"`
			} `json:"suggestions"`
		} `json:"disease"`
	} `json:"result"`
}

// diseaseIdentifyResponse mirrors the PlantNet disease identify shape.
// Depending on the API version an entry is flat (name/score) or carries a
// nested disease object (disease.name/disease.description); both occur.
type diseaseIdentifyResponse struct {
	Results []struct {
		Name    string  `json:"name"`
		Score   float64 `json:"score"`
		Disease struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"disease"`
	} `json:"results"`
}

// roundScore rescales a provider score in [0,1] to a percentage rounded
// to 2 decimal places.
func roundScore(score float64) float64 {
	return math.Round(score*10000) / 100
}

// ParseSpeciesResponse maps a raw PlantNet identify response into the
// unified ranked result, rescaling scores to percentages and sorting
// candidates by score descending.
func ParseSpeciesResponse(data []byte) (*models.IdentificationResult, error) {
	var parsed speciesResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse species response: %w", err)
	}

	results := make([]models.IdentificationCandidate, 0, len(parsed.Results))
	for _, entry := range parsed.Results {
		name := entry.Species.ScientificNameWithoutAuthor
		if name == "" {
			name = "Unknown"
		}
		commonNames := entry.Species.CommonNames
		if commonNames == nil {
			commonNames = []string{}
		}
		results = append(results, models.IdentificationCandidate{
			ScientificName: name,
			CommonNames:    commonNames,
			Score:          roundScore(entry.Score),
			Genus:          entry.Species.Genus.ScientificNameWithoutAuthor,
			Family:         entry.Species.Family.ScientificNameWithoutAuthor,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	result := &models.IdentificationResult{
		Results:                         results,
		Query:                           parsed.Query,
		RemainingIdentificationRequests: parsed.RemainingIdentificationRequests,
	}
	if len(results) > 0 {
		result.BestMatch = results[0].ScientificName
	}
	return result, nil
}

// ParseHealthAssessment maps a raw Plant.id health assessment response
// into the unified disease result.
func ParseHealthAssessment(data []byte) (*models.DiseaseResult, error) {
	var parsed healthAssessmentResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse health assessment response: %w", err)
	}

	suggestions := parsed.Result.Disease.Suggestions
	results := make([]models.DiseaseCandidate, 0, len(suggestions))
	for _, entry := range suggestions {
		results = append(results, models.DiseaseCandidate{
			DiseaseName: entry.Name,
			Score:       roundScore(entry.Probability),
			Description: entry.Details.Description,
			Treatment:   entry.Details.Treatment,
		})
	}

	return rankDiseases(results), nil
}

// ParseDiseaseIdentify maps a raw PlantNet disease identify response into
// the unified disease result, accepting both the flat and the nested
// entry shape.
func ParseDiseaseIdentify(data []byte) (*models.DiseaseResult, error) {
	var parsed diseaseIdentifyResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse disease identify response: %w", err)
	}

	results := make([]models.DiseaseCandidate, 0, len(parsed.Results))
	for _, entry := range parsed.Results {
		name := entry.Name
		if name == "" {
			name = entry.Disease.Name
		}
		results = append(results, models.DiseaseCandidate{
			DiseaseName: name,
			Score:       roundScore(entry.Score),
			Description: entry.Disease.Description,
		})
	}

	return rankDiseases(results), nil
}

// rankDiseases sorts candidates by score descending and fills in the best
// match from the top entry.
func rankDiseases(results []models.DiseaseCandidate) *models.DiseaseResult {
	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	result := &models.DiseaseResult{Results: results}
	if len(results) > 0 {
		result.BestMatch = results[0].DiseaseName
	}
	return result
}
