package services

import (
	"context"
	"fmt"
	"strings"

	"plant-identification-service/config"
	"plant-identification-service/image"
	"plant-identification-service/models"
	"plant-identification-service/parser"
	"plant-identification-service/plantid"
	"plant-identification-service/plantnet"
)

// Disease detection backends.
const (
	BackendPlantID  = "plantid"
	BackendPlantNet = "plantnet"
)

// PlantService orchestrates validation, provider calls and normalization
// for species identification and disease detection.
type PlantService struct {
	cfg *config.Config

	species    *plantnet.Client
	diseaseNet *plantnet.Client
	diseaseID  *plantid.Client
}

// NewPlantService wires provider clients from the configuration. Clients
// whose keys are absent stay nil, so the process starts without them and
// only the matching operations report a ConfigurationError.
func NewPlantService(cfg *config.Config) *PlantService {
	s := &PlantService{cfg: cfg}

	if cfg.PlantNetAPIKey != "" {
		s.species = plantnet.NewClient(cfg.PlantNetAPIKey, cfg.PlantNetAPIURL, cfg.PlantNetProject, cfg.PlantNetTimeout)
	}
	if key := cfg.DiseaseAPIKey(); key != "" {
		s.diseaseNet = plantnet.NewClient(key, cfg.PlantNetDiseaseAPIURL, "", cfg.PlantNetTimeout)
	}
	if cfg.PlantIDAPIKey != "" {
		s.diseaseID = plantid.NewClient(cfg.PlantIDAPIKey, cfg.PlantIDAPIURL, cfg.PlantIDTimeout)
	}

	return s
}

// ValidOrgans returns the organ tags accepted by the identify endpoints.
func (s *PlantService) ValidOrgans() []string {
	return models.ValidOrgans()
}

// ValidateImage checks the upload against the configured size limit and
// the supported image formats without consuming the buffer.
func (s *PlantService) ValidateImage(imageData []byte) error {
	return image.Validate(imageData, s.cfg.MaxImageSize)
}

// IdentifyPlant validates the image, submits it to PlantNet and returns
// the normalized ranked species result.
func (s *PlantService) IdentifyPlant(ctx context.Context, imageData []byte, filename string, organs []string) (*models.IdentificationResult, error) {
	if err := s.ValidateImage(imageData); err != nil {
		return nil, err
	}
	if s.species == nil {
		return nil, &models.ConfigurationError{Provider: "plantnet", Detail: "PLANTNET_API_KEY is not configured"}
	}

	raw, err := s.species.Identify(ctx, imageData, filename, organs)
	if err != nil {
		return nil, err
	}

	result, err := parser.ParseSpeciesResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("identify plant: %w", err)
	}
	return result, nil
}

// DetectDisease validates the image and runs disease detection on the
// selected backend (BackendPlantID when backend is empty). An unknown
// backend or organ fails before any network call.
func (s *PlantService) DetectDisease(ctx context.Context, imageData []byte, filename, organ, backend string) (*models.DiseaseResult, error) {
	if err := s.ValidateImage(imageData); err != nil {
		return nil, err
	}

	if organ == "" {
		organ = models.DefaultOrgan
	} else if !models.IsValidOrgan(organ) {
		return nil, models.NewValidationError("invalid organ %q (valid organs: %s)", organ, strings.Join(models.ValidOrgans(), ", "))
	}

	if backend == "" {
		backend = BackendPlantID
	}
	switch backend {
	case BackendPlantID:
		return s.detectWithPlantID(ctx, imageData)
	case BackendPlantNet:
		return s.detectWithPlantNet(ctx, imageData, filename, organ)
	default:
		return nil, models.NewValidationError("unsupported disease backend %q (valid backends: %s, %s)", backend, BackendPlantID, BackendPlantNet)
	}
}

func (s *PlantService) detectWithPlantID(ctx context.Context, imageData []byte) (*models.DiseaseResult, error) {
	if s.diseaseID == nil {
		return nil, &models.ConfigurationError{Provider: "plant.id", Detail: "PLANT_ID_API_KEY is not configured"}
	}

	raw, err := s.diseaseID.AssessHealth(ctx, imageData)
	if err != nil {
		return nil, err
	}

	result, err := parser.ParseHealthAssessment(raw)
	if err != nil {
		return nil, fmt.Errorf("detect disease: %w", err)
	}
	return result, nil
}

func (s *PlantService) detectWithPlantNet(ctx context.Context, imageData []byte, filename, organ string) (*models.DiseaseResult, error) {
	if s.diseaseNet == nil {
		return nil, &models.ConfigurationError{Provider: "plantnet", Detail: "PLANTNET_DISEASE_API_KEY is not configured"}
	}

	raw, err := s.diseaseNet.IdentifyDisease(ctx, imageData, filename, organ)
	if err != nil {
		return nil, err
	}

	result, err := parser.ParseDiseaseIdentify(raw)
	if err != nil {
		return nil, fmt.Errorf("detect disease: %w", err)
	}
	return result, nil
}
