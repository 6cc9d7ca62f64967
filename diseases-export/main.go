package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"sort"
	"time"

	"github.com/apex/log"

	"plant-identification-service/config"
	"plant-identification-service/plantnet"
)

var outFile = flag.String("out", "plantnet_diseases.json", "Output file for the disease dump.")

// diseaseDump is the envelope written to disk.
type diseaseDump struct {
	Metadata dumpMetadata      `json:"metadata"`
	Diseases []json.RawMessage `json:"diseases"`
}

type dumpMetadata struct {
	Source        string `json:"source"`
	Endpoint      string `json:"endpoint"`
	ExtractedAt   string `json:"extracted_at"`
	TotalDiseases int    `json:"total_diseases"`
}

func main() {
	flag.Parse()

	cfg := config.Load()
	apiKey := cfg.DiseaseAPIKey()
	if apiKey == "" {
		log.Fatal("PLANTNET_DISEASE_API_KEY or PLANTNET_API_KEY environment variable is required")
	}

	client := plantnet.NewClient(apiKey, cfg.PlantNetDiseaseAPIURL, "", cfg.PlantNetTimeout)

	log.Info("Fetching diseases from PlantNet API...")
	raw, err := client.Diseases(context.Background())
	if err != nil {
		log.Fatalf("Failed to fetch diseases: %v", err)
	}

	var diseases []json.RawMessage
	if err := json.Unmarshal(raw, &diseases); err != nil {
		log.Fatalf("Failed to decode disease list: %v", err)
	}

	dump := diseaseDump{
		Metadata: dumpMetadata{
			Source:        "PlantNet API",
			Endpoint:      cfg.PlantNetDiseaseAPIURL + "/diseases",
			ExtractedAt:   time.Now().Format(time.RFC3339),
			TotalDiseases: len(diseases),
		},
		Diseases: diseases,
	}

	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal disease dump: %v", err)
	}
	if err := os.WriteFile(*outFile, data, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", *outFile, err)
	}

	log.Infof("Fetched %d diseases", len(diseases))
	logCategorySummary(diseases)
	log.Infof("Data saved to %s", *outFile)
}

// logCategorySummary counts diseases per category tag, most common first.
func logCategorySummary(diseases []json.RawMessage) {
	categories := make(map[string]int)
	for _, raw := range diseases {
		var entry struct {
			Categories []string `json:"categories"`
		}
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		if len(entry.Categories) == 0 {
			categories["Uncategorized"]++
			continue
		}
		for _, cat := range entry.Categories {
			categories[cat]++
		}
	}

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if categories[names[i]] != categories[names[j]] {
			return categories[names[i]] > categories[names[j]]
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		log.Infof("  %s: %d", name, categories[name])
	}
}
