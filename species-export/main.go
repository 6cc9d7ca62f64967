package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/apex/log"

	"plant-identification-service/config"
	"plant-identification-service/plantnet"
)

var (
	outFile  = flag.String("out", "species_list.json", "Output file for the species dump.")
	pageSize = flag.Int("page_size", 500, "Species fetched per page. 500 is the maximum recommended page size.")
	lang     = flag.String("lang", "en", "Language for species common names.")
)

func main() {
	flag.Parse()

	cfg := config.Load()
	if cfg.PlantNetAPIKey == "" {
		log.Fatal("PLANTNET_API_KEY environment variable is required")
	}

	client := plantnet.NewClient(cfg.PlantNetAPIKey, cfg.PlantNetAPIURL, cfg.PlantNetProject, cfg.PlantNetTimeout)

	log.Infof("Starting download from %s/species...", cfg.PlantNetAPIURL)

	var allSpecies []json.RawMessage
	for page := 1; ; page++ {
		raw, err := client.Species(context.Background(), page, *pageSize, *lang)
		if err != nil {
			// A failed page ends the walk; everything collected so far
			// is still written out.
			log.Warnf("Failed to fetch page %d: %v", page, err)
			break
		}

		var batch []json.RawMessage
		if err := json.Unmarshal(raw, &batch); err != nil {
			log.Fatalf("Failed to decode page %d: %v", page, err)
		}

		// An empty page means the end of the catalog.
		if len(batch) == 0 {
			break
		}

		allSpecies = append(allSpecies, batch...)
		log.Infof("Downloaded page %d (%d species so far)", page, len(allSpecies))
	}

	data, err := json.MarshalIndent(allSpecies, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal species list: %v", err)
	}
	if err := os.WriteFile(*outFile, data, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", *outFile, err)
	}

	log.Infof("Total species downloaded: %d", len(allSpecies))
	log.Infof("Data saved to %s", *outFile)
}
