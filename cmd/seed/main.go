package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/patrickdoane/grail-tracker-redux/internal/models"
	"github.com/patrickdoane/grail-tracker-redux/internal/storage"
)

type seedProperty struct {
	PropertyName  string `json:"propertyName"`
	PropertyValue string `json:"propertyValue"`
}

type seedItem struct {
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	Quality     string         `json:"quality"`
	Rarity      string         `json:"rarity"`
	Description string         `json:"description"`
	D2Version   string         `json:"d2Version"`
	Properties  []seedProperty `json:"properties"`
	Sources     []struct {
		SourceType string `json:"sourceType"`
		SourceName string `json:"sourceName"`
	} `json:"sources"`
}

type seedFile struct {
	Items []seedItem `json:"items"`
}

func main() {
	dbPath := flag.String("db", "./grail.db", "SQLite database path")
	seedsPath := flag.String("seeds", "./seeds/items.json", "Seed catalog file")
	flag.Parse()

	store, err := storage.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	data, err := os.ReadFile(*seedsPath)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}

	var seeds seedFile
	if err := json.Unmarshal(data, &seeds); err != nil {
		log.Fatalf("Failed to parse seed file: %v", err)
	}

	created, skipped := 0, 0
	for _, seed := range seeds.Items {
		existing, err := store.ItemByName(seed.Name)
		if err != nil {
			log.Fatalf("Failed to check %q: %v", seed.Name, err)
		}
		if existing != nil {
			skipped++
			continue
		}
		if err := seedCatalogItem(store, seed); err != nil {
			log.Fatalf("Failed to seed %q: %v", seed.Name, err)
		}
		created++
	}

	log.Printf("Seeding complete: %d created, %d already present", created, skipped)
}

func seedCatalogItem(store *storage.Store, seed seedItem) error {
	item := models.Item{
		Name:        seed.Name,
		Type:        seed.Type,
		Quality:     seed.Quality,
		Rarity:      seed.Rarity,
		Description: seed.Description,
		D2Version:   seed.D2Version,
	}
	if err := store.CreateItem(&item); err != nil {
		return err
	}

	for _, prop := range seed.Properties {
		p := models.ItemProperty{
			ItemID:        item.ID,
			PropertyName:  prop.PropertyName,
			PropertyValue: prop.PropertyValue,
		}
		if err := store.CreateProperty(&p); err != nil {
			return err
		}
	}
	for _, src := range seed.Sources {
		s := models.ItemSource{
			ItemID:     item.ID,
			SourceType: src.SourceType,
			SourceName: src.SourceName,
		}
		if err := store.CreateSource(&s); err != nil {
			return err
		}
	}
	return nil
}
