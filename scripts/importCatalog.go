package main

import (
	"encoding/csv"
	"log"
	"os"
	"strings"

	"abhyasi/config"
	"abhyasi/database"
	courseModels "abhyasi/models/course"
)

// Imports a course catalog from Catalog.csv. Expected columns:
// title, description, difficulty, module titles separated by "|".
func main() {
	config.LoadConfig()
	database.ConnectDb()

	file, err := os.Open("Catalog.csv")
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV file: %v", err)
	}

	db := database.Database.Db
	imported := 0

	for i, record := range records {
		if i == 0 {
			// header row
			continue
		}
		if len(record) < 4 {
			log.Printf("Skipping row %d: expected 4 columns, got %d", i+1, len(record))
			continue
		}

		title := strings.TrimSpace(record[0])
		if title == "" {
			continue
		}
		slug := strings.ToLower(strings.ReplaceAll(title, " ", "-"))

		var existing courseModels.Course
		if err := db.Where("slug = ?", slug).First(&existing).Error; err == nil {
			log.Printf("Skipping %q: already imported", title)
			continue
		}

		crs := courseModels.Course{
			Title:       title,
			Slug:        slug,
			Description: strings.TrimSpace(record[1]),
			Difficulty:  strings.TrimSpace(record[2]),
			Status:      courseModels.StatusDraft,
		}
		if err := db.Create(&crs).Error; err != nil {
			log.Printf("Failed to create course %q: %v", title, err)
			continue
		}

		for j, modTitle := range strings.Split(record[3], "|") {
			modTitle = strings.TrimSpace(modTitle)
			if modTitle == "" {
				continue
			}
			mod := courseModels.Module{
				CourseID:          crs.ID,
				Title:             modTitle,
				OrderIndex:        j + 1,
				IsLocked:          j > 0,
				McqPassingPercent: 70,
			}
			if err := db.Create(&mod).Error; err != nil {
				log.Printf("Failed to create module %q in %q: %v", modTitle, title, err)
			}
		}

		imported++
		log.Printf("Imported course %q (%d modules)", title, len(strings.Split(record[3], "|")))
	}

	log.Printf("Catalog import finished: %d courses", imported)
}
