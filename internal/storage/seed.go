package storage

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/lurighe2000/laburen-desafio/internal/models"
)

// SeedProductsFromCSV loads the catalog from a CSV file with columns
// name,description,price,stock. It is a no-op when products already exist.
func SeedProductsFromCSV(store Store, path string) error {
	count, err := store.CountProducts()
	if err != nil {
		return err
	}
	if count > 0 {
		log.Printf("Catalog already has %d products, skipping seed", count)
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	products := []*models.Product{}
	for i, row := range rows {
		if len(row) < 4 {
			continue
		}
		// Skip a header row
		if i == 0 && strings.EqualFold(strings.TrimSpace(row[0]), "name") {
			continue
		}

		price, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(row[2]), ",", ".", 1), 64)
		if err != nil {
			log.Printf("Skipping seed row %d: bad price %q", i+1, row[2])
			continue
		}
		stock, err := strconv.Atoi(strings.TrimSpace(row[3]))
		if err != nil {
			log.Printf("Skipping seed row %d: bad stock %q", i+1, row[3])
			continue
		}

		name := strings.TrimSpace(row[0])
		if name == "" {
			name = "Producto"
		}

		products = append(products, &models.Product{
			Name:        name,
			Description: strings.TrimSpace(row[1]),
			Price:       price,
			Stock:       stock,
		})
	}

	if err := store.CreateProducts(products); err != nil {
		return err
	}
	log.Printf("Seeded %d products", len(products))
	return nil
}
