// Package seed holds the fixed product dataset used to reseed the catalog.
package seed

import (
	_ "embed"
	"fmt"

	"catalog/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed data/products.yaml
var productsYAML []byte

type dataset struct {
	Products []models.CreateProductInput `yaml:"products"`
}

// Products decodes the embedded dataset. Every call returns a fresh slice.
func Products() ([]models.CreateProductInput, error) {
	return Parse(productsYAML)
}

// Parse decodes a products dataset document.
func Parse(data []byte) ([]models.CreateProductInput, error) {
	var ds dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to decode seed dataset: %w", err)
	}
	return ds.Products, nil
}
