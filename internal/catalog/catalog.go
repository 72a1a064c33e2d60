// Package catalog serves the fixed, read-only product list. Products come
// from an embedded seed or from a JSON file named in the configuration;
// nothing in the storefront mutates them.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	_ "embed"

	"github.com/quickcart-shop/quickcart/internal/models"
	"github.com/quickcart-shop/quickcart/internal/util"
)

//go:embed products.json
var seed []byte

type Catalog struct {
	products []models.Product
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

// New loads the catalog from path, or from the embedded seed when path is
// empty.
func New(path string) (*Catalog, error) {
	data := seed
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", path, err)
		}
		data = fileData
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	return &Catalog{products: products}, nil
}

func (c *Catalog) All() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) List(page, size int) ([]models.Product, PageMeta) {
	offset, limit := util.Calculate(page, size)
	if page < 1 {
		page = 1
	}

	total := int64(len(c.products))
	end := offset + limit
	if offset > len(c.products) {
		offset = len(c.products)
	}
	if end > len(c.products) {
		end = len(c.products)
	}

	items := make([]models.Product, end-offset)
	copy(items, c.products[offset:end])

	return items, PageMeta{
		Page:       page,
		Size:       limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
		HasPrev:    page > 1,
		HasNext:    int64(offset+limit) < total,
	}
}

func (c *Catalog) Get(id int) (models.Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
