// Package catalog loads product catalogue files and seeds an empty store with them.
//
// A catalogue file holds one JSON object per line. Files whose name ends in
// .gz are gunzipped on the fly.
package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"pulse-shop/internal/model"
)

// Loader reads a catalogue file.
type Loader interface {
	// Load returns the products of the file at path, in file order.
	Load(ctx context.Context, path string) ([]model.ProductFields, error)
}

// Store receives the loaded catalogue.
type Store interface {
	SeedIfEmpty(ctx context.Context, products []model.ProductFields) (int64, error)
}

// Record is the on-disk representation of one product.
type Record struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	ImageURL    string `json:"image_url"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
}

func (r Record) validate() error {
	switch {
	case r.Name == "":
		return fmt.Errorf("name is required")
	case r.PriceCents < 0:
		return fmt.Errorf("price_cents must not be negative")
	case r.Stock < 0:
		return fmt.Errorf("stock must not be negative")
	}
	return nil
}

func (r Record) fields() model.ProductFields {
	return model.ProductFields{
		Name:        r.Name,
		Description: r.Description,
		PriceCents:  r.PriceCents,
		ImageURL:    r.ImageURL,
		Stock:       r.Stock,
		Category:    r.Category,
	}
}

// decode parses a catalogue stream. name is used for gzip detection and error messages.
func decode(ctx context.Context, r io.Reader, name string) ([]model.ProductFields, error) {
	if strings.HasSuffix(name, ".gz") {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var products []model.ProductFields
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		if lineNo%10_000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("%s:%d: invalid product record: %w", name, lineNo, err)
		}
		if err := rec.validate(); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
		products = append(products, rec.fields())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading catalogue file %s: %w", name, err)
	}

	return products, nil
}
