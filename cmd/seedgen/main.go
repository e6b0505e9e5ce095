// Command seedgen writes a synthetic product catalogue for load testing.
//
// The output is gzipped JSON lines in the format read by the catalogue seeder:
//
//	go run ./cmd/seedgen -out data/catalog/generated.jsonl.gz -count 5000
package main

import (
	"compress/gzip"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pulse-shop/internal/catalog"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"
)

func main() {
	var (
		out   string
		count int
		seed  uint64
	)

	flag.StringVar(&out, "out", "data/catalog/generated.jsonl.gz", "Output file (gzipped when it ends in .gz)")
	flag.IntVar(&count, "count", 1000, "Number of products to generate")
	flag.Uint64Var(&seed, "seed", 0, "Random seed (0 picks a random one)")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := run(out, count, seed); err != nil {
		logger.Fatal().Err(err).Msg("failed to generate catalogue")
	}

	logger.Info().Str("file", out).Int("products", count).Msg("catalogue generated")
}

func run(out string, count int, seed uint64) error {
	if count < 1 {
		return fmt.Errorf("count must be at least 1")
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	faker := gofakeit.New(seed)

	if !strings.HasSuffix(out, ".gz") {
		if err := generate(file, count, faker); err != nil {
			return err
		}
		return file.Close()
	}

	gzipWriter := gzip.NewWriter(file)
	if err := generate(gzipWriter, count, faker); err != nil {
		return err
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to finish gzip stream: %w", err)
	}
	return file.Close()
}

// generate writes count catalogue records to w.
func generate(w io.Writer, count int, faker *gofakeit.Faker) error {
	enc := json.NewEncoder(w)

	for i := 0; i < count; i++ {
		rec := catalog.Record{
			Name:        faker.ProductName(),
			Description: faker.ProductDescription(),
			PriceCents:  int64(faker.IntRange(199, 49_999)),
			ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/600/600", faker.LetterN(10)),
			Stock:       faker.IntRange(0, 250),
			Category:    faker.ProductCategory(),
		}

		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return nil
}
