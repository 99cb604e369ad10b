package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"storefront/internal/domain"
	"github.com/shopspring/decimal"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products.
// Expected columns: name, price, digital, image. Prices are decimal amounts
// like "19.99" and are converted to integer cents exactly; a price that does
// not fit whole cents is a data error, not something to round silently.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses CSV rows and upserts products. It returns the number imported.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return 0, errors.New("missing name column")
	}
	if _, ok := index["price"]; !ok {
		return 0, errors.New("missing price column")
	}

	imported := 0
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		product, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("row %d: %w", line, err)
		}
		if product == nil {
			continue
		}

		if _, err := i.productRepo.Upsert(ctx, *product); err != nil {
			return imported, fmt.Errorf("upsert %q: %w", product.Name, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return index
}

func parseRow(record []string, index map[string]int) (*domain.Product, error) {
	name := strings.TrimSpace(field(record, index, "name"))
	if name == "" {
		return nil, nil
	}

	cents, err := PriceCents(field(record, index, "price"))
	if err != nil {
		return nil, err
	}

	digital := false
	if v := strings.TrimSpace(field(record, index, "digital")); v != "" {
		digital = strings.EqualFold(v, "true") || v == "1" || strings.EqualFold(v, "yes")
	}

	return &domain.Product{
		Name:       name,
		PriceCents: cents,
		Digital:    digital,
		ImagePath:  strings.TrimSpace(field(record, index, "image")),
	}, nil
}

// PriceCents converts a decimal price string into integer cents without
// passing through binary floating point.
func PriceCents(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("price required")
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("price %q: %w", raw, err)
	}
	if price.IsNegative() {
		return 0, fmt.Errorf("price %q: negative", raw)
	}
	cents := price.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, fmt.Errorf("price %q: fractional cents", raw)
	}
	return cents.IntPart(), nil
}

func field(record []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}
