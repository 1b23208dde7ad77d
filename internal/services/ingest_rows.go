package services

import (
	"encoding/csv"
	"errors"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"

	"proprental/internal/models"
)

var multiValueSplit = regexp.MustCompile(`[\s,]+`)

// ReadCSVRows parses an uploaded product CSV into header-keyed rows. The
// first record is the header; ragged or unquotable input is a terminal error
// for the whole upload.
func ReadCSVRows(r io.Reader) ([]models.RawCSVRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("csv file is empty")
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF") // UTF-8 BOM
	}

	rows := make([]models.RawCSVRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if isBlankRecord(record) {
			continue
		}
		row := make(models.RawCSVRow, len(header))
		for i, column := range header {
			row[strings.TrimSpace(column)] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isBlankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// NormalizeRow turns a raw CSV row into a structurally valid draft. Messy
// vendor data is tolerated: unparsable numbers fall back to defaults rather
// than rejecting the row. Category names stay unresolved free text.
func NormalizeRow(row models.RawCSVRow) *models.RowDraft {
	draft := &models.RowDraft{
		Name:         strings.TrimSpace(row["name"]),
		Description:  strings.TrimSpace(row["description"]),
		Dimensions:   strings.TrimSpace(row["dimensions"]),
		CategoryName: strings.TrimSpace(row["category"]),
		Quantity:     1,
	}

	if raw := strings.TrimSpace(row["price"]); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || price < 0 {
			log.Printf("WARN: unparsable price %q for product %q, defaulting to 0", raw, draft.Name)
			price = 0
		}
		draft.Price = price
	}

	if raw := strings.TrimSpace(row["quantity"]); raw != "" {
		quantity, err := strconv.Atoi(raw)
		if err != nil || quantity < 0 {
			log.Printf("WARN: unparsable quantity %q for product %q, defaulting to 1", raw, draft.Name)
			quantity = 1
		}
		draft.Quantity = quantity
	}

	draft.ImageURLs = SplitImageURLs(row["image_url"])
	draft.SubcategoryNames = splitNames(row["subcategories"])

	return draft
}

// SplitImageURLs splits a multi-value image cell on any run of commas and/or
// whitespace, preserving order and dropping empty tokens.
func SplitImageURLs(cell string) []string {
	var urls []string
	for _, token := range multiValueSplit.Split(cell, -1) {
		token = strings.TrimSpace(token)
		if token != "" {
			urls = append(urls, token)
		}
	}
	return urls
}

// splitNames splits a subcategories cell on commas only: subcategory names
// may legitimately contain spaces.
func splitNames(cell string) []string {
	var names []string
	for _, token := range strings.Split(cell, ",") {
		token = strings.TrimSpace(token)
		if token != "" {
			names = append(names, token)
		}
	}
	return names
}
