package models

// RawCSVRow is one record of an uploaded product CSV, keyed by header name.
// All values are untrimmed strings exactly as parsed.
type RawCSVRow map[string]string

// RowDraft is the structurally normalized form of a RawCSVRow. Category and
// subcategory names are still unresolved free text; resolution to IDs is the
// resolver's job, not the parser's.
type RowDraft struct {
	Name             string
	Description      string
	Price            float64
	Quantity         int
	Dimensions       string
	CategoryName     string
	SubcategoryNames []string
	ImageURLs        []string
}

// IngestResult reports the outcome of one CSV batch ingestion.
type IngestResult struct {
	Count int `json:"count"`
}
