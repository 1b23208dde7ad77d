package models

// QuoteRequest is the payload submitted from the storefront wishlist. It is
// forwarded by email to the rental desk; nothing is persisted.
type QuoteRequest struct {
	Name        string         `json:"name"`
	CompanyName string         `json:"company_name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	StartDate   string         `json:"start_date"` // YYYY-MM-DD
	EndDate     string         `json:"end_date"`   // YYYY-MM-DD
	Comments    string         `json:"comments"`
	Products    []QuotedItem   `json:"products"`
	TotalPrice  float64        `json:"total_price"` // per-week total for selected items
}

type QuotedItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"` // per week
}
