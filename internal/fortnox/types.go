package fortnox

import "strconv"

// DefaultBaseURL is the Fortnox REST API base
const DefaultBaseURL = "https://api.fortnox.se/3"

// Article is a read-only projection of the remote article representation.
// Nothing is persisted locally; articles are fetched fresh per request.
//
// Prices come back from Fortnox as strings, so they stay strings here and
// are parsed at presentation time.
type Article struct {
	ArticleNumber   string  `json:"ArticleNumber"`
	Description     string  `json:"Description"`
	QuantityInStock float64 `json:"QuantityInStock"`
	Unit            string  `json:"Unit"`
	StockPlace      string  `json:"StockPlace"`
	SalesPrice      string  `json:"SalesPrice"`
	PurchasePrice   string  `json:"PurchasePrice"`
	Currency        string  `json:"Currency"`
	SupplierName    string  `json:"SupplierName"`
	EAN             string  `json:"EAN"`
	Manufacturer    string  `json:"Manufacturer"`
}

// SalesPriceValue parses the sales price, returning 0 when absent or malformed
func (a *Article) SalesPriceValue() float64 {
	return parsePrice(a.SalesPrice)
}

// PurchasePriceValue parses the purchase price, returning 0 when absent or malformed
func (a *Article) PurchasePriceValue() float64 {
	return parsePrice(a.PurchasePrice)
}

func parsePrice(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// articleListResponse is the envelope around GET /articles
type articleListResponse struct {
	Articles []Article `json:"Articles"`
}

// articleResponse is the envelope around GET /articles/{number}
type articleResponse struct {
	Article Article `json:"Article"`
}
