package bot

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nordsell/fortnox-slack-bot/internal/fortnox"
)

func TestFormatArticleTableEmpty(t *testing.T) {
	assert.Equal(t, "❌ No articles found in stock.", FormatArticleTable(nil))
}

func TestFormatArticleTable(t *testing.T) {
	articles := []fortnox.Article{
		{ArticleNumber: "1", Description: "Widget", QuantityInStock: 5, Unit: "pcs", SalesPrice: "99.50"},
		{ArticleNumber: "3", Description: "Sprocket", QuantityInStock: 12, Unit: "box", SalesPrice: "7.25"},
	}

	msg := FormatArticleTable(articles)

	assert.Contains(t, msg, "*Articles in Stock* (2 total)")
	assert.Contains(t, msg, "```")
	assert.Contains(t, msg, "Article #")
	assert.Contains(t, msg, "Widget")
	assert.Contains(t, msg, "99.50")
	assert.Contains(t, msg, "Sprocket")
	assert.NotContains(t, msg, "Showing")

	// Remote ordering preserved
	assert.Less(t, strings.Index(msg, "Widget"), strings.Index(msg, "Sprocket"))
}

func TestFormatArticleTableCapsAtFiftyRows(t *testing.T) {
	articles := make([]fortnox.Article, 75)
	for i := range articles {
		articles[i] = fortnox.Article{
			ArticleNumber:   fmt.Sprintf("A%03d", i),
			Description:     "Bulk item",
			QuantityInStock: 1,
		}
	}

	msg := FormatArticleTable(articles)

	assert.Contains(t, msg, "(75 total)")
	assert.Contains(t, msg, "_Showing 50 of 75 articles_")
	assert.Contains(t, msg, "A049")
	assert.NotContains(t, msg, "A050")
}

func TestFormatArticleTableTruncatesWideFields(t *testing.T) {
	articles := []fortnox.Article{
		{
			ArticleNumber: "123456789012345678",
			Description:   strings.Repeat("d", 60),
			Unit:          "palettes",
		},
	}

	msg := FormatArticleTable(articles)

	assert.Contains(t, msg, "12345678901234 ")
	assert.NotContains(t, msg, "123456789012345")
	assert.Contains(t, msg, strings.Repeat("d", 39))
	assert.NotContains(t, msg, strings.Repeat("d", 40))
}

func TestFormatArticleDetailDefaults(t *testing.T) {
	msg := FormatArticleDetail(&fortnox.Article{ArticleNumber: "9"})

	assert.Contains(t, msg, "*Article Number:* 9")
	assert.Contains(t, msg, "*Description:* No description")
	assert.Contains(t, msg, "*Quantity in Stock:* 0 pcs")
	assert.Contains(t, msg, "*Stock Place:* N/A")
	assert.Contains(t, msg, "*Sales Price:* 0.00 SEK")
	assert.Contains(t, msg, "*Supplier:* N/A")
}

func TestFormatArticleDetailFull(t *testing.T) {
	msg := FormatArticleDetail(&fortnox.Article{
		ArticleNumber:   "42",
		Description:     "The Answer",
		QuantityInStock: 10.5,
		Unit:            "kg",
		StockPlace:      "Shelf 3",
		SalesPrice:      "19.90",
		PurchasePrice:   "12.00",
		Currency:        "EUR",
		SupplierName:    "Acme AB",
		EAN:             "7301234567890",
		Manufacturer:    "Acme",
	})

	assert.Contains(t, msg, "*Quantity in Stock:* 10.5 kg")
	assert.Contains(t, msg, "*Sales Price:* 19.90 EUR")
	assert.Contains(t, msg, "*Purchase Price:* 12.00 EUR")
	assert.Contains(t, msg, "*Supplier:* Acme AB")
	assert.Contains(t, msg, "*EAN:* 7301234567890")
}

func TestFormatHelpMentionsUserAndCommands(t *testing.T) {
	msg := FormatHelp("U12345")

	assert.Contains(t, msg, "<@U12345>")
	assert.Contains(t, msg, "/fortnox-stock")
	assert.Contains(t, msg, "/fortnox-article")
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "5", formatQuantity(5))
	assert.Equal(t, "10.5", formatQuantity(10.5))
	assert.Equal(t, "0", formatQuantity(0))
}
