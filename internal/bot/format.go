package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nordsell/fortnox-slack-bot/internal/fortnox"
)

// tableRowLimit caps how many articles a single chat message lists
const tableRowLimit = 50

// FormatArticleTable renders an article list as a monospace table.
func FormatArticleTable(articles []fortnox.Article) string {
	if len(articles) == 0 {
		return "❌ No articles found in stock."
	}

	total := len(articles)
	display := articles
	if total > tableRowLimit {
		display = articles[:tableRowLimit]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📦 *Articles in Stock* (%d total)\n\n", total)
	sb.WriteString("```\n")
	fmt.Fprintf(&sb, "%-15s %-40s %-10s %-8s %-10s\n", "Article #", "Description", "Quantity", "Unit", "Price")
	sb.WriteString(strings.Repeat("-", 90))
	sb.WriteString("\n")

	for _, article := range display {
		fmt.Fprintf(&sb, "%-15s %-40s %-10s %-8s %-10s\n",
			truncate(valueOr(article.ArticleNumber, "N/A"), 14),
			truncate(valueOr(article.Description, "No description"), 39),
			formatQuantity(article.QuantityInStock),
			truncate(valueOr(article.Unit, "pcs"), 7),
			fmt.Sprintf("%.2f", article.SalesPriceValue()),
		)
	}

	sb.WriteString("```")

	if total > tableRowLimit {
		fmt.Fprintf(&sb, "\n_Showing %d of %d articles_", tableRowLimit, total)
	}

	return sb.String()
}

// FormatArticleDetail renders a single article's fields.
func FormatArticleDetail(article *fortnox.Article) string {
	currency := valueOr(article.Currency, "SEK")

	var sb strings.Builder
	sb.WriteString("📦 *Article Details*\n\n")
	fmt.Fprintf(&sb, "*Article Number:* %s\n", valueOr(article.ArticleNumber, "N/A"))
	fmt.Fprintf(&sb, "*Description:* %s\n", valueOr(article.Description, "No description"))
	fmt.Fprintf(&sb, "*Quantity in Stock:* %s %s\n", formatQuantity(article.QuantityInStock), valueOr(article.Unit, "pcs"))
	fmt.Fprintf(&sb, "*Stock Place:* %s\n", valueOr(article.StockPlace, "N/A"))
	fmt.Fprintf(&sb, "*Sales Price:* %.2f %s\n", article.SalesPriceValue(), currency)
	fmt.Fprintf(&sb, "*Purchase Price:* %.2f %s\n", article.PurchasePriceValue(), currency)
	fmt.Fprintf(&sb, "*Supplier:* %s\n", valueOr(article.SupplierName, "N/A"))
	fmt.Fprintf(&sb, "*EAN:* %s\n", valueOr(article.EAN, "N/A"))
	fmt.Fprintf(&sb, "*Manufacturer:* %s", valueOr(article.Manufacturer, "N/A"))

	return sb.String()
}

// FormatHelp renders the mention-triggered help text.
func FormatHelp(userID string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "👋 Hi <@%s>! I'm the Fortnox Inventory Bot.\n\n", userID)
	sb.WriteString("*Available Commands:*\n\n")
	sb.WriteString("• `/fortnox-stock` - List all articles in stock\n")
	sb.WriteString("• `/fortnox-stock <minimum>` - List articles with at least the specified quantity\n")
	sb.WriteString("• `/fortnox-article <number>` - Get details about a specific article\n\n")
	sb.WriteString("*Example:*\n")
	sb.WriteString("`/fortnox-stock 10` - Show articles with at least 10 units in stock\n")
	sb.WriteString("`/fortnox-article 12345` - Show details for article 12345")

	return sb.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// formatQuantity renders stock levels without a forced decimal point
func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
