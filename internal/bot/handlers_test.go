package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordsell/fortnox-slack-bot/internal/credentials"
	"github.com/nordsell/fortnox-slack-bot/internal/fortnox"
)

// fakeInventory records calls and returns canned data
type fakeInventory struct {
	articles []fortnox.Article
	article  *fortnox.Article
	err      error

	listCalls   int
	lastMinimum float64
	lastNumber  string
}

func (f *fakeInventory) ListArticlesInStock(ctx context.Context, minimumStock float64) ([]fortnox.Article, error) {
	f.listCalls++
	f.lastMinimum = minimumStock
	if f.err != nil {
		return nil, f.err
	}
	return f.articles, nil
}

func (f *fakeInventory) GetArticleByNumber(ctx context.Context, number string) (*fortnox.Article, error) {
	f.lastNumber = number
	if f.err != nil {
		return nil, f.err
	}
	return f.article, nil
}

func newTestBot(inv Inventory) *Bot {
	return &Bot{inventory: inv}
}

func stockCommand(text string) slack.SlashCommand {
	return slack.SlashCommand{Command: "/fortnox-stock", Text: text, UserName: "tester"}
}

func articleCommand(text string) slack.SlashCommand {
	return slack.SlashCommand{Command: "/fortnox-article", Text: text, UserName: "tester"}
}

func TestStockCommandDefaultsToZeroMinimum(t *testing.T) {
	inv := &fakeInventory{articles: []fortnox.Article{
		{ArticleNumber: "1", Description: "Widget", QuantityInStock: 5, Unit: "pcs"},
	}}
	b := newTestBot(inv)

	reply := b.commandReply(context.Background(), stockCommand(""))

	assert.Equal(t, 1, inv.listCalls)
	assert.Equal(t, 0.0, inv.lastMinimum)
	assert.Contains(t, reply, "Articles in Stock")
	assert.Contains(t, reply, "Widget")
}

func TestStockCommandParsesMinimum(t *testing.T) {
	inv := &fakeInventory{}
	b := newTestBot(inv)

	b.commandReply(context.Background(), stockCommand("  10 "))

	assert.Equal(t, 10.0, inv.lastMinimum)
}

func TestStockCommandRejectsBadMinimum(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "non-numeric", text: "lots"},
		{name: "negative", text: "-3"},
		{name: "decimal junk", text: "1.5.3"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inv := &fakeInventory{}
			b := newTestBot(inv)

			reply := b.commandReply(context.Background(), stockCommand(tc.text))

			assert.Equal(t, stockUsage, reply)
			assert.Equal(t, 0, inv.listCalls, "inventory must not be hit on bad input")
		})
	}
}

func TestArticleCommandRequiresNumber(t *testing.T) {
	inv := &fakeInventory{}
	b := newTestBot(inv)

	reply := b.commandReply(context.Background(), articleCommand("   "))

	assert.Equal(t, articleUsage, reply)
	assert.Empty(t, inv.lastNumber)
}

func TestArticleCommandRepliesWithDetails(t *testing.T) {
	inv := &fakeInventory{article: &fortnox.Article{
		ArticleNumber:   "42",
		Description:     "The Answer",
		QuantityInStock: 7,
		Unit:            "pcs",
		SalesPrice:      "19.90",
	}}
	b := newTestBot(inv)

	reply := b.commandReply(context.Background(), articleCommand("42"))

	assert.Equal(t, "42", inv.lastNumber)
	assert.Contains(t, reply, "*Article Number:* 42")
	assert.Contains(t, reply, "The Answer")
	assert.Contains(t, reply, "19.90 SEK")
}

func TestUnknownCommand(t *testing.T) {
	b := newTestBot(&fakeInventory{})

	reply := b.commandReply(context.Background(), slack.SlashCommand{Command: "/fortnox-invoices"})

	assert.Contains(t, reply, "Unknown command")
}

func TestPresentErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{
			name:     "auth error suggests reauthorization",
			err:      &fortnox.AuthError{Status: 401},
			contains: "re-authorize",
		},
		{
			name:     "not found names the article",
			err:      &fortnox.NotFoundError{ArticleNumber: "17"},
			contains: "Article 17 not found",
		},
		{
			name:     "transport error reads as unavailable",
			err:      &fortnox.TransportError{Err: errors.New("dial tcp: timeout")},
			contains: "unreachable",
		},
		{
			name:     "remote error carries the status",
			err:      &fortnox.RemoteError{Status: 502, Body: "bad gateway"},
			contains: "status 502",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Contains(t, presentError(tc.err), tc.contains)
		})
	}
}

func TestCommandErrorsReachTheUser(t *testing.T) {
	inv := &fakeInventory{err: &fortnox.TransportError{Err: errors.New("refused")}}
	b := newTestBot(inv)

	reply := b.commandReply(context.Background(), stockCommand(""))
	assert.Contains(t, reply, "unreachable")
}

func TestHandleSlashCommandPostsToResponseURL(t *testing.T) {
	inv := &fakeInventory{articles: []fortnox.Article{
		{ArticleNumber: "1", Description: "Widget", QuantityInStock: 5},
	}}

	var gotURL string
	var gotMsg *slack.WebhookMessage
	b := newTestBot(inv)
	b.postWebhook = func(url string, msg *slack.WebhookMessage) error {
		gotURL = url
		gotMsg = msg
		return nil
	}

	cmd := stockCommand("")
	cmd.ResponseURL = "https://hooks.slack.example/response"
	b.handleSlashCommand(context.Background(), cmd)

	assert.Equal(t, "https://hooks.slack.example/response", gotURL)
	require.NotNil(t, gotMsg)
	assert.Contains(t, gotMsg.Text, "Widget")
}

func TestNewValidatesTokens(t *testing.T) {
	tests := []struct {
		name     string
		botToken string
		appToken string
	}{
		{name: "missing bot token", botToken: "", appToken: "xapp-1"},
		{name: "bad bot token prefix", botToken: "xoxp-1", appToken: "xapp-1"},
		{name: "missing app token", botToken: "xoxb-1", appToken: ""},
		{name: "bad app token prefix", botToken: "xoxb-1", appToken: "xoxb-1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			creds := &credentials.Credentials{SlackBotToken: tc.botToken, SlackAppToken: tc.appToken}
			_, err := New(creds, &fakeInventory{})
			assert.Error(t, err)
		})
	}
}
