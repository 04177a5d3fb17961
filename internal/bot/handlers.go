package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/slack-go/slack"

	"github.com/nordsell/fortnox-slack-bot/internal/fortnox"
	"github.com/nordsell/fortnox-slack-bot/internal/logger"
)

const (
	stockUsage   = "⚠️ Invalid parameter. Usage: `/fortnox-stock [minimum_quantity]`"
	articleUsage = "⚠️ Please provide an article number. Usage: `/fortnox-article <article_number>`"
)

// handleSlashCommand computes the reply for a slash command and posts it
// to the command's response URL.
func (b *Bot) handleSlashCommand(ctx context.Context, cmd slack.SlashCommand) {
	logger.Get().Info().
		Str("command", cmd.Command).
		Str("user", cmd.UserName).
		Msg("Slash command received")

	reply := b.commandReply(ctx, cmd)
	if reply == "" {
		return
	}

	if err := b.postWebhook(cmd.ResponseURL, &slack.WebhookMessage{Text: reply}); err != nil {
		logger.Get().Error().Err(err).Str("command", cmd.Command).Msg("Failed to post command response")
	}
}

// commandReply dispatches on the command name and returns the message text
func (b *Bot) commandReply(ctx context.Context, cmd slack.SlashCommand) string {
	switch cmd.Command {
	case "/fortnox-stock":
		return b.stockReply(ctx, cmd.Text)
	case "/fortnox-article":
		return b.articleReply(ctx, cmd.Text)
	default:
		return fmt.Sprintf("Unknown command `%s`", cmd.Command)
	}
}

// stockReply handles /fortnox-stock [minimum_quantity]
func (b *Bot) stockReply(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)

	minimum := 0
	if text != "" {
		parsed, err := strconv.Atoi(text)
		if err != nil || parsed < 0 {
			return stockUsage
		}
		minimum = parsed
	}

	articles, err := b.inventory.ListArticlesInStock(ctx, float64(minimum))
	if err != nil {
		logger.Get().Error().Err(err).Msg("Stock command failed")
		return presentError(err)
	}

	return FormatArticleTable(articles)
}

// articleReply handles /fortnox-article <article_number>
func (b *Bot) articleReply(ctx context.Context, text string) string {
	number := strings.TrimSpace(text)
	if number == "" {
		return articleUsage
	}

	article, err := b.inventory.GetArticleByNumber(ctx, number)
	if err != nil {
		logger.Get().Error().Err(err).Str("article_number", number).Msg("Article lookup failed")
		return presentError(err)
	}

	return FormatArticleDetail(article)
}

// presentError maps the Fortnox error taxonomy onto operator-friendly
// chat messages. Nothing here is fatal; every failure is scoped to the
// single command that triggered it.
func presentError(err error) string {
	var authErr *fortnox.AuthError
	if errors.As(err, &authErr) {
		return "❌ Fortnox rejected the bot's credentials. Ask an administrator to refresh or re-authorize the integration."
	}

	var notFound *fortnox.NotFoundError
	if errors.As(err, &notFound) {
		if notFound.ArticleNumber != "" {
			return fmt.Sprintf("❌ Article %s not found.", notFound.ArticleNumber)
		}
		return "❌ No such article."
	}

	var transportErr *fortnox.TransportError
	if errors.As(err, &transportErr) {
		return "❌ Fortnox is unreachable right now. Please try again in a moment."
	}

	var remoteErr *fortnox.RemoteError
	if errors.As(err, &remoteErr) {
		return fmt.Sprintf("❌ Fortnox returned an error (status %d). Please try again later.", remoteErr.Status)
	}

	return fmt.Sprintf("❌ Error fetching data from Fortnox: %v", err)
}
