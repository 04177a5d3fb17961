package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/nordsell/fortnox-slack-bot/internal/credentials"
	"github.com/nordsell/fortnox-slack-bot/internal/fortnox"
	"github.com/nordsell/fortnox-slack-bot/internal/logger"
)

// Inventory is the slice of the Fortnox client the command handlers use
type Inventory interface {
	ListArticlesInStock(ctx context.Context, minimumStock float64) ([]fortnox.Article, error)
	GetArticleByNumber(ctx context.Context, number string) (*fortnox.Article, error)
}

// Bot runs the Slack Socket Mode event loop and dispatches slash
// commands to the Fortnox client. Each command is handled independently;
// the only shared state is the credential store behind the client.
type Bot struct {
	api       *slack.Client
	socket    *socketmode.Client
	inventory Inventory

	// seam for tests; defaults to slack.PostWebhook
	postWebhook func(url string, msg *slack.WebhookMessage) error
}

// New creates the bot from the Slack credentials and an inventory client.
func New(creds *credentials.Credentials, inventory Inventory) (*Bot, error) {
	if creds.SlackBotToken == "" {
		return nil, fmt.Errorf("%s must be set", credentials.KeySlackBotToken)
	}
	if !strings.HasPrefix(creds.SlackBotToken, "xoxb-") {
		return nil, fmt.Errorf("%s must have the prefix \"xoxb-\"", credentials.KeySlackBotToken)
	}
	if creds.SlackAppToken == "" {
		return nil, fmt.Errorf("%s must be set", credentials.KeySlackAppToken)
	}
	if !strings.HasPrefix(creds.SlackAppToken, "xapp-") {
		return nil, fmt.Errorf("%s must have the prefix \"xapp-\"", credentials.KeySlackAppToken)
	}

	api := slack.New(
		creds.SlackBotToken,
		slack.OptionAppLevelToken(creds.SlackAppToken),
	)

	return &Bot{
		api:         api,
		socket:      socketmode.New(api),
		inventory:   inventory,
		postWebhook: slack.PostWebhook,
	}, nil
}

// Run connects to Slack via Socket Mode and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	go b.pumpEvents(ctx)

	if err := b.socket.RunContext(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("socket mode run: %w", err)
	}
	return nil
}

// pumpEvents reads events from the socket-mode client until ctx is
// cancelled or the event channel closes.
func (b *Bot) pumpEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-b.socket.Events:
			if !ok {
				return
			}
			b.handleEvent(ctx, evt)
		}
	}
}

func (b *Bot) handleEvent(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		logger.Get().Info().Msg("Connecting to Slack with Socket Mode...")
	case socketmode.EventTypeConnected:
		logger.Get().Info().Msg("Connected to Slack")
	case socketmode.EventTypeHello:
		logger.Get().Debug().Msg("Hello from Slack")
	case socketmode.EventTypeConnectionError:
		logger.Get().Error().Msgf("Slack connection failed, retrying later: %+v", evt.Data)

	case socketmode.EventTypeSlashCommand:
		cmd, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			logger.Get().Warn().Msg("Failed to parse slash command event")
			return
		}
		// Ack within Slack's deadline, answer via the response URL once
		// the Fortnox round trip is done.
		b.socket.Ack(*evt.Request)
		go b.handleSlashCommand(ctx, cmd)

	case socketmode.EventTypeEventsAPI:
		eventsAPIEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			logger.Get().Warn().Msg("Failed to parse Events API event")
			return
		}
		b.socket.Ack(*evt.Request)
		b.handleEventsAPI(eventsAPIEvent)

	default:
		logger.Get().Debug().Str("type", string(evt.Type)).Msg("Ignoring socket mode event")
	}
}

// handleEventsAPI answers app mentions with the help text and logs the rest
func (b *Bot) handleEventsAPI(event slackevents.EventsAPIEvent) {
	if event.Type != slackevents.CallbackEvent {
		return
	}

	switch inner := event.InnerEvent.Data.(type) {
	case *slackevents.AppMentionEvent:
		logger.Get().Info().Str("user", inner.User).Msg("Bot mentioned")
		if _, _, err := b.api.PostMessage(inner.Channel, slack.MsgOptionText(FormatHelp(inner.User), false)); err != nil {
			logger.Get().Error().Err(err).Msg("Failed to post help message")
		}
	case *slackevents.MessageEvent:
		logger.Get().Debug().Str("channel", inner.Channel).Msg("Message event received")
	}
}
