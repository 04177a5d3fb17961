package credentials

// Credentials holds every secret the bot and the token helper need.
// All values are opaque strings owned by the operator.
type Credentials struct {
	SlackBotToken      string
	SlackSigningSecret string
	SlackAppToken      string

	FortnoxClientID     string
	FortnoxClientSecret string
	FortnoxAccessToken  string
	FortnoxRefreshToken string
}

// Keys used in the flat key=value credentials file and as process
// environment variable names.
const (
	KeySlackBotToken       = "SLACK_BOT_TOKEN"
	KeySlackSigningSecret  = "SLACK_SIGNING_SECRET"
	KeySlackAppToken       = "SLACK_APP_TOKEN"
	KeyFortnoxClientID     = "FORTNOX_CLIENT_ID"
	KeyFortnoxClientSecret = "FORTNOX_CLIENT_SECRET"
	KeyFortnoxAccessToken  = "FORTNOX_ACCESS_TOKEN"
	KeyFortnoxRefreshToken = "FORTNOX_REFRESH_TOKEN"
)

func fromMap(m map[string]string) *Credentials {
	return &Credentials{
		SlackBotToken:       m[KeySlackBotToken],
		SlackSigningSecret:  m[KeySlackSigningSecret],
		SlackAppToken:       m[KeySlackAppToken],
		FortnoxClientID:     m[KeyFortnoxClientID],
		FortnoxClientSecret: m[KeyFortnoxClientSecret],
		FortnoxAccessToken:  m[KeyFortnoxAccessToken],
		FortnoxRefreshToken: m[KeyFortnoxRefreshToken],
	}
}
