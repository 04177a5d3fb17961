package credentials

import (
	"fmt"
	"strings"
)

// Severity of a validation finding
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// Issue is a single validation finding for one credential key
type Issue struct {
	Key      string
	Severity Severity
	Message  string
}

// rule describes what a well-formed value for a key looks like
type rule struct {
	key       string
	prefix    string
	minLength int
	required  bool
}

var rules = []rule{
	{key: KeySlackBotToken, prefix: "xoxb-", required: true},
	{key: KeySlackSigningSecret, minLength: 32, required: true},
	{key: KeySlackAppToken, prefix: "xapp-", required: true},
	{key: KeyFortnoxClientID, minLength: 10, required: true},
	{key: KeyFortnoxClientSecret, minLength: 10, required: true},
	{key: KeyFortnoxAccessToken, minLength: 10, required: false},
	{key: KeyFortnoxRefreshToken, minLength: 10, required: false},
}

// Validate checks the credentials for missing values, wrong token
// prefixes, and copy-paste artifacts like stray quotes or whitespace.
// Tokens are optional since they are minted by the authorize flow.
func Validate(creds *Credentials) []Issue {
	values := map[string]string{
		KeySlackBotToken:       creds.SlackBotToken,
		KeySlackSigningSecret:  creds.SlackSigningSecret,
		KeySlackAppToken:       creds.SlackAppToken,
		KeyFortnoxClientID:     creds.FortnoxClientID,
		KeyFortnoxClientSecret: creds.FortnoxClientSecret,
		KeyFortnoxAccessToken:  creds.FortnoxAccessToken,
		KeyFortnoxRefreshToken: creds.FortnoxRefreshToken,
	}

	var issues []Issue
	for _, r := range rules {
		value := values[r.key]

		if value == "" {
			if r.required {
				issues = append(issues, Issue{Key: r.key, Severity: SeverityError, Message: "not set"})
			}
			continue
		}

		issues = append(issues, hygieneIssues(r.key, value)...)

		if r.prefix != "" && !strings.HasPrefix(value, r.prefix) {
			issues = append(issues, Issue{
				Key:      r.key,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("should start with %q", r.prefix),
			})
		}
		if r.minLength > 0 && len(value) < r.minLength {
			issues = append(issues, Issue{
				Key:      r.key,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("seems too short (length %d)", len(value)),
			})
		}
	}
	return issues
}

// hygieneIssues flags values that were mangled on the way into the file
func hygieneIssues(key, value string) []Issue {
	var issues []Issue

	if value != strings.TrimSpace(value) {
		issues = append(issues, Issue{Key: key, Severity: SeverityWarning, Message: "has leading or trailing whitespace"})
	}
	if strings.HasPrefix(value, `"`) || strings.HasPrefix(value, "'") ||
		strings.HasSuffix(value, `"`) || strings.HasSuffix(value, "'") {
		issues = append(issues, Issue{Key: key, Severity: SeverityWarning, Message: "is wrapped in quotes"})
	}
	if strings.ContainsAny(value, "\n\r") {
		issues = append(issues, Issue{Key: key, Severity: SeverityWarning, Message: "contains newline characters"})
	}
	if strings.Contains(value, "\t") {
		issues = append(issues, Issue{Key: key, Severity: SeverityWarning, Message: "contains tab characters"})
	}

	return issues
}
