package fortnox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/nordsell/fortnox-slack-bot/internal/credentials"
	serverhttp "github.com/nordsell/fortnox-slack-bot/internal/http"
	"github.com/nordsell/fortnox-slack-bot/internal/logger"
)

// Client is a client for the Fortnox articles API.
//
// It performs no retries and no token refreshing: tokens are refreshed
// out of band on a schedule, so an interactive command should never
// observe an expired one. A failure surfaces immediately as one of the
// typed errors in errors.go.
type Client struct {
	httpClient serverhttp.HTTPClient
	store      credentials.Store
	baseURL    string
}

// NewClient creates a new Fortnox API client backed by the given
// credential store.
func NewClient(store credentials.Store) *Client {
	return &Client{
		httpClient: serverhttp.NewHTTPClient(),
		store:      store,
		baseURL:    DefaultBaseURL,
	}
}

// ListArticles retrieves the article collection. Filter parameters are
// passed through to the remote API unmodified.
func (c *Client) ListArticles(ctx context.Context, filter url.Values) ([]Article, error) {
	body, err := c.get(ctx, "/articles", filter)
	if err != nil {
		return nil, err
	}

	var result articleListResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("could not unmarshal articles response: %w", err)
	}

	logger.Get().Debug().Int("count", len(result.Articles)).Msg("Retrieved articles from Fortnox")
	return result.Articles, nil
}

// GetArticleByNumber retrieves a single article by its article number.
// A 404 from the remote API surfaces as *NotFoundError.
func (c *Client) GetArticleByNumber(ctx context.Context, number string) (*Article, error) {
	if number == "" {
		return nil, fmt.Errorf("article number is empty")
	}

	body, err := c.get(ctx, "/articles/"+url.PathEscape(number), nil)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			notFound.ArticleNumber = number
		}
		return nil, err
	}

	var result articleResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("could not unmarshal article response: %w", err)
	}

	return &result.Article, nil
}

// ListArticlesInStock retrieves every article with at least minimumStock
// units in stock. The filter runs client-side; the remote ordering is
// preserved and a minimum of 0 returns the full set.
func (c *Client) ListArticlesInStock(ctx context.Context, minimumStock float64) ([]Article, error) {
	articles, err := c.ListArticles(ctx, nil)
	if err != nil {
		return nil, err
	}

	inStock := make([]Article, 0, len(articles))
	for _, article := range articles {
		if article.QuantityInStock >= minimumStock {
			inStock = append(inStock, article)
		}
	}

	logger.Get().Debug().
		Float64("minimum_stock", minimumStock).
		Int("count", len(inStock)).
		Msg("Filtered articles in stock")
	return inStock, nil
}

// CheckConnection verifies the stored credentials against the articles
// endpoint with the cheapest possible call.
func (c *Client) CheckConnection(ctx context.Context) error {
	_, err := c.get(ctx, "/articles", url.Values{"limit": {"1"}})
	return err
}

// get performs an authenticated GET and maps the response status onto
// the error taxonomy.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	creds, err := c.store.Load()
	if err != nil {
		return nil, fmt.Errorf("unable to load credentials: %w", err)
	}

	if creds.FortnoxAccessToken == "" {
		return nil, &AuthError{Body: "access token is empty, run the authorize flow first"}
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+creds.FortnoxAccessToken)
	req.Header.Set("Client-Secret", creds.FortnoxClientSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &AuthError{Status: resp.StatusCode, Body: string(body)}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &NotFoundError{}
	default:
		return nil, &RemoteError{Status: resp.StatusCode, Body: string(body)}
	}
}
