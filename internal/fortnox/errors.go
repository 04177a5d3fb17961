package fortnox

import "fmt"

// AuthError indicates the Fortnox API rejected the access token (HTTP
// 401) or that no usable token was available. The command layer surfaces
// it with a hint to re-run the authorization flow.
type AuthError struct {
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("fortnox: authentication failed: %s", e.Body)
	}
	return fmt.Sprintf("fortnox: authentication rejected with status %d: %s", e.Status, e.Body)
}

// NotFoundError indicates a requested article does not exist (HTTP 404).
type NotFoundError struct {
	ArticleNumber string
}

func (e *NotFoundError) Error() string {
	if e.ArticleNumber == "" {
		return "fortnox: resource not found"
	}
	return fmt.Sprintf("fortnox: article %s not found", e.ArticleNumber)
}

// RemoteError indicates any other non-2xx response. Status and body are
// carried for diagnostics.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("fortnox: request failed with status %d: %s", e.Status, e.Body)
}

// TransportError indicates the request never produced an HTTP response
// (network failure, DNS, timeout). Not retried here; the call volume is
// interactive and the caller decides what to do.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fortnox: request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
