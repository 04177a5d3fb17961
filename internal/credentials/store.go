package credentials

// Store defines the interface for reading and persisting bot credentials
type Store interface {
	// Load retrieves the current credentials
	Load() (*Credentials, error)

	// SaveTokens persists a new Fortnox access/refresh token pair.
	// Both tokens are replaced together; implementations must never
	// persist one without the other.
	SaveTokens(accessToken, refreshToken string) error

	// Name returns the name of the store for logging
	Name() string
}
