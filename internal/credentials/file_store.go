package credentials

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/nordsell/fortnox-slack-bot/internal/env"
)

// FileStore implements Store using a flat key=value .env file.
//
// The file is shared between the bot process and the scheduled refresh
// job, so every write goes through a temp-file-and-rename so that a
// concurrent reader never observes a half-written token.
type FileStore struct {
	filePath string
}

// NewFileStore creates a new file-based credential store
func NewFileStore() (*FileStore, error) {
	store := &FileStore{}

	// Determine the file path
	if err := store.determineFilePath(); err != nil {
		return nil, err
	}

	return store, nil
}

// determineFilePath sets the file path based on environment variables or defaults
func (f *FileStore) determineFilePath() error {
	// 1. Check for file path in environment variable
	if envPath, ok := env.Get("FORTNOX_BOT_ENV_PATH"); ok {
		f.filePath = envPath
		return nil
	}

	// 2. Use the .env file in the working directory
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	f.filePath = filepath.Join(cwd, ".env")
	return nil
}

// Load retrieves credentials from the file, falling back to the process
// environment when no file exists.
func (f *FileStore) Load() (*Credentials, error) {
	if f.filePath != "" {
		values, err := godotenv.Read(f.filePath)
		if err == nil {
			return fromMap(values), nil
		}
		// If the file doesn't exist, continue to the environment fallback
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read credentials file %s: %w", f.filePath, err)
		}
	}

	// Fallback to plain environment variables. Token writes are disabled
	// in this mode since there is no file to write back to.
	creds := &Credentials{
		SlackBotToken:       env.GetOrDefault(KeySlackBotToken, ""),
		SlackSigningSecret:  env.GetOrDefault(KeySlackSigningSecret, ""),
		SlackAppToken:       env.GetOrDefault(KeySlackAppToken, ""),
		FortnoxClientID:     env.GetOrDefault(KeyFortnoxClientID, ""),
		FortnoxClientSecret: env.GetOrDefault(KeyFortnoxClientSecret, ""),
		FortnoxAccessToken:  env.GetOrDefault(KeyFortnoxAccessToken, ""),
		FortnoxRefreshToken: env.GetOrDefault(KeyFortnoxRefreshToken, ""),
	}
	if creds.FortnoxClientID == "" && creds.SlackBotToken == "" {
		return nil, fmt.Errorf("credentials not found: no %s file and no credentials in the environment (set FORTNOX_BOT_ENV_PATH to point at your .env file)", f.filePath)
	}
	f.filePath = ""
	return creds, nil
}

// SaveTokens persists a new access/refresh token pair, keeping every
// other key in the file untouched.
func (f *FileStore) SaveTokens(accessToken, refreshToken string) error {
	if f.filePath == "" {
		return fmt.Errorf("cannot save tokens when credentials were loaded from the environment")
	}
	if accessToken == "" || refreshToken == "" {
		return fmt.Errorf("refusing to save an incomplete token pair")
	}

	// Re-read the file so operator-managed keys survive the write
	values, err := godotenv.Read(f.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read credentials file for update: %w", err)
		}
		values = map[string]string{}
	}

	values[KeyFortnoxAccessToken] = accessToken
	values[KeyFortnoxRefreshToken] = refreshToken

	content, err := godotenv.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	return f.writeAtomic(content)
}

// writeAtomic writes content to a temp file in the target directory and
// renames it over the credentials file. A rename on the same filesystem
// is atomic, so concurrent readers see either the old file or the new
// one, never a partial write.
func (f *FileStore) writeAtomic(content string) error {
	dir := filepath.Dir(f.filePath)

	tmp, err := os.CreateTemp(dir, ".env-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp credentials file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp credentials file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod temp credentials file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp credentials file: %w", err)
	}

	if err := os.Rename(tmpName, f.filePath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace credentials file %s: %w", f.filePath, err)
	}
	return nil
}

// Name returns the store name
func (f *FileStore) Name() string {
	if f.filePath != "" {
		return fmt.Sprintf("FileStore(%s)", f.filePath)
	}
	return "FileStore(env)"
}
