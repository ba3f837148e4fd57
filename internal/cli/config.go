package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds CLI configuration
type Config struct {
	ServerURL   string
	SessionFile string
	Output      string
	Verbose     bool

	// Session is the saved session loaded from SessionFile, if any
	Session SavedSession
}

// SavedSession is the session context persisted between CLI invocations
type SavedSession struct {
	SessionID string `json:"session_id"`
	PlayerID  string `json:"player_id"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:   getEnvOrDefault("DIGITDUEL_SERVER", "http://localhost:8080"),
		SessionFile: getEnvOrDefault("DIGITDUEL_SESSION_FILE", defaultSessionFile()),
		Output:      "text",
		Verbose:     false,
	}
}

// LoadSession loads the saved session from file if present
func (c *Config) LoadSession() error {
	data, err := os.ReadFile(c.SessionFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No saved session is fine
		}
		return err
	}

	return json.Unmarshal(data, &c.Session)
}

// SaveSession persists the session context to the session file
func (c *Config) SaveSession(sessionID, playerID string) error {
	c.Session = SavedSession{SessionID: sessionID, PlayerID: playerID}

	dir := filepath.Dir(c.SessionFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.Marshal(c.Session)
	if err != nil {
		return err
	}

	return os.WriteFile(c.SessionFile, data, 0600)
}

// ClearSession removes the saved session file
func (c *Config) ClearSession() error {
	c.Session = SavedSession{}

	err := os.Remove(c.SessionFile)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".digitduel/session"
	}
	return filepath.Join(home, ".digitduel", "session")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
