package credentials

import (
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/watchparty/cli/pkg/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Credentials struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	IsStaff      bool      `json:"is_staff"`
}

// Provider supplies the bearer token for outgoing requests. Implementations
// are consulted on every request, so a refreshed token is picked up by the
// next call.
type Provider interface {
	Token() string
}

// ProviderFunc adapts a function to Provider
type ProviderFunc func() string

func (f ProviderFunc) Token() string { return f() }

// Static always returns the same token. The zero value sends no token.
type Static string

func (s Static) Token() string { return string(s) }

// Memory holds a token that can be swapped at runtime
type Memory struct {
	mu    sync.RWMutex
	token string
}

func NewMemory(token string) *Memory {
	return &Memory{token: token}
}

func (m *Memory) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Memory) Set(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

func (m *Memory) Clear() {
	m.Set("")
}

// FileProvider reads the access token from a credentials file on each call
type FileProvider struct {
	path string
}

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// Token returns the stored access token, or "" when none is stored
func (p *FileProvider) Token() string {
	creds, err := LoadFrom(p.path)
	if err != nil || creds == nil {
		return ""
	}
	return creds.AccessToken
}

// Load loads credentials from the configured path
func Load() (*Credentials, error) {
	return LoadFrom(config.GetCredentialsPath())
}

// LoadFrom loads credentials from path. A missing file yields nil, nil.
func LoadFrom(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}

	return &creds, nil
}

// Save saves credentials to the configured path
func Save(creds *Credentials) error {
	return SaveTo(config.GetCredentialsPath(), creds)
}

// SaveTo writes credentials with owner-only permissions. A missing expiry is
// filled from the access token's exp claim.
func SaveTo(path string, creds *Credentials) error {
	if creds.ExpiresAt.IsZero() {
		if exp, ok := TokenExpiry(creds.AccessToken); ok {
			creds.ExpiresAt = exp
		}
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// Delete deletes credentials from disk
func Delete() error {
	err := os.Remove(config.GetCredentialsPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// The backend is the only verifier; the client only needs the timestamp.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// IsExpired checks if the access token is expired
func (c *Credentials) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// IsValid checks if credentials are valid
func (c *Credentials) IsValid() bool {
	return c.AccessToken != "" && !c.IsExpired()
}
