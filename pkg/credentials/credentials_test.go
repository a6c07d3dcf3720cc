package credentials

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestCredentialsIsExpired validates token expiration check
func TestCredentialsIsExpired(t *testing.T) {
	testCases := []struct {
		expiresAt time.Time
		expect    bool
		name      string
	}{
		{time.Now().Add(-1 * time.Hour), true, "past expiration"},
		{time.Now().Add(1 * time.Hour), false, "future expiration"},
		{time.Now().Add(-1 * time.Minute), true, "recently expired"},
		{time.Time{}, true, "zero expiry"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			creds := &Credentials{AccessToken: "test_token", ExpiresAt: tc.expiresAt}
			if result := creds.IsExpired(); result != tc.expect {
				t.Errorf("Expected IsExpired=%v, got %v", tc.expect, result)
			}
		})
	}
}

// TestCredentialsIsValid validates credential validity check
func TestCredentialsIsValid(t *testing.T) {
	testCases := []struct {
		accessToken string
		expiresAt   time.Time
		expect      bool
		name        string
	}{
		{"valid_token", time.Now().Add(1 * time.Hour), true, "valid credentials"},
		{"", time.Now().Add(1 * time.Hour), false, "empty access token"},
		{"valid_token", time.Now().Add(-1 * time.Hour), false, "expired token"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			creds := &Credentials{AccessToken: tc.accessToken, ExpiresAt: tc.expiresAt}
			if result := creds.IsValid(); result != tc.expect {
				t.Errorf("Expected IsValid=%v, got %v", tc.expect, result)
			}
		})
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u1",
		"exp":     exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// TestTokenExpiry validates the exp claim is read without a key
func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	got, ok := TokenExpiry(signedToken(t, exp))
	if !ok {
		t.Fatal("Expected expiry to be parsed")
	}
	if !got.Equal(exp) {
		t.Errorf("Expected %v, got %v", exp, got)
	}

	if _, ok := TokenExpiry("not-a-jwt"); ok {
		t.Error("Opaque tokens should not yield an expiry")
	}
	if _, ok := TokenExpiry(""); ok {
		t.Error("Empty token should not yield an expiry")
	}
}

// TestSaveAndLoadRoundTrip validates persisted credentials and permissions
func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials")
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)

	creds := &Credentials{AccessToken: signedToken(t, exp), RefreshToken: "r1", Username: "alice"}
	if err := SaveTo(path, creds); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected 0600 permissions, got %v", info.Mode().Perm())
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Username != "alice" || loaded.RefreshToken != "r1" {
		t.Errorf("Unexpected credentials: %+v", loaded)
	}
	if !loaded.ExpiresAt.Equal(exp) {
		t.Errorf("Expiry should come from the JWT, got %v", loaded.ExpiresAt)
	}
}

// TestLoadFromMissingFile returns nil without error
func TestLoadFromMissingFile(t *testing.T) {
	creds, err := LoadFrom(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if creds != nil {
		t.Error("Expected nil credentials for missing file")
	}
}

// TestFileProviderReadsFreshToken validates the token is re-read per call
func TestFileProviderReadsFreshToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials")
	provider := NewFileProvider(path)

	if got := provider.Token(); got != "" {
		t.Errorf("Expected empty token before login, got %q", got)
	}

	if err := SaveTo(path, &Credentials{AccessToken: "abc"}); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}
	if got := provider.Token(); got != "abc" {
		t.Errorf("Expected abc, got %q", got)
	}

	if err := SaveTo(path, &Credentials{AccessToken: "def"}); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}
	if got := provider.Token(); got != "def" {
		t.Errorf("Expected refreshed token def, got %q", got)
	}
}

// TestStaticAndFuncProviders validates the simple providers
func TestStaticAndFuncProviders(t *testing.T) {
	var p Provider = Static("abc")
	if p.Token() != "abc" {
		t.Error("Static provider should return its value")
	}
	if Static("").Token() != "" {
		t.Error("Zero Static provider should return empty token")
	}

	p = ProviderFunc(func() string { return "xyz" })
	if p.Token() != "xyz" {
		t.Error("ProviderFunc should return the function result")
	}
}

// TestMemoryProviderConcurrent validates Set/Token under concurrency
func TestMemoryProviderConcurrent(t *testing.T) {
	m := NewMemory("start")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.Set("next")
		}()
		go func() {
			defer wg.Done()
			_ = m.Token()
		}()
	}
	wg.Wait()

	if m.Token() != "next" {
		t.Errorf("Expected next, got %q", m.Token())
	}
	m.Clear()
	if m.Token() != "" {
		t.Error("Clear should remove the token")
	}
}
