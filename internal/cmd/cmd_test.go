package cmd

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/flowdeck/flowdeck/internal/gateway"
)

// TestRootSubcommands tests that all command groups are registered
func TestRootSubcommands(t *testing.T) {
	groups := map[string]bool{
		"auth":      false,
		"dashboard": false,
		"workflow":  false,
		"execution": false,
		"hitl":      false,
		"tenant":    false,
		"apikey":    false,
		"settings":  false,
		"version":   false,
	}

	for _, cmd := range rootCmd.Commands() {
		if _, exists := groups[cmd.Name()]; exists {
			groups[cmd.Name()] = true
		}
	}

	for name, found := range groups {
		if !found {
			t.Errorf("command '%s' not found on root command", name)
		}
	}
}

// TestAuthSubcommands tests that all auth subcommands are registered
func TestAuthSubcommands(t *testing.T) {
	subcommands := map[string]bool{
		"login":    false,
		"register": false,
		"logout":   false,
		"status":   false,
		"whoami":   false,
	}

	for _, cmd := range authCmd.Commands() {
		if _, exists := subcommands[cmd.Name()]; exists {
			subcommands[cmd.Name()] = true
		}
	}

	for name, found := range subcommands {
		if !found {
			t.Errorf("subcommand '%s' not found in auth command", name)
		}
	}
}

// TestHitlSubcommands tests that all hitl subcommands are registered
func TestHitlSubcommands(t *testing.T) {
	subcommands := map[string]bool{
		"list":    false,
		"pending": false,
		"stats":   false,
		"show":    false,
		"approve": false,
		"reject":  false,
		"inbox":   false,
	}

	for _, cmd := range hitlCmd.Commands() {
		if _, exists := subcommands[cmd.Name()]; exists {
			subcommands[cmd.Name()] = true
		}
	}

	for name, found := range subcommands {
		if !found {
			t.Errorf("subcommand '%s' not found in hitl command", name)
		}
	}
}

// TestPersistentFlags tests the global flags on the root command
func TestPersistentFlags(t *testing.T) {
	for _, name := range []string{"format", "verbose", "quiet", "no-color", "api-url", "config", "log-level"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("persistent flag '%s' not found on root command", name)
		}
	}
}

// TestNewCommandContext tests flag extraction
func TestNewCommandContext(t *testing.T) {
	// Merge persistent flags into Flags(); Execute does this in real runs.
	if err := rootCmd.ParseFlags(nil); err != nil {
		t.Fatal(err)
	}
	if err := rootCmd.PersistentFlags().Set("format", "json"); err != nil {
		t.Fatal(err)
	}
	if err := rootCmd.PersistentFlags().Set("api-url", "https://gw.example.com"); err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = rootCmd.PersistentFlags().Set("format", "")
		_ = rootCmd.PersistentFlags().Set("api-url", "")
	}()

	cmdCtx, err := NewCommandContext(rootCmd)
	if err != nil {
		t.Fatalf("NewCommandContext failed: %v", err)
	}

	if cmdCtx.Format != "json" {
		t.Errorf("Expected format 'json', got %q", cmdCtx.Format)
	}
	if cmdCtx.APIURL != "https://gw.example.com" {
		t.Errorf("Expected api-url to be extracted, got %q", cmdCtx.APIURL)
	}
}

// TestErrorWithSuggestion tests suggestion formatting
func TestErrorWithSuggestion(t *testing.T) {
	err := NotLoggedInError()

	msg := err.Error()
	if !contains(msg, "not logged in") {
		t.Errorf("Expected message about login state, got %q", msg)
	}
	if !contains(msg, "flowdeck auth login") {
		t.Errorf("Expected login suggestion, got %q", msg)
	}
}

// TestFilterWorkflows tests the client-side name filter
func TestFilterWorkflows(t *testing.T) {
	workflows := []gateway.Workflow{
		{Name: "orderProcessingWorkflow"},
		{Name: "dailyReportGenerator"},
		{Name: "customerOnboarding"},
	}

	tests := []struct {
		search string
		want   int
	}{
		{"", 3},
		{"order", 1},
		{"ORDER", 1},
		{"ing", 2},
		{"nothing-matches", 0},
	}

	for _, tt := range tests {
		got := filterWorkflows(workflows, tt.search)
		if len(got) != tt.want {
			t.Errorf("filterWorkflows(%q): expected %d results, got %d", tt.search, tt.want, len(got))
		}
	}
}

// TestTokenExpiry tests the unverified expiry extraction
func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}

	got := tokenExpiry(signed)
	if got == "" {
		t.Fatal("Expected an expiry string")
	}
	if contains(got, "expired") {
		t.Errorf("Future expiry should not read as expired: %q", got)
	}

	if tokenExpiry("not-a-jwt") != "" {
		t.Error("Malformed token should yield no expiry")
	}
}

// TestTokenExpiryExpired tests the expired marker
func TestTokenExpiryExpired(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}

	got := tokenExpiry(signed)
	if !contains(got, "expired") {
		t.Errorf("Past expiry should read as expired: %q", got)
	}
}

// TestValidatePasswordChange tests the local password checks
func TestValidatePasswordChange(t *testing.T) {
	if err := validatePasswordChange("old-pass", "new-password", "new-password"); err != nil {
		t.Errorf("Valid change rejected: %v", err)
	}
	if err := validatePasswordChange("", "new-password", "new-password"); err == nil {
		t.Error("Missing current password should fail")
	}
	if err := validatePasswordChange("old-pass", "new-password", "different"); err == nil {
		t.Error("Mismatched confirmation should fail")
	}
	if err := validatePasswordChange("old-pass", "short", "short"); err == nil {
		t.Error("Short password should fail")
	}
}

// TestParseJSONArgs tests --args parsing
func TestParseJSONArgs(t *testing.T) {
	args, err := parseJSONArgs(`["pending", 42]`)
	if err != nil {
		t.Fatalf("Valid args rejected: %v", err)
	}
	if len(args) != 2 {
		t.Errorf("Expected 2 args, got %d", len(args))
	}

	if args, err := parseJSONArgs(""); err != nil || args != nil {
		t.Errorf("Empty args should be nil, got %v %v", args, err)
	}

	if _, err := parseJSONArgs("not json"); err == nil {
		t.Error("Invalid JSON should fail")
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

// TestSettingsSubcommands tests that all settings subcommands are registered
func TestSettingsSubcommands(t *testing.T) {
	subcommands := map[string]bool{
		"profile":        false,
		"password":       false,
		"preferences":    false,
		"delete-account": false,
	}

	for _, cmd := range settingsCmd.Commands() {
		if _, exists := subcommands[cmd.Name()]; exists {
			subcommands[cmd.Name()] = true
		}
	}

	for name, found := range subcommands {
		if !found {
			t.Errorf("subcommand '%s' not found in settings command", name)
		}
	}
}

// TestNewAppHonorsConfiguredTimeout tests that api.timeout reaches the
// gateway client
func TestNewAppHonorsConfiguredTimeout(t *testing.T) {
	// Merge persistent flags into Flags(); Execute does this in real runs.
	if err := rootCmd.ParseFlags(nil); err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	content := "api:\n  url: http://127.0.0.1:1\n  timeout: 5\nsession:\n  path: " + filepath.Join(dir, "session.json") + "\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	if err := rootCmd.PersistentFlags().Set("config", cfgPath); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = rootCmd.PersistentFlags().Set("config", "") }()

	a, err := newApp(rootCmd)
	if err != nil {
		t.Fatalf("newApp failed: %v", err)
	}
	if a.client.HTTPClient.Timeout != 5*time.Second {
		t.Errorf("expected 5s client timeout, got %v", a.client.HTTPClient.Timeout)
	}
}

type timeoutError struct{}

func (timeoutError) Error() string { return "context deadline exceeded (Client.Timeout exceeded)" }
func (timeoutError) Timeout() bool { return true }

// TestWrapGatewayUnreachable tests transport failure handling in wrap
func TestWrapGatewayUnreachable(t *testing.T) {
	a := &app{client: gateway.NewClient("http://127.0.0.1:1", nil)}

	refused := &url.Error{Op: "Post", URL: "http://127.0.0.1:1/auth/login", Err: errors.New("connect: connection refused")}
	err := a.wrap(refused, "logging in")
	if !contains(err.Error(), "Cannot reach the API gateway at http://127.0.0.1:1") {
		t.Errorf("expected unreachable-gateway error, got: %v", err)
	}
	if !contains(err.Error(), "--api-url") {
		t.Errorf("expected the api-url suggestion, got: %v", err)
	}

	timedOut := &url.Error{Op: "Get", URL: "http://127.0.0.1:1/workflows", Err: timeoutError{}}
	err = a.wrap(timedOut, "listing workflows")
	if contains(err.Error(), "Cannot reach") {
		t.Errorf("timeouts should not report the gateway as unreachable: %v", err)
	}
	if !contains(err.Error(), "api.timeout") {
		t.Errorf("expected the timeout suggestion, got: %v", err)
	}
}
