package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/flowdeck/flowdeck/internal/gateway"
	"github.com/flowdeck/flowdeck/internal/tui"
)

var (
	authEmail    string
	authPassword string
	authName     string
	authTenant   string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage your session",
	Long: `Log in, register, and inspect the stored session.

The session (token, user, workspace) is persisted at ~/.flowdeck/session.json
and survives restarts. Commands attach the stored token automatically.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the platform",
	Long: `Authenticate against the API gateway and store the session.

Credentials can be passed with flags; missing fields are prompted
interactively.

Examples:
  # Interactive login
  flowdeck auth login

  # Non-interactive login
  flowdeck auth login --email user@example.com --password <password>`,
	RunE: runAuthLogin,
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long: `Register a new account, optionally creating a workspace.

Examples:
  flowdeck auth register
  flowdeck auth register --email user@example.com --name "User" --tenant-name "Acme"`,
	RunE: runAuthRegister,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the stored session",
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored session",
	RunE:  runAuthStatus,
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the identity the gateway sees",
	Long: `Ask the gateway who the stored token belongs to. Unlike 'auth status'
this performs a live request, so an invalidated token is detected here.`,
	RunE: runAuthWhoami,
}

func init() {
	authLoginCmd.Flags().StringVar(&authEmail, "email", "", "Account email")
	authLoginCmd.Flags().StringVar(&authPassword, "password", "", "Account password")

	authRegisterCmd.Flags().StringVar(&authEmail, "email", "", "Account email")
	authRegisterCmd.Flags().StringVar(&authPassword, "password", "", "Account password")
	authRegisterCmd.Flags().StringVar(&authName, "name", "", "Display name")
	authRegisterCmd.Flags().StringVar(&authTenant, "tenant-name", "", "Workspace to create (optional)")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authWhoamiCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	in := tui.LoginInput{Email: authEmail, Password: authPassword}
	if in.Email == "" || in.Password == "" {
		in, err = tui.RunLoginForm(in)
		if err != nil {
			return err
		}
	}

	result, err := a.client.Login(cmd.Context(), in.Email, in.Password)
	if err != nil {
		return a.wrap(err, "login")
	}

	if err := a.store.SetAuth(result.Token, result.User, result.Tenant, result.IsMaster); err != nil {
		return err
	}

	if a.structured() {
		return a.print(result.User)
	}
	return a.print(fmt.Sprintf("Logged in as %s (%s)", result.User.Name, result.User.Email))
}

func runAuthRegister(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	in := tui.RegisterInput{
		Email:      authEmail,
		Password:   authPassword,
		Name:       authName,
		TenantName: authTenant,
	}
	if in.Email == "" || in.Password == "" || in.Name == "" {
		in, err = tui.RunRegisterForm(in)
		if err != nil {
			return err
		}
	}
	if err := tui.ValidatePassword(in.Password); err != nil {
		return ValidationError("password", strings.Repeat("*", len(in.Password)), err.Error())
	}

	result, err := a.client.Register(cmd.Context(), gateway.RegisterRequest{
		Email:      in.Email,
		Password:   in.Password,
		Name:       in.Name,
		TenantName: in.TenantName,
	})
	if err != nil {
		return a.wrap(err, "register")
	}

	if err := a.store.SetAuth(result.Token, result.User, result.Tenant, result.IsMaster); err != nil {
		return err
	}

	if a.structured() {
		return a.print(result.User)
	}
	msg := fmt.Sprintf("Account created for %s", result.User.Email)
	if result.Tenant != nil {
		msg += fmt.Sprintf(", workspace %q", result.Tenant.Name)
	}
	return a.print(msg)
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	if !a.store.IsAuthenticated() {
		return a.print("Not logged in")
	}

	// Best effort: the local session is cleared even when the gateway
	// call fails.
	if err := a.client.Logout(cmd.Context()); err != nil {
		cmd.PrintErrf("Warning: gateway logout failed: %v\n", err)
	}

	if err := a.store.ClearAuth(); err != nil {
		return err
	}
	return a.print("Logged out")
}

// sessionStatus is the auth status payload
type sessionStatus struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
	Role          string `json:"role,omitempty"`
	Workspace     string `json:"workspace,omitempty"`
	IsMaster      bool   `json:"isMaster,omitempty"`
	TokenExpiry   string `json:"tokenExpiry,omitempty"`
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	current := a.store.Current()
	status := sessionStatus{Authenticated: current.IsAuthenticated}

	if current.IsAuthenticated {
		if current.User != nil {
			status.Email = current.User.Email
			status.Name = current.User.Name
			status.Role = string(current.User.Role)
		}
		if current.Tenant != nil {
			status.Workspace = current.Tenant.Name
		}
		status.IsMaster = current.IsMaster
		status.TokenExpiry = tokenExpiry(current.Token)
	}

	if a.structured() {
		return a.print(status)
	}

	if !status.Authenticated {
		return a.print("Not logged in")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Logged in as %s (%s)\n", status.Name, status.Email)
	fmt.Fprintf(&b, "Role:      %s\n", status.Role)
	if status.Workspace != "" {
		fmt.Fprintf(&b, "Workspace: %s\n", status.Workspace)
	}
	if status.IsMaster {
		b.WriteString("Master account\n")
	}
	if status.TokenExpiry != "" {
		fmt.Fprintf(&b, "Token expires: %s", status.TokenExpiry)
	}
	return a.print(strings.TrimRight(b.String(), "\n"))
}

// tokenExpiry extracts the exp claim for display. The token is not
// verified here, the gateway is the authority.
func tokenExpiry(token string) string {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return ""
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return ""
	}
	if time.Now().After(exp.Time) {
		return fmt.Sprintf("%s (expired)", exp.Time.Local().Format(time.RFC822))
	}
	return exp.Time.Local().Format(time.RFC822)
}

func runAuthWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	identity, err := a.client.Me(cmd.Context())
	if err != nil {
		return a.wrap(err, "whoami")
	}

	if a.structured() {
		return a.print(identity)
	}

	line := fmt.Sprintf("%s (%s), role %s", identity.User.Name, identity.User.Email, identity.User.Role)
	if identity.Tenant != nil {
		line += fmt.Sprintf(", workspace %s", identity.Tenant.Name)
	}
	return a.print(line)
}
