package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowdeck/flowdeck/internal/tui"
)

var (
	settingsName            string
	settingsEmail           string
	settingsCurrentPassword string
	settingsNewPassword     string
	settingsConfirmPassword string
	settingsConfirmPhrase   string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage your account",
}

var settingsProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update your profile",
	Long: `Show the account profile. Pass --name or --email to update it.

Examples:
  flowdeck settings profile
  flowdeck settings profile --name "New Name"`,
	RunE: runSettingsProfile,
}

var settingsPasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change your password",
	Long: `Change the account password.

The new password and its confirmation are validated locally before
anything is sent: they must match and meet the minimum length.`,
	RunE: runSettingsPassword,
}

var settingsPreferencesCmd = &cobra.Command{
	Use:   "preferences",
	Short: "Show your account preferences",
	RunE:  runSettingsPreferences,
}

var settingsDeleteAccountCmd = &cobra.Command{
	Use:   "delete-account",
	Short: "Permanently delete your account",
	Long: `Permanently delete the account and its data.

Requires typing the confirmation phrase with --confirm DELETE.`,
	RunE: runSettingsDeleteAccount,
}

func init() {
	settingsProfileCmd.Flags().StringVar(&settingsName, "name", "", "New display name")
	settingsProfileCmd.Flags().StringVar(&settingsEmail, "email", "", "New email")

	settingsPasswordCmd.Flags().StringVar(&settingsCurrentPassword, "current", "", "Current password")
	settingsPasswordCmd.Flags().StringVar(&settingsNewPassword, "new", "", "New password")
	settingsPasswordCmd.Flags().StringVar(&settingsConfirmPassword, "confirm", "", "New password again")

	settingsDeleteAccountCmd.Flags().StringVar(&settingsConfirmPhrase, "confirm", "", `Type DELETE to confirm`)

	settingsCmd.AddCommand(settingsProfileCmd)
	settingsCmd.AddCommand(settingsPasswordCmd)
	settingsCmd.AddCommand(settingsPreferencesCmd)
	settingsCmd.AddCommand(settingsDeleteAccountCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsProfile(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	if settingsName != "" || settingsEmail != "" {
		profile, err := a.client.UpdateProfile(cmd.Context(), settingsName, settingsEmail)
		if err != nil {
			return a.wrap(err, "updating profile")
		}
		if a.structured() {
			return a.print(profile)
		}
		return a.print(fmt.Sprintf("Profile updated: %s (%s)", profile.Name, profile.Email))
	}

	profile, err := a.client.GetProfile(cmd.Context())
	if err != nil {
		return a.wrap(err, "fetching profile")
	}

	if a.structured() {
		return a.print(profile)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", profile.Name)
	fmt.Fprintf(&b, "Email:  %s\n", profile.Email)
	fmt.Fprintf(&b, "Role:   %s\n", profile.Role)
	fmt.Fprintf(&b, "Since:  %s", profile.CreatedAt.Local().Format(time.RFC822))
	return a.print(b.String())
}

func runSettingsPreferences(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	prefs, err := a.client.GetPreferences(cmd.Context())
	if err != nil {
		return a.wrap(err, "fetching preferences")
	}

	if a.structured() {
		return a.print(prefs)
	}

	if len(prefs) == 0 {
		return a.print("No preferences set")
	}

	keys := make([]string, 0, len(prefs))
	for k := range prefs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s: %v", k, prefs[k])
	}
	return a.print(b.String())
}

// validatePasswordChange runs the local checks before anything is sent
// to the gateway: confirmation must match and the new password must meet
// the minimum length.
func validatePasswordChange(current, newPass, confirm string) error {
	if current == "" {
		return ValidationError("--current", "(empty)", "your current password")
	}
	if newPass != confirm {
		return NewErrorWithSuggestions(
			"New password and confirmation do not match",
			nil,
			"Re-enter the same value for --new and --confirm",
		)
	}
	if err := tui.ValidatePassword(newPass); err != nil {
		return NewErrorWithSuggestions(err.Error(), nil, "Pick a longer password")
	}
	return nil
}

func runSettingsPassword(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	if err := validatePasswordChange(settingsCurrentPassword, settingsNewPassword, settingsConfirmPassword); err != nil {
		return err
	}

	if err := a.client.ChangePassword(cmd.Context(), settingsCurrentPassword, settingsNewPassword); err != nil {
		return a.wrap(err, "changing password")
	}
	return a.print("Password changed")
}

func runSettingsDeleteAccount(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	if settingsConfirmPhrase != "DELETE" {
		return NewErrorWithSuggestions(
			"Account deletion requires explicit confirmation",
			nil,
			"Run again with --confirm DELETE",
		)
	}

	if err := a.client.DeleteAccount(cmd.Context()); err != nil {
		return a.wrap(err, "deleting account")
	}

	if err := a.store.ClearAuth(); err != nil {
		return err
	}
	return a.print("Account deleted")
}
