package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var apikeyName string

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage API keys",
	Long: `Manage the API keys workers and integrations use to authenticate.

The secret is returned once at creation and can be re-fetched with
'apikey secret'.`,
}

var apikeyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List API keys",
	RunE:  runAPIKeyList,
}

var apikeyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an API key",
	RunE:  runAPIKeyCreate,
}

var apikeyDeleteCmd = &cobra.Command{
	Use:   "delete <key-id>",
	Short: "Delete an API key",
	Args:  cobra.ExactArgs(1),
	RunE:  runAPIKeyDelete,
}

var apikeySecretCmd = &cobra.Command{
	Use:   "secret <key-id>",
	Short: "Reveal the secret of an API key",
	Args:  cobra.ExactArgs(1),
	RunE:  runAPIKeySecret,
}

func init() {
	apikeyCreateCmd.Flags().StringVar(&apikeyName, "name", "", "Key name")
	_ = apikeyCreateCmd.MarkFlagRequired("name")

	apikeyCmd.AddCommand(apikeyListCmd)
	apikeyCmd.AddCommand(apikeyCreateCmd)
	apikeyCmd.AddCommand(apikeyDeleteCmd)
	apikeyCmd.AddCommand(apikeySecretCmd)
	rootCmd.AddCommand(apikeyCmd)
}

func runAPIKeyList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	keys, err := a.client.ListAPIKeys(cmd.Context())
	if err != nil {
		return a.wrap(err, "listing API keys")
	}

	if a.structured() {
		return a.print(keys)
	}

	if len(keys) == 0 {
		return a.print("No API keys")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-26s %-20s %-20s %s\n", "ID", "NAME", "KEY", "LAST USED")
	for _, k := range keys {
		lastUsed := "never"
		if k.LastUsedAt != nil {
			lastUsed = k.LastUsedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(&b, "%-26s %-20s %-20s %s\n", k.ID, k.Name, k.APIKey, lastUsed)
	}
	return a.print(strings.TrimRight(b.String(), "\n"))
}

func runAPIKeyCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	key, err := a.client.CreateAPIKey(cmd.Context(), apikeyName)
	if err != nil {
		return a.wrap(err, "creating API key")
	}

	if a.structured() {
		return a.print(key)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "API key %q created\n", key.Name)
	fmt.Fprintf(&b, "Key:    %s\n", key.APIKey)
	if key.SecretKey != "" {
		fmt.Fprintf(&b, "Secret: %s\n", key.SecretKey)
	}
	fmt.Fprintf(&b, "\nCreated %s", key.CreatedAt.Local().Format(time.RFC822))
	return a.print(strings.TrimRight(b.String(), "\n"))
}

func runAPIKeyDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	if err := a.client.DeleteAPIKey(cmd.Context(), args[0]); err != nil {
		return a.wrap(err, "deleting API key")
	}
	return a.print("API key deleted")
}

func runAPIKeySecret(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	secret, err := a.client.GetAPIKeySecret(cmd.Context(), args[0])
	if err != nil {
		return a.wrap(err, "fetching secret")
	}
	return a.print(secret)
}
