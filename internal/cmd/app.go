package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowdeck/flowdeck/internal/config"
	"github.com/flowdeck/flowdeck/internal/gateway"
	"github.com/flowdeck/flowdeck/internal/log"
	"github.com/flowdeck/flowdeck/internal/session"
	"github.com/flowdeck/flowdeck/internal/ux"
)

// app bundles the wired dependencies every command needs: configuration,
// the durable session store and the gateway client.
type app struct {
	cmdCtx *CommandContext
	cfg    *config.Config
	store  *session.Store
	client *gateway.Client
}

// newApp loads configuration, restores the session store and builds the
// gateway client with the scoped 401 policy.
func newApp(cmd *cobra.Command) (*app, error) {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to create command context: %w", err)
	}

	cfg, err := config.Load(cmdCtx.ConfigPath)
	if err != nil {
		return nil, err
	}

	store := session.NewStore(session.NewFileStorage(cfg.Session.Path))

	apiURL := cfg.API.URL
	if cmdCtx.APIURL != "" {
		apiURL = cmdCtx.APIURL
	}

	client := gateway.NewClient(apiURL, store,
		gateway.WithUnauthorizedPolicy(gateway.ScopedLogoutPolicy{Sessions: store}),
		gateway.WithTimeout(time.Duration(cfg.API.Timeout)*time.Second),
		gateway.WithLogger(log.DefaultLogger()),
	)

	return &app{
		cmdCtx: cmdCtx,
		cfg:    cfg,
		store:  store,
		client: client,
	}, nil
}

// requireAuth returns an error when no authenticated session is stored.
func (a *app) requireAuth() error {
	if !a.store.IsAuthenticated() {
		return NotLoggedInError()
	}
	return nil
}

// format resolves the output format: flag first, then config.
func (a *app) format() string {
	if a.cmdCtx.Format != "" {
		return a.cmdCtx.Format
	}
	return a.cfg.Display.Format
}

// structured reports whether output goes through a JSON/YAML formatter.
func (a *app) structured() bool {
	f := a.format()
	return f == "json" || f == "yaml"
}

// print writes data through the configured formatter.
func (a *app) print(data interface{}) error {
	formatter, err := ux.NewFormatter(a.format(), &ux.FormatterOptions{
		Writer:  os.Stdout,
		NoColor: a.cmdCtx.NoColor || !a.cfg.Display.Colors,
	})
	if err != nil {
		return err
	}
	return formatter.Format(data)
}

// wrap enhances an operation error with recovery suggestions. A 401 that
// cleared the session becomes the dedicated error so the exit code and
// next steps are right; a transport failure points at the gateway URL.
func (a *app) wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	if gateway.SessionWasCleared(err) {
		return SessionClearedError()
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && !urlErr.Timeout() {
		return GatewayUnreachableError(a.client.BaseURL, err)
	}
	return ux.FormatError(err, context)
}
