package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowdeck/flowdeck/internal/gateway"
	"github.com/flowdeck/flowdeck/internal/log"
)

const dashboardRecentLimit = 5

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the workspace overview",
	Long: `Show a one-screen overview: who you are, workspace activity
counters, and the most recent executions.

Sections that fail to load render empty rather than failing the whole
overview.`,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

// dashboardData is the structured dashboard payload
type dashboardData struct {
	User       string                  `json:"user,omitempty"`
	Workspace  string                  `json:"workspace,omitempty"`
	Stats      *gateway.WorkspaceStats `json:"stats,omitempty"`
	Executions []gateway.Execution     `json:"recentExecutions"`
}

func runDashboard(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	logger := log.DefaultLogger()
	data := dashboardData{}

	current := a.store.Current()
	if current.User != nil {
		data.User = current.User.Name
	}
	if current.Tenant != nil {
		data.Workspace = current.Tenant.Name
	}

	// Each section degrades independently.
	stats, err := a.client.GetTenantStats(cmd.Context())
	if err != nil {
		logger.WithError(err).Warn("dashboard stats unavailable")
	} else {
		data.Stats = stats
	}

	executions, err := a.client.ListExecutions(cmd.Context(), gateway.ExecutionListParams{
		PageSize: dashboardRecentLimit,
	})
	if err != nil {
		logger.WithError(err).Warn("dashboard executions unavailable")
	} else {
		data.Executions = executions.Executions
	}

	if a.structured() {
		return a.print(data)
	}

	var b strings.Builder
	if data.User != "" {
		fmt.Fprintf(&b, "Welcome back, %s", data.User)
		if data.Workspace != "" {
			fmt.Fprintf(&b, " (%s)", data.Workspace)
		}
		b.WriteString("\n\n")
	}

	if data.Stats != nil {
		fmt.Fprintf(&b, "Active workflows:  %d\n", data.Stats.ActiveWorkflows)
		fmt.Fprintf(&b, "Pending approvals: %d\n", data.Stats.PendingApprovals)
		fmt.Fprintf(&b, "Executions today:  %d\n", data.Stats.ExecutionsToday)
		fmt.Fprintf(&b, "Members:           %d\n\n", data.Stats.Members)
	}

	b.WriteString("Recent executions\n")
	if len(data.Executions) == 0 {
		b.WriteString("  none")
	} else {
		for _, e := range data.Executions {
			fmt.Fprintf(&b, "  %-28s %-12s %s\n",
				e.WorkflowID, e.Status, e.StartTime.Local().Format("2006-01-02 15:04"))
		}
	}
	return a.print(strings.TrimRight(b.String(), "\n"))
}
