package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowdeck/flowdeck/internal/gateway"
	"github.com/flowdeck/flowdeck/internal/tui"
)

var (
	hitlStatus  string
	hitlPage    int
	hitlLimit   int
	hitlComment string
	hitlYes     bool
)

var hitlCmd = &cobra.Command{
	Use:   "hitl",
	Short: "Work the human approval inbox",
	Long: `Review and decide human-in-the-loop approval tasks.

Workflows that pause for human approval create tasks here. Tasks expire;
deciding an expired task fails with the backend's error.`,
}

var hitlListCmd = &cobra.Command{
	Use:   "list",
	Short: "List approval tasks",
	RunE:  runHitlList,
}

var hitlPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List tasks awaiting a decision",
	RunE:  runHitlPending,
}

var hitlStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show inbox counters by status",
	RunE:  runHitlStats,
}

var hitlShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show one approval task",
	Args:  cobra.ExactArgs(1),
	RunE:  runHitlShow,
}

var hitlApproveCmd = &cobra.Command{
	Use:   "approve <task-id>",
	Short: "Approve a pending task",
	Long: `Approve a pending task.

Without --yes a confirmation form runs first.

Examples:
  flowdeck hitl approve task-1 --comment "within budget" --yes`,
	Args: cobra.ExactArgs(1),
	RunE: makeDecisionRunner(gateway.DecisionApprove),
}

var hitlRejectCmd = &cobra.Command{
	Use:   "reject <task-id>",
	Short: "Reject a pending task",
	Args:  cobra.ExactArgs(1),
	RunE:  makeDecisionRunner(gateway.DecisionReject),
}

var hitlInboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "Open the interactive approval inbox",
	Long: `Open the full-screen approval inbox with pending/completed tabs,
search, and inline approve/reject.`,
	RunE: runHitlInbox,
}

func init() {
	hitlListCmd.Flags().StringVar(&hitlStatus, "status", "", "Filter by status: pending, approved, rejected, expired")
	hitlListCmd.Flags().IntVar(&hitlPage, "page", 1, "Page number")
	hitlListCmd.Flags().IntVar(&hitlLimit, "limit", 20, "Page size")

	hitlPendingCmd.Flags().IntVar(&hitlPage, "page", 1, "Page number")
	hitlPendingCmd.Flags().IntVar(&hitlLimit, "limit", 20, "Page size")

	for _, c := range []*cobra.Command{hitlApproveCmd, hitlRejectCmd} {
		c.Flags().StringVar(&hitlComment, "comment", "", "Decision comment")
		c.Flags().BoolVar(&hitlYes, "yes", false, "Skip the confirmation prompt")
	}

	hitlCmd.AddCommand(hitlListCmd)
	hitlCmd.AddCommand(hitlPendingCmd)
	hitlCmd.AddCommand(hitlStatsCmd)
	hitlCmd.AddCommand(hitlShowCmd)
	hitlCmd.AddCommand(hitlApproveCmd)
	hitlCmd.AddCommand(hitlRejectCmd)
	hitlCmd.AddCommand(hitlInboxCmd)
	rootCmd.AddCommand(hitlCmd)
}

func runHitlList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	list, err := a.client.ListTasks(cmd.Context(), gateway.TaskListParams{
		Page:   hitlPage,
		Limit:  hitlLimit,
		Status: hitlStatus,
	})
	if err != nil {
		return a.wrap(err, "listing tasks")
	}
	return printTaskList(a, list)
}

func runHitlPending(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	list, err := a.client.ListPendingTasks(cmd.Context(), hitlPage, hitlLimit)
	if err != nil {
		return a.wrap(err, "listing pending tasks")
	}
	return printTaskList(a, list)
}

func printTaskList(a *app, list *gateway.TaskList) error {
	if a.structured() {
		return a.print(list)
	}

	if len(list.Tasks) == 0 {
		return a.print("No tasks")
	}

	now := time.Now()
	var b strings.Builder
	fmt.Fprintf(&b, "%-10s %-30s %-26s %-10s %s\n", "ID", "TITLE", "WORKFLOW", "STATUS", "EXPIRES")
	for _, t := range list.Tasks {
		expires := "-"
		if t.Pending() {
			if remaining := t.TimeRemaining(now); remaining > 0 {
				expires = remaining.Truncate(time.Minute).String()
			} else {
				expires = "expired"
			}
		}
		fmt.Fprintf(&b, "%-10s %-30s %-26s %-10s %s\n",
			t.ID, t.Title, t.WorkflowID, t.Status, expires)
	}
	if list.Pagination.Total > len(list.Tasks) {
		fmt.Fprintf(&b, "\n%d of %d tasks", len(list.Tasks), list.Pagination.Total)
	}
	return a.print(strings.TrimRight(b.String(), "\n"))
}

func runHitlStats(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	stats, err := a.client.GetTaskStats(cmd.Context())
	if err != nil {
		return a.wrap(err, "fetching task stats")
	}

	if a.structured() {
		return a.print(stats)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Pending:  %d\n", stats.Pending)
	fmt.Fprintf(&b, "Approved: %d\n", stats.Approved)
	fmt.Fprintf(&b, "Rejected: %d\n", stats.Rejected)
	fmt.Fprintf(&b, "Expired:  %d\n", stats.Expired)
	fmt.Fprintf(&b, "Total:    %d", stats.Total)
	return a.print(b.String())
}

func runHitlShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	task, err := a.client.GetTask(cmd.Context(), args[0])
	if err != nil {
		return a.wrap(err, "fetching task")
	}

	if a.structured() {
		return a.print(task)
	}
	return a.print(describeTask(task))
}

func describeTask(t *gateway.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", t.Title)
	if t.Description != "" {
		fmt.Fprintf(&b, "%s\n", t.Description)
	}
	fmt.Fprintf(&b, "\nWorkflow: %s\n", t.WorkflowID)
	fmt.Fprintf(&b, "Run ID:   %s\n", t.WorkflowRunID)
	fmt.Fprintf(&b, "Status:   %s\n", t.Status)
	fmt.Fprintf(&b, "Created:  %s\n", t.CreatedAt.Local().Format(time.RFC822))
	if t.Pending() {
		if remaining := t.TimeRemaining(time.Now()); remaining > 0 {
			fmt.Fprintf(&b, "Expires:  in %s\n", remaining.Truncate(time.Minute))
		} else {
			b.WriteString("Expires:  expired\n")
		}
	}
	if len(t.Data) > 0 {
		if pretty, err := json.MarshalIndent(t.Data, "", "  "); err == nil {
			fmt.Fprintf(&b, "\nData:\n%s\n", pretty)
		}
	}
	if t.Decision != nil {
		fmt.Fprintf(&b, "\nDecision: %s", t.Decision.Action)
		if t.Decision.Comment != "" {
			fmt.Fprintf(&b, " (%s)", t.Decision.Comment)
		}
		if t.Decision.DecidedAt != nil {
			fmt.Fprintf(&b, " at %s", t.Decision.DecidedAt.Local().Format(time.RFC822))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func makeDecisionRunner(action string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := a.requireAuth(); err != nil {
			return err
		}

		taskID := args[0]
		comment := hitlComment

		if !hitlYes {
			task, err := a.client.GetTask(cmd.Context(), taskID)
			if err != nil {
				return a.wrap(err, "fetching task")
			}

			formComment, confirmed, err := tui.RunDecisionForm(action, task.Title)
			if err != nil {
				return err
			}
			if !confirmed {
				return a.print("Cancelled")
			}
			if comment == "" {
				comment = formComment
			}
		}

		task, err := a.client.DecideTask(cmd.Context(), taskID, action, comment)
		if err != nil {
			return a.wrap(err, "deciding task")
		}

		if a.structured() {
			return a.print(task)
		}
		return a.print(fmt.Sprintf("Task %q is now %s", task.Title, task.Status))
	}
}

func runHitlInbox(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	return tui.RunInbox(cmd.Context(), a.client)
}
