package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowdeck/flowdeck/internal/gateway"
	"github.com/flowdeck/flowdeck/internal/graph"
)

var (
	workflowNamespace string
	workflowSearch    string
	workflowPage      int
	workflowLimit     int
	workflowGraph     bool
	workflowByName    bool
)

var workflowCmd = &cobra.Command{
	Use:     "workflow",
	Aliases: []string{"wf"},
	Short:   "Inspect deployed workflows",
}

var workflowListCmd = &cobra.Command{
	Use:   "list",
	Short: "List deployed workflows",
	Long: `List workflows deployed to the platform.

The --search filter is applied client side on workflow names, the way
the console list screen filters in memory.

Examples:
  flowdeck workflow list
  flowdeck workflow list --namespace reports --search daily`,
	RunE: runWorkflowList,
}

var workflowShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one workflow",
	Long: `Show a workflow by ID, or by name with --by-name.

With --graph the trigger/action chain is rendered as a tree.`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkflowShow,
}

var workflowVersionsCmd = &cobra.Command{
	Use:   "versions <name>",
	Short: "List deployed versions of a workflow",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkflowVersions,
}

var workflowNamespacesCmd = &cobra.Command{
	Use:   "namespaces",
	Short: "List workflow namespaces",
	RunE:  runWorkflowNamespaces,
}

var workflowDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Deactivate a workflow",
	Long: `Mark a workflow inactive so it stops accepting new executions.
Running executions are not affected.`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkflowDeactivate,
}

func init() {
	workflowListCmd.Flags().StringVar(&workflowNamespace, "namespace", "", "Filter by namespace")
	workflowListCmd.Flags().StringVar(&workflowSearch, "search", "", "Filter by name substring (client side)")
	workflowListCmd.Flags().IntVar(&workflowPage, "page", 1, "Page number")
	workflowListCmd.Flags().IntVar(&workflowLimit, "limit", 20, "Page size")

	workflowShowCmd.Flags().BoolVar(&workflowGraph, "graph", false, "Render the workflow tree")
	workflowShowCmd.Flags().BoolVar(&workflowByName, "by-name", false, "Look up by name instead of ID")

	workflowCmd.AddCommand(workflowListCmd)
	workflowCmd.AddCommand(workflowShowCmd)
	workflowCmd.AddCommand(workflowVersionsCmd)
	workflowCmd.AddCommand(workflowNamespacesCmd)
	workflowCmd.AddCommand(workflowDeactivateCmd)
	rootCmd.AddCommand(workflowCmd)
}

func runWorkflowList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	list, err := a.client.ListWorkflows(cmd.Context(), gateway.WorkflowListParams{
		Page:      workflowPage,
		Limit:     workflowLimit,
		Namespace: workflowNamespace,
		Name:      workflowSearch,
	})
	if err != nil {
		return a.wrap(err, "listing workflows")
	}

	workflows := filterWorkflows(list.Workflows, workflowSearch)

	if a.structured() {
		return a.print(workflows)
	}

	if len(workflows) == 0 {
		return a.print("No workflows found")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-28s %-14s %-10s %-10s %s\n", "NAME", "NAMESPACE", "STATUS", "TRIGGER", "DEPLOYED")
	for _, wf := range workflows {
		fmt.Fprintf(&b, "%-28s %-14s %-10s %-10s %s\n",
			wf.Name, wf.Namespace, wf.Status, wf.TriggerType,
			wf.DeployedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(&b, "\n%d of %d workflows", len(workflows), list.Total)
	return a.print(b.String())
}

// filterWorkflows applies the client-side name filter
func filterWorkflows(workflows []gateway.Workflow, search string) []gateway.Workflow {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return workflows
	}
	var out []gateway.Workflow
	for _, wf := range workflows {
		if strings.Contains(strings.ToLower(wf.Name), needle) {
			out = append(out, wf)
		}
	}
	return out
}

func runWorkflowShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	var wf *gateway.Workflow
	if workflowByName {
		wf, err = a.client.GetWorkflowByName(cmd.Context(), args[0])
	} else {
		wf, err = a.client.GetWorkflow(cmd.Context(), args[0])
	}
	if err != nil {
		return a.wrap(err, "fetching workflow")
	}

	if workflowGraph && !a.structured() {
		styles := graph.DefaultStyles()
		if a.cmdCtx.NoColor || !a.cfg.Display.Colors {
			styles = graph.PlainStyles()
		}
		tree := graph.NewRenderer(styles).Render(graph.FromWorkflow(wf))
		return a.print(wf.Name + "\n\n" + tree)
	}

	if a.structured() {
		return a.print(wf)
	}
	return a.print(describeWorkflow(wf))
}

func describeWorkflow(wf *gateway.Workflow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", wf.Name)
	fmt.Fprintf(&b, "ID:         %s\n", wf.ID)
	fmt.Fprintf(&b, "Namespace:  %s\n", wf.Namespace)
	fmt.Fprintf(&b, "Task queue: %s\n", wf.TaskQueue)
	fmt.Fprintf(&b, "Version:    %s\n", wf.Version)
	fmt.Fprintf(&b, "Status:     %s\n", wf.Status)
	fmt.Fprintf(&b, "Trigger:    %s\n", wf.TriggerType)
	fmt.Fprintf(&b, "Deployed:   %s", wf.DeployedAt.Local().Format(time.RFC822))
	if wf.LastRun != nil {
		fmt.Fprintf(&b, "\nLast run:   %s", wf.LastRun.Local().Format(time.RFC822))
	}
	return b.String()
}

func runWorkflowVersions(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	versions, err := a.client.GetWorkflowVersions(cmd.Context(), args[0])
	if err != nil {
		return a.wrap(err, "fetching versions")
	}

	if a.structured() {
		return a.print(versions)
	}

	if len(versions) == 0 {
		return a.print("No versions found")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-20s %-10s %s\n", "VERSION", "STATUS", "DEPLOYED")
	for _, v := range versions {
		fmt.Fprintf(&b, "%-20s %-10s %s\n",
			v.Version, v.Status, v.DeployedAt.Local().Format("2006-01-02 15:04"))
	}
	return a.print(strings.TrimRight(b.String(), "\n"))
}

func runWorkflowNamespaces(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	namespaces, err := a.client.GetNamespaces(cmd.Context())
	if err != nil {
		return a.wrap(err, "fetching namespaces")
	}

	if a.structured() {
		return a.print(namespaces)
	}
	if len(namespaces) == 0 {
		return a.print("No namespaces found")
	}
	return a.print(strings.Join(namespaces, "\n"))
}

func runWorkflowDeactivate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	wf, err := a.client.DeactivateWorkflow(cmd.Context(), args[0])
	if err != nil {
		return a.wrap(err, "deactivating workflow")
	}

	if a.structured() {
		return a.print(wf)
	}
	return a.print(fmt.Sprintf("Workflow %s is now %s", wf.Name, wf.Status))
}
