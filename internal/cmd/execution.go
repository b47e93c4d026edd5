package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowdeck/flowdeck/internal/gateway"
)

var (
	executionRunID        string
	executionWorkflowID   string
	executionWorkflowType string
	executionStatus       string
	executionNamespace    string
	executionPageSize     int
	executionSignalArgs   string
	executionQueryArgs    string
	executionReason       string
)

var executionCmd = &cobra.Command{
	Use:     "execution",
	Aliases: []string{"exec"},
	Short:   "Inspect and control workflow executions",
}

var executionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List executions",
	Long: `List workflow executions, newest first.

Examples:
  flowdeck execution list
  flowdeck execution list --status Running --type orderProcessingWorkflow`,
	RunE: runExecutionList,
}

var executionShowCmd = &cobra.Command{
	Use:   "show <workflow-id>",
	Short: "Describe one execution",
	Args:  cobra.ExactArgs(1),
	RunE:  runExecutionShow,
}

var executionHistoryCmd = &cobra.Command{
	Use:   "history <workflow-id>",
	Short: "Show the event history of an execution",
	Args:  cobra.ExactArgs(1),
	RunE:  runExecutionHistory,
}

var executionResultCmd = &cobra.Command{
	Use:   "result <workflow-id>",
	Short: "Show the result of a closed execution",
	Args:  cobra.ExactArgs(1),
	RunE:  runExecutionResult,
}

var executionQueryCmd = &cobra.Command{
	Use:   "query <workflow-id> <query-type>",
	Short: "Run a query handler against a running execution",
	Long: `Run a synchronous query against a running execution.

Arguments are passed as a JSON array with --args.

Examples:
  flowdeck execution query order-123 getStatus
  flowdeck execution query order-123 getItems --args '["pending"]'`,
	Args: cobra.ExactArgs(2),
	RunE: runExecutionQuery,
}

var executionSignalCmd = &cobra.Command{
	Use:   "signal <workflow-id> <signal-name>",
	Short: "Send a signal to a running execution",
	Args:  cobra.ExactArgs(2),
	RunE:  runExecutionSignal,
}

var executionCancelCmd = &cobra.Command{
	Use:   "cancel <workflow-id>",
	Short: "Request cancellation of an execution",
	Long: `Request cooperative cancellation. The workflow decides how to wind
down; use 'terminate' to stop it unconditionally.`,
	Args: cobra.ExactArgs(1),
	RunE: runExecutionCancel,
}

var executionTerminateCmd = &cobra.Command{
	Use:   "terminate <workflow-id>",
	Short: "Forcibly stop an execution",
	Args:  cobra.ExactArgs(1),
	RunE:  runExecutionTerminate,
}

func init() {
	executionCmd.PersistentFlags().StringVar(&executionRunID, "run-id", "", "Target a specific run (default: latest)")

	executionListCmd.Flags().StringVar(&executionWorkflowID, "workflow-id", "", "Filter by workflow ID")
	executionListCmd.Flags().StringVar(&executionWorkflowType, "type", "", "Filter by workflow type")
	executionListCmd.Flags().StringVar(&executionStatus, "status", "", "Filter by status")
	executionListCmd.Flags().StringVar(&executionNamespace, "namespace", "", "Filter by namespace")
	executionListCmd.Flags().IntVar(&executionPageSize, "page-size", 20, "Page size")

	executionQueryCmd.Flags().StringVar(&executionQueryArgs, "args", "", "Query arguments as a JSON array")
	executionSignalCmd.Flags().StringVar(&executionSignalArgs, "args", "", "Signal arguments as a JSON array")
	executionTerminateCmd.Flags().StringVar(&executionReason, "reason", "", "Termination reason")

	executionCmd.AddCommand(executionListCmd)
	executionCmd.AddCommand(executionShowCmd)
	executionCmd.AddCommand(executionHistoryCmd)
	executionCmd.AddCommand(executionResultCmd)
	executionCmd.AddCommand(executionQueryCmd)
	executionCmd.AddCommand(executionSignalCmd)
	executionCmd.AddCommand(executionCancelCmd)
	executionCmd.AddCommand(executionTerminateCmd)
	rootCmd.AddCommand(executionCmd)
}

func runExecutionList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	list, err := a.client.ListExecutions(cmd.Context(), gateway.ExecutionListParams{
		WorkflowID:   executionWorkflowID,
		WorkflowType: executionWorkflowType,
		Status:       executionStatus,
		Namespace:    executionNamespace,
		PageSize:     executionPageSize,
	})
	if err != nil {
		return a.wrap(err, "listing executions")
	}

	if a.structured() {
		return a.print(list)
	}

	if len(list.Executions) == 0 {
		return a.print("No executions found")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-28s %-26s %-12s %s\n", "WORKFLOW ID", "TYPE", "STATUS", "STARTED")
	for _, e := range list.Executions {
		fmt.Fprintf(&b, "%-28s %-26s %-12s %s\n",
			e.WorkflowID, e.WorkflowType, e.Status,
			e.StartTime.Local().Format("2006-01-02 15:04:05"))
	}
	if list.HasMore {
		b.WriteString("\nMore results available, raise --page-size")
	}
	return a.print(strings.TrimRight(b.String(), "\n"))
}

func runExecutionShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	exec, err := a.client.GetExecution(cmd.Context(), args[0], executionRunID)
	if err != nil {
		return a.wrap(err, "fetching execution")
	}

	if a.structured() {
		return a.print(exec)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", exec.WorkflowID)
	fmt.Fprintf(&b, "Run ID:     %s\n", exec.RunID)
	fmt.Fprintf(&b, "Type:       %s\n", exec.WorkflowType)
	fmt.Fprintf(&b, "Status:     %s\n", exec.Status)
	fmt.Fprintf(&b, "Task queue: %s\n", exec.TaskQueue)
	fmt.Fprintf(&b, "Started:    %s", exec.StartTime.Local().Format(time.RFC822))
	if exec.CloseTime != nil {
		fmt.Fprintf(&b, "\nClosed:     %s", exec.CloseTime.Local().Format(time.RFC822))
	}
	if exec.HistoryLength > 0 {
		fmt.Fprintf(&b, "\nEvents:     %d", exec.HistoryLength)
	}
	return a.print(b.String())
}

func runExecutionHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	events, err := a.client.GetExecutionHistory(cmd.Context(), args[0], executionRunID)
	if err != nil {
		return a.wrap(err, "fetching history")
	}

	if a.structured() {
		return a.print(events)
	}

	if len(events) == 0 {
		return a.print("No events")
	}

	var b strings.Builder
	for _, e := range events {
		fmt.Fprintf(&b, "%-6s %s  %s\n",
			e.EventID, e.EventTime.Local().Format("15:04:05"), e.EventType)
	}
	return a.print(strings.TrimRight(b.String(), "\n"))
}

func runExecutionResult(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	result, err := a.client.GetExecutionResult(cmd.Context(), args[0], executionRunID)
	if err != nil {
		return a.wrap(err, "fetching result")
	}
	return printRaw(a, result)
}

func runExecutionQuery(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	queryArgs, err := parseJSONArgs(executionQueryArgs)
	if err != nil {
		return ValidationError("--args", executionQueryArgs, "a JSON array, e.g. '[\"pending\"]'")
	}

	result, err := a.client.QueryExecution(cmd.Context(), args[0], executionRunID, args[1], queryArgs)
	if err != nil {
		return a.wrap(err, "querying execution")
	}
	return printRaw(a, result)
}

func runExecutionSignal(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	signalArgs, err := parseJSONArgs(executionSignalArgs)
	if err != nil {
		return ValidationError("--args", executionSignalArgs, "a JSON array, e.g. '[42]'")
	}

	if err := a.client.SignalExecution(cmd.Context(), args[0], executionRunID, args[1], signalArgs); err != nil {
		return a.wrap(err, "sending signal")
	}
	return a.print(fmt.Sprintf("Signal %q sent to %s", args[1], args[0]))
}

func runExecutionCancel(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	if err := a.client.CancelExecution(cmd.Context(), args[0], executionRunID); err != nil {
		return a.wrap(err, "cancelling execution")
	}
	return a.print(fmt.Sprintf("Cancellation requested for %s", args[0]))
}

func runExecutionTerminate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	if err := a.client.TerminateExecution(cmd.Context(), args[0], executionRunID, executionReason); err != nil {
		return a.wrap(err, "terminating execution")
	}
	return a.print(fmt.Sprintf("Execution %s terminated", args[0]))
}

// parseJSONArgs decodes the --args flag, empty means no arguments
func parseJSONArgs(raw string) ([]interface{}, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []interface{}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// printRaw pretty-prints a raw JSON payload in text mode and passes it
// through the formatter otherwise
func printRaw(a *app, raw json.RawMessage) error {
	if len(raw) == 0 {
		return a.print("No result")
	}

	if a.structured() {
		var decoded interface{}
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return err
		}
		return a.print(decoded)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return a.print(string(raw))
	}
	return a.print(pretty.String())
}
