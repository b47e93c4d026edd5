package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowdeck/flowdeck/internal/gateway"
	"github.com/flowdeck/flowdeck/internal/session"
)

var (
	tenantName        string
	tenantDescription string
	memberEmail       string
	memberName        string
	memberRole        string
	memberPage        int
	memberLimit       int
)

var tenantCmd = &cobra.Command{
	Use:     "tenant",
	Aliases: []string{"workspace"},
	Short:   "Manage your workspace",
	Long: `Inspect and manage the workspace (tenant) your account belongs to.

Member roles are owner, admin, member and viewer. The owner role is
assigned at workspace creation and cannot be granted here.`,
}

var tenantShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current workspace",
	RunE:  runTenantShow,
}

var tenantCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a workspace",
	RunE:  runTenantCreate,
}

var tenantUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the workspace name or description",
	RunE:  runTenantUpdate,
}

var tenantStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show workspace activity counters",
	RunE:  runTenantStats,
}

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "Manage workspace members",
}

var membersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspace members",
	RunE:  runMembersList,
}

var membersInviteCmd = &cobra.Command{
	Use:   "invite",
	Short: "Invite a member",
	Long: `Invite a member into the workspace.

Examples:
  flowdeck tenant members invite --email new@example.com --name "New User" --role member`,
	RunE: runMembersInvite,
}

var membersSetRoleCmd = &cobra.Command{
	Use:   "set-role <member-id>",
	Short: "Change a member's role",
	Args:  cobra.ExactArgs(1),
	RunE:  runMembersSetRole,
}

var membersRemoveCmd = &cobra.Command{
	Use:   "remove <member-id>",
	Short: "Remove a member from the workspace",
	Args:  cobra.ExactArgs(1),
	RunE:  runMembersRemove,
}

func init() {
	tenantCreateCmd.Flags().StringVar(&tenantName, "name", "", "Workspace name")
	tenantCreateCmd.Flags().StringVar(&tenantDescription, "description", "", "Workspace description")
	_ = tenantCreateCmd.MarkFlagRequired("name")

	tenantUpdateCmd.Flags().StringVar(&tenantName, "name", "", "New workspace name")
	tenantUpdateCmd.Flags().StringVar(&tenantDescription, "description", "", "New workspace description")

	membersListCmd.Flags().IntVar(&memberPage, "page", 1, "Page number")
	membersListCmd.Flags().IntVar(&memberLimit, "limit", 20, "Page size")

	membersInviteCmd.Flags().StringVar(&memberEmail, "email", "", "Member email")
	membersInviteCmd.Flags().StringVar(&memberName, "name", "", "Member display name")
	membersInviteCmd.Flags().StringVar(&memberRole, "role", "member", "Role: admin, member, or viewer")
	_ = membersInviteCmd.MarkFlagRequired("email")

	membersSetRoleCmd.Flags().StringVar(&memberRole, "role", "", "Role: admin, member, or viewer")
	_ = membersSetRoleCmd.MarkFlagRequired("role")

	membersCmd.AddCommand(membersListCmd)
	membersCmd.AddCommand(membersInviteCmd)
	membersCmd.AddCommand(membersSetRoleCmd)
	membersCmd.AddCommand(membersRemoveCmd)

	tenantCmd.AddCommand(tenantShowCmd)
	tenantCmd.AddCommand(tenantCreateCmd)
	tenantCmd.AddCommand(tenantUpdateCmd)
	tenantCmd.AddCommand(tenantStatsCmd)
	tenantCmd.AddCommand(membersCmd)
	rootCmd.AddCommand(tenantCmd)
}

func runTenantShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	ws, err := a.client.GetTenant(cmd.Context())
	if err != nil {
		if gateway.IsNotFound(err) {
			return WorkspaceMissingError()
		}
		return a.wrap(err, "fetching workspace")
	}

	if a.structured() {
		return a.print(ws)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", ws.Name)
	fmt.Fprintf(&b, "ID:        %s\n", ws.TenantID)
	if ws.Description != "" {
		fmt.Fprintf(&b, "About:     %s\n", ws.Description)
	}
	fmt.Fprintf(&b, "Created:   %s", ws.CreatedAt.Local().Format(time.RFC822))
	return a.print(b.String())
}

func runTenantCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	ws, err := a.client.CreateTenant(cmd.Context(), tenantName, tenantDescription)
	if err != nil {
		return a.wrap(err, "creating workspace")
	}

	if a.structured() {
		return a.print(ws)
	}
	return a.print(fmt.Sprintf("Workspace %q created (%s)", ws.Name, ws.TenantID))
}

func runTenantUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	if tenantName == "" && tenantDescription == "" {
		return ValidationError("flags", "none set", "--name and/or --description")
	}

	ws, err := a.client.UpdateTenant(cmd.Context(), tenantName, tenantDescription)
	if err != nil {
		return a.wrap(err, "updating workspace")
	}

	if a.structured() {
		return a.print(ws)
	}
	return a.print(fmt.Sprintf("Workspace %q updated", ws.Name))
}

func runTenantStats(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	stats, err := a.client.GetTenantStats(cmd.Context())
	if err != nil {
		return a.wrap(err, "fetching workspace stats")
	}

	if a.structured() {
		return a.print(stats)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active workflows:  %d\n", stats.ActiveWorkflows)
	fmt.Fprintf(&b, "Pending approvals: %d\n", stats.PendingApprovals)
	fmt.Fprintf(&b, "Executions today:  %d\n", stats.ExecutionsToday)
	fmt.Fprintf(&b, "Members:           %d", stats.Members)
	return a.print(b.String())
}

func runMembersList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	list, err := a.client.ListMembers(cmd.Context(), memberPage, memberLimit)
	if err != nil {
		return a.wrap(err, "listing members")
	}

	if a.structured() {
		return a.print(list)
	}

	if len(list.Members) == 0 {
		return a.print("No members")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-26s %-20s %-28s %s\n", "ID", "NAME", "EMAIL", "ROLE")
	for _, m := range list.Members {
		fmt.Fprintf(&b, "%-26s %-20s %-28s %s\n", m.ID, m.Name, m.Email, m.Role)
	}
	return a.print(strings.TrimRight(b.String(), "\n"))
}

func runMembersInvite(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	role := session.Role(memberRole)
	member, err := a.client.InviteMember(cmd.Context(), memberEmail, memberName, role)
	if err != nil {
		return a.wrap(err, "inviting member")
	}

	if a.structured() {
		return a.print(member)
	}
	return a.print(fmt.Sprintf("Invited %s as %s", member.Email, member.Role))
}

func runMembersSetRole(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	member, err := a.client.UpdateMemberRole(cmd.Context(), args[0], session.Role(memberRole))
	if err != nil {
		return a.wrap(err, "updating member role")
	}

	if a.structured() {
		return a.print(member)
	}
	return a.print(fmt.Sprintf("%s is now %s", member.Email, member.Role))
}

func runMembersRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	if err := a.client.RemoveMember(cmd.Context(), args[0]); err != nil {
		return a.wrap(err, "removing member")
	}
	return a.print("Member removed")
}
