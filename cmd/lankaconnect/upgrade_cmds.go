package main

import (
	"fmt"

	"github.com/jrsteele09/lankaconnect-client/users"
	"github.com/spf13/cobra"
)

func (a *app) upgradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Request or withdraw a role upgrade",
	}
	cmd.AddCommand(a.upgradeRequestCmd(), a.upgradeCancelCmd())
	return cmd
}

func (a *app) upgradeRequestCmd() *cobra.Command {
	var role, reason string
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Ask an admin to upgrade your role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			target, ok := users.ParseRole(role)
			if !ok {
				target = users.Role(role)
			}
			if err := a.users.RequestUpgrade(cmd.Context(), users.UpgradeRequest{TargetRole: target, Reason: reason}); err != nil {
				return err
			}
			if err := a.session.UpdateUser(func(u *users.User) { u.PendingUpgradeRole = &target }); err != nil {
				a.logger.Warn().Err(err).Msg("pending upgrade not saved")
			}
			fmt.Fprintf(a.out, "Requested upgrade to %s\n", target)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "BusinessOwner, EventOrganizer or EventOrganizerAndBusinessOwner")
	cmd.Flags().StringVar(&reason, "reason", "", "why you need the role")
	return cmd
}

func (a *app) upgradeCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Withdraw a pending upgrade request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			if err := a.users.CancelUpgrade(cmd.Context()); err != nil {
				return err
			}
			if err := a.session.UpdateUser(func(u *users.User) { u.PendingUpgradeRole = nil }); err != nil {
				a.logger.Warn().Err(err).Msg("cancelled upgrade not saved")
			}
			fmt.Fprintln(a.out, "Upgrade request withdrawn")
			return nil
		},
	}
}
