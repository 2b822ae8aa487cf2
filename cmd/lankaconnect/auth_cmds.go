package main

import (
	"fmt"
	"io"

	"github.com/jrsteele09/lankaconnect-client/auth"
	"github.com/jrsteele09/lankaconnect-client/users"
	"github.com/spf13/cobra"
)

func (a *app) loginCmd() *cobra.Command {
	var req auth.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.session.Login(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.render(u, func(w io.Writer) {
				fmt.Fprintf(w, "Signed in as %s (%s)\n", u.DisplayName(), u.Role)
			})
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Signed out")
			return nil
		},
	}
}

// whoamiCmd reloads the profile from the server, refreshing the token first if
// it is close to expiry.
func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			if err := a.session.EnsureFresh(cmd.Context()); err != nil {
				return err
			}
			profile, err := a.session.Repository().GetProfile(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.session.UpdateUser(func(u *users.User) { *u = *profile }); err != nil {
				a.logger.Warn().Err(err).Msg("profile not saved")
			}
			return a.render(profile, func(w io.Writer) {
				fmt.Fprintf(w, "%s <%s>\nRole: %s\n", profile.DisplayName(), profile.Email, profile.Role)
				if profile.SubscriptionStatus != "" {
					fmt.Fprintf(w, "Subscription: %s\n", profile.SubscriptionStatus)
				}
				if users.HasPendingUpgrade(*profile) {
					fmt.Fprintf(w, "Pending upgrade: %s\n", *profile.PendingUpgradeRole)
				}
			})
		},
	}
}
