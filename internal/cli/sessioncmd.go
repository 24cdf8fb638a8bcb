package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumenlms/sessionkit/core/session"
)

const revalidationWait = 15 * time.Second

func newLoginCmd(verbose *bool) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(*verbose)
			manager, err := newManager(log)
			if err != nil {
				return err
			}
			defer manager.Close()

			ctx := cmd.Context()
			if err := manager.Login(ctx, session.Credentials{Email: email, Password: password}); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			// Login fires a background revalidation; wait for it so the
			// persisted permissions are the server's latest.
			if fut := manager.Revalidation(); fut != nil {
				if err := fut.AwaitWithTimeout(revalidationWait); err != nil {
					log.Warn("revalidation did not finish", "error", err)
				}
			}

			printState(cmd, manager.State())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newWhoamiCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session, revalidated against the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(*verbose)
			manager, err := newManager(log)
			if err != nil {
				return err
			}
			defer manager.Close()

			ctx := cmd.Context()
			if err := manager.Boot(ctx); err != nil {
				return err
			}
			if fut := manager.Revalidation(); fut != nil {
				if err := fut.AwaitWithTimeout(revalidationWait); err != nil {
					log.Warn("revalidation did not finish", "error", err)
				}
			}

			printState(cmd, manager.State())
			return nil
		},
	}
}

func newLogoutCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := newManager(newLogger(*verbose))
			if err != nil {
				return err
			}
			defer manager.Close()

			if err := manager.Logout(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("logged out")
			return nil
		},
	}
}

func printState(cmd *cobra.Command, state session.State) {
	cmd.Printf("status:      %s\n", state.Status)
	if state.Status != session.StatusAuthed {
		return
	}
	cmd.Printf("role:        %s\n", state.Role)
	cmd.Printf("permissions: %s\n", strings.Join(state.Permissions, ", "))
	if state.User != nil {
		cmd.Printf("user:        %s <%s>\n",
			strings.TrimSpace(state.User.FirstName+" "+state.User.LastName), state.User.Email)
	}
	if state.Tenant != nil {
		cmd.Printf("tenant:      %s (%s)\n", state.Tenant.Name, state.Tenant.Slug)
	}
}
