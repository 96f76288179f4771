package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vantrevi/gatehouse/internal/session"
	"golang.org/x/term"
)

func newLoginCmd() *cobra.Command {
	var (
		configPath string
		username   string
		password   string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the ticketing backend",
		Long:  "Exchanges staff credentials for a session. The session survives restarts until logout or expiry.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, configPath, username, password)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Gatehouse config file")
	cmd.Flags().StringVarP(&username, "username", "u", "", "staff username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func runLogin(cmd *cobra.Command, configPath, username, password string) error {
	a, err := newApp(cmd, configPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if username == "" {
		fmt.Fprint(out, "Username: ")
		username = readLine(cmd)
		if username == "" {
			return fmt.Errorf("username is required")
		}
	}
	if password == "" {
		password, err = readPassword(cmd)
		if err != nil {
			return err
		}
	}

	if !a.session.Login(cmd.Context(), username, password) {
		// The failure reason already went to the notifier.
		return fmt.Errorf("login failed")
	}

	id, _ := a.session.Identity()
	fmt.Fprintf(out, "Logged in as %s (%s)\n", id.Username, id.Role)
	if exp, ok := session.TokenExpiry(a.session.Token()); ok {
		fmt.Fprintf(out, "Session valid until %s\n", exp.Local().Format(time.RFC822))
	}
	return nil
}

// readPassword prompts without echo when stdin is a terminal, and falls
// back to a plain line read otherwise (piped input, tests).
func readPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}
	return readLine(cmd), nil
}

func readLine(cmd *cobra.Command) string {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text())
	}
	return ""
}

func newLogoutCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, configPath)
			if err != nil {
				return err
			}
			a.session.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Gatehouse config file")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var (
		configPath string
		username   string
		password   string
		role       string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new staff account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, configPath)
			if err != nil {
				return err
			}
			if username == "" {
				return fmt.Errorf("--username is required")
			}
			if password == "" {
				password, err = readPassword(cmd)
				if err != nil {
					return err
				}
			}
			if !a.session.Register(cmd.Context(), username, password, role) {
				return fmt.Errorf("registration failed")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s)\n", username, role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Gatehouse config file")
	cmd.Flags().StringVarP(&username, "username", "u", "", "username for the new account")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	cmd.Flags().StringVarP(&role, "role", "r", "staff", "role for the new account")
	return cmd
}

func newPasswdCmd() *cobra.Command {
	var (
		configPath string
		current    string
		next       string
	)

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the current account's password",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}
			if current == "" || next == "" {
				return fmt.Errorf("--current and --new are required")
			}
			if !a.session.ChangePassword(cmd.Context(), current, next) {
				return fmt.Errorf("password change failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password changed.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Gatehouse config file")
	cmd.Flags().StringVar(&current, "current", "", "current password")
	cmd.Flags().StringVar(&next, "new", "", "new password")
	return cmd
}

func newWhoamiCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the active session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			id, ok := a.session.Identity()
			if !ok {
				fmt.Fprintln(out, "Not logged in.")
				return nil
			}
			fmt.Fprintf(out, "%s (%s), id %d\n", id.Username, id.Role, id.ID)
			if exp, ok := session.TokenExpiry(a.session.Token()); ok {
				if exp.Before(time.Now()) {
					fmt.Fprintf(out, "Session EXPIRED at %s\n", exp.Local().Format(time.RFC822))
				} else {
					fmt.Fprintf(out, "Session valid until %s\n", exp.Local().Format(time.RFC822))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Gatehouse config file")
	return cmd
}
