package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the study backend",
	Long: `Log in with your email and password. The session token is stored
locally so future commands run authenticated.

Examples:
  study login
  study login --email ada@example.com`,
	RunE: runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	RunE:  runWhoami,
}

var authEmail string

func init() {
	loginCmd.Flags().StringVar(&authEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&authEmail, "email", "", "Account email")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	email, password, err := promptCredentials(cmd)
	if err != nil {
		return err
	}

	if err := authService.Login(context.Background(), email, password); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return errors.New("invalid email or password")
		}
		return err
	}
	cmd.Printf("Logged in as %s\n", email)
	return nil
}

func runRegister(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	email, password, err := promptCredentials(cmd)
	if err != nil {
		return err
	}

	if err := authService.Register(context.Background(), email, password); err != nil {
		if apiErr, ok := domain.IsAPIError(err); ok && apiErr.Detail != "" {
			return errors.New(apiErr.Detail)
		}
		return err
	}
	cmd.Printf("Account created. Logged in as %s\n", email)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}
	if err := authService.Logout(context.Background()); err != nil {
		return err
	}
	cmd.Println("Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}
	if !authService.IsAuthenticated() {
		return errors.New("not logged in (run 'study login')")
	}

	profile, err := authService.Me(context.Background())
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return errors.New("session expired, please log in again")
		}
		return err
	}
	cmd.Printf("%s (since %s)\n", profile.Email, profile.CreatedAt.Format("2006-01-02"))
	return nil
}

// promptCredentials collects email (flag or prompt) and password. The
// password is read without echo when stdin is a terminal.
func promptCredentials(cmd *cobra.Command) (string, string, error) {
	email := strings.TrimSpace(authEmail)
	reader := bufio.NewReader(cmd.InOrStdin())

	if email == "" {
		cmd.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", err
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return "", "", errors.New("email is required")
	}

	cmd.Print("Password: ")
	var password string
	if term.IsTerminal(int(syscall.Stdin)) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", "", err
		}
		password = string(raw)
	} else {
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", "", err
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return "", "", errors.New("password is required")
	}
	return email, password, nil
}
