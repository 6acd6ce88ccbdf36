package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/coldmail/internal/config"
	"github.com/spf13/cobra"
)

var (
	smtpUser string
	smtpHost string
)

var smtpPasswordCmd = &cobra.Command{
	Use:   "smtp-password",
	Short: "Manage the SMTP password stored in the OS keyring",
	Long: `Store or remove the SMTP password in the OS keyring. The password is used
when SMTP_PASSWORD is not set. The account is taken from --user and --host,
which default to SMTP_USER and SMTP_HOST.`,
}

var smtpPasswordSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the SMTP password read from stdin",
	Args:  cobra.NoArgs,
	RunE:  runSMTPPasswordSet,
}

var smtpPasswordDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored SMTP password",
	Args:  cobra.NoArgs,
	RunE:  runSMTPPasswordDelete,
}

func init() {
	smtpPasswordCmd.PersistentFlags().StringVar(&smtpUser, "user", "", "SMTP user (default $SMTP_USER)")
	smtpPasswordCmd.PersistentFlags().StringVar(&smtpHost, "host", "", "SMTP host (default $SMTP_HOST)")

	smtpPasswordCmd.AddCommand(smtpPasswordSetCmd)
	smtpPasswordCmd.AddCommand(smtpPasswordDeleteCmd)
	rootCmd.AddCommand(smtpPasswordCmd)
}

func smtpAccount() (string, string, error) {
	user := strings.TrimSpace(smtpUser)
	if user == "" {
		user = strings.TrimSpace(os.Getenv("SMTP_USER"))
	}
	host := strings.TrimSpace(smtpHost)
	if host == "" {
		host = strings.TrimSpace(os.Getenv("SMTP_HOST"))
	}
	if user == "" || host == "" {
		return "", "", fmt.Errorf("--user and --host (or SMTP_USER and SMTP_HOST) are required")
	}
	return user, host, nil
}

func runSMTPPasswordSet(cmd *cobra.Command, _ []string) error {
	user, host, err := smtpAccount()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Password for %s: ", config.KeyringAccount(user, host))
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")

	if err := config.StoreSMTPPassword(user, host, password); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stored SMTP password for %s\n", config.KeyringAccount(user, host))
	return nil
}

func runSMTPPasswordDelete(cmd *cobra.Command, _ []string) error {
	user, host, err := smtpAccount()
	if err != nil {
		return err
	}
	if err := config.DeleteSMTPPassword(user, host); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed SMTP password for %s\n", config.KeyringAccount(user, host))
	return nil
}
