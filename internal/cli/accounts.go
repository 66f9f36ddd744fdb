// Copyright (c) 2026 Warpkeeper Authors
// Warpkeeper - local account rotation service
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/warpkeeper/warpkeeper/internal/i18n"
	"github.com/warpkeeper/warpkeeper/internal/rotation"
)

var (
	activeBadge = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	bannedBadge = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	idleBadge   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// accountCmd is the root command for account management operations.
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage the account pool (list, add, remove, ban, activate, switch)",
	Long: `The 'account' command group covers the whole account lifecycle:
  - List all accounts with their status
  - View one account including its token
  - Add accounts or refresh their tokens
  - Remove accounts
  - Ban accounts (permanently excludes them from rotation)
  - Activate one specific account
  - Switch to the least recently used account`,
}

// accountListCmd lists all accounts as a table.
var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		accounts, err := engine.ListAccounts()
		if err != nil {
			return fmt.Errorf("failed to list accounts: %w", err)
		}
		if len(accounts) == 0 {
			fmt.Println(i18n.T("cli.no_accounts"))
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "EMAIL\tSTATUS\tTOKEN\tLAST USED")
		for _, acc := range accounts {
			status := idleBadge.Render("idle")
			switch {
			case acc.IsBanned:
				status = bannedBadge.Render("banned")
			case acc.IsActive:
				status = activeBadge.Render("active")
			}
			token := "-"
			if acc.HasToken {
				token = "set"
			}
			lastUsed := "-"
			if !acc.LastUsed.IsZero() {
				lastUsed = acc.LastUsed.Local().Format(time.DateTime)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", acc.Email, status, token, lastUsed)
		}
		return w.Flush()
	},
}

// accountShowCmd displays one account including its token.
var accountShowCmd = &cobra.Command{
	Use:   "show <email>",
	Short: "Show detailed account information",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		acc, err := engine.GetAccount(args[0])
		if err != nil {
			if errors.Is(err, rotation.ErrNotFound) {
				return fmt.Errorf("%s", i18n.T("api.error.account_not_found"))
			}
			return err
		}

		status := idleBadge.Render("idle")
		switch {
		case acc.IsBanned:
			status = bannedBadge.Render("banned")
		case acc.IsActive:
			status = activeBadge.Render("active")
		}

		fmt.Printf("Email:     %s\n", acc.Email)
		fmt.Printf("Status:    %s\n", status)
		fmt.Printf("Token:     %s\n", acc.Token)
		fmt.Printf("Added:     %s\n", acc.AddedAt.Local().Format(time.DateTime))
		fmt.Printf("Last used: %s\n", acc.LastUsed.Local().Format(time.DateTime))

		if copyToken, _ := cmd.Flags().GetBool("copy-token"); copyToken {
			if err := clipboard.WriteAll(acc.Token); err != nil {
				return fmt.Errorf("could not copy token to clipboard: %w", err)
			}
			fmt.Println(i18n.T("cli.token_copied"))
		}
		return nil
	},
}

// accountAddCmd inserts an account or refreshes its token.
var accountAddCmd = &cobra.Command{
	Use:   "add <email> <token>",
	Short: "Add an account or update its token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := engine.AddAccount(args[0], args[1])
		if err != nil {
			return err
		}
		msgID := "api.token_updated"
		if created {
			msgID = "api.added"
		}
		fmt.Println(i18n.Td(msgID, map[string]any{"Email": args[0]}))
		return nil
	},
}

// accountRemoveCmd deletes an account.
var accountRemoveCmd = &cobra.Command{
	Use:     "remove <email>",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove an account",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := engine.RemoveAccount(args[0])
		if err != nil {
			return err
		}
		if removed == 0 {
			fmt.Println(i18n.T("api.error.account_not_found"))
			return nil
		}
		fmt.Println(i18n.Td("api.deleted", map[string]any{"Email": args[0]}))
		return nil
	},
}

// accountBanCmd marks an account banned. Banned accounts never rotate in
// again.
var accountBanCmd = &cobra.Command{
	Use:   "ban <email>",
	Short: "Ban an account, removing it from rotation permanently",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := engine.BanAccount(args[0]); err != nil {
			return err
		}
		fmt.Println(i18n.Td("api.banned", map[string]any{"Email": args[0]}))
		return nil
	},
}

// accountActivateCmd makes the named account the single active one.
var accountActivateCmd = &cobra.Command{
	Use:   "activate <email>",
	Short: "Make the named account the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		acc, err := engine.ActivateAccount(args[0])
		if err != nil {
			if errors.Is(err, rotation.ErrNotFound) {
				return fmt.Errorf("%s", i18n.T("api.error.account_missing_or_banned"))
			}
			return err
		}
		fmt.Println(i18n.Td("api.activated", map[string]any{"Email": acc.Email}))
		return nil
	},
}

// accountSwitchCmd rotates to the least recently used account.
var accountSwitchCmd = &cobra.Command{
	Use:   "switch",
	Short: "Switch to the least recently used unbanned account",
	RunE: func(cmd *cobra.Command, args []string) error {
		acc, err := engine.SwitchAccount()
		if err != nil {
			if errors.Is(err, rotation.ErrNoAccountsAvailable) {
				return fmt.Errorf("%s", i18n.T("api.error.no_accounts_available"))
			}
			return err
		}
		fmt.Println(i18n.Td("api.switched", map[string]any{"Email": acc.Email}))
		return nil
	},
}

func init() {
	accountCmd.AddCommand(
		accountListCmd,
		accountShowCmd,
		accountAddCmd,
		accountRemoveCmd,
		accountBanCmd,
		accountActivateCmd,
		accountSwitchCmd,
	)
}
