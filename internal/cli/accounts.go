package cli

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"text/tabwriter"

	"github.com/mwestin/accountd/internal/core/domain"
	"github.com/mwestin/accountd/internal/core/repository"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	addFirstName string
	addLastName  string
	addEmail     string
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage accounts",
	Long:  "Manage registered accounts",
}

var accountsAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Register a new account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]

		services, err := initServices()
		if err != nil {
			return err
		}
		defer services.Close()

		fmt.Print("Enter password: ")
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		fmt.Print("Confirm password: ")
		confirmPassword, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		if string(password) != string(confirmPassword) {
			return fmt.Errorf("passwords do not match")
		}

		account, err := services.AuthService.Register(cmd.Context(), domain.RegistrationInput{
			Username:  username,
			Password:  string(password),
			FirstName: addFirstName,
			LastName:  addLastName,
			Email:     addEmail,
		})
		if err != nil {
			var validationErr *domain.ValidationError
			if errors.As(err, &validationErr) {
				for field, message := range validationErr.Fields {
					fmt.Fprintf(os.Stderr, "  %s: %s\n", field, message)
				}
				return fmt.Errorf("registration rejected")
			}
			return fmt.Errorf("failed to register account: %w", err)
		}

		fmt.Printf("Account '%s' created with id %s\n", account.Username, account.ID)
		return nil
	},
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices()
		if err != nil {
			return err
		}
		defer services.Close()

		accounts, err := services.AccountRepo.List(cmd.Context(), repository.AccountFilter{})
		if err != nil {
			return fmt.Errorf("failed to list accounts: %w", err)
		}

		if len(accounts) == 0 {
			fmt.Println("No accounts found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "USERNAME\tNAME\tEMAIL\tCREATED AT")
		for _, account := range accounts {
			fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\n",
				account.Username,
				account.FirstName,
				account.LastName,
				account.Email,
				account.CreatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		w.Flush()

		return nil
	},
}

var accountsDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]

		services, err := initServices()
		if err != nil {
			return err
		}
		defer services.Close()

		fmt.Printf("Are you sure you want to delete account '%s'? (yes/no): ", username)
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" {
			fmt.Println("Cancelled")
			return nil
		}

		if err := services.AccountRepo.Delete(cmd.Context(), username); err != nil {
			return fmt.Errorf("failed to delete account: %w", err)
		}

		fmt.Printf("Account '%s' deleted\n", username)
		return nil
	},
}

func init() {
	accountsAddCmd.Flags().StringVar(&addFirstName, "first-name", "", "first name")
	accountsAddCmd.Flags().StringVar(&addLastName, "last-name", "", "last name")
	accountsAddCmd.Flags().StringVar(&addEmail, "email", "", "email address")
	_ = accountsAddCmd.MarkFlagRequired("first-name")
	_ = accountsAddCmd.MarkFlagRequired("last-name")
	_ = accountsAddCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(accountsCmd)
	accountsCmd.AddCommand(accountsAddCmd)
	accountsCmd.AddCommand(accountsListCmd)
	accountsCmd.AddCommand(accountsDeleteCmd)
}
