package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fivetwenty-io/strapi-go/internal/constants"
	"github.com/fivetwenty-io/strapi-go/pkg/strapi"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var (
		email    string
		password string
		register bool
		username string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the content API",
		Long:  "Sign in with email and password and keep the session for later commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(cmd.InOrStdin())

			if email == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Email: ")

				line, _ := reader.ReadString('\n')
				email = strings.TrimSpace(line)
			}

			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")

				secret, err := readSecret(reader)
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}

				password = secret

				fmt.Fprintln(cmd.ErrOrStderr())
			}

			ctx := context.Background()

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			defer client.Close()

			var resp *strapi.APIResponse[strapi.AuthData]
			if register {
				if username == "" {
					username = email
				}

				resp = client.Auth().SignUp(ctx, strapi.SignUpCredentials{Username: username, Email: email, Password: password})
			} else {
				resp = client.Auth().SignIn(ctx, strapi.SignInCredentials{Email: email, Password: password})
			}

			if resp.Error != nil {
				return fmt.Errorf("authentication failed: %w", resp.Error)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", resp.Data.User.Username)

			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "email or username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	cmd.Flags().BoolVar(&register, "register", false, "register a new user instead of signing in")
	cmd.Flags().StringVar(&username, "username", "", "username for --register (defaults to the email)")

	return cmd
}

// readSecret reads a password without echo from a terminal, or a line otherwise.
func readSecret(reader *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd()) // #nosec G115 -- file descriptors fit in int
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}

		return string(secret), nil
	}

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Long:  "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			defer client.Close()

			err = client.Auth().SignOut(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")

			return nil
		},
	}
}

// NewWhoamiCommand creates the whoami command
func NewWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Long:  "Display the user the stored session belongs to",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			defer client.Close()

			if client.Token() == "" {
				return constants.ErrNotLoggedIn
			}

			resp := client.Auth().GetMe(ctx)
			if resp.Error != nil {
				return fmt.Errorf("failed to get current user: %w", resp.Error)
			}

			return render(cmd.OutOrStdout(), viper.GetString("output"), resp.Data, nil)
		},
	}
}
