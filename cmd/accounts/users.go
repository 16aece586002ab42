package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/99minutos/accounts-api/internal/core/ports"
	"github.com/99minutos/accounts-api/internal/core/security"
	"github.com/99minutos/accounts-api/internal/core/service"
)

func usersCmd() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Manage accounts from the command line",
		Subcommands: []*cli.Command{
			usersCreateCmd(),
		},
	}
}

func usersCreateCmd() *cli.Command {
	var username, email, fullName string
	return &cli.Command{
		Name:  "create",
		Usage: "Create an account; the password is prompted for, or read from the first line of stdin",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u"},
				Required:    true,
				Destination: &username,
			},
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Required:    true,
				Destination: &email,
			},
			&cli.StringFlag{
				Name:        "full-name",
				Destination: &fullName,
			},
		},
		Action: func(c *cli.Context) error {
			password, err := promptPassword(c.App.Reader, c.App.ErrWriter)
			if err != nil {
				return err
			}

			cfg, log, err := setup(c.Context)
			if err != nil {
				return err
			}
			store, err := openStore(c.Context, cfg, log, cfg.Store.AutoMigrate)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			accounts := service.NewAccountService(store.repo, security.NewPasswordHasher(cfg.Auth.BcryptCost), nil, log)

			input := ports.CreateAccountInput{Username: username, Password: password, Email: email}
			if fullName != "" {
				input.Profile.FullName = &fullName
			}
			result, err := accounts.Create(c.Context, input)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "created account %d (%s)\n", result.Account.ID, result.Account.Username)
			return nil
		},
	}
}

// terminalPassword is a test seam for term.ReadPassword.
var terminalPassword = term.ReadPassword

// promptPassword reads the password without echo when r is a terminal and
// falls back to readPassword for pipes.
func promptPassword(r io.Reader, prompt io.Writer) (string, error) {
	f, ok := r.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return readPassword(r)
	}

	fmt.Fprint(prompt, "Password: ")
	raw, err := terminalPassword(int(f.Fd()))
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if len(raw) == 0 {
		return "", errors.New("read password: empty password")
	}
	return string(raw), nil
}

// readPassword returns the first line of r without its line ending.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("read password: empty password on stdin")
	}
	return password, nil
}
