package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arnowelzel/periodical/internal/api"
	"github.com/arnowelzel/periodical/internal/security"
	"github.com/arnowelzel/periodical/internal/services"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const temporaryPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

var errPasswordMismatch = errors.New("passwords do not match")

func init() {
	set := &cobra.Command{
		Use:   "set-password",
		Short: "Protect the web calendar with a password (empty input removes it)",
		Run:   runSetPassword,
	}

	reset := &cobra.Command{
		Use:   "reset-password",
		Short: "Replace the access password with a generated one",
		Run:   runResetPassword,
	}

	RootCmd.AddCommand(set, reset)
}

func runSetPassword(cmd *cobra.Command, args []string) {
	password, err := promptNewPassword(cmd.ErrOrStderr(), os.Stdin)
	if err != nil {
		exitErr("set-password", err)
	}

	s, err := openSession(nil)
	if err != nil {
		exitErr("open database", err)
	}
	defer s.Close()

	if err := setAccessPassword(cmd.Context(), cmd.OutOrStdout(), s.deps, password); err != nil {
		exitErr("set-password", err)
	}
}

func runResetPassword(cmd *cobra.Command, args []string) {
	s, err := openSession(nil)
	if err != nil {
		exitErr("open database", err)
	}
	defer s.Close()

	if err := resetAccessPassword(cmd.Context(), cmd.OutOrStdout(), s.deps); err != nil {
		exitErr("reset-password", err)
	}
}

func setAccessPassword(ctx context.Context, out io.Writer, deps api.Dependencies, password string) error {
	if err := deps.Access.SetPassword(ctx, password); err != nil {
		return err
	}
	return printJSON(out, map[string]interface{}{
		"ok":            true,
		"guard_enabled": password != "",
	})
}

func resetAccessPassword(ctx context.Context, out io.Writer, deps api.Dependencies) error {
	password, err := generateTemporaryPassword(12)
	if err != nil {
		return fmt.Errorf("generate temporary password: %w", err)
	}
	if err := deps.Access.SetPassword(ctx, password); err != nil {
		return err
	}
	return printJSON(out, map[string]interface{}{
		"ok":                 true,
		"temporary_password": password,
	})
}

// generateTemporaryPassword draws until the result satisfies the access
// password policy.
func generateTemporaryPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}
	for {
		password, err := security.RandomString(length, temporaryPasswordAlphabet)
		if err != nil {
			return "", err
		}
		if services.ValidateAccessPassword(password) == nil {
			return password, nil
		}
	}
}

func promptNewPassword(prompt io.Writer, stdin *os.File) (string, error) {
	lines := bufio.NewReader(stdin)
	first, err := readPassword(prompt, stdin, lines, "New password: ")
	if err != nil {
		return "", err
	}
	if first == "" {
		return "", nil
	}
	second, err := readPassword(prompt, stdin, lines, "Repeat password: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errPasswordMismatch
	}
	return first, nil
}

// readPassword disables echo on terminals and falls back to reading a plain
// line when input is piped.
func readPassword(prompt io.Writer, stdin *os.File, lines *bufio.Reader, label string) (string, error) {
	fd := int(stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := lines.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(prompt, label)
	value, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", err
	}
	return string(value), nil
}
