// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/ledger"
)

func signCommand(stdin io.Reader) *cobra.Command {
	var salt string

	cmd := &cobra.Command{
		Use:   "sign <address>",
		Short: "Print the X-Caller-Signature value for an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address := args[0]
			if !ledger.Address(address).Valid() {
				return fmt.Errorf("invalid address %q", address)
			}

			if salt == "" {
				salt = os.Getenv("CALLER_SALT")
			}
			if salt == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Caller salt: ")
				var err error
				salt, err = readSecret(stdin)
				if err != nil {
					return fmt.Errorf("failed to read salt: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr())
			}
			if strings.TrimSpace(salt) == "" {
				return fmt.Errorf("caller salt cannot be empty")
			}

			fmt.Fprintln(cmd.OutOrStdout(), auth.SignCaller(address, salt))
			return nil
		},
	}

	cmd.Flags().StringVar(&salt, "caller-salt", "", "caller signature salt (default $CALLER_SALT, else prompt)")
	return cmd
}

func readSecret(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// Pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
