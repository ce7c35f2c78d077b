package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arnavshah/fence-patrol-api/pkg/auth"
)

func keygenCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen <user>",
		Short: "Print an HMAC API key for an integration user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]
			if strings.Contains(userID, ".") {
				return errors.New("user id must not contain '.'")
			}
			if c.cfg.Auth.APIMasterSecret == "" {
				return errors.New("API_MASTER_SECRET is not set")
			}

			apiKey := auth.NewService(c.cfg.Auth).GenerateHMACKey(userID)
			fmt.Fprintf(cmd.OutOrStdout(), "Generated Key for %s:\n%s\n", userID, apiKey)
			return nil
		},
	}
}
