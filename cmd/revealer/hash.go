package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"HashRevealer/hash"
	"HashRevealer/internal/errors"
)

var hashCmd = &cobra.Command{
	Use:   "hash <input>",
	Short: "Print the base64url commitment of an input",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("algorithm")

		alg, ok := hash.Lookup(name)
		if !ok {
			return errors.Newf("unknown algorithm %q", name)
		}

		fmt.Fprintln(cmd.OutOrStdout(), alg.Sum([]byte(args[0])))
		return nil
	},
}

func init() {
	hashCmd.Flags().String("algorithm", hash.Keccak256.Name(), "commitment hash")
}
