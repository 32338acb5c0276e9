package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proofengine",
		Short: "scrypt key derivation and proof-of-work challenges",
		Long: `proofengine derives scrypt keys from hex-encoded inputs and serves
proof-of-work challenges that clients solve by brute-forcing a nonce.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newServeCmd(),
		newDeriveCmd(),
		newSolveCmd(),
		newVerifyCmd(),
	)
	return cmd
}
