package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/proofengine/pkg/pow"
)

func newVerifyCmd() *cobra.Command {
	var (
		challenge, nonce string
		preimageLength   int
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a nonce against a challenge without consuming it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := pow.NewService(nil, pow.WithPreimageLength(preimageLength))

			res, err := svc.Verify(cmd.Context(), challenge, nonce)
			if err != nil {
				if res.Hash != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "hash: %s\ntail: %s > %s\n", res.Hash, res.Tail, res.Difficulty)
				}
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok\nhash: %s\ntail: %s <= %s\n", res.Hash, res.Tail, res.Difficulty)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&challenge, "challenge", "", "encoded challenge")
	f.StringVar(&nonce, "nonce", "", "nonce as hex")
	f.IntVar(&preimageLength, "preimage-length", pow.DefaultPreimageLength, "expected preimage size in bytes")
	return cmd
}
