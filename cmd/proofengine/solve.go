package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/proofengine/pkg/pow"
)

func newSolveCmd() *cobra.Command {
	var (
		challenge   string
		workers     int
		maxAttempts uint64
		progress    bool
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Brute-force a nonce for a challenge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if challenge == "" {
				return pow.ErrMissingInput
			}

			opts := []pow.SolveOption{
				pow.WithWorkers(workers),
				pow.WithMaxAttempts(maxAttempts),
			}
			if progress {
				errOut := cmd.ErrOrStderr()
				opts = append(opts, pow.WithProgress(func(p pow.Progress) {
					fmt.Fprintf(errOut, "attempts=%d smallest=%s target=%s\n", p.Attempts, p.SmallestTail, p.Difficulty)
				}))
			}

			sol, err := pow.Solve(cmd.Context(), challenge, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "nonce:    %s\n", sol.Nonce)
			fmt.Fprintf(out, "hash:     %s\n", sol.Hash)
			fmt.Fprintf(out, "attempts: %d\n", sol.Attempts)
			_, err = fmt.Fprintf(out, "took:     %s\n", sol.Duration.Round(time.Millisecond))
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&challenge, "challenge", "", "encoded challenge as returned by POST /getChallenges")
	f.IntVar(&workers, "workers", 0, "solver goroutines (0 = GOMAXPROCS)")
	f.Uint64Var(&maxAttempts, "max-attempts", 0, "give up after this many attempts (0 = unlimited)")
	f.BoolVar(&progress, "progress", false, "report progress on stderr")
	return cmd
}
