package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/proofengine/pkg/hexcodec"
	"github.com/dmitrymomot/proofengine/pkg/hexkdf"
	"github.com/dmitrymomot/proofengine/pkg/kdf"
	"github.com/dmitrymomot/proofengine/pkg/pow"
)

func newDeriveCmd() *cobra.Command {
	var (
		password, salt string
		n, r, p, dklen uint32
		lenient        bool
		maxMemory      uint64
	)

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive an scrypt key from hex-encoded password and salt",
		Example: `  proofengine derive --password 70617373776f7264 --salt 4e61436c --n 1024 --r 8 --p 16 --dklen 64`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			policy := hexcodec.Strict
			if lenient {
				policy = hexcodec.Lenient
			}
			d := hexkdf.New(hexkdf.WithPolicy(policy), hexkdf.WithMaxMemory(maxMemory))

			key, err := d.Scrypt(password, salt, n, r, p, dklen)
			if err != nil {
				return fmt.Errorf("%s: %w", hexkdf.Kind(err), err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), key)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&password, "password", "", "password as hex")
	f.StringVar(&salt, "salt", "", "salt as hex")
	f.Uint32Var(&n, "n", pow.DefaultN, "CPU/memory cost, a power of two")
	f.Uint32Var(&r, "r", pow.DefaultR, "block size")
	f.Uint32Var(&p, "p", pow.DefaultP, "parallelism")
	f.Uint32Var(&dklen, "dklen", 32, "derived key length in bytes")
	f.BoolVar(&lenient, "lenient", false, "decode malformed hex pairs as zero bytes instead of failing")
	f.Uint64Var(&maxMemory, "max-memory", kdf.DefaultMaxMemory, "refuse derivations needing more bytes of memory (0 = unlimited)")
	return cmd
}
