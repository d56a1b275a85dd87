package main

import (
	"fmt"
	"path/filepath"

	"github.com/sibyl-oracle/sibyl-contract/contracts"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) compileCommand() *cobra.Command {
	var src, out string

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile the oracle contract for deployment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				out = a.cfg.ContractsDir
			}
			if src == "" {
				src = filepath.Join(a.cfg.ContractsDir, contracts.OracleDir)
			}

			a.log.Info("compiling oracle contract...", zap.String("source", src))

			c, err := contracts.Compile(src)
			if err != nil {
				return err
			}

			dir := filepath.Join(out, contracts.OracleDir)
			if err = contracts.Write(dir, c); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Contract %s compiled into %s (checksum %d).\n",
				c.Manifest.Name, dir, c.NEF.Checksum)

			return nil
		},
	}

	cmd.Flags().StringVar(&src, "src", "", "contract source directory (default <contracts-dir>/oracle)")
	cmd.Flags().StringVar(&out, "contracts-dir", "", "root directory of compiled contracts (default SIBYL_CONTRACTS_DIR)")

	return cmd
}
