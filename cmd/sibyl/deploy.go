package main

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/sibyl-oracle/sibyl-contract/contracts"
	"github.com/sibyl-oracle/sibyl-contract/deploy"
	oraclerpc "github.com/sibyl-oracle/sibyl-contract/rpc/oracle"
	"github.com/spf13/cobra"
)

func (a *app) deployCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the oracle contract and initialize its registry",
		Long: `Deploy the compiled oracle contract (contract.nef and manifest.json) and
initialize the registry with the signing account as the authority. Already
deployed contract and initialized registry are left as is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				dir = a.cfg.ContractsDir
			}

			ctr, err := contracts.ReadOracle(dir)
			if err != nil {
				return err
			}

			b, err := a.dialSigner(cmd.Context())
			if err != nil {
				return err
			}
			defer b.close()

			addr, err := deploy.Deploy(cmd.Context(), deploy.Prm{
				Logger:     a.log,
				Blockchain: b.rpc,
				Deployer:   management.New(b.actor),
				Waiter:     b.actor,
				NewOracle: func(h util.Uint160) deploy.Oracle {
					return oraclerpc.New(b.actor, h)
				},
				Sender: b.acc.ScriptHash(),
				Contract: deploy.CommonDeployPrm{
					NEF:      ctr.NEF,
					Manifest: ctr.Manifest,
				},
				Authority: b.acc.ScriptHash(),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Contract:  0x%s\n", addr.StringLE())
			fmt.Fprintf(out, "Address:   %s\n", address.Uint160ToString(addr))
			fmt.Fprintf(out, "Authority: %s\n", b.acc.Address)
			fmt.Fprintf(out, "\nSet SIBYL_CONTRACT=0x%s to use it.\n", addr.StringLE())

			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "contracts-dir", "", "root directory of compiled contracts (default SIBYL_CONTRACTS_DIR)")

	return cmd
}
