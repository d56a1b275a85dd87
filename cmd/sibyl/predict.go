package main

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/sibyl-oracle/sibyl-contract/internal/agent"
	"github.com/sibyl-oracle/sibyl-contract/internal/journal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const journalMaxSizeMB = 10

func (a *app) predictCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "predict",
		Short: "Generate a prediction and register it in the oracle",
		Long: `Ask the language model for a crypto market prediction, register it in the
oracle contract and print the announcement. A built-in prediction is used
when the model is not configured or its reply is unusable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			contract, err := a.cfg.ContractHash()
			if err != nil {
				return err
			}

			b, err := a.dialSigner(cmd.Context())
			if err != nil {
				return err
			}
			defer b.close()

			j := journal.Open(a.cfg.LogDir, journalMaxSizeMB)
			defer func() {
				if err := j.Close(); err != nil {
					a.log.Warn("failed to close prediction journal", zap.Error(err))
				}
			}()

			r := &agent.Runner{
				Logger:    a.log,
				Source:    agent.NewGenerator(a.log, a.cfg.LLM),
				Oracle:    b.oracle(contract),
				Waiter:    b.actor,
				Recorder:  j,
				Contract:  contract,
				Authority: b.acc.Address,
				TxLink: func(h util.Uint256) string {
					return a.cfg.TxLink(h.StringLE())
				},
			}

			res, err := r.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Announcement)

			return nil
		},
	}
}
