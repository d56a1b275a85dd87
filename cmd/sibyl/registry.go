package main

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/sibyl-oracle/sibyl-contract/contracts/oracle/oracleconst"
	"github.com/sibyl-oracle/sibyl-contract/deploy"
	"github.com/sibyl-oracle/sibyl-contract/internal/config"
	oraclerpc "github.com/sibyl-oracle/sibyl-contract/rpc/oracle"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the registry of the deployed oracle contract",
		Long: `Initialize the registry with the signing account as the authority. If the
registry is already initialized its current state is printed instead.`,
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

			reader := b.reader(contract)

			_, err = reader.Authority()
			if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Registry is already initialized.")
				return printStatus(cmd.OutOrStdout(), reader)
			}
			if !strings.Contains(err.Error(), oracleconst.ErrNotInitialized) {
				return fmt.Errorf("read oracle authority: %w", err)
			}

			a.log.Info("initializing oracle registry...", zap.String("authority", b.acc.Address))

			h, vub, err := b.oracle(contract).Initialize(b.acc.ScriptHash())
			if err = deploy.CheckHalt(b.actor.Wait(h, vub, err)); err != nil {
				return fmt.Errorf("initialize oracle registry: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Registry initialized.\nAuthority: %s\nTX: %s\n",
				b.acc.Address, a.cfg.TxLink(h.StringLE()))

			return nil
		},
	}
}

func (a *app) resolveCommand() *cobra.Command {
	var (
		id      uint64
		correct bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Record the outcome of a prediction after its deadline",
		Args:  cobra.NoArgs,
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

			a.log.Info("resolving prediction...", zap.Uint64("id", id), zap.Bool("correct", correct))

			h, vub, err := b.oracle(contract).ResolvePrediction(new(big.Int).SetUint64(id), correct)
			aer, err := b.actor.Wait(h, vub, err)
			if err = deploy.CheckHalt(aer, err); err != nil {
				return fmt.Errorf("resolve prediction: %w", err)
			}

			ev, err := resolvedEvent(aer, contract)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Prediction #%d resolved as %s.\nAccuracy: %d%%\nTX: %s\n",
				ev.ID, outcomeString(ev.Outcome), ev.Accuracy, a.cfg.TxLink(h.StringLE()))

			return nil
		},
	}

	cmd.Flags().Uint64Var(&id, "id", 0, "prediction ID")
	cmd.Flags().BoolVar(&correct, "correct", false, "the prediction came true")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func (a *app) transferAuthorityCommand() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "transfer-authority",
		Short: "Hand the registry over to another account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			newAuthority, err := config.ParseAccount(to)
			if err != nil {
				return fmt.Errorf("invalid new authority: %w", err)
			}

			contract, err := a.cfg.ContractHash()
			if err != nil {
				return err
			}

			b, err := a.dialSigner(cmd.Context())
			if err != nil {
				return err
			}
			defer b.close()

			a.log.Info("transferring oracle authority...",
				zap.String("from", b.acc.Address), zap.String("to", address.Uint160ToString(newAuthority)))

			h, vub, err := b.oracle(contract).TransferAuthority(newAuthority)
			if err = deploy.CheckHalt(b.actor.Wait(h, vub, err)); err != nil {
				return fmt.Errorf("transfer authority: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Authority transferred to %s.\nTX: %s\n",
				address.Uint160ToString(newAuthority), a.cfg.TxLink(h.StringLE()))

			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "new authority, Neo address or script hash")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

var errNoResolvedEvent = errors.New("no " + oracleconst.PredictionResolvedEvent + " event")

func resolvedEvent(aer *state.AppExecResult, contract util.Uint160) (*oraclerpc.PredictionResolvedEvent, error) {
	for i := range aer.Events {
		e := aer.Events[i]
		if e.ScriptHash != contract || e.Name != oracleconst.PredictionResolvedEvent {
			continue
		}

		ev := new(oraclerpc.PredictionResolvedEvent)
		if err := ev.FromStackItem(e.Item); err != nil {
			return nil, fmt.Errorf("decode %s event: %w", e.Name, err)
		}
		return ev, nil
	}
	return nil, errNoResolvedEvent
}

func outcomeString(correct bool) string {
	if correct {
		return "correct"
	}
	return "incorrect"
}
