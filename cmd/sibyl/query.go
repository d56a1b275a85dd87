package main

import (
	"bytes"
	"fmt"
	"io"
	"math/big"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/sibyl-oracle/sibyl-contract/contracts/oracle/oracleconst"
	oraclerpc "github.com/sibyl-oracle/sibyl-contract/rpc/oracle"
	"github.com/spf13/cobra"
)

func (a *app) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the registry state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			contract, err := a.cfg.ContractHash()
			if err != nil {
				return err
			}

			b, err := a.dial(cmd.Context())
			if err != nil {
				return err
			}
			defer b.close()

			return printStatus(cmd.OutOrStdout(), b.reader(contract))
		},
	}
}

func (a *app) showCommand() *cobra.Command {
	var id uint64

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a single prediction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			contract, err := a.cfg.ContractHash()
			if err != nil {
				return err
			}

			b, err := a.dial(cmd.Context())
			if err != nil {
				return err
			}
			defer b.close()

			p, err := b.reader(contract).GetPrediction(new(big.Int).SetUint64(id))
			if err != nil {
				return fmt.Errorf("get prediction #%d: %w", id, err)
			}

			printPrediction(cmd.OutOrStdout(), p)

			return nil
		},
	}

	cmd.Flags().Uint64Var(&id, "id", 0, "prediction ID")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func (a *app) dumpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print all predictions stored in the oracle contract",
		Long: `Print all predictions read directly from the contract storage. The RPC
server must provide historical state (StateRoot service).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			contract, err := a.cfg.ContractHash()
			if err != nil {
				return err
			}

			b, err := a.dial(cmd.Context())
			if err != nil {
				return err
			}
			defer b.close()

			var ps []*oraclerpc.OraclePrediction

			err = b.iterateContractStorage(contract, func(key, value []byte) error {
				if !bytes.HasPrefix(key, []byte(oracleconst.PredictionPrefix)) {
					return nil
				}

				p, err := decodePrediction(value)
				if err != nil {
					return fmt.Errorf("decode prediction record %x: %w", key, err)
				}

				ps = append(ps, p)
				return nil
			})
			if err != nil {
				return err
			}

			sort.Slice(ps, func(i, j int) bool { return ps[i].ID.Cmp(ps[j].ID) < 0 })

			out := cmd.OutOrStdout()
			for i := range ps {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printPrediction(out, ps[i])
			}
			fmt.Fprintf(out, "\nTotal: %d\n", len(ps))

			return nil
		},
	}
}

// decodePrediction decodes prediction storage record.
func decodePrediction(value []byte) (*oraclerpc.OraclePrediction, error) {
	item, err := stackitem.Deserialize(value)
	if err != nil {
		return nil, err
	}

	p := new(oraclerpc.OraclePrediction)
	if err = p.FromStackItem(item); err != nil {
		return nil, err
	}
	return p, nil
}

func printStatus(w io.Writer, r *oraclerpc.ContractReader) error {
	authority, err := r.Authority()
	if err != nil {
		return fmt.Errorf("read authority: %w", err)
	}
	count, err := r.PredictionCount()
	if err != nil {
		return fmt.Errorf("read prediction count: %w", err)
	}
	correct, err := r.CorrectPredictions()
	if err != nil {
		return fmt.Errorf("read correct predictions: %w", err)
	}
	accuracy, err := r.Accuracy()
	if err != nil {
		return fmt.Errorf("read accuracy: %w", err)
	}

	fmt.Fprintf(w, "Authority:   %s\n", address.Uint160ToString(authority))
	fmt.Fprintf(w, "Predictions: %d\n", count)
	fmt.Fprintf(w, "Correct:     %d\n", correct)
	fmt.Fprintf(w, "Accuracy:    %d%%\n", accuracy)

	return nil
}

var (
	pendingColor   = color.New(color.FgYellow)
	correctColor   = color.New(color.FgGreen)
	incorrectColor = color.New(color.FgRed)
)

func printPrediction(w io.Writer, p *oraclerpc.OraclePrediction) {
	state := pendingColor.Sprint("pending")
	if p.Resolved {
		c := incorrectColor
		if p.Outcome {
			c = correctColor
		}
		state = c.Sprint(outcomeString(p.Outcome))
	}

	fmt.Fprintf(w, "Prediction #%d\n", p.ID)
	fmt.Fprintf(w, "  Statement:  %s\n", p.Statement)
	fmt.Fprintf(w, "  Confidence: %d%%\n", p.Confidence)
	fmt.Fprintf(w, "  Created:    %s\n", formatTime(p.CreatedAt))
	fmt.Fprintf(w, "  Deadline:   %s\n", formatTime(p.Deadline))
	fmt.Fprintf(w, "  Status:     %s\n", state)
}

// formatTime formats chain timestamp in seconds.
func formatTime(sec *big.Int) string {
	return time.Unix(sec.Int64(), 0).UTC().Format(time.RFC3339)
}
