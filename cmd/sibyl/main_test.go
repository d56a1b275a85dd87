package main

import (
	"bytes"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/sibyl-oracle/sibyl-contract/contracts"
	"github.com/sibyl-oracle/sibyl-contract/contracts/oracle/oracleconst"
	oraclerpc "github.com/sibyl-oracle/sibyl-contract/rpc/oracle"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer

	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env", filepath.Join(t.TempDir(), "missing.env")}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	t.Run("unsupported network", func(t *testing.T) {
		t.Setenv("SIBYL_NETWORK", "devnet")

		_, err := execute(t, "status")
		require.ErrorContains(t, err, "unsupported network")
	})

	t.Run("invalid log level", func(t *testing.T) {
		t.Setenv("SIBYL_LOG_LEVEL", "verbose")

		_, err := execute(t, "status")
		require.ErrorContains(t, err, "invalid log level")
	})

	t.Run("missing contract", func(t *testing.T) {
		for _, name := range []string{"status", "init", "predict", "dump"} {
			_, err := execute(t, name)
			require.ErrorContains(t, err, "contract", name)
		}
	})

	t.Run("required flags", func(t *testing.T) {
		_, err := execute(t, "resolve")
		require.ErrorContains(t, err, `"id"`)

		_, err = execute(t, "show")
		require.ErrorContains(t, err, `"id"`)

		_, err = execute(t, "transfer-authority")
		require.ErrorContains(t, err, `"to"`)
	})

	t.Run("invalid new authority", func(t *testing.T) {
		_, err := execute(t, "transfer-authority", "--to", "not an account")
		require.ErrorContains(t, err, "invalid new authority")
	})

	t.Run("missing compiled contract", func(t *testing.T) {
		_, err := execute(t, "deploy", "--contracts-dir", t.TempDir())
		require.ErrorContains(t, err, "read contract oracle")
	})
}

func TestCompileCommand(t *testing.T) {
	root := t.TempDir()

	out, err := execute(t, "compile", "--src", "../../contracts/oracle", "--contracts-dir", root)
	require.NoError(t, err)
	require.Contains(t, out, "Contract SibylOracle compiled")

	c, err := contracts.ReadOracle(root)
	require.NoError(t, err)
	require.Equal(t, "SibylOracle", c.Manifest.Name)
}

func TestNewLogger(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		l, err := newLogger(lvl)
		require.NoError(t, err, lvl)
		require.NotNil(t, l)
	}

	_, err := newLogger("loud")
	require.Error(t, err)
}

func TestPrintPrediction(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	p := &oraclerpc.OraclePrediction{
		ID:         big.NewInt(3),
		Statement:  "BTC will be above $100k",
		Confidence: big.NewInt(75),
		Deadline:   big.NewInt(1700086400),
		CreatedAt:  big.NewInt(1700000000),
	}

	var out bytes.Buffer
	printPrediction(&out, p)
	require.Equal(t, `Prediction #3
  Statement:  BTC will be above $100k
  Confidence: 75%
  Created:    2023-11-14T22:13:20Z
  Deadline:   2023-11-15T22:13:20Z
  Status:     pending
`, out.String())

	p.Resolved = true
	out.Reset()
	printPrediction(&out, p)
	require.Contains(t, out.String(), "Status:     incorrect")

	p.Outcome = true
	out.Reset()
	printPrediction(&out, p)
	require.Contains(t, out.String(), "Status:     correct")
}

func TestDecodePrediction(t *testing.T) {
	item := stackitem.NewStruct([]stackitem.Item{
		stackitem.Make(7),
		stackitem.Make("ETH flips BTC"),
		stackitem.Make(10),
		stackitem.Make(1700003600),
		stackitem.Make(true),
		stackitem.Make(false),
		stackitem.Make(1700000000),
	})
	value, err := stackitem.Serialize(item)
	require.NoError(t, err)

	p, err := decodePrediction(value)
	require.NoError(t, err)
	require.EqualValues(t, 7, p.ID.Int64())
	require.Equal(t, "ETH flips BTC", p.Statement)
	require.True(t, p.Resolved)
	require.False(t, p.Outcome)

	_, err = decodePrediction([]byte{0xff})
	require.Error(t, err)
}

func TestResolvedEvent(t *testing.T) {
	contract := util.Uint160{1, 2, 3}
	ev := func(h util.Uint160, name string) state.NotificationEvent {
		return state.NotificationEvent{
			ScriptHash: h,
			Name:       name,
			Item: stackitem.NewArray([]stackitem.Item{
				stackitem.Make(2),
				stackitem.Make(true),
				stackitem.Make(50),
			}),
		}
	}

	aer := &state.AppExecResult{Execution: state.Execution{Events: []state.NotificationEvent{
		ev(util.Uint160{9}, oracleconst.PredictionResolvedEvent),
		ev(contract, "Transfer"),
		ev(contract, oracleconst.PredictionResolvedEvent),
	}}}

	res, err := resolvedEvent(aer, contract)
	require.NoError(t, err)
	require.EqualValues(t, 2, res.ID.Int64())
	require.True(t, res.Outcome)
	require.EqualValues(t, 50, res.Accuracy.Int64())

	aer.Events = aer.Events[:2]
	_, err = resolvedEvent(aer, contract)
	require.ErrorIs(t, err, errNoResolvedEvent)
}
