package agent

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/sibyl-oracle/sibyl-contract/deploy"
	"github.com/sibyl-oracle/sibyl-contract/internal/journal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testContract = util.Uint160{0xaa}

type staticSource struct {
	p   Prediction
	err error
}

func (s staticSource) Generate(context.Context) (Prediction, error) { return s.p, s.err }

type testOracle struct {
	statement  string
	confidence *big.Int
	hours      *big.Int
}

func (x *testOracle) CreatePrediction(statement string, confidence *big.Int, deadlineHours *big.Int) (util.Uint256, uint32, error) {
	x.statement, x.confidence, x.hours = statement, confidence, deadlineHours
	return util.Uint256{7}, 100, nil
}

// testWaiter emits PredictionCreated event with the given id from the
// given contract.
type testWaiter struct {
	contract util.Uint160
	id       int64
	fault    string
}

func (x testWaiter) Wait(h util.Uint256, _ uint32, err error) (*state.AppExecResult, error) {
	if err != nil {
		return nil, err
	}

	res := &state.AppExecResult{Container: h}
	res.VMState = vmstate.Halt
	if x.fault != "" {
		res.VMState = vmstate.Fault
		res.FaultException = x.fault
		return res, nil
	}

	res.Events = []state.NotificationEvent{
		{ScriptHash: util.Uint160{0xbb}, Name: "PredictionCreated", Item: stackitem.NewArray(nil)},
		{ScriptHash: x.contract, Name: "PredictionCreated", Item: stackitem.NewArray([]stackitem.Item{
			stackitem.Make(x.id),
			stackitem.Make("statement"),
			stackitem.Make(50),
			stackitem.Make(1_700_000_000),
		})},
	}
	return res, nil
}

type testRecorder struct {
	entries []journal.Entry
	err     error
}

func (x *testRecorder) Record(e journal.Entry) error {
	x.entries = append(x.entries, e)
	return x.err
}

func newTestRunner(t *testing.T, src Source, o Oracle, w Waiter, rec Recorder) *Runner {
	return &Runner{
		Logger:    zaptest.NewLogger(t),
		Source:    src,
		Oracle:    o,
		Waiter:    w,
		Recorder:  rec,
		Contract:  testContract,
		Authority: "NVTiAjNgagDkTr5HTzDmQP9kPwPHN5BgVq",
	}
}

func TestRunner_Run(t *testing.T) {
	var (
		o   = new(testOracle)
		rec = new(testRecorder)
		p   = fallbackAt(0)
	)
	r := newTestRunner(t, staticSource{p: p}, o, testWaiter{contract: testContract, id: 12}, rec)
	r.TxLink = func(h util.Uint256) string { return "https://explorer/tx/0x" + h.StringLE() }

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, res.RunID)
	require.EqualValues(t, 12, res.PredictionID)
	require.Equal(t, util.Uint256{7}, res.Tx)
	require.Contains(t, res.Announcement, "#12")
	require.Contains(t, res.Announcement, "https://explorer/tx/0x"+res.Tx.StringLE())

	require.Equal(t, p.Statement, o.statement)
	require.EqualValues(t, p.Confidence, o.confidence.Int64())
	require.EqualValues(t, p.Hours, o.hours.Int64())

	require.Equal(t, []journal.Entry{{
		RunID:        res.RunID,
		PredictionID: 12,
		Statement:    p.Statement,
		Confidence:   p.Confidence,
		Hours:        p.Hours,
		Tx:           res.Tx.StringLE(),
		Authority:    r.Authority,
	}}, rec.entries)

	t.Run("journal failure", func(t *testing.T) {
		rec := &testRecorder{err: errors.New("disk full")}
		r := newTestRunner(t, staticSource{p: p}, new(testOracle), testWaiter{contract: testContract, id: 13}, rec)

		res, err := r.Run(context.Background())
		require.NoError(t, err)
		require.EqualValues(t, 13, res.PredictionID)
		require.Contains(t, res.Announcement, "0x"+res.Tx.StringLE())
	})
}

func TestRunner_Failures(t *testing.T) {
	p := fallbackAt(1)

	t.Run("source", func(t *testing.T) {
		r := newTestRunner(t, staticSource{err: context.Canceled}, new(testOracle), testWaiter{}, new(testRecorder))
		_, err := r.Run(context.Background())
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("invalid prediction", func(t *testing.T) {
		o := new(testOracle)
		r := newTestRunner(t, staticSource{p: Prediction{Statement: "x", Confidence: 150, Hours: 1}}, o, testWaiter{}, new(testRecorder))
		_, err := r.Run(context.Background())
		require.Error(t, err)
		require.Empty(t, o.statement)
	})

	t.Run("fault", func(t *testing.T) {
		rec := new(testRecorder)
		r := newTestRunner(t, staticSource{p: p}, new(testOracle), testWaiter{fault: "unauthorized"}, rec)
		_, err := r.Run(context.Background())
		require.ErrorIs(t, err, deploy.ErrFault)
		require.ErrorContains(t, err, "unauthorized")
		require.Empty(t, rec.entries)
	})

	t.Run("no event", func(t *testing.T) {
		rec := new(testRecorder)
		r := newTestRunner(t, staticSource{p: p}, new(testOracle), testWaiter{contract: util.Uint160{0xcc}}, rec)
		_, err := r.Run(context.Background())
		require.ErrorIs(t, err, ErrNoEvent)
		require.Empty(t, rec.entries)
	})
}
