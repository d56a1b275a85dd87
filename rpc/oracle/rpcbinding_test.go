package oracle

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/stretchr/testify/require"
)

type testInvoker struct {
	calls []string
	res   map[string]stackitem.Item
}

func (i *testInvoker) Call(_ util.Uint160, operation string, _ ...any) (*result.Invoke, error) {
	i.calls = append(i.calls, operation)
	item, ok := i.res[operation]
	if !ok {
		return &result.Invoke{State: vmstate.Fault.String(), FaultException: "registry is not initialized"}, nil
	}
	return &result.Invoke{State: vmstate.Halt.String(), Stack: []stackitem.Item{item}}, nil
}

func predictionItem(id int64, statement string) stackitem.Item {
	return stackitem.NewStruct([]stackitem.Item{
		stackitem.Make(id),
		stackitem.Make(statement),
		stackitem.Make(70),
		stackitem.Make(1_700_172_800),
		stackitem.NewBool(true),
		stackitem.NewBool(false),
		stackitem.Make(1_700_000_000),
	})
}

func TestContractReader(t *testing.T) {
	authority := util.Uint160{1, 2, 3}
	inv := &testInvoker{res: map[string]stackitem.Item{
		"authority":          stackitem.NewByteArray(authority.BytesBE()),
		"predictionCount":    stackitem.Make(4),
		"correctPredictions": stackitem.Make(1),
		"accuracy":           stackitem.Make(25),
		"getPrediction":      predictionItem(2, "BTC will consolidate"),
	}}
	r := NewReader(inv, util.Uint160{9})

	a, err := r.Authority()
	require.NoError(t, err)
	require.Equal(t, authority, a)

	cnt, err := r.PredictionCount()
	require.NoError(t, err)
	require.EqualValues(t, 4, cnt.Int64())

	correct, err := r.CorrectPredictions()
	require.NoError(t, err)
	require.EqualValues(t, 1, correct.Int64())

	acc, err := r.Accuracy()
	require.NoError(t, err)
	require.EqualValues(t, 25, acc.Int64())

	p, err := r.GetPrediction(big.NewInt(2))
	require.NoError(t, err)
	require.EqualValues(t, 2, p.ID.Int64())
	require.Equal(t, "BTC will consolidate", p.Statement)
	require.EqualValues(t, 70, p.Confidence.Int64())
	require.EqualValues(t, 1_700_172_800, p.Deadline.Int64())
	require.True(t, p.Resolved)
	require.False(t, p.Outcome)
	require.EqualValues(t, 1_700_000_000, p.CreatedAt.Int64())

	_, err = r.Version()
	require.Error(t, err)
}

func TestOraclePrediction_FromStackItem(t *testing.T) {
	var p OraclePrediction

	require.Error(t, p.FromStackItem(stackitem.Make(1)))
	require.Error(t, p.FromStackItem(stackitem.NewStruct([]stackitem.Item{stackitem.Make(1)})))

	bad := predictionItem(1, "x").Value().([]stackitem.Item)
	bad[1] = stackitem.NewByteArray([]byte{0xff, 0xfe})
	require.ErrorContains(t, p.FromStackItem(stackitem.NewStruct(bad)), "field Statement")
}

func TestEventsFromApplicationLog(t *testing.T) {
	created := stackitem.NewArray([]stackitem.Item{
		stackitem.Make(1),
		stackitem.Make("SOL will test key resistance"),
		stackitem.Make(65),
		stackitem.Make(86_400),
	})
	resolved := stackitem.NewArray([]stackitem.Item{
		stackitem.Make(1),
		stackitem.NewBool(true),
		stackitem.Make(100),
	})
	log := &result.ApplicationLog{
		Executions: []state.Execution{{
			Events: []state.NotificationEvent{
				{Name: "PredictionCreated", Item: created},
				{Name: "Transfer", Item: stackitem.NewArray(nil)},
				{Name: "PredictionResolved", Item: resolved},
			},
		}},
	}

	ce, err := PredictionCreatedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Len(t, ce, 1)
	require.EqualValues(t, 1, ce[0].ID.Int64())
	require.Equal(t, "SOL will test key resistance", ce[0].Statement)
	require.EqualValues(t, 65, ce[0].Confidence.Int64())
	require.EqualValues(t, 86_400, ce[0].Deadline.Int64())

	re, err := PredictionResolvedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Len(t, re, 1)
	require.True(t, re[0].Outcome)
	require.EqualValues(t, 100, re[0].Accuracy.Int64())

	_, err = PredictionCreatedEventsFromApplicationLog(nil)
	require.Error(t, err)

	log.Executions[0].Events[0].Item = stackitem.NewArray([]stackitem.Item{stackitem.Make(1)})
	_, err = PredictionCreatedEventsFromApplicationLog(log)
	require.Error(t, err)
}

func TestPredictionKey(t *testing.T) {
	require.Equal(t, []byte("oracle"), RegistryKey())
	require.Equal(t, append([]byte("prediction"), 1, 0, 0, 0, 0, 0, 0, 0), PredictionKey(1))
	require.Equal(t, append([]byte("prediction"), 0x80, 0, 0, 0, 0, 0, 0, 0), PredictionKey(128))
	require.Equal(t, append([]byte("prediction"), 0, 1, 0, 0, 0, 0, 0, 0), PredictionKey(256))
}
