package agent

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/sibyl-oracle/sibyl-contract/contracts/oracle/oracleconst"
	"github.com/sibyl-oracle/sibyl-contract/deploy"
	"github.com/sibyl-oracle/sibyl-contract/internal/journal"
	oraclerpc "github.com/sibyl-oracle/sibyl-contract/rpc/oracle"
	"go.uber.org/zap"
)

// Source produces predictions, see Generator.
type Source interface {
	Generate(ctx context.Context) (Prediction, error)
}

// Oracle sends createPrediction transactions. Implemented by
// rpc/oracle.Contract.
type Oracle interface {
	CreatePrediction(statement string, confidence *big.Int, deadlineHours *big.Int) (util.Uint256, uint32, error)
}

// Waiter awaits execution results of sent transactions. Implemented by
// actor.Actor.
type Waiter interface {
	Wait(h util.Uint256, vub uint32, err error) (*state.AppExecResult, error)
}

// Recorder stores submitted predictions. Implemented by journal.Journal.
type Recorder interface {
	Record(journal.Entry) error
}

// Runner performs a single agent run: generates a prediction, registers it in
// the oracle contract, journals it and prepares the announcement.
type Runner struct {
	Logger   *zap.Logger
	Source   Source
	Oracle   Oracle
	Waiter   Waiter
	Recorder Recorder

	// Contract is the oracle address, its events are looked up in the
	// transaction result.
	Contract util.Uint160
	// Authority is the address of the signing account.
	Authority string
	// TxLink turns transaction hash into a link, hex hash is used if unset.
	TxLink func(util.Uint256) string
}

// Result describes a completed run.
type Result struct {
	RunID        string
	PredictionID uint64
	Prediction   Prediction
	Tx           util.Uint256
	Announcement string
}

// ErrNoEvent is returned when the transaction result does not contain
// PredictionCreated notification of the oracle contract.
var ErrNoEvent = errors.New("no " + oracleconst.PredictionCreatedEvent + " event")

// Run executes the run. The prediction is journaled only after the
// transaction is accepted by the chain.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	l := r.Logger.With(zap.String("run_id", res.RunID))

	l.Info("generating prediction...")

	p, err := r.Source.Generate(ctx)
	if err != nil {
		return res, fmt.Errorf("generate prediction: %w", err)
	}
	if err = p.Validate(); err != nil {
		return res, fmt.Errorf("invalid prediction: %w", err)
	}
	res.Prediction = p

	l.Info("prediction generated",
		zap.String("statement", p.Statement), zap.Int("confidence", p.Confidence),
		zap.Int("hours", p.Hours), zap.String("source", p.Source))

	if err = ctx.Err(); err != nil {
		return res, err
	}

	h, vub, err := r.Oracle.CreatePrediction(p.Statement, big.NewInt(int64(p.Confidence)), big.NewInt(int64(p.Hours)))
	res.Tx = h

	aer, err := r.Waiter.Wait(h, vub, err)
	if err = deploy.CheckHalt(aer, err); err != nil {
		return res, fmt.Errorf("create prediction: %w", err)
	}

	ev, err := r.createdEvent(aer)
	if err != nil {
		return res, err
	}
	res.PredictionID = ev.ID.Uint64()

	l.Info("prediction registered",
		zap.Uint64("id", res.PredictionID), zap.String("tx", h.StringLE()), zap.Stringer("deadline", ev.Deadline))

	err = r.Recorder.Record(journal.Entry{
		RunID:        res.RunID,
		PredictionID: res.PredictionID,
		Statement:    p.Statement,
		Confidence:   p.Confidence,
		Hours:        p.Hours,
		Tx:           h.StringLE(),
		Authority:    r.Authority,
	})
	if err != nil {
		// the prediction is already on chain, the run is still successful
		l.Error("failed to journal prediction", zap.Error(err))
	}

	link := "0x" + h.StringLE()
	if r.TxLink != nil {
		link = r.TxLink(h)
	}
	res.Announcement = Announcement(res.PredictionID, p, link)

	return res, nil
}

func (r *Runner) createdEvent(aer *state.AppExecResult) (*oraclerpc.PredictionCreatedEvent, error) {
	for i := range aer.Events {
		e := aer.Events[i]
		if e.ScriptHash != r.Contract || e.Name != oracleconst.PredictionCreatedEvent {
			continue
		}

		ev := new(oraclerpc.PredictionCreatedEvent)
		if err := ev.FromStackItem(e.Item); err != nil {
			return nil, fmt.Errorf("decode %s event: %w", e.Name, err)
		}
		return ev, nil
	}
	return nil, ErrNoEvent
}
