// Package oracle contains RPC wrappers for Sibyl oracle contract.
package oracle

import (
	"errors"
	"fmt"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"math/big"
	"unicode/utf8"
)

// OraclePrediction is a contract-specific oracle.Prediction type used by its methods.
type OraclePrediction struct {
	ID *big.Int
	Statement string
	Confidence *big.Int
	Deadline *big.Int
	Resolved bool
	Outcome bool
	CreatedAt *big.Int
}

// PredictionCreatedEvent represents "PredictionCreated" event emitted by the contract.
type PredictionCreatedEvent struct {
	ID *big.Int
	Statement string
	Confidence *big.Int
	Deadline *big.Int
}

// PredictionResolvedEvent represents "PredictionResolved" event emitted by the contract.
type PredictionResolvedEvent struct {
	ID *big.Int
	Outcome bool
	Accuracy *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Accuracy invokes `accuracy` method of contract.
func (c *ContractReader) Accuracy() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "accuracy"))
}

// Authority invokes `authority` method of contract.
func (c *ContractReader) Authority() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "authority"))
}

// CorrectPredictions invokes `correctPredictions` method of contract.
func (c *ContractReader) CorrectPredictions() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "correctPredictions"))
}

// GetPrediction invokes `getPrediction` method of contract.
func (c *ContractReader) GetPrediction(id *big.Int) (*OraclePrediction, error) {
	return itemToOraclePrediction(unwrap.Item(c.invoker.Call(c.hash, "getPrediction", id)))
}

// PredictionCount invokes `predictionCount` method of contract.
func (c *ContractReader) PredictionCount() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "predictionCount"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// CreatePrediction creates a transaction invoking `createPrediction` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CreatePrediction(statement string, confidence *big.Int, deadlineHours *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createPrediction", statement, confidence, deadlineHours)
}

// CreatePredictionTransaction creates a transaction invoking `createPrediction` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreatePredictionTransaction(statement string, confidence *big.Int, deadlineHours *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "createPrediction", statement, confidence, deadlineHours)
}

// CreatePredictionUnsigned creates a transaction invoking `createPrediction` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreatePredictionUnsigned(statement string, confidence *big.Int, deadlineHours *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "createPrediction", nil, statement, confidence, deadlineHours)
}

// Initialize creates a transaction invoking `initialize` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Initialize(authority util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "initialize", authority)
}

// InitializeTransaction creates a transaction invoking `initialize` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) InitializeTransaction(authority util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "initialize", authority)
}

// InitializeUnsigned creates a transaction invoking `initialize` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) InitializeUnsigned(authority util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "initialize", nil, authority)
}

// ResolvePrediction creates a transaction invoking `resolvePrediction` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ResolvePrediction(id *big.Int, wasCorrect bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "resolvePrediction", id, wasCorrect)
}

// ResolvePredictionTransaction creates a transaction invoking `resolvePrediction` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ResolvePredictionTransaction(id *big.Int, wasCorrect bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "resolvePrediction", id, wasCorrect)
}

// ResolvePredictionUnsigned creates a transaction invoking `resolvePrediction` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ResolvePredictionUnsigned(id *big.Int, wasCorrect bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "resolvePrediction", nil, id, wasCorrect)
}

// TransferAuthority creates a transaction invoking `transferAuthority` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) TransferAuthority(newAuthority util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "transferAuthority", newAuthority)
}

// TransferAuthorityTransaction creates a transaction invoking `transferAuthority` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) TransferAuthorityTransaction(newAuthority util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "transferAuthority", newAuthority)
}

// TransferAuthorityUnsigned creates a transaction invoking `transferAuthority` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) TransferAuthorityUnsigned(newAuthority util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "transferAuthority", nil, newAuthority)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

// itemToOraclePrediction converts stack item into *OraclePrediction.
func itemToOraclePrediction(item stackitem.Item, err error) (*OraclePrediction, error) {
	if err != nil {
		return nil, err
	}
	var res = new(OraclePrediction)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of OraclePrediction from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *OraclePrediction) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 7 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	res.Statement, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Statement: %w", err)
	}

	index++
	res.Confidence, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Confidence: %w", err)
	}

	index++
	res.Deadline, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Deadline: %w", err)
	}

	index++
	res.Resolved, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Resolved: %w", err)
	}

	index++
	res.Outcome, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Outcome: %w", err)
	}

	index++
	res.CreatedAt, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field CreatedAt: %w", err)
	}

	return nil
}

// PredictionCreatedEventsFromApplicationLog retrieves a set of all emitted events
// with "PredictionCreated" name from the provided [result.ApplicationLog].
func PredictionCreatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*PredictionCreatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*PredictionCreatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "PredictionCreated" {
				continue
			}
			event := new(PredictionCreatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize PredictionCreatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to PredictionCreatedEvent or
// returns an error if it's not possible to do to so.
func (e *PredictionCreatedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	e.Statement, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Statement: %w", err)
	}

	index++
	e.Confidence, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Confidence: %w", err)
	}

	index++
	e.Deadline, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Deadline: %w", err)
	}

	return nil
}

// PredictionResolvedEventsFromApplicationLog retrieves a set of all emitted events
// with "PredictionResolved" name from the provided [result.ApplicationLog].
func PredictionResolvedEventsFromApplicationLog(log *result.ApplicationLog) ([]*PredictionResolvedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*PredictionResolvedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "PredictionResolved" {
				continue
			}
			event := new(PredictionResolvedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize PredictionResolvedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to PredictionResolvedEvent or
// returns an error if it's not possible to do to so.
func (e *PredictionResolvedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	e.Outcome, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Outcome: %w", err)
	}

	index++
	e.Accuracy, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Accuracy: %w", err)
	}

	return nil
}
