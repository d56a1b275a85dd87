package oracle

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/sibyl-oracle/sibyl-contract/common"
	"github.com/sibyl-oracle/sibyl-contract/contracts/oracle/oracleconst"
)

type (
	// Registry is the singleton record holding the authority and counters.
	Registry struct {
		Authority          interop.Hash160
		PredictionCount    int
		CorrectPredictions int
	}

	// Prediction is a single registered statement.
	Prediction struct {
		ID         int
		Statement  string
		Confidence int
		Deadline   int
		Resolved   bool
		Outcome    bool
		CreatedAt  int
	}
)

const (
	// Record layouts reserve 8 bytes for the type tag. Integers take 8
	// bytes, booleans 1 byte, the statement is a 4-byte length followed
	// by its bytes.
	tagSize   = 8
	intSize   = 8
	boolSize  = 1
	hashSize  = interop.Hash160Len
	lenPrefix = 4

	registrySpace = tagSize + hashSize + intSize + intSize
)

var zeroID = []byte{0, 0, 0, 0, 0, 0, 0, 0}

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	runtime.Log("sibyl oracle contract deployed")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the authority.
func Update(script []byte, manifest []byte, data any) {
	reg := getRegistry(storage.GetReadOnlyContext())
	common.CheckWitness(reg.Authority)

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("sibyl oracle contract updated")
}

// Initialize creates the registry with the given authority and zero counters.
// The authority must witness the transaction. Second call fails since the
// registry record already exists.
func Initialize(authority interop.Hash160) {
	common.CheckAccount(authority)
	common.CheckWitness(authority)

	ctx := storage.GetContext()
	reg := Registry{
		Authority:          authority,
		PredictionCount:    0,
		CorrectPredictions: 0,
	}
	common.Allocate(ctx, oracleconst.RegistryKey, registrySpace, registrySpace, reg)

	runtime.Log("sibyl oracle registry initialized")
}

// CreatePrediction registers a new statement with the given confidence
// (0..100) and deadline in hours from now (1..255). It returns the id of the new
// prediction and emits PredictionCreated notification.
func CreatePrediction(statement string, confidence int, deadlineHours int) int {
	ctx := storage.GetContext()
	reg := getRegistry(ctx)
	common.CheckWitness(reg.Authority)

	if confidence < 0 || confidence > oracleconst.MaxConfidence {
		panic(oracleconst.ErrInvalidConfidence)
	}
	if deadlineHours <= 0 || deadlineHours > oracleconst.MaxDeadlineHours {
		panic(oracleconst.ErrInvalidDeadline)
	}

	now := currentTime()

	reg.PredictionCount = reg.PredictionCount + 1
	id := reg.PredictionCount

	p := Prediction{
		ID:         id,
		Statement:  statement,
		Confidence: confidence,
		Deadline:   now + deadlineHours*oracleconst.SecondsPerHour,
		Resolved:   false,
		Outcome:    false,
		CreatedAt:  now,
	}
	common.Allocate(ctx, predictionKey(id), predictionFootprint(len(statement)),
		predictionFootprint(oracleconst.MaxStatementLength), p)
	common.SetSerialized(ctx, oracleconst.RegistryKey, reg)

	runtime.Notify(oracleconst.PredictionCreatedEvent, id, statement, confidence, p.Deadline)

	return id
}

// ResolvePrediction records the outcome of the prediction once its deadline
// has been reached and emits PredictionResolved notification with the
// updated accuracy.
func ResolvePrediction(id int, wasCorrect bool) {
	ctx := storage.GetContext()
	reg := getRegistry(ctx)
	common.CheckWitness(reg.Authority)

	key := predictionKey(id)
	p := getPrediction(ctx, key)
	if p.ID != id {
		panic(oracleconst.ErrInvalidPredictionID)
	}
	if p.Resolved {
		panic(oracleconst.ErrAlreadyResolved)
	}
	if currentTime() < p.Deadline {
		panic(oracleconst.ErrDeadlineNotReached)
	}

	p.Resolved = true
	p.Outcome = wasCorrect
	common.SetSerialized(ctx, key, p)

	if wasCorrect {
		reg.CorrectPredictions = reg.CorrectPredictions + 1
		common.SetSerialized(ctx, oracleconst.RegistryKey, reg)
	}

	runtime.Notify(oracleconst.PredictionResolvedEvent, id, wasCorrect, accuracy(reg))
}

// TransferAuthority hands the registry over to another account. Only the
// current authority can call it; the new account is not checked in any way.
func TransferAuthority(newAuthority interop.Hash160) {
	ctx := storage.GetContext()
	reg := getRegistry(ctx)
	common.CheckWitness(reg.Authority)

	reg.Authority = newAuthority
	common.SetSerialized(ctx, oracleconst.RegistryKey, reg)

	runtime.Log("sibyl oracle authority transferred")
}

// Authority returns the account allowed to modify the registry.
func Authority() interop.Hash160 {
	return getRegistry(storage.GetReadOnlyContext()).Authority
}

// PredictionCount returns the number of registered predictions.
func PredictionCount() int {
	return getRegistry(storage.GetReadOnlyContext()).PredictionCount
}

// CorrectPredictions returns the number of predictions resolved as correct.
func CorrectPredictions() int {
	return getRegistry(storage.GetReadOnlyContext()).CorrectPredictions
}

// Accuracy returns the share of correct predictions among all registered
// ones, in percent rounded down.
func Accuracy() int {
	return accuracy(getRegistry(storage.GetReadOnlyContext()))
}

// GetPrediction returns the prediction with the given id.
func GetPrediction(id int) Prediction {
	return getPrediction(storage.GetReadOnlyContext(), predictionKey(id))
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getRegistry(ctx storage.Context) Registry {
	data := storage.Get(ctx, oracleconst.RegistryKey)
	if data == nil {
		panic(oracleconst.ErrNotInitialized)
	}

	return std.Deserialize(data.([]byte)).(Registry)
}

func getPrediction(ctx storage.Context, key []byte) Prediction {
	data := storage.Get(ctx, key)
	if data == nil {
		panic(oracleconst.ErrPredictionNotFound)
	}

	return std.Deserialize(data.([]byte)).(Prediction)
}

// predictionKey returns 'prediction' followed by the id bytes padded with
// zeroes to oracleconst.PredictionIDSize.
func predictionKey(id int) []byte {
	key := append([]byte(oracleconst.PredictionPrefix), convert.ToBytes(id)...)

	pad := len(oracleconst.PredictionPrefix) + oracleconst.PredictionIDSize - len(key)
	if pad > 0 {
		key = append(key, zeroID[:pad]...)
	}

	return key
}

func predictionFootprint(statementLen int) int {
	return tagSize + intSize + lenPrefix + statementLen + boolSize +
		intSize + boolSize + boolSize + intSize
}

func accuracy(reg Registry) int {
	if reg.PredictionCount == 0 {
		return 0
	}
	if reg.CorrectPredictions == 0 {
		return 0
	}

	return reg.CorrectPredictions * 100 / reg.PredictionCount
}

// currentTime returns block timestamp in seconds.
func currentTime() int {
	return runtime.GetTime() / 1000
}
