// Package oracleconst contains constants shared by the Sibyl oracle contract
// and its off-chain clients.
package oracleconst

const (
	// MaxStatementLength is the maximum statement size in bytes.
	MaxStatementLength = 280
	// MaxConfidence is the upper bound of the confidence score.
	MaxConfidence = 100
	// MaxDeadlineHours is the longest prediction window.
	MaxDeadlineHours = 255
	// SecondsPerHour converts deadline hours into timestamp seconds.
	SecondsPerHour = 3600

	// RegistryKey is the storage key of the registry record.
	RegistryKey = "oracle"
	// PredictionPrefix prefixes storage keys of prediction records.
	PredictionPrefix = "prediction"
	// PredictionIDSize is the length of the little-endian id suffix of
	// prediction keys.
	PredictionIDSize = 8

	// PredictionCreatedEvent is emitted on every new prediction.
	PredictionCreatedEvent = "PredictionCreated"
	// PredictionResolvedEvent is emitted when a prediction gets its outcome.
	PredictionResolvedEvent = "PredictionResolved"

	// ErrInvalidConfidence is thrown when confidence is out of [0, MaxConfidence].
	ErrInvalidConfidence = "InvalidConfidence: confidence must be between 0 and 100"
	// ErrInvalidDeadline is thrown when deadline hours are out of
	// [1, MaxDeadlineHours].
	ErrInvalidDeadline = "InvalidDeadline: deadline must be between 1 and 255 hours"
	// ErrInvalidPredictionID is thrown when the stored record id differs from
	// the requested one.
	ErrInvalidPredictionID = "InvalidPredictionId: invalid prediction ID"
	// ErrAlreadyResolved is thrown on the second resolution attempt.
	ErrAlreadyResolved = "AlreadyResolved: prediction already resolved"
	// ErrDeadlineNotReached is thrown when resolution is requested too early.
	ErrDeadlineNotReached = "DeadlineNotReached: deadline not reached yet"

	// ErrNotInitialized is thrown when the registry is missing.
	ErrNotInitialized = "registry is not initialized"
	// ErrPredictionNotFound is thrown when there is no record for the id.
	ErrPredictionNotFound = "prediction not found"
)
