package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// ErrWitnessFailed appears when the method must be called by the
// authority account but was not.
const ErrWitnessFailed = "unauthorized: authority witness check failed"

// ErrInvalidAccount appears when an account argument is not a
// 20-byte script hash.
const ErrInvalidAccount = "invalid account"

// CheckWitness checks witness of the passed account.
// It panics with ErrWitnessFailed message on fail.
func CheckWitness(account interop.Hash160) {
	if !runtime.CheckWitness(account) {
		panic(ErrWitnessFailed)
	}
}

// CheckAccount panics with ErrInvalidAccount if the account is not a valid
// script hash.
func CheckAccount(account interop.Hash160) {
	if len(account) != interop.Hash160Len {
		panic(ErrInvalidAccount)
	}
}
