package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/sibyl-oracle/sibyl-contract/contracts/oracle/oracleconst"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the oracle deployment.
type Blockchain interface {
	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// Deployer sends transactions deploying new contracts. Implemented by
// [management.Contract].
//
// [management.Contract]: https://pkg.go.dev/github.com/nspcc-dev/neo-go/pkg/rpcclient/management#Contract
type Deployer interface {
	Deploy(exe *nef.File, manif *manifest.Manifest, data any) (util.Uint256, uint32, error)
}

// Waiter awaits execution results of sent transactions. Implemented by
// [actor.Actor].
//
// [actor.Actor]: https://pkg.go.dev/github.com/nspcc-dev/neo-go/pkg/rpcclient/actor#Actor
type Waiter interface {
	Wait(h util.Uint256, vub uint32, err error) (*state.AppExecResult, error)
}

// Oracle is a client of the deployed oracle contract. Implemented by
// rpc/oracle.Contract.
type Oracle interface {
	Authority() (util.Uint160, error)
	Initialize(authority util.Uint160) (util.Uint256, uint32, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Prm groups all parameters of the oracle deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy the oracle to.
	Blockchain Blockchain

	// Sends deployment transaction.
	Deployer Deployer

	// Waits for the sent transactions.
	Waiter Waiter

	// Opens oracle contract client by its address.
	NewOracle func(util.Uint160) Oracle

	// Account paying for the deployment. Contract address is derived from it.
	Sender util.Uint160

	Contract CommonDeployPrm

	// Account which becomes the oracle authority on initialization. It must
	// be able to witness the initialization transaction.
	Authority util.Uint160
}

// Deploy deploys the oracle contract represented by Prm.Contract and
// initializes its registry. Already deployed contract and already initialized
// registry are left untouched, so Deploy can be repeated after partial
// failures. Deploy returns the contract address.
//
// Summary of stages:
//  1. contract deployment unless the address is taken
//  2. registry initialization unless the authority is set
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	addr := state.CreateContractHash(prm.Sender, prm.Contract.NEF.Checksum, prm.Contract.Manifest.Name)
	l := prm.Logger.With(zap.Stringer("address", addr))

	_, err := prm.Blockchain.GetContractStateByHash(addr)
	if err == nil {
		l.Info("oracle contract is already deployed")
	} else {
		if !isErrContractNotFound(err) {
			return addr, fmt.Errorf("get oracle contract state: %w", err)
		}

		if err = ctx.Err(); err != nil {
			return addr, err
		}

		l.Info("oracle contract is missing on the chain, deploying...")

		err = CheckHalt(prm.Waiter.Wait(prm.Deployer.Deploy(&prm.Contract.NEF, &prm.Contract.Manifest, nil)))
		if err != nil {
			return addr, fmt.Errorf("deploy oracle contract: %w", err)
		}

		l.Info("oracle contract successfully deployed")
	}

	if err = ctx.Err(); err != nil {
		return addr, err
	}

	oracle := prm.NewOracle(addr)

	authority, err := oracle.Authority()
	if err == nil {
		l.Info("oracle registry is already initialized",
			zap.String("authority", address.Uint160ToString(authority)))
		return addr, nil
	}
	if !strings.Contains(err.Error(), oracleconst.ErrNotInitialized) {
		return addr, fmt.Errorf("read oracle authority: %w", err)
	}

	l.Info("initializing oracle registry...",
		zap.String("authority", address.Uint160ToString(prm.Authority)))

	err = CheckHalt(prm.Waiter.Wait(oracle.Initialize(prm.Authority)))
	if err != nil {
		return addr, fmt.Errorf("initialize oracle registry: %w", err)
	}

	l.Info("oracle registry successfully initialized")

	return addr, nil
}

func isErrContractNotFound(err error) bool {
	return strings.Contains(err.Error(), "Unknown contract")
}

// ErrFault is returned by CheckHalt for transactions ended in FAULT state.
var ErrFault = errors.New("transaction failed")

// CheckHalt returns an error if the transaction was not accepted or its
// execution did not end in HALT state. Arguments match [actor.Actor.Wait]
// results.
//
// [actor.Actor.Wait]: https://pkg.go.dev/github.com/nspcc-dev/neo-go/pkg/rpcclient/actor#Actor.Wait
func CheckHalt(res *state.AppExecResult, err error) error {
	if err != nil {
		return err
	}
	if res.VMState != vmstate.Halt {
		return fmt.Errorf("%w: tx %s: %s", ErrFault, res.Container.StringLE(), res.FaultException)
	}
	return nil
}
