package main

import (
	"context"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/sibyl-oracle/sibyl-contract/internal/signer"
	oraclerpc "github.com/sibyl-oracle/sibyl-contract/rpc/oracle"
	"go.uber.org/zap"
)

// wrapper over rpcNeo providing services of the Neo network the oracle
// lives in.
type remoteBlockchain struct {
	rpc *rpcclient.Client

	// set only for signing connections
	acc   *wallet.Account
	actor *actor.Actor
}

// dial connects to the Neo RPC server of the configured network. Returned
// remoteBlockchain can only read data.
func (a *app) dial(ctx context.Context) (*remoteBlockchain, error) {
	endpoint := a.cfg.Endpoint()

	c, err := rpcclient.New(ctx, endpoint, rpcclient.Options{
		DialTimeout:    a.cfg.DialTimeout,
		RequestTimeout: a.cfg.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	if err = c.Init(); err != nil {
		c.Close()
		return nil, fmt.Errorf("init RPC client: %w", err)
	}

	a.log.Debug("connected to Neo RPC server", zap.String("endpoint", endpoint))

	return &remoteBlockchain{rpc: c}, nil
}

// dialSigner is dial with the configured account attached to send
// transactions.
func (a *app) dialSigner(ctx context.Context) (*remoteBlockchain, error) {
	acc, err := signer.Load(a.cfg)
	if err != nil {
		return nil, fmt.Errorf("load signing account: %w", err)
	}

	b, err := a.dial(ctx)
	if err != nil {
		return nil, err
	}

	act, err := actor.NewSimple(b.rpc, acc)
	if err != nil {
		b.close()
		return nil, fmt.Errorf("init actor: %w", err)
	}

	b.acc = acc
	b.actor = act

	return b, nil
}

func (x *remoteBlockchain) close() {
	x.rpc.Close()
}

// reader returns read-only client of the oracle contract.
func (x *remoteBlockchain) reader(contract util.Uint160) *oraclerpc.ContractReader {
	return oraclerpc.NewReader(invoker.New(x.rpc, nil), contract)
}

// oracle returns the oracle contract client signing with the connection
// account. Must be called on dialSigner results only.
func (x *remoteBlockchain) oracle(contract util.Uint160) *oraclerpc.Contract {
	return oraclerpc.New(x.actor, contract)
}

// iterateContractStorage iterates over all storage items of the Neo smart
// contract referenced by given address and passes them into f.
// iterateContractStorage breaks on any f's error and returns it.
func (x *remoteBlockchain) iterateContractStorage(contract util.Uint160, f func(key, value []byte) error) error {
	nLatestBlock, err := x.rpc.GetBlockCount()
	if err != nil {
		return fmt.Errorf("get number of the latest block: %w", err)
	}

	stateRoot, err := x.rpc.GetStateRootByHeight(nLatestBlock - 1)
	if err != nil {
		return fmt.Errorf("get state root at penult block #%d: %w", nLatestBlock-1, err)
	}

	var start []byte

	for {
		res, err := x.rpc.FindStates(stateRoot.Root, contract, nil, start, nil)
		if err != nil {
			return fmt.Errorf("get historical storage items of the requested contract at state root '%s': %w", stateRoot.Root, err)
		}

		for i := range res.Results {
			err = f(res.Results[i].Key, res.Results[i].Value)
			if err != nil {
				return err
			}
		}

		if !res.Truncated {
			return nil
		}

		start = res.Results[len(res.Results)-1].Key
	}
}
