// Package signer loads the account signing oracle transactions.
package signer

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/sibyl-oracle/sibyl-contract/internal/config"
)

const (
	secretKeyLen = 32
	// keypair is the secret key followed by the public one.
	keypairLen = 64
)

// Load returns unlocked account configured in cfg. Raw private key takes
// precedence over the wallet file.
func Load(cfg config.Config) (*wallet.Account, error) {
	if cfg.PrivateKey != "" {
		acc, err := FromBase58(cfg.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("decode private key: %w", err)
		}
		return acc, nil
	}

	acc, err := FromWallet(cfg.Wallet, cfg.WalletAddress, cfg.WalletPassword)
	if err != nil {
		return nil, fmt.Errorf("open wallet %s: %w", cfg.Wallet, err)
	}
	return acc, nil
}

// FromBase58 makes an account from base58 encoded raw private key. Both bare
// 32-byte secret keys and 64-byte keypairs are accepted.
func FromBase58(s string) (*wallet.Account, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, err
	}

	switch len(raw) {
	case secretKeyLen:
	case keypairLen:
		raw = raw[:secretKeyLen]
	default:
		return nil, fmt.Errorf("invalid key length %d", len(raw))
	}

	pk, err := keys.NewPrivateKeyFromBytes(raw)
	if err != nil {
		return nil, err
	}

	return wallet.NewAccountFromPrivateKey(pk), nil
}

// FromWallet opens NEP-6 wallet and decrypts the account with the given
// address, default account is used if addr is empty.
func FromWallet(path, addr, password string) (*wallet.Account, error) {
	w, err := wallet.NewWalletFromFile(path)
	if err != nil {
		return nil, err
	}

	var h util.Uint160
	if addr == "" {
		h = w.GetChangeAddress()
	} else if h, err = address.StringToUint160(addr); err != nil {
		return nil, fmt.Errorf("invalid address %s: %w", addr, err)
	}

	acc := w.GetAccount(h)
	if acc == nil {
		return nil, errors.New("account not found")
	}

	if err = acc.Decrypt(password, w.Scrypt); err != nil {
		return nil, fmt.Errorf("decrypt account: %w", err)
	}

	return acc, nil
}
