package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, TestNet, cfg.Network)
	require.Equal(t, "https://testnet1.neo.coz.io:443", cfg.Endpoint())
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.Equal(t, "logs", cfg.LogDir)
	require.Equal(t, "https://api.deepseek.com/v1", cfg.LLM.BaseURL)
	require.Equal(t, "deepseek-chat", cfg.LLM.Model)
	require.EqualValues(t, 3, cfg.LLM.Retries)

	_, err = cfg.ContractHash()
	require.ErrorIs(t, err, ErrNoContract)

	require.Equal(t, "https://dora.coz.io/transaction/neo3/testnet/0xabcd", cfg.TxLink("abcd"))
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("SIBYL_NETWORK", "MainNet")
	t.Setenv("DEEPSEEK_API_KEY", "secret")
	t.Setenv("DEEPSEEK_TIMEOUT", "5s")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, MainNet, cfg.Network)
	require.Equal(t, "https://mainnet1.neo.coz.io:443", cfg.Endpoint())
	require.Equal(t, "secret", cfg.LLM.APIKey)
	require.Equal(t, 5*time.Second, cfg.LLM.Timeout)

	t.Setenv("SIBYL_RPC_ENDPOINT", "http://localhost:30333")
	cfg, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:30333", cfg.Endpoint())

	t.Setenv("SIBYL_NETWORK", "devnet")
	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	const key = "SIBYL_LOG_LEVEL"
	t.Setenv(key, "") // restores the original value on cleanup
	require.NoError(t, os.Unsetenv(key))
	t.Setenv("SIBYL_LOG_DIR", "/var/log/sibyl")

	f := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(f, []byte("SIBYL_LOG_LEVEL=debug\nSIBYL_LOG_DIR=ignored\n"), 0o600))

	cfg, err := Load(f)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "/var/log/sibyl", cfg.LogDir)
}

func TestParseAccount(t *testing.T) {
	u := util.Uint160{1, 2, 3, 4, 5}

	res, err := ParseAccount(address.Uint160ToString(u))
	require.NoError(t, err)
	require.Equal(t, u, res)

	res, err = ParseAccount(u.StringLE())
	require.NoError(t, err)
	require.Equal(t, u, res)

	res, err = ParseAccount("0x" + u.StringLE())
	require.NoError(t, err)
	require.Equal(t, u, res)

	_, err = ParseAccount("not an account")
	require.Error(t, err)

	cfg := Config{Contract: u.StringLE()}
	res, err = cfg.ContractHash()
	require.NoError(t, err)
	require.Equal(t, u, res)
}
