package contracts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nspcc-dev/neo-go/cli/smartcontract"
	"github.com/nspcc-dev/neo-go/pkg/compiler"
	"github.com/nspcc-dev/neo-go/pkg/config"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
)

// configName is the contract configuration file expected in the source
// directory.
const configName = "config.yml"

// Compile compiles Go contract located in srcDir. The directory must contain
// config.yml describing the manifest.
func Compile(srcDir string) (Contract, error) {
	var c Contract

	srcDir, err := filepath.Abs(srcDir)
	if err != nil {
		return c, err
	}

	conf, err := smartcontract.ParseContractConfig(filepath.Join(srcDir, configName))
	if err != nil {
		return c, fmt.Errorf("parse contract config: %w", err)
	}

	o := &compiler.Options{}
	o.Name = conf.Name
	o.ContractEvents = conf.Events
	o.ContractSupportedStandards = conf.SupportedStandards
	o.Permissions = make([]manifest.Permission, len(conf.Permissions))
	for i := range conf.Permissions {
		o.Permissions[i] = manifest.Permission(conf.Permissions[i])
	}
	o.SafeMethods = conf.SafeMethods

	// NEF compiler field is derived from the version.
	if config.Version == "" {
		config.Version = "0.102.0"
	}

	ne, di, err := compiler.CompileWithOptions(srcDir, nil, o)
	if err != nil {
		return c, fmt.Errorf("compile %s: %w", srcDir, err)
	}

	m, err := compiler.CreateManifest(di, o)
	if err != nil {
		return c, fmt.Errorf("create manifest: %w", err)
	}

	c.NEF = *ne
	c.Manifest = *m

	return c, nil
}

// Write stores the contract into dir in the layout expected by Read.
func Write(dir string, c Contract) error {
	bNEF, err := c.NEF.Bytes()
	if err != nil {
		return fmt.Errorf("encode NEF: %w", err)
	}

	jManifest, err := json.Marshal(&c.Manifest)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err = os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create contract dir: %w", err)
	}

	if err = os.WriteFile(filepath.Join(dir, nefName), bNEF, 0o644); err != nil {
		return fmt.Errorf("write NEF: %w", err)
	}

	if err = os.WriteFile(filepath.Join(dir, manifestName), jManifest, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}
