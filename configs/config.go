package configs

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var Values Config

type (
	Config struct {
		LogLevel string `mapstructure:"log-level"`
		Deploy   Deploy `mapstructure:"deploy"`
	}

	Deploy struct {
		// ArtifactsFile is the compiled-contracts JSON produced by the
		// compile command.
		ArtifactsFile string `mapstructure:"artifacts-file"`
		// ContractsDir is the forge project root the compile command runs in.
		ContractsDir string `mapstructure:"contracts-dir"`
		// OutputDir receives per-run deployment records.
		OutputDir string `mapstructure:"output-dir"`
		// FallbackGasLimit is used when gas estimation fails.
		FallbackGasLimit uint64 `mapstructure:"fallback-gas-limit"`
		// ProxyInitCodeHash is the keccak256 hash of the deployment proxy
		// shipped with the targeted factory build. It must be kept in
		// lock-step with that build.
		ProxyInitCodeHash string `mapstructure:"proxy-init-code-hash"`
	}
)

func (d *Deploy) Validate() error {
	var errs []error

	if d.ArtifactsFile == "" {
		errs = append(errs, errors.New("deploy.artifacts-file is required"))
	}
	if d.OutputDir == "" {
		errs = append(errs, errors.New("deploy.output-dir is required"))
	}
	if d.FallbackGasLimit == 0 {
		errs = append(errs, errors.New("deploy.fallback-gas-limit is required"))
	}
	if d.ProxyInitCodeHash == "" {
		errs = append(errs, errors.New("deploy.proxy-init-code-hash is required"))
	} else if len(common.FromHex(d.ProxyInitCodeHash)) != common.HashLength {
		errs = append(errs, errors.New("deploy.proxy-init-code-hash must be a 32-byte hex value"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("deploy configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}
