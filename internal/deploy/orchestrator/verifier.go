package orchestrator

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/compose-network/crossdeploy/internal/deploy/factory"
)

// Verification is the outcome of cross-checking the on-chain deployment
// against the precomputed address.
type Verification struct {
	Observed common.Address
	Computed common.Address
	Matched  bool
}

// verify extracts the deployed address from the receipt and compares it to
// the computed one. A missing deployment event is fatal; an address
// mismatch is only a warning, because every other chain independently
// applies the same deterministic formula and will still converge.
func (o *Orchestrator) verify(receipt *types.Receipt, factoryAddress, computed common.Address) (Verification, error) {
	observed, err := factory.DeployedAddress(receipt, factoryAddress)
	if err != nil {
		return Verification{}, err
	}

	matched := strings.EqualFold(observed.Hex(), computed.Hex())
	if matched {
		o.logger.
			With("address", observed.Hex()).
			Info("deployed address matches computed address")
	} else {
		o.logger.
			With("observed_address", observed.Hex()).
			With("computed_address", computed.Hex()).
			Warn("deployed address does not match computed address; remote chains will still converge on the computed formula")
	}

	return Verification{Observed: observed, Computed: computed, Matched: matched}, nil
}
