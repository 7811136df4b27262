// Package factory encodes calls to the on-chain deployment factory and
// decodes its receipts. The factory deploys locally and relays the same
// deployment to the requested remote chains; only the local leg is
// observable from here.
package factory

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/compose-network/crossdeploy/internal/deploy/salt"
)

// ErrEventNotFound is returned when a confirmed receipt carries no
// deployment event from the factory. The transaction may have succeeded at
// the chain level, but its effect cannot be confirmed, so this is fatal.
var ErrEventNotFound = errors.New("deployment event not found in receipt")

const rawABI = `[
	{"type":"function","name":"deploy","stateMutability":"payable","inputs":[
		{"name":"chainIds","type":"uint256[]"},
		{"name":"salt","type":"bytes32"},
		{"name":"initCode","type":"bytes"}
	],"outputs":[{"name":"deployed","type":"address"}]},
	{"type":"function","name":"deployHubSpoke","stateMutability":"payable","inputs":[
		{"name":"spokeChainIds","type":"uint256[]"},
		{"name":"salt","type":"bytes32"},
		{"name":"hubInitCode","type":"bytes"},
		{"name":"spokeInitCode","type":"bytes"}
	],"outputs":[{"name":"deployed","type":"address"}]},
	{"type":"event","name":"ContractDeployed","anonymous":false,"inputs":[
		{"name":"deployed","type":"address","indexed":true},
		{"name":"salt","type":"bytes32","indexed":false}
	]}
]`

var (
	deployerABI     abi.ABI
	deployedEventID common.Hash
)

func init() {
	parsed, err := abi.JSON(strings.NewReader(rawABI))
	if err != nil {
		panic(fmt.Sprintf("invalid factory ABI: %v", err))
	}
	deployerABI = parsed
	deployedEventID = parsed.Events["ContractDeployed"].ID
}

// PackDeploy builds calldata for the factory's single-bytecode entry point.
func PackDeploy(chainIDs []uint64, formatted salt.Formatted, initCode []byte) ([]byte, error) {
	data, err := deployerABI.Pack("deploy", toBigInts(chainIDs), [32]byte(formatted), initCode)
	if err != nil {
		return nil, fmt.Errorf("failed to pack deploy calldata: %w", err)
	}

	return data, nil
}

// PackDeployHubSpoke builds calldata for the hub-and-spoke entry point. The
// hub init code is deployed locally; the spoke init code is relayed to every
// spoke chain.
func PackDeployHubSpoke(spokeChainIDs []uint64, formatted salt.Formatted, hubInitCode, spokeInitCode []byte) ([]byte, error) {
	data, err := deployerABI.Pack("deployHubSpoke", toBigInts(spokeChainIDs), [32]byte(formatted), hubInitCode, spokeInitCode)
	if err != nil {
		return nil, fmt.Errorf("failed to pack deployHubSpoke calldata: %w", err)
	}

	return data, nil
}

// DeployedAddress extracts the locally deployed contract address from the
// factory's ContractDeployed event in the receipt.
func DeployedAddress(receipt *types.Receipt, factoryAddress common.Address) (common.Address, error) {
	for _, eventLog := range receipt.Logs {
		if eventLog.Address != factoryAddress {
			continue
		}
		if len(eventLog.Topics) < 2 || eventLog.Topics[0] != deployedEventID {
			continue
		}

		return common.BytesToAddress(eventLog.Topics[1].Bytes()), nil
	}

	return common.Address{}, fmt.Errorf("%w: factory %s", ErrEventNotFound, factoryAddress.Hex())
}

func toBigInts(chainIDs []uint64) []*big.Int {
	out := make([]*big.Int, len(chainIDs))
	for i, id := range chainIDs {
		out[i] = new(big.Int).SetUint64(id)
	}

	return out
}
