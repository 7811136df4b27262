package factory

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compose-network/crossdeploy/internal/deploy/salt"
)

var (
	factoryAddr = common.HexToAddress("0x5FbDB2315678AfecB367f032d93F642f64180aa3")
	deployed    = common.HexToAddress("0x000000000000000000000000000000000000beef")
)

func deployedLog(emitter, contract common.Address) *types.Log {
	return &types.Log{
		Address: emitter,
		Topics: []common.Hash{
			crypto.Keccak256Hash([]byte("ContractDeployed(address,bytes32)")),
			common.BytesToHash(contract.Bytes()),
		},
	}
}

func TestPackDeploySelectorAndShape(t *testing.T) {
	formatted, err := salt.Format("mysalt")
	require.NoError(t, err)

	data, err := PackDeploy([]uint64{1, 10, 42161}, formatted, []byte{0x60, 0x00})
	require.NoError(t, err)

	method, ok := deployerABI.Methods["deploy"]
	require.True(t, ok)
	assert.Equal(t, method.ID, data[:4])

	unpacked, err := method.Inputs.Unpack(data[4:])
	require.NoError(t, err)
	require.Len(t, unpacked, 3)
	assert.Equal(t, [32]byte(formatted), unpacked[1])
	assert.Equal(t, []byte{0x60, 0x00}, unpacked[2])
}

func TestPackDeployHubSpoke(t *testing.T) {
	formatted, err := salt.Format("mysalt")
	require.NoError(t, err)

	data, err := PackDeployHubSpoke([]uint64{10}, formatted, []byte{0x01}, []byte{0x02})
	require.NoError(t, err)

	method := deployerABI.Methods["deployHubSpoke"]
	assert.Equal(t, method.ID, data[:4])

	unpacked, err := method.Inputs.Unpack(data[4:])
	require.NoError(t, err)
	require.Len(t, unpacked, 4)
	assert.Equal(t, []byte{0x01}, unpacked[2])
	assert.Equal(t, []byte{0x02}, unpacked[3])
}

func TestDeployedAddressFromReceipt(t *testing.T) {
	receipt := &types.Receipt{
		Status: types.ReceiptStatusSuccessful,
		Logs: []*types.Log{
			// Unrelated log from another contract first.
			deployedLog(common.HexToAddress("0x01"), common.HexToAddress("0x02")),
			deployedLog(factoryAddr, deployed),
		},
	}

	got, err := DeployedAddress(receipt, factoryAddr)
	require.NoError(t, err)
	assert.Equal(t, deployed, got)
}

func TestDeployedAddressMissingEvent(t *testing.T) {
	receipt := &types.Receipt{Status: types.ReceiptStatusSuccessful}

	_, err := DeployedAddress(receipt, factoryAddr)
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestDeployedAddressIgnoresOtherEvents(t *testing.T) {
	otherTopic := crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))
	receipt := &types.Receipt{
		Status: types.ReceiptStatusSuccessful,
		Logs: []*types.Log{
			{Address: factoryAddr, Topics: []common.Hash{otherTopic, common.Hash{}}},
		},
	}

	_, err := DeployedAddress(receipt, factoryAddr)
	require.ErrorIs(t, err, ErrEventNotFound)
}
