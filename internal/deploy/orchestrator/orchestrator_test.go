package orchestrator

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compose-network/crossdeploy/internal/deploy/addresses"
	"github.com/compose-network/crossdeploy/internal/deploy/artifacts"
	"github.com/compose-network/crossdeploy/internal/deploy/factory"
	"github.com/compose-network/crossdeploy/internal/deploy/request"
	"github.com/compose-network/crossdeploy/internal/deploy/salt"
)

const (
	devKeyHex        = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	fallbackGasLimit = uint64(6_000_000)
	estimatedGas     = uint64(123_456)
)

var (
	factoryAddr = common.HexToAddress("0x5FbDB2315678AfecB367f032d93F642f64180aa3")
	testConfig  = Config{
		FallbackGasLimit:  fallbackGasLimit,
		ProxyInitCodeHash: addresses.DefaultProxyInitCodeHash,
	}
)

// mockBackend counts every RPC call and replays a canned receipt.
type mockBackend struct {
	estimateErr error
	receipt     *types.Receipt
	sent        []*types.Transaction
	calls       int
}

func (m *mockBackend) ChainID(context.Context) (*big.Int, error) {
	m.calls++
	return big.NewInt(31337), nil
}

func (m *mockBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	m.calls++
	return 7, nil
}

func (m *mockBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	m.calls++
	return big.NewInt(1_000_000_000), nil
}

func (m *mockBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	m.calls++
	if m.estimateErr != nil {
		return 0, m.estimateErr
	}
	return estimatedGas, nil
}

func (m *mockBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	m.calls++
	m.sent = append(m.sent, tx)
	return nil
}

func (m *mockBackend) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	m.calls++
	return m.receipt, nil
}

func (m *mockBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	m.calls++
	return []byte{0x01}, nil
}

func deployedReceipt(deployed common.Address) *types.Receipt {
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		BlockNumber: big.NewInt(1),
		Logs: []*types.Log{{
			Address: factoryAddr,
			Topics: []common.Hash{
				crypto.Keccak256Hash([]byte("ContractDeployed(address,bytes32)")),
				common.BytesToHash(deployed.Bytes()),
			},
		}},
	}
}

func testOrchestrator(t *testing.T, backend Backend) *Orchestrator {
	t.Helper()
	key, err := crypto.HexToECDSA(devKeyHex)
	require.NoError(t, err)
	return New(backend, key, testConfig)
}

func testStore() artifacts.Store {
	return artifacts.Store{
		"Counter": {ABI: abi.ABI{}, Bytecode: []byte{0x60, 0x80, 0x60, 0x40}},
		"Hub":     {ABI: abi.ABI{}, Bytecode: []byte{0x60, 0x01}},
		"Spoke":   {ABI: abi.ABI{}, Bytecode: []byte{0x60, 0x02}},
	}
}

func testRequest() *request.Deployment {
	return &request.Deployment{
		Chains:          []uint64{1, 10},
		FactoryContract: factoryAddr,
		ContractName:    "Counter",
		Salt:            "mysalt",
		RPCURL:          "http://localhost:8545",
	}
}

func computedDirect(t *testing.T) common.Address {
	t.Helper()
	formatted, err := salt.Format("mysalt")
	require.NoError(t, err)
	return addresses.ComputeDirect(factoryAddr, formatted, []byte{0x60, 0x80, 0x60, 0x40})
}

func TestDeployHappyPath(t *testing.T) {
	computed := computedDirect(t)
	backend := &mockBackend{receipt: deployedReceipt(computed)}

	result, err := testOrchestrator(t, backend).Deploy(context.Background(), testRequest(), testStore())
	require.NoError(t, err)

	assert.True(t, result.Matched)
	assert.Equal(t, computed, result.ComputedAddress)
	assert.Equal(t, computed, result.ObservedAddress)
	require.Len(t, backend.sent, 1)
	assert.Equal(t, estimatedGas, backend.sent[0].Gas())
	assert.Equal(t, result.TxHash, backend.sent[0].Hash())
}

func TestDeployGasEstimationFallback(t *testing.T) {
	backend := &mockBackend{
		estimateErr: errors.New("execution reverted"),
		receipt:     deployedReceipt(computedDirect(t)),
	}

	result, err := testOrchestrator(t, backend).Deploy(context.Background(), testRequest(), testStore())
	require.NoError(t, err)
	assert.True(t, result.Matched)

	// Estimation failure must not abort the run; the submitted transaction
	// carries the fallback limit.
	require.Len(t, backend.sent, 1)
	assert.Equal(t, fallbackGasLimit, backend.sent[0].Gas())
}

func TestDeployMissingEventIsFatal(t *testing.T) {
	backend := &mockBackend{receipt: &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		BlockNumber: big.NewInt(1),
	}}

	result, err := testOrchestrator(t, backend).Deploy(context.Background(), testRequest(), testStore())
	require.ErrorIs(t, err, factory.ErrEventNotFound)
	assert.Nil(t, result)
	// The transaction was still submitted before verification failed.
	assert.Len(t, backend.sent, 1)
}

func TestDeployAddressMismatchIsWarningOnly(t *testing.T) {
	other := common.HexToAddress("0x000000000000000000000000000000000000dead")
	backend := &mockBackend{receipt: deployedReceipt(other)}

	result, err := testOrchestrator(t, backend).Deploy(context.Background(), testRequest(), testStore())
	require.NoError(t, err)

	assert.False(t, result.Matched)
	assert.Equal(t, other, result.ObservedAddress)
	assert.Equal(t, computedDirect(t), result.ComputedAddress)
}

func TestDeployMissingArtifactBeforeAnyRPC(t *testing.T) {
	backend := &mockBackend{}
	req := testRequest()
	req.ContractName = "Unknown"

	_, err := testOrchestrator(t, backend).Deploy(context.Background(), req, testStore())
	require.ErrorIs(t, err, artifacts.ErrNotFound)
	assert.Zero(t, backend.calls)
}

func TestDeployOversizeSaltBeforeAnyRPC(t *testing.T) {
	backend := &mockBackend{}
	req := testRequest()
	req.Salt = "this salt is far far far too long to fit into thirty-two bytes"

	_, err := testOrchestrator(t, backend).Deploy(context.Background(), req, testStore())
	require.ErrorIs(t, err, salt.ErrTooLong)
	assert.Zero(t, backend.calls)
}

func TestDeployRevertedTransaction(t *testing.T) {
	backend := &mockBackend{receipt: &types.Receipt{
		Status:      types.ReceiptStatusFailed,
		BlockNumber: big.NewInt(1),
	}}

	_, err := testOrchestrator(t, backend).Deploy(context.Background(), testRequest(), testStore())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reverted")
}

func TestDeployHubSpoke(t *testing.T) {
	formatted, err := salt.Format("mysalt")
	require.NoError(t, err)
	computed := addresses.ComputeProxied(factoryAddr, formatted, addresses.DefaultProxyInitCodeHash)

	backend := &mockBackend{receipt: deployedReceipt(computed)}
	req := &request.HubSpokeDeployment{
		SpokeChains:     []uint64{10, 42161},
		FactoryContract: factoryAddr,
		HubContract:     "Hub",
		SpokeContract:   "Spoke",
		Salt:            "mysalt",
		RPCURL:          "http://localhost:8545",
	}

	result, err := testOrchestrator(t, backend).DeployHubSpoke(context.Background(), req, testStore())
	require.NoError(t, err)

	assert.True(t, result.Matched)
	assert.Equal(t, computed, result.ComputedAddress)
	require.Len(t, backend.sent, 1)
}

// The hub-spoke computed address must not change when hub or spoke
// bytecode changes; only the direct scheme is bytecode-sensitive.
func TestDeployHubSpokeBytecodeIndependence(t *testing.T) {
	formatted, err := salt.Format("mysalt")
	require.NoError(t, err)
	computed := addresses.ComputeProxied(factoryAddr, formatted, addresses.DefaultProxyInitCodeHash)

	for _, store := range []artifacts.Store{
		testStore(),
		{
			"Hub":   {ABI: abi.ABI{}, Bytecode: []byte{0x11, 0x22, 0x33}},
			"Spoke": {ABI: abi.ABI{}, Bytecode: []byte{0x44, 0x55}},
		},
	} {
		backend := &mockBackend{receipt: deployedReceipt(computed)}
		req := &request.HubSpokeDeployment{
			SpokeChains:     []uint64{10},
			FactoryContract: factoryAddr,
			HubContract:     "Hub",
			SpokeContract:   "Spoke",
			Salt:            "mysalt",
			RPCURL:          "http://localhost:8545",
		}

		result, err := testOrchestrator(t, backend).DeployHubSpoke(context.Background(), req, store)
		require.NoError(t, err)
		assert.Equal(t, computed, result.ComputedAddress)
	}
}
