// Package orchestrator sequences a deterministic cross-chain deployment:
// artifact preparation, constructor encoding, salt formatting, gas
// estimation with fallback, transaction submission, receipt confirmation
// and address verification. One invocation performs exactly one
// transaction; cross-chain fan-out happens inside the factory contract.
package orchestrator

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/compose-network/crossdeploy/internal/deploy/addresses"
	"github.com/compose-network/crossdeploy/internal/deploy/artifacts"
	deploycrypto "github.com/compose-network/crossdeploy/internal/deploy/crypto"
	"github.com/compose-network/crossdeploy/internal/deploy/factory"
	"github.com/compose-network/crossdeploy/internal/deploy/request"
	"github.com/compose-network/crossdeploy/internal/deploy/salt"
	"github.com/compose-network/crossdeploy/internal/logger"
)

type (
	// Config carries the tunables the pipeline needs beyond the request
	// itself.
	Config struct {
		// FallbackGasLimit is used when gas estimation fails. Estimation
		// failure is the pipeline's only recoverable condition.
		FallbackGasLimit uint64
		// ProxyInitCodeHash must match the proxy shipped with the targeted
		// factory build.
		ProxyInitCodeHash addresses.ProxyInitCodeHash
	}

	// Orchestrator runs the deployment pipeline against one backend with
	// one signing key.
	Orchestrator struct {
		backend Backend
		key     *ecdsa.PrivateKey
		cfg     Config
		logger  *slog.Logger
	}

	// Result reports the outcome of a completed run. Matched being false
	// is a warning, not a failure: the relayed deployments were already
	// submitted and every remote chain applies the same deterministic
	// formula.
	Result struct {
		TxHash          common.Hash
		ObservedAddress common.Address
		ComputedAddress common.Address
		Matched         bool
	}
)

// New creates an Orchestrator.
func New(backend Backend, key *ecdsa.PrivateKey, cfg Config) *Orchestrator {
	return &Orchestrator{
		backend: backend,
		key:     key,
		cfg:     cfg,
		logger:  logger.Named("orchestrator"),
	}
}

// Deploy runs a single-bytecode deployment: identical init code lands at
// the same address on every requested chain.
func (o *Orchestrator) Deploy(ctx context.Context, req *request.Deployment, store artifacts.Store) (*Result, error) {
	artifact, err := store.Get(req.ContractName)
	if err != nil {
		return nil, err
	}

	initCode, err := artifact.InitCode(req.ConstructorArgs)
	if err != nil {
		return nil, fmt.Errorf("failed to build init code for %s: %w", req.ContractName, err)
	}

	formatted, err := salt.Format(req.Salt)
	if err != nil {
		return nil, err
	}

	calldata, err := factory.PackDeploy(req.Chains, formatted, initCode)
	if err != nil {
		return nil, err
	}

	computed := addresses.ComputeDirect(req.FactoryContract, formatted, initCode)
	o.logger.
		With("contract", req.ContractName).
		With("chains", req.Chains).
		With("computed_address", computed.Hex()).
		Info("deploying contract across chains")

	return o.execute(ctx, req.FactoryContract, calldata, computed)
}

// DeployHubSpoke runs a hub-and-spoke deployment: the hub contract lands on
// the initiating chain and the spoke contract on every spoke chain, all at
// the proxy-derived address, which is independent of either bytecode.
func (o *Orchestrator) DeployHubSpoke(ctx context.Context, req *request.HubSpokeDeployment, store artifacts.Store) (*Result, error) {
	hub, err := store.Get(req.HubContract)
	if err != nil {
		return nil, err
	}
	spoke, err := store.Get(req.SpokeContract)
	if err != nil {
		return nil, err
	}

	hubInitCode, err := hub.InitCode(req.HubConstructorArgs)
	if err != nil {
		return nil, fmt.Errorf("failed to build init code for %s: %w", req.HubContract, err)
	}
	spokeInitCode, err := spoke.InitCode(req.SpokeConstructorArgs)
	if err != nil {
		return nil, fmt.Errorf("failed to build init code for %s: %w", req.SpokeContract, err)
	}

	formatted, err := salt.Format(req.Salt)
	if err != nil {
		return nil, err
	}

	calldata, err := factory.PackDeployHubSpoke(req.SpokeChains, formatted, hubInitCode, spokeInitCode)
	if err != nil {
		return nil, err
	}

	computed := addresses.ComputeProxied(req.FactoryContract, formatted, o.cfg.ProxyInitCodeHash)
	o.logger.
		With("hub", req.HubContract).
		With("spoke", req.SpokeContract).
		With("spoke_chains", req.SpokeChains).
		With("computed_address", computed.Hex()).
		Info("deploying hub and spoke contracts across chains")

	return o.execute(ctx, req.FactoryContract, calldata, computed)
}

// execute submits the factory call, blocks until the receipt arrives and
// verifies the observed address against the computed one.
func (o *Orchestrator) execute(ctx context.Context, factoryAddress common.Address, calldata []byte, computed common.Address) (*Result, error) {
	receipt, txHash, err := o.submit(ctx, factoryAddress, calldata)
	if err != nil {
		return nil, err
	}

	verification, err := o.verify(receipt, factoryAddress, computed)
	if err != nil {
		return nil, err
	}

	return &Result{
		TxHash:          txHash,
		ObservedAddress: verification.Observed,
		ComputedAddress: verification.Computed,
		Matched:         verification.Matched,
	}, nil
}

func (o *Orchestrator) submit(ctx context.Context, factoryAddress common.Address, calldata []byte) (*types.Receipt, common.Hash, error) {
	from, err := deploycrypto.AddressFromPrivateKey(o.key)
	if err != nil {
		return nil, common.Hash{}, err
	}

	chainID, err := o.backend.ChainID(ctx)
	if err != nil {
		return nil, common.Hash{}, fmt.Errorf("failed to get chain ID: %w", err)
	}

	nonce, err := o.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, common.Hash{}, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := o.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, common.Hash{}, fmt.Errorf("failed to get gas price: %w", err)
	}

	gasLimit, err := o.backend.EstimateGas(ctx, ethereum.CallMsg{
		From: from,
		To:   &factoryAddress,
		Data: calldata,
	})
	if err != nil {
		// Estimation failure is recoverable: continue with the fixed limit.
		gasLimit = o.cfg.FallbackGasLimit
		o.logger.
			With("err", err.Error()).
			With("fallback_gas_limit", gasLimit).
			Warn("gas estimation failed, using fallback gas limit")
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &factoryAddress,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     calldata,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), o.key)
	if err != nil {
		return nil, common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := o.backend.SendTransaction(ctx, signed); err != nil {
		return nil, common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	o.logger.With("tx_hash", signed.Hash().Hex()).Info("deployment transaction sent")

	// Blocks until a receipt is available. There is deliberately no
	// timeout: once submitted, the relay cannot be undone locally.
	receipt, err := bind.WaitMined(ctx, o.backend, signed)
	if err != nil {
		return nil, common.Hash{}, fmt.Errorf("failed to wait for transaction: %w", err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, common.Hash{}, fmt.Errorf("deployment transaction reverted with status %d", receipt.Status)
	}

	o.logger.With("block", receipt.BlockNumber).Info("deployment transaction confirmed")

	return receipt, signed.Hash(), nil
}
