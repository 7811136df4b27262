package deploy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/compose-network/crossdeploy/configs"
	"github.com/compose-network/crossdeploy/internal/deploy/addresses"
	"github.com/compose-network/crossdeploy/internal/deploy/artifacts"
	deploycrypto "github.com/compose-network/crossdeploy/internal/deploy/crypto"
	"github.com/compose-network/crossdeploy/internal/deploy/orchestrator"
	"github.com/compose-network/crossdeploy/internal/deploy/output"
	"github.com/compose-network/crossdeploy/internal/deploy/request"
	"github.com/compose-network/crossdeploy/internal/deploy/salt"
	"github.com/compose-network/crossdeploy/internal/logger"
)

type (
	dialFunc func(ctx context.Context, rpcURL string) (orchestrator.Backend, func(), error)

	// service wires a request source, the RPC backend and the orchestrator
	// together for one invocation.
	service struct {
		cfg    configs.Deploy
		dial   dialFunc
		logger *slog.Logger
	}
)

func newService(cfg configs.Deploy) *service {
	return &service{
		cfg:    cfg,
		dial:   dialBackend,
		logger: logger.Named("deploy"),
	}
}

func dialBackend(ctx context.Context, rpcURL string) (orchestrator.Backend, func(), error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}

	return client, client.Close, nil
}

// runDeploy performs a single-bytecode deployment end to end. The private
// key is resolved before anything else: without it no network call is made.
func (s *service) runDeploy(ctx context.Context, source request.Source) error {
	key, err := deploycrypto.PrivateKeyFromEnv()
	if err != nil {
		return err
	}

	req, err := source.Deployment()
	if err != nil {
		return err
	}

	store, err := artifacts.Load(s.cfg.ArtifactsFile)
	if err != nil {
		return err
	}

	backend, closeBackend, err := s.dial(ctx, req.RPCURL)
	if err != nil {
		return err
	}
	defer closeBackend()

	result, err := orchestrator.New(backend, key, s.orchestratorConfig()).Deploy(ctx, req, store)
	if err != nil {
		return err
	}

	record := output.Record{
		Contract:        req.ContractName,
		Chains:          req.Chains,
		Salt:            req.Salt,
		FactoryContract: req.FactoryContract.Hex(),
	}

	return s.finish(record, result)
}

// runDeployHubSpoke performs a hub-and-spoke deployment end to end.
func (s *service) runDeployHubSpoke(ctx context.Context, source request.Source) error {
	key, err := deploycrypto.PrivateKeyFromEnv()
	if err != nil {
		return err
	}

	req, err := source.HubSpokeDeployment()
	if err != nil {
		return err
	}

	store, err := artifacts.Load(s.cfg.ArtifactsFile)
	if err != nil {
		return err
	}

	backend, closeBackend, err := s.dial(ctx, req.RPCURL)
	if err != nil {
		return err
	}
	defer closeBackend()

	result, err := orchestrator.New(backend, key, s.orchestratorConfig()).DeployHubSpoke(ctx, req, store)
	if err != nil {
		return err
	}

	record := output.Record{
		HubContract:     req.HubContract,
		SpokeContract:   req.SpokeContract,
		Chains:          req.SpokeChains,
		Salt:            req.Salt,
		FactoryContract: req.FactoryContract.Hex(),
	}

	return s.finish(record, result)
}

// computeAddress predicts the deployment address offline, without touching
// the network or requiring a key.
func (s *service) computeAddress(source request.Source, hubSpoke bool) (common.Address, error) {
	if hubSpoke {
		req, err := source.HubSpokeDeployment()
		if err != nil {
			return common.Address{}, err
		}

		formatted, err := salt.Format(req.Salt)
		if err != nil {
			return common.Address{}, err
		}

		return addresses.ComputeProxied(req.FactoryContract, formatted, s.proxyInitCodeHash()), nil
	}

	req, err := source.Deployment()
	if err != nil {
		return common.Address{}, err
	}

	store, err := artifacts.Load(s.cfg.ArtifactsFile)
	if err != nil {
		return common.Address{}, err
	}

	artifact, err := store.Get(req.ContractName)
	if err != nil {
		return common.Address{}, err
	}

	initCode, err := artifact.InitCode(req.ConstructorArgs)
	if err != nil {
		return common.Address{}, err
	}

	formatted, err := salt.Format(req.Salt)
	if err != nil {
		return common.Address{}, err
	}

	return addresses.ComputeDirect(req.FactoryContract, formatted, initCode), nil
}

func (s *service) finish(record output.Record, result *orchestrator.Result) error {
	record.TxHash = result.TxHash.Hex()
	record.DeployedAddress = result.ObservedAddress.Hex()
	record.ComputedAddress = result.ComputedAddress.Hex()
	record.Matched = result.Matched

	path, err := output.NewWriter(s.cfg.OutputDir).Write(record)
	if err != nil {
		return err
	}
	s.logger.With("path", path).Info("deployment record written")

	if result.Matched {
		s.logger.
			With("address", result.ObservedAddress.Hex()).
			With("tx_hash", result.TxHash.Hex()).
			Info("deployment succeeded")
	} else {
		s.logger.
			With("observed_address", result.ObservedAddress.Hex()).
			With("computed_address", result.ComputedAddress.Hex()).
			With("tx_hash", result.TxHash.Hex()).
			Warn("deployment submitted, but the observed address differs from the computed one")
	}

	return nil
}

func (s *service) orchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		FallbackGasLimit:  s.cfg.FallbackGasLimit,
		ProxyInitCodeHash: s.proxyInitCodeHash(),
	}
}

func (s *service) proxyInitCodeHash() addresses.ProxyInitCodeHash {
	return addresses.ProxyInitCodeHash(common.HexToHash(s.cfg.ProxyInitCodeHash))
}
