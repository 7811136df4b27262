// Package request defines the validated deployment requests the
// orchestrator consumes. Requests come from a Source (file-backed or
// interactive); by the time one leaves this package every required field
// is present and well formed.
package request

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

type (
	// Deployment describes a single-bytecode cross-chain deployment: one
	// contract, identical init code on every target chain.
	Deployment struct {
		Chains          []uint64       `json:"chains"`
		FactoryContract common.Address `json:"factoryContract"`
		ContractName    string         `json:"contractName"`
		ConstructorArgs []any          `json:"constructorArgs"`
		Salt            string         `json:"salt"`
		RPCURL          string         `json:"rpcUrl"`
	}

	// HubSpokeDeployment describes a hub-and-spoke deployment: the hub
	// contract lands on the initiating chain and a different spoke
	// contract lands on every spoke chain, all at the same address.
	HubSpokeDeployment struct {
		Chains               []uint64       `json:"chains"`
		SpokeChains          []uint64       `json:"spokeChains"`
		FactoryContract      common.Address `json:"factoryContract"`
		HubContract          string         `json:"hubContract"`
		SpokeContract        string         `json:"spokeContract"`
		HubConstructorArgs   []any          `json:"hubConstructorArgs"`
		SpokeConstructorArgs []any          `json:"spokeConstructorArgs"`
		Salt                 string         `json:"salt"`
		RPCURL               string         `json:"rpcUrl"`
	}
)

// Validate checks all required fields and reports every problem at once.
func (r *Deployment) Validate() error {
	var errs []error

	errs = append(errs, validateChains(r.Chains, "chains")...)
	errs = append(errs, validateShared(r.FactoryContract, r.Salt, r.RPCURL)...)

	if r.ContractName == "" {
		errs = append(errs, errors.New("contractName is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("deployment request validation failed: %w", errors.Join(errs...))
	}

	return nil
}

// Validate checks all required fields and reports every problem at once.
// "chains" is accepted as an alias for "spokeChains".
func (r *HubSpokeDeployment) Validate() error {
	if len(r.SpokeChains) == 0 {
		r.SpokeChains = r.Chains
	}

	var errs []error

	errs = append(errs, validateChains(r.SpokeChains, "spokeChains")...)
	errs = append(errs, validateShared(r.FactoryContract, r.Salt, r.RPCURL)...)

	if r.HubContract == "" {
		errs = append(errs, errors.New("hubContract is required"))
	}
	if r.SpokeContract == "" {
		errs = append(errs, errors.New("spokeContract is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("hub-spoke deployment request validation failed: %w", errors.Join(errs...))
	}

	return nil
}

func validateChains(chains []uint64, field string) []error {
	var errs []error

	if len(chains) == 0 {
		errs = append(errs, fmt.Errorf("%s must not be empty", field))
	}
	for _, id := range chains {
		if id == 0 {
			errs = append(errs, fmt.Errorf("%s must contain positive chain ids", field))
			break
		}
	}

	return errs
}

func validateShared(factory common.Address, saltValue, rpcURL string) []error {
	var errs []error

	if factory == (common.Address{}) {
		errs = append(errs, errors.New("factoryContract is required"))
	}
	if saltValue == "" {
		errs = append(errs, errors.New("salt is required"))
	}
	if rpcURL == "" {
		errs = append(errs, errors.New("rpcUrl is required"))
	}

	return errs
}
