package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/manifoldco/promptui"
)

// promptRunner is a variable for testing purposes to allow mocking prompt.Run()
var promptRunner = func(prompt promptui.Prompt) (string, error) {
	return prompt.Run()
}

// InteractiveSource fills a deployment request by prompting the operator
// for each field. Used when no config path is given on the command line.
type InteractiveSource struct{}

// NewInteractiveSource creates a prompt-backed Source.
func NewInteractiveSource() *InteractiveSource {
	return &InteractiveSource{}
}

// Deployment prompts for every field of a single-bytecode request.
func (s *InteractiveSource) Deployment() (*Deployment, error) {
	req := &Deployment{}
	var err error

	if req.Chains, err = captureChainIDs("Target chain ids (comma separated)"); err != nil {
		return nil, err
	}
	if req.FactoryContract, err = captureAddress("Factory contract address"); err != nil {
		return nil, err
	}
	if req.ContractName, err = captureString("Contract name"); err != nil {
		return nil, err
	}
	if req.ConstructorArgs, err = captureArgs("Constructor args (JSON array, empty for none)"); err != nil {
		return nil, err
	}
	if req.Salt, err = captureString("Salt"); err != nil {
		return nil, err
	}
	if req.RPCURL, err = captureString("RPC URL"); err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return req, nil
}

// HubSpokeDeployment prompts for every field of a hub-and-spoke request.
func (s *InteractiveSource) HubSpokeDeployment() (*HubSpokeDeployment, error) {
	req := &HubSpokeDeployment{}
	var err error

	if req.SpokeChains, err = captureChainIDs("Spoke chain ids (comma separated)"); err != nil {
		return nil, err
	}
	if req.FactoryContract, err = captureAddress("Factory contract address"); err != nil {
		return nil, err
	}
	if req.HubContract, err = captureString("Hub contract name"); err != nil {
		return nil, err
	}
	if req.HubConstructorArgs, err = captureArgs("Hub constructor args (JSON array, empty for none)"); err != nil {
		return nil, err
	}
	if req.SpokeContract, err = captureString("Spoke contract name"); err != nil {
		return nil, err
	}
	if req.SpokeConstructorArgs, err = captureArgs("Spoke constructor args (JSON array, empty for none)"); err != nil {
		return nil, err
	}
	if req.Salt, err = captureString("Salt"); err != nil {
		return nil, err
	}
	if req.RPCURL, err = captureString("RPC URL"); err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return req, nil
}

func captureString(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("value cannot be empty")
			}
			return nil
		},
	}

	value, err := promptRunner(prompt)
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	return strings.TrimSpace(value), nil
}

func captureAddress(label string) (common.Address, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if !common.IsHexAddress(strings.TrimSpace(input)) {
				return errors.New("not a valid hex address")
			}
			return nil
		},
	}

	value, err := promptRunner(prompt)
	if err != nil {
		return common.Address{}, fmt.Errorf("prompt failed: %w", err)
	}

	return common.HexToAddress(strings.TrimSpace(value)), nil
}

func captureChainIDs(label string) ([]uint64, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := parseChainIDs(input)
			return err
		},
	}

	value, err := promptRunner(prompt)
	if err != nil {
		return nil, fmt.Errorf("prompt failed: %w", err)
	}

	return parseChainIDs(value)
}

func captureArgs(label string) ([]any, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := parseArgs(input)
			return err
		},
	}

	value, err := promptRunner(prompt)
	if err != nil {
		return nil, fmt.Errorf("prompt failed: %w", err)
	}

	return parseArgs(value)
}

func parseChainIDs(input string) ([]uint64, error) {
	var ids []uint64
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid chain id %q", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, errors.New("at least one chain id is required")
	}

	return ids, nil
}

func parseArgs(input string) ([]any, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	var args []any
	if err := json.Unmarshal([]byte(input), &args); err != nil {
		return nil, fmt.Errorf("constructor args must be a JSON array: %w", err)
	}

	return args, nil
}
