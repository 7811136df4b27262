package artifacts

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ErrNotFound is returned when no compiled output exists for a named
// contract. It is fatal: deployment cannot proceed without init code.
var ErrNotFound = errors.New("compiled artifact not found")

type (
	// Compiled holds the ABI and creation bytecode of one contract, as
	// produced by the compile step. Loaded fresh per run, never persisted.
	Compiled struct {
		ABI      abi.ABI
		RawABI   string
		Bytecode []byte
	}

	// Store gives access to compiled artifacts by contract name.
	Store map[string]Compiled
)

// Get returns the artifact for the named contract.
func (s Store) Get(name string) (Compiled, error) {
	artifact, ok := s[name]
	if !ok {
		return Compiled{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	return artifact, nil
}
