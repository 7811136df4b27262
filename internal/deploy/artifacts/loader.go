package artifacts

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Load reads a compiled-contracts JSON file (as written by the compile
// command) and parses every entry into a Compiled artifact.
func Load(path string) (Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compiled contracts: %w", err)
	}

	return parse(data)
}

// parse parses contract JSON data into a Store
func parse(data []byte) (Store, error) {
	var result map[string]struct {
		ABI      json.RawMessage `json:"abi"`
		Bytecode string          `json:"bytecode"`
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse compiled contracts: %w", err)
	}

	store := make(Store, len(result))

	for name, contract := range result {
		parsedABI, err := abi.JSON(strings.NewReader(string(contract.ABI)))
		if err != nil {
			return nil, fmt.Errorf("failed to parse ABI for %s: %w", name, err)
		}

		bytecodeHex := strings.TrimPrefix(contract.Bytecode, "0x")
		bytecode, err := hex.DecodeString(bytecodeHex)
		if err != nil {
			return nil, fmt.Errorf("malformed bytecode for %s: %w", name, err)
		}
		if len(bytecode) == 0 {
			return nil, fmt.Errorf("empty bytecode for %s", name)
		}

		store[name] = Compiled{
			ABI:      parsedABI,
			RawABI:   string(contract.ABI),
			Bytecode: bytecode,
		}
	}

	return store, nil
}
