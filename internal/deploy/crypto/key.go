package crypto

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const privateKeyEnvVar = "PRIVATE_KEY"

// ErrMissingPrivateKey is returned when the PRIVATE_KEY environment
// variable is absent. Checked before any network interaction.
var ErrMissingPrivateKey = errors.New("PRIVATE_KEY environment variable is not set")

// PrivateKeyFromEnv reads and parses the deployer key from PRIVATE_KEY.
func PrivateKeyFromEnv() (*ecdsa.PrivateKey, error) {
	raw := os.Getenv(privateKeyEnvVar)
	if raw == "" {
		return nil, ErrMissingPrivateKey
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(raw, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return privateKey, nil
}

// AddressFromPrivateKey derives the Ethereum address of a private key
func AddressFromPrivateKey(privateKey *ecdsa.PrivateKey) (common.Address, error) {
	publicKeyECDSA, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return common.Address{}, fmt.Errorf("failed to cast public key to ECDSA")
	}

	return crypto.PubkeyToAddress(*publicKeyECDSA), nil
}
