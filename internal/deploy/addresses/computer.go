package addresses

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/compose-network/crossdeploy/internal/deploy/salt"
)

// ProxyInitCodeHash is the keccak256 hash of the fixed deployment-proxy init
// code shipped with the factory contract. It must track the factory build:
// a stale hash silently yields wrong addresses with no local error, so it is
// carried as configuration rather than baked into the computation.
type ProxyInitCodeHash common.Hash

// DefaultProxyInitCodeHash matches the canonical CREATE3 proxy shipped with
// the current factory builds.
var DefaultProxyInitCodeHash = ProxyInitCodeHash(common.HexToHash(
	"0x21c35dbe1b344a2488cf3321d6ce542f8e9f305544ff09e4993a62319a497c1f",
))

// ComputeDirect returns the address a contract will occupy when deployed by
// the factory with the given salt and init code:
//
//	low20(keccak256(0xff ++ factory ++ salt ++ keccak256(initCode)))
//
// The result depends only on its inputs, never on chain identity, sender or
// block state, so chains deploying identical init code through factories at
// the same address converge on the same contract address.
func ComputeDirect(factory common.Address, formatted salt.Formatted, initCode []byte) common.Address {
	return crypto.CreateAddress2(factory, formatted, crypto.Keccak256(initCode))
}

// ComputeProxied returns the address shared by hub and spoke contracts with
// divergent bytecode. The factory first places a fixed proxy at a
// salt-derived address, and that proxy deploys the real contract as its
// first creation (nonce 1), so the final address depends only on the
// factory address and the salt.
func ComputeProxied(factory common.Address, formatted salt.Formatted, proxyHash ProxyInitCodeHash) common.Address {
	proxy := crypto.CreateAddress2(factory, formatted, proxyHash[:])
	return crypto.CreateAddress(proxy, 1)
}
