package artifacts

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// InitCode returns the creation payload for this artifact: the compiled
// bytecode with the ABI-encoded constructor arguments appended. An empty
// argument list encodes to an empty byte string, leaving the init code
// equal to the raw bytecode.
func (c Compiled) InitCode(constructorArgs []any) ([]byte, error) {
	encoded, err := encodeConstructorArgs(c.ABI, constructorArgs)
	if err != nil {
		return nil, err
	}

	initCode := make([]byte, 0, len(c.Bytecode)+len(encoded))
	initCode = append(initCode, c.Bytecode...)
	initCode = append(initCode, encoded...)

	return initCode, nil
}

// encodeConstructorArgs ABI-encodes constructor arguments. The values come
// straight from JSON decoding, so numbers arrive as float64 and addresses,
// byte strings and big integers as strings; each is coerced to the Go type
// the abi package expects for the declared input type.
func encodeConstructorArgs(contractABI abi.ABI, args []any) ([]byte, error) {
	inputs := contractABI.Constructor.Inputs

	if len(args) == 0 && len(inputs) == 0 {
		return nil, nil
	}
	if len(args) != len(inputs) {
		return nil, fmt.Errorf("constructor expects %d arguments, got %d", len(inputs), len(args))
	}

	converted := make([]any, len(args))
	for i, input := range inputs {
		value, err := coerce(input.Type, args[i])
		if err != nil {
			return nil, fmt.Errorf("constructor argument %d (%s): %w", i, input.Type.String(), err)
		}
		converted[i] = value
	}

	encoded, err := inputs.Pack(converted...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments: %w", err)
	}

	return encoded, nil
}

func coerce(target abi.Type, value any) (any, error) {
	switch target.T {
	case abi.AddressTy:
		text, ok := value.(string)
		if !ok || !common.IsHexAddress(text) {
			return nil, fmt.Errorf("expected hex address, got %v", value)
		}
		return common.HexToAddress(text), nil

	case abi.UintTy, abi.IntTy:
		return coerceInteger(target, value)

	case abi.BoolTy:
		parsed, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %v", value)
		}
		return parsed, nil

	case abi.StringTy:
		text, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %v", value)
		}
		return text, nil

	case abi.BytesTy:
		text, ok := value.(string)
		if !ok || !strings.HasPrefix(text, "0x") {
			return nil, fmt.Errorf("expected 0x-prefixed hex string, got %v", value)
		}
		return common.FromHex(text), nil

	case abi.FixedBytesTy:
		text, ok := value.(string)
		if !ok || !strings.HasPrefix(text, "0x") {
			return nil, fmt.Errorf("expected 0x-prefixed hex string, got %v", value)
		}
		decoded := common.FromHex(text)
		if len(decoded) != target.Size {
			return nil, fmt.Errorf("expected %d bytes, got %d", target.Size, len(decoded))
		}
		if target.Size == 32 {
			var fixed [32]byte
			copy(fixed[:], decoded)
			return fixed, nil
		}
		return nil, fmt.Errorf("unsupported fixed-bytes width %d", target.Size)

	default:
		return nil, fmt.Errorf("unsupported constructor argument type %s", target.String())
	}
}

func coerceInteger(target abi.Type, value any) (any, error) {
	parsed, err := parseBigInt(value)
	if err != nil {
		return nil, err
	}

	// Range-check against the declared width before any conversion: a
	// truncated argument would silently change the init code and land the
	// contract at a different address than the operator configured.
	if target.T == abi.UintTy {
		if parsed.Sign() < 0 || parsed.BitLen() > target.Size {
			return nil, fmt.Errorf("value %s out of range for uint%d", parsed, target.Size)
		}
	} else if !fitsSigned(parsed, target.Size) {
		return nil, fmt.Errorf("value %s out of range for int%d", parsed, target.Size)
	}

	if target.Size > 64 {
		return parsed, nil
	}

	if target.T == abi.UintTy {
		raw := parsed.Uint64()
		switch target.Size {
		case 8:
			return uint8(raw), nil
		case 16:
			return uint16(raw), nil
		case 32:
			return uint32(raw), nil
		case 64:
			return raw, nil
		}
	} else {
		raw := parsed.Int64()
		switch target.Size {
		case 8:
			return int8(raw), nil
		case 16:
			return int16(raw), nil
		case 32:
			return int32(raw), nil
		case 64:
			return raw, nil
		}
	}

	return nil, fmt.Errorf("unsupported integer width %d", target.Size)
}

// fitsSigned reports whether v lies within [-2^(bits-1), 2^(bits-1)-1].
func fitsSigned(v *big.Int, bits int) bool {
	limit := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	max := new(big.Int).Sub(limit, big.NewInt(1))
	min := new(big.Int).Neg(limit)

	return v.Cmp(min) >= 0 && v.Cmp(max) <= 0
}

func parseBigInt(value any) (*big.Int, error) {
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("expected integer, got %v", v)
		}
		// big.Float carries the value exactly, including integers that
		// do not fit in int64.
		parsed, _ := new(big.Float).SetFloat64(v).Int(nil)
		return parsed, nil
	case string:
		base := 10
		text := v
		if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
			base = 16
			text = text[2:]
		}
		parsed, ok := new(big.Int).SetString(text, base)
		if !ok {
			return nil, fmt.Errorf("malformed integer %q", v)
		}
		return parsed, nil
	case *big.Int:
		return v, nil
	default:
		return nil, fmt.Errorf("expected integer, got %T", value)
	}
}
