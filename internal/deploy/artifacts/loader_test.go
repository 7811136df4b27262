package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureJSON = `{
  "Counter": {
    "abi": [{"type":"constructor","inputs":[{"name":"start","type":"uint256"}]}],
    "bytecode": "0x6080604052348015600f57600080fd5b50603f80601d6000396000f3fe"
  },
  "Empty": {
    "abi": [],
    "bytecode": "0x6000"
  }
}`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadParsesArtifacts(t *testing.T) {
	store, err := Load(writeFixture(t, fixtureJSON))
	require.NoError(t, err)
	require.Len(t, store, 2)

	counter, err := store.Get("Counter")
	require.NoError(t, err)
	assert.NotEmpty(t, counter.Bytecode)
	assert.Len(t, counter.ABI.Constructor.Inputs, 1)

	empty, err := store.Get("Empty")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x00}, empty.Bytecode)
}

func TestGetMissingArtifact(t *testing.T) {
	store, err := Load(writeFixture(t, fixtureJSON))
	require.NoError(t, err)

	_, err = store.Get("Unknown")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "Unknown")
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	_, err := Load(writeFixture(t, "{not json"))
	require.Error(t, err)
}

func TestLoadRejectsEmptyBytecode(t *testing.T) {
	_, err := Load(writeFixture(t, `{"Broken": {"abi": [], "bytecode": "0x"}}`))
	require.Error(t, err)
}

// Bytecode with non-hex characters must fail the load, not decode to a
// silently truncated payload.
func TestLoadRejectsMalformedBytecode(t *testing.T) {
	_, err := Load(writeFixture(t, `{"Broken": {"abi": [], "bytecode": "0x6080zz52"}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed bytecode for Broken")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
