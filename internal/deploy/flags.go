package deploy

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/compose-network/crossdeploy/configs"
)

const flagHubSpoke = "hub-spoke"

// flagDef defines a command-line flag with its configuration.
type (
	flagType interface {
		string | uint64 | bool
	}

	flagDef[T flagType] struct {
		name         string
		viperKey     string
		defaultValue T
		description  string
	}
)

// Flag defaults come from the embedded config.example.yaml, so the shipped
// example and the built-in behaviour cannot drift apart.
var (
	defaults = configs.MustDefaultConfig().Deploy

	stringFlags = []flagDef[string]{
		{"artifacts-file", "deploy.artifacts-file", defaults.ArtifactsFile, "Compiled contracts JSON file"},
		{"contracts-dir", "deploy.contracts-dir", defaults.ContractsDir, "Forge project root for the compile command"},
		{"output-dir", "deploy.output-dir", defaults.OutputDir, "Directory for per-run deployment records"},
		{"proxy-init-code-hash", "deploy.proxy-init-code-hash", defaults.ProxyInitCodeHash,
			"keccak256 of the factory's deployment proxy init code (must match the factory build)"},
	}

	uint64Flags = []flagDef[uint64]{
		{"fallback-gas-limit", "deploy.fallback-gas-limit", defaults.FallbackGasLimit, "Gas limit used when estimation fails"},
	}
)

func init() {
	commands := []*cobra.Command{CMD, HubSpokeCMD, ComputeAddressCMD, CompileCMD}
	for _, cmd := range commands {
		declareFlags(cmd, stringFlags)
		declareFlags(cmd, uint64Flags)
	}

	ComputeAddressCMD.Flags().Bool(flagHubSpoke, false, "Compute the proxy-scheme (hub-and-spoke) address")
}

// declareFlags declares flags on a command. Binding to viper happens at run
// time via bindFlags, so the same keys can exist on several commands.
func declareFlags[T flagType](cmd *cobra.Command, flags []flagDef[T]) {
	for _, flag := range flags {
		var zero T
		switch any(zero).(type) {
		case string:
			cmd.Flags().String(flag.name, any(flag.defaultValue).(string), flag.description)
		case uint64:
			cmd.Flags().Uint64(flag.name, any(flag.defaultValue).(uint64), flag.description)
		case bool:
			cmd.Flags().Bool(flag.name, any(flag.defaultValue).(bool), flag.description)
		}
	}
}

// bindFlags binds the executed command's flags to their viper keys and
// refreshes the decoded configuration.
func bindFlags(cmd *cobra.Command) error {
	for _, flag := range stringFlags {
		if err := viper.BindPFlag(flag.viperKey, cmd.Flags().Lookup(flag.name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag.name, err)
		}
	}
	for _, flag := range uint64Flags {
		if err := viper.BindPFlag(flag.viperKey, cmd.Flags().Lookup(flag.name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag.name, err)
		}
	}

	if err := viper.Unmarshal(&configs.Values); err != nil {
		return fmt.Errorf("unable to decode application config: %w", err)
	}

	return nil
}
