package deploy

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/compose-network/crossdeploy/configs"
	"github.com/compose-network/crossdeploy/internal/deploy/artifacts"
	"github.com/compose-network/crossdeploy/internal/deploy/request"
)

// CMD deploys one contract to the same address across chains.
var CMD = &cobra.Command{
	Use:   "deploy [configPath]",
	Short: "Deploy a contract deterministically across chains",
	Long: "Submits one transaction to the factory contract on the local chain, " +
		"which deploys the contract locally and relays the same deployment to every requested chain. " +
		"Without a config path, missing fields are filled in interactively.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd); err != nil {
			return err
		}
		if err := configs.Values.Deploy.Validate(); err != nil {
			return err
		}

		return newService(configs.Values.Deploy).runDeploy(cmd.Context(), sourceFromArgs(args))
	},
}

// HubSpokeCMD deploys a hub contract locally and a spoke contract to every
// spoke chain, all sharing one address.
var HubSpokeCMD = &cobra.Command{
	Use:   "deploy-hs [configPath]",
	Short: "Deploy hub and spoke contracts to one shared address across chains",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd); err != nil {
			return err
		}
		if err := configs.Values.Deploy.Validate(); err != nil {
			return err
		}

		return newService(configs.Values.Deploy).runDeployHubSpoke(cmd.Context(), sourceFromArgs(args))
	},
}

// ComputeAddressCMD predicts the deployment address without deploying.
var ComputeAddressCMD = &cobra.Command{
	Use:   "compute-address [configPath]",
	Short: "Compute the deterministic deployment address without deploying",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd); err != nil {
			return err
		}
		if err := configs.Values.Deploy.Validate(); err != nil {
			return err
		}

		hubSpoke, err := cmd.Flags().GetBool(flagHubSpoke)
		if err != nil {
			return err
		}

		address, err := newService(configs.Values.Deploy).computeAddress(sourceFromArgs(args), hubSpoke)
		if err != nil {
			return err
		}

		slog.With("address", address.Hex()).Info("computed deployment address")
		fmt.Fprintln(cmd.OutOrStdout(), address.Hex())

		return nil
	},
}

// CompileCMD compiles contracts with forge and writes contracts.json.
var CompileCMD = &cobra.Command{
	Use:   "compile [contractNames...]",
	Short: "Compile contracts and generate the compiled-artifacts file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd); err != nil {
			return err
		}

		cfg := configs.Values.Deploy
		if cfg.ContractsDir == "" {
			return fmt.Errorf("deploy.contracts-dir is required for compilation")
		}

		slog.With("contracts", strings.Join(args, ", ")).Info("starting contract compilation")

		compiler := artifacts.NewCompiler(cfg.ContractsDir, filepath.Dir(cfg.ArtifactsFile))
		if err := compiler.Compile(cmd.Context(), args); err != nil {
			return fmt.Errorf("contract compilation failed: %w", err)
		}

		return nil
	},
}

func sourceFromArgs(args []string) request.Source {
	if len(args) == 1 {
		return request.NewFileSource(args[0])
	}

	slog.Info("no config path given, prompting for deployment parameters")

	return request.NewInteractiveSource()
}
