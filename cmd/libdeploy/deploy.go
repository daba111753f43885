package libdeploy

import (
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/toolchainkit/libdeploy/pkg/binfmt"
	"github.com/toolchainkit/libdeploy/pkg/config"
	"github.com/toolchainkit/libdeploy/pkg/deploy"
	deployerrors "github.com/toolchainkit/libdeploy/pkg/errors"
	"github.com/toolchainkit/libdeploy/pkg/filesystem"
	"github.com/toolchainkit/libdeploy/pkg/logging"
	"github.com/toolchainkit/libdeploy/pkg/types"
)

func newDeployCmd() *cobra.Command {
	var (
		platformFlag  string
		archFlag      string
		toolchainRoot string
		dryRun        bool
	)

	cmd := &cobra.Command{
		Use:   "deploy <binary>",
		Short: MsgDeployShort,
		Long:  MsgDeployLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.deploy")
			artifact := args[0]

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if toolchainRoot != "" {
				cfg.Toolchain.Root = toolchainRoot
			}

			fs := filesystem.NewOS()
			art, err := describeArtifact(fs, artifact, platformFlag, archFlag)
			if err != nil {
				return err
			}

			logger.Info().Str("artifact", art.Path).Str("platform", art.Platform).
				Str("arch", art.Arch).Str("kind", string(art.Kind)).
				Bool("dryRun", dryRun).Msg("Starting deploy")

			deployer, ok := deploy.New(art.Platform, art.Arch, cfg, fs)
			if !ok {
				return deployerrors.Newf(deployerrors.ErrUnknownPlatform,
					"no deployer for platform %q", art.Platform)
			}

			if dryRun {
				plan := deployer.Resolve(cmd.Context(), artifact)
				printPlan(artifact, plan)
				return nil
			}

			count := deployer.DeployAll(cmd.Context(), artifact)
			printDeployed(artifact, count)
			return nil
		},
	}

	cmd.Flags().StringVar(&platformFlag, "platform", "", MsgFlagPlatform)
	cmd.Flags().StringVar(&archFlag, "arch", "", MsgFlagArch)
	cmd.Flags().StringVar(&toolchainRoot, "toolchain-root", "", MsgFlagToolchainRoot)
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, MsgFlagDryRun)

	return cmd
}

// describeArtifact builds the artifact descriptor from the flags, falling
// back to extension and magic-byte identification for the platform.
func describeArtifact(fs types.FS, path, platformFlag, archFlag string) (types.Artifact, error) {
	art := types.Artifact{
		Path: path,
		Arch: normalizeArch(archFlag),
		Kind: types.KindUnknown,
	}

	if platformFlag != "" {
		if !deploy.IsSupported(platformFlag) {
			return art, deployerrors.Newf(deployerrors.ErrUnknownPlatform,
				"unsupported platform %q (expected windows, linux, or darwin)", platformFlag)
		}
		art.Platform = deploy.NormalizePlatform(platformFlag)
		return art, nil
	}

	platform, kind, err := binfmt.DetectFile(fs, path)
	if err != nil {
		return art, err
	}
	art.Platform = platform
	art.Kind = kind
	return art, nil
}

func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func printPlan(artifact string, plan *types.Plan) {
	if len(plan.Libraries) == 0 {
		pterm.Info.Printfln("Nothing to deploy for %s", filepath.Base(artifact))
		return
	}

	if stdoutIsTerminal() {
		data := pterm.TableData{{"Library", "Source"}}
		for _, lib := range plan.Libraries {
			data = append(data, []string{lib.Ref, lib.RealPath})
		}
		_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	} else {
		for _, lib := range plan.Libraries {
			pterm.Printfln("%s <- %s", lib.Ref, lib.RealPath)
		}
	}
	pterm.Info.Printfln("Would deploy %d libraries next to %s", len(plan.Libraries), filepath.Base(artifact))
}

func printDeployed(artifact string, count int) {
	if count == 0 {
		pterm.Info.Printfln("No libraries deployed for %s (nothing needed or already up to date)", filepath.Base(artifact))
		return
	}
	pterm.Success.Printfln("Deployed %d libraries next to %s", count, filepath.Base(artifact))
}
