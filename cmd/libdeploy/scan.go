package libdeploy

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/toolchainkit/libdeploy/pkg/classify"
	"github.com/toolchainkit/libdeploy/pkg/config"
	"github.com/toolchainkit/libdeploy/pkg/deploy"
	deployerrors "github.com/toolchainkit/libdeploy/pkg/errors"
	"github.com/toolchainkit/libdeploy/pkg/filesystem"
	"github.com/toolchainkit/libdeploy/pkg/scan"
)

func newScanCmd() *cobra.Command {
	var (
		platformFlag  string
		archFlag      string
		toolchainRoot string
		format        string
	)

	cmd := &cobra.Command{
		Use:   "scan <binary>",
		Short: MsgScanShort,
		Long:  MsgScanLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			deployer, ok := deploy.New(art.Platform, art.Arch, cfg, fs)
			if !ok {
				return deployerrors.Newf(deployerrors.ErrUnknownPlatform,
					"no deployer for platform %q", art.Platform)
			}

			scanner := scan.New(deployer, classify.New(art.Platform, cfg.Rules(art.Platform)))
			report := scanner.Scan(cmd.Context(), artifact)

			switch format {
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				defer func() { _ = enc.Close() }()
				return enc.Encode(report)
			case "text", "":
				printReport(report)
				return nil
			default:
				return deployerrors.Newf(deployerrors.ErrInvalidInput,
					"unknown output format %q (expected text or yaml)", format)
			}
		},
	}

	cmd.Flags().StringVar(&platformFlag, "platform", "", MsgFlagPlatform)
	cmd.Flags().StringVar(&archFlag, "arch", "", MsgFlagArch)
	cmd.Flags().StringVar(&toolchainRoot, "toolchain-root", "", MsgFlagToolchainRoot)
	cmd.Flags().StringVar(&format, "format", "text", MsgFlagFormat)

	return cmd
}

func printReport(report *scan.Report) {
	if len(report.Dependencies) == 0 {
		pterm.Info.Printfln("No dynamic dependencies recorded in %s", report.Artifact)
		return
	}

	if stdoutIsTerminal() {
		data := pterm.TableData{{"Dependency", "Class"}}
		for _, dep := range report.Dependencies {
			data = append(data, []string{dep.Ref, dep.Class})
		}
		_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	} else {
		for _, dep := range report.Dependencies {
			pterm.Printfln("%s  %s", dep.Ref, dep.Class)
		}
	}

	if len(report.Deploy) == 0 {
		pterm.Info.Printfln("A deploy would copy nothing")
		return
	}
	pterm.Info.Printfln("A deploy would copy %d libraries:", len(report.Deploy))
	for _, lib := range report.Deploy {
		pterm.Printfln("  %s <- %s", lib.Ref, lib.Source)
	}
}
