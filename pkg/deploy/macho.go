package deploy

import (
	"context"
	"path/filepath"
	"time"

	"github.com/toolchainkit/libdeploy/pkg/config"
	"github.com/toolchainkit/libdeploy/pkg/logging"
	"github.com/toolchainkit/libdeploy/pkg/types"
)

// MachODeployer deploys macOS dylibs. Beyond copying, it rewrites the
// artifact's recorded dependency paths to @loader_path/<filename> with
// install_name_tool and re-signs the artifact ad hoc: any post-link
// mutation invalidates the existing signature. A failed re-sign is logged
// and tolerated; an unsigned binary still runs locally.
type MachODeployer struct {
	base
	runner     types.Runner
	signRunner types.Runner
}

// NewMachO creates the macOS deployer from its collaborators. signRunner
// carries the longer codesign timeout.
func NewMachO(arch string, cfg *config.Config, fs types.FS, detector types.Detector, classifier types.Classifier, locator types.Locator, runner, signRunner types.Runner) *MachODeployer {
	return &MachODeployer{
		base: base{
			platform:   types.PlatformDarwin,
			arch:       arch,
			cfg:        cfg,
			fs:         fs,
			detector:   detector,
			classifier: classifier,
			locator:    locator,
			logger:     logging.GetLogger("deploy.macho"),
		},
		runner:     runner,
		signRunner: signRunner,
	}
}

// LibraryExtension returns ".dylib"
func (d *MachODeployer) LibraryExtension() string {
	return ".dylib"
}

// Resolve computes the deployable closure without copying anything
func (d *MachODeployer) Resolve(ctx context.Context, artifactPath string) *types.Plan {
	return d.resolve(ctx, d.detector.Detect(ctx, artifactPath))
}

// DeployAll resolves and deploys the artifact's deployable closure, then
// rewrites the artifact's dependency records and re-signs it.
// Returns the number of dylibs copied; zero is a valid outcome.
func (d *MachODeployer) DeployAll(ctx context.Context, artifactPath string) int {
	defer logging.LogDuration(time.Now(), "deploy dylibs")

	if d.cfg.PlatformDisabled(d.platform) {
		d.logger.Debug().Msg("dylib deployment disabled by configuration")
		return 0
	}

	destDir := filepath.Dir(artifactPath)
	plan := d.Resolve(ctx, artifactPath)
	if len(plan.Libraries) == 0 {
		d.logger.Debug().Str("artifact", artifactPath).Msg("no deployable dependencies found")
		return 0
	}

	deployed := 0
	var fixups []types.ResolvedLibrary
	for _, lib := range plan.Libraries {
		if d.DeployLibrary(ctx, lib.Ref, destDir) {
			deployed++
			fixups = append(fixups, lib)
		}
	}

	// Rewrite the artifact's own records from the original reference form
	// to @loader_path, then re-sign once
	for _, lib := range fixups {
		d.fixInstallName(ctx, artifactPath, lib.Ref, "@loader_path/"+lib.Filename())
	}
	if len(fixups) > 0 {
		d.resign(ctx, artifactPath)
	}

	if deployed > 0 {
		d.logger.Info().Int("count", deployed).Str("artifact", filepath.Base(artifactPath)).
			Msg("deployed dylibs")
	}
	return deployed
}

// DeployLibrary copies one dylib next to the artifact, reproduces any
// versioned-symlink name, and re-signs the fresh copy.
func (d *MachODeployer) DeployLibrary(ctx context.Context, ref string, destDir string) bool {
	copied, realName, ok := d.deployOne(ref, destDir)
	if !ok {
		return false
	}
	d.ensureRefSymlink(refFilename(ref), realName, destDir)

	if copied {
		// The copy carries the toolchain's signature, which may not cover
		// the new location once install names are rewritten
		dest := filepath.Join(destDir, realName)
		d.fixInstallName(ctx, dest, ref, "@loader_path/"+realName)
		d.resign(ctx, dest)
	}
	return copied
}

// fixInstallName rewrites one recorded dependency path inside binaryPath
func (d *MachODeployer) fixInstallName(ctx context.Context, binaryPath, oldPath, newPath string) {
	if oldPath == newPath {
		return
	}
	_, err := d.runner.Run(ctx, "install_name_tool", "-change", oldPath, newPath, binaryPath)
	if err != nil {
		d.logger.Warn().Err(err).Str("binary", binaryPath).Msg("install_name_tool failed")
		return
	}
	d.logger.Debug().Str("old", oldPath).Str("new", newPath).Msg("rewrote install name")
}

// resign applies an ad-hoc signature after mutation. Distribution signing
// is a release concern, not a build concern.
func (d *MachODeployer) resign(ctx context.Context, binaryPath string) {
	_, err := d.signRunner.Run(ctx, "codesign", "-s", "-", "--force", binaryPath)
	if err != nil {
		d.logger.Warn().Err(err).Str("binary", binaryPath).Msg("re-signing failed, binary left unsigned")
		return
	}
	d.logger.Debug().Str("binary", filepath.Base(binaryPath)).Msg("re-signed")
}
