package deploy

import (
	"context"
	"path/filepath"
	"time"

	"github.com/toolchainkit/libdeploy/pkg/config"
	"github.com/toolchainkit/libdeploy/pkg/logging"
	"github.com/toolchainkit/libdeploy/pkg/types"
)

// ELFDeployer deploys Linux shared objects. readelf supplies the NEEDED
// entries; versioned-symlink chains (libfoo.so.1 -> libfoo.so.1.2.3) are
// reproduced in the output directory. No post-copy fixup is required: the
// link step injects an $ORIGIN-relative search order.
type ELFDeployer struct {
	base
}

// NewELF creates the Linux deployer from its collaborators
func NewELF(arch string, cfg *config.Config, fs types.FS, detector types.Detector, classifier types.Classifier, locator types.Locator) *ELFDeployer {
	return &ELFDeployer{base{
		platform:   types.PlatformLinux,
		arch:       arch,
		cfg:        cfg,
		fs:         fs,
		detector:   detector,
		classifier: classifier,
		locator:    locator,
		logger:     logging.GetLogger("deploy.elf"),
	}}
}

// LibraryExtension returns ".so"
func (d *ELFDeployer) LibraryExtension() string {
	return ".so"
}

// Resolve computes the deployable closure without copying anything
func (d *ELFDeployer) Resolve(ctx context.Context, artifactPath string) *types.Plan {
	return d.resolve(ctx, d.detector.Detect(ctx, artifactPath))
}

// DeployAll resolves and deploys the artifact's deployable closure.
// Returns the number of libraries copied; zero is a valid outcome.
func (d *ELFDeployer) DeployAll(ctx context.Context, artifactPath string) int {
	defer logging.LogDuration(time.Now(), "deploy shared objects")

	if d.cfg.PlatformDisabled(d.platform) {
		d.logger.Debug().Msg("library deployment disabled by configuration")
		return 0
	}

	destDir := filepath.Dir(artifactPath)
	plan := d.Resolve(ctx, artifactPath)
	if len(plan.Libraries) == 0 {
		d.logger.Debug().Str("artifact", artifactPath).Msg("no deployable dependencies found")
		return 0
	}

	deployed := 0
	for _, lib := range plan.Libraries {
		if d.DeployLibrary(ctx, lib.Ref, destDir) {
			deployed++
		}
	}

	if deployed > 0 {
		d.logger.Info().Int("count", deployed).Str("artifact", filepath.Base(artifactPath)).
			Msg("deployed shared libraries")
	}
	return deployed
}

// DeployLibrary copies one library next to the artifact and recreates the
// reference-name symlink when the toolchain ships the library behind a
// versioned link.
func (d *ELFDeployer) DeployLibrary(_ context.Context, ref string, destDir string) bool {
	copied, realName, ok := d.deployOne(ref, destDir)
	if !ok {
		return false
	}
	d.ensureRefSymlink(refFilename(ref), realName, destDir)
	return copied
}
