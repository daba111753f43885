package deploy

import (
	"context"
	"path/filepath"
	"time"

	"github.com/toolchainkit/libdeploy/pkg/config"
	"github.com/toolchainkit/libdeploy/pkg/logging"
	"github.com/toolchainkit/libdeploy/pkg/types"
)

// WindowsDeployer deploys MinGW and sanitizer runtime DLLs next to PE
// binaries. The DLL loader checks the executable's own directory first, so
// no post-copy fixup is needed. When the import-table dumper is unavailable
// or finds no deployable imports, a fixed heuristic runtime DLL list seeds
// the traversal instead, matching what a default GNU-ABI link pulls in.
type WindowsDeployer struct {
	base
	heuristic []string
}

// NewWindows creates the Windows deployer from its collaborators
func NewWindows(arch string, cfg *config.Config, fs types.FS, detector types.Detector, classifier types.Classifier, locator types.Locator) *WindowsDeployer {
	return &WindowsDeployer{
		base: base{
			platform:   types.PlatformWindows,
			arch:       arch,
			cfg:        cfg,
			fs:         fs,
			detector:   detector,
			classifier: classifier,
			locator:    locator,
			logger:     logging.GetLogger("deploy.windows"),
		},
		heuristic: cfg.Rules(types.PlatformWindows).Heuristic,
	}
}

// LibraryExtension returns ".dll"
func (d *WindowsDeployer) LibraryExtension() string {
	return ".dll"
}

// Resolve computes the deployable closure without copying anything
func (d *WindowsDeployer) Resolve(ctx context.Context, artifactPath string) *types.Plan {
	return d.resolve(ctx, d.seeds(ctx, artifactPath))
}

// DeployAll resolves and deploys the artifact's deployable closure.
// Returns the number of DLLs copied; zero is a valid outcome.
func (d *WindowsDeployer) DeployAll(ctx context.Context, artifactPath string) int {
	defer logging.LogDuration(time.Now(), "deploy runtime DLLs")

	if d.cfg.PlatformDisabled(d.platform) {
		d.logger.Debug().Msg("DLL deployment disabled by configuration")
		return 0
	}

	destDir := filepath.Dir(artifactPath)
	plan := d.Resolve(ctx, artifactPath)
	if len(plan.Libraries) == 0 {
		d.logger.Debug().Str("artifact", artifactPath).Msg("no deployable DLLs required")
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
			Msg("deployed runtime DLLs")
	}
	return deployed
}

// seeds returns the import-table result, or the heuristic list when the
// dumper produced nothing deployable (missing tool, parse failure, or an
// import table the dumper could not see into).
func (d *WindowsDeployer) seeds(ctx context.Context, artifactPath string) []string {
	imports := d.detector.Detect(ctx, artifactPath)
	for _, ref := range imports {
		if d.classifier.IsDeployable(ref) {
			return imports
		}
	}

	d.logger.Debug().Str("artifact", artifactPath).
		Msg("no deployable imports detected, using heuristic DLL list")
	return append([]string(nil), d.heuristic...)
}

// DeployLibrary copies one DLL next to the artifact. NTFS symlinks require
// elevation, so reference-name links are not created on Windows; runtime
// DLLs are imported by their real filename anyway.
func (d *WindowsDeployer) DeployLibrary(_ context.Context, ref string, destDir string) bool {
	copied, _, ok := d.deployOne(ref, destDir)
	return ok && copied
}
