package deploy

import (
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/toolchainkit/libdeploy/pkg/classify"
	"github.com/toolchainkit/libdeploy/pkg/config"
	"github.com/toolchainkit/libdeploy/pkg/inspect"
	"github.com/toolchainkit/libdeploy/pkg/locate"
	"github.com/toolchainkit/libdeploy/pkg/logging"
	"github.com/toolchainkit/libdeploy/pkg/paths"
	"github.com/toolchainkit/libdeploy/pkg/types"
)

// NormalizePlatform maps platform aliases onto the canonical names.
// Surrounding whitespace and case are ignored. Returns "" for an
// unrecognized platform.
func NormalizePlatform(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "windows", "win", "win32":
		return types.PlatformWindows
	case "linux":
		return types.PlatformLinux
	case "darwin", "macos":
		return types.PlatformDarwin
	default:
		return ""
	}
}

// SupportedPlatforms lists the canonical platform names with a deployer
func SupportedPlatforms() []string {
	return []string{types.PlatformWindows, types.PlatformLinux, types.PlatformDarwin}
}

// IsSupported reports whether a platform name or alias has a deployer
func IsSupported(name string) bool {
	return NormalizePlatform(name) != ""
}

// New creates the deployer for the given platform name or alias, wiring the
// real filesystem and tool runners. Returns (nil, false) for an
// unrecognized platform; callers treat "no deployer" as "skip deployment".
func New(platformName, arch string, cfg *config.Config, fs types.FS) (types.Deployer, bool) {
	runner := inspect.NewExecRunner(time.Duration(cfg.Tools.TimeoutSeconds) * time.Second)
	signRunner := inspect.NewExecRunner(time.Duration(cfg.Tools.CodesignTimeoutSeconds) * time.Second)
	return NewWithRunners(platformName, arch, cfg, fs, runner, signRunner)
}

// NewWithRunners is New with injectable tool runners
func NewWithRunners(platformName, arch string, cfg *config.Config, fs types.FS, runner, signRunner types.Runner) (types.Deployer, bool) {
	platform := NormalizePlatform(platformName)
	if platform == "" {
		logger := logging.GetLogger("deploy.factory")
		logger.Warn().
			Str("platform", platformName).Msg("unsupported platform for library deployment")
		return nil, false
	}

	toolchain, err := paths.New(cfg.Toolchain.Root, fs)
	if err != nil {
		logger := logging.GetLogger("deploy.factory")
		logger.Warn().Err(err).Msg("cannot resolve toolchain root")
		return nil, false
	}

	classifier := classify.New(platform, cfg.Rules(platform))
	locator := locate.New(platform, arch, toolchain, cfg.Rules(platform), fs)

	switch platform {
	case types.PlatformWindows:
		objdump := filepath.Join(toolchain.BinDir(), objdumpName())
		detector := inspect.NewPEDetector(runner, fs, objdump)
		return NewWindows(arch, cfg, fs, detector, classifier, locator), true
	case types.PlatformLinux:
		return NewELF(arch, cfg, fs, inspect.NewELFDetector(runner), classifier, locator), true
	case types.PlatformDarwin:
		return NewMachO(arch, cfg, fs, inspect.NewMachODetector(runner), classifier, locator, runner, signRunner), true
	}
	return nil, false
}

func objdumpName() string {
	if runtime.GOOS == "windows" {
		return "llvm-objdump.exe"
	}
	return "llvm-objdump"
}
