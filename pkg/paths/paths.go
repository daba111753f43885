// Package paths provides centralized path handling for libdeploy.
// It resolves the installed toolchain's directory layout (binary directory,
// library tree, compiler resource directories) and the deployment search
// order derived from it.
package paths

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/adrg/xdg"

	"github.com/toolchainkit/libdeploy/pkg/errors"
	"github.com/toolchainkit/libdeploy/pkg/types"
)

// Environment variable names
const (
	// EnvToolchainRoot overrides the toolchain installation root
	EnvToolchainRoot = "LIBDEPLOY_TOOLCHAIN_ROOT"
)

// Default directory names under the XDG data dir
const (
	// AppDirName is the directory name for libdeploy-specific files
	AppDirName = "libdeploy"

	// ToolchainDirName is the subdirectory holding the installed toolchain
	ToolchainDirName = "toolchain"
)

// Paths resolves locations inside one toolchain installation.
// The layout contract is fixed: a bin/ directory with platform executables
// and co-located runtime DLLs, and a lib/ tree with Unix shared objects and
// the clang resource directories.
type Paths struct {
	root string
	fs   types.FS
}

// New creates a Paths instance rooted at root. An empty root falls back to
// LIBDEPLOY_TOOLCHAIN_ROOT, then <xdg-data>/libdeploy/toolchain.
func New(root string, fs types.FS) (*Paths, error) {
	if root == "" {
		root = os.Getenv(EnvToolchainRoot)
	}
	if root == "" {
		root = filepath.Join(xdg.DataHome, AppDirName, ToolchainDirName)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid toolchain root %q", root)
	}

	return &Paths{root: abs, fs: fs}, nil
}

// Root returns the toolchain installation root
func (p *Paths) Root() string {
	return p.root
}

// BinDir returns the toolchain binary directory (co-located runtime DLLs live here)
func (p *Paths) BinDir() string {
	return filepath.Join(p.root, "bin")
}

// LibDir returns the toolchain library directory
func (p *Paths) LibDir() string {
	return filepath.Join(p.root, "lib")
}

// MinGWSysrootBin returns the MinGW sysroot bin directory holding the GNU ABI
// runtime DLLs, or "" for an architecture without a sysroot layout.
func (p *Paths) MinGWSysrootBin(arch string) string {
	var sysroot string
	switch arch {
	case "x86_64":
		sysroot = "x86_64-w64-mingw32"
	case "arm64", "aarch64":
		sysroot = "aarch64-w64-mingw32"
	default:
		return ""
	}
	return filepath.Join(p.root, sysroot, "bin")
}

// ResourceLibDirs returns the clang resource-dir runtime library directories
// (lib/clang/<version>/lib/<target>) that exist for the given platform and
// architecture. When several toolchain versions are installed the newest one
// comes first.
func (p *Paths) ResourceLibDirs(platform, arch string) []string {
	clangDir := filepath.Join(p.LibDir(), "clang")
	entries, err := p.fs.ReadDir(clangDir)
	if err != nil {
		return nil
	}

	versions := make([]*semver.Version, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		v, err := semver.NewVersion(entry.Name())
		if err != nil {
			// Resource dirs are named after the release; anything else is noise
			continue
		}
		versions = append(versions, v)
	}
	sort.Sort(sort.Reverse(semver.Collection(versions)))

	var dirs []string
	for _, v := range versions {
		for _, target := range resourceTargets(platform, arch) {
			dir := filepath.Join(clangDir, v.Original(), "lib", target)
			if info, err := p.fs.Stat(dir); err == nil && info.IsDir() {
				dirs = append(dirs, dir)
			}
		}
	}
	return dirs
}

// resourceTargets returns the per-target subdirectory names the sanitizer
// runtimes may be installed under, most specific first.
func resourceTargets(platform, arch string) []string {
	switch platform {
	case types.PlatformLinux:
		switch arch {
		case "x86_64":
			return []string{"x86_64-unknown-linux-gnu", "linux"}
		case "arm64", "aarch64":
			return []string{"aarch64-unknown-linux-gnu", "linux"}
		default:
			return []string{"linux"}
		}
	case types.PlatformDarwin:
		return []string{"darwin"}
	case types.PlatformWindows:
		switch arch {
		case "x86_64":
			return []string{"x86_64-w64-mingw32", "windows"}
		case "arm64", "aarch64":
			return []string{"aarch64-w64-mingw32", "windows"}
		default:
			return []string{"windows"}
		}
	}
	return nil
}

// ArchLibDir returns the Debian-style multiarch directory name for system
// library searches on Linux.
func ArchLibDir(arch string) string {
	switch arch {
	case "x86_64":
		return "x86_64-linux-gnu"
	case "arm64", "aarch64":
		return "aarch64-linux-gnu"
	default:
		return arch
	}
}
