// Package locate resolves deployable dependency references to concrete
// files inside the installed toolchain. The search order is fixed and
// logged, so the same name appearing in several directories always resolves
// the same way: toolchain bin dir first (co-located runtime DLLs, MinGW
// sysroot), then the compiler resource directories, then the library tree,
// then configured platform extras.
package locate

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/toolchainkit/libdeploy/pkg/config"
	"github.com/toolchainkit/libdeploy/pkg/inspect"
	"github.com/toolchainkit/libdeploy/pkg/logging"
	"github.com/toolchainkit/libdeploy/pkg/paths"
	"github.com/toolchainkit/libdeploy/pkg/types"
)

// Locator finds library files for one platform/arch pair
type Locator struct {
	platform string
	arch     string
	paths    *paths.Paths
	extras   []string
	fs       types.FS
	logger   zerolog.Logger
}

// New creates a locator over the given toolchain layout. extras come from
// the platform's search_extras config with {multiarch} already meaningful
// for the arch in use.
func New(platform, arch string, toolchain *paths.Paths, rules config.PlatformRules, fs types.FS) *Locator {
	extras := make([]string, 0, len(rules.SearchExtras))
	for _, dir := range rules.SearchExtras {
		extras = append(extras, strings.ReplaceAll(dir, "{multiarch}", paths.ArchLibDir(arch)))
	}

	return &Locator{
		platform: platform,
		arch:     arch,
		paths:    toolchain,
		extras:   extras,
		fs:       fs,
		logger:   logging.GetLogger("locate"),
	}
}

// FindInToolchain resolves a raw dependency reference to the real file that
// backs it. Absolute existing paths are used as-is; otherwise any Mach-O
// prefix is stripped and the bare filename is searched through the fixed
// directory order. The returned path is fully symlink-resolved; callers
// keep the original reference for symlink recreation and install-name
// rewriting. A miss returns ("", false) and is not an error.
func (l *Locator) FindInToolchain(ref string) (string, bool) {
	stripped, _ := inspect.StripPrefix(ref)

	if filepath.IsAbs(stripped) {
		if resolved, ok := l.resolve(stripped); ok {
			return resolved, true
		}
		// Fall through and search by filename: the recorded absolute path
		// may describe the build machine, not this one.
	}

	filename := filepath.Base(stripped)
	for _, dir := range l.SearchDirs() {
		candidate := filepath.Join(dir, filename)
		if resolved, ok := l.resolve(candidate); ok {
			l.logger.Debug().Str("ref", ref).Str("dir", dir).Str("resolved", resolved).Msg("located library")
			return resolved, true
		}
	}

	l.logger.Debug().Str("ref", ref).Msg("library not found in toolchain")
	return "", false
}

// SearchDirs returns the fixed precedence order for this platform/arch
func (l *Locator) SearchDirs() []string {
	var dirs []string

	if l.platform == types.PlatformWindows {
		if sysrootBin := l.paths.MinGWSysrootBin(l.arch); sysrootBin != "" {
			dirs = append(dirs, sysrootBin)
		}
	}
	dirs = append(dirs, l.paths.BinDir())
	dirs = append(dirs, l.paths.ResourceLibDirs(l.platform, l.arch)...)
	dirs = append(dirs, l.paths.LibDir())
	dirs = append(dirs, l.extras...)

	return dirs
}

// resolve follows symlinks and confirms the backing file exists
func (l *Locator) resolve(path string) (string, bool) {
	if _, err := l.fs.Lstat(path); err != nil {
		return "", false
	}
	resolved, err := l.fs.EvalSymlinks(path)
	if err != nil {
		return "", false
	}
	info, err := l.fs.Stat(resolved)
	if err != nil || info.IsDir() {
		return "", false
	}
	return resolved, true
}
