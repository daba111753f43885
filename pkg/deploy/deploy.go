// Package deploy copies a produced binary's toolchain-owned runtime
// libraries next to it so the binary runs standalone, without any library
// search-path environment variable. One deployer exists per OS family
// (PE/ELF/Mach-O); all three share the transitive resolver and the atomic
// copy machinery and differ in detection, search layout and post-copy
// fixups. Every failure inside a deployment pass degrades to "skip this one
// library": deployment never fails a build.
package deploy

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/toolchainkit/libdeploy/pkg/config"
	deployerrors "github.com/toolchainkit/libdeploy/pkg/errors"
	"github.com/toolchainkit/libdeploy/pkg/inspect"
	"github.com/toolchainkit/libdeploy/pkg/types"
)

// base carries the collaborators shared by all three platform deployers
type base struct {
	platform   string
	arch       string
	cfg        *config.Config
	fs         types.FS
	detector   types.Detector
	classifier types.Classifier
	locator    types.Locator
	logger     zerolog.Logger
}

// Platform returns the normalized platform name this deployer serves
func (b *base) Platform() string {
	return b.platform
}

// Dependencies returns the artifact's direct dependency references as the
// inspection tool reports them, without classification or fallbacks
func (b *base) Dependencies(ctx context.Context, artifactPath string) []string {
	return b.detector.Detect(ctx, artifactPath)
}

// refFilename reduces a raw reference to the filename the runtime linker
// looks the library up by: Mach-O prefixes and directories are stripped.
func refFilename(ref string) string {
	stripped, _ := inspect.StripPrefix(ref)
	stripped = strings.ReplaceAll(stripped, `\`, "/")
	return filepath.Base(stripped)
}

// atomicCopy copies src into dest via a temp file and rename, so a
// concurrently starting process never observes a half-written library.
// Returns false without error when dest is already up to date.
func (b *base) atomicCopy(src, dest string) (bool, error) {
	srcInfo, err := b.fs.Stat(src)
	if err != nil {
		return false, deployerrors.Wrapf(err, deployerrors.ErrCopyFailed, "cannot stat %s", src)
	}

	if destInfo, err := b.fs.Stat(dest); err == nil {
		if !srcInfo.ModTime().After(destInfo.ModTime()) {
			b.logger.Debug().Str("dest", dest).Msg("skipped, up to date")
			return false, nil
		}
		// Outdated copy: removal may fail if the file is busy, in which
		// case the rename below takes over
		_ = b.fs.Remove(dest)
	}

	data, err := b.fs.ReadFile(src)
	if err != nil {
		return false, deployerrors.Wrapf(err, deployerrors.ErrCopyFailed, "cannot read %s", src)
	}

	tmp := filepath.Join(filepath.Dir(dest),
		"."+filepath.Base(dest)+"."+strconv.FormatInt(time.Now().UnixNano(), 36)+".tmp")

	if err := b.fs.WriteFile(tmp, data, srcInfo.Mode().Perm()); err != nil {
		return false, deployerrors.Wrapf(err, deployerrors.ErrCopyFailed, "cannot write %s", tmp)
	}
	if err := b.fs.Rename(tmp, dest); err != nil {
		_ = b.fs.Remove(tmp)
		// A concurrent build may have won the rename with identical content
		if sameSize(b.fs, dest, int64(len(data))) {
			b.logger.Debug().Str("dest", dest).Msg("skipped, deployed concurrently")
			return false, nil
		}
		return false, deployerrors.Wrapf(err, deployerrors.ErrCopyFailed, "cannot rename %s", dest)
	}

	b.logger.Debug().Str("dest", dest).Msg("deployed")
	return true, nil
}

func sameSize(fs types.FS, path string, size int64) bool {
	info, err := fs.Stat(path)
	return err == nil && info.Size() == size
}

// ensureRefSymlink reproduces a versioned-symlink chain in the destination:
// when the binary records a dependency on a symlink name, the output must
// contain that name too, pointing at the deployed real file.
func (b *base) ensureRefSymlink(refName, realName, destDir string) {
	if refName == realName || refName == "" {
		return
	}

	linkPath := filepath.Join(destDir, refName)
	if target, err := b.fs.Readlink(linkPath); err == nil && target == realName {
		return
	}
	if _, err := b.fs.Lstat(linkPath); err == nil {
		// Stale link or a regular file under the reference name; replace
		if err := b.fs.Remove(linkPath); err != nil {
			b.logger.Debug().Err(err).Str("link", linkPath).Msg("cannot replace existing entry")
			return
		}
	} else if !os.IsNotExist(err) {
		return
	}

	if err := b.fs.Symlink(realName, linkPath); err != nil {
		b.logger.Debug().Err(err).Str("link", linkPath).Msg("failed to create symlink")
		return
	}
	b.logger.Debug().Str("link", refName).Str("target", realName).Msg("created symlink")
}

// deployOne is the copy half of DeployLibrary, shared by all platforms.
// It reports (copied, realFilename, ok): ok is false only when the library
// could not be located or written at all.
func (b *base) deployOne(ref, destDir string) (bool, string, bool) {
	realPath, found := b.locator.FindInToolchain(ref)
	if !found {
		b.logger.Warn().Str("library", ref).Msg("library not found in toolchain, skipping")
		return false, "", false
	}

	realName := filepath.Base(realPath)
	copied, err := b.atomicCopy(realPath, filepath.Join(destDir, realName))
	if err != nil {
		b.logger.Warn().Err(err).Str("library", ref).Msg("failed to deploy library")
		return false, realName, false
	}
	return copied, realName, true
}
