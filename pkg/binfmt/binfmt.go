// Package binfmt identifies the platform and kind of a produced binary from
// its file extension and, failing that, its magic bytes. It lets the CLI
// pick a deployer without an explicit platform flag.
package binfmt

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/toolchainkit/libdeploy/pkg/errors"
	"github.com/toolchainkit/libdeploy/pkg/types"
)

var (
	elfMagic = []byte{0x7f, 'E', 'L', 'F'}
	peMagic  = []byte{'M', 'Z'}

	// Mach-O thin (both endiannesses) and fat headers
	machoMagics = [][]byte{
		{0xfe, 0xed, 0xfa, 0xce},
		{0xfe, 0xed, 0xfa, 0xcf},
		{0xcf, 0xfa, 0xed, 0xfe},
		{0xce, 0xfa, 0xed, 0xfe},
		{0xca, 0xfe, 0xba, 0xbe},
	}
)

// IsVersionedSharedObject reports whether name looks like an ELF shared
// object, including versioned forms such as libfoo.so.1.2.3.
func IsVersionedSharedObject(name string) bool {
	base := filepath.Base(name)
	return strings.HasSuffix(base, ".so") || strings.Contains(base, ".so.")
}

// DetectFile identifies platform and kind for the binary at path, reading
// magic bytes through fs when the extension alone is not conclusive.
func DetectFile(fs types.FS, path string) (platform string, kind types.BinaryKind, err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".exe":
		return types.PlatformWindows, types.KindExecutable, nil
	case ".dll":
		return types.PlatformWindows, types.KindSharedLibrary, nil
	case ".dylib":
		return types.PlatformDarwin, types.KindSharedLibrary, nil
	}
	if IsVersionedSharedObject(path) {
		return types.PlatformLinux, types.KindSharedLibrary, nil
	}

	data, readErr := fs.ReadFile(path)
	if readErr != nil {
		return "", types.KindUnknown, errors.Wrapf(readErr, errors.ErrUnknownFormat, "cannot read %s", path)
	}
	return Detect(data, path)
}

// Detect identifies platform and kind from the first bytes of a binary
func Detect(data []byte, path string) (string, types.BinaryKind, error) {
	if len(data) >= 4 {
		if bytes.Equal(data[:4], elfMagic) {
			return types.PlatformLinux, types.KindExecutable, nil
		}
		for _, magic := range machoMagics {
			if bytes.Equal(data[:4], magic) {
				return types.PlatformDarwin, types.KindExecutable, nil
			}
		}
	}
	if len(data) >= 2 && bytes.Equal(data[:2], peMagic) {
		return types.PlatformWindows, types.KindExecutable, nil
	}

	return "", types.KindUnknown, errors.Newf(errors.ErrUnknownFormat,
		"cannot determine binary type for %s (expected .exe, .dll, .so, .dylib, or an ELF/Mach-O executable)", path)
}
