package types

import (
	"context"
	"io/fs"
)

// FS is the filesystem interface required for deployment operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)
	EvalSymlinks(name string) (string, error)
	Lstat(name string) (fs.FileInfo, error)

	// Other operations
	Remove(name string) error
	Rename(oldpath, newpath string) error
}

// Runner executes an external inspection or fixup tool and returns its
// combined standard output. Implementations enforce a bounded timeout and
// translate "tool missing", "timed out" and "exited non-zero" into coded
// errors so callers can degrade uniformly.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// Detector extracts raw dependency references from a binary.
// A failing inspection tool yields an empty slice, never an error that
// callers must handle: deployment may not block a build.
type Detector interface {
	Detect(ctx context.Context, binaryPath string) []string
}

// Classifier decides whether a raw dependency reference names a
// toolchain-owned library that is safe to deploy. Pure, no I/O.
type Classifier interface {
	IsDeployable(ref string) bool
}

// Locator resolves a deployable reference to a concrete file inside the
// installed toolchain, following symlinks to the real backing file.
type Locator interface {
	FindInToolchain(ref string) (string, bool)
}

// Deployer copies a binary's deployable runtime libraries next to it and
// performs any platform-specific fixups. One implementation per OS family.
type Deployer interface {
	// DeployAll resolves the transitive dependency closure of the artifact
	// and deploys every entry. Returns the number of libraries copied;
	// zero is a valid, non-error outcome.
	DeployAll(ctx context.Context, artifactPath string) int

	// DeployLibrary deploys a single resolved reference into destDir.
	DeployLibrary(ctx context.Context, ref string, destDir string) bool

	// Resolve computes the deployment plan for the artifact without
	// copying anything. Dry runs and scans use this.
	Resolve(ctx context.Context, artifactPath string) *Plan

	// Dependencies returns the artifact's direct dependency references as
	// recorded in the binary, without classification or fallbacks.
	Dependencies(ctx context.Context, artifactPath string) []string

	// LibraryExtension returns the platform library suffix (".dll", ".so", ".dylib")
	LibraryExtension() string

	// Platform returns the normalized platform name this deployer serves
	Platform() string
}
