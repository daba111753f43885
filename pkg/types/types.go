// Package types holds the shared data model and capability interfaces for
// library deployment. Raw dependency references stay strings exactly as the
// inspection tool reported them; resolution to filesystem paths happens once
// and is carried alongside the original reference.
package types

// Platform names after alias normalization
const (
	PlatformWindows = "windows"
	PlatformLinux   = "linux"
	PlatformDarwin  = "darwin"
)

// BinaryKind distinguishes executables from shared libraries
type BinaryKind string

const (
	KindExecutable    BinaryKind = "executable"
	KindSharedLibrary BinaryKind = "shared_library"
	KindUnknown       BinaryKind = "unknown"
)

// Artifact is the just-linked binary a deployment pass runs against
type Artifact struct {
	// Path is the absolute path to the binary
	Path string

	// Platform is the normalized platform name ("windows", "linux", "darwin")
	Platform string

	// Arch is the target architecture ("x86_64", "arm64", ...)
	Arch string

	// Kind reports whether the artifact is an executable or a shared library
	Kind BinaryKind
}

// ResolvedLibrary pairs a raw dependency reference with the real file that
// backs it inside the toolchain. Ref keeps any @rpath/@loader_path prefix
// and any versioned-symlink name; RealPath is fully symlink-resolved.
type ResolvedLibrary struct {
	Ref      string
	RealPath string
}

// Filename returns the basename of the real backing file
func (r ResolvedLibrary) Filename() string {
	for i := len(r.RealPath) - 1; i >= 0; i-- {
		if r.RealPath[i] == '/' || r.RealPath[i] == '\\' {
			return r.RealPath[i+1:]
		}
	}
	return r.RealPath
}

// Plan is the set of libraries to deploy for one artifact, deduplicated by
// resolved real path. Computed fresh each invocation, never cached.
type Plan struct {
	Libraries []ResolvedLibrary
}

// Contains reports whether the plan already holds realPath
func (p *Plan) Contains(realPath string) bool {
	for _, lib := range p.Libraries {
		if lib.RealPath == realPath {
			return true
		}
	}
	return false
}

// Add appends a resolved library unless its real path is already planned.
// The first-seen reference for a given real path wins.
func (p *Plan) Add(lib ResolvedLibrary) bool {
	if p.Contains(lib.RealPath) {
		return false
	}
	p.Libraries = append(p.Libraries, lib)
	return true
}
