package inspect

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/toolchainkit/libdeploy/pkg/logging"
	"github.com/toolchainkit/libdeploy/pkg/types"
)

// MachODetector extracts dependency load commands from a Mach-O binary
// using otool -L. Path prefixes such as @rpath/ and @loader_path/ are
// preserved verbatim: they are rewritten later, not here.
type MachODetector struct {
	runner types.Runner
	logger zerolog.Logger
}

// NewMachODetector creates a detector backed by the given tool runner
func NewMachODetector(runner types.Runner) *MachODetector {
	return &MachODetector{
		runner: runner,
		logger: logging.GetLogger("inspect.macho"),
	}
}

// Detect returns the dependency paths recorded in the binary's load
// commands. Any tool failure yields an empty slice.
func (d *MachODetector) Detect(ctx context.Context, binaryPath string) []string {
	out, err := d.runner.Run(ctx, "otool", "-L", binaryPath)
	if err != nil {
		d.logger.Warn().Err(err).Str("binary", binaryPath).Msg("otool inspection failed")
		return nil
	}
	return ParseLoadCommands(out)
}

// ParseLoadCommands extracts dependency paths from otool -L output.
// The first line is the binary's own install name and is skipped; each
// remaining line is "\t<path> (compatibility version X, current version Y)".
func ParseLoadCommands(output string) []string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) <= 1 {
		return nil
	}

	var dependencies []string
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		dependencies = append(dependencies, fields[0])
	}
	return dependencies
}

// Mach-O path prefixes with runtime meaning. StripPrefix removes them to
// obtain a bare filename for toolchain searches.
var machoPrefixes = []string{"@rpath/", "@loader_path/", "@executable_path/"}

// StripPrefix removes a leading @rpath/, @loader_path/ or @executable_path/
// from a Mach-O dependency path, returning the remainder and whether a
// prefix was present.
func StripPrefix(ref string) (string, bool) {
	for _, prefix := range machoPrefixes {
		if strings.HasPrefix(ref, prefix) {
			return ref[len(prefix):], true
		}
	}
	return ref, false
}
