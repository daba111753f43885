package inspect

import (
	"context"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/toolchainkit/libdeploy/pkg/logging"
	"github.com/toolchainkit/libdeploy/pkg/types"
)

// Format: 0x0000000000000001 (NEEDED) Shared library: [libc++.so.1]
var neededPattern = regexp.MustCompile(`\(NEEDED\).*\[([^\]]+)\]`)

// ELFDetector extracts NEEDED entries from an ELF dynamic section using
// readelf. readelf is preferred over ldd because it never executes the
// inspected binary.
type ELFDetector struct {
	runner types.Runner
	logger zerolog.Logger
}

// NewELFDetector creates a detector backed by the given tool runner
func NewELFDetector(runner types.Runner) *ELFDetector {
	return &ELFDetector{
		runner: runner,
		logger: logging.GetLogger("inspect.elf"),
	}
}

// Detect returns the binary's direct NEEDED library names. Any tool failure
// yields an empty slice: deployment must never block a build.
func (d *ELFDetector) Detect(ctx context.Context, binaryPath string) []string {
	out, err := d.runner.Run(ctx, "readelf", "-d", binaryPath)
	if err != nil {
		d.logger.Warn().Err(err).Str("binary", binaryPath).Msg("readelf inspection failed")
		return nil
	}
	return ParseNeeded(out)
}

// ParseNeeded extracts library names from readelf -d output
func ParseNeeded(output string) []string {
	var libraries []string
	for _, match := range neededPattern.FindAllStringSubmatch(output, -1) {
		libraries = append(libraries, match[1])
	}
	return libraries
}
