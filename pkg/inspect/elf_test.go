package inspect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	deployerrors "github.com/toolchainkit/libdeploy/pkg/errors"
	"github.com/toolchainkit/libdeploy/pkg/testutil"
)

const readelfOutput = `
Dynamic section at offset 0x2d78 contains 27 entries:
  Tag        Type                         Name/Value
 0x0000000000000001 (NEEDED)             Shared library: [libc++.so.1]
 0x0000000000000001 (NEEDED)             Shared library: [libc++abi.so.1]
 0x0000000000000001 (NEEDED)             Shared library: [libunwind.so.1]
 0x0000000000000001 (NEEDED)             Shared library: [libc.so.6]
 0x000000000000000c (INIT)               0x1000
 0x000000000000000d (FINI)               0x1450
`

func TestParseNeeded(t *testing.T) {
	libs := ParseNeeded(readelfOutput)
	assert.Equal(t, []string{"libc++.so.1", "libc++abi.so.1", "libunwind.so.1", "libc.so.6"}, libs)
}

func TestParseNeededEmpty(t *testing.T) {
	assert.Empty(t, ParseNeeded("Dynamic section is empty"))
	assert.Empty(t, ParseNeeded(""))
}

func TestELFDetect(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.Outputs["readelf"] = readelfOutput

	detector := NewELFDetector(runner)
	libs := detector.Detect(context.Background(), "/build/program")

	assert.Len(t, libs, 4)
	assert.True(t, runner.CalledWith("readelf", "-d", "/build/program"))
}

func TestELFDetectToolMissing(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.Errors["readelf"] = deployerrors.New(deployerrors.ErrToolUnavailable, "readelf not found")

	detector := NewELFDetector(runner)
	assert.Empty(t, detector.Detect(context.Background(), "/build/program"))
}

func TestELFDetectToolTimeout(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.Errors["readelf"] = deployerrors.New(deployerrors.ErrToolTimeout, "readelf timed out after 10s")

	detector := NewELFDetector(runner)
	assert.Empty(t, detector.Detect(context.Background(), "/build/program"))
}
