package libdeploy

// User-facing command messages
const (
	MsgRootShort = "Deploy a binary's shared-library dependencies next to it"
	MsgRootLong  = `libdeploy inspects a freshly linked binary, finds the runtime libraries it
depends on, and copies the toolchain-owned ones into the binary's own
directory so it runs standalone, with no library search-path setup.

OS-owned libraries are recognized and left alone. On macOS the recorded
dependency paths are rewritten to @loader_path and the binary is re-signed.`

	MsgDeployShort = "Deploy the runtime libraries for one binary"
	MsgDeployLong  = `Deploy inspects the given binary, resolves the transitive closure of its
toolchain-owned shared-library dependencies, and copies each one next to
the binary. Libraries already present and up to date are skipped, so
repeated runs are cheap.

The binary's platform is detected from its file extension and magic bytes;
use --platform to override. Use --dry-run to preview the plan without
copying anything.`

	MsgScanShort = "Inspect a binary's dependencies without deploying"
	MsgScanLong  = `Scan lists the binary's direct dynamic dependencies, how each one is
classified (deployable, system, or unlisted), and which libraries a deploy
would copy. Nothing is written.`

	MsgVersionShort = "Print version information"

	MsgFlagVerbose       = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun        = "Preview the deployment plan without copying anything"
	MsgFlagPlatform      = "Target platform (windows, linux, darwin); detected from the binary when omitted"
	MsgFlagArch          = "Target architecture (x86_64, arm64); defaults to the host architecture"
	MsgFlagToolchainRoot = "Toolchain installation root (overrides configuration)"
	MsgFlagFormat        = "Output format: text or yaml"
)
