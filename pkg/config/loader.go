package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	deployerrors "github.com/toolchainkit/libdeploy/pkg/errors"
	"github.com/toolchainkit/libdeploy/pkg/types"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// UserConfigPath returns the optional user configuration file location
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "libdeploy", "libdeploy.toml")
}

// Load builds the merged configuration: embedded defaults, then the user
// config file if present, then LIBDEPLOY_* environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, deployerrors.Wrap(err, deployerrors.ErrConfigLoad, "failed to load built-in defaults")
	}

	// 2. User config file, if it exists
	userPath := UserConfigPath()
	if _, err := os.Stat(userPath); err == nil {
		if err := k.Load(file.Provider(userPath), toml.Parser()); err != nil {
			return nil, deployerrors.Wrapf(err, deployerrors.ErrConfigParse, "failed to load user config %s", userPath)
		}
	}

	// 3. Environment variables: LIBDEPLOY_DEPLOY_DISABLED=true -> deploy.disabled
	err := k.Load(env.Provider("LIBDEPLOY_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "LIBDEPLOY_")), "_", ".")
	}), nil)
	if err != nil {
		return nil, deployerrors.Wrap(err, deployerrors.ErrConfigLoad, "failed to load environment overrides")
	}

	// 4. Historical flat opt-out switches take precedence over everything
	if overlay := optOutOverlay(k.Strings("deploy.disabled_platforms")); len(overlay) > 0 {
		if err := k.Load(confmap.Provider(overlay, "."), nil); err != nil {
			return nil, deployerrors.Wrap(err, deployerrors.ErrConfigLoad, "failed to apply opt-out switches")
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, deployerrors.Wrap(err, deployerrors.ErrConfigParse, "failed to unmarshal configuration")
	}

	return &cfg, nil
}

// Opt-out switches kept for compatibility with the historical flat form.
// They map onto Config rather than being read again inside deployers.
const (
	// EnvNoDeployLibs disables all library deployment
	EnvNoDeployLibs = "LIBDEPLOY_NO_DEPLOY_LIBS"

	// EnvNoDeployDLLs disables only the Windows deployer
	EnvNoDeployDLLs = "LIBDEPLOY_NO_DEPLOY_DLLS"

	// EnvNoDeploySO disables only the ELF deployer
	EnvNoDeploySO = "LIBDEPLOY_NO_DEPLOY_SO"

	// EnvNoDeployDylibs disables only the Mach-O deployer
	EnvNoDeployDylibs = "LIBDEPLOY_NO_DEPLOY_DYLIBS"

	// EnvVerbose turns on verbose deployment logging
	EnvVerbose = "LIBDEPLOY_VERBOSE"
)

// optOutOverlay builds the confmap layer for any opt-out switches set in
// the environment. disabledPlatforms is the list merged so far; the overlay
// replaces the whole key, so already-disabled platforms are carried over.
func optOutOverlay(disabledPlatforms []string) map[string]interface{} {
	overlay := make(map[string]interface{})

	if os.Getenv(EnvNoDeployLibs) == "1" {
		overlay["deploy.disabled"] = true
	}
	if os.Getenv(EnvVerbose) == "1" {
		overlay["verbose"] = true
	}

	platformSwitches := map[string]string{
		EnvNoDeployDLLs:   types.PlatformWindows,
		EnvNoDeploySO:     types.PlatformLinux,
		EnvNoDeployDylibs: types.PlatformDarwin,
	}
	disabled := slices.Clone(disabledPlatforms)
	for envVar, platform := range platformSwitches {
		if os.Getenv(envVar) == "1" && !slices.Contains(disabled, platform) {
			disabled = append(disabled, platform)
		}
	}
	if len(disabled) > len(disabledPlatforms) {
		overlay["deploy.disabled_platforms"] = disabled
	}

	return overlay
}
