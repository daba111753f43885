// Package classify decides whether a raw dependency reference names a
// toolchain-owned library that may be deployed. The decision policy is
// allow-list, never deny-list: an unrecognized name is never deployed, and a
// reference whose path places it under an OS system directory is rejected
// even when its filename matches an allow-list pattern.
package classify

import (
	"path"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/toolchainkit/libdeploy/pkg/config"
	"github.com/toolchainkit/libdeploy/pkg/logging"
)

// Classifier is a pure, stateless deployability decision over one
// platform's pattern tables. Build one per deployer via New.
type Classifier struct {
	platform       string
	deployable     []*regexp.Regexp
	system         map[string]bool
	systemPrefixes []string
	logger         zerolog.Logger
}

// New compiles the classifier for a normalized platform name from its
// configured rules. Patterns that fail to compile are dropped with a
// warning rather than failing deployment outright.
func New(platform string, rules config.PlatformRules) *Classifier {
	logger := logging.GetLogger("classify")

	c := &Classifier{
		platform:       platform,
		system:         make(map[string]bool, len(rules.System)),
		systemPrefixes: rules.SystemPrefixes,
		logger:         logger,
	}

	for _, pattern := range rules.Deployable {
		re, err := regexp.Compile("(?i)^" + pattern + "$")
		if err != nil {
			logger.Warn().Str("pattern", pattern).Err(err).Msg("invalid deployable pattern, skipping")
			continue
		}
		c.deployable = append(c.deployable, re)
	}

	for _, name := range rules.System {
		c.system[strings.ToLower(name)] = true
	}

	return c
}

// Class is the classification of one dependency reference
type Class string

const (
	// ClassDeployable names a toolchain-owned library this subsystem deploys
	ClassDeployable Class = "deployable"

	// ClassSystem names an OS-owned library that must never be copied
	ClassSystem Class = "system"

	// ClassUnlisted names a library on neither list; it is left alone
	ClassUnlisted Class = "unlisted"
)

// Classify places ref into one of the three classes. Directory origin takes
// precedence over name pattern: anything under a known system prefix is
// system before its filename is considered.
func (c *Classifier) Classify(ref string) Class {
	for _, prefix := range c.systemPrefixes {
		if strings.HasPrefix(ref, prefix) {
			return ClassSystem
		}
	}

	filename := baseName(ref)
	if c.system[strings.ToLower(filename)] {
		return ClassSystem
	}

	for _, re := range c.deployable {
		if re.MatchString(filename) {
			return ClassDeployable
		}
	}
	return ClassUnlisted
}

// IsDeployable reports whether ref names a library this subsystem owns
func (c *Classifier) IsDeployable(ref string) bool {
	return c.Classify(ref) == ClassDeployable
}

// baseName strips directories and Mach-O prefixes from a raw reference
func baseName(ref string) string {
	ref = strings.ReplaceAll(ref, `\`, "/")
	return path.Base(ref)
}
