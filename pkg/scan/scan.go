// Package scan inspects a binary's dynamic dependencies and reports how the
// deployment subsystem would treat each one, without copying anything. It
// backs the `libdeploy scan` command and the deploy command's dry-run mode.
package scan

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/toolchainkit/libdeploy/pkg/classify"
	"github.com/toolchainkit/libdeploy/pkg/logging"
	"github.com/toolchainkit/libdeploy/pkg/types"
)

// Entry is one direct dependency reference and its classification
type Entry struct {
	Ref   string `yaml:"ref"`
	Class string `yaml:"class"`
}

// Planned is one library the deployer would copy, with its toolchain source
type Planned struct {
	Ref    string `yaml:"ref"`
	Source string `yaml:"source"`
}

// Report is the full scan result for one artifact
type Report struct {
	Artifact     string    `yaml:"artifact"`
	Platform     string    `yaml:"platform"`
	Dependencies []Entry   `yaml:"dependencies"`
	Deploy       []Planned `yaml:"deploy"`
}

// Scanner combines a platform deployer with its classifier to produce
// reports. The deployer supplies detection and plan resolution; the
// classifier labels each direct dependency.
type Scanner struct {
	deployer   types.Deployer
	classifier *classify.Classifier
	logger     zerolog.Logger
}

// New creates a scanner over an existing deployer and classifier
func New(deployer types.Deployer, classifier *classify.Classifier) *Scanner {
	return &Scanner{
		deployer:   deployer,
		classifier: classifier,
		logger:     logging.GetLogger("scan"),
	}
}

// Scan inspects the artifact and reports classification and deployment plan
func (s *Scanner) Scan(ctx context.Context, artifactPath string) *Report {
	report := &Report{
		Artifact: artifactPath,
		Platform: s.deployer.Platform(),
	}

	for _, ref := range s.deployer.Dependencies(ctx, artifactPath) {
		report.Dependencies = append(report.Dependencies, Entry{
			Ref:   ref,
			Class: string(s.classifier.Classify(ref)),
		})
	}

	plan := s.deployer.Resolve(ctx, artifactPath)
	for _, lib := range plan.Libraries {
		report.Deploy = append(report.Deploy, Planned{
			Ref:    lib.Ref,
			Source: lib.RealPath,
		})
	}

	s.logger.Debug().Str("artifact", artifactPath).
		Int("dependencies", len(report.Dependencies)).
		Int("planned", len(report.Deploy)).
		Msg("scan complete")
	return report
}
