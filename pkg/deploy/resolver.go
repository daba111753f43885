package deploy

import (
	"context"

	"github.com/toolchainkit/libdeploy/pkg/types"
)

// resolve computes the deployment plan: a breadth-first walk over the
// artifact's dependency graph restricted to deployable references. Each
// located library is re-inspected for its own dependencies, so the plan is
// the full transitive closure of toolchain-owned libraries. The visited set
// is keyed by reference string; the plan is deduplicated by resolved real
// path. The queue is bounded so a malformed binary cannot drive the
// traversal unbounded.
func (b *base) resolve(ctx context.Context, seeds []string) *types.Plan {
	plan := &types.Plan{}

	maxQueue := b.cfg.Resolver.MaxQueue
	if maxQueue <= 0 {
		maxQueue = 256
	}

	var queue []string
	visited := make(map[string]bool)

	enqueue := func(refs []string) {
		for _, ref := range refs {
			if visited[ref] {
				continue
			}
			if !b.classifier.IsDeployable(ref) {
				// Non-deployable references are final: no recursive
				// expansion, no copy attempt
				visited[ref] = true
				continue
			}
			if len(queue) >= maxQueue {
				b.logger.Warn().Int("limit", maxQueue).Msg("dependency queue limit reached, truncating traversal")
				return
			}
			visited[ref] = true
			queue = append(queue, ref)
		}
	}

	enqueue(seeds)

	for len(queue) > 0 {
		ref := queue[0]
		queue = queue[1:]

		realPath, found := b.locator.FindInToolchain(ref)
		if !found {
			b.logger.Debug().Str("ref", ref).Msg("deployable reference not found in toolchain")
			continue
		}

		if !plan.Add(types.ResolvedLibrary{Ref: ref, RealPath: realPath}) {
			continue
		}

		// The located real file may pull in further toolchain libraries
		enqueue(b.detector.Detect(ctx, realPath))
	}

	return plan
}
