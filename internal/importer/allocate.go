package importer

import (
	"context"
	"fmt"

	"notestack/internal/service"
)

const maxSlugProbes = 200

// slugInUse reports whether a candidate slug is already taken in some
// uniqueness scope.
type slugInUse func(ctx context.Context, slug string) (bool, error)

// allocateSlug returns a currently-free slug in the scope described by
// inUse: the base itself if free, otherwise base-2, base-3, and so on.
// The probe and the caller's subsequent insert are not atomic; callers must
// treat a unique-constraint failure on insert as a lost race and re-allocate
// rather than trusting this check alone.
func allocateSlug(ctx context.Context, base string, inUse slugInUse) (string, error) {
	candidate := base
	for i := 2; i <= maxSlugProbes+1; i++ {
		taken, err := inUse(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("slug probe for %q failed: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("%w: no free slug for base %q after %d probes", service.ErrConflict, base, maxSlugProbes)
}
