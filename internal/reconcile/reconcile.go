// Package reconcile computes the diff between an upstream listing index and
// the stored state for one account. Matching is by exact URL equality;
// spurious churn in upstream URL formatting will surface as paired
// new/removed entries rather than being fuzzily corrected.
package reconcile

import "github.com/sol-flex/aijobcareer/internal/models"

type Result struct {
	// ToAdd preserves upstream index order and is capped; refs beyond the
	// cap are deferred to the next run, not dropped.
	ToAdd []models.SourceListingRef
	// ToRemove are stored listings no longer present upstream. They are
	// marked removed, never hard-deleted.
	ToRemove []models.CanonicalListing
	// Deferred counts refs beyond the cap.
	Deferred  int
	Unchanged int
}

// Diff partitions the upstream index against the stored active set.
// Running it twice with no upstream change yields zero adds and removes.
// Callers pass only non-removed stored listings; maxAdds <= 0 disables the
// cap.
func Diff(upstream []models.SourceListingRef, stored []models.CanonicalListing, maxAdds int) Result {
	upstreamURLs := make(map[string]struct{}, len(upstream))
	for _, ref := range upstream {
		upstreamURLs[ref.URL] = struct{}{}
	}

	storedByURL := make(map[string]models.CanonicalListing, len(stored))
	for _, listing := range stored {
		storedByURL[listing.ApplicationURL] = listing
	}

	var result Result

	// Removals first: stored rows whose URL vanished upstream.
	for _, listing := range stored {
		if _, ok := upstreamURLs[listing.ApplicationURL]; !ok {
			result.ToRemove = append(result.ToRemove, listing)
		}
	}

	for _, ref := range upstream {
		if _, ok := storedByURL[ref.URL]; ok {
			result.Unchanged++
			continue
		}
		if maxAdds > 0 && len(result.ToAdd) >= maxAdds {
			result.Deferred++
			continue
		}
		result.ToAdd = append(result.ToAdd, ref)
	}

	return result
}
