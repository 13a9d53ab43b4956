package scoring

import (
	"strconv"

	"wellscreen/internal/catalog"
	"wellscreen/internal/model"
)

// ShouldRecompute decides whether a cached result can be trusted. It cannot
// when it is absent, when any stored score is negative (the signature of a
// historical calculation bug), or when its program set no longer matches the
// catalog. A trivial all-zero result from an empty answer set is valid.
func ShouldRecompute(cached *model.ComputedResult, cat *catalog.Catalog) bool {
	if cached == nil {
		return true
	}

	if len(cached.Programs) != len(cat.Programs()) {
		return true
	}
	for _, p := range cat.Programs() {
		ps, ok := cached.Programs[strconv.Itoa(p.ID)]
		if !ok {
			return true
		}
		if ps.Score < 0 {
			return true
		}
	}

	return false
}
