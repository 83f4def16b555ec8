package narrative

import (
	"github.com/pagebound/bossraid-backend/internal/domain"
)

const maxLimit = 500

// normalize applies defaults and clamps values.
func normalize(f *domain.NarrativeFilter) {
	if f.Limit < 0 {
		f.Limit = 0
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
}
