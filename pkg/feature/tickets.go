package feature

// NoShowTier pairs a stadium capacity upper bound with the assumed ticket
// no-show inflation factor. Bigger venues see more bought-but-unused
// tickets, so observed attendance understates sales more there.
type NoShowTier struct {
	MaxCapacity int     `yaml:"max_capacity"` // exclusive bound; 0 = no bound
	Factor      float64 `yaml:"factor"`
}

// NoShowFactor picks the factor for a capacity from the tier table. Tiers
// are checked in order; the first bounded tier the capacity falls under
// wins, otherwise the unbounded tier applies.
func NoShowFactor(capacity int, tiers []NoShowTier) float64 {
	fallback := 1.0
	for _, t := range tiers {
		if t.MaxCapacity == 0 {
			fallback = t.Factor
			continue
		}
		if capacity < t.MaxCapacity {
			return t.Factor
		}
	}
	return fallback
}

// EstimateTicketAvailability derives how easy tickets are to get for a club
// from stadium capacity and average home attendance. Sold tickets are
// estimated as attendance inflated by the no-show factor, capped at
// capacity; availability is the unsold share, clamped into [0.001, 1.0]
// and rounded to 3 decimals.
//
// Returns ok=false when capacity or attendance is not positive: the ratio
// is meaningless then and the caller must leave the feature untouched.
func EstimateTicketAvailability(capacity int, attendance float64, tiers []NoShowTier) (float64, bool) {
	if capacity <= 0 || attendance <= 0 {
		return 0, false
	}

	sold := attendance * NoShowFactor(capacity, tiers)
	if sold > float64(capacity) {
		sold = float64(capacity)
	}

	avail := 1 - sold/float64(capacity)
	if avail < 0.001 {
		avail = 0.001
	}
	if avail > 1 {
		avail = 1
	}
	return Round3(avail), true
}
