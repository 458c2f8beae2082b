package ranking

import "sort"

// Order selects how Aggregate returns its result.
type Order int

const (
	// OrderNational returns institutions by national rank ascending.
	OrderNational Order = iota
	// OrderCatalog returns institutions in the order they were supplied.
	OrderCatalog
)

const diamondBand = 25

// Bands holds the nominal number of ranks in each national tier band. Bands
// beyond the catalog size are truncated by NationalTier.
type Bands struct {
	Diamond  int
	Platinum int
	Gold     int
	Silver   int
}

// BandSizes computes the percentile bands for a catalog of n institutions.
func BandSizes(n int) Bands {
	if n < 0 {
		n = 0
	}
	return Bands{
		Diamond:  min(diamondBand, n),
		Platinum: n * 15 / 100,
		Gold:     n * 25 / 100,
		Silver:   n * 30 / 100,
	}
}

// NationalTier classifies a national rank within a catalog of n institutions.
// The bands are contiguous from rank 1; everything past Silver is Emerging.
func NationalTier(rank, n int) Tier {
	b := BandSizes(n)
	limit := diamondBand
	if rank <= limit {
		return TierDiamond
	}
	limit += b.Platinum
	if rank <= limit {
		return TierPlatinum
	}
	limit += b.Gold
	if rank <= limit {
		return TierGold
	}
	limit += b.Silver
	if rank <= limit {
		return TierSilver
	}
	return TierEmerging
}

// Aggregate derives every record, assigns national and state ranks, and
// reclassifies tiers by national rank. Ties keep their input order. The input
// slice is not modified.
func Aggregate(records []Record, order Order) []Institution {
	n := len(records)
	out := make([]Institution, n)
	for i, r := range records {
		out[i] = Derive(r)
	}

	// idx[k] is the input index of the k-th institution by score.
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return out[idx[a]].Score > out[idx[b]].Score
	})
	for k, i := range idx {
		out[i].NationalRank = k + 1
		out[i].Tier = NationalTier(k+1, n)
	}

	// Walking idx in national order keeps each state group stably sorted by
	// score, so the running count is the state rank. Rows without a state
	// keep StateRank 0.
	seen := make(map[string]int)
	for _, i := range idx {
		state := out[i].State
		if state == "" {
			continue
		}
		seen[state]++
		out[i].StateRank = seen[state]
	}

	if order == OrderNational {
		sorted := make([]Institution, n)
		for k, i := range idx {
			sorted[k] = out[i]
		}
		return sorted
	}
	return out
}
