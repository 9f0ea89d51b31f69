package weather

import "sort"

// Rank orders cities by descending comfort score and assigns ranks 1..N.
// Cities with equal scores keep their input order.
func Rank(cities []ScoredCity) []RankedEntry {
	sorted := make([]ScoredCity, len(cities))
	copy(sorted, cities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ComfortScore > sorted[j].ComfortScore
	})

	ranked := make([]RankedEntry, 0, len(sorted))
	for i, c := range sorted {
		ranked = append(ranked, RankedEntry{Item: c, Rank: i + 1})
	}
	return ranked
}
