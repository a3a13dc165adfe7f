package engine

import "sort"

// TopK returns the k best players by the chosen metric field, sorted
// descending with ties broken ascending by name so the ordering is
// deterministic. k is clamped to the pool size; it never errors.
func TopK(metrics []PlayerMetrics, field MetricField, k int) []PlayerMetrics {
	if k < 0 {
		k = 0
	}
	if k > len(metrics) {
		k = len(metrics)
	}

	ranked := append([]PlayerMetrics(nil), metrics...)
	sort.SliceStable(ranked, func(i, j int) bool {
		vi, vj := ranked[i].Value(field), ranked[j].Value(field)
		if vi != vj {
			return vi > vj
		}
		return ranked[i].Name < ranked[j].Name
	})

	return ranked[:k]
}
