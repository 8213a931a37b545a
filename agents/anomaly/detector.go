package anomaly

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/caremesh/caremesh/core"
)

// zScoreThreshold marks a sample anomalous when any feature deviates more
// than this many standard deviations from the column mean.
const zScoreThreshold = 2.0

// minSamples is the smallest telemetry batch with meaningful statistics.
const minSamples = 3

// finding is one detected outlier. Score is negative and more negative for
// stronger outliers, matching the severity bands in alerts.go.
type finding struct {
	index  int
	score  float64
	sample core.UsageRecord
}

type detector struct{}

func newDetector() *detector { return &detector{} }

// Detect runs per-feature z-score analysis over the batch. Batches smaller
// than minSamples produce no findings.
func (d *detector) Detect(logs []core.UsageRecord) []finding {
	if len(logs) < minSamples {
		return nil
	}

	keys := numericKeys(logs)
	if len(keys) == 0 {
		return nil
	}

	// One column of values per feature key; missing fields count as zero.
	columns := make(map[string][]float64, len(keys))
	for _, key := range keys {
		col := make([]float64, len(logs))
		for i, rec := range logs {
			col[i] = rec[key]
		}
		columns[key] = col
	}

	means := make(map[string]float64, len(keys))
	stddevs := make(map[string]float64, len(keys))
	for _, key := range keys {
		means[key] = stat.Mean(columns[key], nil)
		stddevs[key] = stat.StdDev(columns[key], nil)
	}

	var findings []finding
	for i, rec := range logs {
		maxZ := 0.0
		for _, key := range keys {
			sd := stddevs[key]
			if sd == 0 || math.IsNaN(sd) {
				continue
			}
			z := math.Abs((rec[key] - means[key]) / sd)
			if z > maxZ {
				maxZ = z
			}
		}
		if maxZ > zScoreThreshold {
			findings = append(findings, finding{index: i, score: -maxZ, sample: rec})
		}
	}
	return findings
}

// numericKeys returns the union of field names across the batch, sorted so
// scoring order is deterministic.
func numericKeys(logs []core.UsageRecord) []string {
	seen := make(map[string]bool)
	for _, rec := range logs {
		for k := range rec {
			seen[k] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
