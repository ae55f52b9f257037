package results

// SensitivityIndex combines the counts of one cell into a single score:
// tp/(tp+fn) - fp/(tp+fn). With no labeled peaks in reach (tp+fn == 0) both
// ratios divide by 1, so the index is -fp.
func SensitivityIndex(tp, fp, fn int) float64 {
	denom := float64(tp + fn)
	if tp+fn == 0 {
		denom = 1
	}
	sensitivity := float64(tp) / denom
	falsePeaks := float64(fp) / denom
	return sensitivity - falsePeaks
}
