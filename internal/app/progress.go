package app

import "fmt"

// ProgressFunc is called after each chapter has been written.
type ProgressFunc func(done, total int)

// Percent is done/total as a percentage.
func Percent(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(done) / float64(total) * 100
}

// FormatPercent renders Percent with two decimals, e.g. "33.33%".
func FormatPercent(done, total int) string {
	return fmt.Sprintf("%.2f%%", Percent(done, total))
}
