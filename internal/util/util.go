// Package util holds the size and interval renderings shared by sandbox messages and logs.
package util

import (
	"fmt"
	"strconv"
	"time"
)

// byteUnits is ordered from the largest unit down.
var byteUnits = []struct {
	suffix string
	size   int64
}{
	{suffix: "TB", size: 1 << 40},
	{suffix: "GB", size: 1 << 30},
	{suffix: "MB", size: 1 << 20},
	{suffix: "KB", size: 1 << 10},
}

// ByteSize renders n in the largest binary unit it reaches, with one decimal.
// Below one kilobyte it prints whole bytes.
func ByteSize(n int64) string {
	for _, u := range byteUnits {
		if n >= u.size {
			return strconv.FormatFloat(float64(n)/float64(u.size), 'f', 1, 64) + " " + u.suffix
		}
	}

	return strconv.FormatInt(n, 10) + " B"
}

// Interval renders d rounded to the second using its two largest units, e.g. "5m10s" or "168h0m".
func Interval(d time.Duration) string {
	d = d.Round(time.Second)

	hours := d / time.Hour
	minutes := d % time.Hour / time.Minute
	seconds := d % time.Minute / time.Second

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh%dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
