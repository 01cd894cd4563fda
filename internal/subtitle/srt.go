package subtitle

import (
	"fmt"
	"math"
	"strings"

	"PodcastStudio/internal/script"
)

// Generate строит SRT-документ по упорядоченным сегментам с уже
// рассчитанными startTime/duration. Блоки нумеруются с единицы; разрывы и
// наложения входного тайминга не исправляются и попадают в документ как есть.
func Generate(segments []*script.Segment) string {
	var b strings.Builder
	n := 0
	for _, seg := range segments {
		n++
		start := seg.StartTime
		end := seg.StartTime + seg.Duration
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s: %s\n\n", n, Timestamp(start), Timestamp(end), seg.Speaker, seg.Text)
	}
	return b.String()
}

// Timestamp форматирует секунды как "ЧЧ:ММ:СС,ммм" с ведущими нулями.
func Timestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(math.Round(seconds * 1000))
	ms := total % 1000
	s := total / 1000 % 60
	m := total / 60000 % 60
	h := total / 3600000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
