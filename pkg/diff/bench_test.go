package diff

import (
	"fmt"
	"testing"
)

func benchmarkLines(n int, every int) (oldLines, newLines []string) {
	for i := 0; i < n; i++ {
		line := fmt.Sprintf("line %d", i)
		oldLines = append(oldLines, line)
		if every > 0 && i%every == 0 {
			newLines = append(newLines, line+" edited")
			continue
		}
		newLines = append(newLines, line)
	}
	return oldLines, newLines
}

func BenchmarkCompare(b *testing.B) {
	oldLines, newLines := benchmarkLines(2000, 50)

	b.Run("paired", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = Paired(oldLines, newLines)
		}
	})
	b.Run("myers", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = Myers(oldLines, newLines)
		}
	})
}
