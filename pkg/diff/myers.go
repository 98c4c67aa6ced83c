package diff

import "slices"

// Myers reports the shortest edit script between oldLines and newLines.
// Deletions carry their old-side line number and additions their new-side
// line number. Records follow the order of the texts, with a deletion
// ahead of an addition at the same spot.
func Myers(oldLines, newLines []string) []Record {
	head := 0
	for head < len(oldLines) && head < len(newLines) && oldLines[head] == newLines[head] {
		head++
	}
	tail := 0
	for tail < len(oldLines)-head && tail < len(newLines)-head &&
		oldLines[len(oldLines)-1-tail] == newLines[len(newLines)-1-tail] {
		tail++
	}
	a := oldLines[head : len(oldLines)-tail]
	b := newLines[head : len(newLines)-tail]
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	return editRecords(frontiers(a, b), a, b, head)
}

// frontiers runs the greedy forward search. fronts[d][i] is the furthest
// old-side index reached on diagonal k = 2i-d using exactly d edits; the
// search stops at the first d that reaches the end of both slices.
func frontiers(a, b []string) [][]int {
	n, m := len(a), len(b)
	var fronts [][]int
	for d := 0; ; d++ {
		cur := make([]int, d+1)
		for i := 0; i <= d; i++ {
			k := 2*i - d
			var x int
			switch {
			case d == 0:
				x = 0
			case fromInsert(fronts[d-1], i, d):
				x = fronts[d-1][i]
			default:
				x = fronts[d-1][i-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			cur[i] = x
			if x >= n && y >= m {
				return append(fronts, cur)
			}
		}
		fronts = append(fronts, cur)
	}
}

// fromInsert reports whether diagonal index i at distance d is best
// reached by an insertion from diagonal k+1 rather than a deletion from
// diagonal k-1.
func fromInsert(prev []int, i, d int) bool {
	if i == 0 {
		return true
	}
	if i == d {
		return false
	}
	return prev[i-1] < prev[i]
}

// editRecords walks the frontiers back from the end of both slices and
// emits one record per edit. base is the number of common leading lines
// trimmed before the search.
func editRecords(fronts [][]int, a, b []string, base int) []Record {
	x, y := len(a), len(b)
	out := make([]Record, 0, len(fronts)-1)
	for d := len(fronts) - 1; d > 0; d-- {
		k := x - y
		i := (k + d) / 2
		prev := fronts[d-1]
		if fromInsert(prev, i, d) {
			x = prev[i]
			y = x - k - 1
			out = append(out, Record{Kind: Added, Line: base + y + 1, New: b[y]})
		} else {
			x = prev[i-1]
			y = x - k + 1
			out = append(out, Record{Kind: Deleted, Line: base + x + 1, Old: a[x]})
		}
	}
	slices.Reverse(out)
	return out
}
