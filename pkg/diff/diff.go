// Package diff renders line-based unified diffs between an existing
// destination and freshly expanded output.
package diff

import (
	"fmt"
	"strings"
)

// contextLines is the number of unchanged lines shown around each hunk.
const contextLines = 3

// op is one line of an edit script.
type op struct {
	kind byte // ' ', '-' or '+'.
	line string
	// a and b are the 0-indexed line numbers in the old and new text the
	// op sits at.
	a, b int
}

// Unified returns a unified diff turning oldText into newText, labelled
// with name. It returns an empty string if the inputs are identical.
func Unified(name, oldText, newText string) string {
	if oldText == newText {
		return ""
	}

	ops := script(lines(oldText), lines(newText))

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n", name)
	fmt.Fprintf(&b, "+++ b/%s\n", name)
	for _, h := range hunks(ops) {
		writeHunk(&b, ops[h[0]:h[1]])
	}
	return b.String()
}

// lines splits s after each newline. An empty string has no lines.
func lines(s string) []string {
	if s == "" {
		return nil
	}
	out := strings.SplitAfter(s, "\n")
	if out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// script builds an edit script turning x into y. Common prefix and suffix
// lines are peeled off first; the middle goes through myers.
func script(x, y []string) []op {
	pre := 0
	for pre < len(x) && pre < len(y) && x[pre] == y[pre] {
		pre++
	}
	suf := 0
	for suf < len(x)-pre && suf < len(y)-pre && x[len(x)-1-suf] == y[len(y)-1-suf] {
		suf++
	}

	ops := make([]op, 0, len(x)+len(y))
	for k := 0; k < pre; k++ {
		ops = append(ops, op{kind: ' ', line: x[k], a: k, b: k})
	}
	for _, o := range myers(x[pre:len(x)-suf], y[pre:len(y)-suf]) {
		o.a += pre
		o.b += pre
		ops = append(ops, o)
	}
	for k := suf; k > 0; k-- {
		ops = append(ops, op{kind: ' ', line: x[len(x)-k], a: len(x) - k, b: len(y) - k})
	}
	return ops
}

// myers finds a shortest edit script in O((N+M)D) time. After step d,
// trace[d] holds the furthest x reached on each diagonal k in [-d, d],
// stored at index k+d.
func myers(a, b []string) []op {
	n, m := len(a), len(b)
	total := n + m
	if total == 0 {
		return nil
	}

	v := make([]int, 2*total+2)
	off := total
	var trace [][]int

	for d := 0; d <= total; d++ {
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[off+k-1] < v[off+k+1]) {
				x = v[off+k+1]
			} else {
				x = v[off+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[off+k] = x

			if x >= n && y >= m {
				return backtrack(trace, a, b, d)
			}
		}
		trace = append(trace, append([]int(nil), v[off-d:off+d+1]...))
	}
	return nil
}

// backtrack walks the trace from the end of both inputs back to the start
// and returns the ops in forward order.
func backtrack(trace [][]int, a, b []string, steps int) []op {
	x, y := len(a), len(b)
	var ops []op

	for d := steps; d > 0; d-- {
		prev := trace[d-1]
		at := func(k int) int { return prev[k+d-1] }

		k := x - y
		down := k == -d || (k != d && at(k-1) < at(k+1))
		prevK := k - 1
		if down {
			prevK = k + 1
		}
		prevX := at(prevK)
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			ops = append(ops, op{kind: ' ', line: a[x], a: x, b: y})
		}
		if down {
			y--
			ops = append(ops, op{kind: '+', line: b[y], a: x, b: y})
		} else {
			x--
			ops = append(ops, op{kind: '-', line: a[x], a: x, b: y})
		}
	}
	for x > 0 && y > 0 {
		x--
		y--
		ops = append(ops, op{kind: ' ', line: a[x], a: x, b: y})
	}

	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
	return ops
}

// hunks returns [start, end) ranges of ops to print. Changes separated by
// no more than twice the context share a hunk.
func hunks(ops []op) [][2]int {
	var out [][2]int
	for i, o := range ops {
		if o.kind == ' ' {
			continue
		}
		start := max(i-contextLines, 0)
		end := min(i+contextLines+1, len(ops))
		if n := len(out); n > 0 && start <= out[n-1][1] {
			out[n-1][1] = end
			continue
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

func writeHunk(b *strings.Builder, ops []op) {
	var oldCount, newCount int
	for _, o := range ops {
		if o.kind != '+' {
			oldCount++
		}
		if o.kind != '-' {
			newCount++
		}
	}
	fmt.Fprintf(b, "@@ -%s +%s @@\n",
		hunkRange(ops[0].a, oldCount), hunkRange(ops[0].b, newCount))

	for _, o := range ops {
		b.WriteByte(o.kind)
		b.WriteString(o.line)
		if !strings.HasSuffix(o.line, "\n") {
			b.WriteString("\n\\ No newline at end of file\n")
		}
	}
}

// hunkRange formats a 0-indexed start and line count the way diff(1)
// does: an empty range names the line before it.
func hunkRange(start, count int) string {
	if count == 0 {
		return fmt.Sprintf("%d,0", start)
	}
	return fmt.Sprintf("%d,%d", start+1, count)
}
