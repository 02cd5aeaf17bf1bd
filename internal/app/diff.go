package app

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines around each hunk.
const diffContext = 3

type diffOp int

const (
	opEqual diffOp = iota
	opDelete
	opInsert
)

type diffLine struct {
	op   diffOp
	text string
}

// UnifiedDiff returns a unified diff of two versions of path, or "" if
// they are equal.
func UnifiedDiff(path, before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var ops []diffLine
	for _, d := range diffs {
		op := opEqual
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = opDelete
		case diffmatchpatch.DiffInsert:
			op = opInsert
		}
		for _, l := range splitLines(d.Text) {
			ops = append(ops, diffLine{op: op, text: l})
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)
	for _, h := range hunks(ops) {
		writeHunk(&sb, ops, h)
	}
	return sb.String()
}

// splitLines splits text after each newline. A last line without a
// newline is kept as is.
func splitLines(text string) []string {
	var out []string
	for text != "" {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			out = append(out, text)
			break
		}
		out = append(out, text[:i+1])
		text = text[i+1:]
	}
	return out
}

// hunk is a range [lo, hi) of ops.
type hunk struct{ lo, hi int }

func hunks(ops []diffLine) []hunk {
	var out []hunk
	for i := 0; i < len(ops); i++ {
		if ops[i].op == opEqual {
			continue
		}
		lo := max(i-diffContext, 0)
		hi := i + 1
		for hi < len(ops) {
			if ops[hi].op != opEqual {
				hi++
				continue
			}
			// Stop after a run of equal lines that separates hunks.
			run := hi
			for run < len(ops) && ops[run].op == opEqual {
				run++
			}
			if run == len(ops) || run-hi > 2*diffContext {
				hi = min(hi+diffContext, len(ops))
				break
			}
			hi = run
		}
		if n := len(out); n > 0 && lo <= out[n-1].hi {
			out[n-1].hi = hi
		} else {
			out = append(out, hunk{lo: lo, hi: hi})
		}
		i = hi - 1
	}
	return out
}

func writeHunk(sb *strings.Builder, ops []diffLine, h hunk) {
	oldStart, newStart := 1, 1
	for _, l := range ops[:h.lo] {
		if l.op != opInsert {
			oldStart++
		}
		if l.op != opDelete {
			newStart++
		}
	}
	var oldCount, newCount int
	for _, l := range ops[h.lo:h.hi] {
		if l.op != opInsert {
			oldCount++
		}
		if l.op != opDelete {
			newCount++
		}
	}
	if oldCount == 0 {
		oldStart--
	}
	if newCount == 0 {
		newStart--
	}

	fmt.Fprintf(sb, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)
	for _, l := range ops[h.lo:h.hi] {
		prefix := " "
		switch l.op {
		case opDelete:
			prefix = "-"
		case opInsert:
			prefix = "+"
		}
		sb.WriteString(prefix)
		sb.WriteString(l.text)
		if !strings.HasSuffix(l.text, "\n") {
			sb.WriteString("\n\\ No newline at end of file\n")
		}
	}
}
