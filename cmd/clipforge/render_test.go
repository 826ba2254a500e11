package main

import (
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Daemon", statusError, "not reachable", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Daemon:", "[ERROR] not reachable")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Daemon", statusOK, "pid 42", true)
	if !strings.HasPrefix(got, statusStyles[statusOK].color) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
	if !strings.Contains(got, "[OK] pid 42") {
		t.Fatalf("expected tag and message, got %q", got)
	}
}

func TestRenderStatusLineWithoutMessage(t *testing.T) {
	got := renderStatusLine("Lock file", statusInfo, "", false)
	if !strings.HasSuffix(got, "[INFO]") {
		t.Fatalf("expected bare tag, got %q", got)
	}
}

func TestRenderSectionHeaderRuleMatchesTitle(t *testing.T) {
	lines := renderSectionHeader("Stages", false)
	if len(lines) != 2 {
		t.Fatalf("expected title and rule, got %v", lines)
	}
	if lines[0] != "== Stages ==" {
		t.Errorf("title = %q", lines[0])
	}
	if lines[1] != strings.Repeat("-", len(lines[0])) {
		t.Errorf("rule %q does not match title width", lines[1])
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatal("expected non-file writer to disable color")
	}
}

func TestRenderTableAlignsNumericColumns(t *testing.T) {
	out := renderTable(
		[]string{"Status", "Count"},
		[][]string{{"pending", "2"}, {"completed", "10"}},
		1,
	)
	if !strings.Contains(out, "pending") || !strings.Contains(out, "completed") {
		t.Fatalf("missing rows in output:\n%s", out)
	}
	// Right alignment puts the shorter count at the same terminal column.
	var twoCol, tenCol int
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "pending") {
			twoCol = strings.LastIndex(line, "2")
		}
		if strings.Contains(line, "completed") {
			tenCol = strings.LastIndex(line, "0")
		}
	}
	if twoCol == 0 || twoCol != tenCol {
		t.Errorf("counts not right-aligned: %d vs %d\n%s", twoCol, tenCol, out)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"ID", "Title", "Status"},
		[][]string{{"1", "only-two"}},
		0,
	)
	if !strings.Contains(out, "only-two") {
		t.Fatalf("missing row in output:\n%s", out)
	}
	if len(strings.Split(out, "\n")) < 4 {
		t.Fatalf("expected bordered table, got:\n%s", out)
	}
}

func TestRenderTableEmptyHeaders(t *testing.T) {
	if out := renderTable(nil, [][]string{{"x"}}, 0); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
