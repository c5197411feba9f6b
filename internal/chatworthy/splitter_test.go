package chatworthy

import (
	"fmt"
	"strings"
	"testing"
)

func TestSplit_NoAnchors(t *testing.T) {
	body := "# Title\n\nJust one block of text.\n"

	sections := Split(body)

	if len(sections) != 1 {
		t.Fatalf("Split() returned %d sections, want 1", len(sections))
	}
	if sections[0].TurnIndex != 1 {
		t.Errorf("Split() index = %d, want 1", sections[0].TurnIndex)
	}
	if sections[0].Text != body {
		t.Errorf("Split() text = %q, want whole body", sections[0].Text)
	}
}

func TestSplit_AnchorCountInvariant(t *testing.T) {
	// k anchors must yield exactly k sections with indexes 1..k
	for _, k := range []int{1, 2, 5} {
		t.Run(fmt.Sprintf("%d anchors", k), func(t *testing.T) {
			var builder strings.Builder
			builder.WriteString("preamble before the first anchor\n")
			for i := 1; i <= k; i++ {
				fmt.Fprintf(&builder, "<a id=\"p-%d\"></a>\nTurn %d content.\n", i, i)
			}

			sections := Split(builder.String())

			if len(sections) != k {
				t.Fatalf("Split() returned %d sections, want %d", len(sections), k)
			}
			for i, s := range sections {
				if s.TurnIndex != i+1 {
					t.Errorf("section %d has index %d, want %d", i, s.TurnIndex, i+1)
				}
				if !strings.Contains(s.Text, fmt.Sprintf("Turn %d content.", i+1)) {
					t.Errorf("section %d missing its content: %q", i, s.Text)
				}
			}
		})
	}
}

func TestSplit_PositionalOrderBeatsDeclaredOrdinal(t *testing.T) {
	// Anchors declare ordinals 7 and 3 but are indexed by position
	body := "<a id=\"p-7\"></a>\nfirst\n<a id=\"p-3\"></a>\nsecond\n"

	sections := Split(body)

	if len(sections) != 2 {
		t.Fatalf("Split() returned %d sections, want 2", len(sections))
	}
	if sections[0].TurnIndex != 1 || sections[1].TurnIndex != 2 {
		t.Errorf("Split() indexes = %d, %d; want 1, 2", sections[0].TurnIndex, sections[1].TurnIndex)
	}
}

func TestSplit_LegacyNameAnchors(t *testing.T) {
	body := "<a name=\"p-1\"></a>\nold format\n"

	sections := Split(body)
	if len(sections) != 1 || !strings.Contains(sections[0].Text, "old format") {
		t.Errorf("Split() did not recognize name= anchors: %v", sections)
	}
}

func TestSplit_MidLineAnchorIgnored(t *testing.T) {
	body := "text with <a id=\"p-1\"></a> inline\n"

	sections := Split(body)
	if len(sections) != 1 || sections[0].TurnIndex != 1 || sections[0].Text != body {
		t.Errorf("Split() treated a mid-line anchor as a turn boundary")
	}
}

func TestCountAnchors(t *testing.T) {
	body := "<a id=\"p-1\"></a>\na\n<a id=\"p-2\"></a>\nb\n"
	if got := CountAnchors(body); got != 2 {
		t.Errorf("CountAnchors() = %d, want 2", got)
	}
	if got := CountAnchors("no anchors"); got != 0 {
		t.Errorf("CountAnchors() = %d, want 0", got)
	}
	if !HasAnchors(body) {
		t.Error("HasAnchors() = false, want true")
	}
}
