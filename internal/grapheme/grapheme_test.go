package grapheme

import "testing"

func TestSplitJoinRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"abc",
		"héllo",
		"ábc", // combining accent stays one cluster
		"👍🏽ok",
	}
	for _, text := range cases {
		if got := Join(Split(text)); got != text {
			t.Fatalf("Join(Split(%q))=%q, want %q", text, got, text)
		}
	}
}

func TestCount(t *testing.T) {
	if got, want := Count("ábc"), 3; got != want {
		t.Fatalf("Count=%d, want %d", got, want)
	}
	if got := Count(""); got != 0 {
		t.Fatalf("Count(\"\")=%d, want 0", got)
	}
}

func TestRuneLen(t *testing.T) {
	clusters := Split("a\u0301b") // combining accent: one cluster, two runes
	if got, want := RuneLen(clusters), 3; got != want {
		t.Fatalf("RuneLen=%d, want %d", got, want)
	}
}

func TestCellWidth(t *testing.T) {
	if got, want := CellWidth("ab"), 2; got != want {
		t.Fatalf("CellWidth=%d, want %d", got, want)
	}
	if got, want := CellWidth("日本"), 4; got != want {
		t.Fatalf("CellWidth wide=%d, want %d", got, want)
	}
}
