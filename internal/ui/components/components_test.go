package components

import (
	"strings"
	"testing"
)

func TestFormatMinutes(t *testing.T) {
	t.Parallel()
	cases := map[int64]string{0: "0s", 45: "45s", 60: "1m", 1499: "24m", 3600: "1h 00m", 3960: "1h 06m"}
	for in, want := range cases {
		if got := FormatMinutes(in); got != want {
			t.Fatalf("FormatMinutes(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestBarChartKeepsMostRecentRows(t *testing.T) {
	t.Parallel()
	rows := []BarRow{{"2024-01", 60}, {"2024-02", 120}, {"2024-03", 0}}
	out := BarChart(rows, 40, 2)
	if strings.Contains(out, "2024-01") {
		t.Fatalf("oldest row should be trimmed:\n%s", out)
	}
	if !strings.Contains(out, "2024-02") || !strings.Contains(out, "2024-03") {
		t.Fatalf("recent rows missing:\n%s", out)
	}
	if !strings.Contains(BarChart(nil, 40, 5), "no sessions") {
		t.Fatalf("empty chart should say so")
	}
}

func TestMatchHintsUsesFirstWord(t *testing.T) {
	t.Parallel()
	got := MatchHints("timer:st 10 calm", 5)
	if len(got) != 2 {
		t.Fatalf("expected timer:start and timer:stop, got %v", got)
	}
	if len(MatchHints("", 3)) != 3 {
		t.Fatalf("empty input should list the first hints up to the limit")
	}
}
