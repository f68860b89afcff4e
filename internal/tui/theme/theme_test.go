package theme

import "testing"

func TestByNameFallsBackToDefault(t *testing.T) {
	if got := ByName("catppuccin-mocha").Name; got != "catppuccin-mocha" {
		t.Fatalf("ByName(catppuccin-mocha) = %q", got)
	}
	if got := ByName("no-such-theme").Name; got != FlexokiDark.Name {
		t.Fatalf("ByName(unknown) = %q, want %q", got, FlexokiDark.Name)
	}
}

func TestNamesMatchesAll(t *testing.T) {
	names := Names()
	if len(names) != len(All) {
		t.Fatalf("len(Names()) = %d, want %d", len(names), len(All))
	}
	for i, th := range All {
		if names[i] != th.Name {
			t.Fatalf("Names()[%d] = %q, want %q", i, names[i], th.Name)
		}
	}
}

func TestForAchievementBands(t *testing.T) {
	th := FlexokiDark
	cases := []struct {
		ratio float64
		want  int
	}{
		{0, 0}, {0.24, 0}, {0.25, 1}, {0.5, 2}, {0.75, 3}, {0.99, 3}, {1, 4}, {1.6, 4},
	}
	for _, c := range cases {
		if got := th.ForAchievement(c.ratio); got != th.Scale[c.want] {
			t.Fatalf("ForAchievement(%v) = %v, want Scale[%d] %v", c.ratio, got, c.want, th.Scale[c.want])
		}
	}
}

func TestForROI(t *testing.T) {
	th := Terminal
	if got := th.ForROI(0.5, false); got != th.TextDim {
		t.Fatalf("undefined ROI = %v, want TextDim", got)
	}
	if got := th.ForROI(-0.2, true); got != th.Loss {
		t.Fatalf("negative ROI = %v, want Loss", got)
	}
	if got := th.ForROI(0.2, true); got != th.Gain {
		t.Fatalf("positive ROI = %v, want Gain", got)
	}
}
