package plans

import "testing"

func TestFromAmount(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{99, Starter},
		{199, Creator},
		{299, Pro},
		{500, Starter}, // unknown amounts fall back, they never error
		{0, Starter},
	}

	for _, tc := range cases {
		if got := FromAmount(tc.amount); got != tc.want {
			t.Errorf("FromAmount(%v) = %s, want %s", tc.amount, got, tc.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"creator": Creator,
		" Pro ":   Pro,
		"STARTER": Starter,
		"premium": "",
		"":        "",
	}

	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRankOrdering(t *testing.T) {
	if !(Rank(Pro) > Rank(Creator) && Rank(Creator) > Rank(Starter) && Rank(Starter) > Rank("")) {
		t.Errorf("rank ordering broken: pro=%d creator=%d starter=%d unknown=%d",
			Rank(Pro), Rank(Creator), Rank(Starter), Rank(""))
	}
}
