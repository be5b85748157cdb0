package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRound2(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "already two decimals", in: "10.00", want: "10"},
		{name: "rounds half up", in: "9.005", want: "9.01"},
		{name: "rounds down", in: "9.004", want: "9"},
		{name: "negative", in: "-1.239", want: "-1.24"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Round2(dec(tc.in))
			if !got.Equal(dec(tc.want)) {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestEqualWithinEpsilon(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "exact", a: "20.00", b: "20.00", want: true},
		{name: "one cent apart", a: "20.00", b: "20.01", want: true},
		{name: "two cents apart", a: "20.00", b: "20.02", want: false},
		{name: "far apart", a: "20.00", b: "19.00", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Equal(dec(tc.a), dec(tc.b)); got != tc.want {
				t.Fatalf("Equal(%s, %s) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestGTE(t *testing.T) {
	if !GTE(dec("19.99"), dec("20.00")) {
		t.Fatal("19.99 should satisfy >= 20.00 within epsilon")
	}
	if GTE(dec("19.98"), dec("20.00")) {
		t.Fatal("19.98 should not satisfy >= 20.00")
	}
}

func TestPercent(t *testing.T) {
	got := Percent(dec("10.00"), dec("10"))
	if !got.Equal(dec("1")) {
		t.Fatalf("10%% of 10.00 = %s, want 1.00", got)
	}

	got = Percent(dec("33.33"), dec("15"))
	if !got.Equal(dec("5")) {
		t.Fatalf("15%% of 33.33 = %s, want 5.00", got)
	}
}

func TestChange(t *testing.T) {
	got := Change(dec("25.00"), dec("20.00"))
	if !got.Equal(dec("5")) {
		t.Fatalf("change = %s, want 5.00", got)
	}

	// Underpayment never produces negative change.
	got = Change(dec("18.00"), dec("20.00"))
	if !got.IsZero() {
		t.Fatalf("change = %s, want 0", got)
	}
}

func TestLines(t *testing.T) {
	got := Lines(dec("10.00"), 2)
	if !got.Equal(dec("20")) {
		t.Fatalf("2 x 10.00 = %s, want 20.00", got)
	}
}
