package leads

import "testing"

func TestParseBudget(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		valid bool
	}{
		{name: "plain", input: "5000", want: "5000", valid: true},
		{name: "currency and separators", input: "$1,000+", want: "1000", valid: true},
		{name: "range keeps lower bound", input: "1000-2000", want: "1000", valid: true},
		{name: "surrounding text", input: "  Entre $2,500 y $5,000 ", want: "2500", valid: true},
		{name: "large value", input: "$99,999,999,999,999,999,999", want: "99999999999999999999", valid: true},
		{name: "no digits", input: "a convenir", valid: false},
		{name: "empty", input: "", valid: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseBudget(tc.input)
			if got.Valid != tc.valid {
				t.Fatalf("expected valid=%v, got %v", tc.valid, got.Valid)
			}
			if tc.valid && got.Decimal.String() != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got.Decimal.String())
			}
		})
	}
}

func TestParseBudgetPtrNil(t *testing.T) {
	if parseBudgetPtr(nil).Valid {
		t.Fatalf("expected null budget for nil range")
	}
}
