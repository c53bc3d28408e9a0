package money

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "1200.00", want: 120000},
		{in: "-45.00", want: -4500},
		{in: "0.3", want: 30},
		{in: "7", want: 700},
		{in: "+12.50", want: 1250},
		{in: "0", want: 0},
		{in: "1.999", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
		{in: "12.34.56", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAmount(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q): expected error, got %d", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q): unexpected error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ParseAmount(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{in: 4500, want: "45.00"},
		{in: -30, want: "-0.30"},
		{in: 0, want: "0.00"},
		{in: 120000, want: "1200.00"},
	}

	for _, tc := range cases {
		if got := FormatAmount(tc.in); got != tc.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, -1, 99, 100, -4500, 1234567} {
		s := FormatAmount(cents)
		got, err := ParseAmount(s)
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", s, err)
		}
		if got != cents {
			t.Errorf("round trip %d -> %q -> %d", cents, s, got)
		}
	}
}
