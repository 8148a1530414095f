package canteen

import (
	"encoding/json"
	"testing"
)

func TestParsePaise(t *testing.T) {
	cases := []struct {
		in      string
		want    Paise
		wantErr bool
	}{
		{"80", 8000, false},
		{"80.5", 8050, false},
		{"80.50", 8050, false},
		{"0.05", 5, false},
		{"210.00", 21000, false},
		{"-3.25", -325, false},
		{".5", 50, false},
		{"80.505", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"-", 0, true},
		{".", 0, true},
		{"--5", 0, true},
		{"+5", 0, true},
	}
	for _, tc := range cases {
		got, err := ParsePaise(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParsePaise(%q) = %v, want error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePaise(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParsePaise(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestPaiseString(t *testing.T) {
	cases := []struct {
		in   Paise
		want string
	}{
		{21000, "210.00"},
		{8050, "80.50"},
		{5, "0.05"},
		{0, "0.00"},
		{-325, "-3.25"},
	}
	for _, tc := range cases {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("Paise(%d).String() = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPaiseJSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(Paise(21000))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "210.00" {
		t.Errorf("marshal = %s, want 210.00", b)
	}

	var p Paise
	if err := json.Unmarshal([]byte("80.5"), &p); err != nil {
		t.Fatal(err)
	}
	if p != 8050 {
		t.Errorf("unmarshal 80.5 = %d, want 8050", p)
	}
	if err := json.Unmarshal([]byte(`"50"`), &p); err != nil {
		t.Fatal(err)
	}
	if p != 5000 {
		t.Errorf(`unmarshal "50" = %d, want 5000`, p)
	}
}
