package canteen

import (
	"fmt"
	"strconv"
	"strings"
)

// Paise is a money amount in hundredths of a rupee. All arithmetic stays in
// integers; the two-decimal form only exists at the JSON boundary.
type Paise int64

func (p Paise) String() string {
	v := int64(p)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON renders the amount as a plain JSON number with two decimals.
func (p Paise) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Paise) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := ParsePaise(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePaise converts a decimal string ("80", "80.5", "80.50") into paise.
// More than two fractional digits is rejected rather than rounded. At least
// one digit is required: "", "-" and "." are not amounts.
func ParsePaise(s string) (Paise, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if s == "" || strings.ContainsAny(s, "+-") {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	var rupees int64
	var err error
	if intPart != "" {
		rupees, err = strconv.ParseInt(intPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
	}
	var frac int64
	if fracPart != "" {
		if len(fracPart) > 2 {
			return 0, fmt.Errorf("amount %q has sub-paise precision", s)
		}
		for len(fracPart) < 2 {
			fracPart += "0"
		}
		frac, err = strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
	}
	v := rupees*100 + frac
	if neg {
		v = -v
	}
	return Paise(v), nil
}
