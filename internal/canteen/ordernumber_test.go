package canteen

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2025, 3, 14, 23, 59, 0, 0, time.UTC)
	re := regexp.MustCompile(`^ORD-20250314-\d{4}$`)

	for i := 0; i < 1000; i++ {
		n := NewOrderNumber(now)
		if !re.MatchString(n) {
			t.Fatalf("order number %q does not match ORD-YYYYMMDD-NNNN", n)
		}
		suffix, err := strconv.Atoi(n[strings.LastIndex(n, "-")+1:])
		if err != nil {
			t.Fatal(err)
		}
		if suffix < 1000 || suffix > 9999 {
			t.Fatalf("suffix %d out of [1000, 9999]", suffix)
		}
	}
}

func TestNewOrderNumberUsesUTCDate(t *testing.T) {
	// 01:30 IST on March 15 is still March 14 in UTC
	ist := time.FixedZone("IST", 5*3600+1800)
	n := NewOrderNumber(time.Date(2025, 3, 15, 1, 30, 0, 0, ist))
	if !strings.HasPrefix(n, "ORD-20250314-") {
		t.Errorf("order number %q, want UTC date 20250314", n)
	}
}
