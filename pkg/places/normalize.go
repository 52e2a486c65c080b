package places

import (
	"strconv"
	"strings"
)

// NormalizePriceLevel maps the provider's categorical price level to an
// integer 1..4. Numeric strings in that range pass through. FREE, absent or
// unrecognized input maps to nil — unknown, never "cheapest".
func NormalizePriceLevel(level string) *int {
	if level == "" {
		return nil
	}

	switch strings.TrimPrefix(level, "PRICE_LEVEL_") {
	case "INEXPENSIVE":
		return intPtr(1)
	case "MODERATE":
		return intPtr(2)
	case "EXPENSIVE":
		return intPtr(3)
	case "VERY_EXPENSIVE":
		return intPtr(4)
	}

	if n, err := strconv.Atoi(level); err == nil && n >= 1 && n <= 4 {
		return intPtr(n)
	}
	return nil
}

// NormalizePhone strips the leading US dialing prefix for display. Any other
// format passes through unchanged.
func NormalizePhone(phone string) string {
	if strings.HasPrefix(phone, "+1 ") {
		return phone[3:]
	}
	return phone
}

func intPtr(n int) *int { return &n }
