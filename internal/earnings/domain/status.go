package domain

import "strings"

// Normalize maps a free-text status onto the display enum. Unknown and blank
// values display as Processing.
func Normalize(raw *string) Status {
	switch lowerStatus(raw) {
	case "paid", "success", "completed":
		return StatusPaid
	case "failed", "cancelled", "rejected":
		return StatusFailed
	case "pending", "approved":
		return StatusPending
	default:
		return StatusProcessing
	}
}

// IsRevenue decides whether a row's amount counts toward totals and charts.
// A blank status counts, unlike Normalize which shows it as Processing.
func IsRevenue(raw *string) bool {
	switch lowerStatus(raw) {
	case "", "paid", "success", "completed", "confirmed", "in_progress":
		return true
	default:
		return false
	}
}

// IsPendingPayout reports statuses whose amount is still owed to the earner.
func IsPendingPayout(raw *string) bool {
	switch lowerStatus(raw) {
	case "pending", "processing", "approved":
		return true
	default:
		return false
	}
}

func lowerStatus(raw *string) string {
	if raw == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*raw))
}
