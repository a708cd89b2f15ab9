package domain

import (
	"strings"
)

// RecordFilter narrows an assembled page the way the transaction table does:
// by display status and by a free-text search.
type RecordFilter struct {
	Status *Status
	Search string
}

func (f RecordFilter) IsZero() bool {
	return f.Status == nil && strings.TrimSpace(f.Search) == ""
}

func ParseStatus(raw string) (*Status, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" || value == "all" {
		return nil, nil
	}
	for _, status := range []Status{StatusPaid, StatusPending, StatusProcessing, StatusFailed} {
		if strings.ToLower(string(status)) == value {
			s := status
			return &s, nil
		}
	}
	return nil, ErrInvalidStatus
}

// FilterRecords keeps records matching the status and whose description, id
// or customer name contain the search term, case-insensitively.
func FilterRecords(records []Record, filter RecordFilter) []Record {
	if filter.IsZero() {
		return records
	}
	needle := strings.ToLower(strings.TrimSpace(filter.Search))

	out := make([]Record, 0, len(records))
	for _, record := range records {
		if filter.Status != nil && record.Status != *filter.Status {
			continue
		}
		if needle != "" {
			customer := ""
			if record.CustomerName != nil {
				customer = *record.CustomerName
			}
			haystack := strings.ToLower(record.Description + " " + record.ID.String() + " " + customer)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		out = append(out, record)
	}
	return out
}
