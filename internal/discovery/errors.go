package discovery

import (
	"fmt"

	"github.com/pfrederiksen/matchday-index/internal/page"
)

// StructuralError reports that an expected element is missing from a page, which
// usually means the site layout changed or the URL is not the expected page type.
type StructuralError struct {
	URL    string
	Role   page.Role
	Detail string
}

func (e *StructuralError) Error() string {
	msg := fmt.Sprintf("page has no %s element", e.Role)
	if e.Detail != "" {
		msg = e.Detail
	}
	if e.URL != "" {
		return fmt.Sprintf("structural error at %s: %s", e.URL, msg)
	}
	return "structural error: " + msg
}

// DataQualityError reports source data that cannot be turned into a valid record:
// colliding matchday IDs or season links of an unknown shape.
type DataQualityError struct {
	URL    string
	ID     string
	Reason string
	Err    error
}

func (e *DataQualityError) Error() string {
	msg := "data quality error"
	if e.URL != "" {
		msg += " at " + e.URL
	}
	msg += ": " + e.Reason
	if e.ID != "" {
		msg += fmt.Sprintf(" (id %s)", e.ID)
	}
	return msg
}

func (e *DataQualityError) Unwrap() error {
	return e.Err
}
