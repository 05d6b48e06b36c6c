package musicxml

import "fmt"

// StructuralError means the document cannot be transcribed at all.
type StructuralError struct {
	PartID string
	Reason string
}

func (e *StructuralError) Error() string {
	if e.PartID == "" {
		return "structural error: " + e.Reason
	}
	return fmt.Sprintf("structural error in part %s: %s", e.PartID, e.Reason)
}

// Warning is a recoverable inconsistency found while transcribing.
type Warning struct {
	PartID  string
	Measure string
	Message string
}

func (w Warning) String() string {
	if w.Measure == "" {
		return fmt.Sprintf("part %s: %s", w.PartID, w.Message)
	}
	return fmt.Sprintf("part %s, measure %s: %s", w.PartID, w.Measure, w.Message)
}
