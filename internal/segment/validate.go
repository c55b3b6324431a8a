package segment

import (
	"fmt"

	"github.com/drakos74/free-segments/internal/table"
)

const (
	// IncomeColumn holds the annual income feature.
	IncomeColumn = "Annual Income (k$)"
	// SpendingColumn holds the spending score feature.
	SpendingColumn = "Spending Score (1-100)"
	// LabelColumn is appended to the scored table.
	LabelColumn = "Cluster Label"
)

// RequiredColumns returns the feature columns in the order the model expects them.
func RequiredColumns() []string {
	return []string{IncomeColumn, SpendingColumn}
}

// MissingColumnsError reports required columns that are absent from the input.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("CSV must contain columns: %q (missing %q)", RequiredColumns(), e.Missing)
}

// Validate checks that all required columns are present by exact name.
func Validate(t *table.Table) error {
	missing := make([]string, 0)
	for _, c := range RequiredColumns() {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Missing: missing}
	}
	return nil
}
