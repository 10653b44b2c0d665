package harness

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Verify checks the result against an expectation. Nil expectation
// fields are not checked. Returns the first mismatch found.
func (r *Result) Verify(exp *Expectation) error {
	if exp == nil {
		return nil
	}

	if exp.Count != nil && r.Count != *exp.Count {
		return fmt.Errorf("count: expected %d, got %d", *exp.Count, r.Count)
	}

	if exp.Total != "" {
		want, err := decimal.NewFromString(exp.Total)
		if err != nil {
			return fmt.Errorf("expectation total %q: %w", exp.Total, err)
		}
		if !r.Total.Equal(want) {
			return fmt.Errorf("total: expected %s, got %s", want, r.Total)
		}
	}

	if exp.Pushes != nil && r.Pushes != *exp.Pushes {
		return fmt.Errorf("pushes: expected %d, got %d", *exp.Pushes, r.Pushes)
	}

	if exp.RemoteItems != nil && r.RemoteItems != *exp.RemoteItems {
		return fmt.Errorf("remote_items: expected %d, got %d", *exp.RemoteItems, r.RemoteItems)
	}

	return nil
}
