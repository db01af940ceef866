package optiongroup

import (
	"fmt"

	"github.com/starford/stenomix/internal/apperr"
)

// Permutate enumerates every selection of list: one choice per top-level
// group, where each group contributes, per alternative, that alternative's
// index paired with every selection of the alternative's own nested groups.
// Results are in odometer order (the last group varies fastest). A list
// without groups has exactly one, empty, selection.
//
// The tree is walked afresh on every call. A positive limit bounds the
// number of selections at every level.
func Permutate[T any](list List[T], limit int) ([]Selection, error) {
	var factors [][]Choice
	for _, g := range list.Groups() {
		var local []Choice
		for i, alt := range g.Alternatives {
			subs, err := Permutate(alt, limit)
			if err != nil {
				return nil, err
			}
			for _, sub := range subs {
				local = append(local, Choice{Index: i, Sub: sub})
			}
			if limit > 0 && len(local) > limit {
				return nil, limitError(len(local), limit)
			}
		}
		factors = append(factors, local)
	}
	return product(factors, limit)
}

func product(factors [][]Choice, limit int) ([]Selection, error) {
	total := 1
	for _, f := range factors {
		if len(f) == 0 {
			return nil, nil
		}
		total *= len(f)
		if limit > 0 && total > limit {
			return nil, limitError(total, limit)
		}
	}

	out := make([]Selection, 0, total)
	idx := make([]int, len(factors))
	for {
		var sel Selection
		if len(factors) > 0 {
			sel = make(Selection, len(factors))
			for i, f := range factors {
				sel[i] = f[idx[i]]
			}
		}
		out = append(out, sel)

		k := len(idx) - 1
		for ; k >= 0; k-- {
			idx[k]++
			if idx[k] < len(factors[k]) {
				break
			}
			idx[k] = 0
		}
		if k < 0 {
			return out, nil
		}
	}
}

func limitError(n, limit int) error {
	return fmt.Errorf("optiongroup: %d permutations exceed limit of %d: %w", n, limit, apperr.ErrLimit)
}
