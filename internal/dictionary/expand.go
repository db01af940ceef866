package dictionary

import (
	"github.com/starford/stenomix/internal/optiongroup"
	"github.com/starford/stenomix/internal/steno"
	"github.com/starford/stenomix/internal/translation"
)

// expandBound returns the memoized expansion of b.
func (d *Dictionary) expandBound(b *BoundSequence) ([]steno.Sequence, error) {
	if b.done {
		return b.resolved, nil
	}
	seqs, err := d.expand(b.def, b.sel)
	if err != nil {
		return nil, err
	}
	b.resolved, b.done = seqs, true
	return seqs, nil
}

// expand parses def if needed and folds its parts under sel.
func (d *Dictionary) expand(def *StrokeDefinition, sel optiongroup.Selection) ([]steno.Sequence, error) {
	if err := def.parse(d.table); err != nil {
		return nil, err
	}

	key := sel.Key()
	if seqs, ok := def.cache[key]; ok {
		return seqs, nil
	}

	seqs, err := d.expandList(def.parts, sel)
	if err != nil {
		return nil, err
	}
	if def.cache == nil {
		def.cache = make(map[string][]steno.Sequence)
	}
	def.cache[key] = seqs
	return seqs, nil
}

// expandList folds list left to right starting from one empty stroke. Each
// step combines every accumulated sequence with every sequence of the part.
func (d *Dictionary) expandList(list optiongroup.List[strokePart], sel optiongroup.Selection) ([]steno.Sequence, error) {
	acc := []steno.Sequence{steno.NewSequence()}

	for _, n := range list {
		var (
			seqs []steno.Sequence
			err  error
		)
		if n.IsGroup() {
			c := sel.At(n.Group.Bound)
			alt, aerr := n.Group.Alternative(c)
			if aerr != nil {
				return nil, aerr
			}
			seqs, err = d.expandList(alt, c.Sub)
		} else {
			seqs, err = d.expandPart(n.Value, sel)
		}
		if err != nil {
			return nil, err
		}

		if total := len(acc) * len(seqs); d.limits.MaxExpansions > 0 && total > d.limits.MaxExpansions {
			return nil, limitError("stroke expansions", total, d.limits.MaxExpansions)
		}
		next := make([]steno.Sequence, 0, len(acc)*len(seqs))
		for _, b := range seqs {
			for _, a := range acc {
				next = append(next, a.Combine(b, n.Value.action))
			}
		}
		acc = next
	}
	return acc, nil
}

func (d *Dictionary) expandPart(p strokePart, sel optiongroup.Selection) ([]steno.Sequence, error) {
	if p.kind == partMixin {
		return d.resolve(p.mixin)
	}

	text, err := translation.Render(p.fill, sel)
	if err != nil {
		return nil, err
	}
	m, err := d.table.Lookup(quoteName(text, '"'), p.side)
	if err != nil {
		return nil, err
	}
	return d.resolve(m)
}

// resolve returns every sequence a mixin stands for. User mixins are
// resolved on first use and cached; a mixin reached again while it is
// being resolved is a cycle.
func (d *Dictionary) resolve(m *Mixin) ([]steno.Sequence, error) {
	if m.builtin {
		return m.static, nil
	}
	if m.done {
		return m.resolved, nil
	}

	for i, r := range d.chain {
		if r == m {
			names := make([]string, 0, len(d.chain)-i+1)
			for _, c := range d.chain[i:] {
				names = append(names, c.name)
			}
			return nil, &CycleError{Chain: append(names, m.name)}
		}
	}
	if d.limits.MaxDepth > 0 && len(d.chain) >= d.limits.MaxDepth {
		return nil, limitError("mixin depth", len(d.chain)+1, d.limits.MaxDepth)
	}

	d.chain = append(d.chain, m)
	defer func() { d.chain = d.chain[:len(d.chain)-1] }()

	var out []steno.Sequence
	for _, b := range m.definitions {
		seqs, err := d.expandBound(b)
		if err != nil {
			return nil, err
		}
		out = append(out, seqs...)
	}
	m.resolved, m.done = out, true
	return out, nil
}
