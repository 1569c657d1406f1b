// Package order assigns each discovered user program its runtime slot.
//
// The boot loader finds the first user program and the idle program at
// hard-coded slots without a name lookup, so the ordering is:
//
//	[init (if present), idle (if present), others sorted by name...]
//
// Others are sorted byte-wise, which makes the result independent of the
// order the filesystem returned directory entries in.
package order

import (
	"sort"

	"github.com/bluestar-os/appbuild/internal/model"
)

// Plan is the result of ordering a set of units.
type Plan struct {
	// Entries is the final emission order. Entries[i].Position == i.
	Entries []model.OrderedEntry

	// Dropped holds units that repeated an already claimed fixed-role
	// name. The first unit with a fixed-role name keeps the slot.
	Dropped []model.CandidateUnit
}

// Order classifies units by role and returns them in slot order.
// The input slice is not modified.
func Order(units []model.CandidateUnit) Plan {
	var (
		initUnit *model.CandidateUnit
		idleUnit *model.CandidateUnit
		others   []model.CandidateUnit
		dropped  []model.CandidateUnit
	)

	for i := range units {
		u := units[i]
		switch u.Role() {
		case model.RoleInit:
			if initUnit != nil {
				dropped = append(dropped, u)
				continue
			}
			initUnit = &u
		case model.RoleIdle:
			if idleUnit != nil {
				dropped = append(dropped, u)
				continue
			}
			idleUnit = &u
		default:
			others = append(others, u)
		}
	}

	// Go string comparison is byte-wise, which is exactly the required
	// collation. SliceStable keeps equal names in input order.
	sort.SliceStable(others, func(i, j int) bool {
		return others[i].Name < others[j].Name
	})

	ordered := make([]model.CandidateUnit, 0, len(units))
	if initUnit != nil {
		ordered = append(ordered, *initUnit)
	}
	if idleUnit != nil {
		ordered = append(ordered, *idleUnit)
	}
	ordered = append(ordered, others...)

	entries := make([]model.OrderedEntry, 0, len(ordered))
	for pos, u := range ordered {
		entries = append(entries, model.OrderedEntry{
			Unit:     u,
			Role:     u.Role(),
			Position: pos,
			Label:    pos + 1,
		})
	}

	return Plan{Entries: entries, Dropped: dropped}
}

// Names returns the entry names in emission order.
func (p Plan) Names() []string {
	names := make([]string, 0, len(p.Entries))
	for _, e := range p.Entries {
		names = append(names, e.Unit.Name)
	}
	return names
}

// Len returns the number of ordered entries.
func (p Plan) Len() int {
	return len(p.Entries)
}
