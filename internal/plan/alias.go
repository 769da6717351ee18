// SPDX-License-Identifier: MPL-2.0

package plan

import "slices"

// AliasTable maps symbolic module names to a substitute path.
//
// Substitution is deliberately one level deep: Resolve never looks the
// substitute up again, so an alias that points at another alias key yields the
// intermediate name. Keys keep their registration order.
type AliasTable struct {
	subs   map[string]string
	order  []string
	frozen bool
}

// NewAliasTable creates an empty table.
func NewAliasTable() *AliasTable {
	return &AliasTable{subs: make(map[string]string)}
}

// Register adds name -> substitute unless name is already present. It reports
// whether the entry was added. Registering after Freeze panics.
func (t *AliasTable) Register(name, substitute string) bool {
	if t.frozen {
		panic("plan: alias table modified after resolution started")
	}
	if _, ok := t.subs[name]; ok {
		return false
	}
	t.subs[name] = substitute
	t.order = append(t.order, name)
	return true
}

// Resolve returns the substitute registered for name, or name itself.
func (t *AliasTable) Resolve(name string) string {
	if sub, ok := t.subs[name]; ok {
		return sub
	}
	return name
}

// Keys returns the registered names in registration order.
func (t *AliasTable) Keys() []string {
	return slices.Clone(t.order)
}

// Len returns the number of registered aliases.
func (t *AliasTable) Len() int { return len(t.order) }

// Freeze makes the table read-only.
func (t *AliasTable) Freeze() { t.frozen = true }
