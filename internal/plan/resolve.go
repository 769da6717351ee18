// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"errors"
	"slices"

	"github.com/jsbundle/jsbundle/internal/dag"
)

const (
	reasonNoRoot      = "no dependency-free bundle found"
	reasonNoProgress  = "bundle includes cannot be satisfied"
	reasonRunawayLoop = "resolution did not converge"
)

// Resolution records the order in which bundles were resolved. Layers[0]
// holds the roots; each later layer holds the bundles whose includes were all
// resolved by earlier layers.
type Resolution struct {
	Layers [][]string
}

// Resolve runs the layered fixpoint over all bundle definitions. Every
// bundle's item list becomes its parents' resolved items in includes order
// followed by its own declared items, deduplicated by physical path with the
// first occurrence kept.
//
// The layers come from a Kahn sort of the include graph, so a bundle is
// latched only after every bundle it includes, and each bundle is visited at
// most once. Paths must have been resolved first. Resolve may run once per
// Configuration; any error leaves it unfit for emission and a second call
// returns ErrAlreadyResolved.
func (c *Configuration) Resolve() (*Resolution, error) {
	if c.resolveStarted {
		return nil, ErrAlreadyResolved
	}
	c.resolveStarted = true

	if err := c.checkReferences(); err != nil {
		return nil, err
	}
	if c.Len() == 0 {
		return &Resolution{}, nil
	}

	layers, sortErr := c.Graph().Layers()
	if len(layers) == 0 {
		return nil, c.cycleError(reasonNoRoot, sortErr)
	}

	res := &Resolution{}
	visited := 0
	for _, names := range layers {
		for _, name := range names {
			def := c.bundles[name]
			sources := make([][]BundleItem, 0, len(def.Includes)+1)
			for _, parent := range def.Includes {
				if !c.bundles[parent].Resolved() {
					return nil, c.cycleError(reasonRunawayLoop, nil)
				}
				sources = append(sources, c.bundles[parent].items)
			}
			sources = append(sources, def.declared)
			def.resolve(mergeItems(sources...))
		}
		visited += len(names)
		res.Layers = append(res.Layers, slices.Clone(names))
	}

	if sortErr != nil {
		return nil, c.cycleError(reasonNoProgress, sortErr)
	}
	if visited != c.Len() {
		return nil, c.cycleError(reasonRunawayLoop, nil)
	}
	return res, nil
}

// Graph returns the include graph with an edge from every parent to each
// bundle that includes it. Unknown include names become bare nodes.
func (c *Configuration) Graph() *dag.Graph {
	g := dag.New()
	for _, def := range c.Bundles() {
		g.AddNode(def.Name)
	}
	for _, def := range c.Bundles() {
		for _, parent := range def.Includes {
			g.AddEdge(parent, def.Name)
		}
	}
	return g
}

func (c *Configuration) checkReferences() error {
	for _, def := range c.Bundles() {
		for _, parent := range def.Includes {
			if _, ok := c.bundles[parent]; !ok {
				return &BundleNotFoundError{Name: parent, ReferencedBy: def.Name}
			}
		}
	}
	return nil
}

// cycleError describes the bundles left unresolved. A cycle reported by the
// graph sort is reused; otherwise one is extracted from the unresolved set.
func (c *Configuration) cycleError(reason string, sortErr error) *CycleError {
	var unresolved []string
	for _, def := range c.Bundles() {
		if !def.Resolved() {
			unresolved = append(unresolved, def.Name)
		}
	}

	var cycle []string
	var graphCycle *dag.CycleError
	if errors.As(sortErr, &graphCycle) && len(graphCycle.Cycle) > 1 &&
		graphCycle.Cycle[0] == graphCycle.Cycle[len(graphCycle.Cycle)-1] {
		cycle = slices.Clone(graphCycle.Cycle)
	} else {
		cycle = c.Graph().FindCycle(unresolved)
	}
	// Present the cycle in includes direction: a -> b means a includes b.
	slices.Reverse(cycle)
	return &CycleError{Reason: reason, Unresolved: unresolved, Cycle: cycle}
}

// mergeItems concatenates the sources into a fresh slice, keeping the first
// item seen for each physical path.
func mergeItems(sources ...[]BundleItem) []BundleItem {
	n := 0
	for _, s := range sources {
		n += len(s)
	}
	out := make([]BundleItem, 0, n)
	seen := make(map[string]struct{}, n)
	for _, s := range sources {
		for _, item := range s {
			if _, dup := seen[item.PhysicalPath]; dup {
				continue
			}
			seen[item.PhysicalPath] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}
