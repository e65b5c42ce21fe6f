package resolve

import (
	"sort"

	"plotkit/core"
)

// PruneDependents computes the transitive closure of "depends on target"
// over the construction reference graph, starting from the target itself.
// Applying the returned set guarantees no dangling reference survives a
// deletion. The target id is always included, even when no object carries
// it — removing an absent id is harmless.
func PruneDependents(target int, objects []core.Construction) []int {
	remove := map[int]bool{target: true}
	for {
		added := false
		for _, obj := range objects {
			id := obj.ObjectID()
			if remove[id] {
				continue
			}
			for _, ref := range core.VertexRefs(obj) {
				if remove[ref] {
					remove[id] = true
					added = true
					break
				}
			}
		}
		if !added {
			break
		}
	}
	ids := make([]int, 0, len(remove))
	for id := range remove {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
