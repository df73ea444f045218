package checks

import (
	"asset-core/core/identity"
	"asset-core/core/mapper"
)

// CheckDuplicates returns identities mapped to more than one path, in first-seen order.
func CheckDuplicates(entries []mapper.Entry) []mapper.Inconsistency {
	paths := make(map[identity.GUID][]string)
	var order []identity.GUID

	for _, e := range entries {
		if _, seen := paths[e.GUID]; !seen {
			order = append(order, e.GUID)
		}
		paths[e.GUID] = append(paths[e.GUID], e.Path)
	}

	out := []mapper.Inconsistency{}
	for _, id := range order {
		if len(paths[id]) > 1 {
			out = append(out, mapper.Inconsistency{GUID: id, Paths: paths[id]})
		}
	}
	return out
}
