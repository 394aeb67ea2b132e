package crawler

import "strings"

// path is the chain of record ids from the root to the node being expanded.
// It is a value: extend returns a new path and never mutates the receiver, so
// siblings cannot observe each other's ids.
type path struct {
	ids []string
	set map[string]struct{}
}

func (p path) contains(id string) bool {
	_, ok := p.set[id]
	return ok
}

func (p path) extend(id string) path {
	ids := make([]string, len(p.ids), len(p.ids)+1)
	copy(ids, p.ids)
	ids = append(ids, id)

	set := make(map[string]struct{}, len(ids))
	for _, v := range ids {
		set[v] = struct{}{}
	}
	return path{ids: ids, set: set}
}

func (p path) String() string {
	return strings.Join(p.ids, " -> ")
}
