package cpio

// linkTable tracks hard-link groups during extraction. Members of a
// group arrive with file_size == 0 until the body-carrying member is
// seen; that member's resolved path becomes the link target for every
// deferred path in the group.
type linkTable struct {
	resolved map[linkKey]string   // groups whose target path is known
	pending  map[linkKey][]string // deferred paths awaiting a target
}

func newLinkTable() *linkTable {
	return &linkTable{
		resolved: make(map[linkKey]string),
		pending:  make(map[linkKey][]string),
	}
}

// addPending records path as a member of key's group with no body of
// its own; it will be hard-linked once the group's target is known.
// Callers must check target(key) first and link immediately if the
// group is already resolved.
func (t *linkTable) addPending(key linkKey, path string) {
	t.pending[key] = append(t.pending[key], path)
}

// resolve records path as key's body-carrying target and returns every
// deferred path in the group that must now be hard-linked to it.
func (t *linkTable) resolve(key linkKey, path string) []string {
	t.resolved[key] = path
	pending := t.pending[key]
	delete(t.pending, key)
	return pending
}

// target reports the resolved path for key, if any.
func (t *linkTable) target(key linkKey) (string, bool) {
	p, ok := t.resolved[key]
	return p, ok
}

// dangling reports every group with deferred paths that never saw a
// body-carrying member.
func (t *linkTable) dangling() []linkKey {
	var keys []linkKey
	for k, paths := range t.pending {
		if len(paths) > 0 {
			keys = append(keys, k)
		}
	}
	return keys
}
