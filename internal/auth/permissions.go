package auth

import (
	"sort"
	"strings"
)

// PermissionTable is a static allow-list mapping path prefixes to the
// roles permitted under them. Lookup uses longest-prefix match so that
// overlapping prefixes resolve deterministically: "/api/admin/users"
// wins over "/api/admin" for paths under both. A path that matches no
// prefix is denied.
type PermissionTable struct {
	entries []permissionEntry
}

type permissionEntry struct {
	prefix string
	roles  map[string]struct{}
}

// NewPermissionTable builds a table from prefix → allowed roles.
// Role names are normalized to lower case.
func NewPermissionTable(rules map[string][]string) *PermissionTable {
	entries := make([]permissionEntry, 0, len(rules))
	for prefix, roles := range rules {
		set := make(map[string]struct{}, len(roles))
		for _, role := range roles {
			role = strings.TrimSpace(strings.ToLower(role))
			if role == "" {
				continue
			}
			set[role] = struct{}{}
		}
		entries = append(entries, permissionEntry{prefix: prefix, roles: set})
	}
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].prefix) != len(entries[j].prefix) {
			return len(entries[i].prefix) > len(entries[j].prefix)
		}
		return entries[i].prefix < entries[j].prefix
	})
	return &PermissionTable{entries: entries}
}

// Allows reports whether the role may access the path. The first (and
// therefore longest) matching prefix decides; no match means deny.
func (t *PermissionTable) Allows(path, role string) bool {
	if t == nil {
		return false
	}
	role = strings.TrimSpace(strings.ToLower(role))
	for _, e := range t.entries {
		if strings.HasPrefix(path, e.prefix) {
			_, ok := e.roles[role]
			return ok
		}
	}
	return false
}
