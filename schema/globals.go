package schema

import "sync"

var (
	// lineIndexGlobal maps every known line ID to its group.
	lineIndexGlobal map[LineID]LineGroup

	lineIndexOnce sync.Once
)

// LookupLine returns the catalog group for an ID across the extended catalog.
func LookupLine(id LineID) (LineGroup, bool) {
	lineIndexOnce.Do(func() {
		all := AuroraLines(true)
		lineIndexGlobal = make(map[LineID]LineGroup, len(all))
		for _, g := range all {
			lineIndexGlobal[g.ID] = g
		}
	})
	g, ok := lineIndexGlobal[id]
	return g, ok
}
