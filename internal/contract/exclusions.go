package contract

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/aurora/schema"
)

// parseExclusionsString parses a string like "630.0:0,1,2;OI-777.4:3"
// into a map of line key to frame indices. Keys are not resolved here.
func parseExclusionsString(s string) (map[string][]int, error) {
	exclusions := make(map[string][]int)

	if strings.TrimSpace(s) == "" {
		return exclusions, nil
	}

	for part := range strings.SplitSeq(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		keyValue := strings.Split(part, ":")
		if len(keyValue) != 2 {
			return nil, fmt.Errorf("invalid exclusion format '%s', expected 'line:frame,frame'", part)
		}

		key := strings.TrimSpace(keyValue[0])
		if key == "" {
			return nil, fmt.Errorf("missing line in exclusion '%s'", part)
		}

		for idxStr := range strings.SplitSeq(keyValue[1], ",") {
			idxStr = strings.TrimSpace(idxStr)
			if idxStr == "" {
				continue
			}
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, fmt.Errorf("invalid frame index '%s' for line %s: %w", idxStr, key, err)
			}
			exclusions[key] = append(exclusions[key], idx)
		}
	}

	return exclusions, nil
}

// ResolveExclusions maps raw exclusion keys onto line IDs of the given
// groups. Frame lists are sorted and deduplicated. Keys that match no group
// are returned in sorted order so the caller can report them.
func ResolveExclusions(groups []schema.LineGroup, raw map[string][]int) (map[schema.LineID][]int, []string, error) {
	resolved := make(map[schema.LineID][]int)
	var unknown []string

	for key, frames := range raw {
		group, ok, err := schema.FindLineGroup(groups, key)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid exclusion key: %w", err)
		}
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		for _, idx := range frames {
			if idx < 0 {
				return nil, nil, fmt.Errorf("frame index for %s must not be negative (received %d)", group.ID, idx)
			}
		}
		resolved[group.ID] = append(resolved[group.ID], frames...)
	}

	for id, frames := range resolved {
		slices.Sort(frames)
		resolved[id] = slices.Compact(frames)
	}
	slices.Sort(unknown)
	return resolved, unknown, nil
}
