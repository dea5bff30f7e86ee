package tui

import (
	"fmt"
	"strings"
)

// Location is a resolved route: the view to show and, for detail/edit
// routes, the resource id.
type Location struct {
	Mode Mode
	ID   string
}

// route pairs a path pattern with the view it maps to. Patterns use a
// single ":id" placeholder segment.
type route struct {
	pattern string
	mode    Mode
}

// routes is the declarative path -> view table.
var routes = []route{
	{"/", ModeMappings},
	{"/create", ModeForm},
	{"/edit/:id", ModeForm},
	{"/mapping/:id", ModeMappingDetail},
	{"/requests", ModeRequests},
	{"/request/:id", ModeRequestDetail},
}

// Resolve maps a path to its view. Used by the --open flag and internal
// navigation.
func Resolve(path string) (Location, error) {
	segs := splitPath(path)
	for _, r := range routes {
		patSegs := splitPath(r.pattern)
		if loc, ok := match(patSegs, segs, r.mode); ok {
			return loc, nil
		}
	}
	return Location{}, fmt.Errorf("no view for path %q", path)
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func match(pattern, segs []string, mode Mode) (Location, bool) {
	if len(pattern) != len(segs) {
		return Location{}, false
	}
	loc := Location{Mode: mode}
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if segs[i] == "" {
				return Location{}, false
			}
			loc.ID = segs[i]
			continue
		}
		if p != segs[i] {
			return Location{}, false
		}
	}
	return loc, true
}
