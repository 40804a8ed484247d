package presentation

import "strings"

// Icon is the closed set of job role icons the UI knows how to draw.
type Icon int

const (
	// IconFallback is used for any icon name not listed below and renders as
	// a briefcase.
	IconFallback Icon = iota
	IconCloud
	IconBarChart
	IconBrain
	IconPlane
	IconBriefcase
	IconCode
	IconComputer
	IconWrench
	IconDatabase
)

var iconNames = map[Icon]string{
	IconFallback:  "briefcase",
	IconCloud:     "cloud",
	IconBarChart:  "bar-chart-2",
	IconBrain:     "brain",
	IconPlane:     "plane",
	IconBriefcase: "briefcase",
	IconCode:      "code",
	IconComputer:  "computer",
	IconWrench:    "wrench",
	IconDatabase:  "database",
}

var iconByName = map[string]Icon{
	"cloud":       IconCloud,
	"bar-chart-2": IconBarChart,
	"brain":       IconBrain,
	"plane":       IconPlane,
	"briefcase":   IconBriefcase,
	"code":        IconCode,
	"computer":    IconComputer,
	"wrench":      IconWrench,
	"database":    IconDatabase,
	"design":      IconBriefcase,
}

// ParseIcon maps a catalog icon name onto an Icon. Unknown names yield
// IconFallback and ok=false.
func ParseIcon(name string) (icon Icon, ok bool) {
	icon, ok = iconByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return IconFallback, false
	}
	return icon, true
}

// String returns the name of the glyph actually drawn.
func (i Icon) String() string {
	if n, ok := iconNames[i]; ok {
		return n
	}
	return iconNames[IconFallback]
}
