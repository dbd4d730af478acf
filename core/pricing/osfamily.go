package pricing

import "strings"

// osFamilyRule maps a substring of a free-text OS description to a
// pricing category. Rules are checked in order; first match wins.
type osFamilyRule struct {
	contains string
	family   string
}

// DefaultOSFamily is the pricing category used when nothing matches.
const DefaultOSFamily = "Linux/UNIX"

var osFamilyRules = []osFamilyRule{
	{"CentOS", "Linux/UNIX"},
	{"Red Hat", "Red Hat Enterprise Linux"},
	{"Windows", "Windows"},
	{"SUSE", "SUSE Linux"},
}

// MapOSFamily maps a free-text OS description onto the fixed set of
// pricing categories by first-match substring containment.
func MapOSFamily(raw string) string {
	for _, rule := range osFamilyRules {
		if strings.Contains(raw, rule.contains) {
			return rule.family
		}
	}
	return DefaultOSFamily
}
