package wpcom

import (
	"strconv"
	"strings"
	"unicode"
)

// CompareVersions compares two version strings the way PHP's
// version_compare does, which is how Jetpack versions are ordered:
// "4.2-alpha" < "4.2" < "4.2.1", and dev < alpha < beta < RC < release < pl.
// It returns -1, 0 or 1.
func CompareVersions(a, b string) int {
	pa, pb := canonicalVersion(a), canonicalVersion(b)
	for i := 0; i < len(pa) || i < len(pb); i++ {
		switch {
		case i >= len(pa):
			return -compareMissing(pb[i])
		case i >= len(pb):
			return compareMissing(pa[i])
		}
		if c := comparePart(pa[i], pb[i]); c != 0 {
			return c
		}
	}
	return 0
}

// canonicalVersion splits on separators and on digit/non-digit boundaries.
func canonicalVersion(v string) []string {
	var parts []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
	}
	prevDigit := false
	for i, r := range strings.TrimSpace(v) {
		switch {
		case r == '.' || r == '-' || r == '_' || r == '+':
			flush()
			continue
		case i > 0 && cur.Len() > 0 && unicode.IsDigit(r) != prevDigit:
			flush()
		}
		cur.WriteRune(r)
		prevDigit = unicode.IsDigit(r)
	}
	flush()
	return parts
}

// a part missing on one side compares like "#" (a release number)
func compareMissing(part string) int {
	if isNumeric(part) {
		return 1
	}
	return compareOrder(specialOrder(part), specialOrder("#"))
}

func comparePart(a, b string) int {
	an, bn := isNumeric(a), isNumeric(b)
	if an && bn {
		x, _ := strconv.ParseInt(a, 10, 64)
		y, _ := strconv.ParseInt(b, 10, 64)
		return compareOrder(int(min(max(x-y, -1), 1)), 0)
	}
	if an {
		a = "#"
	}
	if bn {
		b = "#"
	}
	return compareOrder(specialOrder(a), specialOrder(b))
}

func specialOrder(part string) int {
	p := strings.ToLower(part)
	switch {
	case p == "#":
		return 4
	case strings.HasPrefix(p, "dev"):
		return 0
	case strings.HasPrefix(p, "alpha"), p == "a":
		return 1
	case strings.HasPrefix(p, "beta"), p == "b":
		return 2
	case strings.HasPrefix(p, "rc"):
		return 3
	case strings.HasPrefix(p, "pl"), p == "p":
		return 5
	}
	return -1
}

func compareOrder(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
