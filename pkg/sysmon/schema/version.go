package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a Sysmon schema version: an ordered major.minor pair.
// It is immutable once parsed.
type Version struct {
	Major int
	Minor int
}

// ParseVersion parses a "major.minor" version string such as "4.50".
// A bare integer is accepted as a major version with minor zero.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, fmt.Errorf("empty version string")
	}

	parts := strings.SplitN(s, ".", 2)
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}

	v := Version{Major: major}
	if len(parts) == 2 {
		minor, err := strconv.Atoi(parts[1])
		if err != nil {
			return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
		}
		// The minor part is a decimal fraction, not an integer: "4.5"
		// means "4.50" and is newer than "4.22". Single-digit minors are
		// scaled to the two digits manifests normally write.
		if minor >= 0 && len(strings.TrimSpace(parts[1])) == 1 {
			minor *= 10
		}
		v.Minor = minor
	}

	return v, nil
}

// String returns the version as "major.minor", zero-padding the minor part
// to two digits the way Sysmon manifests write it (e.g. "4.50", "4.05").
func (v Version) String() string {
	return fmt.Sprintf("%d.%02d", v.Major, v.Minor)
}

// Compare returns -1, 0, or 1 as v is older than, equal to, or newer than o.
func (v Version) Compare(o Version) int {
	if v.Major != o.Major {
		if v.Major < o.Major {
			return -1
		}
		return 1
	}
	if v.Minor != o.Minor {
		if v.Minor < o.Minor {
			return -1
		}
		return 1
	}
	return 0
}

// After reports whether v is strictly newer than o.
func (v Version) After(o Version) bool {
	return v.Compare(o) > 0
}
