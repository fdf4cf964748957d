package dist

import (
	"fmt"
	"strconv"
	"strings"
)

// Field sizes of the device's server-info struct, minus the NUL terminator.
// Longer values are cut to these lengths when the device copies them.
const (
	DeviceVersionMax  = 31
	DeviceImageURLMax = 255
)

// DeviceVersion is the major.minor.patch triple a device compares.
type DeviceVersion struct {
	Major, Minor, Patch int
}

func (v DeviceVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns <0, 0 or >0 as v is older than, equal to or newer than o.
func (v DeviceVersion) Compare(o DeviceVersion) int {
	if v.Major != o.Major {
		return v.Major - o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor - o.Minor
	}
	return v.Patch - o.Patch
}

// DeviceView is what a device keeps of a manifest after copying it into
// fixed-size buffers.
type DeviceView struct {
	Version           string
	ImageURL          string
	Compared          DeviceVersion
	VersionTruncated  bool
	ImageURLTruncated bool
}

// Device returns the record as the device sees it.
func (r Record) Device() DeviceView {
	view := DeviceView{Version: r.Version, ImageURL: r.ImageURL}
	if len(view.Version) > DeviceVersionMax {
		view.Version = view.Version[:DeviceVersionMax]
		view.VersionTruncated = true
	}
	if len(view.ImageURL) > DeviceImageURLMax {
		view.ImageURL = view.ImageURL[:DeviceImageURLMax]
		view.ImageURLTruncated = true
	}
	view.Compared = ParseDeviceVersion(view.Version)
	return view
}

// ParseDeviceVersion reads up to three dot-separated integers the way the
// device does: parsing stops at the first mismatch, missing parts stay 0 and
// anything after the patch number is ignored.
func ParseDeviceVersion(s string) DeviceVersion {
	var parts [3]int
	rest := s
	for i := range parts {
		if i > 0 {
			if len(rest) == 0 || rest[0] != '.' {
				break
			}
			rest = rest[1:]
		}
		n, tail, ok := scanInt(rest)
		if !ok {
			break
		}
		parts[i] = n
		rest = tail
	}
	return DeviceVersion{Major: parts[0], Minor: parts[1], Patch: parts[2]}
}

// scanInt reads an optionally signed decimal after leading blanks.
func scanInt(s string) (int, string, bool) {
	i := 0
	for i < len(s) && strings.IndexByte(" \t\n\v\f\r", s[i]) >= 0 {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digits {
		return 0, s, false
	}
	n, err := strconv.Atoi(s[start:i])
	if err != nil {
		return 0, s, false
	}
	return n, s[i:], true
}
