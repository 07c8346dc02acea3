// Package semver formats application versions, see https://semver.org.
package semver

import (
	"strconv"
	"strings"
)

// V - semantic version: MAJOR.MINOR.PATCH with optional pre-release and build metadata.
type V struct {
	Major, Minor, Patch uint
	PreRelease          string
	Build               []string
}

// String - renders version as "MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD.BUILD]".
func (v V) String() string {
	b := make([]byte, 0, 16)
	for i, n := range []uint{v.Major, v.Minor, v.Patch} {
		if i > 0 {
			b = append(b, '.')
		}
		b = strconv.AppendUint(b, uint64(n), 10)
	}
	if v.PreRelease != "" {
		b = append(b, '-')
		b = append(b, v.PreRelease...)
	}
	if len(v.Build) > 0 {
		b = append(b, '+')
		b = append(b, strings.Join(v.Build, ".")...)
	}
	return string(b)
}
