package version

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

var (
	mcVersion      = regexp.MustCompile(`\(MC: ([0-9]+(?:\.[0-9]+){1,2})\)`)
	leadingVersion = regexp.MustCompile(`^v?([0-9]+(?:\.[0-9]+){1,2})`)
)

type shim struct {
	from, until string
	build       func(host Host, version string) Adapter
}

var shims = []shim{
	{"v1.16", "v1.17", func(h Host, v string) Adapter { return NewV1_16(h, v) }},
	{"v1.17", "v1.18", func(h Host, v string) Adapter { return NewV1_17(h, v) }},
	{"v1.18", "v1.19", func(h Host, v string) Adapter { return NewV1_18(h, v) }},
	{"v1.19", "v1.21", func(h Host, v string) Adapter { return NewV1_19(h, v) }},
}

// Parse extracts the game version from a server version string such as
// "1.19.4", "1.19.4-R0.1-SNAPSHOT" or "git-Paper-123 (MC: 1.19.4)".
func Parse(serverVersion string) (string, error) {
	s := strings.TrimSpace(serverVersion)
	if m := mcVersion.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}
	if m := leadingVersion.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("%w: cannot read %q", ErrAdapterUnsupported, serverVersion)
}

// Select returns the adapter for the server version.
func Select(serverVersion string, host Host) (Adapter, error) {
	v, err := Parse(serverVersion)
	if err != nil {
		return nil, err
	}
	sv := normalize(v)
	if !semver.IsValid(sv) {
		return nil, fmt.Errorf("%w: %q", ErrAdapterUnsupported, serverVersion)
	}
	for _, s := range shims {
		if semver.Compare(sv, s.from) >= 0 && semver.Compare(sv, s.until) < 0 {
			return s.build(host, v), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrAdapterUnsupported, v)
}

// normalize adds the "v" prefix semver expects.
func normalize(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
