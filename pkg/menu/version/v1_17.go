package version

import "golang.org/x/mod/semver"

// V1_17 drives 1.17.x servers. State ids were introduced in 1.17.1.
type V1_17 struct{ *base }

func NewV1_17(host Host, version string) *V1_17 {
	b := newBase(host, "v1_17", version)
	b.stateIDs = semver.Compare(normalize(version), "v1.17.1") >= 0
	return &V1_17{b}
}
