package version

// V1_18 drives 1.18.x servers.
type V1_18 struct{ *base }

func NewV1_18(host Host, version string) *V1_18 {
	b := newBase(host, "v1_18", version)
	b.stateIDs = true
	return &V1_18{b}
}
