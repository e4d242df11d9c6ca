package version

// V1_19 drives 1.19 and 1.20 servers. When the host implements
// TitleUpdater, titles change without reopening the window.
type V1_19 struct{ *base }

func NewV1_19(host Host, version string) *V1_19 {
	b := newBase(host, "v1_19", version)
	b.stateIDs = true
	b.nativeTitle = true
	return &V1_19{b}
}
