package version

// V1_16 drives 1.16.x servers. Slot updates carry no state id and titles
// can only change by reopening the window.
type V1_16 struct{ *base }

func NewV1_16(host Host, version string) *V1_16 {
	return &V1_16{newBase(host, "v1_16", version)}
}
