package linkscmd

// FeatureGates exposes the runtime toggles link check handlers honour.
type FeatureGates struct {
	LinkcheckEnabled func() bool
}

func (g FeatureGates) linkcheckEnabled() bool {
	if g.LinkcheckEnabled == nil {
		return true
	}
	return g.LinkcheckEnabled()
}
