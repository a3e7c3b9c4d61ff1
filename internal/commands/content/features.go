package contentcmd

// FeatureGates exposes the runtime toggles content command handlers honour.
type FeatureGates struct {
	ValidationEnabled func() bool
	CatalogEnabled    func() bool
}

func (g FeatureGates) validationEnabled() bool {
	if g.ValidationEnabled == nil {
		return true
	}
	return g.ValidationEnabled()
}

func (g FeatureGates) catalogEnabled() bool {
	if g.CatalogEnabled == nil {
		return true
	}
	return g.CatalogEnabled()
}
