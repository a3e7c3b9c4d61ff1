package buildcmd

// FeatureGates exposes the runtime toggles build command handlers honour.
// Callers supply closures reading from the runtime configuration so handlers
// stay decoupled from it.
type FeatureGates struct {
	GeneratorEnabled func() bool
}

func (g FeatureGates) generatorEnabled() bool {
	if g.GeneratorEnabled == nil {
		return true
	}
	return g.GeneratorEnabled()
}
