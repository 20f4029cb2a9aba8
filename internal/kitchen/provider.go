package kitchen

// MapProvider is the simplest Provider: a fixed, in-memory table of cab
// definitions keyed by name. configdoc.YAMLProvider is the document-backed
// implementation used in production; MapProvider is handy for constructing
// recipes directly in tests or from a generated definition set.
type MapProvider map[string]CabDef

func (p MapProvider) GetCab(name string) (CabDef, bool) {
	def, ok := p[name]
	return def, ok
}
