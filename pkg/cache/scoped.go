package cache

// ScopedKeyer prefixes every key of an inner Keyer, so that several
// deployments can share one Redis instance without reading each other's
// entries:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "c4puml:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) DiagramKey(workspaceHash string, opts DiagramKeyOpts) string {
	return k.prefix + k.inner.DiagramKey(workspaceHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sourceHash, opts)
}
