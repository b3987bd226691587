package cache

// scopedKeyer prefixes every key of another keyer.
type scopedKeyer struct {
	Keyer
	prefix string
}

// NewScopedKeyer prefixes the keys of inner, or of the default keyer when
// inner is nil, so unrelated users of one backend never collide.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return scopedKeyer{Keyer: inner, prefix: prefix}
}

// NewVersionedKeyer scopes the default keys to a build version. Renderer
// output can change between releases, so artifacts are never shared across
// versions.
func NewVersionedKeyer(version string) Keyer {
	return NewScopedKeyer(nil, "v"+version+":")
}

func (k scopedKeyer) DocumentKey(docHash string) string {
	return k.prefix + k.Keyer.DocumentKey(docHash)
}

func (k scopedKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.Keyer.ArtifactKey(docHash, opts)
}
