package cache

// ScopedKeyer wraps a Keyer with a prefix so that several callers can share
// one backend without their entries colliding. The server scopes its keys
// this way while the CLI uses the bare keyer.
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "srv:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// PageKey generates a prefixed page key.
func (k *ScopedKeyer) PageKey(textHash string, opts PageKeyOpts) string {
	return k.prefix + k.inner.PageKey(textHash, opts)
}

// GraphKey generates a prefixed graph key.
func (k *ScopedKeyer) GraphKey(pageHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(pageHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(pageHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(pageHash, opts)
}
