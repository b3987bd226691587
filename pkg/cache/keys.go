package cache

// Keyer derives cache keys. Implementations must be deterministic: the same
// inputs always give the same key.
type Keyer interface {
	// DocumentKey keys the normalized form of a chart document.
	DocumentKey(docHash string) string

	// ArtifactKey keys one rendering of a document.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change the output bytes.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Debug      bool   `json:"debug,omitempty"`
	NoAdjust   bool   `json:"no_adjust,omitempty"`
	EmbedFont  bool   `json:"embed_font,omitempty"`
	Background string `json:"background,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DocumentKey implements Keyer.
func (DefaultKeyer) DocumentKey(docHash string) string {
	return "doc:" + docHash
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}
