package cache

import "time"

// Default time-to-live values per entry kind.
const (
	TTLPage     = 7 * 24 * time.Hour
	TTLGraph    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// PageKeyOpts holds everything besides the text that shapes a justified page.
type PageKeyOpts struct {
	FontHash    string   `json:"font_hash"`
	Goal        int      `json:"goal"`
	Variations  []string `json:"variations,omitempty"`
	Features    []string `json:"features,omitempty"`
	Cost        string   `json:"cost,omitempty"`
	Selector    string   `json:"selector,omitempty"`
	Tolerance   int      `json:"tolerance"`
	Iterations  int      `json:"iterations"`
	PerLocation int      `json:"per_location"`
}

// GraphKeyOpts identifies one paragraph's breakpoint graph rendering.
type GraphKeyOpts struct {
	Paragraph int    `json:"paragraph"`
	Kashida   bool   `json:"kashida"`
	Format    string `json:"format"`
	Detailed  bool   `json:"detailed,omitempty"`
}

// ArtifactKeyOpts identifies a rendered page preview.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Width      int     `json:"width"`
	Margin     int     `json:"margin"`
	FontSize   float64 `json:"font_size"`
	LineHeight float64 `json:"line_height"`
	TextColor  string  `json:"text_color,omitempty"`
	BgColor    string  `json:"bg_color,omitempty"`
	EmbedFont  bool    `json:"embed_font,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	PageKey(textHash string, opts PageKeyOpts) string
	GraphKey(pageHash string, opts GraphKeyOpts) string
	ArtifactKey(pageHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a keyer with no prefix.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// PageKey returns "page:<hash>" over the text hash and options.
func (k *DefaultKeyer) PageKey(textHash string, opts PageKeyOpts) string {
	return hashKey("page", textHash, opts)
}

// GraphKey returns "graph:<hash>".
func (k *DefaultKeyer) GraphKey(pageHash string, opts GraphKeyOpts) string {
	return hashKey("graph", pageHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (k *DefaultKeyer) ArtifactKey(pageHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", pageHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
