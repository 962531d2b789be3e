package loader

// DefaultFallbackHTML replaces the display container when a page cannot be loaded.
const DefaultFallbackHTML = `<section><h1>Content Not Found</h1><p>This content is not currently available.</p></section>`

// Settings locate site resources and shape the rendered document.
type Settings struct {
	// DataDir and DataFile form the site data path.
	DataDir  string
	DataFile string
	// ContentDir prefixes every resolved content path.
	ContentDir string
	// Container selects the display container that receives page content.
	Container string
	// FallbackHTML replaces the container's children on page failure.
	FallbackHTML string
}

// DefaultSettings mirrors the stock site layout.
func DefaultSettings() Settings {
	return Settings{
		DataDir:      "./src/data/",
		DataFile:     "data.json",
		ContentDir:   "./src/content/",
		Container:    "#article-content",
		FallbackHTML: DefaultFallbackHTML,
	}
}

// DataPath returns the site data resource path.
func (s Settings) DataPath() string { return s.DataDir + s.DataFile }

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.DataDir == "" {
		s.DataDir = d.DataDir
	}
	if s.DataFile == "" {
		s.DataFile = d.DataFile
	}
	if s.ContentDir == "" {
		s.ContentDir = d.ContentDir
	}
	if s.Container == "" {
		s.Container = d.Container
	}
	if s.FallbackHTML == "" {
		s.FallbackHTML = d.FallbackHTML
	}
	return s
}
