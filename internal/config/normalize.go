package config

import "strings"

// normalizeConfig canonicalizes values before defaults are applied. Unknown
// enum values are kept so validation can report them.
func normalizeConfig(c *Config) {
	s := &c.Settings
	s.DataDir = dirPath(s.DataDir)
	s.ContentDir = dirPath(s.ContentDir)
	s.ImageDir = dirPath(s.ImageDir)
	s.DataFile = strings.TrimSpace(s.DataFile)
	for i, tag := range s.NoReplacements {
		s.NoReplacements[i] = strings.ToLower(strings.TrimSpace(tag))
	}

	c.Site.Root = strings.TrimSpace(c.Site.Root)
	c.Fetch.Timeout = strings.TrimSpace(c.Fetch.Timeout)
	c.Build.Debounce = strings.TrimSpace(c.Build.Debounce)

	if lvl := NormalizeLogLevel(string(c.Logging.Level)); lvl != "" {
		c.Logging.Level = lvl
	}
	if f := NormalizeLogFormat(string(c.Logging.Format)); f != "" {
		c.Logging.Format = f
	}
}

// dirPath ensures a non-empty directory prefix ends in "/", since resource
// paths are formed by plain concatenation.
func dirPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}
