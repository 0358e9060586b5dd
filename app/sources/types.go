package sources

// Config declares the playlist and guide sources to reconcile, plus the
// matching settings the original operator-facing settings dialog exposed.
type Config struct {
	M3U        []string `yaml:"m3u"`
	EPG        []string `yaml:"epg"`
	Settings   Settings `yaml:"settings"`
	Categories []string `yaml:"categories"`
}

type Settings struct {
	Threshold        int  `yaml:"threshold"`
	PreserveExisting bool `yaml:"preserve_existing"`
	CleanDownload    bool `yaml:"clean_download"`
}

// SelectsCategory reports whether entries with the given group label should
// be loaded. An empty category list selects everything.
func (c *Config) SelectsCategory(group string) bool {
	if len(c.Categories) == 0 {
		return true
	}
	for _, category := range c.Categories {
		if category == group {
			return true
		}
	}
	return false
}
