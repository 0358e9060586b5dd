package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	SourcesFile  string
	M3UDir       string
	XMLTVDir     string
	OutputM3U    string
	OutputXMLTV  string
	Port         string
	WorkerCount  int
	APIAccessKey string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
