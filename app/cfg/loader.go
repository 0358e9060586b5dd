package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./matcher.db" description:"SQLite database path for session persistence"`

	// Application configuration
	SourcesFile  string `long:"sources-file" env:"SOURCES_FILE" default:"./sources.yml" description:"YAML document declaring M3U and EPG sources"`
	M3UDir       string `long:"m3u-dir" env:"M3U_DIR" default:"./m3u" description:"Destination folder for M3U source files"`
	XMLTVDir     string `long:"xmltv-dir" env:"XMLTV_DIR" default:"./xmltv" description:"Destination folder for XMLTV source files"`
	OutputM3U    string `long:"output-m3u" env:"OUTPUT_M3U" default:"./output/matched.m3u" description:"Path of the generated playlist"`
	OutputXMLTV  string `long:"output-xmltv" env:"OUTPUT_XMLTV" default:"./output/matched.xml" description:"Path of the generated guide document"`
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount  int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for matching and generation"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"M3U-XMLTV Channel Matcher/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:       raw.DBPath,
		SourcesFile:  raw.SourcesFile,
		M3UDir:       raw.M3UDir,
		XMLTVDir:     raw.XMLTVDir,
		OutputM3U:    raw.OutputM3U,
		OutputXMLTV:  raw.OutputXMLTV,
		Port:         raw.Port,
		WorkerCount:  raw.WorkerCount,
		APIAccessKey: raw.APIAccessKey,
		UserAgent:    raw.UserAgent,
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
