package config

const (
	defaultDatabaseDir = "~/.local/share/cratekeeper"
	defaultExportDir   = "~/.local/share/cratekeeper/exports"
	defaultLogDir      = "~/.local/share/cratekeeper/logs"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"

	defaultFuzzyThreshold    = 0.80
	defaultFuzzyFloor        = 0.70
	defaultCertainConfidence = 0.95
)

func defaultAudioExtensions() []string {
	return []string{".mp3", ".flac", ".wav", ".aiff", ".aif", ".m4a", ".ogg", ".opus"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DatabaseDir: defaultDatabaseDir,
			ExportDir:   defaultExportDir,
			LogDir:      defaultLogDir,
		},
		Library: Library{
			AudioExtensions: defaultAudioExtensions(),
		},
		Vetting: Vetting{
			FuzzyThreshold:    defaultFuzzyThreshold,
			FuzzyFloor:        defaultFuzzyFloor,
			CertainConfidence: defaultCertainConfidence,
			PersistRuns:       true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
