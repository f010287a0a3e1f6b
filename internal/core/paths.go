package core

import (
	"os"
	"path/filepath"
)

type Paths struct {
	HomeDir         string
	DataDir         string
	LogFile         string
	HistoryFile     string
	BashHistoryFile string
	JournalFile     string
	ConfigFile      string
}

var defaultPaths *Paths

// NewPaths lays out every ghostsh file beneath homeDir.
func NewPaths(homeDir string) *Paths {
	dataDir := filepath.Join(homeDir, ".ghostsh")
	return &Paths{
		HomeDir:         homeDir,
		DataDir:         dataDir,
		LogFile:         filepath.Join(dataDir, "ghostsh.log"),
		HistoryFile:     filepath.Join(dataDir, "history"),
		BashHistoryFile: filepath.Join(homeDir, ".bash_history"),
		JournalFile:     filepath.Join(dataDir, "journal.db"),
		ConfigFile:      filepath.Join(dataDir, "config.yaml"),
	}
}

func ensureDefaultPaths() {
	if defaultPaths == nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			panic(err)
		}

		defaultPaths = NewPaths(homeDir)

		err = os.MkdirAll(defaultPaths.DataDir, 0755)
		if err != nil {
			panic(err)
		}
	}
}

func HomeDir() string {
	ensureDefaultPaths()
	return defaultPaths.HomeDir
}

func DataDir() string {
	ensureDefaultPaths()
	return defaultPaths.DataDir
}

func LogFile() string {
	ensureDefaultPaths()
	return defaultPaths.LogFile
}

func HistoryFile() string {
	ensureDefaultPaths()
	return defaultPaths.HistoryFile
}

func BashHistoryFile() string {
	ensureDefaultPaths()
	return defaultPaths.BashHistoryFile
}

func JournalFile() string {
	ensureDefaultPaths()
	return defaultPaths.JournalFile
}

func ConfigFile() string {
	ensureDefaultPaths()
	return defaultPaths.ConfigFile
}

// ResetPaths clears the cached paths, forcing them to be reinitialized.
// This is primarily used for testing purposes.
func ResetPaths() {
	defaultPaths = nil
}
