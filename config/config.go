// Package config resolves tool-level settings from the environment. A
// .env file in the working directory is loaded first; it fills in
// variables that are not already set and never overrides the real
// environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults applied when neither flag nor environment say otherwise.
const (
	DefaultSuffix = ".fstr.cpp"
	DefaultStd    = "c++17"
)

// Settings is the environment-derived configuration.
type Settings struct {
	// Suffix appended to sibling output files (CPPFSTR_SUFFIX).
	Suffix string
	// Std is the default language standard (CPPFSTR_STD).
	Std string
	// History enables the run-history store (CPPFSTR_HISTORY).
	History bool
	// HistoryDB is the sqlite path for the store (CPPFSTR_HISTORY_DB).
	HistoryDB string
	// Debug turns on verbose logging (CPPFSTR_DEBUG).
	Debug bool
}

// Load reads .env (if present) and the CPPFSTR_* environment.
func Load() Settings {
	_ = godotenv.Load()

	s := Settings{
		Suffix:    envOr("CPPFSTR_SUFFIX", DefaultSuffix),
		Std:       envOr("CPPFSTR_STD", DefaultStd),
		History:   envBool("CPPFSTR_HISTORY", false),
		HistoryDB: os.Getenv("CPPFSTR_HISTORY_DB"),
		Debug:     envBool("CPPFSTR_DEBUG", false),
	}
	if s.HistoryDB == "" {
		s.HistoryDB = defaultHistoryDB()
	}
	return s
}

func defaultHistoryDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cppfstr-history.db"
	}
	return filepath.Join(home, ".cppfstr", "history.db")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
