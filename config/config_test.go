package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CPPFSTR_SUFFIX", "")
	t.Setenv("CPPFSTR_STD", "")
	t.Setenv("CPPFSTR_HISTORY", "")
	t.Setenv("CPPFSTR_HISTORY_DB", "")
	t.Setenv("CPPFSTR_DEBUG", "")

	s := Load()
	assert.Equal(t, DefaultSuffix, s.Suffix)
	assert.Equal(t, DefaultStd, s.Std)
	assert.False(t, s.History)
	assert.False(t, s.Debug)
	assert.NotEmpty(t, s.HistoryDB)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CPPFSTR_SUFFIX", ".gen.cpp")
	t.Setenv("CPPFSTR_STD", "c++20")
	t.Setenv("CPPFSTR_HISTORY", "true")
	t.Setenv("CPPFSTR_HISTORY_DB", "/tmp/h.db")
	t.Setenv("CPPFSTR_DEBUG", "1")

	s := Load()
	assert.Equal(t, ".gen.cpp", s.Suffix)
	assert.Equal(t, "c++20", s.Std)
	assert.True(t, s.History)
	assert.True(t, s.Debug)
	assert.Equal(t, "/tmp/h.db", s.HistoryDB)
}

func TestLoadBadBoolFallsBack(t *testing.T) {
	t.Setenv("CPPFSTR_HISTORY", "not-a-bool")
	s := Load()
	assert.False(t, s.History)
}
