package util

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
)

// --- String helpers ---

// Splice replaces a slice of bytes with another slice.
func Splice(b []byte, start, end int, replacement []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(b) - (end - start) + len(replacement))
	buf.Write(b[:start])
	buf.Write(replacement)
	buf.Write(b[end:])
	return buf.Bytes()
}

// --- Filesystem helpers ---

// WriteFileAtomic writes data to a file atomically via temp+rename, so
// an interrupted run never leaves a half-written output.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()
	defer func() { _ = tmp.Close() }()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// RaceDetected checks if a file was modified on disk between reading
// and writing. Size is checked too, some filesystems have
// low-resolution timestamps.
func RaceDetected(before, after os.FileInfo) bool {
	if before == nil || after == nil {
		return false
	}
	return !before.ModTime().Equal(after.ModTime()) || before.Size() != after.Size()
}

// ExpandGlobs expands a list of file paths, including ** patterns.
// Plain paths pass through untouched so missing files still surface as
// per-file read errors instead of silently vanishing.
func ExpandGlobs(files []string) []string {
	var out []string
	for _, f := range files {
		if !strings.ContainsAny(f, "*?[{") {
			out = append(out, f)
			continue
		}
		base, pattern := doublestar.SplitPattern(filepath.ToSlash(f))
		matches, err := doublestar.Glob(os.DirFS(base), pattern)
		if err != nil {
			out = append(out, f)
			continue
		}
		for _, m := range matches {
			out = append(out, filepath.Join(base, m))
		}
	}
	return out
}

// --- Hashing helpers ---

// SHA1Hex computes the SHA1 hash of a byte slice as a hex string.
func SHA1Hex(b []byte) string {
	h := sha1.Sum(b)
	return hex.EncodeToString(h[:])
}

// --- Diff helpers ---

const (
	colorReset = "\x1b[0m"
	colorRed   = "\x1b[31m"
	colorGreen = "\x1b[32m"
	colorCyan  = "\x1b[36m"
)

// UnifiedDiff generates a colored or plain unified diff string.
func UnifiedDiff(orig, mod, filename string, context int, color bool) string {
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(orig),
		B:        difflib.SplitLines(mod),
		FromFile: filename,
		ToFile:   filename + " (instrumented)",
		Context:  context,
	}
	text, err := difflib.GetUnifiedDiffString(d)
	if err != nil {
		return "(diff error: " + err.Error() + ")"
	}
	if !color {
		return text
	}

	var sb strings.Builder
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if i == len(lines)-1 && l == "" {
			continue
		}
		switch {
		case strings.HasPrefix(l, "+"):
			sb.WriteString(colorGreen + l + colorReset + "\n")
		case strings.HasPrefix(l, "-"):
			sb.WriteString(colorRed + l + colorReset + "\n")
		case strings.HasPrefix(l, "@"):
			sb.WriteString(colorCyan + l + colorReset + "\n")
		default:
			sb.WriteString(l + "\n")
		}
	}
	return sb.String()
}
