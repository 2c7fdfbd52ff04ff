// Package files gives the model read access to the local filesystem. Paths
// that look like credentials are refused whatever the enable state.
package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFile lists extra patterns the read tools refuse, in .gitignore syntax.
const IgnoreFile = ".reactchainignore"

// SecretPatterns are always refused.
var SecretPatterns = []string{
	".env",
	".env.*",
	"*.pem",
	"*.key",
	"id_rsa*",
	"id_ed25519*",
	".ssh/",
	".aws/",
	"credentials*",
	".netrc",
}

// ErrIgnored is returned for paths matched by the guard.
var ErrIgnored = errors.New("reading that file is not allowed")

// Guard decides which local paths the read tools may open.
type Guard struct {
	matcher gitignore.IgnoreParser
}

// NewGuard compiles SecretPatterns plus the patterns in dir/IgnoreFile when
// that file exists.
func NewGuard(dir string) (*Guard, error) {
	path := filepath.Join(dir, IgnoreFile)
	if _, err := os.Stat(path); err != nil {
		return &Guard{matcher: gitignore.CompileIgnoreLines(SecretPatterns...)}, nil
	}
	m, err := gitignore.CompileIgnoreFileAndLines(path, SecretPatterns...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", IgnoreFile, err)
	}
	return &Guard{matcher: m}, nil
}

// Check returns ErrIgnored when path matches a pattern.
func (g *Guard) Check(path string) error {
	if g == nil || g.matcher == nil {
		return nil
	}
	clean := filepath.ToSlash(filepath.Clean(path))
	if g.matcher.MatchesPath(clean) {
		return fmt.Errorf("%s: %w", path, ErrIgnored)
	}
	return nil
}

// ReadFile reads path after the guard check.
func (g *Guard) ReadFile(path string) ([]byte, error) {
	if err := g.Check(path); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}
