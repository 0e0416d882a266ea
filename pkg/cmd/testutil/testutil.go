package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pseudomuto/reformat-sql/pkg/config"
	"github.com/pseudomuto/reformat-sql/pkg/consts"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// modeDir is the permission used for fixture directories.
const modeDir = 0o755

// Fixture is an isolated temp directory holding SQL files and an optional
// config file.
type Fixture struct {
	Dir    string
	Config *config.Config
	t      *testing.T
}

// NewFixture creates an empty fixture using the default configuration.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()

	return &Fixture{
		Dir:    t.TempDir(),
		Config: config.Defaults(),
		t:      t,
	}
}

// WithFiles writes the given files, keyed by path relative to the fixture
// directory. Parent directories are created as needed.
func (f *Fixture) WithFiles(files map[string]string) *Fixture {
	f.t.Helper()

	for path, content := range files {
		full := f.Path(path)
		require.NoError(f.t, os.MkdirAll(filepath.Dir(full), modeDir), "Failed to create directory for %s", path)
		require.NoError(f.t, os.WriteFile(full, []byte(content), consts.ModeFile), "Failed to write file: %s", path)
	}

	return f
}

// WithConfig applies fn to the fixture's config and writes it to the default
// config file in the fixture directory.
func (f *Fixture) WithConfig(fn func(*config.Config)) *Fixture {
	f.t.Helper()

	fn(f.Config)

	data, err := yaml.Marshal(f.Config)
	require.NoError(f.t, err, "Failed to marshal config")
	require.NoError(f.t, os.WriteFile(f.ConfigPath(), data, consts.ModeFile), "Failed to write config")

	return f
}

// Path returns the absolute path of a fixture file.
func (f *Fixture) Path(rel string) string {
	return filepath.Join(f.Dir, filepath.FromSlash(rel))
}

// ConfigPath returns the path of the fixture's config file.
func (f *Fixture) ConfigPath() string {
	return f.Path(consts.DefaultConfigFile)
}
