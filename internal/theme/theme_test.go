package theme

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Theme
		wantErr bool
	}{
		{"light", Light, false},
		{"DARK", Dark, false},
		{" dark ", Dark, false},
		{"sepia", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToggleTheme(t *testing.T) {
	assert.Equal(t, Dark, Light.Toggle())
	assert.Equal(t, Light, Dark.Toggle())
}

func TestPaletteGroups(t *testing.T) {
	light := PaletteFor(Light)
	dark := PaletteFor(Dark)

	require.Len(t, light.Groups, 10)
	require.Len(t, dark.Groups, 10)
	assert.NotEqual(t, light.Groups[0], dark.Groups[0])
	assert.NotEqual(t, light.Background, dark.Background)
	assert.Equal(t, light.Groups[2], light.GroupColor(12))
	assert.Equal(t, light.Groups[3], light.GroupColor(-3))
	for _, c := range dark.Groups {
		assert.Regexp(t, `^#[0-9a-f]{6}$`, c)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.toml")
	s := &FileStore{Path: path}

	_, ok, err := s.Load()
	require.NoError(t, err)
	assert.False(t, ok, "missing file means no preference")

	require.NoError(t, s.Save(Dark))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `theme = "dark"`)

	got, ok, err := s.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Dark, got)
}

func TestFileStoreRejectsUnknownTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.toml")
	require.NoError(t, os.WriteFile(path, []byte(`theme = "neon"`), 0644))

	_, ok, err := (&FileStore{Path: path}).Load()
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestManagerInit(t *testing.T) {
	tests := []struct {
		name    string
		store   *MemoryStore
		ambient bool
		def     Theme
		want    Theme
	}{
		{"saved preference wins", &MemoryStore{Saved: Light}, true, Dark, Light},
		{"default beats ambient", &MemoryStore{}, true, Light, Light},
		{"ambient dark", &MemoryStore{}, true, "", Dark},
		{"ambient light", &MemoryStore{}, false, "", Light},
		{"store error falls back", &MemoryStore{Err: errors.New("denied")}, true, "", Dark},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ambient := tt.ambient
			m := NewManager(tt.store,
				WithAmbient(func() bool { return ambient }),
				WithDefault(tt.def),
				WithLogger(quietLogger()))
			assert.Equal(t, tt.want, m.Init())
			assert.Equal(t, tt.want, m.Current())
		})
	}
}

func TestManagerToggle(t *testing.T) {
	store := &MemoryStore{}
	m := NewManager(store, WithAmbient(func() bool { return false }), WithLogger(quietLogger()))

	var recolored []Theme
	m.OnChange(func(p Palette) { recolored = append(recolored, p.Theme) })

	require.Equal(t, Light, m.Init())
	got, err := m.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Dark, got)
	assert.Equal(t, Dark, store.Saved)
	assert.Equal(t, []Theme{Light, Dark}, recolored)

	got, err = m.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Light, got)
	assert.Equal(t, Light, store.Saved)
}

func TestManagerToggleSaveFailureKeepsTheme(t *testing.T) {
	store := &MemoryStore{}
	m := NewManager(store, WithAmbient(func() bool { return false }), WithLogger(quietLogger()))
	m.Init()

	store.Err = errors.New("read-only")
	got, err := m.Toggle()
	assert.Error(t, err)
	assert.Equal(t, Dark, got)
	assert.Equal(t, Dark, m.Current())
	assert.Equal(t, Dark, m.Palette().Theme)
}
