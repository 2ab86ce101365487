package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, DefaultDirName, "config.toml"), store.Path())
}

func TestNewConfigStore_NestedDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "deep")

	store, err := NewConfigStore(nestedPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(nestedPath, "config.toml"), store.Path())

	info, err := os.Stat(nestedPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_CorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not toml {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Set("crawl.user_agent", "my-bot"))
	require.NoError(t, store.Set("crawl.link_limit", 40))
	require.NoError(t, store.Set("index.fuzzy", 0.3))
	require.NoError(t, store.Set("index.prefix", true))

	assert.Equal(t, "my-bot", store.GetString("crawl.user_agent"))
	assert.Equal(t, 40, store.GetInt("crawl.link_limit"))
	assert.InDelta(t, 0.3, store.GetFloat("index.fuzzy"), 1e-9)
	assert.True(t, store.GetBool("index.prefix"))

	t.Run("missing keys", func(t *testing.T) {
		assert.Equal(t, "", store.GetString("nope"))
		assert.Equal(t, 0, store.GetInt("nope"))
		assert.Equal(t, 0.0, store.GetFloat("nope"))
		assert.False(t, store.GetBool("nope"))
		val, ok := store.Get("nope")
		assert.False(t, ok)
		assert.Nil(t, val)
	})

	t.Run("wrong types", func(t *testing.T) {
		assert.Equal(t, "", store.GetString("crawl.link_limit"))
		assert.Equal(t, 0, store.GetInt("crawl.user_agent"))
		assert.Equal(t, 0.0, store.GetFloat("index.prefix"))
		assert.False(t, store.GetBool("crawl.user_agent"))
	})

	t.Run("integers widen to float", func(t *testing.T) {
		assert.Equal(t, 40.0, store.GetFloat("crawl.link_limit"))
	})
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("crawl.link_limit", 10))
	require.NoError(t, store1.Set("crawl.requests_per_second", 2.5))
	require.NoError(t, store1.Set("index.engine", "sqlite"))
	require.NoError(t, store1.Set("index.prefix", false))

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 10, store2.GetInt("crawl.link_limit"))
	assert.InDelta(t, 2.5, store2.GetFloat("crawl.requests_per_second"), 1e-9)
	assert.Equal(t, "sqlite", store2.GetString("index.engine"))
	val, ok := store2.Get("index.prefix")
	assert.True(t, ok)
	assert.Equal(t, false, val)
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("crawl.link_limit", 12))
	require.NoError(t, store.Set("crawl.concurrency", 4))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[crawl]")
	assert.NotContains(t, string(data), "'crawl.link_limit'")
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := []byte(`
[crawl]
link_limit = 5
user_agent = "site-bot"

[answer]
ready_timeout_seconds = 3
`)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 5, store.GetInt("crawl.link_limit"))
	assert.Equal(t, "site-bot", store.GetString("crawl.user_agent"))
	assert.Equal(t, 3, store.GetInt("answer.ready_timeout_seconds"))
	assert.Equal(t, []string{"answer.ready_timeout_seconds", "crawl.link_limit", "crawl.user_agent"}, store.Keys())
}

func TestConfigStore_EmptyAndCommentOnlyFiles(t *testing.T) {
	for name, content := range map[string]string{
		"empty":   "",
		"comment": "# Just a comment\n\n",
	} {
		t.Run(name, func(t *testing.T) {
			tmpDir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

			store, err := NewConfigStore(tmpDir)
			require.NoError(t, err)
			assert.Empty(t, store.Keys())
		})
	}
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("contact.attribute", "data-phone"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("crawl.link_limit", 1))

	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("crawl.link_limit", 2))
	assert.Error(t, store.Save())
}

func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("index.engine", "memory"))
	require.NoError(t, os.WriteFile(store.Path(), []byte("invalid ][}{"), 0600))

	assert.Error(t, store.Load())
}

func TestConfigStore_SetUnmarshallableValue(t *testing.T) {
	store := newStore(t)
	assert.Error(t, store.Set("broken", make(chan int)))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := newStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := "crawl.k" + string(rune('0'+i))
			_ = store.Set(key, i)
			_ = store.GetInt(key)
			_ = store.GetFloat(key)
			_, _ = store.Get(key)
		}()
	}
	wg.Wait()

	assert.Len(t, store.Keys(), 10)
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"crawl.link_limit":  25,
		"crawl.concurrency": 8,
		"version":           1,
	})

	assert.Equal(t, map[string]any{
		"crawl":   map[string]any{"link_limit": 25, "concurrency": 8},
		"version": 1,
	}, nested)

	assert.Equal(t, map[string]any{
		"crawl.link_limit":  25,
		"crawl.concurrency": 8,
		"version":           1,
	}, flattenMap(nested, ""))
}
