package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
)

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.DirExists(t, dir)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "openai"))
	require.NoError(t, store.Set("review.max_rules", 5))
	require.NoError(t, store.Set("review.enabled", true))

	assert.Equal(t, "openai", store.GetString("llm.provider"))
	assert.Equal(t, 5, store.GetInt("review.max_rules"))
	assert.True(t, store.GetBool("review.enabled"))

	_, ok := store.Get("missing.key")
	assert.False(t, ok)
	assert.Equal(t, "", store.GetString("missing.key"))
	assert.Equal(t, 0, store.GetInt("missing.key"))
	assert.False(t, store.GetBool("missing.key"))
}

func TestConfigStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("embedding.model", "all-minilm"))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "all-minilm", reopened.GetString("embedding.model"))
}

func TestConfigStore_LoadFlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	config := `
[embedding]
provider = "ollama"
model = "all-minilm"

[llm]
provider = "anthropic"
api_key = "sk-ant-test"

[github]
token = "ghp_test"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(config), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "ollama", store.GetString("embedding.provider"))
	assert.Equal(t, "anthropic", store.GetString("llm.provider"))
	assert.Equal(t, "ghp_test", store.GetString("github.token"))
}

func TestConfigStore_SettingsAccessors(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("embedding.provider", "ollama"))
	require.NoError(t, store.Set("embedding.model", "all-minilm"))
	require.NoError(t, store.Set("llm.provider", "anthropic"))
	require.NoError(t, store.Set("llm.api_key", "sk-ant-test"))
	require.NoError(t, store.Set("github.token", "ghp_test"))

	embed := store.EmbeddingSettings()
	assert.Equal(t, domain.AIProviderOllama, embed.Provider)
	assert.True(t, embed.IsConfigured())

	llm := store.LLMSettings()
	assert.Equal(t, domain.AIProviderAnthropic, llm.Provider)
	assert.Equal(t, "sk-ant-test", llm.APIKey)
	assert.True(t, llm.IsConfigured())

	gh := store.GitHubSettings()
	assert.Equal(t, "ghp_test", gh.Token)
}

func TestConfigStore_LLMSettingsEnvFallback(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "anthropic"))
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-env")

	llm := store.LLMSettings()
	assert.Equal(t, "sk-ant-env", llm.APIKey)
}

func TestConfigStore_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not [valid toml"), 0600))

	_, err := NewConfigStore(dir)
	assert.Error(t, err)
}
