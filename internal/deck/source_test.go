package deck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDeck(t *testing.T) {
	src, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, src.Prompts)
	assert.GreaterOrEqual(t, len(src.Answers), 10)
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.json")
	body := `{"black": ["I can't believe {blank}.", "  "], "white": ["a", "b", "", "a"]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	src, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"I can't believe {blank}."}, src.Prompts)
	assert.Equal(t, []string{"a", "b", "a"}, src.Answers)
}

func TestLoadHCL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.hcl")
	body := `
prompts = ["Why am I sticky?", "{blank} and {blank}"]
answers = ["glue", "honey"]
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	src, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, src.Prompts, 2)
	assert.Equal(t, []string{"glue", "honey"}, src.Answers)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("bad json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deck.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("bad hcl", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deck.hcl")
		require.NoError(t, os.WriteFile(path, []byte("prompts = ["), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestStats(t *testing.T) {
	src := &Source{
		Prompts: []string{"none", "{blank}", "{blank} {blank}", "{blank}."},
		Answers: []string{"a"},
	}
	st := src.Stats("{blank}")
	assert.Equal(t, 4, st.Prompts)
	assert.Equal(t, 1, st.Answers)
	assert.Equal(t, map[int]int{0: 1, 1: 2, 2: 1}, st.BlanksHistogram)
}
