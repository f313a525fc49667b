package inject

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mhpenta/nanobanana"
	"github.com/mhpenta/nanobanana/provider/gemini"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Manager(t *testing.T) {
	injector := Setup(context.Background(), Config{APIKey: "test-key"})

	manager, err := do.Invoke[*nanobanana.Manager](injector)
	require.NoError(t, err)

	info, ok := manager.GetModelInfo(gemini.APIModelNanoBanana2)
	require.True(t, ok)
	assert.Equal(t, nanobanana.ModelNanoBanana2.String(), info.Name)
}

func TestSetup_StorageWritesLocalFiles(t *testing.T) {
	injector := Setup(context.Background(), Config{APIKey: "test-key"})

	storage, err := do.Invoke[nanobanana.Storage](injector)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.png")
	got, err := storage.SaveFile(context.Background(), []byte("png"), path, "image/png")
	require.NoError(t, err)
	assert.Equal(t, path, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
}
