package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/kobun/internal/store"
)

func newWordbookCLI(wordbooks *fakeWordbookRepository) (*WordbookCLI, *bytes.Buffer) {
	var output bytes.Buffer
	return &WordbookCLI{
		wordbooks:    wordbooks,
		stdoutWriter: &output,
		bold:         color.New(color.Bold),
	}, &output
}

func TestWordbookCLI_Add(t *testing.T) {
	t.Run("saves a word", func(t *testing.T) {
		wordbooks := &fakeWordbookRepository{}
		cli, output := newWordbookCLI(wordbooks)

		require.NoError(t, cli.Add(context.Background(), "けり", "助動詞", "終止形", "過去"))
		require.Len(t, wordbooks.words, 1)
		assert.Equal(t, "けり", wordbooks.words[0].Surface)
		assert.Contains(t, output.String(), "Saved けり")
	})

	t.Run("duplicate pair is an error", func(t *testing.T) {
		wordbooks := &fakeWordbookRepository{}
		cli, _ := newWordbookCLI(wordbooks)

		require.NoError(t, cli.Add(context.Background(), "けり", "助動詞", "終止形", "過去"))
		err := cli.Add(context.Background(), "けり", "助動詞", "終止形", "過去")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already in the wordbook")
	})
}

func TestWordbookCLI_ExportImport(t *testing.T) {
	t.Run("exported words import into an empty wordbook unchanged", func(t *testing.T) {
		source := &fakeWordbookRepository{}
		require.NoError(t, source.Create(context.Background(), &store.Word{
			Surface: "けり", PartOfSpeech: "助動詞", Conjugation: "終止形", Meaning: "過去",
		}))
		require.NoError(t, source.Create(context.Background(), &store.Word{
			Surface: "いろは", PartOfSpeech: "名詞", Meaning: "初歩",
		}))

		path := filepath.Join(t.TempDir(), "wordbook.yml")
		exportCLI, _ := newWordbookCLI(source)
		require.NoError(t, exportCLI.Export(context.Background(), path))

		target := &fakeWordbookRepository{}
		importCLI, _ := newWordbookCLI(target)
		result, err := importCLI.Import(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, 2, result.New)
		assert.Equal(t, 0, result.Skipped)

		require.Len(t, target.words, 2)
		assert.Equal(t, "けり", target.words[0].Surface)
		assert.Equal(t, "終止形", target.words[0].Conjugation)
	})

	t.Run("reimporting skips words already present", func(t *testing.T) {
		source := &fakeWordbookRepository{}
		require.NoError(t, source.Create(context.Background(), &store.Word{
			Surface: "けり", PartOfSpeech: "助動詞", Meaning: "過去",
		}))

		path := filepath.Join(t.TempDir(), "wordbook.yml")
		cli, _ := newWordbookCLI(source)
		require.NoError(t, cli.Export(context.Background(), path))

		result, err := cli.Import(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, 0, result.New)
		assert.Equal(t, 1, result.Skipped)
		assert.Len(t, source.words, 1)
	})

	t.Run("an empty wordbook refuses to export", func(t *testing.T) {
		cli, _ := newWordbookCLI(&fakeWordbookRepository{})
		err := cli.Export(context.Background(), filepath.Join(t.TempDir(), "wordbook.yml"))
		assert.Error(t, err)
	})

	t.Run("a malformed file is an import error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "wordbook.yml")
		require.NoError(t, os.WriteFile(path, []byte("surface: [unclosed"), 0o644))

		cli, _ := newWordbookCLI(&fakeWordbookRepository{})
		_, err := cli.Import(context.Background(), path)
		assert.Error(t, err)
	})
}
