package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docent-ai/docent-cli/internal/core/domain"
	"github.com/docent-ai/docent-cli/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
	assert.IsType(t, &Extractor{}, extractor)
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".txt"}, New().Extensions())
}

func TestExtract(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	t.Run("passes text through", func(t *testing.T) {
		out, err := extractor.Extract(ctx, "notes.txt", []byte("hello world"))
		require.NoError(t, err)
		assert.Equal(t, "hello world", out)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		out, err := extractor.Extract(ctx, "notes.txt", []byte("  padded  \n"))
		require.NoError(t, err)
		assert.Equal(t, "padded", out)
	})

	t.Run("rejects invalid utf-8", func(t *testing.T) {
		_, err := extractor.Extract(ctx, "notes.txt", []byte{0xff, 0xfe, 0x00})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.TextExtractor = (*Extractor)(nil)
}
