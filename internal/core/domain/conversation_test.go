package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversation_Window(t *testing.T) {
	var c Conversation
	c.Append(RoleUser, "first")
	c.Append(RoleAssistant, "second")
	c.Append(RoleUser, "third")

	t.Run("window smaller than history", func(t *testing.T) {
		w := c.Window(2)
		assert.Len(t, w, 2)
		assert.Equal(t, "second", w[0].Content)
		assert.Equal(t, "third", w[1].Content)
	})

	t.Run("window larger than history", func(t *testing.T) {
		w := c.Window(10)
		assert.Len(t, w, 3)
		assert.Equal(t, "first", w[0].Content)
	})

	t.Run("zero window", func(t *testing.T) {
		assert.Nil(t, c.Window(0))
	})

	t.Run("window is a copy", func(t *testing.T) {
		w := c.Window(1)
		w[0].Content = "mutated"
		assert.Equal(t, "third", c.Window(1)[0].Content)
	})
}

func TestConversation_Clear(t *testing.T) {
	var c Conversation
	c.Append(RoleUser, "hello")
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.Window(5))
}

func TestResponseMode(t *testing.T) {
	assert.True(t, ModeQuick.IsValid())
	assert.True(t, ModeDetailed.IsValid())
	assert.False(t, ResponseMode("verbose").IsValid())
	assert.NotEqual(t, "Unknown", ModeQuick.Description())
	assert.Equal(t, "Unknown", ResponseMode("bogus").Description())
}

func TestAIProvider(t *testing.T) {
	assert.True(t, AIProviderOpenAI.IsValid())
	assert.True(t, AIProviderOllama.IsValid())
	assert.False(t, AIProvider("bedrock").IsValid())

	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
}
