package completion

import (
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insights-workflows/api-service/pkg/models"
)

func TestBuildMessages(t *testing.T) {
	history := []models.ChatTurn{
		{ID: "1", Role: models.RoleUser, Content: "hello"},
		{ID: "2", Role: models.RoleAssistant, Content: "hi there"},
	}

	messages := BuildMessages("Ana", history, "how are you?")
	require.Len(t, messages, 4)

	assert.Equal(t, openai.ChatMessageRoleSystem, messages[0].Role)
	assert.Equal(t, "Hi, my name is Ana", messages[0].Content)

	assert.Equal(t, openai.ChatMessageRoleUser, messages[1].Role)
	assert.Equal(t, "hello", messages[1].Content)
	assert.Equal(t, openai.ChatMessageRoleAssistant, messages[2].Role)

	assert.Equal(t, openai.ChatMessageRoleUser, messages[3].Role)
	assert.Equal(t, "how are you?", messages[3].Content)
}

func TestBuildMessages_EmptyHistory(t *testing.T) {
	messages := BuildMessages("Bo", nil, "first message")
	require.Len(t, messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, messages[0].Role)
	assert.Equal(t, "first message", messages[1].Content)
}
