package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageContentPlainString(t *testing.T) {
	var resp FeedbackResponse
	require.NoError(t, json.Unmarshal([]byte(`{"message":{"content":"{\"overallScore\":72}"}}`), &resp))

	text, ok := resp.Message.Content.Text()
	require.True(t, ok)
	assert.Equal(t, `{"overallScore":72}`, text)
}

func TestMessageContentSequenceForm(t *testing.T) {
	// The same payload wrapped as a one-element sequence must normalize to
	// identical text.
	var plain, wrapped FeedbackResponse
	require.NoError(t, json.Unmarshal([]byte(`{"message":{"content":"{\"overallScore\":72}"}}`), &plain))
	require.NoError(t, json.Unmarshal([]byte(`{"message":{"content":[{"text":"{\"overallScore\":72}"}]}}`), &wrapped))

	plainText, ok := plain.Message.Content.Text()
	require.True(t, ok)
	wrappedText, ok := wrapped.Message.Content.Text()
	require.True(t, ok)
	assert.Equal(t, plainText, wrappedText)
}

func TestMessageContentAbsent(t *testing.T) {
	var resp FeedbackResponse
	require.NoError(t, json.Unmarshal([]byte(`{"message":{"content":null}}`), &resp))

	_, ok := resp.Message.Content.Text()
	assert.False(t, ok)

	var empty FeedbackResponse
	require.NoError(t, json.Unmarshal([]byte(`{"message":{"content":[]}}`), &empty))
	_, ok = empty.Message.Content.Text()
	assert.False(t, ok)
}

func TestCleanJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CleanJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, CleanJSON("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, CleanJSON(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, CleanJSON("  {\"a\":1}  \n"))
}
