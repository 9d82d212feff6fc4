package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullFeedbackJSON = `{
	"overallScore": 72,
	"ATS": {"score": 80, "tips": []},
	"toneAndStyle": {"score": 70, "tips": [{"type": "good", "tip": "Clear"}]},
	"content": {"score": 65, "tips": []},
	"structure": {"score": 75, "tips": []},
	"skills": {"score": 60, "tips": [{"type": "improve", "tip": "Add keywords", "explanation": "Match the job description"}]}
}`

func TestParseFeedbackRoundTrip(t *testing.T) {
	report, err := ParseFeedback(fullFeedbackJSON)
	require.NoError(t, err)

	assert.Equal(t, 72, report.OverallScore)
	assert.Equal(t, 80, report.ATS.Score)
	assert.Empty(t, report.ATS.Tips)
	require.Len(t, report.ToneAndStyle.Tips, 1)
	assert.Equal(t, TipGood, report.ToneAndStyle.Tips[0].Type)
	assert.Equal(t, "Clear", report.ToneAndStyle.Tips[0].Tip)
	require.Len(t, report.Skills.Tips, 1)
	assert.Equal(t, TipImprove, report.Skills.Tips[0].Type)
	assert.Equal(t, "Match the job description", report.Skills.Tips[0].Explanation)

	// Marshal and parse again: the report must survive unchanged.
	encoded, err := json.Marshal(report)
	require.NoError(t, err)

	again, err := ParseFeedback(string(encoded))
	require.NoError(t, err)
	assert.Equal(t, report, again)
}

func TestParseFeedbackMissingCategory(t *testing.T) {
	payload := `{
		"overallScore": 50,
		"ATS": {"score": 50, "tips": []},
		"toneAndStyle": {"score": 50, "tips": []},
		"content": {"score": 50, "tips": []},
		"structure": {"score": 50, "tips": []}
	}`

	_, err := ParseFeedback(payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skills")
}

func TestParseFeedbackMissingScore(t *testing.T) {
	payload := `{
		"overallScore": 50,
		"ATS": {"tips": []},
		"toneAndStyle": {"score": 50, "tips": []},
		"content": {"score": 50, "tips": []},
		"structure": {"score": 50, "tips": []},
		"skills": {"score": 50, "tips": []}
	}`

	_, err := ParseFeedback(payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ATS")
}

func TestParseFeedbackMissingOverallScore(t *testing.T) {
	payload := `{
		"ATS": {"score": 50, "tips": []},
		"toneAndStyle": {"score": 50, "tips": []},
		"content": {"score": 50, "tips": []},
		"structure": {"score": 50, "tips": []},
		"skills": {"score": 50, "tips": []}
	}`

	_, err := ParseFeedback(payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overallScore")
}

func TestParseFeedbackInvalidTipType(t *testing.T) {
	payload := `{
		"overallScore": 50,
		"ATS": {"score": 50, "tips": [{"type": "neutral", "tip": "Something"}]},
		"toneAndStyle": {"score": 50, "tips": []},
		"content": {"score": 50, "tips": []},
		"structure": {"score": 50, "tips": []},
		"skills": {"score": 50, "tips": []}
	}`

	_, err := ParseFeedback(payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid type")
}

func TestParseFeedbackTruncatedJSON(t *testing.T) {
	_, err := ParseFeedback(`{"overallScore":80,`)
	require.Error(t, err)
}

func TestFeedbackFieldSentinel(t *testing.T) {
	record := Resume{
		ID:          "abc",
		CompanyName: "Acme",
	}

	encoded, err := json.Marshal(record)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"feedback":""`)

	var decoded Resume
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.False(t, decoded.Feedback.Finalized())
}

func TestFeedbackFieldFinalized(t *testing.T) {
	report, err := ParseFeedback(fullFeedbackJSON)
	require.NoError(t, err)

	record := Resume{ID: "abc", Feedback: FeedbackField{Report: report}}
	encoded, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded Resume
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.True(t, decoded.Feedback.Finalized())
	assert.Equal(t, 72, decoded.Feedback.Report.OverallScore)
}

func TestFeedbackFieldRejectsNonEmptyString(t *testing.T) {
	var field FeedbackField
	err := json.Unmarshal([]byte(`"partial"`), &field)
	require.Error(t, err)
}
