package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnpack_backend/internal/config"
	"learnpack_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAIServiceWithServer(t *testing.T, handler http.HandlerFunc) *AIService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAIService(config.AIConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "test-model",
	})
}

func completionReply(content string) string {
	reply, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(reply)
}

func TestGenerateChatResponse_RequestShape(t *testing.T) {
	var gotAuth string
	var gotBody chatCompletionRequest

	svc := newAIServiceWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, completionReply(`{"message":"열심히 하고 계시네요!","suggestions":["계속하기"]}`))
	})

	pack := model.LearningPack{Title: "React 입문"}
	resp, err := svc.GenerateChatResponse(context.Background(), "다음에 뭘 배울까?", ChatContext{CurrentPack: &pack})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotBody.Model)
	require.NotNil(t, gotBody.ResponseFormat)
	assert.Equal(t, "json_object", gotBody.ResponseFormat.Type)
	require.Len(t, gotBody.Messages, 2)
	assert.Equal(t, "system", gotBody.Messages[0].Role)
	assert.Contains(t, gotBody.Messages[0].Content, "React 입문")

	assert.Equal(t, "열심히 하고 계시네요!", resp.Message)
	assert.Equal(t, []string{"계속하기"}, resp.Suggestions)
}

func TestGenerateChatResponse_EmptyMessageIsError(t *testing.T) {
	svc := newAIServiceWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionReply(`{"suggestions":["a"]}`))
	})

	_, err := svc.GenerateChatResponse(context.Background(), "hi", ChatContext{})
	assert.Error(t, err)
}

func TestCompleteJSON_UpstreamErrorStatus(t *testing.T) {
	svc := newAIServiceWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	})

	_, err := svc.GenerateQuiz(context.Background(), "content")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateRecommendations_ParsesWrappedArray(t *testing.T) {
	svc := newAIServiceWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionReply(`{"recommendations":[{"packId":3,"title":"SQL 심화","reason":"최근 SQL 학습 이력","confidence":0.9}]}`))
	})

	recs, err := svc.GenerateRecommendations(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.EqualValues(t, 3, recs[0].PackID)
	assert.InDelta(t, 0.9, recs[0].Confidence, 0.001)
}

func TestGenerateQuiz_ParsesQuestions(t *testing.T) {
	svc := newAIServiceWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionReply(`{"questions":[{"question":"q","options":["a","b","c","d"],"correctAnswer":2,"explanation":"because"}]}`))
	})

	questions, err := svc.GenerateQuiz(context.Background(), "learning content")
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, 2, questions[0].CorrectAnswer)
}
