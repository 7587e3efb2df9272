package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"learnpack_backend/internal/config"
	"learnpack_backend/internal/model"
)

// ChatResponse 聊天任务要求模型返回的结构化 JSON
type ChatResponse struct {
	Message     string             `json:"message"`
	Suggestions []string           `json:"suggestions,omitempty"`
	Actions     []model.ChatAction `json:"actions,omitempty"`
}

// ChatContext 组装提示词用的用户上下文
type ChatContext struct {
	UserID           string
	CurrentPack      *model.LearningPack
	RecentActivities []model.UserProgress
	UserProgress     []model.UserProgress
}

// AIRecommendation 模型生成的自由文本推荐条目
type AIRecommendation struct {
	PackID     uint    `json:"packId"`
	Title      string  `json:"title"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// UploadInsights 上传内容的摘要结果
type UploadInsights struct {
	Summary          string                 `json:"summary"`
	SuggestedActions []string               `json:"suggestedActions"`
	ExtractedContent map[string]interface{} `json:"extractedContent,omitempty"`
}

type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// AIClient 托管模型能力的注入点，测试用替身实现
type AIClient interface {
	GenerateChatResponse(ctx context.Context, userMessage string, chatCtx ChatContext) (*ChatResponse, error)
	GenerateRecommendations(ctx context.Context, activities []model.UserActivity, completedPacks []model.LearningPack) ([]AIRecommendation, error)
	SummarizeUpload(ctx context.Context, contentPreview, fileType string) (*UploadInsights, error)
	GenerateQuiz(ctx context.Context, content string) ([]QuizQuestion, error)
}

// AIService 走 OpenAI 兼容的 /chat/completions 接口，要求 json_object 响应
type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []AIChatMessage `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// completeJSON 发起一次补全并把 message.content 按 JSON 解析到 out
func (s *AIService) completeJSON(ctx context.Context, messages []AIChatMessage, out interface{}) error {
	reqBody := chatCompletionRequest{
		Model:          s.config.Model,
		Messages:       messages,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return err
	}
	if result.Error != nil {
		return fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return fmt.Errorf("AI returned no choices")
	}

	return json.Unmarshal([]byte(result.Choices[0].Message.Content), out)
}

func (s *AIService) GenerateChatResponse(ctx context.Context, userMessage string, chatCtx ChatContext) (*ChatResponse, error) {
	currentPack := "None"
	if chatCtx.CurrentPack != nil {
		currentPack = chatCtx.CurrentPack.Title
	}

	systemPrompt := fmt.Sprintf(`You are an AI learning assistant for a mobile learning app. You help users with their learning journey, provide explanations, and suggest actions.

Context about the user:
- Current learning pack: %s
- Recent activities: %d activities
- Available actions: upload files, save progress, export results, navigate to different sections

Respond in a helpful, encouraging tone. Keep responses concise for mobile viewing. Always end with helpful suggestions or actions when appropriate.

Return a JSON object with "message" (string), optional "suggestions" (array of short strings) and optional "actions" (array of {type: upload|save|export|navigate, label, data}).`,
		currentPack, len(chatCtx.RecentActivities))

	messages := []AIChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userMessage},
	}

	var out ChatResponse
	if err := s.completeJSON(ctx, messages, &out); err != nil {
		return nil, err
	}
	if out.Message == "" {
		return nil, fmt.Errorf("AI chat response missing message")
	}
	return &out, nil
}

func (s *AIService) GenerateRecommendations(ctx context.Context, activities []model.UserActivity, completedPacks []model.LearningPack) ([]AIRecommendation, error) {
	if len(activities) > 10 {
		activities = activities[:10]
	}
	if len(completedPacks) > 5 {
		completedPacks = completedPacks[:5]
	}

	activitiesJSON, _ := json.Marshal(activities)
	packsJSON, _ := json.Marshal(completedPacks)

	prompt := fmt.Sprintf(`Based on the user's learning history, generate 3-5 personalized learning pack recommendations.

User Activities: %s
Completed Packs: %s

Return a JSON object with "recommendations" array containing:
- packId (number): The recommended pack ID
- title (string): The pack title
- reason (string): Brief explanation why this is recommended
- confidence (number): Confidence score 0-1`, activitiesJSON, packsJSON)

	var out struct {
		Recommendations []AIRecommendation `json:"recommendations"`
	}
	if err := s.completeJSON(ctx, []AIChatMessage{{Role: "user", Content: prompt}}, &out); err != nil {
		return nil, err
	}
	return out.Recommendations, nil
}

func (s *AIService) SummarizeUpload(ctx context.Context, contentPreview, fileType string) (*UploadInsights, error) {
	if len(contentPreview) > 2000 {
		contentPreview = contentPreview[:2000]
	}

	prompt := fmt.Sprintf(`Process this uploaded learning material and provide insights.

File Type: %s
Content Preview: %s...

Return a JSON object with:
- summary (string): Brief summary of the content
- suggestedActions (array): Suggested actions the user can take
- extractedContent (object): Any structured data extracted from the file`, fileType, contentPreview)

	var out UploadInsights
	if err := s.completeJSON(ctx, []AIChatMessage{{Role: "user", Content: prompt}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AIService) GenerateQuiz(ctx context.Context, content string) ([]QuizQuestion, error) {
	prompt := fmt.Sprintf(`Generate 3-5 multiple choice questions from this learning content:

%s

Return a JSON object with "questions" array containing:
- question (string): The question text
- options (array): 4 multiple choice options
- correctAnswer (number): Index of correct answer (0-3)
- explanation (string): Brief explanation of the correct answer`, content)

	var out struct {
		Questions []QuizQuestion `json:"questions"`
	}
	if err := s.completeJSON(ctx, []AIChatMessage{{Role: "user", Content: prompt}}, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}
