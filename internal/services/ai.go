package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mohammed-tarek-rezk/Taskify/internal/models"
	"github.com/sashabaranov/go-openai"
)

// TaskGenerator drafts tasks from free text.
type TaskGenerator interface {
	GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error)
}

type AIService struct {
	client *openai.Client
	model  string
}

type GeneratedTask struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    models.Priority `json:"priority"`
	DueDate     *time.Time      `json:"dueDate"`
}

func NewAIService(apiKey string) *AIService {
	return newAIServiceWithConfig(openai.DefaultConfig(apiKey))
}

func newAIServiceWithConfig(cfg openai.ClientConfig) *AIService {
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.GPT4o,
	}
}

// GenerateTasksFromText analyzes text and extracts tasks using OpenAI GPT
func (s *AIService) GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	currentTime := now().UTC().Format(time.RFC3339)
	prompt := fmt.Sprintf(`You extract actionable tasks from project notes.

Current time: %s

Notes:
%s

Reply with a JSON array of tasks in this shape:
[
  {
    "title": "short task title",
    "description": "what needs to be done",
    "priority": "low | medium | high",
    "dueDate": "RFC3339 timestamp such as 2025-10-28T23:59:59Z, or null when no deadline is stated"
  }
]

Rules:
- Return [] when the notes contain no tasks
- Resolve relative deadlines ("tomorrow", "next week") against the current time
- Return JSON only, without any explanation`, currentTime, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var tasks []GeneratedTask
	if err := json.Unmarshal([]byte(content), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return tasks, nil
}

// stripCodeFence removes a surrounding ``` block that models sometimes add.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
