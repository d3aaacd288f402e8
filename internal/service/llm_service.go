package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"legalhub/internal/config"
	"legalhub/internal/models"
	"legalhub/pkg/validator"
)

var (
	// ErrAnalysisUnavailable is returned when no model endpoint is configured
	ErrAnalysisUnavailable = errors.New("contract analysis is not configured")
	// ErrRateLimited is returned when the model provider throttles us
	ErrRateLimited = errors.New("analysis rate limited")
	// ErrPaymentRequired is returned when the provider account is out of credit
	ErrPaymentRequired = errors.New("analysis credit exhausted")
)

const analysisSystemPrompt = `Bạn là chuyên gia pháp chế Việt Nam, chuyên phân tích và kiểm tra hợp đồng.
Nhiệm vụ: Phân tích nội dung hợp đồng, phát hiện rủi ro, so sánh với điều khoản chuẩn.

Trả về kết quả theo format JSON với cấu trúc:
{
  "summary": "Tóm tắt tổng quan hợp đồng",
  "riskLevel": "thap" | "trung_binh" | "cao",
  "issues": [
    {
      "clause": "Tên/nội dung điều khoản có vấn đề",
      "riskLevel": "thap" | "trung_binh" | "cao",
      "reason": "Giải thích vì sao rủi ro",
      "suggestion": "Gợi ý nội dung chỉnh sửa"
    }
  ],
  "missingClauses": ["Danh sách điều khoản bắt buộc bị thiếu"],
  "recommendations": ["Các khuyến nghị chung"]
}

Hãy phân tích kỹ lưỡng, chính xác theo luật pháp Việt Nam.`

const maxContractText = 200_000

// ClauseLookup loads the standard clauses chosen for comparison
type ClauseLookup interface {
	ListByIDs(ctx context.Context, ids []string) ([]models.Clause, error)
}

// AnalyzeInput is the analysis request
type AnalyzeInput struct {
	ContractText string   `json:"contract_text"`
	ClauseIDs    []string `json:"clause_ids"`
}

// AnalysisIssue is one risky clause found by the model
type AnalysisIssue struct {
	Clause     string           `json:"clause"`
	RiskLevel  models.RiskLevel `json:"riskLevel"`
	Reason     string           `json:"reason"`
	Suggestion string           `json:"suggestion"`
}

// AnalysisResult is the structured review returned by the model
type AnalysisResult struct {
	Summary         string           `json:"summary"`
	RiskLevel       models.RiskLevel `json:"riskLevel"`
	Issues          []AnalysisIssue  `json:"issues"`
	MissingClauses  []string         `json:"missingClauses"`
	Recommendations []string         `json:"recommendations"`
}

// AnalysisService reviews contract text with an OpenAI-compatible chat model
type AnalysisService struct {
	baseURL string
	apiKey  string
	model   string
	enabled bool
	clauses ClauseLookup
	client  *http.Client
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(cfg config.LLMConfig, clauses ClauseLookup) *AnalysisService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &AnalysisService{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		enabled: cfg.Enabled,
		clauses: clauses,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Available reports whether analysis requests can be served
func (s *AnalysisService) Available() bool {
	return s.enabled && s.apiKey != "" && s.baseURL != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type toolChoice struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type chatRequest struct {
	Model      string        `json:"model"`
	Messages   []chatMessage `json:"messages"`
	Tools      []chatTool    `json:"tools"`
	ToolChoice toolChoice    `json:"tool_choice"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

func riskEnum() map[string]any {
	return map[string]any{"type": "string", "enum": []string{"thap", "trung_binh", "cao"}}
}

func analyzeTool() chatTool {
	return chatTool{
		Type: "function",
		Function: toolFunction{
			Name:        "analyze_contract",
			Description: "Trả về kết quả phân tích hợp đồng",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"summary":   map[string]any{"type": "string", "description": "Tóm tắt tổng quan"},
					"riskLevel": riskEnum(),
					"issues": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"clause":     map[string]any{"type": "string"},
								"riskLevel":  riskEnum(),
								"reason":     map[string]any{"type": "string"},
								"suggestion": map[string]any{"type": "string"},
							},
							"required":             []string{"clause", "riskLevel", "reason", "suggestion"},
							"additionalProperties": false,
						},
					},
					"missingClauses":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"recommendations": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
				"required":             []string{"summary", "riskLevel", "issues", "missingClauses", "recommendations"},
				"additionalProperties": false,
			},
		},
	}
}

// buildUserPrompt appends the reference clauses to the contract text
func buildUserPrompt(contractText string, clauses []models.Clause) string {
	var b strings.Builder
	b.WriteString("Phân tích hợp đồng sau:\n\n")
	b.WriteString(contractText)

	if len(clauses) > 0 {
		b.WriteString("\n\nSo sánh với các điều khoản chuẩn sau:\n")
		for i, c := range clauses {
			fmt.Fprintf(&b, "\n%d. %s (Rủi ro: %s):\n%s\n", i+1, c.Name, c.RiskLevel, c.Content)
		}
	}
	return b.String()
}

// Analyze sends the contract text and selected standard clauses to the model
// and returns its structured review
func (s *AnalysisService) Analyze(ctx context.Context, actor Actor, input AnalyzeInput) (*AnalysisResult, error) {
	if actor.UserID == "" {
		return nil, ErrForbidden
	}
	text := strings.TrimSpace(input.ContractText)
	if err := validator.ValidateRequired("contract_text", text); err != nil {
		return nil, invalid("%v", err)
	}
	if len(text) > maxContractText {
		return nil, invalid("contract_text must be at most %d characters", maxContractText)
	}
	if !s.Available() {
		return nil, ErrAnalysisUnavailable
	}

	var clauses []models.Clause
	if len(input.ClauseIDs) > 0 && s.clauses != nil {
		for _, id := range input.ClauseIDs {
			if err := checkID(id); err != nil {
				return nil, invalid("clause_ids contains an invalid id")
			}
		}
		var err error
		clauses, err = s.clauses.ListByIDs(ctx, input.ClauseIDs)
		if err != nil {
			return nil, err
		}
	}

	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: analysisSystemPrompt},
			{Role: "user", Content: buildUserPrompt(text, clauses)},
		},
		Tools:      []chatTool{analyzeTool()},
		ToolChoice: toolChoice{Type: "function", Function: toolFunction{Name: "analyze_contract"}},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		slog.Error("LLM service unreachable", "error", err)
		return nil, fmt.Errorf("failed to call model: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusPaymentRequired:
		return nil, ErrPaymentRequired
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		slog.Error("LLM service returned error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("model returned status %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("failed to decode model response: %w", err)
	}

	result := parseAnalysis(chat)
	slog.Info("Contract analysed",
		"user_id", actor.UserID,
		"clauses", len(clauses),
		"risk_level", result.RiskLevel,
		"issues", len(result.Issues),
		"duration", time.Since(start),
	)
	return result, nil
}

// parseAnalysis prefers the forced tool call, then JSON in the message
// content, and finally treats the content as a plain summary
func parseAnalysis(chat chatResponse) *AnalysisResult {
	var content string
	if len(chat.Choices) > 0 {
		msg := chat.Choices[0].Message
		content = msg.Content
		if len(msg.ToolCalls) > 0 && msg.ToolCalls[0].Function.Arguments != "" {
			var result AnalysisResult
			if err := json.Unmarshal([]byte(msg.ToolCalls[0].Function.Arguments), &result); err == nil {
				return normalize(&result)
			}
			slog.Warn("Could not parse tool call arguments, falling back to content")
		}
	}

	var result AnalysisResult
	if err := json.Unmarshal([]byte(content), &result); err == nil {
		return normalize(&result)
	}
	return normalize(&AnalysisResult{Summary: content, RiskLevel: models.RiskMedium})
}

func normalize(r *AnalysisResult) *AnalysisResult {
	if !r.RiskLevel.Valid() {
		r.RiskLevel = models.RiskMedium
	}
	if r.Issues == nil {
		r.Issues = []AnalysisIssue{}
	}
	if r.MissingClauses == nil {
		r.MissingClauses = []string{}
	}
	if r.Recommendations == nil {
		r.Recommendations = []string{}
	}
	return r
}
