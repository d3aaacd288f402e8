package handlers

import (
	"context"
	"net/http"

	"legalhub/internal/service"
)

// Analyzer runs AI contract analysis
type Analyzer interface {
	Analyze(ctx context.Context, actor service.Actor, input service.AnalyzeInput) (*service.AnalysisResult, error)
}

// AnalysisHandler handles AI contract analysis
type AnalysisHandler struct {
	analyzer Analyzer
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analyzer Analyzer) *AnalysisHandler {
	return &AnalysisHandler{analyzer: analyzer}
}

// Analyze compares contract text against selected standard clauses
// @Summary Analyze contract
// @Description Asks the language model for a risk assessment of the contract text
// @Tags Analysis
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.AnalyzeInput true "Contract text and clause IDs"
// @Success 200 {object} service.AnalysisResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 402 {object} map[string]string "Credits exhausted"
// @Failure 429 {object} map[string]string "Rate limited"
// @Failure 503 {object} map[string]string "Analysis not configured"
// @Router /analysis [post]
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var input service.AnalyzeInput
	if !decodeJSON(w, r, &input) {
		return
	}
	result, err := h.analyzer.Analyze(r.Context(), actor, input)
	if err != nil {
		respondWithServiceError(w, r, "analyze contract", err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}
