// Package handler provides HTTP handlers for the verse router.
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/versekit/verse-router/internal/adapter"
	"github.com/versekit/verse-router/internal/config"
	"github.com/versekit/verse-router/internal/domain"
	"github.com/versekit/verse-router/internal/formatter"
	"github.com/versekit/verse-router/internal/ui"
)

// ChatCompletionRequest is the OpenAI-compatible chat completion request.
type ChatCompletionRequest struct {
	Model       string           `json:"model"`
	Messages    []domain.Message `json:"messages"`
	MaxTokens   *int             `json:"max_tokens"`
	Temperature *float64         `json:"temperature"`
	Stream      bool             `json:"stream"`
}

// VerseCommand is the payload for the verse-formatting endpoints.
type VerseCommand struct {
	Code        string   `json:"code" binding:"required"`
	Model       string   `json:"model"`
	MaxTokens   *int     `json:"max_tokens"`
	Temperature *float64 `json:"temperature"`
}

// apiError carries an HTTP status plus an OpenAI-compatible error payload.
type apiError struct {
	status  int
	errType string
	message string
}

// CompletionHandler serves the chat-completion and verse-formatting
// endpoints. When a provider is configured it is consulted first; the
// deterministic formatter is the fallback and the first-resort path when no
// provider exists.
type CompletionHandler struct {
	cfg       *config.Configuration
	provider  adapter.CompletionProvider // nil when no provider is configured
	formatter *formatter.Formatter
	logger    *slog.Logger
}

// CompletionHandlerOption is a functional option for configuring CompletionHandler.
type CompletionHandlerOption func(*CompletionHandler)

// WithProvider sets the upstream completion provider.
func WithProvider(p adapter.CompletionProvider) CompletionHandlerOption {
	return func(h *CompletionHandler) {
		h.provider = p
	}
}

// WithFormatter sets a custom formatter.
func WithFormatter(f *formatter.Formatter) CompletionHandlerOption {
	return func(h *CompletionHandler) {
		h.formatter = f
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) CompletionHandlerOption {
	return func(h *CompletionHandler) {
		h.logger = logger
	}
}

// NewCompletionHandler creates a new CompletionHandler.
func NewCompletionHandler(cfg *config.Configuration, opts ...CompletionHandlerOption) *CompletionHandler {
	h := &CompletionHandler{
		cfg:       cfg,
		formatter: formatter.New(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// HandleChatCompletion handles POST /v1/chat/completions.
// Forwards to the configured provider when available, otherwise answers with
// the local fallback reply.
func (h *CompletionHandler) HandleChatCompletion(c *gin.Context) {
	var req ChatCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "invalid_request_error", "Invalid request body: "+err.Error())
		return
	}
	if len(req.Messages) == 0 {
		h.sendError(c, http.StatusBadRequest, "invalid_request_error", "messages array is required")
		return
	}

	model := req.Model
	if model == "" {
		model = h.cfg.Defaults.Model
	}

	var content string
	if h.provider != nil {
		reply, err := h.provider.Complete(c.Request.Context(), adapter.CompletionRequest{
			Model:       model,
			Messages:    req.Messages,
			MaxTokens:   intOrDefault(req.MaxTokens, h.cfg.Defaults.MaxTokens),
			Temperature: floatOrDefault(req.Temperature, h.cfg.Defaults.Temperature),
		})
		if err != nil {
			h.logger.Error("provider call failed",
				slog.String("provider", h.provider.Name()),
				slog.String("error", err.Error()),
			)
			h.sendError(c, http.StatusInternalServerError, "server_error", err.Error())
			return
		}
		content = reply
	} else {
		content = formatter.SimpleReply(req.Messages)
		c.Set("local_fallback", true)
	}

	c.JSON(http.StatusOK, BuildChatCompletion(content, model))
}

// HandleRenumberVersesStream handles POST /renumber-verses-stream.
// Returns the renumbered array wrapped in a chat completion envelope.
func (h *CompletionHandler) HandleRenumberVersesStream(c *gin.Context) {
	cmd, ok := h.bindVerseCommand(c)
	if !ok {
		return
	}

	content, apiErr := h.renumber(c.Request.Context(), cmd)
	if apiErr != nil {
		h.sendError(c, apiErr.status, apiErr.errType, apiErr.message)
		return
	}

	c.JSON(http.StatusOK, BuildChatCompletion(content, h.verseModel(cmd)))
}

// HandleCleanVersesStream handles POST /clean-verses-stream.
// Returns the cleaned array wrapped in a chat completion envelope.
func (h *CompletionHandler) HandleCleanVersesStream(c *gin.Context) {
	cmd, ok := h.bindVerseCommand(c)
	if !ok {
		return
	}

	content, apiErr := h.clean(c.Request.Context(), cmd)
	if apiErr != nil {
		h.sendError(c, apiErr.status, apiErr.errType, apiErr.message)
		return
	}

	c.JSON(http.StatusOK, BuildChatCompletion(content, h.verseModel(cmd)))
}

// HandleRenumberVerses handles POST /renumber-verses.
// Alternative endpoint returning just the formatted code without the
// chat completion envelope.
func (h *CompletionHandler) HandleRenumberVerses(c *gin.Context) {
	cmd, ok := h.bindVerseCommand(c)
	if !ok {
		return
	}

	content, apiErr := h.renumber(c.Request.Context(), cmd)
	if apiErr != nil {
		h.sendError(c, apiErr.status, apiErr.errType, apiErr.message)
		return
	}

	c.JSON(http.StatusOK, gin.H{"formatted_code": content})
}

// HandleCleanVerses handles POST /clean-verses.
// Alternative endpoint returning just the cleaned code without the
// chat completion envelope.
func (h *CompletionHandler) HandleCleanVerses(c *gin.Context) {
	cmd, ok := h.bindVerseCommand(c)
	if !ok {
		return
	}

	content, apiErr := h.clean(c.Request.Context(), cmd)
	if apiErr != nil {
		h.sendError(c, apiErr.status, apiErr.errType, apiErr.message)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cleaned_code": content})
}

// renumber resolves the renumber transform: the provider when configured,
// the deterministic formatter otherwise.
func (h *CompletionHandler) renumber(ctx context.Context, cmd VerseCommand) (string, *apiError) {
	if h.provider != nil {
		reply, err := h.completeVerseCommand(ctx, cmd, formatter.RenumberSystemPrompt)
		if err != nil {
			h.logger.Error("provider renumber failed",
				slog.String("provider", h.provider.Name()),
				slog.String("error", err.Error()),
			)
			return "", &apiError{http.StatusInternalServerError, "server_error", err.Error()}
		}
		return h.formatter.ExtractFromResponse(reply), nil
	}

	h.logger.Debug("using local deterministic formatter")

	code, err := h.formatter.ExtractCode(cmd.Code)
	if err != nil {
		return "", &apiError{http.StatusBadRequest, "invalid_request_error", "Could not extract Swift code from input"}
	}

	content, err := h.formatter.Renumber(code)
	if err != nil {
		if errors.Is(err, formatter.ErrNoElementLines) {
			return "", &apiError{http.StatusInternalServerError, "server_error", "Formatting failed: " + err.Error()}
		}
		return "", &apiError{http.StatusInternalServerError, "server_error", "Formatting failed"}
	}

	h.recordSavings(cmd.Code, content)
	return content, nil
}

// clean resolves the clean transform. Unlike renumber, a provider error
// falls back to the deterministic cleaner instead of failing the request.
func (h *CompletionHandler) clean(ctx context.Context, cmd VerseCommand) (string, *apiError) {
	if h.provider != nil {
		reply, err := h.completeVerseCommand(ctx, cmd, formatter.CleanSystemPrompt)
		if err == nil {
			return h.formatter.ExtractFromResponse(reply), nil
		}
		h.logger.Warn("provider clean failed, falling back to local cleaner",
			slog.String("provider", h.provider.Name()),
			slog.String("error", err.Error()),
		)
	} else {
		h.logger.Debug("using local comment cleaner")
	}

	content, err := h.formatter.Clean(cmd.Code)
	if err != nil {
		return "", &apiError{http.StatusInternalServerError, "server_error", "Comment cleaning failed"}
	}

	h.recordSavings(cmd.Code, content)
	return content, nil
}

// completeVerseCommand sends a verse command to the provider with the given
// system prompt, fencing the user code the way the prompts expect.
func (h *CompletionHandler) completeVerseCommand(ctx context.Context, cmd VerseCommand, systemPrompt string) (string, error) {
	messages := []domain.Message{
		{Role: domain.RoleSystem, Content: systemPrompt},
		{Role: domain.RoleUser, Content: fmt.Sprintf("```%s\n%s\n```", h.formatter.Language(), cmd.Code)},
	}

	return h.provider.Complete(ctx, adapter.CompletionRequest{
		Model:       h.verseModel(cmd),
		Messages:    messages,
		MaxTokens:   intOrDefault(cmd.MaxTokens, h.cfg.Defaults.VerseMaxTokens),
		Temperature: floatOrDefault(cmd.Temperature, h.cfg.Defaults.Temperature),
	})
}

// bindVerseCommand parses the request body, replying with a 400 on failure.
func (h *CompletionHandler) bindVerseCommand(c *gin.Context) (VerseCommand, bool) {
	var cmd VerseCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.sendError(c, http.StatusBadRequest, "invalid_request_error", "Invalid request body: "+err.Error())
		return VerseCommand{}, false
	}
	return cmd, true
}

// verseModel returns the model for a verse command, falling back to the
// configured default.
func (h *CompletionHandler) verseModel(cmd VerseCommand) string {
	if cmd.Model != "" {
		return cmd.Model
	}
	return h.cfg.Defaults.VerseModel
}

// recordSavings accumulates the estimated provider cost avoided by the
// deterministic path.
func (h *CompletionHandler) recordSavings(input, output string) {
	metrics := RecordLocalSavings(input, output)
	ui.PrintChaChing(FormatMoneySaved(metrics.MoneySaved), FormatMoneySaved(metrics.TotalSaved))
	h.logger.Debug("local transform savings",
		slog.Int("input_tokens", metrics.InputTokens),
		slog.Int("output_tokens", metrics.OutputTokens),
		slog.Float64("saved_usd", metrics.MoneySaved),
	)
}

// HandleModels handles GET /v1/models.
// Returns the default model list; Ollama deployments get local models too.
func (h *CompletionHandler) HandleModels(c *gin.Context) {
	models := []gin.H{
		{"id": "mistral-small-latest", "object": "model"},
		{"id": "mistral-medium-latest", "object": "model"},
		{"id": "mistral-large-latest", "object": "model"},
		{"id": "gpt-4o", "object": "model"},
		{"id": "gpt-4o-mini", "object": "model"},
	}

	if h.cfg.Provider.Type == domain.ProviderOllama {
		models = append(models,
			gin.H{"id": "mistral:latest", "object": "model"},
			gin.H{"id": "deepseek-coder:6.7b", "object": "model"},
		)
	}

	c.JSON(http.StatusOK, gin.H{"data": models})
}

// HandleHealth handles GET /health.
func (h *CompletionHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"provider":    h.cfg.Provider.Type,
		"configured":  h.provider != nil,
		"model":       h.cfg.Defaults.Model,
		"total_saved": FormatMoneySaved(GetTotalSaved()),
	})
}

// sendError sends an error response in OpenAI-compatible format.
func (h *CompletionHandler) sendError(c *gin.Context, status int, errType, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"message": message,
			"type":    errType,
			"param":   nil,
			"code":    nil,
		},
	})
}

// intOrDefault returns the pointed-to value or the fallback.
func intOrDefault(v *int, fallback int) int {
	if v != nil && *v > 0 {
		return *v
	}
	return fallback
}

// floatOrDefault returns the pointed-to value or the fallback.
func floatOrDefault(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}
