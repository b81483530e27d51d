package advisor

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/cropwise/cropwise/pkg/clients/openrouter"
)

// systemPrompt frames every request to the advice models.
const systemPrompt = `You are an expert agricultural advisor for Cropwise, a farming management platform.
You help farmers with:
- Crop selection and planning
- Pest and disease identification
- Soil management advice
- Weather impact on farming
- Harvest timing
- Irrigation and water management
- Organic farming practices
- Market trends and pricing

Always provide practical, actionable advice based on scientific farming principles.
Be friendly, helpful, and encourage sustainable farming practices.`

// fallbackReply is returned when every model attempt fails. The caller still
// gets a 200; upstream trouble is masked, not surfaced.
const fallbackReply = `I'm sorry, I couldn't connect to the AI service right now. This might be due to:

🔑 **Possible Issues:**
- Service temporarily unavailable
- Network connection issue

**What you can do:**
- Please try again in a few minutes
- Check your internet connection
- Visit our Expert Network for immediate help
- Check the FAQs section

In the meantime, here are general farming tips:

🌱 **Immediate Actions:**
- Check soil moisture levels regularly
- Water according to your crop's needs
- Monitor for pests and diseases
- Apply appropriate fertilizers

💧 **Watering Best Practices:**
- Water deeply but less frequently
- Water early morning or evening to reduce evaporation
- Avoid watering leaves to prevent disease
- Use mulch to retain soil moisture`

// defaultModels is the ordered fallback chain, tried sequentially.
var defaultModels = []string{
	"deepseek/deepseek-r1:free",
	"meta-llama/llama-3.2-3b-instruct:free",
	"microsoft/phi-3-mini-128k-instruct:free",
	"google/gemma-2-9b-it:free",
}

var (
	// ErrNotConfigured means no API key was provided at startup.
	ErrNotConfigured = errors.New("advice service is not configured")
	// ErrUpstreamAuth means the API rejected our credentials.
	ErrUpstreamAuth = errors.New("advice service authentication failed")
)

// Service answers farming questions by proxying them to a chain of hosted
// language models. No conversation state is kept between calls.
type Service struct {
	client openrouter.Client
	models []string
	logger *zap.Logger
}

// NewService builds the advice service. A nil client leaves the service
// unconfigured; Advise then returns ErrNotConfigured.
func NewService(client openrouter.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, models: defaultModels, logger: logger}
}

// Advise forwards the question to each model in order until one answers.
// Auth failures abort the chain; any other failure moves to the next model.
// When every model fails the canned fallback text is returned with no error.
func (s *Service) Advise(ctx context.Context, question string) (string, error) {
	if s.client == nil {
		return "", ErrNotConfigured
	}

	messages := []openrouter.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: strings.TrimSpace(question)},
	}

	for _, model := range s.models {
		reply, err := s.client.Chat(ctx, model, messages)
		if err == nil {
			s.logger.Info("advice generated", zap.String("model", model))
			return reply, nil
		}
		if openrouter.IsAuthError(err) {
			s.logger.Error("advice request rejected, credentials invalid", zap.Error(err))
			return "", ErrUpstreamAuth
		}
		s.logger.Warn("advice model attempt failed", zap.String("model", model), zap.Error(err))
	}

	s.logger.Error("all advice models failed, returning canned reply")
	return fallbackReply, nil
}
