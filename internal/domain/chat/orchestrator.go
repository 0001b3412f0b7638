package chat

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/eurekastudio/creative-backend/internal/domain/intent"
	"github.com/eurekastudio/creative-backend/internal/gateway"
	"github.com/eurekastudio/creative-backend/internal/infrastructure/logging"
	"github.com/eurekastudio/creative-backend/internal/infrastructure/monitoring"
	"github.com/eurekastudio/creative-backend/internal/shared/apperr"
	"github.com/eurekastudio/creative-backend/internal/shared/id"
	"github.com/eurekastudio/creative-backend/internal/shared/types"
)

const imagePromptPrefix = "Create an image based on: "

// Orchestrator runs the chat workflow over the provider gateway.
type Orchestrator struct {
	gw         gateway.Gateway
	classifier intent.Classifier
	logger     *logging.Logger
	metrics    *monitoring.Metrics
}

// New creates an orchestrator. All collaborators are injected; the
// orchestrator holds no global state.
func New(gw gateway.Gateway, classifier intent.Classifier, logger *logging.Logger, metrics *monitoring.Metrics) *Orchestrator {
	return &Orchestrator{
		gw:         gw,
		classifier: classifier,
		logger:     logger,
		metrics:    metrics,
	}
}

// Respond executes one chat turn. Conversation history is accepted on the
// request but not forwarded upstream; each turn is independent. The returned
// error is nil whenever a reply text was produced, however degraded.
func (o *Orchestrator) Respond(ctx context.Context, req types.ChatRequest) (*types.ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, apperr.Validation("Message is required")
	}

	// One turn ID ties together every provider call this request makes.
	log := o.logger.With(zap.String("turn_id", id.NewTurnID().String()))

	if req.ReferenceImage != "" {
		return o.respondWithReference(ctx, log, req)
	}
	return o.respondPlain(ctx, log, req)
}

// respondWithReference analyzes the uploaded image first, then asks for the
// text reply. Analysis failure degrades to a prompt that reports the failure
// reason; it never aborts the turn. No image generation happens on this path.
func (o *Orchestrator) respondWithReference(ctx context.Context, log *zap.Logger, req types.ChatRequest) (*types.ChatResponse, error) {
	var prompt string

	analysis, err := o.gw.DescribeImage(ctx, req.ReferenceImage, req.Message)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindConfiguration {
			return nil, err
		}
		o.metrics.RecordDegradation("image_analysis")
		log.Warn("image analysis failed, degrading to text-only reply", zap.Error(err))
		prompt = analysisFallbackPrompt(err.Error(), req.Message)
	} else {
		prompt = referencePrompt(analysis.Text, req.Message)
	}

	res, err := o.gw.Chat(ctx, prompt)
	if err != nil {
		o.metrics.RecordReply("reference", "error")
		return nil, err
	}

	o.metrics.RecordReply("reference", "success")
	return Assemble(res.Text, ""), nil
}

// respondPlain asks for the text reply, then attempts best-effort image
// generation when the message expresses image intent.
func (o *Orchestrator) respondPlain(ctx context.Context, log *zap.Logger, req types.ChatRequest) (*types.ChatResponse, error) {
	res, err := o.gw.Chat(ctx, plainPrompt(req.Message))
	if err != nil {
		o.metrics.RecordReply("plain", "error")
		return nil, err
	}

	content := res.Text
	imageURL := ""

	if o.classifier.WantsImage(req.Message) {
		imageURL, content = o.tryGenerateImage(ctx, log, req.Message, content)
	}

	o.metrics.RecordReply("plain", "success")
	return Assemble(content, imageURL), nil
}

// tryGenerateImage attempts image generation and narration. Both steps are
// best-effort: any failure returns the chat reply unchanged. When both
// succeed the narration replaces the original reply.
func (o *Orchestrator) tryGenerateImage(ctx context.Context, log *zap.Logger, message, chatReply string) (imageURL, content string) {
	imagePrompt := message
	if !intent.MentionsImage(message) {
		imagePrompt = imagePromptPrefix + message
	}

	gen, err := o.gw.GenerateImage(ctx, imagePrompt)
	if err != nil {
		o.metrics.RecordDegradation("image_generation")
		log.Warn("image generation failed, keeping chat reply", zap.Error(err))
		return "", chatReply
	}

	narration, err := o.gw.Chat(ctx, narrationPrompt(imagePrompt))
	if err != nil {
		o.metrics.RecordDegradation("image_narration")
		log.Warn("image narration failed, keeping chat reply", zap.Error(err))
		return gen.Text, chatReply
	}

	return gen.Text, narration.Text
}
