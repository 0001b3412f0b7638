package gateway

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// statsDelayFunc gates the detached stats lookup; overridable in tests.
type statsDelayFunc func()

func defaultStatsDelay() { time.Sleep(time.Second) }

type generationStats struct {
	Data struct {
		ID          string  `json:"id"`
		Model       string  `json:"model"`
		TotalCost   float64 `json:"total_cost"`
		TokensIn    int     `json:"tokens_prompt"`
		TokensOut   int     `json:"tokens_completion"`
		FinishTime  string  `json:"created_at"`
		ProviderRef string  `json:"provider_name"`
	} `json:"data"`
}

// scheduleGenerationStats fetches per-generation cost accounting out of band.
// The stats endpoint lags the completion itself, hence the delay before the
// lookup. Failures are logged and otherwise ignored; this task must never
// influence a user-facing response.
func (o *OpenRouter) scheduleGenerationStats(generationID string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				o.logger.Error("generation stats task panicked", zap.Any("panic", r))
			}
		}()

		o.statsDelay()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		req, err := o.client.Request(ctx)
		if err != nil {
			o.logger.Warn("generation stats unavailable",
				zap.String("generation_id", generationID), zap.Error(err))
			return
		}

		resp, err := req.
			SetHeader("Authorization", "Bearer "+o.cfg.APIKey).
			SetHeader("HTTP-Referer", o.cfg.SiteURL).
			SetHeader("X-Title", o.cfg.SiteTitle).
			SetQueryParam("id", generationID).
			Get(o.cfg.BaseURL + "/generation")
		if err != nil || resp.StatusCode() >= 400 {
			o.logger.Warn("generation stats lookup failed",
				zap.String("generation_id", generationID), zap.Error(err))
			return
		}

		var stats generationStats
		if err := sonic.Unmarshal(resp.Body(), &stats); err != nil {
			o.logger.Warn("generation stats undecodable",
				zap.String("generation_id", generationID), zap.Error(err))
			return
		}

		o.logger.Info("generation cost recorded",
			zap.String("generation_id", generationID),
			zap.String("model", stats.Data.Model),
			zap.Float64("total_cost", stats.Data.TotalCost),
			zap.Int("tokens_prompt", stats.Data.TokensIn),
			zap.Int("tokens_completion", stats.Data.TokensOut),
		)
	}()
}
