package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"schemaforge-api/internal/config"
)

func TestPricerEstimate(t *testing.T) {
	p := NewPricer(map[string]config.PricingConfig{
		"gpt-4o": {InputPerMillion: 2.5, OutputPerMillion: 10.0},
	})

	tests := []struct {
		name             string
		model            string
		promptTokens     int
		completionTokens int
		want             float64
	}{
		{
			name:             "known model",
			model:            "gpt-4o",
			promptTokens:     1000,
			completionTokens: 500,
			want:             0.0075,
		},
		{
			name:  "unknown model costs zero",
			model: "mystery-model",
			want:  0,
		},
		{
			name:  "zero tokens",
			model: "gpt-4o",
			want:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Estimate(tt.model, tt.promptTokens, tt.completionTokens)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestPricerNilReceiver(t *testing.T) {
	var p *Pricer
	assert.Zero(t, p.Estimate("gpt-4o", 100, 100))
}
