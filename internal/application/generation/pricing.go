package generation

import (
	"schemaforge-api/internal/config"
)

// Pricer 按模型名查价并估算单次调用成本。
// 价格单位为每百万 Token 的美元数，未配置的模型成本记零。
type Pricer struct {
	rates map[string]config.PricingConfig
}

func NewPricer(pricing map[string]config.PricingConfig) *Pricer {
	rates := make(map[string]config.PricingConfig, len(pricing))
	for model, p := range pricing {
		rates[model] = p
	}
	return &Pricer{rates: rates}
}

func (p *Pricer) Estimate(model string, promptTokens, completionTokens int) float64 {
	if p == nil {
		return 0
	}
	rate, ok := p.rates[model]
	if !ok {
		return 0
	}
	return float64(promptTokens)*rate.InputPerMillion/1_000_000 +
		float64(completionTokens)*rate.OutputPerMillion/1_000_000
}
