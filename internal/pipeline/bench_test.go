package pipeline

import (
	"testing"

	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/source"
)

func benchRequest(months int) Request {
	return Request{
		History:        source.DefaultMonths(12),
		Initial:        testInitial,
		ForecastMonths: months,
		Sim:            config.DefaultSimulation(),
	}
}

func BenchmarkRun(b *testing.B) {
	req := benchRequest(60)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Run(req); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRunBatch(b *testing.B) {
	scenarios := CashScenarios(benchRequest(36), config.DefaultConstraints.Cash.Presets)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, r := range RunBatch(scenarios, nil) {
			if r.Err != nil {
				b.Fatal(r.Err)
			}
		}
	}
}
