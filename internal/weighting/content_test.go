package weighting

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guavabuy/secondbrain/internal/core/domain"
)

func TestContentSignalPenalties(t *testing.T) {
	assert.InDelta(t, 0.1, ContentSignal(""), 1e-9)
	assert.InDelta(t, 0.1, ContentSignal("   \n  "), 1e-9)
	assert.InDelta(t, 0.25, ContentSignal("short text"), 1e-9)
	assert.InDelta(t, 0.2, ContentSignal("https://example.com/some/long/enough/link/to/pass/the/length/check"), 1e-9)
}

func TestContentSignalRewardsLengthAndKeywords(t *testing.T) {
	plain := strings.Repeat("plain filler words without signal ", 10)
	reasoned := plain + " I think therefore my rule is a framework, 因此 结论 策略"

	assert.Greater(t, ContentSignal(reasoned), ContentSignal(plain))
}

func TestContentSignalLengthSaturates(t *testing.T) {
	at2k := strings.Repeat("z", 2000)
	at20k := strings.Repeat("z", 20000)

	// Past ~2000 chars the length multiplier is capped at 1.4.
	assert.InDelta(t, ContentSignal(at2k), ContentSignal(at20k), 1e-9)
}

func TestComputeWeightBounds(t *testing.T) {
	inputs := []string{
		"",
		"x",
		"https://u.rl",
		strings.Repeat("因此 结论 framework therefore because my rule thesis ", 200),
		strings.Repeat("neutral ", 500),
	}
	sources := []domain.Source{
		domain.SourceNotion, domain.SourceX, domain.SourceTrades,
		domain.SourceUnknown, domain.Source("nonexistent"),
	}

	for _, src := range sources {
		for _, text := range inputs {
			w := ComputeWeight(src, text)
			assert.GreaterOrEqual(t, w, MinWeight, "source=%s", src)
			assert.LessOrEqual(t, w, MaxWeight, "source=%s", src)
		}
	}
}

func TestComputeWeightOrdersSources(t *testing.T) {
	text := strings.Repeat("a reasonably long note about process and review ", 10)

	notion := ComputeWeight(domain.SourceNotion, text)
	x := ComputeWeight(domain.SourceX, text)
	trades := ComputeWeight(domain.SourceTrades, text)

	assert.Greater(t, trades, notion)
	assert.Greater(t, notion, x)
}

func TestSourceBaseWeightUnknownFallback(t *testing.T) {
	assert.InDelta(t, 0.40, SourceBaseWeight(domain.Source("never-seen")), 1e-9)
}
