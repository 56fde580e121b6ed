package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guavabuy/secondbrain/internal/core/domain"
)

func TestPersonaAnswerNoLLM(t *testing.T) {
	svc := NewPersonaService(&memProfile{}, nil, nil)
	_, err := svc.Answer(context.Background(), "hi")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestPersonaAnswerEmptyMessage(t *testing.T) {
	svc := NewPersonaService(&memProfile{}, nil, &stubLLM{reply: "x"})
	_, err := svc.Answer(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPersonaSystemPromptComposition(t *testing.T) {
	profile := &memProfile{text: "# 核心性格与偏好\n喜欢第一性原理"}
	corpus := seedCorpus(domain.MemoryChunk{
		Source:    domain.SourceNotion,
		CreatedAt: "2026-08-30T00:00:00+00:00",
		Weight:    0.7,
		Text:      "最近在研究做市",
	})
	svc := NewPersonaService(profile, NewDigestService(corpus), &stubLLM{reply: "ok"})

	prompt := svc.SystemPrompt(context.Background())
	assert.Contains(t, prompt, "第二大脑")
	assert.Contains(t, prompt, "【你对用户的核心认知 (长期记忆)】")
	assert.Contains(t, prompt, "喜欢第一性原理")
}

func TestPersonaAnswerUsesPrompt(t *testing.T) {
	llm := &stubLLM{reply: " 哈哈，我觉得可以 "}
	svc := NewPersonaService(&memProfile{text: "profile body"}, nil, llm)

	out, err := svc.Answer(context.Background(), "最近怎么样")
	require.NoError(t, err)
	assert.Equal(t, "哈哈，我觉得可以", out)

	require.Len(t, llm.systems, 1)
	assert.Contains(t, llm.systems[0], "profile body")
	assert.Equal(t, []string{"最近怎么样"}, llm.users)
}
