package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/guavabuy/secondbrain/internal/core/domain"
	"github.com/guavabuy/secondbrain/internal/core/ports/driven"
	"github.com/guavabuy/secondbrain/internal/logger"
)

const personaBasePrompt = `Role: 你是用户的 AI 伙伴和“第二大脑”。
Mission: 像一个老朋友一样与用户对话，利用你掌握的知识为他提供启发。
问到“最近/近期/这阵子”，优先依据：
用户最近输入记录 + 最近30天 Notion/X 摘要；
若两者都没有证据，就直接说没有证据，不要编。
Style Guidelines (强制执行):
1. **拒绝死板**: 绝对不要使用“分析师”式的汇报语气。不要列 PPT 目录。
2. **自然口语**: 就像微信聊天一样，可以说“哈哈”、“对了”、“我觉得”。
3. **格式自由**: 除非必要，否则不要使用 Markdown 列表。`

const personaPromptSep = "----------"

// PersonaService answers as the owner's own assistant persona: the
// system prompt is assembled from the base persona, the evolving user
// profile and the recent corpus digest, then handed to the LLM. This is
// the private counterpart of the template-only friend mode.
type PersonaService struct {
	profile driven.ProfileStore
	digest  *DigestService
	llm     driven.LLMService
}

// NewPersonaService wires the persona answerer. Profile and digest are
// optional; a nil LLM makes Answer fail with ErrLLMUnavailable.
func NewPersonaService(profile driven.ProfileStore, digest *DigestService, llm driven.LLMService) *PersonaService {
	return &PersonaService{profile: profile, digest: digest, llm: llm}
}

// SystemPrompt builds the full persona prompt for the current profile
// and corpus state.
func (s *PersonaService) SystemPrompt(ctx context.Context) string {
	prompt := personaBasePrompt

	if s.profile != nil {
		if profile, err := s.profile.Load(ctx); err != nil {
			logger.Warn("Profile load failed: %v", err)
		} else if strings.TrimSpace(profile) != "" {
			prompt += fmt.Sprintf("\n\n【你对用户的核心认知 (长期记忆)】\n%s\n", profile)
		}
	}

	if s.digest != nil {
		if recent, err := s.digest.Recent(ctx, time.Time{}); err != nil {
			logger.Warn("Corpus digest failed: %v", err)
		} else if strings.TrimSpace(recent) != "" {
			prompt += fmt.Sprintf("\n\n%s\n%s\n%s", personaPromptSep, recent, personaPromptSep)
		}
	}

	return prompt
}

// Answer completes the user message against the persona prompt.
func (s *PersonaService) Answer(ctx context.Context, message string) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", domain.ErrInvalidInput
	}

	reply, err := s.llm.Complete(ctx, s.SystemPrompt(ctx), message)
	if err != nil {
		return "", fmt.Errorf("persona completion: %w", err)
	}
	return strings.TrimSpace(reply), nil
}
