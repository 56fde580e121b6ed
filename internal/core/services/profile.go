package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/guavabuy/secondbrain/internal/core/domain"
	"github.com/guavabuy/secondbrain/internal/core/ports/driven"
	"github.com/guavabuy/secondbrain/internal/core/ports/driving"
	"github.com/guavabuy/secondbrain/internal/logger"
)

var _ driving.ProfileUpdater = (*ProfileService)(nil)

// Profile update bounds.
const (
	profileMaxEvidence = 40
	evidenceTextLimit  = 500
)

const profileSystemPrompt = "你是“用户画像更新器”。你的任务：根据新增证据，更新 user_profile.md。\n" +
	"规则：\n" +
	"1) 输出必须是 Markdown（不是 JSON）。\n" +
	"2) 尽量保持稳定，只做增量更新，不要因为少量证据推翻旧结论。\n" +
	"3) 任何新增结论都要在“证据日志”里写明来源（source/file/created_at）。\n" +
	"4) 文风：简洁、像备忘录。\n" +
	"请使用固定结构：\n" +
	"# 核心性格与偏好\n" +
	"# 决策与学习风格\n" +
	"# 交易风格与风险偏好\n" +
	"# 常见盲点与纠偏提醒\n" +
	"# 近期关注与假设（可变化）\n" +
	"# 证据日志（自动追加）\n"

// ProfileService rewrites the user profile document from corpus lines
// appended since the last run. A cursor into the corpus marks how far
// previous runs have read.
type ProfileService struct {
	corpus  driven.CorpusStore
	cursor  driven.CursorStore
	profile driven.ProfileStore
	llm     driven.LLMService
}

// NewProfileService wires the profile updater.
func NewProfileService(
	corpus driven.CorpusStore,
	cursor driven.CursorStore,
	profile driven.ProfileStore,
	llm driven.LLMService,
) *ProfileService {
	return &ProfileService{corpus: corpus, cursor: cursor, profile: profile, llm: llm}
}

// Update reads corpus lines past the cursor, asks the LLM to revise the
// profile against that evidence and persists the result. The cursor
// advances as soon as the new lines are read, so a failed LLM call does
// not replay the same evidence forever.
func (s *ProfileService) Update(ctx context.Context) (bool, error) {
	if s.llm == nil {
		return false, domain.ErrLLMUnavailable
	}

	offset, err := s.cursor.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load profile cursor: %w", err)
	}

	chunks, total, err := s.corpus.ReadFrom(ctx, offset)
	if err != nil {
		return false, fmt.Errorf("read corpus from %d: %w", offset, err)
	}
	newLines := total - offset
	if newLines < 0 {
		newLines = 0
	}

	if err := s.cursor.Save(ctx, total); err != nil {
		return false, fmt.Errorf("save profile cursor: %w", err)
	}

	if len(chunks) == 0 {
		logger.Info("No new corpus lines, profile update skipped")
		return false, nil
	}

	sort.SliceStable(chunks, func(i, j int) bool { return chunks[i].Weight > chunks[j].Weight })
	if len(chunks) > profileMaxEvidence {
		chunks = chunks[:profileMaxEvidence]
	}

	oldProfile, err := s.profile.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load profile: %w", err)
	}
	oldProfile = strings.TrimSpace(oldProfile)
	if oldProfile == "" {
		oldProfile = "(空)"
	}

	user := fmt.Sprintf(
		"【旧画像】\n%s\n\n【新增证据（本次新增 %d 行 corpus）】\n%s\n\n请输出更新后的完整 user_profile.md 内容。",
		oldProfile, newLines, evidenceBlock(chunks))

	logger.Debug("Profile update: %d new lines, %d evidence chunks", newLines, len(chunks))

	reply, err := s.llm.Complete(ctx, profileSystemPrompt, user)
	if err != nil {
		return false, fmt.Errorf("profile completion: %w", err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		logger.Warn("Empty profile completion, nothing written")
		return false, nil
	}

	if err := s.profile.Save(ctx, reply+"\n"); err != nil {
		return false, fmt.Errorf("save profile: %w", err)
	}
	logger.Info("Profile updated from %d evidence chunks", len(chunks))
	return true, nil
}

// evidenceBlock renders the highest-weight chunks as compact evidence
// lines for the prompt.
func evidenceBlock(chunks []domain.MemoryChunk) string {
	lines := make([]string, 0, len(chunks))
	for _, c := range chunks {
		text := strings.TrimSpace(strings.ReplaceAll(c.Text, "\n", " "))
		if r := []rune(text); len(r) > evidenceTextLimit {
			text = string(r[:evidenceTextLimit])
		}
		lines = append(lines, fmt.Sprintf(
			"- source=%s weight=%v file=%s created_at=%s\n  text=%s",
			c.Source, c.Weight, c.FilePath, c.CreatedAt, text))
	}
	return strings.Join(lines, "\n")
}
