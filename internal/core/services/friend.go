package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/guavabuy/secondbrain/internal/core/domain"
	"github.com/guavabuy/secondbrain/internal/core/ports/driven"
	"github.com/guavabuy/secondbrain/internal/core/ports/driving"
	"github.com/guavabuy/secondbrain/internal/logger"
)

var _ driving.FriendReplier = (*FriendService)(nil)

// Fixed reply openers. Downstream consumers assert on these strings
// verbatim, so they are contract, not copy.
const (
	KnownPrefix          = "我对这件事情的观点是："
	UnknownPrefix        = "我最近对这件事没有了解。"
	UnknownSearchPrefix  = "这些是我刚搜索到的内容："
	AmbiguousPrefix      = "我目前对相关事情的了解："
	AmbiguousInferPrefix = "基于我的人物画像，我对你这个问题的推论是："
)

const (
	searchUnavailableLine = "我现在搜不到相关信息（可能是网络不可用或搜索服务不可用）。"
	knownSnippetLead      = "我在你的资料库里找到的相关片段是："
	knownAdviceBlock      = "我的建议：\n- 你先说清楚你更在意：收益/风险/效率/学习哪个？\n- 我再给你 1 个最小可执行的下一步。"
	ambiguousSnippetLead  = "我在你的资料库里找到的“可能相关”片段是："
	ambiguousNoHitLine    = "你的资料库里没有特别直接命中的片段，我先基于线索做推断。"
	ambiguousWebLead      = "我补充查了一下最新信息（联网）："
	ambiguousWebFailLine  = "我尝试联网补充最新信息，但现在搜不到（可能是网络不可用或搜索服务不可用）。"
	inferTailBlock        = "我先给你一个合理假设；你补 1-2 个关键条件我就能更确定。\n直接回我：你的目标 + 你最担心什么。"
	riskDisclaimerLine    = "这只是我的推论/不构成建议。"
)

const (
	maxSubQuestions   = 3
	maxUsedChunkIDs   = 12
	webSearchLimit    = 5
	maxSnippetItems   = 3
	snippetRuneLimit  = 180
	snippetBlockLimit = 520
)

// RouteQuery classifies one query's retrieval evidence:
// Known needs both enough hits and a high enough top score, Unknown
// means no hits or a top score below the low bar, and everything else
// is Ambiguous.
func RouteQuery(pack domain.RetrievalPack, th domain.Thresholds) domain.RouteLabel {
	if pack.HitCount >= th.MinHits && pack.TopScore >= th.High {
		return domain.RouteKnown
	}
	if pack.HitCount == 0 || pack.TopScore < th.Low {
		return domain.RouteUnknown
	}
	return domain.RouteAmbiguous
}

// FriendService is the deterministic friend-mode reply composer. It
// never calls an LLM: every reply is assembled from the fixed templates,
// the retrieval pack and (for stale or unknown topics) a web search.
type FriendService struct {
	search driven.WebSearcher
}

// NewFriendService creates the composer. A nil searcher is allowed and
// degrades every search to the unavailable branch.
func NewFriendService(search driven.WebSearcher) *FriendService {
	return &FriendService{search: search}
}

// Answer routes the query and renders the reply text.
func (s *FriendService) Answer(
	ctx context.Context, query string, pack domain.RetrievalPack, th domain.Thresholds,
) string {
	text, _ := s.compose(ctx, query, pack, th, false)
	return text
}

// AnswerWithMeta is Answer plus per-segment observability metadata.
func (s *FriendService) AnswerWithMeta(
	ctx context.Context, query string, pack domain.RetrievalPack, th domain.Thresholds,
) (string, domain.ReplyMeta) {
	return s.compose(ctx, query, pack, th, true)
}

func (s *FriendService) compose(
	ctx context.Context, query string, pack domain.RetrievalPack, th domain.Thresholds, wantMeta bool,
) (string, domain.ReplyMeta) {
	if th == (domain.Thresholds{}) {
		th = domain.DefaultThresholds()
	}

	meta := domain.ReplyMeta{}
	var metaPtr *domain.ReplyMeta
	if wantMeta {
		metaPtr = &meta
	}

	subqs := SplitSubquestions(query)
	if len(subqs) >= 2 {
		var rendered []string
		for i, sq := range subqs {
			sub := subpackForQuery(pack, sq)
			if r := strings.TrimSpace(s.renderOne(ctx, sq, sub, th, metaPtr, i)); r != "" {
				rendered = append(rendered, r)
			}
		}
		return strings.TrimSpace(strings.Join(rendered, "\n\n")), meta
	}

	return s.renderOne(ctx, query, pack, th, metaPtr, 0), meta
}

// renderOne routes and renders a single segment.
func (s *FriendService) renderOne(
	ctx context.Context, query string, pack domain.RetrievalPack, th domain.Thresholds,
	meta *domain.ReplyMeta, segIdx int,
) string {
	route := RouteQuery(pack, th)
	logger.Debug("Segment %d: route=%s top=%.3f hits=%d query=%q",
		segIdx, route, pack.TopScore, pack.HitCount, query)

	if meta != nil {
		used := make([]string, 0, len(pack.Hits))
		for i := range pack.Hits {
			if i >= maxUsedChunkIDs {
				break
			}
			used = append(used, pack.Hits[i].ChunkID(i))
		}
		meta.Segments = append(meta.Segments, domain.SegmentMeta{
			Index:      segIdx,
			Query:      query,
			Route:      route,
			TopScore:   pack.TopScore,
			HitCount:   pack.HitCount,
			UsedChunks: used,
		})
	}

	switch route {
	case domain.RouteUnknown:
		return s.renderUnknown(ctx, query, meta)
	case domain.RouteKnown:
		return renderKnown(pack)
	default:
		return s.renderAmbiguous(ctx, query, pack, meta)
	}
}

func (s *FriendService) renderUnknown(ctx context.Context, query string, meta *domain.ReplyMeta) string {
	results := s.searchWeb(ctx, query, webSearchLimit, meta)
	lines := formatSearchLines(results, maxSnippetItems)
	if len(lines) == 0 {
		return UnknownPrefix + "\n\n" + UnknownSearchPrefix + "\n" + searchUnavailableLine
	}
	return UnknownPrefix + "\n\n" + UnknownSearchPrefix + "\n" + strings.Join(lines, "\n")
}

func renderKnown(pack domain.RetrievalPack) string {
	parts := []string{KnownPrefix}
	if ctx := formatCorpusContexts(pack); ctx != "" {
		parts = append(parts, "\n"+knownSnippetLead+"\n"+ctx+"\n")
	}
	parts = append(parts, "\n"+knownAdviceBlock)
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func (s *FriendService) renderAmbiguous(
	ctx context.Context, query string, pack domain.RetrievalPack, meta *domain.ReplyMeta,
) string {
	parts := []string{AmbiguousPrefix}

	if snippets := formatCorpusContexts(pack); snippets != "" {
		parts = append(parts, "\n"+ambiguousSnippetLead+"\n"+snippets+"\n")
	} else {
		parts = append(parts, "\n"+ambiguousNoHitLine+"\n")
	}

	if NeedsFreshInfo(query) {
		results := s.searchWeb(ctx, query, webSearchLimit, meta)
		if lines := formatSearchLines(results, maxSnippetItems); len(lines) > 0 {
			parts = append(parts, "\n"+ambiguousWebLead+"\n"+strings.Join(lines, "\n")+"\n")
		} else {
			parts = append(parts, "\n"+ambiguousWebFailLine+"\n")
		}
	}

	parts = append(parts, "\n"+AmbiguousInferPrefix+"\n"+inferTailBlock)
	if IsHighRisk(query) {
		parts = append(parts, riskDisclaimerLine)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// searchWeb performs the web search and records the attempt. A nil
// searcher degrades to no results.
func (s *FriendService) searchWeb(ctx context.Context, query string, k int, meta *domain.ReplyMeta) []domain.WebResult {
	var results []domain.WebResult
	if s.search != nil {
		results = s.search.Search(ctx, query, k)
	}
	if meta != nil {
		meta.WebSearches = append(meta.WebSearches, domain.WebSearchMeta{
			Query:   query,
			Limit:   k,
			OK:      len(results) > 0,
			Results: len(results),
		})
	}
	return results
}

// formatCorpusContexts compresses the pack's contexts into at most
// three short quoted lines with a total size cap, so chat transports
// stay readable.
func formatCorpusContexts(pack domain.RetrievalPack) string {
	ctxs := pack.Contexts()
	if len(ctxs) == 0 {
		return ""
	}
	if len(ctxs) > maxSnippetItems {
		ctxs = ctxs[:maxSnippetItems]
	}

	lines := make([]string, 0, len(ctxs))
	for _, c := range ctxs {
		cc := strings.TrimSpace(strings.ReplaceAll(c, "\n", " "))
		if r := []rune(cc); len(r) > snippetRuneLimit {
			cc = strings.TrimRight(string(r[:snippetRuneLimit]), " ") + "…"
		}
		lines = append(lines, "- "+cc)
	}

	out := strings.TrimSpace(strings.Join(lines, "\n"))
	if r := []rune(out); len(r) > snippetBlockLimit {
		out = strings.TrimSpace(string(r[:snippetBlockLimit]))
	}
	return out
}

// formatSearchLines renders web results as short bullet lines, skipping
// results with neither title nor snippet.
func formatSearchLines(results []domain.WebResult, maxItems int) []string {
	var lines []string
	for _, r := range results {
		if len(lines) >= maxItems {
			break
		}
		head := strings.TrimSpace(r.Title)
		if head == "" {
			snippet := strings.TrimSpace(r.Snippet)
			if sr := []rune(snippet); len(sr) > 40 {
				snippet = string(sr[:40]) + "…"
			}
			head = snippet
		}
		if head == "" {
			continue
		}
		line := "- " + head
		if url := strings.TrimSpace(r.URL); url != "" {
			line += fmt.Sprintf("（%s）", url)
		}
		lines = append(lines, line)
	}
	return lines
}

// Connector words that mark a second question inside one message.
var subQuestionConnectors = []string{"另外", "以及", "同时", "还有", "再问"}

func isSubQuestionSep(r rune) bool {
	switch r {
	case '；', ';', '。', '？', '?', '\n':
		return true
	}
	return false
}

// SplitSubquestions breaks a compound message into up to three
// sub-questions. The splitting is deliberately coarse: connector words
// and sentence-final punctuation only, with duplicate segments removed.
func SplitSubquestions(text string) []string {
	t := strings.TrimSpace(text)
	if t == "" {
		return nil
	}
	for _, conn := range subQuestionConnectors {
		t = strings.ReplaceAll(t, conn, "；")
	}

	var parts []string
	var buf strings.Builder
	flush := func() {
		if p := strings.TrimSpace(buf.String()); p != "" {
			parts = append(parts, p)
		}
		buf.Reset()
	}
	for _, r := range t {
		if isSubQuestionSep(r) {
			flush()
			continue
		}
		buf.WriteRune(r)
	}
	flush()

	var uniq []string
	seen := make(map[string]bool)
	for _, p := range parts {
		pp := strings.TrimSpace(strings.TrimLeft(p, "，,、:："))
		if pp == "" || seen[pp] {
			continue
		}
		seen[pp] = true
		uniq = append(uniq, pp)
	}
	if len(uniq) > maxSubQuestions {
		uniq = uniq[:maxSubQuestions]
	}
	return uniq
}

var (
	cjkAny   = regexp.MustCompile(`[\x{4e00}-\x{9fff}\x{3040}-\x{30ff}\x{ac00}-\x{d7af}]`)
	cjkRuns  = regexp.MustCompile(`[\x{4e00}-\x{9fff}\x{3040}-\x{30ff}\x{ac00}-\x{d7af}]{2,}`)
	cjkChars = regexp.MustCompile(`[\x{4e00}-\x{9fff}\x{3040}-\x{30ff}\x{ac00}-\x{d7af}]`)
	wsRun    = regexp.MustCompile(`\s+`)
)

func normalizeForMatch(s string) string {
	return strings.ToLower(strings.TrimSpace(wsRun.ReplaceAllString(s, " ")))
}

// matchTerms is the lightweight term extraction used only to map a
// sub-question onto the already-retrieved hits.
func matchTerms(s string) []string {
	s = normalizeForMatch(s)
	if s == "" {
		return nil
	}
	if cjkAny.MatchString(s) {
		terms := cjkRuns.FindAllString(s, -1)
		chars := cjkChars.FindAllString(s, -1)
		for i := 0; i+1 < len(chars); i++ {
			terms = append(terms, chars[i]+chars[i+1])
		}
		return terms
	}
	return asciiToken.FindAllString(s, -1)
}

// subpackForQuery filters the whole-query pack down to the hits that
// contain terms of one sub-question. Coverage acts as a pseudo score for
// routing when a hit carries no score of its own.
func subpackForQuery(pack domain.RetrievalPack, subq string) domain.RetrievalPack {
	termSet := make(map[string]bool)
	for _, t := range matchTerms(subq) {
		termSet[t] = true
	}
	if len(termSet) == 0 || len(pack.Hits) == 0 {
		return domain.RetrievalPack{}
	}

	type scored struct {
		score float64
		hit   domain.RetrievalHit
	}
	var picked []scored
	for _, h := range pack.Hits {
		text := normalizeForMatch(h.Text)
		if text == "" {
			continue
		}
		hitTerms := 0
		for t := range termSet {
			if strings.Contains(text, t) {
				hitTerms++
			}
		}
		if hitTerms == 0 {
			continue
		}
		score := h.FinalScore
		if score <= 0 {
			score = float64(hitTerms) / float64(len(termSet))
		}
		picked = append(picked, scored{score: score, hit: h})
	}
	if len(picked) == 0 {
		return domain.RetrievalPack{}
	}

	sort.SliceStable(picked, func(i, j int) bool { return picked[i].score > picked[j].score })

	top := 0.0
	hits := make([]domain.RetrievalHit, 0, len(picked))
	for _, p := range picked {
		if p.score > top {
			top = p.score
		}
		hits = append(hits, p.hit)
	}
	return domain.RetrievalPack{HitCount: len(hits), TopScore: top, Hits: hits}
}

var freshInfoKeywords = []string{
	"今天", "最新", "刚发生", "刚刚", "现在", "当前", "实时",
	"价格", "多少钱", "报价", "涨跌", "行情",
	"日期", "几号", "几点", "时间", "北京时间",
	"新闻", "公告", "发布", "更新",
	"过去24小时", "24小时", "昨晚", "今早", "本周", "本月",
	"today", "latest", "just happened", "right now", "now", "current", "real-time",
	"price", "quote", "market", "rate",
	"date", "time",
	"news", "announcement", "release", "update",
}

// NeedsFreshInfo reports whether the query asks about something
// time-sensitive, which makes an Ambiguous reply attempt a web search.
func NeedsFreshInfo(query string) bool {
	return containsAnyKeyword(query, freshInfoKeywords)
}

var highRiskKeywords = []string{
	"投资", "收益", "回报", "买", "卖", "买入", "卖出", "交易", "仓位", "杠杆", "合约", "期货", "期权",
	"股票", "基金", "币", "btc", "eth", "price", "buy", "sell", "profit", "roi",
	"医疗", "诊断", "处方", "药", "用药", "副作用", "症状", "治疗", "检查", "手术", "医生",
	"diagnosis", "treatment", "medicine", "drug", "prescription",
	"法律", "诉讼", "起诉", "合同", "协议", "违约", "律师", "仲裁", "侵权", "责任",
	"lawsuit", "contract", "legal", "attorney",
}

// IsHighRisk reports whether the query touches investment, medical or
// legal territory, which appends the disclaimer to inference replies.
func IsHighRisk(query string) bool {
	return containsAnyKeyword(query, highRiskKeywords)
}

func containsAnyKeyword(query string, keywords []string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	for _, k := range keywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}
