package generate

import (
	"fmt"
	"strings"

	"nashr/internal/domain/entity"
)

// BuildStrategicPrompt assembles the strategic-mode prompt: voice and memory, trend input,
// the task, and a strict JSON output contract. The model answers with a single JSON object.
func BuildStrategicPrompt(req entity.GenerationRequest, brand Brand) entity.PromptPayload {
	lang := req.Language
	horizon := req.GoalHorizon.Text(lang)
	name := brandName(brand)

	trends := req.Trends
	if strings.TrimSpace(trends.RecommendationRule) == "" {
		trends.RecommendationRule = brand.TrendRule
	}

	sections := []string{
		strategicBrain(name, brand.Marker),
		memoryBlock(req.Style, lang),
		trendBlock(trends, lang),
		taskBlock(req, horizon),
		outputContract(req, horizon),
	}

	return entity.PromptPayload{
		System: sections[0],
		User:   strings.Join(sections[1:], "\n\n"),
		JSON:   true,
	}
}

func strategicBrain(name, marker string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a Strategic Presence Engine.\n", name)
	b.WriteString("Your job is NOT to write generic AI content.\n")
	b.WriteString("Your job is to produce platform-ready content that matches a user's voice, ")
	b.WriteString("fits a specific audience and serves a strategic goal over time.\n\n")
	b.WriteString("Core principles:\n")
	b.WriteString("1) Voice over text: mimic the user's real style.\n")
	b.WriteString("2) Strategy over words: every post serves a goal (positioning, trust, leads, authority).\n")
	b.WriteString("3) Audience fit: talk to the selected audience with the selected tone.\n")
	b.WriteString("4) Platform fit: X concise; LinkedIn deeper.\n")
	b.WriteString("5) Quality: no fluff, no generic cliches, no filler intros.\n")
	if marker != "" {
		fmt.Fprintf(&b, "6) Brand: start posts with %q only when it reads naturally as part of the hook.\n", strings.TrimSpace(marker))
	}
	return strings.TrimRight(b.String(), "\n")
}

func memoryBlock(sp entity.StyleProfile, lang entity.Language) string {
	en := lang == entity.LanguageEnglish
	lines := []string{"VOICE & MEMORY (use as the primary guide):"}

	voice := strings.TrimSpace(sp.VoiceName)
	if voice == "" {
		voice = entity.DefaultVoiceName
	}
	lines = append(lines, "- Voice name: "+voice)

	if bio := strings.TrimSpace(sp.Bio); bio != "" {
		lines = append(lines, "- Bio: "+bio)
	}

	if topics := nonEmpty(sp.Topics); len(topics) > 0 {
		lines = append(lines, "- Core topics: "+strings.Join(topics, ", "))
	} else if en {
		lines = append(lines, "- Core topics: (not provided), infer from the idea and audience.")
	} else {
		lines = append(lines, "- المواضيع الأساسية: (غير محددة)، استنتجها من الفكرة والجمهور.")
	}

	if kw := nonEmpty(sp.Keywords); len(kw) > 0 {
		lines = append(lines, "- Keywords to prefer: "+strings.Join(kw, ", "))
	}
	if phrases := nonEmpty(sp.SignaturePhrases); len(phrases) > 0 {
		lines = append(lines, "- Signature phrases (sprinkle lightly): "+strings.Join(phrases, " | "))
	}
	if do := nonEmpty(sp.Do); len(do) > 0 {
		lines = append(lines, "- Do: "+bullets(do))
	}
	if dont := nonEmpty(sp.Dont); len(dont) > 0 {
		lines = append(lines, "- Don't: "+bullets(dont))
	}

	samples := nonEmpty(sp.WritingSamples)
	if len(samples) > entity.MaxWritingSamples {
		samples = samples[:entity.MaxWritingSamples]
	}
	switch {
	case len(samples) > 0:
		lines = append(lines, "", "Writing samples (mimic structure, rhythm and tone; do not copy verbatim):")
		for i, s := range samples {
			lines = append(lines, fmt.Sprintf("Sample %d: %s", i+1, s))
		}
	case en:
		lines = append(lines, "- Writing samples: none. Use a confident, strategic, practical consultant voice.")
	default:
		lines = append(lines, "- عينات كتابة: لا يوجد. استخدم صوت مستشار استراتيجي عملي وواثق.")
	}

	lines = append(lines, "")
	if en {
		lines = append(lines, "Non-negotiable: avoid generic motivational filler; prioritize actionable insights, a clear viewpoint and crisp structure.")
	} else {
		lines = append(lines, "شرط أساسي: تجنّب العموميات والتحفيز الفارغ؛ قدّم رأيًا واضحًا ونقاطًا عملية وبنية مختصرة.")
	}
	return strings.Join(lines, "\n")
}

func trendBlock(tc entity.TrendContext, lang entity.Language) string {
	trends := nonEmpty(tc.Trends)
	rule := strings.TrimSpace(tc.RecommendationRule)

	if len(trends) == 0 {
		if lang == entity.LanguageEnglish {
			if rule == "" {
				rule = "(none)"
			}
			return "TREND INPUT:\n- trends: none provided.\n- rule: " + rule + "\n" +
				`Decision rule: with no trend input, set trend.suggested="", recommendation="ADAPT", and explain that a trend list or source is needed.`
		}
		if rule == "" {
			rule = "(لا يوجد)"
		}
		return "مدخلات الترند:\n- الترندات: غير متوفرة.\n- القاعدة: " + rule + "\n" +
			"قاعدة القرار: عند عدم توفر الترند، اجعل trend.suggested فارغًا والتوصية ADAPT ووضّح أننا نحتاج قائمة ترندات أو مصدرًا."
	}

	if rule == "" {
		rule = "(none)"
	}
	return strings.Join([]string{
		"TREND INPUT:",
		"- trends: " + strings.Join(trends, " | "),
		"- rule: " + rule,
		"Decision rule:",
		"- Choose the closest trend to the idea and audience.",
		"- If it distracts from positioning or the goal, recommend SKIP.",
		"- If it reinforces expertise without chasing hype, recommend ADAPT.",
		"- If it fits naturally, recommend JOIN.",
	}, "\n")
}

func taskBlock(req entity.GenerationRequest, horizon string) string {
	lines := []string{
		"TASK:",
		"Generate content based on:",
		fmt.Sprintf("- Topic/idea: \"%s\"", EscapeForJSON(req.Topic)),
		fmt.Sprintf("- Platform: \"%s\"", req.Platform.DisplayName()),
		fmt.Sprintf("- Language: \"%s\"", req.Language),
		fmt.Sprintf("- Tone: \"%s\"", EscapeForJSON(req.Tone)),
		fmt.Sprintf("- Audience: \"%s\"", EscapeForJSON(req.Audience)),
		fmt.Sprintf("- Mode: \"%s\"", req.Mode),
		fmt.Sprintf("- Goal: \"%s\"", EscapeForJSON(req.Goal)),
		fmt.Sprintf("- Time horizon: \"%s\"", EscapeForJSON(horizon)),
	}
	if src := sourceExcerpt(req.SourceText); src != "" {
		lines = append(lines, "- Source material: \""+EscapeForJSON(src)+"\"")
	}
	lines = append(lines,
		"",
		"Mode guidance:",
		"- post: produce 1 strong X post and 1 strong LinkedIn post",
		fmt.Sprintf("- series: produce %d connected posts (a cohesive series), each with X and LinkedIn variants", req.SeriesCount),
		"- reply: produce 3 reply suggestions to likely comments, in the same voice",
		"- campaign: produce 1 hook post, 1 follow-up post and 1 CTA post (series of 3)",
		"- ad: produce ad-style copy (clear offer, trust, CTA) consistent with the voice",
		"",
		"Constraints:",
		"- No mention that you are an AI.",
		"- Avoid overpromising.",
		"- No fake statistics.",
		"- Keep Arabic professional and natural; keep English crisp and professional.",
	)
	return strings.Join(lines, "\n")
}

func outputContract(req entity.GenerationRequest, horizon string) string {
	return fmt.Sprintf(`OUTPUT FORMAT (STRICT):
Return ONLY valid JSON (no markdown, no backticks, no commentary) with this shape:
{
  "ok": true,
  "language": "%s",
  "platform": "%s",
  "mode": "%s",
  "strategic": {
    "goal": "<string or empty>",
    "goalHorizon": "%s",
    "goalHorizonText": "%s",
    "audience": "%s",
    "tone": "%s",
    "valueAngle": "<1 line: value proposition angle>",
    "cta": "<1 short CTA line>"
  },
  "x": "<X post, max %d characters>",
  "linkedin": "<LinkedIn post: 1-2 short paragraphs, bullets if needed>",
  "series": [{"day": 1, "title": "<short>", "x": "<max %d characters>", "linkedin": "<post>"}],
  "replies": [{"scenario": "<comment or question being answered>", "reply": "<reply text>"}],
  "trend": {"suggested": "<trend name or empty>", "recommendation": "JOIN|SKIP|ADAPT", "why": "<1-2 lines>"},
  "notes": {"styleMatched": "<elements that matched the style profile>", "howToImprove": "<1-2 practical suggestions>"}
}

Rules:
- JSON must be parseable.
- For mode="post": series and replies may be empty arrays.
- For mode="series": fill "series" with %d items and set "x"/"linkedin" to a compact summary.
- For mode="campaign": fill "series" with 3 items.
- For a single platform, still return both "x" and "linkedin"; the other one may be shorter.
- Every X post must be at most %d characters.`,
		req.Language,
		req.Platform.DisplayName(),
		req.Mode,
		req.GoalHorizon,
		EscapeForJSON(horizon),
		EscapeForJSON(req.Audience),
		EscapeForJSON(req.Tone),
		entity.MaxXLength,
		entity.MaxXLength,
		req.SeriesCount,
		entity.MaxXLength,
	)
}

// EscapeForJSON makes free text safe to embed inside a JSON string literal in a prompt.
// Backslashes and quotes are escaped and line breaks become spaces.
func EscapeForJSON(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r\n", " ", "\n", " ", "\r", " ", "\t", " ")
	return r.Replace(s)
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func bullets(items []string) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = "• " + it
	}
	return strings.Join(parts, " ")
}
