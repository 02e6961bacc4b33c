package generate

import (
	"fmt"
	"strings"

	"nashr/internal/domain/entity"
	"nashr/internal/utils/text"
)

// maxSourceRunes bounds the source article excerpt folded into a prompt.
const maxSourceRunes = 4000

// Brand holds the product identity used in prompts and labels.
type Brand struct {
	// Name is the product name the model speaks as, e.g. "Nashr".
	Name string
	// Marker is the line prefix every post must start with, e.g. "Nashr | ".
	// Empty disables brand-line enforcement.
	Marker string
	// TrendRule is the trend recommendation rule used when a strategic request has none.
	TrendRule string
}

// DefaultBrand is used when no brand is configured.
func DefaultBrand() Brand {
	return Brand{Name: "Nashr"}
}

// BuildPrompt assembles the standard instruction pair for a single platform.
// platform must be one of the concrete platforms (never PlatformBoth).
func BuildPrompt(req entity.GenerationRequest, platform entity.Platform, brand Brand) entity.PromptPayload {
	if req.Language == entity.LanguageEnglish {
		return entity.PromptPayload{
			System: englishSystem(platform, brand),
			User:   englishUser(req, platform),
		}
	}
	return entity.PromptPayload{
		System: arabicSystem(platform, brand),
		User:   arabicUser(req, platform),
	}
}

func englishSystem(platform entity.Platform, brand Brand) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a professional social media content generator.\n", brandName(brand))
	b.WriteString("Rules:\n")
	b.WriteString("- Output MUST be in English only.\n")
	b.WriteString("- No \"Version 1/2\", no bilingual output, no translation.\n")
	b.WriteString("- Use clear structure, professional tone, and ready-to-post writing.\n")
	switch platform {
	case entity.PlatformX:
		fmt.Fprintf(&b, "- The platform is X: keep the whole post within %d characters.\n", entity.MaxXLength)
	case entity.PlatformLinkedIn:
		b.WriteString("- The platform is LinkedIn: go deeper, add value and clarity in short paragraphs.\n")
	case entity.PlatformInstagram:
		fmt.Fprintf(&b, "- The platform is Instagram: write a caption within %d characters and end with a few relevant hashtags.\n", entity.MaxInstagramLength)
	}
	if brand.Marker != "" {
		fmt.Fprintf(&b, "- Start the post with: %q followed by a short hook line.\n", brand.Marker)
	}
	b.WriteString("Return only the post text, with no explanations before or after it.")
	return b.String()
}

func arabicSystem(platform entity.Platform, brand Brand) string {
	var b strings.Builder
	fmt.Fprintf(&b, "أنت \"%s\" مولّد محتوى احترافي لمنصات التواصل.\n", brandName(brand))
	b.WriteString("القواعد:\n")
	b.WriteString("- المخرجات يجب أن تكون بالعربية فقط.\n")
	b.WriteString("- ممنوع (Version 1/2) أو إخراج ثنائي اللغة أو الترجمة.\n")
	b.WriteString("- نص جاهز للنشر، واضح ومهني.\n")
	switch platform {
	case entity.PlatformX:
		fmt.Fprintf(&b, "- المنصة X: لا تتجاوز %d حرفًا للمنشور كاملًا.\n", entity.MaxXLength)
	case entity.PlatformLinkedIn:
		b.WriteString("- المنصة LinkedIn: مسموح بنص أطول مع قيمة وترتيب في فقرات قصيرة.\n")
	case entity.PlatformInstagram:
		fmt.Fprintf(&b, "- المنصة Instagram: وصف لا يتجاوز %d حرفًا ينتهي بعدد قليل من الوسوم المناسبة.\n", entity.MaxInstagramLength)
	}
	if brand.Marker != "" {
		fmt.Fprintf(&b, "- ابدأ المنشور بسطر: %q ثم جملة افتتاحية مختصرة.\n", brand.Marker)
	}
	b.WriteString("أعد النص النهائي فقط دون أي شروحات.")
	return b.String()
}

func englishUser(req entity.GenerationRequest, platform entity.Platform) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "Platform: %s\n", platform.DisplayName())
	fmt.Fprintf(&b, "Tone: %s\n", req.Tone)
	fmt.Fprintf(&b, "Audience: %s\n", req.Audience)
	if src := sourceExcerpt(req.SourceText); src != "" {
		fmt.Fprintf(&b, "\nSource material (use facts from it, do not copy it):\n%s\n", src)
	}
	b.WriteString("\nDeliver ONE ready-to-post text only.")
	return b.String()
}

func arabicUser(req entity.GenerationRequest, platform entity.Platform) string {
	var b strings.Builder
	fmt.Fprintf(&b, "الموضوع: %s\n", req.Topic)
	fmt.Fprintf(&b, "المنصة: %s\n", platform.DisplayName())
	fmt.Fprintf(&b, "النبرة: %s\n", req.Tone)
	fmt.Fprintf(&b, "الجمهور: %s\n", req.Audience)
	if src := sourceExcerpt(req.SourceText); src != "" {
		fmt.Fprintf(&b, "\nمادة مرجعية (استفد من معلوماتها دون نسخها):\n%s\n", src)
	}
	b.WriteString("\nأعد نصًا واحدًا جاهزًا للنشر فقط.")
	return b.String()
}

func sourceExcerpt(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return text.Truncate(s, maxSourceRunes)
}

func brandName(b Brand) string {
	if strings.TrimSpace(b.Name) == "" {
		return DefaultBrand().Name
	}
	return b.Name
}
