package ai

import (
	"strings"
	"unicode/utf8"
)

// Language identifies the language the explanation should be written in.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageSinhala Language = "sinhala"
	LanguageTamil   Language = "tamil"
)

// MaxPromptTextChars is the document-text budget embedded into a prompt.
const MaxPromptTextChars = 30000

const truncationMarker = "...[truncated]"

// ParseLanguage validates a raw language code.
func ParseLanguage(raw string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(raw))) {
	case LanguageEnglish:
		return LanguageEnglish, true
	case LanguageSinhala:
		return LanguageSinhala, true
	case LanguageTamil:
		return LanguageTamil, true
	default:
		return "", false
	}
}

// LanguageInfo describes a supported explanation language.
type LanguageInfo struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"nativeName"`
}

// Languages returns the fixed explanation-language catalog.
func Languages() []LanguageInfo {
	return []LanguageInfo{
		{Code: string(LanguageEnglish), Name: "English", NativeName: "English"},
		{Code: string(LanguageSinhala), Name: "Sinhala", NativeName: "සිංහල"},
		{Code: string(LanguageTamil), Name: "Tamil", NativeName: "தமிழ்"},
	}
}

var languageInstructions = map[Language]string{
	LanguageEnglish: "Write your entire response in clear, simple English that a person without legal training can understand.",
	LanguageSinhala: "ඔබගේ සම්පූර්ණ පිළිතුර සරල සිංහල භාෂාවෙන් ලියන්න. නීතිමය පුහුණුවක් නොමැති අයෙකුට තේරුම් ගත හැකි ලෙස පැහැදිලි කරන්න.",
	LanguageTamil:   "உங்கள் முழு பதிலையும் எளிய தமிழில் எழுதவும். சட்டப் பயிற்சி இல்லாத ஒருவருக்கும் புரியும் வகையில் விளக்கவும்.",
}

// Prompt is a composed provider instruction plus metadata for downstream reporting.
type Prompt struct {
	Text      string
	Truncated bool
}

// BuildPrompt composes the analysis instructions for the given document text
// and target language. Text beyond the character budget is cut and marked.
func BuildPrompt(docText string, lang Language) Prompt {
	truncated := false
	if len(docText) > MaxPromptTextChars {
		cut := MaxPromptTextChars
		for cut > 0 && !utf8.RuneStart(docText[cut]) {
			cut--
		}
		docText = docText[:cut] + truncationMarker
		truncated = true
	}

	instruction, ok := languageInstructions[lang]
	if !ok {
		instruction = languageInstructions[LanguageEnglish]
	}

	var b strings.Builder
	b.WriteString("You are a legal document assistant for a legal aid service. ")
	b.WriteString("Your job is to explain the document below to someone with no legal background.\n\n")
	b.WriteString(instruction)
	b.WriteString("\n\nAnalyze the document and cover each of the following points in its own section. ")
	b.WriteString("Keep the sections complementary and do not repeat the same information across sections:\n")
	b.WriteString("1. Document type\n")
	b.WriteString("2. Purpose of the document\n")
	b.WriteString("3. Key clauses and terms\n")
	b.WriteString("4. Parties involved\n")
	b.WriteString("5. Rights and obligations of each party\n")
	b.WriteString("6. Important dates and deadlines\n")
	b.WriteString("7. Legal implications\n")
	b.WriteString("8. Recommended action items\n")
	b.WriteString("9. Potential risks or concerns\n")
	b.WriteString("10. Plain-language summary\n")
	b.WriteString("\nDocument text:\n")
	b.WriteString(docText)

	return Prompt{Text: b.String(), Truncated: truncated}
}
