package patentai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pyjuan91/Limira/internal/models"
	"github.com/pyjuan91/Limira/pkg/textextract"
)

// Section keys of a generated draft, in display order.
const (
	SectionBackground          = "background"
	SectionSummary             = "summary"
	SectionDetailedDescription = "detailed_description"
	SectionClaims              = "claims"
	SectionAbstract            = "abstract"
)

var draftSections = []string{
	SectionBackground,
	SectionSummary,
	SectionDetailedDescription,
	SectionClaims,
	SectionAbstract,
}

// Top-level keys every analysis result carries.
var analysisObjects = []string{
	"technical_assessment",
	"commercial_value",
	"prior_art_landscape",
	"strategic_insights",
	"claims_analysis",
	"risk_assessment",
}

const analysisParseError = "Failed to parse structured analysis"

var (
	nextHeader = regexp.MustCompile(`\n#+\s`)
	claimStart = regexp.MustCompile(`(?:Claim\s+)?(\d+)[.:]?\s*`)
	claimEnd   = regexp.MustCompile(`(?:Claim\s+)?\d+[.:]`)
)

// jsonObject returns the text between the first '{' and the last '}'.
func jsonObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// parseDraft turns a model response into draft sections. It never fails:
// when the response holds no usable JSON, sections are recovered from
// markdown headers instead.
func parseDraft(text string) models.Content {
	if raw, ok := jsonObject(text); ok {
		var parsed models.Content
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			return normalizeSections(parsed)
		}
	}

	sections := models.NewContent()
	sections.Set(SectionBackground, models.Text(extractSection(text, "BACKGROUND")))
	sections.Set(SectionSummary, models.Text(extractSection(text, "SUMMARY")))
	sections.Set(SectionDetailedDescription, models.Text(extractSection(text, "DETAILED DESCRIPTION")))
	sections.Set(SectionClaims, models.List(extractClaims(text)...))
	sections.Set(SectionAbstract, models.Text(extractSection(text, "ABSTRACT")))
	return sections
}

// normalizeSections puts the standard sections first, makes claims a list and
// keeps any extra keys the model returned after them.
func normalizeSections(in models.Content) models.Content {
	out := models.NewContent()
	for _, key := range draftSections {
		v, _ := in.Get(key)
		if key == SectionClaims && !v.IsList {
			if v.IsZero() {
				v = models.List()
			} else {
				v = models.List(strings.TrimSpace(v.Text))
			}
		}
		out.Set(key, v)
	}
	for _, key := range in.Keys() {
		if _, ok := out.Get(key); !ok {
			v, _ := in.Get(key)
			out.Set(key, v)
		}
	}
	return out
}

// extractSection returns the body under the first markdown header whose text
// starts with name, up to the next header.
func extractSection(text, name string) string {
	header := regexp.MustCompile(`(?i)#+\s*` + regexp.QuoteMeta(name) + `[^\n]*\n`)
	loc := header.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	body := text[loc[1]:]
	if next := nextHeader.FindStringIndex(body); next != nil {
		body = body[:next[0]]
	}
	return strings.TrimSpace(body)
}

// extractClaims finds numbered claims ("1.", "Claim 2:") in the CLAIMS
// section and renders each as "Claim N: text".
func extractClaims(text string) []string {
	section := extractSection(text, "CLAIMS")
	if section == "" {
		return []string{}
	}

	claims := []string{}
	pos := 0
	for pos < len(section) {
		m := claimStart.FindStringSubmatchIndex(section[pos:])
		if m == nil {
			break
		}
		num := section[pos+m[2] : pos+m[3]]
		bodyStart := pos + m[1]
		if bodyStart >= len(section) {
			break
		}
		// A claim body is at least one character long.
		end := len(section)
		if next := claimEnd.FindStringIndex(section[bodyStart+1:]); next != nil {
			end = bodyStart + 1 + next[0]
		}
		claims = append(claims, fmt.Sprintf("Claim %s: %s", num, strings.TrimSpace(section[bodyStart:end])))
		pos = end
	}
	return claims
}

// parseAnalysis decodes an analysis response. The result always has summary
// and the six assessment objects; unparseable output degrades to the raw text
// with an error marker.
func parseAnalysis(text string) map[string]any {
	if raw, ok := jsonObject(text); ok {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			if _, ok := parsed["summary"]; !ok {
				parsed["summary"] = ""
			}
			for _, key := range analysisObjects {
				if _, ok := parsed[key]; !ok {
					parsed[key] = map[string]any{}
				}
			}
			return parsed
		}
	}

	out := map[string]any{
		"summary":      textextract.Truncate(text, 500),
		"raw_analysis": text,
		"error":        analysisParseError,
	}
	for _, key := range analysisObjects {
		out[key] = map[string]any{}
	}
	return out
}
