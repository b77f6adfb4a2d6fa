package patentai

import "github.com/pyjuan91/Limira/internal/prompt"

const (
	draftSystemPrompt    = "You are an expert patent attorney. Generate structured, professional patent draft sections from technical disclosures."
	analysisSystemPrompt = "You are an expert patent analyst with deep expertise in technology assessment, IP valuation, and strategic patent analysis. Provide thorough, objective analysis."
	summarySystemPrompt  = "You are a technical note-taker for patent discussions."

	// DefaultChatPrompt is used when a chat request carries no system prompt.
	DefaultChatPrompt = `You are an expert patent drafting assistant.
You help attorneys with:
- Patent drafting guidance and best practices
- Legal terminology and claim structure
- Prior art research suggestions
- Technical writing improvements

Provide clear, professional, and actionable advice.`
)

var draftPrompt = prompt.Template(`
Generate a structured patent application draft from the following technical disclosure.

DISCLOSURE CONTENT:
{{disclosure}}

Please generate the following sections:

1. BACKGROUND OF THE INVENTION
   - Describe the technical field
   - Explain the problem being solved
   - Mention any relevant prior art or existing solutions

2. SUMMARY OF THE INVENTION
   - Provide a concise overview of the invention
   - Highlight key features and advantages

3. DETAILED DESCRIPTION
   - Explain the invention in technical detail
   - Describe how it works step-by-step
   - Reference any drawings or figures mentioned

4. CLAIMS (Basic)
   - Draft 3-5 basic patent claims
   - Start with a broad independent claim
   - Add dependent claims for specific features

5. ABSTRACT
   - One paragraph of at most 150 words

Return the response in this EXACT JSON format:
{
  "background": "...",
  "summary": "...",
  "detailed_description": "...",
  "claims": ["Claim 1: ...", "Claim 2: ...", "Claim 3: ..."],
  "abstract": "..."
}
`)

var summaryPrompt = prompt.Template(`
Summarize the following invention discussion transcript. Focus on:
- Key technical points discussed
- New invention details revealed
- Questions raised and answered
- Action items or next steps

TRANSCRIPT:
{{transcript}}

Provide a concise, structured summary in markdown format.
`)

var analysisPrompt = prompt.Template(`
Analyze the following patent document and provide a comprehensive analysis.

PATENT NUMBER: {{patent_number}}

PATENT TEXT:
{{patent_text}}

Please provide a detailed analysis in the following JSON format:
{
  "summary": "A concise 2-3 sentence summary of what this patent covers",
  "technical_assessment": {
    "innovation_level": "Revolutionary/Significant/Incremental/Minimal",
    "technical_complexity": "High/Medium/Low",
    "key_innovations": ["innovation 1", "innovation 2", "..."],
    "technical_field": "Primary field of technology",
    "implementation_difficulty": "High/Medium/Low"
  },
  "commercial_value": {
    "market_potential": "High/Medium/Low",
    "potential_applications": ["application 1", "application 2", "..."],
    "competitive_advantage": "Description of competitive advantages",
    "estimated_value_assessment": "Undervalued/Fairly Valued/Overvalued",
    "reasoning": "Why this patent might be undervalued or overvalued"
  },
  "prior_art_landscape": {
    "novelty_assessment": "Highly Novel/Moderately Novel/Incremental",
    "similar_technologies": ["technology 1", "technology 2", "..."],
    "differentiation_factors": ["factor 1", "factor 2", "..."]
  },
  "strategic_insights": {
    "licensing_potential": "High/Medium/Low",
    "enforcement_strength": "Strong/Moderate/Weak",
    "portfolio_fit": "Core Patent/Supporting Patent/Peripheral",
    "recommended_actions": ["action 1", "action 2", "..."]
  },
  "claims_analysis": {
    "total_claims": 0,
    "independent_claims": 0,
    "claim_scope": "Broad/Moderate/Narrow",
    "key_limitations": ["limitation 1", "limitation 2", "..."]
  },
  "risk_assessment": {
    "invalidation_risk": "High/Medium/Low",
    "design_around_difficulty": "Hard/Moderate/Easy",
    "potential_challenges": ["challenge 1", "challenge 2", "..."]
  }
}

Be objective and analytical. If the patent appears undervalued, explain why specifically.
`)
