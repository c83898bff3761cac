package extract

import (
	"strings"

	"github.com/marketsense/jobbrief/constants"
)

// EntityPrompts builds the per-chunk extraction prompt pair. The system
// message pins the key set so the reply lands inside the fixed record
// schema; anything else is handled by the defensive parser and normalizer.
// Chunk content beyond the entity prompt cap is cut, not re-chunked.
func EntityPrompts(chunk string) (system, user string) {
	if len(chunk) > constants.EntityPromptMaxChars {
		chunk = chunk[:constants.EntityPromptMaxChars]
	}
	system = strings.Join([]string{
		"You are an information-extraction engine.",
		"Return ONLY JSON with any of these keys you can find:",
		"company, role, location, seniority, posted_hours,",
		"salary_low, salary_high, mission, funding,",
		"must_have, nice_to_have, tech_q, behav_q, perks.",
		"Omit keys you cannot fill. No other text.",
	}, "\n")

	var b strings.Builder
	b.WriteString("Extract what you can from:\n<<<\n")
	b.WriteString(chunk)
	b.WriteString("\n>>>")
	return system, b.String()
}

// BriefPrompts builds the single-call compact-brief prompt pair used after
// condensation.
func BriefPrompts(fullText string) (system, user string) {
	system = strings.Join([]string{
		"You are an interview preparation specialist creating personalized guides.",
		"Return ONLY JSON with these keys if you can find them:",
		"title, company, location, work_type, salary_band, mission, must_have,",
		"nice_to_have, why_it_matters, perks, red_flags, apply_link,",
		"technical_questions, behavioral_questions, talking_points, company_intel,",
		"smart_questions, role_challenges, success_metrics, salary_context.",
		"",
		"Arrays have at most 6 unique items, each under 10 words. mission under 25 words, why_it_matters under 30.",
		"technical_questions: likely technical interview questions for this role.",
		"behavioral_questions: behavioral questions this company/role might ask.",
		"talking_points: specific achievements/experiences to highlight.",
		"company_intel: key company facts to mention (funding, growth, mission).",
		"smart_questions: thoughtful questions to ask interviewer.",
		"role_challenges: main challenges/problems this role will solve.",
		"success_metrics: how success is measured in this role.",
		"salary_context: negotiation context (market rate, equity, growth stage).",
		"Leave a key out if not present. No other text.",
	}, "\n")

	var b strings.Builder
	b.WriteString("Create personalized interview prep guide for this job:\n<<<\n")
	b.WriteString(fullText)
	b.WriteString("\n>>>")
	return system, b.String()
}

// SummarizePrompts builds the condensation prompt pair. The instruction is
// to shorten prose while keeping every concrete fact, since the summary
// replaces the chunk as extraction input.
func SummarizePrompts(chunk string) (system, user string) {
	system = strings.Join([]string{
		"You are a job description summarizer. Extract and preserve all key information including:",
		"- Company name and role title",
		"- Location and work type",
		"- Salary/compensation information",
		"- Required skills and qualifications",
		"- Job responsibilities",
		"- Company information and benefits",
		"- Contact/application details",
		"",
		"Maintain specific details while removing redundant text. Keep all technical terms, skill names, and specific requirements.",
	}, "\n")

	var b strings.Builder
	b.WriteString("Summarize this job posting section, preserving all key details:\n\n")
	b.WriteString(chunk)
	return system, b.String()
}
