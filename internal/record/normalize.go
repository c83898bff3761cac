package record

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/marketsense/jobbrief/constants"
)

var stringFields = []string{
	"company", "role", "location", "seniority", "posted_recency",
	"mission", "funding",
}

var listFields = []string{
	"must_have", "nice_to_have", "tech_questions", "behavioral_questions", "perks",
}

// FromMap normalizes a parsed oracle reply into a JobPosting and returns the
// list of keys it dropped or rewrote along the way.
// - Renames known synonyms (posted_hours -> posted_recency, tech_q -> tech_questions, ...)
// - Drops null/empty values and unknown keys
// - Coerces numeric <-> string where the field demands it
// - Bounds list-valued brief fields and joins them into one short string
// - Drops an inverted salary pair rather than emitting low > high
func FromMap(m map[string]any, logger *slog.Logger) (JobPosting, []string) {
	if logger == nil {
		logger = slog.Default()
	}

	var p JobPosting
	if len(m) == 0 {
		return p, nil
	}

	// Work on a copy so callers keep their parse result intact.
	work := make(map[string]any, len(m))
	for k, v := range m {
		work[k] = v
	}

	dropped := make([]string, 0, 8)
	rename := func(from, to string) {
		if v, ok := work[from]; ok {
			if _, exists := work[to]; !exists {
				work[to] = v
			}
			delete(work, from)
			dropped = append(dropped, from+"->"+to)
		}
	}

	// 1) synonyms observed across prompt flavors
	rename("posted_hours", "posted_recency")
	rename("tech_q", "tech_questions")
	rename("behav_q", "behavioral_questions")
	rename("technical_questions", "tech_questions")
	rename("behavioral_questions_list", "behavioral_questions")
	rename("title", "role")
	rename("role_title", "role")
	rename("company_name", "company")

	// 2) free-text fields
	for _, k := range stringFields {
		if v, ok := work[k]; ok {
			s, ok := coerceString(v)
			if !ok || s == "" {
				delete(work, k)
				dropped = append(dropped, k+"(empty)")
				continue
			}
			work[k] = s
		}
	}

	// 3) list-or-string brief fields
	for _, k := range listFields {
		if v, ok := work[k]; ok {
			s := coerceList(v)
			if s == "" {
				delete(work, k)
				dropped = append(dropped, k+"(empty)")
				continue
			}
			work[k] = s
		}
	}

	// 4) salary bounds
	low, lowOK := coerceInt(work["salary_low"])
	high, highOK := coerceInt(work["salary_high"])
	if _, present := work["salary_low"]; present && !lowOK {
		dropped = append(dropped, "salary_low(type)")
	}
	if _, present := work["salary_high"]; present && !highOK {
		dropped = append(dropped, "salary_high(type)")
	}
	if lowOK && highOK && low > high {
		// inverted pair is nonsense; drop both rather than guess
		lowOK, highOK = false, false
		dropped = append(dropped, "salary_low(inverted)", "salary_high(inverted)")
	}

	p.Company = stringOr(work, "company")
	p.Role = stringOr(work, "role")
	p.Location = stringOr(work, "location")
	p.Seniority = stringOr(work, "seniority")
	p.PostedRecency = stringOr(work, "posted_recency")
	p.Mission = stringOr(work, "mission")
	p.Funding = stringOr(work, "funding")
	p.MustHave = stringOr(work, "must_have")
	p.NiceToHave = stringOr(work, "nice_to_have")
	p.TechQuestions = stringOr(work, "tech_questions")
	p.BehavioralQuestions = stringOr(work, "behavioral_questions")
	p.Perks = stringOr(work, "perks")
	if lowOK {
		p.SalaryLow = &low
	}
	if highOK {
		p.SalaryHigh = &high
	}
	if p.PostedRecency != "" {
		p.PostedDays = RecencyToDays(p.PostedRecency)
	}

	// 5) report unknown keys
	known := map[string]struct{}{
		"salary_low": {}, "salary_high": {},
	}
	for _, k := range stringFields {
		known[k] = struct{}{}
	}
	for _, k := range listFields {
		known[k] = struct{}{}
	}
	for k := range work {
		if _, ok := known[k]; !ok {
			dropped = append(dropped, k+"(unknown)")
		}
	}

	if len(dropped) > 0 {
		logger.Warn("record.normalize", "dropped", dropped)
	}
	return p, dropped
}

func stringOr(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func coerceString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
			return "", true
		}
		return s, true
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10), true
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case nil:
		return "", true
	default:
		return "", false
	}
}

// coerceList accepts a short string or a list of short strings; lists are
// capped and joined so the record stays bounded.
func coerceList(v any) string {
	switch t := v.(type) {
	case []any:
		items := make([]string, 0, constants.BriefListMaxItems)
		for _, item := range t {
			s, ok := coerceString(item)
			if !ok || s == "" {
				continue
			}
			items = append(items, s)
			if len(items) == constants.BriefListMaxItems {
				break
			}
		}
		return strings.Join(items, "; ")
	default:
		s, _ := coerceString(v)
		return s
	}
}

func coerceInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		if s == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}
