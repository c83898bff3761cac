package record

// Merge folds partial postings into one using first-non-null-wins: for each
// field, the earliest record (by original chunk order) with a value supplies
// it. Chunk order tracks document order, so the earliest mention wins; no
// voting or conflict scoring. An empty input yields an all-absent posting.
func Merge(records []JobPosting) JobPosting {
	var out JobPosting

	out.Company = firstString(records, func(r JobPosting) string { return r.Company })
	out.Role = firstString(records, func(r JobPosting) string { return r.Role })
	out.Location = firstString(records, func(r JobPosting) string { return r.Location })
	out.Seniority = firstString(records, func(r JobPosting) string { return r.Seniority })
	out.PostedRecency = firstString(records, func(r JobPosting) string { return r.PostedRecency })
	out.PostedDays = firstInt(records, func(r JobPosting) *int { return r.PostedDays })
	out.SalaryLow = firstInt(records, func(r JobPosting) *int { return r.SalaryLow })
	out.SalaryHigh = firstInt(records, func(r JobPosting) *int { return r.SalaryHigh })
	out.Mission = firstString(records, func(r JobPosting) string { return r.Mission })
	out.Funding = firstString(records, func(r JobPosting) string { return r.Funding })
	out.MustHave = firstString(records, func(r JobPosting) string { return r.MustHave })
	out.NiceToHave = firstString(records, func(r JobPosting) string { return r.NiceToHave })
	out.TechQuestions = firstString(records, func(r JobPosting) string { return r.TechQuestions })
	out.BehavioralQuestions = firstString(records, func(r JobPosting) string { return r.BehavioralQuestions })
	out.Perks = firstString(records, func(r JobPosting) string { return r.Perks })

	for _, r := range records {
		for name, src := range r.Provenance {
			if out.Provenance == nil {
				out.Provenance = make(map[string]string)
			}
			if _, ok := out.Provenance[name]; !ok {
				out.Provenance[name] = src
			}
		}
	}
	return out
}

func firstString(records []JobPosting, get func(JobPosting) string) string {
	for _, r := range records {
		if v := get(r); v != "" {
			return v
		}
	}
	return ""
}

func firstInt(records []JobPosting, get func(JobPosting) *int) *int {
	for _, r := range records {
		if v := get(r); v != nil {
			n := *v
			return &n
		}
	}
	return nil
}
