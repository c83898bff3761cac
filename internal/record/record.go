package record

// JobPosting is the normalized shape we want from the oracle. Every field is
// optional: an empty string or nil pointer means "not found", and a fully
// absent posting is a legitimate result, not an error.
type JobPosting struct {
	Company       string `json:"company,omitempty"`
	Role          string `json:"role,omitempty"`
	Location      string `json:"location,omitempty"`
	Seniority     string `json:"seniority,omitempty"`
	PostedRecency string `json:"posted_recency,omitempty"` // raw form, e.g. "3 hours ago"
	PostedDays    *int   `json:"posted_days,omitempty"`    // derived from PostedRecency
	SalaryLow     *int   `json:"salary_low,omitempty"`
	SalaryHigh    *int   `json:"salary_high,omitempty"`
	Mission       string `json:"mission,omitempty"`
	Funding       string `json:"funding,omitempty"`

	// Compact-brief fields; each is a short string or a joined list of at
	// most six short items.
	MustHave            string `json:"must_have,omitempty"`
	NiceToHave          string `json:"nice_to_have,omitempty"`
	TechQuestions       string `json:"tech_questions,omitempty"`
	BehavioralQuestions string `json:"behavioral_questions,omitempty"`
	Perks               string `json:"perks,omitempty"`

	// Provenance records which subsystem populated a field ("oracle",
	// "google", "default"). UI badging only; merge logic never reads it.
	Provenance map[string]string `json:"provenance,omitempty"`
}

// IsEmpty reports whether no field was extracted. Provenance is ignored.
func (p JobPosting) IsEmpty() bool {
	return p.Company == "" && p.Role == "" && p.Location == "" && p.Seniority == "" &&
		p.PostedRecency == "" && p.PostedDays == nil &&
		p.SalaryLow == nil && p.SalaryHigh == nil &&
		p.Mission == "" && p.Funding == "" &&
		p.MustHave == "" && p.NiceToHave == "" && p.TechQuestions == "" &&
		p.BehavioralQuestions == "" && p.Perks == ""
}

// StampProvenance records source as the provenance tag of every populated
// field, without overwriting tags already present.
func (p *JobPosting) StampProvenance(source string) {
	set := func(name string, present bool) {
		if !present {
			return
		}
		if p.Provenance == nil {
			p.Provenance = make(map[string]string)
		}
		if _, ok := p.Provenance[name]; !ok {
			p.Provenance[name] = source
		}
	}
	set("company", p.Company != "")
	set("role", p.Role != "")
	set("location", p.Location != "")
	set("seniority", p.Seniority != "")
	set("posted_recency", p.PostedRecency != "")
	set("posted_days", p.PostedDays != nil)
	set("salary_low", p.SalaryLow != nil)
	set("salary_high", p.SalaryHigh != nil)
	set("mission", p.Mission != "")
	set("funding", p.Funding != "")
	set("must_have", p.MustHave != "")
	set("nice_to_have", p.NiceToHave != "")
	set("tech_questions", p.TechQuestions != "")
	set("behavioral_questions", p.BehavioralQuestions != "")
	set("perks", p.Perks != "")
}
