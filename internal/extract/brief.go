package extract

import (
	"context"

	"github.com/marketsense/jobbrief/constants"
	"github.com/marketsense/jobbrief/internal/oracle"
)

// Fallback values for a brief that yields nothing parseable; downstream
// rendering always has a title and company to show.
const (
	briefUnknownRole    = "Unknown Role"
	briefUnknownCompany = "Unknown Company"
	briefFailedRole     = "Extraction Failed"
)

// Brief produces the compact interview-brief flavor: condense if oversized,
// then one extraction call over the whole (condensed) document. The result
// is the parsed key set of the brief prompt with list values bounded to six
// items. Like Extract, oracle trouble degrades instead of erroring.
func (p *Pipeline) Brief(ctx context.Context, raw string) (map[string]any, error) {
	processed, err := p.condenser.Condense(ctx, raw)
	if err != nil {
		return nil, err
	}

	system, user := BriefPrompts(processed)
	resp, err := p.complete(ctx, oracle.Request{
		System:      system,
		User:        user,
		Temperature: 0,
		MaxTokens:   constants.MaxTokensBrief,
		Timeout:     p.cfg.BriefTimeout,
	})
	if err != nil {
		p.sink.Log("nobs_extraction_error", map[string]any{"error": err.Error()})
		return map[string]any{"title": briefFailedRole, "company": briefUnknownCompany}, nil
	}

	data := p.parser.Parse(resp)
	if len(data) == 0 {
		p.sink.Log("nobs_json_parse_error", map[string]any{"response_len": len(resp)})
		return map[string]any{"title": briefUnknownRole, "company": briefUnknownCompany}, nil
	}

	boundBriefLists(data)
	p.sink.Log("nobs_extraction_success", map[string]any{"fields": len(data)})
	return data, nil
}

// boundBriefLists truncates array values in place so no list-valued field
// exceeds the brief's item budget.
func boundBriefLists(data map[string]any) {
	for k, v := range data {
		if items, ok := v.([]any); ok && len(items) > constants.BriefListMaxItems {
			data[k] = items[:constants.BriefListMaxItems]
		}
	}
}
