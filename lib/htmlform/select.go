package htmlform

import "strings"

// Criteria narrows a page's extracted forms down to a single one. All zero
// values mean "no constraint".
type Criteria struct {
	// substring that must appear in the resolved action URL
	ActionContains string `json:"action_contains"`
	// field names the form must carry
	RequiredFields []string `json:"required_fields"`
	// index into the filtered list, not the page's full form list
	Index *int `json:"index"`
}

// Select filters forms by the criteria and returns the chosen one, or nil
// when nothing matches. With an explicit index, out-of-range addresses the
// filtered list and yields nil rather than an error; without one the first
// filtered form wins.
func Select(forms []Form, c Criteria) *Form {
	var filtered []Form
	for _, form := range forms {
		if c.ActionContains != "" && !strings.Contains(form.Action, c.ActionContains) {
			continue
		}
		if !hasAllFields(form, c.RequiredFields) {
			continue
		}
		filtered = append(filtered, form)
	}
	if c.Index != nil {
		i := *c.Index
		if i < 0 || i >= len(filtered) {
			return nil
		}
		return &filtered[i]
	}
	if len(filtered) == 0 {
		return nil
	}
	return &filtered[0]
}

// FirstWithPassword returns the first form that plausibly carries login
// credentials, skipping the search/navigation forms that usually precede the
// real login form on vendor pages.
func FirstWithPassword(forms []Form) *Form {
	for i := range forms {
		if forms[i].HasPasswordField() {
			return &forms[i]
		}
	}
	return nil
}

func hasAllFields(form Form, names []string) bool {
	for _, name := range names {
		if _, ok := form.Fields[name]; !ok {
			return false
		}
	}
	return true
}
