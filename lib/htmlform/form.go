// Package htmlform extracts submittable forms from the kind of irregular
// HTML that ticketing sites serve, without building a full DOM.
package htmlform

import "net/url"

// Form is one extracted <form> occurrence. Action is absolute, Method is
// uppercase. Fields and Types always share the same key set; Order holds the
// field names in document order.
type Form struct {
	Action string
	Method string
	Fields map[string]string
	Types  map[string]string
	Order  []string
}

// Merged returns the submission target and payload for this form with
// overrides layered on top of the declared field values. Overrides win on
// conflict, keys absent from the form are merged in and empty-named keys are
// dropped. The form itself is never mutated.
func (f Form) Merged(overrides map[string]string) (string, string, url.Values) {
	data := url.Values{}
	for name, value := range f.Fields {
		data.Set(name, value)
	}
	for name, value := range overrides {
		if name == "" {
			continue
		}
		data.Set(name, value)
	}
	return f.Action, f.Method, data
}

// HasPasswordField reports whether the form looks like it could carry login
// credentials: either a password-typed field or a field whose name mentions
// "pass" (some vendors ship the password box as type=text).
func (f Form) HasPasswordField() bool {
	for _, name := range f.Order {
		if f.Types[name] == "password" || containsFold(name, "pass") {
			return true
		}
	}
	return false
}
