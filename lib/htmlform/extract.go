package htmlform

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// scratch state for the form currently being accumulated
type formBuilder struct {
	action string
	method string
	fields map[string]string
	types  map[string]string
	order  []string
}

func (b *formBuilder) set(name, value, fieldType string) {
	if _, seen := b.fields[name]; !seen {
		b.order = append(b.order, name)
	}
	b.fields[name] = value
	b.types[name] = fieldType
}

func (b *formBuilder) freeze() Form {
	return Form{
		Action: b.action,
		Method: b.method,
		Fields: b.fields,
		Types:  b.types,
		Order:  b.order,
	}
}

// Extract scans body in a single forward pass and returns every completed
// form in document order. Relative action URLs are resolved against baseURL;
// a missing action resolves to baseURL itself.
//
// The scan is deliberately tolerant: input-like tags outside an open form are
// ignored, a form left open at end of input is dropped, and any tokenizer
// error simply ends the scan with whatever was completed so far. Ticketing
// pages are rarely valid HTML, so degrading to fewer forms is the contract
// here, not an error.
func Extract(baseURL *url.URL, body io.Reader) []Form {
	var forms []Form
	var current *formBuilder
	var currentSelect string
	var selectValue *string
	var currentTextarea string

	z := html.NewTokenizer(body)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return forms

		case html.StartTagToken, html.SelfClosingTagToken:
			tn, hasAttr := z.TagName()
			tag := string(tn)
			attrs := readAttrs(z, hasAttr)

			switch tag {
			case "form":
				current = &formBuilder{
					action: resolveAction(baseURL, attrs["action"]),
					method: methodOf(attrs["method"]),
					fields: map[string]string{},
					types:  map[string]string{},
				}
			case "input":
				if current == nil {
					continue
				}
				name := attrs["name"]
				if name == "" {
					continue
				}
				inputType := strings.ToLower(attrs["type"])
				if inputType == "" {
					inputType = "text"
				}
				switch inputType {
				case "submit", "button", "image":
					continue
				}
				current.set(name, attrs["value"], inputType)
			case "select":
				if current == nil {
					continue
				}
				name := attrs["name"]
				if name == "" {
					continue
				}
				currentSelect = name
				selectValue = nil
				current.types[name] = "select"
			case "option":
				if currentSelect == "" {
					continue
				}
				value, explicit := attrs["value"]
				_, selected := attrs["selected"]
				if selectValue == nil || selected {
					if explicit {
						v := value
						selectValue = &v
					} else if selected {
						// marked selected but no value attr, take
						// the upcoming text content instead
						selectValue = nil
					}
				}
			case "textarea":
				if current == nil {
					continue
				}
				name := attrs["name"]
				if name == "" {
					continue
				}
				currentTextarea = name
				current.set(name, "", "textarea")
			}

		case html.TextToken:
			text := string(z.Text())
			if currentSelect != "" && selectValue == nil {
				if trimmed := strings.TrimSpace(text); trimmed != "" {
					selectValue = &trimmed
				}
			} else if currentTextarea != "" && current != nil {
				current.fields[currentTextarea] += text
			}

		case html.EndTagToken:
			tn, _ := z.TagName()
			switch string(tn) {
			case "form":
				if current != nil {
					flushSelect(current, &currentSelect, &selectValue)
					forms = append(forms, current.freeze())
					current = nil
					currentTextarea = ""
				}
			case "select":
				if current != nil {
					flushSelect(current, &currentSelect, &selectValue)
				}
			case "textarea":
				currentTextarea = ""
			}
		}
	}
}

// ExtractString is Extract over an in-memory page body.
func ExtractString(baseURL *url.URL, body string) []Form {
	return Extract(baseURL, strings.NewReader(body))
}

// an open select registers its type immediately but only gains a field value
// once it closes (or its form closes around it)
func flushSelect(b *formBuilder, name *string, value **string) {
	if *name == "" {
		return
	}
	resolved := ""
	if *value != nil {
		resolved = **value
	}
	if _, seen := b.fields[*name]; !seen {
		b.order = append(b.order, *name)
	}
	b.fields[*name] = resolved
	*name = ""
	*value = nil
}

func readAttrs(z *html.Tokenizer, hasAttr bool) map[string]string {
	attrs := map[string]string{}
	for hasAttr {
		key, val, more := z.TagAttr()
		attrs[string(key)] = string(val)
		hasAttr = more
	}
	return attrs
}

func resolveAction(baseURL *url.URL, action string) string {
	if action == "" {
		return baseURL.String()
	}
	ref, err := url.Parse(action)
	if err != nil {
		return baseURL.String()
	}
	return baseURL.ResolveReference(ref).String()
}

func methodOf(method string) string {
	if method == "" {
		return "GET"
	}
	return strings.ToUpper(method)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
