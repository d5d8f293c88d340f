package htmlform

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestExtractBasicForm(t *testing.T) {
	base := mustParse(t, "https://example.com/app/login.aspx")
	forms := ExtractString(base, `
		<form method="post" action="/app/do_login.aspx">
			<input type="text" name="txtAccount" value="">
			<input type="password" name="txtPwd">
			<input type="hidden" name="__VIEWSTATE" value="abc">
			<input type="submit" name="btnLogin" value="Go">
		</form>
	`)
	require.Len(t, forms, 1)

	form := forms[0]
	require.Equal(t, "https://example.com/app/do_login.aspx", form.Action)
	require.Equal(t, "POST", form.Method)

	expected := map[string]string{
		"txtAccount":  "",
		"txtPwd":      "",
		"__VIEWSTATE": "abc",
	}
	if diff := cmp.Diff(expected, form.Fields); diff != "" {
		t.Fatal(diff)
	}
	require.Equal(t, []string{"txtAccount", "txtPwd", "__VIEWSTATE"}, form.Order)
	require.Equal(t, "password", form.Types["txtPwd"])
	require.Equal(t, "hidden", form.Types["__VIEWSTATE"])
}

func TestExtractDefaults(t *testing.T) {
	base := mustParse(t, "https://example.com/page")
	forms := ExtractString(base, `<form><input name="q"></form>`)
	require.Len(t, forms, 1)
	require.Equal(t, "https://example.com/page", forms[0].Action)
	require.Equal(t, "GET", forms[0].Method)
	require.Equal(t, "text", forms[0].Types["q"])
}

func TestExtractAbsoluteActionPassesThrough(t *testing.T) {
	base := mustParse(t, "https://example.com/page")
	forms := ExtractString(base, `<form action="https://other.example.net/submit"></form>`)
	require.Len(t, forms, 1)
	require.Equal(t, "https://other.example.net/submit", forms[0].Action)
}

func TestExtractSelect(t *testing.T) {
	base := mustParse(t, "https://example.com")

	testCases := []struct {
		name   string
		html   string
		expect string
	}{
		{
			name: "selected option wins regardless of order",
			html: `<form><select name="area">
				<option value="a">A</option>
				<option value="b" selected>B</option>
				<option value="c">C</option>
			</select></form>`,
			expect: "b",
		},
		{
			name: "no selected marker falls back to first option",
			html: `<form><select name="area">
				<option value="x">X</option>
				<option value="y">Y</option>
			</select></form>`,
			expect: "x",
		},
		{
			name: "option without value attribute uses its text",
			html: `<form><select name="area">
				<option>Taipei</option>
				<option>Kaohsiung</option>
			</select></form>`,
			expect: "Taipei",
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			forms := ExtractString(base, test.html)
			require.Len(t, forms, 1)
			require.Equal(t, test.expect, forms[0].Fields["area"])
			require.Equal(t, "select", forms[0].Types["area"])
		})
	}
}

func TestExtractTextarea(t *testing.T) {
	base := mustParse(t, "https://example.com")
	forms := ExtractString(base, `<form><textarea name="note">  hello  </textarea></form>`)
	require.Len(t, forms, 1)
	require.Equal(t, "hello", strings.TrimSpace(forms[0].Fields["note"]))
	require.Equal(t, "textarea", forms[0].Types["note"])
}

func TestExtractIgnoresNamelessAndSubmitInputs(t *testing.T) {
	base := mustParse(t, "https://example.com")
	forms := ExtractString(base, `<form>
		<input type="text" value="orphan">
		<input type="submit" name="go" value="Go">
		<input type="button" name="cancel">
		<input type="image" name="pic">
		<input type="text" name="kept">
	</form>`)
	require.Len(t, forms, 1)
	require.Equal(t, []string{"kept"}, forms[0].Order)
}

func TestExtractToleratesMalformedMarkup(t *testing.T) {
	base := mustParse(t, "https://example.com")

	testCases := []struct {
		name  string
		html  string
		count int
	}{
		{name: "input outside any form", html: `<input name="stray"><p>hi</p>`, count: 0},
		{name: "unterminated form is dropped", html: `<form action="/a"><input name="x">`, count: 0},
		{
			name:  "truncated tag after a complete form",
			html:  `<form action="/a"><input name="x"></form><form act`,
			count: 1,
		},
		{name: "empty document", html: "", count: 0},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			forms := ExtractString(base, test.html)
			require.Len(t, forms, test.count)
		})
	}
}

func TestExtractDocumentOrder(t *testing.T) {
	base := mustParse(t, "https://example.com")
	forms := ExtractString(base, `
		<form action="/first"></form>
		<form action="/second"><input type="password" name="pwd"></form>
		<form action="/third"></form>
	`)
	require.Len(t, forms, 3)
	require.Equal(t, "https://example.com/first", forms[0].Action)
	require.Equal(t, "https://example.com/second", forms[1].Action)
	require.Equal(t, "https://example.com/third", forms[2].Action)
}

func TestMergedDoesNotMutateForm(t *testing.T) {
	form := Form{
		Action: "https://example.com/submit",
		Method: "POST",
		Fields: map[string]string{"a": "1", "b": "2"},
		Types:  map[string]string{"a": "text", "b": "hidden"},
		Order:  []string{"a", "b"},
	}

	action, method, data := form.Merged(map[string]string{
		"a":     "override",
		"extra": "synthetic",
		"":      "dropped",
	})
	require.Equal(t, "https://example.com/submit", action)
	require.Equal(t, "POST", method)
	require.Equal(t, "override", data.Get("a"))
	require.Equal(t, "2", data.Get("b"))
	require.Equal(t, "synthetic", data.Get("extra"))
	require.False(t, data.Has(""))

	// the descriptor itself must be untouched
	require.Equal(t, "1", form.Fields["a"])
	_, ok := form.Fields["extra"]
	require.False(t, ok)
}

func TestMergedEmptyOverrides(t *testing.T) {
	form := Form{
		Action: "https://example.com/x",
		Method: "POST",
		Fields: map[string]string{"a": "1"},
		Types:  map[string]string{"a": "text"},
		Order:  []string{"a"},
	}
	_, _, data := form.Merged(nil)
	require.Equal(t, url.Values{"a": []string{"1"}}, data)
}
