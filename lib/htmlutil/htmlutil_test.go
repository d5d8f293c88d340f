package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollapseText(t *testing.T) {
	testCases := []struct {
		input  string
		expect string
	}{
		{input: "  hello  ", expect: "hello"},
		{input: "a\n\t  b", expect: "a b"},
		{input: "plain", expect: "plain"},
		{input: "", expect: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expect, CollapseText(test.input))
	}
}

func TestPageTitle(t *testing.T) {
	require.Equal(
		t, "KHAM Ticket",
		PageTitle(`<html><head><title>  KHAM   Ticket </title></head><body></body></html>`),
	)
	require.Equal(t, "", PageTitle(`<html><body>no title</body></html>`))
}
