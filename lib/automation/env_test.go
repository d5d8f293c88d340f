package automation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	env := MapEnvironment{"KHAM_ACCOUNT": "user123"}

	testCases := []struct {
		value  string
		expect string
	}{
		{value: "${KHAM_ACCOUNT}", expect: "user123"},
		// unset names resolve to empty rather than erroring
		{value: "${MISSING_VAR}", expect: ""},
		{value: "plain", expect: "plain"},
		{value: "${unterminated", expect: "${unterminated"},
		{value: "", expect: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expect, Resolve(env, test.value), test.value)
	}
}
