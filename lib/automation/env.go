package automation

import (
	"os"
	"strings"
)

// Environment resolves named external values referenced from config files.
type Environment interface {
	Get(name string) string
}

// OSEnvironment reads from process environment variables.
type OSEnvironment struct{}

func (OSEnvironment) Get(name string) string {
	return os.Getenv(name)
}

// MapEnvironment serves lookups from a fixed map, mostly for tests.
type MapEnvironment map[string]string

func (m MapEnvironment) Get(name string) string {
	return m[name]
}

// Resolve maps an indirection token of the form ${NAME} to the environment's
// value for NAME, or "" when unset. Plain strings pass through unchanged.
func Resolve(env Environment, value string) string {
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		return env.Get(value[2 : len(value)-1])
	}
	return value
}
