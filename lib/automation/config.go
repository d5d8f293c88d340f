package automation

import (
	"time"

	"ticketbot-backend/lib/htmlform"
)

// Config is one full automation run, usually loaded from a json5 file.
// String values in Login and step overrides may use ${NAME} indirection.
type Config struct {
	BaseUrl string `json:"base_url"`
	// request timeout in seconds
	Timeout float64        `json:"timeout"`
	Login   *LoginConfig   `json:"login"`
	Steps   []Step         `json:"steps"`
	Polling *PollingConfig `json:"polling"`
}

type LoginConfig struct {
	Account  string `json:"account"`
	Password string `json:"password"`
	// login page URL, defaults to the base URL
	Page           string            `json:"page"`
	ExtraOverrides map[string]string `json:"extra_overrides"`
}

// Step is one fetch or submit operation in a run.
type Step struct {
	// "fetch" or "submit", defaults to submit
	Type string `json:"type"`
	// URL to fetch, or to fetch the form from; defaults to the base URL
	Url string `json:"url"`
	// reuse the previous step's result page as the form source; defaults
	// to true
	UseLastPage *bool             `json:"use_last_page"`
	Form        htmlform.Criteria `json:"form"`
	Overrides   map[string]string `json:"overrides"`
}

func (s Step) useLastPage() bool {
	return s.UseLastPage == nil || *s.UseLastPage
}

type PollingConfig struct {
	// URL to poll, defaults to the current page (or the base URL)
	Url string `json:"url"`
	// substring that must appear in the page body; empty accepts any page
	Keyword string `json:"keyword"`
	// seconds between attempts, defaults to 0.5
	Interval float64 `json:"interval"`
	// defaults to 30
	MaxAttempts int `json:"max_attempts"`
}

func (p PollingConfig) interval() time.Duration {
	if p.Interval <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(p.Interval * float64(time.Second))
}

func (p PollingConfig) maxAttempts() int {
	if p.MaxAttempts <= 0 {
		return 30
	}
	return p.MaxAttempts
}
