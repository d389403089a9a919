package agent

import (
	"strings"
)

// shouldDropToken reports whether a streamed token is internal tool-use
// signaling rather than answer text. Bare YES/NO verdicts and short
// runs built only from the letters N and O (e.g. "NONO") leak out of
// the relevance filter and must never reach the transcript.
func shouldDropToken(token string) bool {
	upper := strings.ToUpper(strings.TrimSpace(token))
	if upper == "YES" || upper == "NO" {
		return true
	}
	if len(upper) == 0 || len(upper) > 5 {
		return false
	}
	for _, r := range upper {
		if r != 'N' && r != 'O' {
			return false
		}
	}
	return true
}

// Collector consumes the token stream of a specialist answer. With a
// callback it forwards each surviving token live; without one it only
// buffers. Text() returns the accumulated answer either way.
type Collector struct {
	onToken func(token string)
	buf     strings.Builder
}

func NewCollector(onToken func(token string)) *Collector {
	return &Collector{onToken: onToken}
}

func (c *Collector) Write(token string) {
	if token == "" || shouldDropToken(token) {
		return
	}
	c.buf.WriteString(token)
	if c.onToken != nil {
		c.onToken(token)
	}
}

func (c *Collector) Text() string {
	return c.buf.String()
}
