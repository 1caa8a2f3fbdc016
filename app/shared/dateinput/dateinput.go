// Package dateinput turns operator-entered dates into calendar days.
package dateinput

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

const isoLayout = "2006-01-02"

// Parser parses ISO dates and English phrases such as "tomorrow",
// "next friday" or "in 3 days".
type Parser struct {
	w   *when.Parser
	now func() time.Time
}

// NewParser creates a Parser using the wall clock.
func NewParser() *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{w: w, now: time.Now}
}

// WithClock replaces the reference time relative phrases are resolved
// against.
func (p *Parser) WithClock(now func() time.Time) *Parser {
	p.now = now
	return p
}

// Parse returns midnight UTC of the day input names.
func (p *Parser) Parse(input string) (time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(isoLayout, input); err == nil {
		return t, nil
	}

	ref := p.now()
	r, err := p.w.Parse(input, ref)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse date %q: %w", input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("could not recognize date %q", input)
	}

	y, m, d := r.Time.In(ref.Location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
