package registrydb

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Black-And-White-Club/sportsday/app/shared/sportserr"
)

const dateLayout = "2006-01-02"

// Date is a calendar day without a time of day, stored as SQL DATE and
// rendered as YYYY-MM-DD.
type Date struct {
	t time.Time
}

// NewDate builds a Date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return NewDate(t.Date())
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, sportserr.Invalid("date", "%q is not a YYYY-MM-DD date", s)
	}
	return DateOf(t), nil
}

func (d Date) IsZero() bool { return d.t.IsZero() }

// Time returns midnight UTC of d.
func (d Date) Time() time.Time { return d.t }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.t, nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = DateOf(v)
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
	return nil
}

func (d *Date) scanText(s string) error {
	if len(s) >= len(dateLayout) {
		if t, err := time.Parse(dateLayout, s[:len(dateLayout)]); err == nil {
			*d = DateOf(t)
			return nil
		}
	}
	return fmt.Errorf("cannot scan %q into Date", s)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return sportserr.Invalid("date", "must be a YYYY-MM-DD string")
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// RaceTime is an elapsed competition time. It is stored as nanoseconds and
// rendered as H:MM:SS with an optional fraction.
type RaceTime time.Duration

// MaxRaceHours is the largest hour component whose full H:59:59.999 time
// still fits in a time.Duration.
const MaxRaceHours = math.MaxInt64/int64(time.Hour) - 1

// ParseRaceTime parses "H:MM:SS" or "H:MM:SS.fff". Hours range up to
// MaxRaceHours, minutes and seconds must be below 60.
func ParseRaceTime(s string) (RaceTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, sportserr.Invalid("time", "%q must have the form H:MM:SS", s)
	}

	hours, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || !isDecimal(parts[0], false) {
		return 0, sportserr.Invalid("time", "%q has an invalid hour component", s)
	}
	if hours > MaxRaceHours {
		return 0, sportserr.Invalid("time", "%q exceeds %d hours", s, MaxRaceHours)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || !isDecimal(parts[1], false) || minutes > 59 {
		return 0, sportserr.Invalid("time", "%q has an invalid minute component", s)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || !isDecimal(parts[2], true) || seconds >= 60 {
		return 0, sportserr.Invalid("time", "%q has an invalid second component", s)
	}

	total := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(math.Round(seconds*float64(time.Second)))
	return RaceTime(total), nil
}

// isDecimal reports whether s is a run of digits, optionally with one
// fractional part.
func isDecimal(s string, fraction bool) bool {
	whole, frac, hasDot := strings.Cut(s, ".")
	if hasDot && (!fraction || frac == "") {
		return false
	}
	if whole == "" {
		return false
	}
	for _, r := range whole + frac {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (t RaceTime) Duration() time.Duration { return time.Duration(t) }

// String renders H:MM:SS, adding up to three fractional digits when present.
func (t RaceTime) String() string {
	d := time.Duration(t)
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second

	out := fmt.Sprintf("%s%d:%02d:%02d", sign, h, m, s)
	if ms := d / time.Millisecond; ms > 0 {
		out += strings.TrimRight(fmt.Sprintf(".%03d", ms), "0")
	}
	return out
}

func (t RaceTime) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *RaceTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = 0
	case int64:
		*t = RaceTime(v)
	case []byte:
		return t.scanText(string(v))
	case string:
		return t.scanText(v)
	default:
		return fmt.Errorf("cannot scan %T into RaceTime", src)
	}
	return nil
}

func (t *RaceTime) scanText(s string) error {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("cannot scan %q into RaceTime: %w", s, err)
	}
	*t = RaceTime(n)
	return nil
}

func (t RaceTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *RaceTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return sportserr.Invalid("time", "must be an H:MM:SS string")
	}
	parsed, err := ParseRaceTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
