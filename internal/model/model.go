package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidPlatform = errors.New("invalid platform")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidClock    = errors.New("invalid time")
)

// Platform is the social network an event is planned for.
type Platform string

const (
	Instagram Platform = "Instagram"
	LinkedIn  Platform = "LinkedIn"
	Twitter   Platform = "Twitter"
	YouTube   Platform = "YouTube"
	TikTok    Platform = "TikTok"
)

// Platforms lists every platform in display order.
var Platforms = []Platform{Instagram, LinkedIn, Twitter, YouTube, TikTok}

// ParsePlatform accepts only the exact enumerated names.
func ParsePlatform(s string) (Platform, error) {
	for _, p := range Platforms {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPlatform, s)
}

func (p Platform) Valid() bool {
	_, err := ParsePlatform(string(p))
	return err == nil
}

func (p Platform) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPlatform, string(p))
	}
	return []byte(p), nil
}

func (p *Platform) UnmarshalText(b []byte) error {
	v, err := ParsePlatform(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Status is the publishing state of an event.
type Status string

const (
	Draft     Status = "Draft"
	Scheduled Status = "Scheduled"
	Published Status = "Published"
)

var Statuses = []Status{Draft, Scheduled, Published}

func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, string(s))
	}
	return []byte(s), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Date is a civil calendar date with no time zone or time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// ParseDate parses the canonical YYYY-MM-DD form and rejects impossible
// dates such as 2023-02-29.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// DateOf returns the civil date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current civil date in loc (time.Local if nil).
func Today(now time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return DateOf(now.In(loc))
}

func (d Date) IsZero() bool { return d == Date{} }

// String returns the zero-padded key YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time returns midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return nil, fmt.Errorf("%w: zero date", ErrInvalidDate)
	}
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	v, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Clock is a wall-clock time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses HH:mm (24h).
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	v, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// CalendarEvent is a single planned or published piece of content.
type CalendarEvent struct {
	ID       string   `json:"id" yaml:"id"`
	Date     Date     `json:"date" yaml:"date"`
	Time     *Clock   `json:"time,omitempty" yaml:"time,omitempty"`
	Title    string   `json:"title" yaml:"title"`
	Platform Platform `json:"platform" yaml:"platform"`
	Status   Status   `json:"status" yaml:"status"`
}

// TimeString returns the HH:mm form, or "" when no time is set.
func (e CalendarEvent) TimeString() string {
	if e.Time == nil {
		return ""
	}
	return e.Time.String()
}
