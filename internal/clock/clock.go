// Package clock parses the clock readings embedded in PGN move comments.
package clock

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ErrMalformed reports a clock token whose fields are not numeric.
var ErrMalformed = errors.New("malformed clock string")

const markerTag = "[%clk"

// Marker describes what the annotation of a ply said about the clock.
type Marker int

const (
	MarkerAbsent Marker = iota
	MarkerMalformed
	MarkerFound
)

func (m Marker) String() string {
	switch m {
	case MarkerFound:
		return "found"
	case MarkerMalformed:
		return "malformed"
	default:
		return "absent"
	}
}

// Parse converts H:MM:SS[.f], MM:SS[.f] or a bare seconds value into seconds.
func Parse(s string) (float64, error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 3:
		h, err := parseInt(parts[0])
		if err != nil {
			return 0, malformed(s, err)
		}
		m, err := parseInt(parts[1])
		if err != nil {
			return 0, malformed(s, err)
		}
		sec, err := parseFloat(parts[2])
		if err != nil {
			return 0, malformed(s, err)
		}
		return float64(h)*3600 + float64(m)*60 + sec, nil
	case 2:
		m, err := parseInt(parts[0])
		if err != nil {
			return 0, malformed(s, err)
		}
		sec, err := parseFloat(parts[1])
		if err != nil {
			return 0, malformed(s, err)
		}
		return float64(m)*60 + sec, nil
	default:
		sec, err := parseFloat(s)
		if err != nil {
			return 0, malformed(s, err)
		}
		return sec, nil
	}
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func malformed(s string, err error) error {
	return fmt.Errorf("%w %q: %v", ErrMalformed, s, err)
}

// FindMarker returns the time token of the first well-formed "[%clk <token>]"
// marker in text. The token is the longest run of non-space characters after
// the tag that is still followed by a closing bracket.
func FindMarker(text string) (string, bool) {
	rest := text
	for {
		idx := strings.Index(rest, markerTag)
		if idx < 0 {
			return "", false
		}
		after := rest[idx+len(markerTag):]
		if token, ok := markerToken(after); ok {
			return token, true
		}
		rest = after
	}
}

func markerToken(s string) (string, bool) {
	body := strings.TrimLeftFunc(s, unicode.IsSpace)
	if len(body) == len(s) {
		return "", false
	}
	end := strings.IndexFunc(body, unicode.IsSpace)
	if end < 0 {
		end = len(body)
	}
	run := body[:end]
	closing := strings.LastIndexByte(run, ']')
	if closing < 1 {
		return "", false
	}
	return run[:closing], true
}

// Read looks for a clock marker in an annotation and parses it.
func Read(annotation string) (float64, Marker) {
	token, ok := FindMarker(annotation)
	if !ok {
		return 0, MarkerAbsent
	}
	secs, err := Parse(token)
	if err != nil {
		return 0, MarkerMalformed
	}
	return secs, MarkerFound
}

// FormatMMSS renders seconds as mm:ss with floor division, truncating any
// fraction. Negative values keep their sign on the minutes field.
func FormatMMSS(seconds float64) string {
	minutes := math.Floor(seconds / 60)
	secs := seconds - minutes*60
	return fmt.Sprintf("%02d:%02d", int(minutes), int(secs))
}

// Format renders seconds as H:MM:SS.s, the form used by clock markers.
func Format(seconds float64) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	tenths := int64(math.Round(seconds * 10))
	h := tenths / 36000
	m := (tenths / 600) % 60
	s := float64(tenths%600) / 10
	return fmt.Sprintf("%s%d:%02d:%04.1f", sign, h, m, s)
}
