package kpi

import (
	"strconv"
	"strings"
	"time"
)

type CellKind int

const (
	KindEmpty CellKind = iota
	KindNumber
	KindText
	KindDate
)

// Cell is a loosely-typed spreadsheet value. Coercions never fail: an
// unconvertible cell reports ok=false and the caller picks the fallback.
type Cell struct {
	Kind   CellKind
	number float64
	text   string
	date   time.Time
}

func Number(f float64) Cell { return Cell{Kind: KindNumber, number: f} }
func Text(s string) Cell    { return Cell{Kind: KindText, text: s} }
func Date(t time.Time) Cell { return Cell{Kind: KindDate, date: t} }
func Empty() Cell           { return Cell{Kind: KindEmpty} }

// dateLayouts are tried in order when coercing text cells to dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"2006-01",
}

func (c Cell) CoerceNumeric() (float64, bool) {
	switch c.Kind {
	case KindNumber:
		return c.number, true
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(c.text), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func (c Cell) CoerceDate() (time.Time, bool) {
	switch c.Kind {
	case KindDate:
		return c.date, true
	case KindText:
		s := strings.TrimSpace(c.text)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func (c Cell) String() string {
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.number, 'f', -1, 64)
	case KindText:
		return c.text
	case KindDate:
		return c.date.Format("2006-01-02")
	default:
		return ""
	}
}
