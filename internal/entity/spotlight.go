package entity

import (
	"fmt"
	"time"

	"github.com/chance-app/backend/pkg/dateutil"
)

type SpotlightPeriodType interface {
	Period() string
	Start() time.Time
	End() time.Time
}

type SpotlightPeriodWeek struct {
	current time.Time
}

func NewSpotlightPeriodWeek(current time.Time) SpotlightPeriodWeek {
	return SpotlightPeriodWeek{current: current}
}

func (p SpotlightPeriodWeek) Period() string {
	year, week := p.current.ISOWeek()
	return fmt.Sprintf("%d:%d", week, year)
}

func (p SpotlightPeriodWeek) Start() time.Time {
	return dateutil.CurrentWeek(p.current)
}

func (p SpotlightPeriodWeek) End() time.Time {
	return p.Start().AddDate(0, 0, 7)
}

type SpotlightPeriodMonth struct {
	current time.Time
}

func NewSpotlightPeriodMonth(current time.Time) SpotlightPeriodMonth {
	return SpotlightPeriodMonth{current: current}
}

func (p SpotlightPeriodMonth) Period() string {
	return fmt.Sprintf("%s:%d", p.current.Month(), p.current.Year())
}

func (p SpotlightPeriodMonth) Start() time.Time {
	return dateutil.CurrentMonth(p.current)
}

func (p SpotlightPeriodMonth) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// SpotlightPeriodAllTime covers the whole lifetime of the application, so
// its window is unbounded and its key never rolls over.
type SpotlightPeriodAllTime struct{}

func NewSpotlightPeriodAllTime() SpotlightPeriodAllTime {
	return SpotlightPeriodAllTime{}
}

func (p SpotlightPeriodAllTime) Period() string {
	return "alltime"
}

func (p SpotlightPeriodAllTime) Start() time.Time {
	return time.Time{}
}

func (p SpotlightPeriodAllTime) End() time.Time {
	return time.Now().AddDate(100, 0, 0)
}
