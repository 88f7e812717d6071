package spotlight

import (
	"fmt"
	"time"

	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/internal/model"
)

func ToPeriod(timeframe string) (entity.SpotlightPeriodType, error) {
	return ToPeriodWithTime(timeframe, time.Now())
}

func ToPeriodWithTime(timeframe string, current time.Time) (entity.SpotlightPeriodType, error) {
	switch timeframe {
	case model.TimeframeWeekly:
		return entity.NewSpotlightPeriodWeek(current), nil
	case model.TimeframeMonthly:
		return entity.NewSpotlightPeriodMonth(current), nil
	case model.TimeframeAllTime, "":
		return entity.NewSpotlightPeriodAllTime(), nil
	}

	return nil, fmt.Errorf("invalid timeframe, expected weekly, monthly, or allTime, but got %s", timeframe)
}
