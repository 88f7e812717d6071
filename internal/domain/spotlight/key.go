package spotlight

import (
	"fmt"

	"github.com/chance-app/backend/internal/entity"
)

func redisKeySpotlight(period entity.SpotlightPeriodType) string {
	return fmt.Sprintf("spotlight:influence:%s", period.Period())
}
