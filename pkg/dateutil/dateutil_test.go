package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCurrentWeek(t *testing.T) {
	// 2023-05-10 is a Wednesday.
	wednesday := time.Date(2023, 5, 10, 15, 30, 0, 0, time.UTC)
	require.Equal(t, time.Date(2023, 5, 8, 0, 0, 0, 0, time.UTC), CurrentWeek(wednesday))

	// Sunday belongs to the week starting the previous Monday.
	sunday := time.Date(2023, 5, 14, 23, 59, 0, 0, time.UTC)
	require.Equal(t, time.Date(2023, 5, 8, 0, 0, 0, 0, time.UTC), CurrentWeek(sunday))

	monday := time.Date(2023, 5, 8, 0, 0, 0, 0, time.UTC)
	require.Equal(t, monday, CurrentWeek(monday))
}

func TestCurrentMonth(t *testing.T) {
	d := time.Date(2023, 5, 10, 15, 30, 0, 0, time.UTC)
	require.Equal(t, time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), CurrentMonth(d))
}

func TestLastWeek(t *testing.T) {
	d := time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2023, 5, 3, 0, 0, 0, 0, time.UTC), LastWeek(d))
}

func TestLastMonth(t *testing.T) {
	d := time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC), LastMonth(d))
}
