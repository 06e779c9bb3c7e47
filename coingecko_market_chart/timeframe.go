package coingecko_market_chart

import (
	"errors"
	"fmt"
	"time"
)

// TimeFrame is the span shown in the price chart
type TimeFrame string

const (
	TimeFrameHour TimeFrame = "1h"
	TimeFrameDay  TimeFrame = "24h"
	TimeFrameWeek TimeFrame = "7d"

	DefaultTimeFrame = TimeFrameDay

	// hourWindow is how far back the 1h frame reaches from now
	hourWindow = 60 * time.Minute
	// dayBuckets is the number of points the 24h frame is thinned to
	dayBuckets = 24
)

var ErrUnknownTimeFrame = errors.New("unknown time frame")

// TimeFrames lists the selectable frames in display order
var TimeFrames = []TimeFrame{TimeFrameHour, TimeFrameDay, TimeFrameWeek}

// ParseTimeFrame accepts "1h", "24h" or "7d". An empty string selects the default.
func ParseTimeFrame(s string) (TimeFrame, error) {
	switch tf := TimeFrame(s); tf {
	case "":
		return DefaultTimeFrame, nil
	case TimeFrameHour, TimeFrameDay, TimeFrameWeek:
		return tf, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTimeFrame, s)
	}
}

// Days is the days parameter requested from the API for this frame
func (tf TimeFrame) Days() int {
	if tf == TimeFrameWeek {
		return 7
	}
	return 1
}

func (tf TimeFrame) Valid() bool {
	switch tf {
	case TimeFrameHour, TimeFrameDay, TimeFrameWeek:
		return true
	}
	return false
}

func (tf TimeFrame) String() string {
	return string(tf)
}
