package cache

import (
	"time"
	_ "time/tzdata"
)

// 価格データは米国市場の終値確定後に更新されます。
const (
	RefreshHour     = 18
	RefreshLocation = "America/New_York"
)

// TimeUntilNextRefresh は次の18時（ニューヨーク時間）までの期間を返します。
func TimeUntilNextRefresh() time.Duration {
	loc, err := time.LoadLocation(RefreshLocation)
	if err != nil {
		loc = time.UTC
	}
	return TimeUntilNext(time.Now(), RefreshHour, loc)
}

// TimeUntilNext は now から次の hour 時（loc のローカル時刻）までの期間を返します。
func TimeUntilNext(now time.Time, hour int, loc *time.Location) time.Duration {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, loc)

	// 今日の更新時刻を既に過ぎている場合は翌日を使用
	if !now.Before(next) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, hour, 0, 0, 0, loc)
	}

	return next.Sub(now)
}
