package util

import "time"

// IST 业务日界线使用的固定时区 UTC+5:30
var IST = time.FixedZone("IST", 5*3600+30*60)

const DateLayout = "2006-01-02"

// DateIST 返回按 IST 计算的业务日期 YYYY-MM-DD
func DateIST(now time.Time) string {
	return now.In(IST).Format(DateLayout)
}

func YesterdayIST(now time.Time) string {
	return now.In(IST).AddDate(0, 0, -1).Format(DateLayout)
}

// SeasonID 月度赛季标识 YYYY-MM
func SeasonID(now time.Time) string {
	return now.In(IST).Format("2006-01")
}
