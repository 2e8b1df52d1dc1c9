package calendar

import (
	"fmt"
	"time"
)

// ErrMonthOutOfRange 表示月份不在 1-12 范围内。
var ErrMonthOutOfRange = fmt.Errorf("month out of range")

// DaysInMonth 返回指定年月的天数，自动处理闰年。
// 月份必须在 1-12 之间，否则返回 ErrMonthOutOfRange。
func DaysInMonth(year, month int) (int, error) {
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("%w: %d", ErrMonthOutOfRange, month)
	}
	// 下月第 0 天即本月最后一天
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return last.Day(), nil
}

// MustDaysInMonth 在月份合法性已由调用方保证时使用，非法月份会 panic。
func MustDaysInMonth(year, month int) int {
	days, err := DaysInMonth(year, month)
	if err != nil {
		panic(err)
	}
	return days
}

// MonthKey 生成形如 "2024-03" 的规范月份键。
// 所有按 (年, 月) 寻址的组件必须通过此函数取键，禁止自行拼接。
func MonthKey(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

// WeekOfMonth 计算某天属于当月第几周（周一为一周起点）。
// 返回值通常在 1-5，个别月份布局会出现第 6 个不完整周，
// 周打卡数组固定 5 格，第 6 周的数据不在表示范围内。
func WeekOfMonth(day, year, month int) int {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	firstDow := (int(first.Weekday()) + 6) % 7
	return (firstDow+day-1)/7 + 1
}

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName 返回月份的英文名称，非法月份返回空字符串。
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}
