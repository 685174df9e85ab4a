/*
 * @Description: 时区工具 - 界面统一使用越南时间 UTC+7
 */
package utils

import (
	"fmt"
	"time"
)

// VietnamTimezone 越南标准时间 UTC+7
var VietnamTimezone = time.FixedZone("ICT", 7*60*60)

// DisplayLayout 界面上绝对时间的格式
const DisplayLayout = "02/01/2006 15:04"

// ToVietnam 将时间转换为越南时区
func ToVietnam(t time.Time) time.Time {
	return t.In(VietnamTimezone)
}

// FormatDisplay 以越南时区格式化时间，零值返回空字符串
func FormatDisplay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return ToVietnam(t).Format(DisplayLayout)
}

// FormatRelative 返回相对时间描述，超过一周时退回绝对时间
func FormatRelative(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Vừa xong"
	case d < time.Hour:
		return fmt.Sprintf("%d phút trước", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d giờ trước", int(d/time.Hour))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%d ngày trước", int(d/(24*time.Hour)))
	default:
		return FormatDisplay(t)
	}
}

// ParseInVietnam 使用越南时区解析没有时区信息的时间字符串
func ParseInVietnam(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, VietnamTimezone)
}
