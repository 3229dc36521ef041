package stats

import (
	"strings"
	"time"
)

// Labels holds short weekday and month names for chart axes.
type Labels struct {
	Locale   string
	weekdays [7]string  // indexed by time.Weekday
	months   [12]string // indexed by month-1
}

var (
	labelsZH = Labels{
		Locale:   "zh",
		weekdays: [7]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"},
		months:   [12]string{"1月", "2月", "3月", "4月", "5月", "6月", "7月", "8月", "9月", "10月", "11月", "12月"},
	}
	labelsEN = Labels{
		Locale:   "en",
		weekdays: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
		months:   [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	}
)

// LabelsFor returns the labels for a locale tag ("zh", "en", "en-US", ...).
// Unknown locales fall back to zh.
func LabelsFor(locale string) Labels {
	if strings.HasPrefix(strings.ToLower(locale), "en") {
		return labelsEN
	}
	return labelsZH
}

func (l Labels) Weekday(d time.Weekday) string {
	if l.Locale == "" {
		l = labelsZH
	}
	return l.weekdays[d]
}

func (l Labels) Month(m time.Month) string {
	if l.Locale == "" {
		l = labelsZH
	}
	return l.months[m-1]
}
