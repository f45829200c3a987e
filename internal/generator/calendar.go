package generator

import "time"

// BusinessDays 返回[start, end]内所有周一至周五的日期（UTC零点），不考虑节假日
func BusinessDays(start, end time.Time) []time.Time {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return nil
	}

	days := make([]time.Time, 0, int(end.Sub(start).Hours()/24*5/7)+2)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		}
		days = append(days, d)
	}
	return days
}

// Window 以end为终点回溯years*365天
func Window(end time.Time, years int) (time.Time, time.Time) {
	end = truncateDay(end)
	return end.AddDate(0, 0, -365*years), end
}

// Quarter 1-4
func Quarter(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
