package airquality

import (
	"strings"
	"time"
)

// advisoryPublishHours are the four daily announcement hours of the dust
// advisory feed.
var advisoryPublishHours = []int{5, 11, 17, 23}

const defaultGrade = 2

// selectPublishHour picks the most recent announcement at or before now.
// Announcements lag by up to half an hour, so a 30-minute grace window is
// subtracted first. Before the day's first announcement the previous
// evening's 23:00 issue is still the latest one.
func selectPublishHour(now time.Time) int {
	effective := now.Add(-30 * time.Minute)
	for i := len(advisoryPublishHours) - 1; i >= 0; i-- {
		if advisoryPublishHours[i] <= effective.Hour() {
			return advisoryPublishHours[i]
		}
	}
	return 23
}

// regionLabel extracts the grade label for one sub-region from a
// comma-delimited provider blob like "서울 : 좋음,제주 : 보통". It returns
// "" when the region is absent or marked 정보없음.
func regionLabel(blob, subRegion string) string {
	for _, entry := range strings.Split(blob, ",") {
		name, label, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		if strings.TrimSpace(name) != subRegion {
			continue
		}
		label = strings.TrimSpace(label)
		if label == "정보없음" {
			return ""
		}
		return label
	}
	return ""
}

// advisoryGrade maps an advisory label to the korean 1..4 scale. Unknown
// labels fall back to the moderate tier.
func advisoryGrade(label string) int {
	switch label {
	case "좋음":
		return 1
	case "보통":
		return 2
	case "나쁨":
		return 3
	case "매우나쁨":
		return 4
	}
	return defaultGrade
}

// outlookGrade maps a weekly outlook label (낮음/높음) to a grade on the
// requested scale.
func outlookGrade(label string, std Standard) int {
	if label == "높음" {
		if std == StandardWHO {
			return 5
		}
		return 3
	}
	return defaultGrade
}

// HourlySlots expands the cached advisory rows into one record per hour,
// walking forward from the hour after now. The advisory publishes only four
// times a day, so every hour of a given day repeats that day's latest
// announced grade; hours past midnight use tomorrow's announcement, falling
// back to today's when tomorrow is not yet covered.
func HourlySlots(items []AdvisoryItem, subRegion string, now time.Time, hours int) []Slot {
	publish := selectPublishHour(now)
	today := now.Format("2006-01-02")
	tomorrow := now.AddDate(0, 0, 1).Format("2006-01-02")

	grade := func(code, date string) (int, bool) {
		for _, it := range items {
			if it.InformCode != code || it.TargetDate != date || it.PublishHour != publish {
				continue
			}
			if label := regionLabel(it.GradeBlob, subRegion); label != "" {
				return advisoryGrade(label), true
			}
		}
		return defaultGrade, false
	}

	pm10Today, _ := grade("PM10", today)
	pm25Today, _ := grade("PM25", today)
	pm10Tomorrow, ok10 := grade("PM10", tomorrow)
	pm25Tomorrow, ok25 := grade("PM25", tomorrow)
	if !ok10 {
		pm10Tomorrow = pm10Today
	}
	if !ok25 {
		pm25Tomorrow = pm25Today
	}

	out := make([]Slot, 0, hours)
	t := now.Add(time.Hour)
	for i := 0; i < hours; i++ {
		date := t.Format("2006-01-02")
		s := Slot{Date: date, Hour: t.Hour()}
		if date == today {
			s.PM10Grade, s.PM25Grade = pm10Today, pm25Today
		} else {
			s.PM10Grade, s.PM25Grade = pm10Tomorrow, pm25Tomorrow
		}
		out = append(out, s)
		t = t.Add(time.Hour)
	}
	return out
}

// DailyGrades expands the cached weekly outlook into days consecutive
// records starting at start. Days past the covered window repeat the last
// known value; days before any coverage use the moderate default.
func DailyGrades(week []WeeklyDay, subRegion string, std Standard, start time.Time, days int) []DailyGrade {
	byDate := make(map[string]string, len(week))
	for _, d := range week {
		byDate[d.Date] = d.Blob
	}

	out := make([]DailyGrade, 0, days)
	last := DailyGrade{PM10Grade: defaultGrade, PM25Grade: defaultGrade}
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		g := DailyGrade{Date: date, PM10Grade: last.PM10Grade, PM25Grade: last.PM25Grade}
		if blob, ok := byDate[date]; ok {
			if label := regionLabel(blob, subRegion); label != "" {
				g.PM10Grade = outlookGrade(label, std)
				g.PM25Grade = g.PM10Grade
			}
		}
		out = append(out, g)
		last = g
	}
	return out
}
