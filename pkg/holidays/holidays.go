// Package holidays читает календари нерабочих дней.
//
// Поддерживаются два формата: производственный календарь в JSON
// (месяцы со списком дней "1,2,7+,8*") и YAML-календари с явными датами.
package holidays

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"lexdesk/pkg/civil"
)

// ProductionCalendar - структура исходного JSON производственного календаря
// Переносы и статистика исходного файла не читаются.
type ProductionCalendar struct {
	Year   int         `json:"year"`
	Months []MonthDays `json:"months"`
}

type MonthDays struct {
	Month int    `json:"month"`
	Days  string `json:"days"`
}

// Calendar — YAML-календарь праздников.
type Calendar struct {
	Name  string    `yaml:"name"`
	Dates []Holiday `yaml:"dates"`
}

// Holiday — один нерабочий день.
type Holiday struct {
	Date civil.Date `yaml:"date" json:"date"`
	Name string     `yaml:"name,omitempty" json:"name,omitempty"`
}

// Load читает файл или каталог. Каталог обходится по *.yaml, *.yml и *.json.
func Load(path string) ([]Holiday, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return LoadFile(path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading calendar dir %s: %w", path, err)
	}
	var all []Holiday
	for _, entry := range entries {
		if entry.IsDir() || !isCalendarFile(entry.Name()) {
			continue
		}
		days, err := LoadFile(filepath.Join(path, entry.Name()))
		if err != nil {
			return nil, err
		}
		all = append(all, days...)
	}
	return Dedupe(all), nil
}

func isCalendarFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// LoadFile читает один календарь, формат определяется по расширению.
func LoadFile(path string) ([]Holiday, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar file: %w", err)
	}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		days, err := ParseProductionCalendar(data)
		if err != nil {
			return nil, fmt.Errorf("loading calendar %s: %w", path, err)
		}
		return days, nil
	}
	days, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("loading calendar %s: %w", path, err)
	}
	return days, nil
}

// ParseYAML разбирает YAML-календарь.
func ParseYAML(data []byte) ([]Holiday, error) {
	var cal Calendar
	if err := yaml.Unmarshal(data, &cal); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if cal.Name == "" {
		return nil, fmt.Errorf("calendar has no name")
	}
	for _, h := range cal.Dates {
		if h.Date.IsZero() {
			return nil, fmt.Errorf("calendar %s: entry without date", cal.Name)
		}
	}
	return cal.Dates, nil
}

// ParseProductionCalendar разбирает JSON производственного календаря.
// Суффиксы "+" (перенесенный выходной) и "*" (сокращенный день) отбрасываются;
// сокращенные дни рабочие и в результат не попадают.
func ParseProductionCalendar(data []byte) ([]Holiday, error) {
	var cal ProductionCalendar
	if err := json.Unmarshal(data, &cal); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	if cal.Year == 0 {
		return nil, fmt.Errorf("production calendar has no year")
	}

	days := []Holiday{}
	for _, month := range cal.Months {
		if month.Month < 1 || month.Month > 12 {
			return nil, fmt.Errorf("invalid month %d", month.Month)
		}
		for _, raw := range strings.Split(month.Days, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" || strings.HasSuffix(raw, "*") {
				continue
			}
			raw = strings.TrimSuffix(raw, "+")

			day, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse day '%s' in month %d: %w", raw, month.Month, err)
			}
			date := civil.NewDate(cal.Year, time.Month(month.Month), day)
			if int(date.Month) != month.Month {
				return nil, fmt.Errorf("day %d out of range for month %d", day, month.Month)
			}
			days = append(days, Holiday{Date: date})
		}
	}
	return days, nil
}

// Dedupe убирает повторы по дате (побеждает первая запись с названием) и сортирует.
func Dedupe(days []Holiday) []Holiday {
	byDate := make(map[civil.Date]Holiday, len(days))
	for _, h := range days {
		existing, ok := byDate[h.Date]
		if !ok || (existing.Name == "" && h.Name != "") {
			byDate[h.Date] = h
		}
	}
	out := make([]Holiday, 0, len(byDate))
	for _, h := range byDate {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

