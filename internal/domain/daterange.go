package domain

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// DateRange закрытый интервал календарных дат [start, end].
// Обе границы нормализованы к локальной полуночи.
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange создает интервал, отбрасывая время суток.
// Возвращает ErrInvalidRange для нулевых дат и при end < start.
func NewDateRange(start, end time.Time) (DateRange, error) {
	if start.IsZero() {
		return DateRange{}, fmt.Errorf("%w: start date is required", ErrInvalidRange)
	}
	if end.IsZero() {
		return DateRange{}, fmt.Errorf("%w: end date is required", ErrInvalidRange)
	}

	s, e := DateOf(start), DateOf(end)
	if e.Before(s) {
		return DateRange{}, fmt.Errorf("%w: end date %s is before start date %s",
			ErrInvalidRange, e.Format(DateFormat), s.Format(DateFormat))
	}

	return DateRange{start: s, end: e}, nil
}

// ParseDateRange разбирает границы в формате YYYY-MM-DD
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: start date: %v", ErrInvalidRange, err)
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: end date: %v", ErrInvalidRange, err)
	}
	return NewDateRange(s, e)
}

// ParseDate разбирает дату YYYY-MM-DD в локальную полночь.
// Несуществующие даты (2025-02-30) отклоняются.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateFormat, s, time.Local)
}

// DateOf возвращает локальную полночь календарного дня t
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// DayKey ключ календарного дня
func DayKey(t time.Time) string {
	return t.Format(DateFormat)
}

func (r DateRange) Start() time.Time { return r.start }
func (r DateRange) End() time.Time   { return r.end }

func (r DateRange) IsZero() bool {
	return r.start.IsZero() && r.end.IsZero()
}

// Overlaps true, если интервалы имеют хотя бы один общий день.
// Границы включаются: договор до D и договор с D конфликтуют.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.start.After(other.end) && !other.start.After(r.end)
}

// Contains true, если день date входит в интервал
func (r DateRange) Contains(date time.Time) bool {
	d := DateOf(date)
	return !d.Before(r.start) && !d.After(r.end)
}

// SpanDays разница end - start в календарных днях
func (r DateRange) SpanDays() int {
	return daysBetween(r.start, r.end)
}

// DurationDaysForPricing количество оплачиваемых дней: max(1, end - start)
func (r DateRange) DurationDaysForPricing() int {
	if n := r.SpanDays(); n > 1 {
		return n
	}
	return 1
}

// ExpandInclusiveDays все дни интервала от start до end включительно
func (r DateRange) ExpandInclusiveDays() []time.Time {
	if r.IsZero() {
		return nil
	}

	days := make([]time.Time, 0, r.SpanDays()+1)
	for d := r.start; !d.After(r.end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (r DateRange) String() string {
	return r.start.Format(DateFormat) + ".." + r.end.Format(DateFormat)
}

// daysBetween считает по гражданским датам в UTC, чтобы переход на летнее время не сдвигал счет
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua) / day)
}
