// Package availability строит календарь занятости автомобиля по его договорам.
package availability

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// Index календарь занятости одного автомобиля.
// Учитывает только договоры аренды; техническую недоступность автомобиля сообщает автопарк.
// После построения не изменяется, поэтому безопасен для конкурентного чтения.
type Index struct {
	vehicleID int64
	covered   map[string]struct{}
	contracts []*domain.Contract // отсортированы по дате начала
}

// Build строит индекс по договорам автомобиля.
// Отмененные договоры и договоры других автомобилей пропускаются.
func Build(vehicleID int64, contracts []*domain.Contract) *Index {
	return BuildExcluding(vehicleID, contracts, uuid.Nil)
}

// BuildExcluding то же, что Build, но без договора excludeID (используется при редактировании)
func BuildExcluding(vehicleID int64, contracts []*domain.Contract, excludeID uuid.UUID) *Index {
	idx := &Index{
		vehicleID: vehicleID,
		covered:   make(map[string]struct{}),
	}

	for _, c := range contracts {
		if c == nil || c.VehicleID != vehicleID || !c.IsBlocking() {
			continue
		}
		if excludeID != uuid.Nil && c.ID == excludeID {
			continue
		}

		idx.contracts = append(idx.contracts, c)
		// Дни, покрытые двумя договорами, просто остаются покрытыми
		for _, d := range c.Range.ExpandInclusiveDays() {
			idx.covered[domain.DayKey(d)] = struct{}{}
		}
	}

	sort.SliceStable(idx.contracts, func(i, j int) bool {
		return idx.contracts[i].Range.Start().Before(idx.contracts[j].Range.Start())
	})

	return idx
}

// VehicleID автомобиль индекса
func (idx *Index) VehicleID() int64 {
	return idx.vehicleID
}

// CoveredDays количество занятых дней
func (idx *Index) CoveredDays() int {
	return len(idx.covered)
}

// IsAvailable true, если день не занят ни одним договором
func (idx *Index) IsAvailable(date time.Time) bool {
	_, busy := idx.covered[domain.DayKey(domain.DateOf(date))]
	return !busy
}

// IsRangeAvailable true, если свободен каждый день интервала
func (idx *Index) IsRangeAvailable(r domain.DateRange) bool {
	for _, d := range r.ExpandInclusiveDays() {
		if !idx.IsAvailable(d) {
			return false
		}
	}
	return true
}

// Conflicts договоры, пересекающиеся с интервалом, по возрастанию даты начала
func (idx *Index) Conflicts(r domain.DateRange) []*domain.Contract {
	var conflicts []*domain.Contract
	for _, c := range idx.contracts {
		if c.Range.Overlaps(r) {
			conflicts = append(conflicts, c)
		}
	}
	return conflicts
}

// MonthView доступность по дням месяца, одна запись на каждый день
func (idx *Index) MonthView(year int, month time.Month) []domain.DayAvailability {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	last := first.AddDate(0, 1, -1)

	view := make([]domain.DayAvailability, 0, last.Day())
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		view = append(view, domain.DayAvailability{
			Date:      d,
			Available: idx.IsAvailable(d),
		})
	}
	return view
}
