package get_available_slots

import (
	"time"

	"github.com/m04kA/VEA-SchedulingService/internal/domain"
	"github.com/m04kA/VEA-SchedulingService/pkg/types"
)

// generateCandidateSlots генерирует все кандидатные слоты внутри рабочего окна
// Кандидаты идут с фиксированным шагом domain.SlotStepMinutes от открытия;
// слот попадает в список, только если целиком помещается до закрытия
// (окончание ровно в момент закрытия допустимо)
func generateCandidateSlots(window domain.TimeRange, durationMinutes int) []domain.TimeRange {
	candidates := make([]domain.TimeRange, 0)

	step := time.Duration(domain.SlotStepMinutes) * time.Minute
	for start := window.Start; start.Before(window.End); start = start.Add(step) {
		slot := domain.NewSlotRange(start, durationMinutes)
		if slot.End.After(window.End) {
			break
		}
		candidates = append(candidates, slot)
	}

	return candidates
}

// filterFreeSlots оставляет только слоты, не пересекающиеся с занятыми интервалами
func filterFreeSlots(candidates []domain.TimeRange, occupied []domain.TimeRange) []domain.TimeRange {
	free := make([]domain.TimeRange, 0, len(candidates))

	for _, slot := range candidates {
		if domain.FreeAt(occupied, slot) {
			free = append(free, slot)
		}
	}

	return free
}

// toSlots конвертирует свободные интервалы в модели ответа
func toSlots(free []domain.TimeRange, durationMinutes int) []Slot {
	slots := make([]Slot, len(free))

	for i, r := range free {
		slots[i] = Slot{
			StartTime:       types.NewTimeString(r.Start),
			EndTime:         types.NewTimeString(r.End),
			DurationMinutes: durationMinutes,
		}
	}

	return slots
}
