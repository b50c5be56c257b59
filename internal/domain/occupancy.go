package domain

// BuildOccupancy aggregates all intervals already consumed for one employee
// on one date: active appointment windows plus manual block windows.
//
// Отменённые записи место не занимают. Блокировки с некорректными
// смещениями пропускаются - они не могут занимать валидный интервал.
// Результат не кэшируется: каждый запрос собирает занятость заново
// по свежему состоянию хранилища.
func BuildOccupancy(appointments []*Appointment, blocks []*EmployeeBlock) []TimeRange {
	occupied := make([]TimeRange, 0, len(appointments)+len(blocks))

	for _, a := range appointments {
		if !a.IsActive() {
			continue
		}
		occupied = append(occupied, a.Window())
	}

	for _, b := range blocks {
		window, err := b.Window()
		if err != nil {
			continue
		}
		occupied = append(occupied, window)
	}

	return occupied
}

// FreeAt reports whether the candidate slot overlaps none of the occupied
// intervals. Граничащие интервалы пересечением не считаются.
func FreeAt(occupied []TimeRange, slot TimeRange) bool {
	for _, o := range occupied {
		if slot.Overlaps(o) {
			return false
		}
	}
	return true
}
