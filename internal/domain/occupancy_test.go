package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/VEA-SchedulingService/pkg/types"
)

func TestBuildOccupancy(t *testing.T) {
	date := time.Date(2025, 12, 20, 0, 0, 0, 0, time.Local)

	explicitEnd := time.Date(2025, 12, 20, 11, 0, 0, 0, time.Local)
	appointments := []*Appointment{
		{
			// Конец задан явно
			StartDateTime:        time.Date(2025, 12, 20, 10, 0, 0, 0, time.Local),
			EndDateTime:          &explicitEnd,
			Status:               StatusScheduled,
			TotalDurationMinutes: 60,
		},
		{
			// Конец выводится из длительности
			StartDateTime:        time.Date(2025, 12, 20, 14, 0, 0, 0, time.Local),
			Status:               StatusScheduled,
			TotalDurationMinutes: 45,
		},
		{
			// Отменённая запись место не занимает
			StartDateTime:        time.Date(2025, 12, 20, 16, 0, 0, 0, time.Local),
			Status:               StatusCancelled,
			TotalDurationMinutes: 60,
		},
	}

	blocks := []*EmployeeBlock{
		{
			BlockDate: date,
			StartTime: types.TimeString("12:00"),
			EndTime:   types.TimeString("13:00"),
			Reason:    "lunch",
		},
	}

	occupied := BuildOccupancy(appointments, blocks)

	assert.Len(t, occupied, 3)
	assert.Equal(t, time.Date(2025, 12, 20, 10, 0, 0, 0, time.Local), occupied[0].Start)
	assert.Equal(t, explicitEnd, occupied[0].End)
	assert.Equal(t, time.Date(2025, 12, 20, 14, 45, 0, 0, time.Local), occupied[1].End)
	assert.Equal(t, time.Date(2025, 12, 20, 12, 0, 0, 0, time.Local), occupied[2].Start)
	assert.Equal(t, time.Date(2025, 12, 20, 13, 0, 0, 0, time.Local), occupied[2].End)
}

func TestBuildOccupancy_SkipsInvalidBlock(t *testing.T) {
	date := time.Date(2025, 12, 20, 0, 0, 0, 0, time.Local)

	blocks := []*EmployeeBlock{
		{BlockDate: date, StartTime: types.TimeString("bad"), EndTime: types.TimeString("13:00")},
	}

	occupied := BuildOccupancy(nil, blocks)
	assert.Empty(t, occupied)
}

func TestFreeAt(t *testing.T) {
	occupied := []TimeRange{
		tr(t, "2025-12-20 10:00", "2025-12-20 11:00"),
		tr(t, "2025-12-20 12:00", "2025-12-20 13:00"),
	}

	assert.True(t, FreeAt(occupied, tr(t, "2025-12-20 08:00", "2025-12-20 09:00")))
	// Граничащий слот свободен
	assert.True(t, FreeAt(occupied, tr(t, "2025-12-20 11:00", "2025-12-20 12:00")))
	assert.False(t, FreeAt(occupied, tr(t, "2025-12-20 10:30", "2025-12-20 11:30")))
	assert.False(t, FreeAt(occupied, tr(t, "2025-12-20 09:30", "2025-12-20 10:15")))
	assert.True(t, FreeAt(nil, tr(t, "2025-12-20 10:00", "2025-12-20 11:00")))
}
