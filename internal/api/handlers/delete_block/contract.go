package delete_block

import (
	"context"

	"github.com/m04kA/VEA-SchedulingService/internal/service/blocks/models"
)

type BlocksService interface {
	Delete(ctx context.Context, req *models.DeleteBlockRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
