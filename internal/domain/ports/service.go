package ports

import (
	"context"

	"ecb-rate-service/internal/domain/model"
)

type ExchangeService interface {
	Send(ctx context.Context, req model.Request) (*model.Success, error)
	Supports(req model.Request) bool
	Warm(ctx context.Context) error
}
