package ledger

import (
	"context"

	"github.com/fekuna/omnipos-inventory-loader/internal/ledger/dto"
)

type UseCase interface {
	Summary(ctx context.Context) (*dto.BusinessSummary, error)
}
