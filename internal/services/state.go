package services

import (
	"context"

	"github.com/kairoslabs/kairos-backend/internal/consciousness"
	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
)

// StateService serves the current consciousness snapshot.
type StateService interface {
	Current(ctx context.Context) consciousness.Snapshot
}

type stateService struct {
	reader *consciousness.Reader
	log    *logger.Logger
}

func NewStateService(reader *consciousness.Reader, log *logger.Logger) StateService {
	return &stateService{reader: reader, log: log.With("service", "StateService")}
}

func (s *stateService) Current(ctx context.Context) consciousness.Snapshot {
	return s.reader.Snapshot(ctx)
}
