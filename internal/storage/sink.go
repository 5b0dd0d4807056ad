package storage

import (
	"context"
	"fmt"
	"sync"

	"mo-legislators/internal/checksum"
	"mo-legislators/internal/legislator"
	"mo-legislators/internal/observability"
)

// Sink основной путь сохранения: пишет запись в репозиторий
type Sink struct {
	repo   Repository
	gen    *checksum.Generator
	logger *observability.Logger
}

func NewSink(repo Repository, logger *observability.Logger) *Sink {
	return &Sink{
		repo:   repo,
		gen:    checksum.NewGenerator(),
		logger: logger,
	}
}

func (s *Sink) SaveLegislator(ctx context.Context, leg *legislator.Legislator) error {
	row := ToRow(leg, s.gen)

	isNew, err := s.repo.InsertLegislator(ctx, row)
	if err != nil {
		return fmt.Errorf("insert legislator: %w", err)
	}

	if !isNew {
		s.logger.Debug("Legislator unchanged",
			"chamber", row.Chamber,
			"district", row.District,
			"checksum", row.CheckSum,
		)
	}
	return nil
}

// VacantCollector накапливает вакантные места палаты представителей в памяти.
// Остальной код его не читает; Records нужен для тестов и итоговой сводки.
type VacantCollector struct {
	mu      sync.Mutex
	records []*legislator.Legislator
}

func NewVacantCollector() *VacantCollector {
	return &VacantCollector{}
}

func (c *VacantCollector) SaveVacant(_ context.Context, leg *legislator.Legislator) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, leg)
	return nil
}

// Records возвращает копию накопленного списка
func (c *VacantCollector) Records() []*legislator.Legislator {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*legislator.Legislator, len(c.records))
	copy(out, c.records)
	return out
}
