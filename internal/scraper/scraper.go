package scraper

import (
	"context"
	"fmt"

	"mo-legislators/internal/config"
	"mo-legislators/internal/fetcher"
	"mo-legislators/internal/htmltree"
	"mo-legislators/internal/legislator"
	"mo-legislators/internal/normalize"
	"mo-legislators/internal/observability"
)

// Fetcher получает сырую страницу; ошибки не повторяются
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.FetchResponse, error)
}

// Saver основной путь сохранения записей
type Saver interface {
	SaveLegislator(ctx context.Context, leg *legislator.Legislator) error
}

// VacantSaver отдельный путь для вакантных мест палаты представителей
type VacantSaver interface {
	SaveVacant(ctx context.Context, leg *legislator.Legislator) error
}

// SessionStats итог обхода одной сессии одной палаты
type SessionStats struct {
	Rows          int
	Saved         int
	Vacant        int
	SkippedVacant int
}

// Scraper обходит списки депутатов строго последовательно, в порядке документа.
// Первая же ошибка (сеть, форма страницы, данные) прерывает сессию.
type Scraper struct {
	fetcher    Fetcher
	saver      Saver
	vacant     VacantSaver
	urls       *URLs
	normalizer *normalize.Normalizer
	logger     *observability.Logger
}

func NewScraper(
	cfg *config.Config,
	f Fetcher,
	saver Saver,
	vacant VacantSaver,
	logger *observability.Logger,
) *Scraper {
	return &Scraper{
		fetcher:    f,
		saver:      saver,
		vacant:     vacant,
		urls:       NewURLs(cfg.Sources),
		normalizer: normalize.NewNormalizer(cfg),
		logger:     logger,
	}
}

// fetchDocument скачивает и разбирает страницу
func (s *Scraper) fetchDocument(ctx context.Context, url string) (htmltree.Node, error) {
	resp, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := htmltree.ParseBytes(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}

// cells возвращает ячейки строки и проверяет, что их не меньше want
func cells(row htmltree.Node, want int) ([]htmltree.Node, error) {
	tds, err := row.QueryAll("td")
	if err != nil {
		return nil, err
	}
	if len(tds) < want {
		return nil, fmt.Errorf("%w: row has %d cells, want %d", htmltree.ErrNotFound, len(tds), want)
	}
	return tds, nil
}
