package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mo-legislators/internal/legislator"
	"mo-legislators/internal/normalize"
	"mo-legislators/internal/observability"
	"mo-legislators/internal/scraper"
)

// ChamberScraper экстракторы палат
type ChamberScraper interface {
	ScrapeSenators(ctx context.Context, chamber legislator.Chamber, session, term string) (*scraper.SessionStats, error)
	ScrapeReps(ctx context.Context, chamber legislator.Chamber, session, term string) (*scraper.SessionStats, error)
}

type Dispatcher struct {
	logger  *observability.Logger
	scraper ChamberScraper
	now     func() time.Time
}

func NewDispatcher(logger *observability.Logger, s ChamberScraper) *Dispatcher {
	return &Dispatcher{
		logger:  logger,
		scraper: s,
		now:     time.Now,
	}
}

// RunStats итог запуска по всем сессиям срока
type RunStats struct {
	Sessions        int
	SkippedSessions int
	Rows            int
	Saved           int
	Vacant          int
	SkippedVacant   int
}

// SplitTerm делит срок "2013-2014" на годы сессий
func SplitTerm(term string) []string {
	return strings.Split(term, "-")
}

// Scrape запускает экстрактор палаты для каждой сессии срока. Сессии из будущего
// пропускаются. Первая ошибка прерывает запуск; уже сохранённое остаётся.
func (d *Dispatcher) Scrape(ctx context.Context, chamber legislator.Chamber, term string) (*RunStats, error) {
	scrapeSession, err := d.extractorFor(chamber)
	if err != nil {
		return nil, err
	}

	currentYear := d.now().Year()
	stats := &RunStats{}

	d.logger.Info("Starting scrape",
		"chamber", chamber,
		"term", term,
		"current_year", currentYear,
	)

	for _, session := range SplitTerm(term) {
		year, err := strconv.Atoi(session)
		if err != nil {
			return stats, fmt.Errorf("%w: session %q in term %q", normalize.ErrData, session, term)
		}

		if year > currentYear {
			d.logger.Info("Not running session, it's in the future",
				"chamber", chamber,
				"session", session,
			)
			stats.SkippedSessions++
			continue
		}

		if err := ctx.Err(); err != nil {
			return stats, err
		}

		sessionStats, err := scrapeSession(ctx, chamber, session, term)
		if sessionStats != nil {
			stats.add(sessionStats)
		}
		if err != nil {
			d.logger.Error("Session scrape failed",
				"chamber", chamber,
				"session", session,
				"error", err.Error(),
			)
			return stats, fmt.Errorf("%s session %s: %w", chamber, session, err)
		}
		stats.Sessions++

		d.logger.Info("Session completed",
			"chamber", chamber,
			"session", session,
			"rows", sessionStats.Rows,
			"saved", sessionStats.Saved,
			"vacant", sessionStats.Vacant,
			"skipped_vacant", sessionStats.SkippedVacant,
		)
	}

	return stats, nil
}

type sessionFunc func(ctx context.Context, chamber legislator.Chamber, session, term string) (*scraper.SessionStats, error)

func (d *Dispatcher) extractorFor(chamber legislator.Chamber) (sessionFunc, error) {
	switch chamber {
	case legislator.Upper:
		return d.scraper.ScrapeSenators, nil
	case legislator.Lower:
		return d.scraper.ScrapeReps, nil
	default:
		return nil, fmt.Errorf("unknown chamber: %q", chamber)
	}
}

func (s *RunStats) add(ss *scraper.SessionStats) {
	s.Rows += ss.Rows
	s.Saved += ss.Saved
	s.Vacant += ss.Vacant
	s.SkippedVacant += ss.SkippedVacant
}
