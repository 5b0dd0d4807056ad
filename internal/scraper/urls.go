package scraper

import (
	"fmt"

	"mo-legislators/internal/config"
	"mo-legislators/internal/normalize"
)

// URLs подставляет сессию и округ в шаблоны из конфига
type URLs struct {
	src config.SourcesConfig
}

func NewURLs(src config.SourcesConfig) *URLs {
	return &URLs{src: src}
}

// sessionSuffix двузначный суффикс года сессии: "2014" → "14"
func sessionSuffix(session string) (string, error) {
	if len(session) != 4 {
		return "", fmt.Errorf("%w: session %q is not a 4-digit year", normalize.ErrData, session)
	}
	return session[2:], nil
}

func (u *URLs) SenateRoster(session string) (string, error) {
	yy, err := sessionSuffix(session)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(u.src.SenateRosterURL, yy), nil
}

func (u *URLs) SenateDetails(session string, district int) (string, error) {
	yy, err := sessionSuffix(session)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(u.src.SenateDetailsURL, yy, district), nil
}

func (u *URLs) SenateOffice(session string, district int) (string, error) {
	yy, err := sessionSuffix(session)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(u.src.SenateOfficeURL, yy, district), nil
}

func (u *URLs) HouseRoster(session string) string {
	return fmt.Sprintf(u.src.HouseRosterURL, session)
}

func (u *URLs) HouseDetails(session, district string) string {
	return fmt.Sprintf(u.src.HouseDetailsURL, session, district)
}
