package config

import (
	"fmt"
	"strings"
)

// SourcesConfig описывает шаблоны URL сайтов Сената и Палаты представителей.
// Шаблоны версионируются годом сессии: сенат использует двузначный суффикс
// года (%s), для палаты полный год.
type SourcesConfig struct {
	SenateRosterURL  string `yaml:"senate_roster_url"`
	SenateDetailsURL string `yaml:"senate_details_url"`
	SenateOfficeURL  string `yaml:"senate_office_url"`
	HouseRosterURL   string `yaml:"house_roster_url"`
	HouseDetailsURL  string `yaml:"house_details_url"`

	// CapitolAddressFmt подставляет номер кабинета в адрес Капитолия
	CapitolAddressFmt string `yaml:"capitol_address_fmt"`
}

const (
	DefaultSenateRosterURL   = "http://www.senate.mo.gov/%sinfo/SenateRoster.htm"
	DefaultSenateDetailsURL  = "http://www.senate.mo.gov/%sinfo/members/mem%02d.htm"
	DefaultSenateOfficeURL   = "http://www.senate.mo.gov/%sinfo/members/d%02d/OfficeInfo.htm"
	DefaultHouseRosterURL    = "http://www.house.mo.gov/member.aspx?year=%s"
	DefaultHouseDetailsURL   = "http://www.house.mo.gov/member.aspx?year=%s&district=%s"
	DefaultCapitolAddressFmt = "201 West Capitol Avenue %s, Jefferson City, MO 65101"
)

func (s *SourcesConfig) applyDefaults() {
	if s.SenateRosterURL == "" {
		s.SenateRosterURL = DefaultSenateRosterURL
	}
	if s.SenateDetailsURL == "" {
		s.SenateDetailsURL = DefaultSenateDetailsURL
	}
	if s.SenateOfficeURL == "" {
		s.SenateOfficeURL = DefaultSenateOfficeURL
	}
	if s.HouseRosterURL == "" {
		s.HouseRosterURL = DefaultHouseRosterURL
	}
	if s.HouseDetailsURL == "" {
		s.HouseDetailsURL = DefaultHouseDetailsURL
	}
	if s.CapitolAddressFmt == "" {
		s.CapitolAddressFmt = DefaultCapitolAddressFmt
	}
}

// validate проверяет, что каждый шаблон содержит нужное число подстановок
func (s *SourcesConfig) validate() error {
	templates := []struct {
		name  string
		value string
		verbs int
	}{
		{"sources.senate_roster_url", s.SenateRosterURL, 1},
		{"sources.senate_details_url", s.SenateDetailsURL, 2},
		{"sources.senate_office_url", s.SenateOfficeURL, 2},
		{"sources.house_roster_url", s.HouseRosterURL, 1},
		{"sources.house_details_url", s.HouseDetailsURL, 2},
		{"sources.capitol_address_fmt", s.CapitolAddressFmt, 1},
	}

	for _, t := range templates {
		if t.value == "" {
			return fmt.Errorf("%s is required", t.name)
		}
		if n := countVerbs(t.value); n != t.verbs {
			return fmt.Errorf("%s must contain %d format verbs, got %d", t.name, t.verbs, n)
		}
	}
	return nil
}

func countVerbs(tmpl string) int {
	return strings.Count(tmpl, "%") - 2*strings.Count(tmpl, "%%")
}
