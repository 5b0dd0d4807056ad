package legislator

import (
	"fmt"
	"strings"
)

type Chamber string

const (
	Upper Chamber = "upper"
	Lower Chamber = "lower"
)

const (
	PartyDemocratic = "Democratic"
	PartyRepublican = "Republican"
)

// CapitolOfficeName единственный тип офиса, который публикуют оба сайта
const CapitolOfficeName = "Capitol Office"

// ParseChamber проверяет идентификатор палаты
func ParseChamber(s string) (Chamber, error) {
	switch c := Chamber(strings.ToLower(strings.TrimSpace(s))); c {
	case Upper, Lower:
		return c, nil
	default:
		return "", fmt.Errorf("unknown chamber: %q (want upper or lower)", s)
	}
}

// Office контактный блок депутата. Адрес есть всегда, телефон и email опциональны.
type Office struct {
	Name    string
	Address string
	Phone   *string
	Email   *string
}

// Legislator одна запись о месте в палате (занятом или вакантном) для срока.
// Обязательные поля задаются в New, опциональные через Set*/Add*.
type Legislator struct {
	Term      string
	Chamber   Chamber
	District  string
	FullName  string
	FirstName string
	LastName  string
	Party     string
	URL       string

	PhotoURL *string
	Email    *string
	Office   *Office

	// Sources все страницы, из которых собрана запись, в порядке обращения
	Sources []string
}

func New(term string, chamber Chamber, district, fullName, party, url string) *Legislator {
	return &Legislator{
		Term:     term,
		Chamber:  chamber,
		District: district,
		FullName: fullName,
		Party:    party,
		URL:      url,
	}
}

func (l *Legislator) SetNameParts(first, last string) {
	l.FirstName = first
	l.LastName = last
}

func (l *Legislator) SetPhotoURL(url string) {
	l.PhotoURL = &url
}

func (l *Legislator) SetEmail(email string) {
	l.Email = &email
}

func (l *Legislator) AddSource(url string) {
	l.Sources = append(l.Sources, url)
}

// SetOffice прикрепляет офис; повторный вызов заменяет предыдущий
func (l *Legislator) SetOffice(office Office) {
	l.Office = &office
}

// NewCapitolOffice собирает офис в Капитолии. Пустой (после обрезки) телефон не сохраняется.
func NewCapitolOffice(address, phone string, email *string) Office {
	office := Office{Name: CapitolOfficeName, Address: address, Email: email}
	if strings.TrimSpace(phone) != "" {
		office.Phone = &phone
	}
	return office
}

// Value разыменовывает опциональное поле, "" если значения нет
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
