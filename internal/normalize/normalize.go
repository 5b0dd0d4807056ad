package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mo-legislators/internal/config"
	"mo-legislators/internal/legislator"
)

// ErrData значение на странице есть, но его нельзя разобрать
var ErrData = errors.New("malformed value")

// contactFormMarker ссылка на веб-форму вместо почтового адреса
const contactFormMarker = "Contact.aspx"

type Normalizer struct {
	addressFmt string
}

func NewNormalizer(cfg *config.Config) *Normalizer {
	return &Normalizer{addressFmt: cfg.Sources.CapitolAddressFmt}
}

// CapitolAddress подставляет номер кабинета в адрес Капитолия.
// Пустой номер оставляет пробел перед запятой, так адрес выглядит и на сайте.
func (n *Normalizer) CapitolAddress(room string) string {
	return fmt.Sprintf(n.addressFmt, room)
}

// SplitPartyDistrict разбирает токен вида "D-07" из списка сенаторов
func SplitPartyDistrict(token string) (code, district string, err error) {
	parts := strings.Split(strings.TrimSpace(token), "-")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("%w: party-district token %q", ErrData, token)
	}
	return parts[0], parts[1], nil
}

// SenateParty раскрывает однобуквенный код партии. Неизвестный код возвращается
// как есть с known=false.
func SenateParty(code string) (party string, known bool) {
	switch code {
	case "D":
		return legislator.PartyDemocratic, true
	case "R":
		return legislator.PartyRepublican, true
	default:
		return code, false
	}
}

// HouseParty приводит "Democrat" к "Democratic", остальное не трогает
func HouseParty(raw string) string {
	if raw == "Democrat" {
		return legislator.PartyDemocratic
	}
	return raw
}

// District нормализует номер округа через целое: " 012 " → "12"
func District(raw string) (string, error) {
	n, err := DistrictNumber(raw)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(n), nil
}

func DistrictNumber(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: district %q", ErrData, raw)
	}
	return n, nil
}

// JoinAddressLines склеивает первые две строки адресного блока без разделителя
func JoinAddressLines(block string) (string, error) {
	lines := strings.Split(block, "\n")
	if len(lines) < 2 {
		return "", fmt.Errorf("%w: address block has %d line(s)", ErrData, len(lines))
	}
	return lines[0] + lines[1], nil
}

// SenateEmail выбирает email из href-кандидатов в порядке документа:
// первый непустой, не ведущий на Contact.aspx. href возвращается целиком.
func SenateEmail(candidates []string) *string {
	for _, href := range candidates {
		if href == "" || strings.Contains(href, contactFormMarker) {
			continue
		}
		email := href
		return &email
	}
	return nil
}

// HouseEmail берёт первый href и отрезает схему: "mailto:b@y.com" → "b@y.com".
// Пустой "mailto:" означает отсутствие адреса.
func HouseEmail(hrefs []string) (*string, error) {
	if len(hrefs) == 0 || hrefs[0] == "mailto:" {
		return nil, nil
	}
	parts := strings.Split(hrefs[0], ":")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: email href %q", ErrData, hrefs[0])
	}
	email := parts[1]
	return &email, nil
}
