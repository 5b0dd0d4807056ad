package scraper

import (
	"context"
	"fmt"
	"strings"

	"mo-legislators/internal/htmltree"
	"mo-legislators/internal/legislator"
	"mo-legislators/internal/normalize"
)

const (
	senateTableXPath   = `//*[@id="mainContent"]/table`
	senateRowsXPath    = `.//table/tbody/tr`
	senatePhotoXPath   = `//div[@id="container"]/div[1]/img`
	senateAddressXPath = `/html/body//span[2]`
	senateEmailXPath   = `/html/body/p/span[2]/a`

	vacantName = "Vacant"
)

// ScrapeSenators обходит список сенаторов сессии. Для каждого занятого места
// загружает страницу сенатора (фото) и страницу офиса (адрес, email).
// Вакантные места пропускаются целиком.
func (s *Scraper) ScrapeSenators(ctx context.Context, chamber legislator.Chamber, session, term string) (*SessionStats, error) {
	rosterURL, err := s.urls.SenateRoster(session)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With("chamber", chamber, "session", session)

	doc, err := s.fetchDocument(ctx, rosterURL)
	if err != nil {
		return nil, err
	}

	table, err := htmltree.First(doc, senateTableXPath)
	if err != nil {
		return nil, fmt.Errorf("senate roster table: %w", err)
	}

	rows, err := table.QueryAll(senateRowsXPath)
	if err != nil {
		return nil, err
	}

	logger.Info("Listing fetched", "url", rosterURL, "rows", len(rows))

	stats := &SessionStats{}

	for i, row := range rows {
		// первая строка: заголовок
		if i < 1 {
			continue
		}
		stats.Rows++

		tds, err := cells(row, 4)
		if err != nil {
			return stats, fmt.Errorf("senate roster row %d: %w", i+1, err)
		}

		fullName, err := htmltree.FirstText(tds[0], "div/a")
		if err != nil {
			return stats, fmt.Errorf("senate roster row %d name: %w", i+1, err)
		}

		if fullName == vacantName {
			stats.SkippedVacant++
			logger.Info("Skipping vacant seat", "row", i+1)
			continue
		}

		leg, err := s.scrapeSenator(ctx, tds, chamber, session, term, fullName, rosterURL)
		if err != nil {
			return stats, fmt.Errorf("senate roster row %d (%s): %w", i+1, fullName, err)
		}

		if leg.Party != legislator.PartyDemocratic && leg.Party != legislator.PartyRepublican {
			logger.Warn("Unrecognized party code", "party", leg.Party, "district", leg.District, "name", fullName)
		}

		if err := s.saver.SaveLegislator(ctx, leg); err != nil {
			return stats, fmt.Errorf("save senator %s: %w", fullName, err)
		}
		stats.Saved++
		logger.Debug("Saved legislator", "district", leg.District, "name", fullName)
	}

	return stats, nil
}

func (s *Scraper) scrapeSenator(
	ctx context.Context,
	tds []htmltree.Node,
	chamber legislator.Chamber,
	session, term, fullName, rosterURL string,
) (*legislator.Legislator, error) {
	token, err := htmltree.FirstText(tds[1], "div")
	if err != nil {
		return nil, fmt.Errorf("party-district cell: %w", err)
	}

	code, district, err := normalize.SplitPartyDistrict(token)
	if err != nil {
		return nil, err
	}
	party, _ := normalize.SenateParty(code)

	// ключ "d07": по нему восстанавливается номер округа для страницы офиса
	senatorKey := strings.ToLower(code) + district

	phone, err := htmltree.FirstText(tds[3], "div")
	if err != nil {
		return nil, fmt.Errorf("phone cell: %w", err)
	}

	districtNum, err := normalize.DistrictNumber(district)
	if err != nil {
		return nil, err
	}
	detailsURL, err := s.urls.SenateDetails(session, districtNum)
	if err != nil {
		return nil, err
	}

	leg := legislator.New(term, chamber, district, fullName, party, detailsURL)
	leg.AddSource(rosterURL)

	details, err := s.fetchDocument(ctx, detailsURL)
	if err != nil {
		return nil, err
	}
	leg.AddSource(detailsURL)

	photo, err := htmltree.First(details, senatePhotoXPath)
	if err != nil {
		return nil, fmt.Errorf("photo: %w", err)
	}
	photoURL, err := htmltree.RequireAttr(photo, "src")
	if err != nil {
		return nil, fmt.Errorf("photo: %w", err)
	}

	keyNum, err := normalize.DistrictNumber(senatorKey[len(code):])
	if err != nil {
		return nil, err
	}
	officeURL, err := s.urls.SenateOffice(session, keyNum)
	if err != nil {
		return nil, err
	}

	office, err := s.fetchDocument(ctx, officeURL)
	if err != nil {
		return nil, err
	}
	leg.AddSource(officeURL)

	addressBlock, err := htmltree.First(office, senateAddressXPath)
	if err != nil {
		return nil, fmt.Errorf("address: %w", err)
	}
	address, err := normalize.JoinAddressLines(addressBlock.Text())
	if err != nil {
		return nil, err
	}

	anchors, err := office.QueryAll(senateEmailXPath)
	if err != nil {
		return nil, err
	}
	email := normalize.SenateEmail(htmltree.Attrs(anchors, "href"))
	if email != nil {
		leg.SetEmail(*email)
	}

	leg.SetOffice(legislator.NewCapitolOffice(address, phone, email))
	leg.SetPhotoURL(photoURL)

	return leg, nil
}
