package scraper

import (
	"context"
	"fmt"
	"strings"

	"mo-legislators/internal/htmltree"
	"mo-legislators/internal/legislator"
	"mo-legislators/internal/normalize"
	"mo-legislators/internal/observability"
)

const (
	// контейнер ASP.NET-грида со списком депутатов
	houseGridXPath  = `//*[@id="ContentPlaceHolder1_gridMembers_DXMainTable"]`
	houseRowsXPath  = `tbody/tr`
	houseEmailXPath = `//*[@id="ContentPlaceHolder1_lblAddresses"]/table/tbody/tr[4]/td/a`
	houseTermsXPath = `//*[@id="ContentPlaceHolder1_lblElected"]`

	housePhotoSelector      = "#ContentPlaceHolder1_imgPhoto"
	houseCommitteesSelector = "#ContentPlaceHolder1_lblCommittees > li > a"
)

// houseRow поля одной строки списка палаты представителей
type houseRow struct {
	memberLink string
	lastName   string
	firstName  string
	district   string
	party      string
	phone      string
	room       string
}

// memberDetails данные страницы депутата. Комитеты и сроки избрания
// запрашиваются, но в запись пока не попадают.
type memberDetails struct {
	photoURL   *string
	email      *string
	committees []string
	elected    string
}

// ScrapeReps обходит список депутатов палаты. Вакантные места уходят
// в VacantSaver, остальные дополняются страницей депутата и сохраняются.
func (s *Scraper) ScrapeReps(ctx context.Context, chamber legislator.Chamber, session, term string) (*SessionStats, error) {
	rosterURL := s.urls.HouseRoster(session)
	logger := s.logger.With("chamber", chamber, "session", session)

	doc, err := s.fetchDocument(ctx, rosterURL)
	if err != nil {
		return nil, err
	}

	grid, err := htmltree.First(doc, houseGridXPath)
	if err != nil {
		return nil, fmt.Errorf("house roster grid: %w", err)
	}

	rows, err := grid.QueryAll(houseRowsXPath)
	if err != nil {
		return nil, err
	}

	logger.Info("Listing fetched", "url", rosterURL, "rows", len(rows))

	stats := &SessionStats{}

	for i, tr := range rows {
		// первая строка: заголовок
		if i == 0 {
			continue
		}
		stats.Rows++

		row, err := parseHouseRow(tr)
		if err != nil {
			return stats, fmt.Errorf("house roster row %d: %w", i+1, err)
		}

		logger.Debug("Roster row", "row", i+1, "member_link", row.memberLink, "district", row.district)

		fullName := fmt.Sprintf("%s %s", row.firstName, row.lastName)
		leg := legislator.New(term, chamber, row.district, fullName, row.party, rosterURL)
		leg.SetNameParts(row.firstName, row.lastName)
		leg.SetOffice(legislator.NewCapitolOffice(s.normalizer.CapitolAddress(row.room), row.phone, nil))
		leg.AddSource(rosterURL)

		if row.lastName == vacantName {
			if err := s.vacant.SaveVacant(ctx, leg); err != nil {
				return stats, fmt.Errorf("save vacant district %s: %w", row.district, err)
			}
			stats.Vacant++
			logger.Info("Vacant seat recorded", "district", row.district)
			continue
		}

		detailsURL := s.urls.HouseDetails(session, row.district)
		details, err := s.fetchMemberDetails(ctx, detailsURL)
		if err != nil {
			return stats, fmt.Errorf("house member %s (district %s): %w", fullName, row.district, err)
		}
		leg.AddSource(detailsURL)

		if details.email != nil {
			leg.SetEmail(*details.email)
		}
		if details.photoURL != nil {
			leg.SetPhotoURL(*details.photoURL)
		}
		logDiscarded(logger, row.district, details)

		if err := s.saver.SaveLegislator(ctx, leg); err != nil {
			return stats, fmt.Errorf("save representative %s: %w", fullName, err)
		}
		stats.Saved++
		logger.Debug("Saved legislator", "district", leg.District, "name", fullName)
	}

	return stats, nil
}

func parseHouseRow(tr htmltree.Node) (*houseRow, error) {
	tds, err := cells(tr, 6)
	if err != nil {
		return nil, err
	}

	// ссылка нужна только как признак строки депутата, сама по себе не открывается
	link, err := htmltree.First(tds[0], "a[1]")
	if err != nil {
		return nil, fmt.Errorf("member link: %w", err)
	}
	href, _ := link.Attr("href")

	district, err := normalize.District(tds[2].Text())
	if err != nil {
		return nil, err
	}

	return &houseRow{
		memberLink: href,
		lastName:   strings.TrimSpace(tds[0].Text()),
		firstName:  strings.TrimSpace(tds[1].Text()),
		district:   district,
		party:      normalize.HouseParty(strings.TrimSpace(tds[3].Text())),
		phone:      strings.TrimSpace(tds[4].Text()),
		room:       strings.TrimSpace(tds[5].Text()),
	}, nil
}

func (s *Scraper) fetchMemberDetails(ctx context.Context, detailsURL string) (*memberDetails, error) {
	doc, err := s.fetchDocument(ctx, detailsURL)
	if err != nil {
		return nil, err
	}

	details := &memberDetails{}

	if photos := htmltree.Attrs(doc.Find(housePhotoSelector), "src"); len(photos) > 0 {
		details.photoURL = &photos[0]
	}

	anchors, err := doc.QueryAll(houseEmailXPath)
	if err != nil {
		return nil, err
	}
	details.email, err = normalize.HouseEmail(htmltree.Attrs(anchors, "href"))
	if err != nil {
		return nil, err
	}

	terms, err := doc.QueryAll(houseTermsXPath)
	if err != nil {
		return nil, err
	}
	if len(terms) > 0 {
		details.elected = strings.TrimSpace(terms[0].Text())
	}

	for _, a := range doc.Find(houseCommitteesSelector) {
		details.committees = append(details.committees, strings.TrimSpace(a.Text()))
	}

	return details, nil
}

func logDiscarded(logger *observability.Logger, district string, d *memberDetails) {
	if len(d.committees) == 0 && d.elected == "" {
		return
	}
	logger.Debug("Committee and election data not attached",
		"district", district,
		"committees", len(d.committees),
		"elected", d.elected,
	)
}
