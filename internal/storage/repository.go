package storage

import (
	"context"
	"strings"

	"mo-legislators/internal/checksum"
	"mo-legislators/internal/legislator"
)

// LegislatorRow плоское представление записи для БД
type LegislatorRow struct {
	Term          string
	Chamber       string
	District      string
	FullName      string
	FirstName     string
	LastName      string
	Party         string
	URL           string
	PhotoURL      string
	Email         string
	OfficeName    string
	OfficeAddress string
	OfficePhone   string
	OfficeEmail   string
	Sources       string // URL через перевод строки
	CheckSum      string // SHA256 всех полей
}

// Repository интерфейс хранилища записей о депутатах
type Repository interface {
	// InsertLegislator сохраняет запись, если такой же (по контрольной сумме) ещё нет
	InsertLegislator(ctx context.Context, row *LegislatorRow) (isNew bool, err error)

	// ExistsByCheckSum проверяет наличие записи
	ExistsByCheckSum(ctx context.Context, sum string) (bool, error)

	// CountByTerm считает записи палаты за срок
	CountByTerm(ctx context.Context, term, chamber string) (int, error)

	Close() error
}

// ToRow переводит запись в строку таблицы
func ToRow(leg *legislator.Legislator, gen *checksum.Generator) *LegislatorRow {
	row := &LegislatorRow{
		Term:      leg.Term,
		Chamber:   string(leg.Chamber),
		District:  leg.District,
		FullName:  leg.FullName,
		FirstName: leg.FirstName,
		LastName:  leg.LastName,
		Party:     leg.Party,
		URL:       leg.URL,
		PhotoURL:  legislator.Value(leg.PhotoURL),
		Email:     legislator.Value(leg.Email),
		Sources:   strings.Join(leg.Sources, "\n"),
		CheckSum:  gen.GenerateRecordHash(leg),
	}
	if leg.Office != nil {
		row.OfficeName = leg.Office.Name
		row.OfficeAddress = leg.Office.Address
		row.OfficePhone = legislator.Value(leg.Office.Phone)
		row.OfficeEmail = legislator.Value(leg.Office.Email)
	}
	return row
}
