package checksum

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"mo-legislators/internal/legislator"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateRecordHash генерирует SHA256 хеш записи.
// Формула: SHA256(term|chamber|district|full|first|last|party|url|photo|email|office...|sources)
func (g *Generator) GenerateRecordHash(leg *legislator.Legislator) string {
	fields := []string{
		leg.Term,
		string(leg.Chamber),
		leg.District,
		leg.FullName,
		leg.FirstName,
		leg.LastName,
		leg.Party,
		leg.URL,
		optional(leg.PhotoURL),
		optional(leg.Email),
	}

	if leg.Office != nil {
		fields = append(fields,
			leg.Office.Name,
			leg.Office.Address,
			optional(leg.Office.Phone),
			optional(leg.Office.Email),
		)
	} else {
		fields = append(fields, "-", "-", "-", "-")
	}

	fields = append(fields, strings.Join(leg.Sources, ","))

	hash := sha256.Sum256([]byte(strings.Join(fields, "|")))

	return fmt.Sprintf("%x", hash)
}

// VerifyRecordHash проверяет соответствие хеша
func (g *Generator) VerifyRecordHash(expectedHash string, leg *legislator.Legislator) bool {
	return g.GenerateRecordHash(leg) == expectedHash
}

// optional отличает отсутствующее значение от пустой строки
func optional(s *string) string {
	if s == nil {
		return "\x00"
	}
	return *s
}
