package checksum

import (
	"testing"

	"mo-legislators/internal/legislator"
)

func sampleLegislator() *legislator.Legislator {
	leg := legislator.New("2013-2014", legislator.Upper, "07", "Jane Doe", legislator.PartyDemocratic,
		"http://www.senate.mo.gov/14info/members/mem07.htm")
	leg.AddSource("http://www.senate.mo.gov/14info/SenateRoster.htm")
	leg.SetOffice(legislator.NewCapitolOffice("State Capitol Room 331", "573-751-0000", nil))
	return leg
}

func TestGenerateRecordHash(t *testing.T) {
	gen := NewGenerator()

	hash1 := gen.GenerateRecordHash(sampleLegislator())
	hash2 := gen.GenerateRecordHash(sampleLegislator())

	// Хеш должен быть детерминированным
	if hash1 != hash2 {
		t.Errorf("Hash not deterministic: %s != %s", hash1, hash2)
	}

	// Хеш должен быть 64 символа (SHA256 hex)
	if len(hash1) != 64 {
		t.Errorf("Hash wrong length: %d, expected 64", len(hash1))
	}

	// Изменение контента должно изменить хеш
	changed := sampleLegislator()
	changed.Party = legislator.PartyRepublican
	if hash1 == gen.GenerateRecordHash(changed) {
		t.Errorf("Hash should change when party changes")
	}
}

func TestHashDistinguishesEmptyFromAbsent(t *testing.T) {
	gen := NewGenerator()

	absent := sampleLegislator()
	empty := sampleLegislator()
	empty.SetEmail("")

	if gen.GenerateRecordHash(absent) == gen.GenerateRecordHash(empty) {
		t.Errorf("Empty email should hash differently from absent email")
	}
}

func TestVerifyRecordHash(t *testing.T) {
	gen := NewGenerator()
	leg := sampleLegislator()

	hash := gen.GenerateRecordHash(leg)

	if !gen.VerifyRecordHash(hash, leg) {
		t.Errorf("VerifyRecordHash failed for correct data")
	}

	leg.SetPhotoURL("http://www.senate.mo.gov/14info/members/photos/mem07.jpg")
	if gen.VerifyRecordHash(hash, leg) {
		t.Errorf("VerifyRecordHash should fail after photo is set")
	}
}
