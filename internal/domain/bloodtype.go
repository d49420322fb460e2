package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BloodType is an ABO/Rh blood group such as "AB-".
type BloodType string

// Blood types.
const (
	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"
)

// BloodTypes lists every known blood type.
var BloodTypes = []BloodType{
	BloodTypeAPos, BloodTypeANeg,
	BloodTypeBPos, BloodTypeBNeg,
	BloodTypeABPos, BloodTypeABNeg,
	BloodTypeOPos, BloodTypeONeg,
}

// IsValid checks if the blood type is known.
func (b BloodType) IsValid() bool {
	for _, bt := range BloodTypes {
		if b == bt {
			return true
		}
	}
	return false
}

// NormalizeBloodType trims and upper-cases user input, so "ab+ " becomes "AB+".
func NormalizeBloodType(s string) BloodType {
	// cases.Caser keeps state, one per call.
	return BloodType(cases.Upper(language.Und).String(strings.TrimSpace(s)))
}
