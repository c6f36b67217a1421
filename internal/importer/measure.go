package importer

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// Dimensions are the physical measurements found in a size description.
// Missing values are zero.
type Dimensions struct {
	Length decimal.Decimal
	Width  decimal.Decimal
	Height decimal.Decimal
	Weight decimal.Decimal
}

const number = `(\d+(?:[.,]\d+)?)`

var (
	lengthPattern = regexp.MustCompile(`(?i)Longitud del pie\s*=\s*` + number + `\s*cm`)
	widthPattern  = regexp.MustCompile(`(?i)Ancho Metatarsal\s*=\s*` + number + `\s*cm`)
	heightPattern = regexp.MustCompile(`(?i)Altura de la caña\s*=\s*` + number + `\s*cm`)
	weightPattern = regexp.MustCompile(`(?i)peso:\s*` + number)
)

// ExtractMeasurements searches text for each labelled measurement
// independently.
func ExtractMeasurements(text string) Dimensions {
	return Dimensions{
		Length: findDecimal(lengthPattern, text),
		Width:  findDecimal(widthPattern, text),
		Height: findDecimal(heightPattern, text),
		Weight: findDecimal(weightPattern, text),
	}
}

func findDecimal(re *regexp.Regexp, text string) decimal.Decimal {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return decimal.Zero
	}
	d, err := parseDecimal(m[1])
	if err != nil {
		return decimal.Zero
	}
	return d
}
