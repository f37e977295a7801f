package walkability

import (
	"fmt"
	"strings"

	"github.com/ddui/walkability-api/internal/airquality"
)

type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// ParseSize normalizes a query value, defaulting to medium.
func ParseSize(s string) (Size, error) {
	switch Size(strings.ToLower(strings.TrimSpace(s))) {
	case SizeSmall:
		return SizeSmall, nil
	case SizeMedium, "":
		return SizeMedium, nil
	case SizeLarge:
		return SizeLarge, nil
	}
	return "", fmt.Errorf("unknown size %q", s)
}

// CoatType and CoatLength are optional profile attributes; the empty string
// means unspecified.
type CoatType string

const (
	CoatSingle CoatType = "single"
	CoatDouble CoatType = "double"
)

type CoatLength string

const (
	CoatShort CoatLength = "short"
	CoatLong  CoatLength = "long"
)

// Sensitivity is a health or physiology attribute that tightens the
// acceptable temperature and air-quality ranges.
type Sensitivity string

const (
	Puppy          Sensitivity = "puppy"
	Senior         Sensitivity = "senior"
	HeartDisease   Sensitivity = "heart_disease"
	Respiratory    Sensitivity = "respiratory"
	Obesity        Sensitivity = "obesity"
	Brachycephalic Sensitivity = "brachycephalic"
)

var knownSensitivities = map[Sensitivity]bool{
	Puppy:          true,
	Senior:         true,
	HeartDisease:   true,
	Respiratory:    true,
	Obesity:        true,
	Brachycephalic: true,
}

// ParseSensitivities parses a comma-separated sensitivity list, rejecting
// values outside the fixed vocabulary and dropping duplicates.
func ParseSensitivities(raw string) ([]Sensitivity, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	seen := map[Sensitivity]bool{}
	var out []Sensitivity
	for _, part := range strings.Split(raw, ",") {
		s := Sensitivity(strings.ToLower(strings.TrimSpace(part)))
		if s == "" {
			continue
		}
		if !knownSensitivities[s] {
			return nil, fmt.Errorf("unknown sensitivity %q", part)
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}

// DogProfile is the request-scoped description of the dog being walked.
type DogProfile struct {
	Size          Size
	CoatType      CoatType
	CoatLength    CoatLength
	Sensitivities []Sensitivity
	Standard      airquality.Standard
}

// DefaultProfile is used when a request carries no profile parameters.
func DefaultProfile() DogProfile {
	return DogProfile{Size: SizeMedium, Standard: airquality.StandardKorean}
}
