package curvelab

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ============================================================
// Sampling domain
// ============================================================

// MinDomainPoints is the smallest point count that gives a meaningful
// curve.
const MinDomainPoints = 10

// DomainSpec describes an evenly spaced sampling grid for equation
// mode: Points values from XMin to XMax inclusive.
type DomainSpec struct {
	XMin   float64
	XMax   float64
	Points int
}

// Validate rejects XMax <= XMin and Points below MinDomainPoints with
// ErrDomain. A NaN bound fails the range check too.
func (d DomainSpec) Validate() error {
	if !(d.XMax > d.XMin) {
		return fmt.Errorf("%w: x max (%g) must be greater than x min (%g)", ErrDomain, d.XMax, d.XMin)
	}
	if d.Points < MinDomainPoints {
		return fmt.Errorf("%w: use at least %d points for a meaningful curve, got %d", ErrDomain, MinDomainPoints, d.Points)
	}
	return nil
}

// Samples validates the spec and returns its grid.
func (d DomainSpec) Samples() ([]float64, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return floats.Span(make([]float64, d.Points), d.XMin, d.XMax), nil
}

// ParseDomainSpec builds a validated DomainSpec from the three
// free-text entry fields. The point count is read as a float and
// truncated, so "400.0" is accepted. Non-numeric fields wrap
// ErrDomain.
func ParseDomainSpec(xmin, xmax, points string) (DomainSpec, error) {
	lo, errLo := strconv.ParseFloat(strings.TrimSpace(xmin), 64)
	hi, errHi := strconv.ParseFloat(strings.TrimSpace(xmax), 64)
	n, errN := strconv.ParseFloat(strings.TrimSpace(points), 64)
	if errLo != nil || errHi != nil || errN != nil {
		return DomainSpec{}, fmt.Errorf("%w: x-range and points must be numeric", ErrDomain)
	}
	d := DomainSpec{XMin: lo, XMax: hi, Points: int(n)}
	if err := d.Validate(); err != nil {
		return DomainSpec{}, err
	}
	return d, nil
}
