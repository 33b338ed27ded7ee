package curvelab

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ============================================================
// Draw request boundary
// ============================================================

// Request mode values.
const (
	ModePoints   = "points"
	ModeEquation = "equation"
)

// DrawRequest mirrors the two input shapes a chart front end collects:
// free-text (x, y) rows, or a formula with a free-text domain. Exactly
// one shape is read, selected by Mode.
type DrawRequest struct {
	Mode string `json:"mode"`

	// Point mode.
	Rows [][2]string `json:"rows,omitempty"`

	// Equation mode.
	Expr   string `json:"expr,omitempty"`
	XMin   string `json:"xmin,omitempty"`
	XMax   string `json:"xmax,omitempty"`
	Points string `json:"points,omitempty"`

	Title string `json:"title,omitempty"`
}

// Point is an (x, y) position on the chart.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DrawResponse is the single user-facing answer to a draw request.
// Error is the only populated field when the request failed; Slope is
// omitted when the estimate is undefined.
type DrawResponse struct {
	GPoint     *Point   `json:"g_point,omitempty"`
	Slope      *float64 `json:"slope,omitempty"`
	Fit        *FitLine `json:"fit,omitempty"`
	Highlights []Point  `json:"highlights,omitempty"`
	Status     string   `json:"status,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// HandleDraw validates the request, runs evaluate and analyze, and
// folds any failure into one message. A failed request produces no
// partial result.
func HandleDraw(req DrawRequest) DrawResponse {
	res, _, err := runDraw(req)
	if err != nil {
		return DrawResponse{Error: err.Error()}
	}
	return respond(res)
}

// RenderDraw is HandleDraw plus the PNG figure, written to out only on
// success.
func RenderDraw(req DrawRequest, out io.Writer) DrawResponse {
	res, title, err := runDraw(req)
	if err != nil {
		return DrawResponse{Error: err.Error()}
	}
	if err := WriteChartPNG(res, title, out); err != nil {
		return DrawResponse{Error: err.Error()}
	}
	return respond(res)
}

func runDraw(req DrawRequest) (*AnalysisResult, string, error) {
	switch req.Mode {
	case ModePoints:
		xs, ys, err := ParseSamples(req.Rows)
		if err != nil {
			return nil, "", err
		}
		if len(xs) < 2 {
			return nil, "", fmt.Errorf("%w: enter at least two points to draw a chart", ErrEmptyData)
		}
		res, err := Analyze(xs, ys, PointMode)
		if err != nil {
			return nil, "", err
		}
		return res, titleOr(req.Title, "From x, y values"), nil

	case ModeEquation:
		expr := strings.TrimSpace(req.Expr)
		if expr == "" {
			return nil, "", fmt.Errorf("%w: enter an equation for y in terms of x", ErrExpression)
		}
		spec, err := ParseDomainSpec(req.XMin, req.XMax, req.Points)
		if err != nil {
			return nil, "", err
		}
		e, err := Compile(expr)
		if err != nil {
			return nil, "", err
		}
		xs, err := spec.Samples()
		if err != nil {
			return nil, "", err
		}
		ys, err := e.EvalVector(xs)
		if err != nil {
			return nil, "", err
		}
		res, err := Analyze(xs, ys, EquationMode)
		if err != nil {
			return nil, "", err
		}
		return res, titleOr(req.Title, "y = "+expr), nil
	}
	return nil, "", fmt.Errorf("%w: unknown mode %q (want %q or %q)", ErrDomain, req.Mode, ModePoints, ModeEquation)
}

func titleOr(title, fallback string) string {
	if strings.TrimSpace(title) != "" {
		return title
	}
	return fallback
}

func respond(res *AnalysisResult) DrawResponse {
	resp := DrawResponse{
		GPoint: &Point{X: res.GX, Y: res.GY},
		Fit:    res.Fit,
		Status: res.StatusLine(),
	}
	if isFinite(res.Slope) {
		slope := res.Slope
		resp.Slope = &slope
	}
	for _, idx := range res.Highlights {
		resp.Highlights = append(resp.Highlights, Point{X: res.X[idx], Y: res.Y[idx]})
	}
	return resp
}

// ============================================================
// Free-text sample rows
// ============================================================

// ParseSamples reads (x, y) entry rows. Fully blank rows are skipped;
// a row with exactly one side filled wraps ErrDomain, as does a value
// that does not parse as a number; zero usable rows wraps
// ErrEmptyData.
func ParseSamples(rows [][2]string) (xs, ys []float64, err error) {
	for _, row := range rows {
		sx := strings.TrimSpace(row[0])
		sy := strings.TrimSpace(row[1])
		if sx == "" && sy == "" {
			continue
		}
		if sx == "" || sy == "" {
			return nil, nil, fmt.Errorf("%w: each row must have both x and y values", ErrDomain)
		}
		xv, errX := strconv.ParseFloat(sx, 64)
		yv, errY := strconv.ParseFloat(sy, 64)
		if errX != nil || errY != nil {
			return nil, nil, fmt.Errorf("%w: invalid number: x=%q, y=%q", ErrDomain, sx, sy)
		}
		xs = append(xs, xv)
		ys = append(ys, yv)
	}
	if len(xs) == 0 {
		return nil, nil, fmt.Errorf("%w: enter at least one (x, y) pair", ErrEmptyData)
	}
	return xs, ys, nil
}
