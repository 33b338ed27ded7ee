package curvelab_test

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	curvelab "github.com/curvelab/curvelab"
)

// ============================================================
// Sample row parsing tests
// ============================================================

func TestParseSamples(t *testing.T) {
	xs, ys, err := curvelab.ParseSamples([][2]string{
		{" -2 ", "4"},
		{"", ""}, // blank rows are skipped
		{"0", "0"},
		{"2", "4"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(xs) != 3 || len(ys) != 3 {
		t.Fatalf("want 3 rows, got %d/%d", len(xs), len(ys))
	}
	if xs[0] != -2 || ys[0] != 4 {
		t.Errorf("want first row (-2, 4), got (%g, %g)", xs[0], ys[0])
	}
}

func TestParseSamples_OneSidedRow(t *testing.T) {
	_, _, err := curvelab.ParseSamples([][2]string{{"1", ""}})
	if !errors.Is(err, curvelab.ErrDomain) {
		t.Errorf("one-sided row should fail with ErrDomain, got %v", err)
	}
}

func TestParseSamples_BadNumber(t *testing.T) {
	_, _, err := curvelab.ParseSamples([][2]string{{"1", "two"}})
	if !errors.Is(err, curvelab.ErrDomain) {
		t.Errorf("non-numeric row should fail with ErrDomain, got %v", err)
	}
}

func TestParseSamples_AllBlank(t *testing.T) {
	_, _, err := curvelab.ParseSamples([][2]string{{"", ""}, {"", ""}})
	if !errors.Is(err, curvelab.ErrEmptyData) {
		t.Errorf("no usable rows should fail with ErrEmptyData, got %v", err)
	}
}

// ============================================================
// Draw request tests
// ============================================================

func TestHandleDraw_PointMode(t *testing.T) {
	resp := curvelab.HandleDraw(curvelab.DrawRequest{
		Mode: curvelab.ModePoints,
		Rows: [][2]string{
			{"-2", "4"}, {"-1", "1"}, {"0", "0"}, {"1", "1"}, {"2", "4"},
		},
	})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if resp.GPoint == nil || math.Abs(resp.GPoint.X) > 1e-12 || math.Abs(resp.GPoint.Y-2) > 1e-12 {
		t.Errorf("want G point (0, 2), got %v", resp.GPoint)
	}
	if resp.Fit == nil {
		t.Fatal("point mode should report a fit")
	}
	if resp.Slope == nil || *resp.Slope != resp.Fit.Slope {
		t.Errorf("slope should equal the fit slope, got %v and %g", resp.Slope, resp.Fit.Slope)
	}
	if len(resp.Highlights) != 2 {
		t.Errorf("want 2 highlighted points, got %d", len(resp.Highlights))
	}
	if !strings.Contains(resp.Status, "G Point") {
		t.Errorf("status line missing G Point: %q", resp.Status)
	}
}

func TestHandleDraw_TooFewPoints(t *testing.T) {
	resp := curvelab.HandleDraw(curvelab.DrawRequest{
		Mode: curvelab.ModePoints,
		Rows: [][2]string{{"1", "2"}},
	})
	if resp.Error == "" || !strings.Contains(resp.Error, "two points") {
		t.Errorf("want a two-points error, got %q", resp.Error)
	}
	if resp.GPoint != nil || resp.Status != "" {
		t.Error("a failed request should carry no partial result")
	}
}

func TestHandleDraw_EquationMode(t *testing.T) {
	resp := curvelab.HandleDraw(curvelab.DrawRequest{
		Mode:   curvelab.ModeEquation,
		Expr:   "x^2",
		XMin:   "-2",
		XMax:   "2",
		Points: "41",
	})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if resp.Fit != nil {
		t.Error("equation mode should not report a fit")
	}
	if resp.GPoint == nil || math.Abs(resp.GPoint.X) > 1e-9 {
		t.Errorf("want Gx near 0, got %v", resp.GPoint)
	}
	// Symmetric window around x=0 of an even function.
	if resp.Slope == nil || math.Abs(*resp.Slope) > 1e-6 {
		t.Errorf("want slope near 0, got %v", resp.Slope)
	}
}

func TestHandleDraw_EmptyEquation(t *testing.T) {
	resp := curvelab.HandleDraw(curvelab.DrawRequest{
		Mode: curvelab.ModeEquation, XMin: "-1", XMax: "1", Points: "100",
	})
	if resp.Error == "" {
		t.Error("empty equation should fail")
	}
}

func TestHandleDraw_DomainRejectedBeforeEvaluation(t *testing.T) {
	resp := curvelab.HandleDraw(curvelab.DrawRequest{
		Mode: curvelab.ModeEquation, Expr: "x", XMin: "-1", XMax: "1", Points: "5",
	})
	if resp.Error == "" || !strings.Contains(resp.Error, "at least 10") {
		t.Errorf("want a point-count error, got %q", resp.Error)
	}
}

func TestHandleDraw_SandboxedExpression(t *testing.T) {
	resp := curvelab.HandleDraw(curvelab.DrawRequest{
		Mode: curvelab.ModeEquation, Expr: "import os; os.system('x')",
		XMin: "-1", XMax: "1", Points: "100",
	})
	if resp.Error == "" {
		t.Error("host code should fail")
	}
}

func TestHandleDraw_UnknownMode(t *testing.T) {
	resp := curvelab.HandleDraw(curvelab.DrawRequest{Mode: "scatter"})
	if resp.Error == "" || !strings.Contains(resp.Error, "unknown mode") {
		t.Errorf("want an unknown-mode error, got %q", resp.Error)
	}
}

func TestRenderDraw_WritesPNG(t *testing.T) {
	var buf bytes.Buffer
	resp := curvelab.RenderDraw(curvelab.DrawRequest{
		Mode:   curvelab.ModeEquation,
		Expr:   "sin(x) + 0.5*x",
		XMin:   "-10",
		XMax:   "10",
		Points: "400",
	}, &buf)
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if buf.Len() == 0 {
		t.Fatal("no image bytes written")
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestRenderDraw_FailureWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	resp := curvelab.RenderDraw(curvelab.DrawRequest{
		Mode: curvelab.ModeEquation, Expr: "q", XMin: "-1", XMax: "1", Points: "100",
	}, &buf)
	if resp.Error == "" {
		t.Fatal("expected an error")
	}
	if buf.Len() != 0 {
		t.Errorf("failed request wrote %d bytes", buf.Len())
	}
}
