package geometry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Tier labels which estimation stage produced an estimate. It communicates
// degradation to the quote engine in place of errors.
type Tier string

const (
	TierHigh      Tier = "high"
	TierMedium    Tier = "medium"
	TierLow       Tier = "low"
	TierEstimated Tier = "estimated"
)

// Format selects the analysis path for an input file.
type Format string

const (
	// FormatMesh marks a fully defined triangulated surface.
	FormatMesh Format = "mesh"
	// FormatText marks a semi-structured exchange format with no grammar
	// guarantee, handled by heuristic extraction.
	FormatText Format = "text"
)

// MaxInputBytes is the input size cap, enforced before any parsing.
const MaxInputBytes = 100 << 20

var formatByExt = map[string]Format{
	".stl":  FormatMesh,
	".step": FormatText,
	".stp":  FormatText,
	".iges": FormatText,
	".igs":  FormatText,
}

// FormatForFilename derives the analysis format from the filename extension.
// Unrecognized extensions are rejected before entering the pipeline.
func FormatForFilename(name string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	format, ok := formatByExt[ext]
	if !ok {
		return "", &ValidationError{Reason: fmt.Sprintf("unsupported file extension %q", ext)}
	}
	return format, nil
}

// Estimate is the sole handoff artifact between geometry estimation and the
// quote engine. It is immutable once produced and replaced wholesale on
// re-analysis. All fields are strictly positive.
type Estimate struct {
	VolumeCm3       float64 `json:"volume_cm3"`
	LengthMm        float64 `json:"length_mm"`
	WidthMm         float64 `json:"width_mm"`
	HeightMm        float64 `json:"height_mm"`
	WallThicknessMm float64 `json:"wall_thickness_mm"`
	Tier            Tier    `json:"accuracy_tier"`
	SourceNote      string  `json:"source_note"`
}

// Params holds the empirical constants of the estimation heuristics. Their
// values have no stated derivation, so they are injectable rather than
// hard-coded; DefaultParams carries the tuned values.
type Params struct {
	// OutlierSigma is the per-axis standard-deviation cutoff.
	OutlierSigma float64
	// SolidityBase and SoliditySlope define the assumed fill fraction:
	// solidity = SolidityBase - SoliditySlope*min(complexity/ComplexityKnee, 1).
	SolidityBase   float64
	SoliditySlope  float64
	ComplexityKnee float64
	// MinPoints is the extraction threshold below which the point tier is
	// considered too sparse to trust.
	MinPoints int
	// CoordinateBound rejects numerals too large to be coordinates.
	CoordinateBound float64
	// ScanWindowBytes limits the dimension-pattern scan.
	ScanWindowBytes int
	// ReferenceSizeBytes anchors the file-size fallback scale.
	ReferenceSizeBytes float64
	// MinVolumeCm3 and MinDimensionMm floor every output so the quote
	// engine never divides by zero.
	MinVolumeCm3   float64
	MinDimensionMm float64
}

// DefaultParams returns the tuned estimation constants.
func DefaultParams() Params {
	return Params{
		OutlierSigma:       2.0,
		SolidityBase:       0.6,
		SoliditySlope:      0.3,
		ComplexityKnee:     10,
		MinPoints:          10,
		CoordinateBound:    10000,
		ScanWindowBytes:    5000,
		ReferenceSizeBytes: 100 * 1024,
		MinVolumeCm3:       0.1,
		MinDimensionMm:     1.0,
	}
}

// sizeBase holds the per-format constants of the file-size fallback.
type sizeBase struct {
	multiplier float64
	lengthMm   float64
	widthMm    float64
	heightMm   float64
	volumeCm3  float64
}

var sizeBases = map[string]sizeBase{
	".step": {multiplier: 1.0, lengthMm: 120, widthMm: 90, heightMm: 60, volumeCm3: 180},
	".stp":  {multiplier: 1.0, lengthMm: 120, widthMm: 90, heightMm: 60, volumeCm3: 180},
	".iges": {multiplier: 0.9, lengthMm: 110, widthMm: 85, heightMm: 55, volumeCm3: 150},
	".igs":  {multiplier: 0.9, lengthMm: 110, widthMm: 85, heightMm: 55, volumeCm3: 150},
	".stl":  {multiplier: 1.15, lengthMm: 100, widthMm: 80, heightMm: 50, volumeCm3: 140},
}

// fallbackSizeBase covers extensions without a dedicated entry; estimates
// built on it carry the lowest confidence tier.
var fallbackSizeBase = sizeBase{multiplier: 0.8, lengthMm: 100, widthMm: 80, heightMm: 60, volumeCm3: 150}

// reDimension matches numerals with at least two integer digits and a
// decimal fraction, the shape of plausible dimension literals.
var reDimension = regexp.MustCompile(`\d{2,}\.\d+`)

// Pipeline runs the ranked fallback cascade that turns raw file bytes into a
// GeometryEstimate. It holds no mutable state: concurrent analyses are
// independent.
type Pipeline struct {
	params   Params
	external ExternalAnalyzer
	log      *zap.Logger
}

// NewPipeline builds a pipeline. external may be nil when no high-accuracy
// service is configured; log may be nil.
func NewPipeline(params Params, external ExternalAnalyzer, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{params: params, external: external, log: log}
}

// Analyze estimates the geometry of one uploaded file. The only errors it
// returns are validation errors (unsupported extension, oversized input);
// every estimation failure is absorbed by a lower-confidence tier, with the
// estimate's Tier communicating the degradation.
func (p *Pipeline) Analyze(ctx context.Context, filename string, data []byte) (Estimate, error) {
	format, err := FormatForFilename(filename)
	if err != nil {
		return Estimate{}, err
	}
	if len(data) > MaxInputBytes {
		return Estimate{}, &ValidationError{Reason: fmt.Sprintf("input of %d bytes exceeds the %d byte cap", len(data), MaxInputBytes)}
	}
	if len(data) == 0 {
		return Estimate{}, &ValidationError{Reason: "input is empty"}
	}

	if p.external != nil {
		result, err := p.external.Analyze(ctx, filename, data)
		if err != nil {
			p.log.Warn("external analyzer failed, using local estimation",
				zap.String("filename", filename), zap.Error(err))
		} else {
			return p.fromExternal(result), nil
		}
	}

	if format == FormatMesh {
		return p.analyzeMesh(filename, data), nil
	}
	return p.analyzeText(filename, data), nil
}

// fromExternal adopts a service-supplied result, tagged with the tier the
// service reports. Wall thickness is derived locally: the service contract
// only covers volume and dimensions.
func (p *Pipeline) fromExternal(result *ExternalResult) Estimate {
	tier := result.Tier
	if tier == "" {
		tier = TierHigh
	}
	mean := (result.LengthMm + result.WidthMm + result.HeightMm) / 3.0
	return p.applyFloors(Estimate{
		VolumeCm3:       result.VolumeCm3,
		LengthMm:        result.LengthMm,
		WidthMm:         result.WidthMm,
		HeightMm:        result.HeightMm,
		WallThicknessMm: WallThicknessMm(mean),
		Tier:            tier,
		SourceNote:      "external analysis service",
	})
}

// analyzeMesh integrates a triangulated surface directly; this path is
// authoritative whenever a mesh is available. A mesh that fails to parse
// degrades to the text cascade; a mesh that parses but cannot be integrated
// still yields a bounds-only estimate.
func (p *Pipeline) analyzeMesh(filename string, data []byte) Estimate {
	mesh, err := ReadSTL(data)
	if err != nil {
		p.log.Warn("mesh unreadable, falling back to text heuristics",
			zap.String("filename", filename), zap.Error(err))
		return p.analyzeText(filename, data)
	}

	box := BoundingBoxOf(mesh.Points())
	wall := WallThicknessMm(mesh.BoundingSphereDiameterMm())

	volumeMm3, err := mesh.VolumeMm3()
	if err != nil {
		// Bounds survived integration failure: estimate volume from the
		// box with the base solidity assumption.
		return p.applyFloors(Estimate{
			VolumeCm3:       box.VolumeMm3() * p.params.SolidityBase / 1000.0,
			LengthMm:        box.WidthMm,
			WidthMm:         box.DepthMm,
			HeightMm:        box.HeightMm,
			WallThicknessMm: wall,
			Tier:            TierMedium,
			SourceNote:      "mesh bounds only, volume integration failed",
		})
	}

	return p.applyFloors(Estimate{
		VolumeCm3:       volumeMm3 / 1000.0,
		LengthMm:        box.WidthMm,
		WidthMm:         box.DepthMm,
		HeightMm:        box.HeightMm,
		WallThicknessMm: wall,
		Tier:            TierHigh,
		SourceNote:      fmt.Sprintf("mesh integration (%d triangles)", mesh.TriangleCount()),
	})
}

// analyzeText runs the ranked cascade for text-based formats: point
// extraction, then dimension-pattern scan, then file-size estimation. The
// last tier always succeeds, so this function cannot fail.
func (p *Pipeline) analyzeText(filename string, data []byte) Estimate {
	est, err := p.estimateFromPoints(data)
	if err == nil {
		return est
	}
	if !errors.Is(err, ErrInsufficientPoints) {
		p.log.Warn("point extraction failed", zap.String("filename", filename), zap.Error(err))
	}

	if est, ok := p.estimateFromDimensionScan(data); ok {
		return est
	}

	return p.estimateFromFileSize(filename, len(data))
}

// estimateFromPoints is the highest-confidence text tier: extract coordinate
// candidates, drop statistical outliers, and fill the bounding box with an
// assumed solidity that shrinks as structural complexity grows.
func (p *Pipeline) estimateFromPoints(data []byte) (Estimate, error) {
	ex := ExtractPoints(string(data), p.params.CoordinateBound)
	if len(ex.Points) < p.params.MinPoints {
		return Estimate{}, fmt.Errorf("%d points below threshold %d: %w",
			len(ex.Points), p.params.MinPoints, ErrInsufficientPoints)
	}

	filtered := FilterOutliers(ex.Points, p.params.OutlierSigma)
	if len(filtered) == 0 {
		// Degenerate variance emptied the set; the unfiltered box beats
		// failing outright.
		filtered = ex.Points
	}
	box := BoundingBoxOf(filtered)

	solidity := p.params.SolidityBase -
		p.params.SoliditySlope*math.Min(ex.Complexity/p.params.ComplexityKnee, 1)

	return p.applyFloors(Estimate{
		VolumeCm3:       box.VolumeMm3() * solidity / 1000.0,
		LengthMm:        box.WidthMm,
		WidthMm:         box.DepthMm,
		HeightMm:        box.HeightMm,
		WallThicknessMm: WallThicknessMm(box.MeanDimensionMm()),
		Tier:            TierHigh,
		SourceNote:      fmt.Sprintf("coordinate extraction (%d points, complexity %.1f)", len(ex.Points), ex.Complexity),
	}), nil
}

// estimateFromDimensionScan scans the head of the file for the largest
// dimension-shaped numeral and derives a box from fixed empirical ratios.
func (p *Pipeline) estimateFromDimensionScan(data []byte) (Estimate, bool) {
	window := data
	if len(window) > p.params.ScanWindowBytes {
		window = window[:p.params.ScanWindowBytes]
	}

	var largest float64
	for _, m := range reDimension.FindAllString(string(window), -1) {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil || !finite(v) || v > p.params.CoordinateBound {
			continue
		}
		if v > largest {
			largest = v
		}
	}
	if largest == 0 {
		return Estimate{}, false
	}

	length := 0.8 * largest
	width := 0.6 * largest
	height := 0.4 * largest

	return p.applyFloors(Estimate{
		VolumeCm3:       length * width * height / 1000.0,
		LengthMm:        length,
		WidthMm:         width,
		HeightMm:        height,
		WallThicknessMm: WallThicknessMm((length + width + height) / 3.0),
		Tier:            TierMedium,
		SourceNote:      fmt.Sprintf("dimension pattern scan (max %.1fmm)", largest),
	}), true
}

// estimateFromFileSize is the last resort: scale per-format base dimensions
// by the cube root of the size ratio. It never fails.
func (p *Pipeline) estimateFromFileSize(filename string, size int) Estimate {
	ext := strings.ToLower(filepath.Ext(filename))
	base, ok := sizeBases[ext]
	tier := TierLow
	if !ok {
		base = fallbackSizeBase
		tier = TierEstimated
	}

	scale := math.Cbrt(float64(size)/p.params.ReferenceSizeBytes) * base.multiplier
	mean := (base.lengthMm + base.widthMm + base.heightMm) / 3.0 * scale

	return p.applyFloors(Estimate{
		VolumeCm3:       base.volumeCm3 * scale,
		LengthMm:        base.lengthMm * scale,
		WidthMm:         base.widthMm * scale,
		HeightMm:        base.heightMm * scale,
		WallThicknessMm: WallThicknessMm(mean),
		Tier:            tier,
		SourceNote:      fmt.Sprintf("file size estimate (%d bytes, scale %.2f)", size, scale),
	})
}

// applyFloors clamps volume and dimensions to their minimums so the quote
// engine never divides by zero or prices a physically nonsensical part.
func (p *Pipeline) applyFloors(est Estimate) Estimate {
	est.VolumeCm3 = math.Max(est.VolumeCm3, p.params.MinVolumeCm3)
	est.LengthMm = math.Max(est.LengthMm, p.params.MinDimensionMm)
	est.WidthMm = math.Max(est.WidthMm, p.params.MinDimensionMm)
	est.HeightMm = math.Max(est.HeightMm, p.params.MinDimensionMm)
	if est.WallThicknessMm <= 0 {
		est.WallThicknessMm = WallThicknessMm((est.LengthMm + est.WidthMm + est.HeightMm) / 3.0)
	}
	return est
}
