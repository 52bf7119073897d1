package commands

import (
	"github.com/fogleman/gg"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/image/colornames"

	"github.com/openzoning/ozfs/conf"
	"github.com/openzoning/ozfs/errors"
	"github.com/openzoning/ozfs/internal/util"
	"github.com/openzoning/ozfs/units"
	"github.com/openzoning/ozfs/zoning/geom"
)

var (
	renderBuilding string
	renderZoning   string
	renderDistrict string
	renderParcels  string
	renderParcel   string
	renderOut      string
	renderStrict   bool
	renderScale    float64
)

// RenderCmd draws a PNG diagnostic of a parcel and its envelope.
var RenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Draw a PNG diagnostic of parcel, envelope, and footprint fit",
	Long: `Render a parcel's boundary, its buildable envelope cells, and the
first fitting placement of the building footprint to a PNG file. The
drawing uses the rotation at which the footprint first fit, or the
unrotated frame when it does not fit at all.

Examples:
  ozfs render -b bldg.json -z city.ozfs -d R1 -p parcels.geojson --parcel 17 -o fit.png`,
	RunE: runRenderCommand,
}

func init() {
	RenderCmd.Flags().StringVarP(&renderBuilding, "building", "b", "", "Building submission file (required)")
	RenderCmd.Flags().StringVarP(&renderZoning, "zoning", "z", "", "OZFS zoning document (required)")
	RenderCmd.Flags().StringVarP(&renderDistrict, "district", "d", "", "District id (required)")
	RenderCmd.Flags().StringVarP(&renderParcels, "parcels", "p", "", "Parcel GeoJSON file (required)")
	RenderCmd.Flags().StringVar(&renderParcel, "parcel", "", "Parcel id within the parcel file (required)")
	RenderCmd.Flags().StringVarP(&renderOut, "out", "o", "envelope.png", "Output PNG path")
	RenderCmd.Flags().BoolVar(&renderStrict, "strict", false, "Render the strict envelope")
	RenderCmd.Flags().Float64Var(&renderScale, "scale", 8, "Pixels per parcel unit")
	_ = RenderCmd.MarkFlagRequired("building")
	_ = RenderCmd.MarkFlagRequired("zoning")
	_ = RenderCmd.MarkFlagRequired("district")
	_ = RenderCmd.MarkFlagRequired("parcels")
	_ = RenderCmd.MarkFlagRequired("parcel")
}

func runRenderCommand(cmd *cobra.Command, args []string) error {
	cfg, err := conf.Get()
	if err != nil {
		return err
	}
	plan, b, err := loadPlan(renderBuilding, renderZoning, renderDistrict, renderParcels, renderParcel)
	if err != nil {
		return err
	}

	toFeet, err := units.ToFeet(1, plan.Parcel.Unit)
	if err != nil {
		toFeet = 1
	}
	w := util.CeilInt(b.Width / toFeet)
	d := util.CeilInt(b.Depth / toFeet)

	// Search rotations for the first fit; fall back to the unrotated frame.
	step := cfg.Geometry.RotationStepDegrees
	if step <= 0 {
		step = geom.DefaultRotationStep
	}
	env := geom.Buildable(plan, renderStrict, 0)
	rotation := 0.0
	fx, fy, fw, fh, fits := env.Mask.FindRect(w, d)
	if !fits && w > 0 && d > 0 {
		for rot := step; rot < 90; rot += step {
			cand := geom.Buildable(plan, renderStrict, rot)
			if x, y, rw, rh, ok := cand.Mask.FindRect(w, d); ok {
				env, rotation = cand, rot
				fx, fy, fw, fh, fits = x, y, rw, rh, true
				break
			}
		}
	}

	mask := env.Mask
	if mask.W == 0 || mask.H == 0 {
		return errors.Wrapf(errors.ErrNoParcelGeometry, "parcel %s", renderParcel)
	}

	scale := renderScale
	dc := gg.NewContext(int(float64(mask.W)*scale), int(float64(mask.H)*scale))
	dc.SetColor(colornames.White)
	dc.Clear()

	// Flip Y so north stays up in the image.
	worldY := func(y float64) float64 { return float64(mask.H) - y }

	dc.SetColor(colornames.Palegreen)
	for y := 0; y < mask.H; y++ {
		for x := 0; x < mask.W; x++ {
			if mask.Get(x, y) {
				dc.DrawRectangle(float64(x)*scale, (worldY(float64(y))-1)*scale, scale, scale)
			}
		}
	}
	dc.Fill()

	dc.SetColor(colornames.Black)
	dc.SetLineWidth(2)
	ring := plan.Parcel.RotatedRing(rotation)
	for i, c := range ring {
		px := (c.X - mask.MinX) * scale
		py := worldY(c.Y-mask.MinY) * scale
		if i == 0 {
			dc.MoveTo(px, py)
		} else {
			dc.LineTo(px, py)
		}
	}
	dc.Stroke()

	if fits {
		dc.SetColor(colornames.Crimson)
		dc.SetLineWidth(2)
		dc.DrawRectangle(float64(fx)*scale, (worldY(float64(fy+fh)))*scale,
			float64(fw)*scale, float64(fh)*scale)
		dc.Stroke()
	}

	if err := dc.SavePNG(renderOut); err != nil {
		return errors.Wrapf(err, "writing %s", renderOut)
	}
	if fits {
		pterm.Success.Printf("wrote %s (fit at %.0f degrees)\n", renderOut, rotation)
	} else {
		pterm.Warning.Printf("wrote %s (footprint does not fit)\n", renderOut)
	}
	return nil
}
