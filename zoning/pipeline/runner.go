package pipeline

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/openzoning/ozfs/logger"
	"github.com/openzoning/ozfs/zoning/check"
	"github.com/openzoning/ozfs/zoning/facts"
	"github.com/openzoning/ozfs/zoning/geom"
	"github.com/openzoning/ozfs/zoning/resolve"
)

// Runner executes batch zoning analysis.
type Runner struct {
	// Workers is the pool size; 0 or less means one per CPU.
	Workers int

	// Emitter receives progress events; nil means silent.
	Emitter ProgressEmitter

	// RotationStep is the footprint-fit rotation increment in degrees;
	// 0 means geom.DefaultRotationStep.
	RotationStep float64

	// StrictEnvelope fits footprints against the strict envelope when
	// setbacks are two-valued.
	StrictEnvelope bool
}

// RunBatch evaluates the building against every row and returns results in
// input order. Rows are independent; each recomputes its own fact context
// and resolved-constraint table from scratch, so workers share nothing
// mutable. Cancelling the context abandons unstarted rows; their results
// stay zero-valued with the batch RunID attached.
func (r *Runner) RunBatch(ctx context.Context, b *facts.Building, rows []Row) []RowResult {
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(rows) {
		workers = len(rows)
	}

	runID := uuid.NewString()
	results := make([]RowResult, len(rows))
	jobs := make(chan int)

	r.emitStage("analysis", "starting batch")
	var done atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = r.evaluateRow(b, rows[i])
				results[i].RunID = runID
				if r.Emitter != nil {
					r.Emitter.EmitProgress(int(done.Add(1)), len(rows))
				}
			}
		}()
	}

feed:
	for i := range rows {
		select {
		case jobs <- i:
		case <-ctx.Done():
			logger.Warnw("batch cancelled", "run_id", runID, "remaining", len(rows)-i)
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for i := range results {
		if results[i].RunID == "" {
			results[i] = RowResult{RunID: runID, Reason: "cancelled"}
			if rows[i].District != nil {
				results[i].DistrictID = rows[i].District.ID
			}
			if rows[i].Parcel != nil {
				results[i].ParcelID = rows[i].Parcel.ID
			}
			results[i].Allowed = check.Uncertain
		}
	}

	r.emitComplete(len(rows))
	return results
}

// evaluateRow runs the full per-row sequence: land-use gate, attribute
// checks with short-circuit on denial, then the geometry stages for rows
// still alive.
func (r *Runner) evaluateRow(b *facts.Building, row Row) RowResult {
	res := RowResult{DistrictID: row.District.ID}
	if row.Parcel != nil {
		res.ParcelID = row.Parcel.ID
	}

	// Land use is a precondition gate, not a range check: a use type the
	// district does not permit fails the row outright.
	gate := check.LandUse(b, row.District)
	res.CheckTrace = append(res.CheckTrace, check.TraceEntry{
		Name:   check.NameLandUse,
		Result: check.Result{Verdict: gate},
	})
	if gate == check.Denied {
		res.Allowed = check.Denied
		res.Reason = check.NameLandUse
		return res
	}

	var lot facts.LotMetrics
	if row.Parcel != nil {
		lot = row.Parcel.LotMetrics()
	}
	table := resolve.Resolve(b, row.District, lot)

	var uncertain []string
	verdict := check.Allowed
	for _, c := range check.Sequence() {
		cr := c.Run(b, lot, table)
		res.CheckTrace = append(res.CheckTrace, check.TraceEntry{Name: c.Name, Result: cr})
		if cr.Verdict != check.Allowed {
			res.MinNotes = appendNote(res.MinNotes, cr.MinNote)
			res.MaxNotes = appendNote(res.MaxNotes, cr.MaxNote)
		}
		if cr.Verdict == check.Denied {
			res.Allowed = check.Denied
			res.Reason = c.Name
			return res
		}
		if cr.Verdict == check.Uncertain {
			uncertain = append(uncertain, c.Name)
			verdict = check.Uncertain
		}
	}

	res.Allowed = verdict
	if verdict == check.Uncertain {
		res.Reason = strings.Join(uncertain, ", ")
	} else {
		res.Reason = ReasonAllowed
	}

	if row.Parcel != nil {
		r.runGeometry(b, row, table, &res)
	}
	return res
}

// runGeometry applies setbacks, derives the buildable envelope, and tests
// the building footprint. A failed fit flips the row to denied; a passing
// fit upgrades the reason without erasing uncertainty.
func (r *Runner) runGeometry(b *facts.Building, row Row, table resolve.Table, res *RowResult) {
	plan := geom.AssignSetbacks(row.Parcel, table, nil, 0)
	relaxed, _ := geom.Envelopes(plan)
	res.HasBuildableArea = relaxed.HasBuildableArea()
	res.BuildableAreaSqFt = relaxed.AreaSqFt

	if b.Width == 0 || b.Depth == 0 {
		return
	}

	fit := geom.FitFootprint(plan, r.StrictEnvelope, b.Width, b.Depth, r.RotationStep)
	res.FootprintFits = fit.Fits
	res.CheckTrace = append(res.CheckTrace, check.TraceEntry{
		Name:   check.NameFootprint,
		Result: check.Result{Verdict: check.FromBool(fit.Fits)},
	})

	if !fit.Fits {
		res.Allowed = check.Denied
		res.Reason = check.NameFootprint
		return
	}
	switch res.Allowed {
	case check.Allowed:
		res.Reason = ReasonFits
	case check.Uncertain:
		res.Reason = ReasonUncertain
	}
}

func appendNote(notes []string, note string) []string {
	if note == "" {
		return notes
	}
	return append(notes, note)
}

func (r *Runner) emitStage(stage, message string) {
	if r.Emitter != nil {
		r.Emitter.EmitStage(stage, message)
	}
}

func (r *Runner) emitComplete(total int) {
	if r.Emitter != nil {
		r.Emitter.EmitComplete(map[string]interface{}{"rows": total})
	}
}
