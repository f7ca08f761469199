package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/scendiff/scendiff/core/pathway"
	"github.com/scendiff/scendiff/internal/contract"
	"github.com/scendiff/scendiff/schema"
)

// Session drives the modify, project, compare loop. It owns the pathway
// store and the report of the most recent completed step. The report is
// replaced atomically, so concurrent readers never observe a half-finished
// step.
type Session struct {
	cfg    *contract.Config
	client contract.EngineClient
	mgr    contract.CacheManager
	store  *pathway.Store

	mu      sync.RWMutex
	current *schema.ComparisonReport
}

// NewSession returns a session over the built-in catalog.
func NewSession(cfg *contract.Config, client contract.EngineClient, mgr contract.CacheManager) *Session {
	return &Session{
		cfg:    cfg,
		client: client,
		mgr:    mgr,
		store:  pathway.NewStore(),
	}
}

// Store exposes the catalog backing this session.
func (s *Session) Store() *pathway.Store {
	return s.store
}

// CurrentReport returns the report of the last completed step, or nil when
// no step has completed yet.
func (s *Session) CurrentReport() *schema.ComparisonReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// ModifyAndCompare executes one full step: load the base pathway, apply the
// configured perturbation, project both pathways and diff the projections.
// A failed step leaves the previously published report untouched.
func (s *Session) ModifyAndCompare(ctx context.Context) (*schema.ComparisonReport, error) {
	// --- 1. Load and perturb the base pathway ---
	base, err := s.store.Load(s.cfg.Scenario)
	if err != nil {
		return nil, err
	}
	p := resolveWindow(s.cfg.Perturbation, base)
	derived, err := ApplyPerturbation(base, p)
	if err != nil {
		return nil, err
	}

	// --- 2. Begin run tracking (if configured) ---
	runID := s.beginRunTracking(p)

	// --- 3. Project both pathways ---
	baseResult, modResult, err := s.projectPair(ctx, base, derived)
	if err != nil {
		s.finishRunTracking(runID, schema.RunFailed, err.Error(), 0)
		return nil, err
	}

	// --- 4. Diff the projections ---
	report, err := compareProjections(baseResult, modResult)
	if err != nil {
		s.finishRunTracking(runID, schema.RunFailed, err.Error(), 0)
		return nil, err
	}
	report.Scenario = s.cfg.Scenario
	report.Perturbation = p
	report.Emissions = SummarizeEmissionsDelta(derived)

	// --- 5. Finish run tracking ---
	s.finishRunTracking(runID, schema.RunCompleted, "", report.Summary.MaxAbsDelta)
	s.recordDeltas(runID, report)

	// --- 6. Publish the new report ---
	s.mu.Lock()
	s.current = report
	s.mu.Unlock()

	return report, nil
}

// ProjectBaseline projects the unmodified base pathway, without touching
// the current report or the run history.
func (s *Session) ProjectBaseline(ctx context.Context) (*schema.ProjectionResult, error) {
	base, err := s.store.Load(s.cfg.Scenario)
	if err != nil {
		return nil, err
	}
	return cachedProjectPathway(ctx, s.cfg, s.client, s.mgr, base)
}

// projectPair projects the base and derived pathways, in parallel unless
// sequential mode is requested.
func (s *Session) projectPair(ctx context.Context, base *schema.Pathway, derived *schema.DerivedPathway) (*schema.ProjectionResult, *schema.ProjectionResult, error) {
	var baseResult, modResult *schema.ProjectionResult
	var baseErr, modErr error

	if s.cfg.Sequential {
		baseResult, baseErr = cachedProjectPathway(ctx, s.cfg, s.client, s.mgr, base)
		if baseErr == nil {
			modResult, modErr = cachedProjectPathway(ctx, s.cfg, s.client, s.mgr, derived)
		}
	} else {
		var wg sync.WaitGroup
		wg.Go(func() {
			baseResult, baseErr = cachedProjectPathway(ctx, s.cfg, s.client, s.mgr, base)
		})
		wg.Go(func() {
			modResult, modErr = cachedProjectPathway(ctx, s.cfg, s.client, s.mgr, derived)
		})
		wg.Wait()
	}

	if baseErr != nil {
		return nil, nil, fmt.Errorf("baseline projection: %w", baseErr)
	}
	if modErr != nil {
		return nil, nil, fmt.Errorf("modified projection: %w", modErr)
	}
	return baseResult, modResult, nil
}

// beginRunTracking opens a run history row and returns its ID, or 0 when
// tracking is disabled or unavailable.
func (s *Session) beginRunTracking(p schema.Perturbation) int64 {
	runs := s.mgr.GetRunStore()
	if runs == nil {
		return 0
	}
	runID, err := runs.BeginRun(schema.RunRecord{
		RunUID:        uuid.NewString(),
		Scenario:      string(s.cfg.Scenario),
		Transform:     string(p.Kind),
		Magnitude:     p.Magnitude,
		WindowFrom:    p.From,
		WindowTo:      p.To,
		EngineCommand: s.cfg.EngineCommand,
		Outcome:       schema.RunRunning,
		StartedAt:     time.Now(),
	})
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return 0
	}
	return runID
}

// finishRunTracking finalizes a run history row. Tracking failures are
// logged and otherwise ignored, the step result matters more.
func (s *Session) finishRunTracking(runID int64, outcome schema.RunOutcome, errMsg string, maxAbsDelta float64) {
	if runID <= 0 {
		return
	}
	runs := s.mgr.GetRunStore()
	if runs == nil {
		return
	}
	if err := runs.FinishRun(runID, outcome, errMsg, time.Now(), maxAbsDelta); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}

// recordDeltas stores the per-variable headline numbers of a completed step.
func (s *Session) recordDeltas(runID int64, report *schema.ComparisonReport) {
	if runID <= 0 {
		return
	}
	runs := s.mgr.GetRunStore()
	if runs == nil {
		return
	}
	deltas := make([]schema.DeltaRecord, 0, len(report.Results))
	for _, vd := range report.Results {
		deltas = append(deltas, schema.DeltaRecord{
			RunID:        runID,
			Variable:     string(vd.Variable),
			Unit:         vd.Unit,
			OverlapStart: vd.Years[0],
			OverlapEnd:   vd.Years[len(vd.Years)-1],
			FinalDelta:   vd.Summary.FinalDelta,
			PeakDelta:    vd.Summary.PeakDelta,
			PeakYear:     vd.Summary.PeakYear,
		})
	}
	if err := runs.RecordDeltas(runID, deltas); err != nil {
		contract.LogWarn("Failed to record run deltas", err)
	}
}

// resolveWindow fills an unset perturbation window with the full pathway
// horizon. A window is unset when both bounds are zero.
func resolveWindow(p schema.Perturbation, base *schema.Pathway) schema.Perturbation {
	if p.From == 0 && p.To == 0 {
		p.From, p.To = base.Horizon()
	}
	return p
}
