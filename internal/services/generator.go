package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quantamusic/quanta-api/internal/composer"
	"github.com/quantamusic/quanta-api/internal/logger"
	"github.com/quantamusic/quanta-api/internal/metrics"
	"github.com/quantamusic/quanta-api/internal/models"
	"github.com/quantamusic/quanta-api/internal/quantum"
	"github.com/quantamusic/quanta-api/internal/transport"
)

// ErrInvalidRequest is returned for malformed run options.
var ErrInvalidRequest = errors.New("services: invalid request")

// Settle waits after clip creation and note transmission. The receiving end
// processes control messages asynchronously, so these are fixed best-effort
// pauses, not acknowledgment-based synchronization.
const (
	defaultCreateSettle = 200 * time.Millisecond
	defaultFireSettle   = 500 * time.Millisecond
)

// Generator runs the full pipeline: sample randomness, compose notes, stream
// them to the control channel, optionally persist the result. Each run
// builds fresh sampling state, so a failed run never corrupts the next one.
type Generator struct {
	sampler *quantum.Sampler
	clips   transport.ClipTransport
	db      *gorm.DB // nil when persistence is disabled
	musical composer.Config
	sentry  *metrics.SentryMetrics

	createSettle time.Duration
	fireSettle   time.Duration
}

func NewGenerator(sampler *quantum.Sampler, clips transport.ClipTransport, db *gorm.DB, musical composer.Config) *Generator {
	return &Generator{
		sampler:      sampler,
		clips:        clips,
		db:           db,
		musical:      musical,
		sentry:       metrics.NewSentryMetrics(),
		createSettle: defaultCreateSettle,
		fireSettle:   defaultFireSettle,
	}
}

// RunOptions selects the target and optional overrides of the musical
// defaults. Zero values leave the defaults untouched.
type RunOptions struct {
	TrackIndex int
	ClipIndex  int
	Fire       bool

	Bars        int
	NotesPerBar int
	Tempo       int
	Mode        composer.Mode
}

// Run is the record of one generation run.
type Run struct {
	ID          string             `json:"id"`
	Target      models.ClipTarget  `json:"target"`
	Tempo       int                `json:"tempo"`
	Mode        string             `json:"mode"`
	TotalBeats  float64            `json:"total_beats"`
	Progression []int              `json:"progression"`
	Notes       []models.NoteEvent `json:"notes"`
	Persisted   bool               `json:"persisted"`
}

// GenerateAndSync samples a phrase and streams it to the target clip slot.
// On transport failure the run record is returned alongside the error:
// whatever notes were already sent stay sent, and the caller decides how to
// report the partial result. No rollback is attempted.
func (g *Generator) GenerateAndSync(ctx context.Context, opts RunOptions) (*Run, error) {
	if opts.TrackIndex < 0 {
		return nil, fmt.Errorf("%w: track index must be non-negative, got %d", ErrInvalidRequest, opts.TrackIndex)
	}
	if opts.ClipIndex < 0 {
		return nil, fmt.Errorf("%w: clip index must be non-negative, got %d", ErrInvalidRequest, opts.ClipIndex)
	}

	cfg := g.musical
	if opts.Bars > 0 {
		cfg.Bars = opts.Bars
	}
	if opts.NotesPerBar > 0 {
		cfg.NotesPerBar = opts.NotesPerBar
	}
	if opts.Tempo > 0 {
		cfg.Tempo = opts.Tempo
	}
	if opts.Mode != "" {
		cfg.Mode = opts.Mode
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	runID := uuid.New().String()
	logger.Info("starting generation run", logger.Fields{
		"run_id": runID,
		"track":  opts.TrackIndex,
		"clip":   opts.ClipIndex,
		"bars":   cfg.Bars,
		"mode":   string(cfg.Mode),
	})

	result, err := g.generate(ctx, cfg)
	if err != nil {
		logger.Error("generation failed", err, logger.Fields{"run_id": runID, "track": opts.TrackIndex})
		g.sentry.RecordGenerationRun(ctx, opts.TrackIndex, 0, 0, time.Since(started), err)
		return nil, err
	}

	run := &Run{
		ID: runID,
		Target: models.ClipTarget{
			TrackIndex:  opts.TrackIndex,
			ClipIndex:   opts.ClipIndex,
			LengthBeats: result.TotalBeats,
		},
		Tempo:       cfg.Tempo,
		Mode:        string(cfg.Mode),
		TotalBeats:  result.TotalBeats,
		Progression: result.Progression,
		Notes:       result.Notes,
	}

	if err := g.sync(run, opts.Fire); err != nil {
		logger.Error("clip sync failed, clip may be partially populated", err, logger.Fields{
			"run_id": runID,
			"track":  opts.TrackIndex,
		})
		g.sentry.RecordGenerationRun(ctx, opts.TrackIndex, len(run.Notes), run.TotalBeats, time.Since(started), err)
		return run, err
	}

	g.persist(ctx, run)
	g.sentry.RecordGenerationRun(ctx, opts.TrackIndex, len(run.Notes), run.TotalBeats, time.Since(started), nil)
	logger.Info("generation run complete", logger.Fields{
		"run_id":      runID,
		"track":       opts.TrackIndex,
		"notes":       len(run.Notes),
		"total_beats": run.TotalBeats,
	})
	return run, nil
}

// generate draws the progression and note streams and composes the phrase.
func (g *Generator) generate(ctx context.Context, cfg composer.Config) (*composer.Result, error) {
	progression, err := g.sampler.SampleUniform(ctx, cfg.Bars, len(cfg.Chords))
	if err != nil {
		return nil, fmt.Errorf("sampling progression: %w", err)
	}

	budget := cfg.SlotBudget()
	pitchDraws, err := g.sampler.SampleUniform(ctx, budget, composer.ExtendedChordSize)
	if err != nil {
		return nil, fmt.Errorf("sampling pitches: %w", err)
	}

	var durationDraws []int
	if cfg.Mode == composer.ModeVariableDuration {
		durationDraws, err = g.sampler.SampleUniform(ctx, budget, len(cfg.Durations))
		if err != nil {
			return nil, fmt.Errorf("sampling durations: %w", err)
		}
	}

	return composer.Compose(cfg, progression, pitchDraws, durationDraws)
}

// sync pushes the composed phrase to the control channel in the required
// order: create, clear, add, fire.
func (g *Generator) sync(run *Run, fire bool) error {
	if err := g.clips.CreateClip(run.Target); err != nil {
		return err
	}
	time.Sleep(g.createSettle)

	if err := g.clips.ClearNotes(run.Target); err != nil {
		return err
	}
	if err := g.clips.AddNotes(run.Target, run.Notes); err != nil {
		return err
	}
	time.Sleep(g.fireSettle)

	if fire {
		if err := g.clips.Fire(run.Target); err != nil {
			return err
		}
	}
	return nil
}

// persist stores the run when a database is configured. Storage failures are
// reported but do not fail the run: the clip is already in the session.
func (g *Generator) persist(ctx context.Context, run *Run) {
	if g.db == nil {
		return
	}
	pattern := models.GeneratedPattern{
		ID:          run.ID,
		TrackIndex:  run.Target.TrackIndex,
		ClipIndex:   run.Target.ClipIndex,
		Tempo:       run.Tempo,
		TotalBeats:  run.TotalBeats,
		Mode:        run.Mode,
		Progression: run.Progression,
		Notes:       run.Notes,
	}
	if err := g.db.WithContext(ctx).Create(&pattern).Error; err != nil {
		logger.Error("persisting pattern failed", err, logger.Fields{"run_id": run.ID})
		return
	}
	run.Persisted = true
}
