package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/chartlabels/pkg/chart"
	"github.com/matzehuels/chartlabels/pkg/errors"
	"github.com/matzehuels/chartlabels/pkg/labels/layout"
)

// session is one chart with its laid out labels.
type session struct {
	chart   *chart.Chart
	engine  *layout.Engine
	entries []*layout.Entry
	rounds  int
}

// hidden counts entries hidden by overlap resolution or display settings.
func (s *session) hidden() int {
	n := 0
	for _, e := range s.entries {
		if !e.Visible() {
			n++
		}
	}
	return n
}

// layoutChart builds the chart, draws its labels and, unless opts.NoAdjust
// is set, negotiates the padding until labels fit the canvas.
func (r *Runner) layoutChart(ctx context.Context, doc *chart.Document, opts Options) (*session, error) {
	c, err := chart.New(*doc)
	if err != nil {
		return nil, err
	}

	engineOpts := []layout.Option{
		layout.WithLogger(opts.Logger),
		layout.WithContext(ctx),
		layout.WithStallAfter(opts.SettleTimeout),
	}
	if r.Scheduler != nil {
		engineOpts = append(engineOpts, layout.WithScheduler(r.Scheduler))
	}
	engine := layout.New(engineOpts...)

	s := &session{chart: c, engine: engine}
	s.entries = engine.Prepare(c.Labels())

	// Every chart update moves the elements, so labels are recomputed and
	// redrawn from scratch.
	c.OnUpdate(func() {
		engine.Update(s.entries)
		c.BeginFrame()
		engine.Draw(c, s.entries)
	})
	c.BeginFrame()
	engine.Draw(c, s.entries)

	if opts.NoAdjust {
		return s, nil
	}
	defer engine.Forget(c)
	if err := r.negotiate(ctx, s, opts); err != nil {
		return nil, err
	}
	return s, nil
}

// negotiate runs margin negotiation rounds until the padding stops
// changing or opts.MaxRounds is reached.
func (r *Runner) negotiate(ctx context.Context, s *session, opts Options) error {
	deadline := time.NewTimer(opts.SettleTimeout)
	defer deadline.Stop()

	c := s.chart
	for s.rounds < opts.MaxRounds {
		before := c.Options().Padding
		done := make(chan struct{})
		s.engine.AdjustLayout(c, s.entries, func() { close(done) }, 0)
		s.rounds++

		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return errors.New(errors.ErrCodeTimeout, "labels did not settle within %s", opts.SettleTimeout)
		}
		s.engine.ClearAdjusted(c)

		after := c.Options().Padding
		opts.Logger.Debug("negotiation round",
			"chart", c.ID(),
			"round", s.rounds,
			"padding", after)
		if after == before {
			return nil
		}
	}
	opts.Logger.Warn("labels still overshoot after max rounds", "rounds", s.rounds)
	return nil
}
