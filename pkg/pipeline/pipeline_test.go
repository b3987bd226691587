package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/chartlabels/pkg/cache"
	"github.com/matzehuels/chartlabels/pkg/chart"
	"github.com/matzehuels/chartlabels/pkg/errors"
	"github.com/matzehuels/chartlabels/pkg/geom"
	"github.com/matzehuels/chartlabels/pkg/labels/layout"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"pdf", false},
		{"json", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %q", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "pdf"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no input", Options{}, errors.ErrCodeInvalidInput},
		{"negative rounds", Options{Path: "a.json", MaxRounds: -1}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Path: "a.json", Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad background", Options{Path: "a.json", Background: "#12"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}

	opts := Options{Path: "a.json"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.MaxRounds != DefaultMaxRounds || opts.SettleTimeout != DefaultSettleTimeout || opts.Logger == nil {
		t.Errorf("defaults not applied: %+v", opts)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{EmbedFont: true, Debug: true}
	if !opts.ArtifactKeyOpts(FormatSVG).EmbedFont {
		t.Error("svg key should carry EmbedFont")
	}
	if opts.ArtifactKeyOpts(FormatPDF).EmbedFont {
		t.Error("pdf key should ignore EmbedFont, the font is always embedded")
	}
}

func vals(vs ...float64) []*float64 {
	out := make([]*float64, len(vs))
	for i := range vs {
		out[i] = &vs[i]
	}
	return out
}

// topLabels returns a bar chart whose tallest label sits above the canvas
// until the top padding grows.
func topLabels() *chart.Document {
	zero := 0
	return &chart.Document{
		Type:      chart.TypeBar,
		Labels:    []string{"Q1", "Q2"},
		Datasets:  []chart.Dataset{{Label: "sales", Data: vals(10, 20)}},
		Animation: chart.Animation{Duration: &zero},
		Plugin: chart.LabelsConfig{LabelConfig: chart.LabelConfig{
			Anchor: "end",
			Align:  "top",
		}},
	}
}

func TestHashDocument(t *testing.T) {
	a, err := HashDocument(*topLabels())
	if err != nil {
		t.Fatal(err)
	}
	explicit := topLabels()
	explicit.Width, explicit.Height = chart.DefaultWidth, chart.DefaultHeight
	b, _ := HashDocument(*explicit)
	if a != b {
		t.Error("spelled out defaults should not change the hash")
	}

	other := topLabels()
	other.Title = "changed"
	c, _ := HashDocument(*other)
	if a == c {
		t.Error("different documents should hash differently")
	}
}

func TestExecuteNegotiatesPadding(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Document: topLabels(),
		Formats:  []string{FormatSVG, FormatJSON, FormatPDF},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	for _, f := range []string{FormatSVG, FormatJSON, FormatPDF} {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("missing %s artifact", f)
		}
	}
	if res.Stats.Labels != 2 || res.Stats.Hidden != 0 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.Stats.Rounds < 2 {
		t.Errorf("rounds = %d, want a growing round and a settled one", res.Stats.Rounds)
	}
	if res.Chart.Options().Padding.Top <= 0 {
		t.Errorf("top padding = %v, want growth", res.Chart.Options().Padding)
	}
	for _, p := range res.Placements.Labels {
		if p.Box == nil {
			t.Fatalf("placement %d/%d has no box", p.Set, p.Index)
		}
		if p.Box.Y < 0 {
			t.Errorf("label %d/%d still above the canvas: %+v", p.Set, p.Index, *p.Box)
		}
	}
}

func TestExecuteNoAdjust(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{Document: topLabels(), NoAdjust: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.Rounds != 0 {
		t.Errorf("rounds = %d, want 0", res.Stats.Rounds)
	}
	if res.Chart.Options().Padding.Any() {
		t.Errorf("padding = %+v, want untouched", res.Chart.Options().Padding)
	}
}

func TestExecuteCachesArtifacts(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	ctx := context.Background()
	opts := Options{Document: topLabels(), Formats: []string{FormatSVG}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheHit {
		t.Error("first run should miss")
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheHit || second.Chart != nil {
		t.Errorf("second run should come from cache: %+v", second)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached artifact differs")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if third.CacheHit {
		t.Error("refresh should skip the cache")
	}
}

func TestExecuteFromPath(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Path: filepath.Join(t.TempDir(), "missing.yaml")})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

// stalledScheduler never fires.
type stalledScheduler struct{}

type stalledTimer struct{}

func (stalledTimer) Stop() bool { return true }

func (stalledScheduler) AfterFunc(time.Duration, func()) layout.Timer { return stalledTimer{} }

func TestExecuteSettleTimeout(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	r.Scheduler = stalledScheduler{}

	_, err := r.Execute(context.Background(), Options{
		Document:      topLabels(),
		SettleTimeout: 20 * time.Millisecond,
	})
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("err = %v, want TIMEOUT", err)
	}
}

func TestExecuteCanceled(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	r.Scheduler = stalledScheduler{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Execute(ctx, Options{Document: topLabels()})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLookup(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()
	opts := Options{Document: topLabels()}

	_, placements, err := r.Placements(ctx, opts)
	if err != nil {
		t.Fatalf("Placements: %v", err)
	}
	want := placements.Find(0, 1)
	if want == nil || want.Center == nil {
		t.Fatalf("placement 0/1 = %+v", want)
	}

	got, err := r.Lookup(ctx, opts, *want.Center)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got.Set != 0 || got.Index != 1 || got.Text != "20" {
		t.Errorf("Lookup = %+v, want label 0/1", got)
	}

	_, err = r.Lookup(ctx, opts, geom.Point{X: -50, Y: -50})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("miss err = %v, want NOT_FOUND", err)
	}
}

func TestLayoutQueriesRepeatedly(t *testing.T) {
	l, err := NewRunner(nil, nil, nil).Layout(context.Background(), Options{Document: topLabels()})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if l.Chart() == nil || l.Rounds < 1 {
		t.Fatalf("layout = %+v", l)
	}
	for _, p := range l.Placements.Labels {
		if !p.Visible {
			continue
		}
		for i := 0; i < 3; i++ {
			got := l.Lookup(*p.Center)
			if got == nil || got.Set != p.Set || got.Index != p.Index {
				t.Errorf("Lookup(%v) = %+v, want %d/%d", *p.Center, got, p.Set, p.Index)
			}
		}
	}
}
