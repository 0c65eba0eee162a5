package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/urfave/cli/v2"

	"kyber-kem/entropy"
	"kyber-kem/kem"
	"kyber-kem/measureutil"
	"kyber-kem/params"
	"kyber-kem/pke"
	"kyber-kem/prof"
	"kyber-kem/sample"
)

var reportOps = []string{"keygen", "encaps", "decaps"}

// measurements collected for the report page.
type measurements struct {
	Sets    []params.Set
	Stats   map[string]prof.Stat // "<set>/<op>"
	Margins map[string][]int     // per set, one entry per encryption
	CBD     map[int][]int        // eta -> counts for -eta..eta
	Sizes   map[string]uint64    // "<set>/<object>" -> bytes
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "time the KEM, sample decryption noise and render an HTML report",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "runs", Usage: "iterations per parameter set (default from config)"},
			&cli.StringFlag{Name: "out", Usage: "output HTML file (default from config)"},
			&cli.StringFlag{Name: "sets", Value: "all", Usage: "comma-separated parameter sets, or all"},
			seedFlag(64),
		},
		Action: runReport,
	}
}

func runReport(c *cli.Context) error {
	cfg, err := settings(c)
	if err != nil {
		return err
	}
	runs := cfg.Report.Runs
	if c.IsSet("runs") {
		runs = c.Int("runs")
	}
	if runs <= 0 {
		return fmt.Errorf("--runs=%d must be positive", runs)
	}
	out := cfg.Report.Out
	if c.IsSet("out") {
		out = c.String("out")
	}
	sets, err := selectedSets(c.String("sets"))
	if err != nil {
		return err
	}
	rnd, err := randSource(c)
	if err != nil {
		return err
	}
	if rnd == nil {
		rnd = entropy.System()
	}

	m, err := measure(sets, runs, rnd)
	if err != nil {
		return err
	}
	for _, label := range measureutil.Labels(m.Sizes) {
		log.Debug().Str("object", label).Uint64("bytes", m.Sizes[label]).Msg("encoded size")
	}
	if err := writeReport(out, buildPage(m)); err != nil {
		return err
	}
	log.Info().Str("out", out).Int("runs", runs).Int("sets", len(sets)).Msg("report written")
	fmt.Fprintln(c.App.Writer, out)
	return nil
}

// writeReport renders page to path. The Close error is returned since a
// failed flush leaves a truncated page behind.
func writeReport(path string, page *components.Page) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := page.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("render report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func measure(sets []params.Set, runs int, rnd io.Reader) (*measurements, error) {
	m := &measurements{
		Sets:    sets,
		Stats:   map[string]prof.Stat{},
		Margins: map[string][]int{},
		CBD:     map[int][]int{},
	}
	prof.SnapshotAndReset()
	measureutil.SnapshotAndReset()
	for _, ps := range sets {
		if err := timeKEM(ps, runs, rnd); err != nil {
			return nil, err
		}
		margins, err := noiseMargins(ps, runs, rnd)
		if err != nil {
			return nil, err
		}
		m.Margins[ps.Name] = margins
	}
	m.Sizes = measureutil.SnapshotAndReset()
	for _, st := range prof.Summarize(prof.SnapshotAndReset()) {
		m.Stats[st.Label] = st
	}
	for _, eta := range []int{2, 3} {
		h, err := cbdHistogram(eta, 64, rnd)
		if err != nil {
			return nil, err
		}
		m.CBD[eta] = h
	}
	return m, nil
}

func timeKEM(ps params.Set, runs int, rnd io.Reader) error {
	s := kem.Must(ps)
	for i := 0; i < runs; i++ {
		t := time.Now()
		pk, sk, err := s.KeyGen(rnd)
		if err != nil {
			return err
		}
		prof.Track(t, ps.Name+"/keygen")

		t = time.Now()
		ct, ss, err := s.Encapsulate(pk, rnd)
		if err != nil {
			return err
		}
		prof.Track(t, ps.Name+"/encaps")

		t = time.Now()
		ss2, err := s.Decapsulate(sk, ct)
		if err != nil {
			return err
		}
		prof.Track(t, ps.Name+"/decaps")
		if !bytes.Equal(ss, ss2) {
			return fmt.Errorf("%s: shared secrets differ on run %d", ps, i)
		}
		if i == 0 {
			measureutil.Global.Add(ps.Name+"/public_key", len(pk))
			measureutil.Global.Add(ps.Name+"/secret_key", len(sk))
			measureutil.Global.Add(ps.Name+"/ciphertext", len(ct))
		}
	}
	return nil
}

// noiseMargins encrypts random messages under one key and records how far
// each decryption was from failing.
func noiseMargins(ps params.Set, runs int, rnd io.Reader) ([]int, error) {
	buf := make([]byte, 3*params.SymBytes)
	if _, err := io.ReadFull(rnd, buf[:params.SymBytes]); err != nil {
		return nil, err
	}
	pk, sk, err := pke.KeyGen(ps, buf[:params.SymBytes])
	if err != nil {
		return nil, err
	}
	defer sk.Zero()
	out := make([]int, 0, runs)
	for i := 0; i < runs; i++ {
		if _, err := io.ReadFull(rnd, buf); err != nil {
			return nil, err
		}
		msg, coins := buf[params.SymBytes:2*params.SymBytes], buf[2*params.SymBytes:]
		ct, err := pk.Encrypt(msg, coins)
		if err != nil {
			return nil, err
		}
		margin, err := sk.NoiseMargin(ct, msg)
		if err != nil {
			return nil, err
		}
		out = append(out, margin)
	}
	return out, nil
}

func cbdHistogram(eta, polys int, rnd io.Reader) ([]int, error) {
	seed := make([]byte, params.SymBytes)
	if _, err := io.ReadFull(rnd, seed); err != nil {
		return nil, err
	}
	h := make([]int, 2*eta+1)
	for i := 0; i < polys; i++ {
		p := sample.CBD(seed, byte(i), eta)
		for _, c := range p {
			h[int(c)+eta]++
		}
	}
	return h, nil
}

func buildPage(m *measurements) *components.Page {
	page := components.NewPage().SetPageTitle("Kyber KEM report")
	page.AddCharts(timingChart(m), sizeChart(m), marginChart(m), cbdChart(m))
	return page
}

func timingChart(m *measurements) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Mean operation time", Subtitle: "microseconds"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "µs"}),
	)
	bar.SetXAxis(reportOps)
	for _, ps := range m.Sets {
		items := make([]opts.BarData, 0, len(reportOps))
		for _, op := range reportOps {
			st := m.Stats[ps.Name+"/"+op]
			items = append(items, opts.BarData{Value: float64(st.Mean.Nanoseconds()) / 1e3})
		}
		bar.AddSeries(ps.Name, items)
	}
	return bar
}

var sizeObjects = []string{"public_key", "secret_key", "ciphertext"}

func sizeChart(m *measurements) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Encoded sizes", Subtitle: "bytes"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(sizeObjects)
	for _, ps := range m.Sets {
		items := make([]opts.BarData, 0, len(sizeObjects))
		for _, obj := range sizeObjects {
			items = append(items, opts.BarData{Value: m.Sizes[ps.Name+"/"+obj]})
		}
		bar.AddSeries(ps.Name, items)
	}
	return bar
}

func marginChart(m *measurements) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Decryption noise margin",
			Subtitle: fmt.Sprintf("largest coefficient error per ciphertext; decryption fails at %d", (params.Q+3)/4),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
	)
	n := 0
	for _, v := range m.Margins {
		if len(v) > n {
			n = len(v)
		}
	}
	x := make([]int, n)
	for i := range x {
		x[i] = i + 1
	}
	line.SetXAxis(x)
	for _, ps := range m.Sets {
		items := make([]opts.LineData, 0, len(m.Margins[ps.Name]))
		for _, v := range m.Margins[ps.Name] {
			items = append(items, opts.LineData{Value: v})
		}
		line.AddSeries(ps.Name, items)
	}
	return line
}

func cbdChart(m *measurements) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Centered binomial samples"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	const maxEta = 3
	x := make([]string, 0, 2*maxEta+1)
	for v := -maxEta; v <= maxEta; v++ {
		x = append(x, fmt.Sprint(v))
	}
	bar.SetXAxis(x)
	for _, eta := range []int{2, 3} {
		h := m.CBD[eta]
		items := make([]opts.BarData, 0, len(x))
		for v := -maxEta; v <= maxEta; v++ {
			n := 0
			if v >= -eta && v <= eta {
				n = h[v+eta]
			}
			items = append(items, opts.BarData{Value: n})
		}
		bar.AddSeries(fmt.Sprintf("eta=%d", eta), items)
	}
	return bar
}
