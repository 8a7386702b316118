package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/transitviz/internal/audio"
	"github.com/san-kum/transitviz/internal/audio/device"
	"github.com/san-kum/transitviz/internal/config"
	"github.com/san-kum/transitviz/internal/export"
	"github.com/san-kum/transitviz/internal/feed"
	"github.com/san-kum/transitviz/internal/geo"
	"github.com/san-kum/transitviz/internal/gui"
	"github.com/san-kum/transitviz/internal/logging"
	"github.com/san-kum/transitviz/internal/piano"
	"github.com/san-kum/transitviz/internal/storage"
	"github.com/san-kum/transitviz/internal/traversal"
	"github.com/san-kum/transitviz/internal/viz"
)

var (
	configFile string
	preset     string
	dataDir    string
	exportDir  string
	feedSource string
	startStop  string
	tripID     string
	batch      int
	width      float64
	height     float64
	frameRate  int
	theme      string
	notesPath  string
	music      bool
	mute       bool
	logLevel   string
	logFormat  string
	// live view only
	cols    int
	rows    int
	gifPath string
	// notes command
	play bool
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "transitviz",
		Short:         "transit feed visualizer",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runDefault,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&exportDir, "export", config.DefaultExportDir, "export directory")
	pf.StringVar(&feedSource, "feed", config.DefaultFeedURL, "GTFS zip, directory or URL")
	pf.StringVar(&startStop, "start", config.DefaultStartStop, "start stop id")
	pf.StringVar(&tripID, "trip", config.DefaultTripID, "trip id")
	pf.IntVar(&batch, "batch", config.DefaultBatch, "stops revealed per frame")
	pf.Float64Var(&width, "width", config.DefaultCanvas, "canvas width")
	pf.Float64Var(&height, "height", config.DefaultCanvas, "canvas height")
	pf.IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	pf.StringVar(&theme, "theme", "night", "terminal theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	pf.StringVar(&notesPath, "notes", "", "notes table (csv name,freq)")
	pf.BoolVar(&music, "music", false, "queue every stop's chord when the audio view starts")
	pf.BoolVar(&mute, "mute", false, "disable audio output")
	pf.StringVar(&logLevel, "log-level", "info", "log level")
	pf.StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	liveCmd := &cobra.Command{
		Use:   "live [kind]",
		Short: "terminal view (" + strings.Join(viz.KindNames(), ", ") + ")",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&cols, "cols", 0, "canvas columns (0 = 80)")
	liveCmd.Flags().IntVar(&rows, "rows", 0, "canvas rows (0 = 24)")
	liveCmd.Flags().StringVar(&gifPath, "gif", "", "GIF output path")

	guiCmd := &cobra.Command{
		Use:   "gui [kind]",
		Short: "window view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "headless stops traversal, saved as a run",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot reveal distance per stop",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run order to CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [trip_id]",
		Short: "write a trip drawing as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}

	boundsCmd := &cobra.Command{
		Use:   "bounds [trip_id]",
		Short: "print boundary box and draw size",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printBounds,
	}

	notesCmd := &cobra.Command{
		Use:   "notes [stop_id]",
		Short: "print the keys a stop name maps to",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printNotes,
	}
	notesCmd.Flags().BoolVar(&play, "play", false, "play the chord")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKIND\tSTART\tBATCH\tFEED")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", name, p.View.Kind, p.Stops.Start, p.Stops.Batch, p.Feed.Source)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(liveCmd, guiCmd, runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, boundsCmd, notesCmd, presetsCmd)
	return rootCmd
}

func main() {
	rootCmd := newRootCmd()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// resolveConfig layers defaults, preset, config file and changed flags, in
// that order, then installs the logger.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	// config file overrides preset
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	applyFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	viz.SetTheme(cfg.View.Theme)
	return cfg, nil
}

// applyFlags copies every flag the user set onto cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("data") {
		cfg.DataDir = dataDir
	}
	if changed("export") {
		cfg.ExportDir = exportDir
	}
	if changed("feed") {
		cfg.Feed.Source = feedSource
	}
	if changed("start") {
		cfg.Stops.Start = startStop
	}
	if changed("trip") {
		cfg.Trips.TripID = tripID
	}
	if changed("batch") {
		cfg.Stops.Batch = batch
	}
	if changed("width") {
		cfg.Canvas.Width = width
	}
	if changed("height") {
		cfg.Canvas.Height = height
	}
	if changed("fps") {
		cfg.View.FPS = frameRate
	}
	if changed("theme") {
		cfg.View.Theme = theme
	}
	if changed("notes") {
		cfg.Audio.Notes = notesPath
	}
	if changed("music") {
		cfg.Audio.Music = music
	}
	if changed("mute") {
		cfg.Audio.Enabled = !mute
	}
	if changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if changed("cols") {
		cfg.View.Cols = cols
	}
	if changed("rows") {
		cfg.View.Rows = rows
	}
}

// session holds what every view command loads: the feed, the keyboard and,
// when wanted, a running audio output.
type session struct {
	cfg      *config.Config
	feed     *feed.Feed
	keyboard *piano.Keyboard
	output   *device.Output
}

func openSession(ctx context.Context, cfg *config.Config, withAudio bool) (*session, error) {
	f, err := feed.Load(ctx, cfg.Feed.Source)
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	kb, err := piano.LoadKeyboard(cfg.Audio.Notes)
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	s := &session{cfg: cfg, feed: f, keyboard: kb}

	if withAudio && cfg.Audio.Enabled {
		out := device.NewOutput(audio.NewSynth(audio.SampleRate))
		if err := out.Start(); err != nil {
			slog.Warn("continuing without sound", "err", err)
		} else {
			s.output = out
		}
	}
	return s, nil
}

func (s *session) Close() {
	if s.output != nil {
		s.output.Stop()
	}
}

func (s *session) player() audio.Player {
	if s.output == nil {
		return audio.Silent{}
	}
	return s.output.Synth
}

func (s *session) synth() *audio.Synth {
	if s.output == nil {
		return nil
	}
	return s.output.Synth
}

func (s *session) deps() viz.Deps {
	return viz.Deps{
		Feed:         s.feed,
		CanvasWidth:  s.cfg.Canvas.Width,
		CanvasHeight: s.cfg.Canvas.Height,
		StartStop:    s.cfg.Stops.Start,
		Batch:        s.cfg.Stops.Batch,
		TripID:       s.cfg.Trips.TripID,
		Keyboard:     s.keyboard,
		Player:       s.player(),
		Music:        s.cfg.Audio.Music,
	}
}

// build returns an initialized visualization of kind.
func (s *session) build(kind viz.Kind) (viz.Visualization, error) {
	vis, err := viz.New(kind, s.deps())
	if err != nil {
		return nil, err
	}
	if err := vis.Init(); err != nil {
		return nil, describe(err)
	}
	return vis, nil
}

// startError words a missing start stop for the command line and keeps
// the traversal error in the chain.
type startError struct {
	err *traversal.NotFoundError
}

func (e *startError) Error() string { return fmt.Sprintf("start stop %q not found", e.err.ID) }

func (e *startError) Unwrap() error { return e.err }

// describe rewrites errors that have a friendlier CLI wording.
func describe(err error) error {
	var nf *traversal.NotFoundError
	if errors.As(err, &nf) {
		return &startError{err: nf}
	}
	return err
}

func kindArg(cfg *config.Config, args []string) (viz.Kind, error) {
	name := cfg.View.Kind
	if len(args) > 0 {
		name = args[0]
	}
	return viz.ParseKind(name)
}

func guiOptions(s *session) gui.Options {
	return gui.Options{
		Width:         int32(s.cfg.Canvas.Width),
		Height:        int32(s.cfg.Canvas.Height),
		FPS:           int32(s.cfg.View.FPS),
		ScreenshotDir: s.cfg.ExportDir,
		HUD:           true,
		Output:        s.output,
	}
}

func runDefault(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	kind, err := kindArg(cfg, nil)
	if err != nil {
		return err
	}
	s, err := openSession(cmd.Context(), cfg, kind == viz.KindAudio)
	if err != nil {
		return err
	}
	defer s.Close()
	return gui.Run(kind, s.build, guiOptions(s))
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		s, err := openSession(cmd.Context(), cfg, true)
		if err != nil {
			return err
		}
		defer s.Close()
		return gui.RunInteractive(s.build, guiOptions(s))
	}

	kind, err := viz.ParseKind(args[0])
	if err != nil {
		return err
	}
	s, err := openSession(cmd.Context(), cfg, kind == viz.KindAudio)
	if err != nil {
		return err
	}
	defer s.Close()
	return gui.Run(kind, s.build, guiOptions(s))
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	opts := viz.Options{
		Cols:    cfg.View.Cols,
		Rows:    cfg.View.Rows,
		FPS:     cfg.View.FPS,
		GIFPath: gifPath,
	}

	if len(args) == 0 {
		s, err := openSession(cmd.Context(), cfg, true)
		if err != nil {
			return err
		}
		defer s.Close()
		opts.Synth = s.synth()
		return viz.RunMenu(s.build, opts)
	}

	kind, err := viz.ParseKind(args[0])
	if err != nil {
		return err
	}
	s, err := openSession(cmd.Context(), cfg, kind == viz.KindAudio)
	if err != nil {
		return err
	}
	defer s.Close()

	vis, err := s.build(kind)
	if err != nil {
		return err
	}
	opts.Synth = s.synth()
	if opts.GIFPath == "" {
		opts.GIFPath = filepath.Join(cfg.ExportDir, kind.String()+".gif")
	}
	return viz.Run(kind, vis, opts)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openSession(cmd.Context(), cfg, false)
	if err != nil {
		return err
	}
	defer s.Close()

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	vis, err := s.build(viz.KindStops)
	if err != nil {
		return err
	}
	stops := vis.(*viz.StopsViz)

	fmt.Printf("traversing %d stops from %s...\n", stops.Engine().Len(), cfg.Stops.Start)
	start := time.Now()
	if err := traverse(cmd.Context(), stops); err != nil {
		return err
	}
	elapsed := time.Since(start)

	order := stops.Order()
	meta := runMetadata(cfg, stops, elapsed)
	runID, err := st.Save(meta, storage.VisitsFromItems(order, cfg.Stops.Batch))
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", stops.Engine().Steps())
	fmt.Printf("stops revealed: %d\n", len(order))
	if n := len(order); n > 0 {
		fmt.Printf("farthest: %s (%.6f)\n", order[n-1].ID, order[n-1].Distance)
	}
	return nil
}

// traverse ticks stops until the traversal is exhausted.
func traverse(ctx context.Context, stops *viz.StopsViz) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		done, err := stops.Tick()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func runMetadata(cfg *config.Config, stops *viz.StopsViz, elapsed time.Duration) storage.RunMetadata {
	return storage.RunMetadata{
		Preset:     cfg.Preset,
		FeedSource: cfg.Feed.Source,
		StartStop:  cfg.Stops.Start,
		Batch:      cfg.Stops.Batch,
		StopCount:  stops.Engine().Len(),
		Steps:      stops.Engine().Steps(),
		Elapsed:    elapsed,
		Projection: stops.Projection(),
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSTART\tSTOPS\tBATCH\tSTEPS\tELAPSED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%v\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.StartStop,
			run.StopCount,
			run.Batch,
			run.Steps,
			run.Elapsed.Round(time.Millisecond),
		)
	}
	return w.Flush()
}

// loadRun resolves args[0], or the newest run when no id is given.
func loadRun(st *storage.Store, args []string) (*storage.RunMetadata, []storage.Visit, error) {
	var (
		meta *storage.RunMetadata
		err  error
	)
	if len(args) > 0 {
		meta, err = st.Load(args[0])
	} else {
		meta, err = st.Latest()
	}
	if err != nil {
		return nil, nil, err
	}
	visits, err := st.LoadOrder(meta.ID)
	if err != nil {
		return nil, nil, err
	}
	return meta, visits, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	meta, visits, err := loadRun(storage.New(cfg.DataDir), args)
	if err != nil {
		return err
	}
	if len(visits) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("start: %s\n", meta.StartStop)
	fmt.Printf("stops: %d\n\n", len(visits))

	graph := asciigraph.Plot(storage.Distances(visits),
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("distance from start, in reveal order"),
	)
	fmt.Println(graph)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	meta, visits, err := loadRun(storage.New(cfg.DataDir), args)
	if err != nil {
		return err
	}
	path := filepath.Join(cfg.ExportDir, meta.ID+".csv")
	if err := os.MkdirAll(cfg.ExportDir, 0755); err != nil {
		return err
	}
	if err := storage.ExportCSV(path, visits); err != nil {
		return err
	}
	fmt.Printf("exported %d rows to %s\n", len(visits), path)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	meta, visits, err := loadRun(storage.New(cfg.DataDir), args)
	if err != nil {
		return err
	}
	path := filepath.Join(cfg.ExportDir, meta.ID+".json")
	if err := os.MkdirAll(cfg.ExportDir, 0755); err != nil {
		return err
	}
	if err := storage.ExportJSON(path, *meta, visits); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Trips.TripID = args[0]
	}
	s, err := openSession(cmd.Context(), cfg, false)
	if err != nil {
		return err
	}
	defer s.Close()

	vis, err := s.build(viz.KindTrips)
	if err != nil {
		return err
	}
	if _, err := vis.Tick(); err != nil {
		return err
	}

	path := export.TripPath(cfg.ExportDir, cfg.Trips.TripID)
	if err := export.WriteFile(path, export.FrameToSVG(vis.Frame())); err != nil {
		return err
	}
	fmt.Printf("trip %s: %s\n", cfg.Trips.TripID, vis.(*viz.TripsViz).Caption())
	fmt.Printf("wrote %s\n", path)
	return nil
}

func printBounds(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	f, err := feed.Load(cmd.Context(), cfg.Feed.Source)
	if err != nil {
		return fmt.Errorf("load feed: %w", err)
	}

	subject := "all stops"
	var pts []geo.Point
	if len(args) > 0 {
		stops, err := f.TripStops(args[0])
		if err != nil {
			return err
		}
		pts = feed.Points(stops)
		subject = "trip " + args[0]
	} else {
		pts = feed.Points(f.LocatedStops())
	}

	if len(pts) == 0 {
		return fmt.Errorf("%w: %s", feed.ErrNoStops, subject)
	}
	box := geo.ComputeBoundary(pts)
	fmt.Printf("%s: %d points\n", subject, len(pts))
	fmt.Printf("box: %s\n", box)

	w, h, err := geo.CanvasSize(box, cfg.Canvas.Width, cfg.Canvas.Height)
	if errors.Is(err, geo.ErrDegenerateGeometry) {
		w, h = geo.CanvasSizeWithScale(box, geo.FallbackScale)
		fmt.Printf("degenerate boundary, fallback scale %.1f\n", geo.FallbackScale)
	} else if err != nil {
		return err
	}
	fmt.Printf("draw size: %.2f x %.2f on %.0f x %.0f canvas\n", w, h, cfg.Canvas.Width, cfg.Canvas.Height)
	return nil
}

func printNotes(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	id := cfg.Stops.Start
	if len(args) > 0 {
		id = args[0]
	}
	s, err := openSession(cmd.Context(), cfg, play)
	if err != nil {
		return err
	}
	defer s.Close()

	stop, err := s.feed.Stop(id)
	if err != nil {
		return err
	}
	keys := piano.KeysForName(stop.Name)
	notes := s.keyboard.Notes(keys)

	fmt.Printf("%s %s\n", stop.ID, stop.Name)
	for _, n := range notes {
		fmt.Printf("  %s\n", n)
	}

	if play && s.output != nil {
		s.output.Synth.Press(notes, audio.MusicDuration*4, audio.PressAmp)
		time.Sleep(audio.MusicDuration * 5)
	}
	return nil
}
