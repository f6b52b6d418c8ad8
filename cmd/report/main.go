// Command report computes one report from local GPS and RPE exports and
// prints it as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/askoki/orijent-soccer-analytics/internal/adapters/source"
	service "github.com/askoki/orijent-soccer-analytics/internal/app"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/names"
	"github.com/askoki/orijent-soccer-analytics/pkg/logger"
	"github.com/askoki/orijent-soccer-analytics/pkg/metrics"
)

// Report kinds accepted by -kind.
const (
	kindSession    = "session"
	kindAthlete    = "athlete"
	kindTeam       = "team"
	kindRelative   = "relative"
	kindRPESession = "rpe-session"
	kindRPETeam    = "rpe-team"
	kindTeamExport = "team-export"
)

var kinds = []string{kindSession, kindAthlete, kindTeam, kindRelative, kindRPESession, kindRPETeam, kindTeamExport}

type options struct {
	gpsPath, rpePath string
	kind             string
	athlete          string
	date, start, end model.Date
	rpeOffset        time.Duration
	window, topN     int
	output           string
}

func main() {
	var (
		gpsPath   = flag.String("gps", "data/gps.csv", "GPS session export (CSV)")
		rpePath   = flag.String("rpe", "data/rpe.csv", "RPE questionnaire responses (CSV)")
		kind      = flag.String("kind", kindTeam, "Report kind: "+strings.Join(kinds, "|"))
		athlete   = flag.String("athlete", "", "Athlete name for athlete and relative reports")
		date      = flag.String("date", "", "Session date YYYY-MM-DD (default: latest)")
		start     = flag.String("start", "", "Window start YYYY-MM-DD (default: catalog window)")
		end       = flag.String("end", "", "Window end YYYY-MM-DD (default: latest date)")
		rpeOffset = flag.Int("rpe-offset", 1, "Hours added to questionnaire submission times")
		window    = flag.Int("window", 7, "Session dates the default window reaches back")
		topN      = flag.Int("top", 5, "Top values averaged into the relative reference")
		output    = flag.String("o", "", "Output file (default: stdout)")
		verbose   = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	if err := logger.Init(logger.WithOutput(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	// Nothing scrapes a one-shot run.
	metrics.SetEnabled(false)
	if *verbose {
		_ = logger.SetLevelString("debug")
	} else {
		_ = logger.SetLevelString("warn")
	}

	opts := options{
		gpsPath:   *gpsPath,
		rpePath:   *rpePath,
		kind:      *kind,
		athlete:   names.Normalize(*athlete),
		rpeOffset: time.Duration(*rpeOffset) * time.Hour,
		window:    *window,
		topN:      *topN,
		output:    *output,
	}
	var err error
	for _, d := range []struct {
		raw string
		dst *model.Date
	}{{*date, &opts.date}, {*start, &opts.start}, {*end, &opts.end}} {
		if d.raw == "" {
			continue
		}
		if *d.dst, err = model.ParseDate(d.raw); err != nil {
			fail(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := io.Writer(os.Stdout)
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			fail(err)
		}
		defer f.Close()
		out = f
	}
	if err := run(ctx, opts, out); err != nil {
		stop()
		fail(err)
	}
}

func fail(err error) {
	os.Stderr.WriteString("report: " + err.Error() + "\n")
	os.Exit(1)
}

// run loads both files, computes the requested report and writes it to out.
func run(ctx context.Context, o options, out io.Writer) error {
	svc := service.New(
		service.WithSource(source.Pair{
			GPS: source.FileGPS{Path: o.gpsPath},
			RPE: source.FileRPE{Path: o.rpePath, Offset: o.rpeOffset},
		}),
		service.WithWindowSessions(o.window),
		service.WithReferenceTopN(o.topN),
		service.WithLogger(logger.Get().Named("report")),
	)
	if err := svc.Refresh(ctx); err != nil {
		return err
	}

	var (
		rep any
		err error
	)
	switch o.kind {
	case kindSession:
		rep, err = svc.SessionReport(ctx, o.date)
	case kindAthlete:
		if o.athlete == "" {
			return fmt.Errorf("-athlete is required for the %s report", o.kind)
		}
		rep, err = svc.AthleteTrend(ctx, o.athlete, o.start, o.end)
	case kindTeam:
		rep, err = svc.TeamTrend(ctx, o.start, o.end)
	case kindRelative:
		rep, err = svc.RelativeReport(ctx, o.athlete, o.start, o.end)
	case kindRPESession:
		rep, err = svc.RPESessionReport(ctx, o.date)
	case kindRPETeam:
		rep, err = svc.RPETeamReport(ctx, o.start, o.end)
	case kindTeamExport:
		data, err := svc.TeamExport(ctx, o.start, o.end)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	default:
		return fmt.Errorf("unknown report kind %q (want %s)", o.kind, strings.Join(kinds, "|"))
	}
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
