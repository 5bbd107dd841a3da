package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/claude/engine/internal/engine"
	"github.com/claude/engine/internal/runner"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "engine server URL (e.g. https://engine.tail1234.ts.net)")
	apiKey := flag.String("api-key", os.Getenv("ENGINE_AUTH_API_KEY"), "API key for write endpoints")
	day := flag.Int("day", 0, "program day number to run")
	modality := flag.String("modality", "", "equipment modality (defaults to the last one used)")
	unit := flag.String("unit", "", "output unit (defaults to the last one used, then calories)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("engine-session", Version)
		return
	}

	if *serverURL == "" || *day == 0 {
		fmt.Fprintf(os.Stderr, "Usage: engine-session -server <URL> -day <N> [-modality <name>] [-unit <unit>]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	*serverURL = strings.TrimRight(*serverURL, "/")

	if err := run(*serverURL, *apiKey, *day, *modality, *unit); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(serverURL, apiKey string, day int, modality, unit string) error {
	client := runner.NewClient(serverURL, apiKey)

	// Missing selections default to whatever equipment was used last.
	if modality == "" || unit == "" {
		pref, err := client.FetchLastPreference()
		if err != nil {
			return err
		}
		if pref != nil {
			if modality == "" {
				modality = pref.Modality
				fmt.Printf("using last modality: %s\n", modality)
			}
			if unit == "" {
				unit = pref.Units
			}
		}
	}
	if modality == "" {
		return fmt.Errorf("no modality given and none used before: pass -modality")
	}
	if unit == "" {
		unit = "calories"
	}

	plan, err := client.FetchPlan(day, modality, unit)
	if err != nil {
		return err
	}

	printPreview(plan)

	sess := engine.NewSession(*plan.Workout)
	sess.SelectModality(modality, unit)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Println("type 'start' to begin (commands: pause, resume, skip, reset, quit)")
	commands := runner.ReadCommands(os.Stdin)
	if _, ok := <-commands; !ok {
		return nil
	}

	r := runner.New(sess, os.Stdout)
	if err := r.Run(ctx, commands); err != nil {
		return err
	}

	snap := sess.Snapshot()
	if snap.State != engine.StateCompleted {
		fmt.Println("session not completed, nothing to save")
		return nil
	}

	sub, err := promptCompletion(commands, day, modality, unit)
	if err != nil {
		return err
	}
	if sub == nil {
		sess.Discard()
		fmt.Println("discarded")
		return nil
	}

	// Local preview through the same evaluation the server runs. The
	// server's rolling model may still adjust the target it persists.
	sess.SetCompletionInput(engine.CompletionInput{
		TotalOutput:    sub.TotalOutput,
		AvgHeartRate:   sub.AvgHeartRate,
		PeakHeartRate:  sub.PeakHeartRate,
		PerceivedExert: sub.PerceivedExert,
	})
	preview, err := sess.Evaluate(plan.Baseline, nil, 0, sub.Date)
	if err != nil {
		return err
	}
	fmt.Printf("preview: pace %.2f", preview.ActualPace)
	if preview.TargetPace != nil {
		fmt.Printf(" (target %.2f)", *preview.TargetPace)
	}
	fmt.Println()

	// The journal keeps a crash between submit and exit from double-posting
	// on the next run.
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}
	journal, err := runner.OpenJournal(filepath.Join(homeDir, ".engine-session"))
	if err != nil {
		return err
	}
	defer journal.Close()

	done, err := journal.IsSubmitted(*sub)
	if err != nil {
		return err
	}
	if done {
		fmt.Println("this session was already submitted, skipping")
		return nil
	}

	result, err := client.SubmitSession(*sub)
	if err != nil {
		return err
	}
	if err := journal.MarkSubmitted(*sub); err != nil {
		return fmt.Errorf("recording submission: %w", err)
	}

	fmt.Printf("saved: pace %.2f", result.ActualPace)
	if result.PerformanceRatio != nil {
		fmt.Printf(", ratio %.2f", *result.PerformanceRatio)
	}
	fmt.Println()
	return nil
}

func printPreview(plan *runner.Plan) {
	def := plan.Workout
	fmt.Printf("day %d: %s (%d intervals, %s work / %s rest)\n",
		def.DayNumber, def.DayType.DisplayName(), len(plan.Intervals),
		clock(plan.TotalWorkSeconds), clock(plan.TotalRestSeconds))

	if plan.Baseline == nil {
		fmt.Println("no baseline yet: record a time trial to unlock pacing targets")
	} else if plan.AverageTargetPace != nil {
		fmt.Printf("baseline %.1f/min, average target %.1f/min\n",
			plan.Baseline.Pace, *plan.AverageTargetPace)
	}

	for _, iv := range plan.Intervals {
		line := fmt.Sprintf("  %2d. %s work", iv.ID, clock(iv.Duration))
		if iv.RestDuration > 0 {
			line += fmt.Sprintf(" / %s rest", clock(iv.RestDuration))
		}
		if iv.Target.MaxEffort {
			line += "  MAX EFFORT"
			if iv.Target.Pace > 0 {
				line += fmt.Sprintf(" (best: %.1f/min)", iv.Target.Pace)
			}
		} else if iv.Target.Pace > 0 {
			line += fmt.Sprintf("  target %.1f/min (%d)", iv.Target.Pace, iv.Target.ExpectedOutput)
		}
		fmt.Println(line)
	}
}

// promptCompletion collects completion numbers over the same command
// channel the session ran on. Returns nil when the user discards.
func promptCompletion(commands <-chan string, day int, modality, unit string) (*runner.Submission, error) {
	output, err := promptFloat(commands, fmt.Sprintf("total output (%s, or 'discard'): ", unit))
	if err != nil || output == nil {
		return nil, err
	}

	avgHR, err := promptFloat(commands, "average heart rate ('skip' to omit): ")
	if err != nil {
		return nil, err
	}
	peakHR, err := promptFloat(commands, "peak heart rate ('skip' to omit): ")
	if err != nil {
		return nil, err
	}
	rpe, err := promptFloat(commands, "perceived exertion 1-10 ('skip' to omit): ")
	if err != nil {
		return nil, err
	}

	sub := &runner.Submission{
		ProgramDay:  day,
		Modality:    modality,
		Units:       unit,
		Date:        time.Now(),
		TotalOutput: *output,
	}
	if avgHR != nil {
		sub.AvgHeartRate = *avgHR
	}
	if peakHR != nil {
		sub.PeakHeartRate = *peakHR
	}
	if rpe != nil {
		sub.PerceivedExert = int(*rpe)
	}
	return sub, nil
}

// promptFloat reads one numeric answer from the command channel. 'skip'
// and 'discard' return nil without error, as does a closed channel.
func promptFloat(commands <-chan string, prompt string) (*float64, error) {
	for {
		fmt.Print(prompt)
		line, ok := <-commands
		if !ok || line == "skip" || line == "discard" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			fmt.Printf("not a number: %q\n", line)
			continue
		}
		return &v, nil
	}
}

func clock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
