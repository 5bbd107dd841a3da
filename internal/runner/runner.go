package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/claude/engine/internal/engine"
)

// Runner drives an interval session in a terminal. The one-second ticker
// exists only while the session is running; pause, completion, and context
// cancellation tear it down.
type Runner struct {
	sess *engine.Session
	out  io.Writer
}

func New(sess *engine.Session, out io.Writer) *Runner {
	return &Runner{sess: sess, out: out}
}

// ReadCommands turns an input stream into a command channel, one
// lower-cased word per line. The channel closes when the stream ends.
func ReadCommands(r io.Reader) <-chan string {
	commands := make(chan string)
	go func() {
		defer close(commands)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			cmd := strings.ToLower(strings.TrimSpace(scanner.Text()))
			if cmd != "" {
				commands <- cmd
			}
		}
	}()
	return commands
}

// Run enters the active view and executes the session until it completes,
// is reset, or the context is cancelled. Commands: pause, resume, skip,
// reset, quit.
func (r *Runner) Run(ctx context.Context, commands <-chan string) error {
	var ticker *time.Ticker
	var tick <-chan time.Time

	arm := func() {
		if ticker == nil {
			ticker = time.NewTicker(time.Second)
			tick = ticker.C
		}
	}
	disarm := func() {
		if ticker != nil {
			ticker.Stop()
			ticker = nil
			tick = nil
		}
	}
	defer disarm()

	if err := r.sess.Begin(); err != nil {
		return err
	}
	if err := r.sess.Start(); err != nil {
		return err
	}
	arm()
	r.render()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-tick:
			r.sess.Tick()
			r.render()
			if r.sess.Snapshot().State == engine.StateCompleted {
				disarm()
				fmt.Fprintln(r.out, "workout complete")
				return nil
			}

		case cmd, ok := <-commands:
			if !ok {
				return nil
			}
			switch cmd {
			case "pause", "p":
				r.sess.Pause()
				disarm()
				fmt.Fprintln(r.out, "paused")
			case "resume", "r", "start":
				r.sess.Resume()
				if r.sess.Running() {
					arm()
					r.render()
				}
			case "skip":
				r.sess.SkipToEnd()
				disarm()
				fmt.Fprintln(r.out, "skipped to end")
				return nil
			case "reset":
				r.sess.Reset()
				disarm()
				fmt.Fprintln(r.out, "reset to preview")
				return nil
			case "quit", "q":
				disarm()
				return nil
			default:
				fmt.Fprintf(r.out, "unknown command %q (pause/resume/skip/reset/quit)\n", cmd)
			}
		}
	}
}

func (r *Runner) render() {
	snap := r.sess.Snapshot()
	if snap.Current >= len(snap.Intervals) {
		return
	}
	iv := snap.Intervals[snap.Current]
	phase := "work"
	if snap.State == engine.StateRunningRest {
		phase = "rest"
	}
	fmt.Fprintf(r.out, "[%d/%d] block %d round %d  %s  %s\n",
		snap.Current+1, len(snap.Intervals), iv.BlockNumber, iv.RoundNumber,
		phase, formatClock(snap.Countdown))
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
