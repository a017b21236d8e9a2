package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/esimov/backdrop"
	"github.com/esimov/backdrop/utils"
)

// fileStamp identifies a version of a watched file.
type fileStamp struct {
	mod  int64
	size int64
}

func stat(path string) fileStamp {
	if path == "" || path == pipeName {
		return fileStamp{}
	}
	fi, err := os.Stat(path)
	if err != nil {
		return fileStamp{}
	}
	return fileStamp{mod: fi.ModTime().UnixNano(), size: fi.Size()}
}

// watch re-renders the source each time the source image or the config file
// changes. Renders go through a Scheduler, so a change arriving while a
// render is running supersedes it.
func watch(ctx context.Context, proc *backdrop.Processor, cfg *backdrop.Config, opts *options) error {
	if opts.paste || opts.in == pipeName {
		return errors.New("watch mode needs a source file")
	}
	if opts.out == pipeName {
		return errors.New("watch mode cannot write to stdout")
	}

	sched := backdrop.NewScheduler(proc)
	defer sched.Close()

	var srcStamp, cfgStamp fileStamp
	submit := func() {
		src, err := os.ReadFile(opts.in)
		if err != nil {
			printError(err)
			return
		}
		if opts.config != "" {
			reloaded, err := backdrop.LoadConfig(opts.config)
			if err != nil {
				printError(err)
				return
			}
			cfg = reloaded
		}
		style, err := opts.style(cfg)
		if err != nil {
			printError(err)
			return
		}
		spinner.Start()
		sched.Submit(ctx, src, style)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	fmt.Fprintln(os.Stderr, utils.DecorateText("Watching for changes, press CTRL-C to stop.", utils.StatusMessage))
	for {
		if s, c := stat(opts.in), stat(opts.config); s != srcStamp || c != cfgStamp {
			srcStamp, cfgStamp = s, c
			submit()
		}

		select {
		case <-ctx.Done():
			spinner.Stop()
			return ctx.Err()
		case res := <-sched.Results():
			spinner.Stop()
			if res.Err != nil {
				// The previous output stays in place.
				printError(res.Err)
				continue
			}
			if err := deliver(res.Image, opts); err != nil {
				printError(err)
			}
		case <-ticker.C:
		}
	}
}
