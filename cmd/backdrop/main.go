package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/esimov/backdrop"
	"github.com/esimov/backdrop/export"
	"github.com/esimov/backdrop/utils"
	"golang.org/x/term"
)

const HelpBanner = `
┌┐ ┌─┐┌─┐┬┌─┌┬┐┬─┐┌─┐┌─┐
├┴┐├─┤│  ├┴┐ ││├┬┘│ │├─┘
└─┘┴ ┴└─┘┴ ┴─┴┘┴└─└─┘┴

Screenshot decorator: padding, rounded corners, backgrounds and drop shadows.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// pollInterval is the delay between two checks of the watched files.
const pollInterval = 300 * time.Millisecond

// Version indicates the current build version.
var Version string

// spinner used to instantiate and call the progress indicator.
var spinner *utils.Spinner

func main() {
	log.SetFlags(0)
	utils.SetColorOutput(term.IsTerminal(int(os.Stderr.Fd())))

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf(utils.DecorateText("Invalid arguments: %v", utils.ErrorMessage), err)
	}

	if opts.verbose {
		backdrop.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := backdrop.LoadConfig(opts.config)
	if err != nil {
		log.Fatalf(utils.DecorateText("Failed to load the configuration: %v", utils.ErrorMessage), err)
	}

	if opts.listPresets {
		printPresets(os.Stdout, cfg)
		return
	}

	style, err := opts.style(cfg)
	if err != nil {
		log.Fatalf(utils.DecorateText("Invalid decoration parameters: %v", utils.ErrorMessage), err)
	}
	if opts.out == "" && opts.download == "" && !opts.copy {
		flag.Usage()
		log.Fatal(utils.DecorateText("\nPlease provide an output: -out, -download or -copy!", utils.ErrorMessage))
	}

	proc := &backdrop.Processor{}
	if opts.shapeShadow {
		proc.ShadowMode = backdrop.ShadowModeAlwaysShape
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("▣ BACKDROP", utils.StatusMessage),
		utils.DecorateText("is decorating the image...", utils.DefaultMessage))
	spinner = utils.NewSpinner(spinnerText, time.Millisecond*100, true)
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		spinner.SetWriter(io.Discard)
	}

	if opts.watch {
		if err := watch(ctx, proc, cfg, opts); err != nil && !errors.Is(err, context.Canceled) {
			spinner.RestoreCursor()
			log.Fatalf(utils.DecorateText("Watch mode stopped: %v", utils.ErrorMessage), err)
		}
		return
	}

	now := time.Now()
	src, err := readSource(opts, export.SystemBoard())
	if err != nil {
		log.Fatalf(utils.DecorateText("Failed to load the source image: %v", utils.ErrorMessage), err)
	}

	spinner.Start()
	img, err := proc.Render(ctx, src, style)
	spinner.StopMsg = fmt.Sprintf("%s %s",
		utils.DecorateText("▣ BACKDROP", utils.StatusMessage),
		utils.DecorateText("is decorating the image... ✔", utils.DefaultMessage))
	spinner.Stop()

	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if err := deliver(img, opts); err != nil {
		printError(err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
}

// readSource reads the source image from the clipboard, a file or the stdin pipe.
func readSource(opts *options, board export.Board) ([]byte, error) {
	if opts.paste {
		return export.NewClipboard(board).Paste()
	}
	in := opts.in
	if in == pipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, errors.New("`-` should be used with a pipe for stdin")
		}
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(in)
}

// deliver sends the rendered image to every requested output.
func deliver(img *image.RGBA, opts *options) error {
	switch opts.out {
	case "":
	case pipeName:
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("`-` should be used with a pipe for stdout")
		}
		if err := export.Encode(os.Stdout, img, opts.scale); err != nil {
			return err
		}
	default:
		if err := writeFile(opts.out, img, opts.scale); err != nil {
			return err
		}
		printSaved(opts.out)
	}

	if opts.download != "" {
		d := &export.Downloader{Dir: opts.download, Scale: opts.scale}
		path, err := d.Download(img)
		if err != nil {
			return err
		}
		printSaved(path)
	}

	if opts.copy {
		return copyToClipboard(img, opts.scale)
	}
	return nil
}

// writeFile encodes the image into a buffer first, so a failed render never
// truncates an existing output file.
func writeFile(path string, img image.Image, scale float64) error {
	var buf bytes.Buffer
	if err := export.Encode(&buf, img, scale); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("unable to write the destination file: %w", err)
	}
	return nil
}

func copyToClipboard(img image.Image, scale float64) error {
	cb := export.NewClipboard(export.SystemBoard())
	if !cb.Supported() {
		fmt.Fprintln(os.Stderr, utils.DecorateText("Clipboard images are not supported here, skipping the copy.", utils.WarningMessage))
		return nil
	}
	cb.OnChange(func(s export.Status) {
		if s == export.StatusSuccess {
			fmt.Fprintln(os.Stderr, utils.DecorateText("The image has been copied to the clipboard.", utils.SuccessMessage))
		}
	})
	return cb.Copy(export.Scale(img, scale))
}

func printPresets(w io.Writer, cfg *backdrop.Config) {
	for _, b := range cfg.All() {
		fmt.Fprintf(w, "%-20s %s\n", utils.DecorateText(b.Name, utils.StatusMessage), b.Value)
	}
}

// printSaved displays the location of a written image.
func printSaved(fname string) {
	fmt.Fprintf(os.Stderr, "\nThe decorated image has been saved as: %s\n",
		utils.DecorateText(filepath.Base(fname), utils.SuccessMessage))
}

// printError displays the reason of a failed render.
func printError(err error) {
	fmt.Fprintf(os.Stderr, "%s%s",
		utils.DecorateText("\nError decorating the image", utils.ErrorMessage),
		utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err), utils.DefaultMessage),
	)
}
