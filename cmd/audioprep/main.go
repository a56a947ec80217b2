// Command audioprep converts an audio file into the format speech models
// expect: mono, resampled to a target rate and loudness normalized to a
// target integrated loudness, written as 16-bit PCM WAV.
//
// Usage:
//
//	audioprep input.wav output.wav
//	audioprep --rate 8000 --target -20 podcast.mp3 podcast_8k.wav
//	audioprep --no-normalize -v music.ogg music_16k.wav
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	audioprep "github.com/tphakala/go-audio-prep"
	"github.com/tphakala/go-audio-prep/internal/pipeline"
)

// CLI defines the command-line interface.
type CLI struct {
	Input  string `arg:"" name:"input" type:"existingfile" help:"Input audio file (.wav, .mp3, .ogg)"`
	Output string `arg:"" name:"output" type:"path" help:"Output WAV file (16-bit mono)"`

	Rate        uint32  `short:"r" default:"16000" help:"Target sample rate in Hz"`
	Target      float64 `short:"t" default:"-23" help:"Target integrated loudness in LUFS"`
	NoNormalize bool    `help:"Skip loudness normalization"`
	Strict      bool    `help:"Fail when the audio is too short or too quiet to measure"`
	Verbose     bool    `short:"v" help:"Verbose output"`
}

// config maps the command-line flags onto a PrepareConfig.
func (c *CLI) config() audioprep.PrepareConfig {
	cfg := audioprep.DefaultPrepareConfig()
	cfg.TargetRate = c.Rate
	cfg.TargetLoudness = c.Target
	cfg.Normalize = !c.NoNormalize
	cfg.PassthroughWhenUnmeasured = !c.Strict
	return cfg
}

func main() {
	cli := &CLI{}
	kong.Parse(cli,
		kong.Name("audioprep"),
		kong.Description("Convert audio to mono, resample and normalize loudness for speech models"),
		kong.UsageOnError(),
	)

	if err := run(cli); err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}

func run(cli *CLI) error {
	cfg := cli.config()
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cli.Verbose {
		log.Printf("Input: %s", cli.Input)
		log.Printf("Output: %s", cli.Output)
		log.Printf("Target rate: %d Hz", cfg.TargetRate)
		if cfg.Normalize {
			log.Printf("Target loudness: %.1f LUFS", cfg.TargetLoudness)
		} else {
			log.Printf("Loudness normalization: disabled")
		}
	}

	in, err := decodeFile(cli.Input, cli.Verbose)
	if err != nil {
		return err
	}

	plan, err := pipeline.PlanHops(in.format.SampleRate, cfg.TargetRate, audioprep.MaxRatioRelative)
	if err != nil {
		return fmt.Errorf("%w: %w", audioprep.ErrConfig, err)
	}
	if cli.Verbose {
		log.Printf("Conversion plan: %s (%d hops)", plan, plan.Len())
	}

	start := time.Now()
	out, err := audioprep.Prepare(in.samples, in.format, cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if err := writeWAV(cli.Output, out, cfg.TargetRate); err != nil {
		return err
	}

	printSummary(cli, in, out, plan, elapsed)
	return nil
}

// printSummary reports formats and before/after loudness. Loudness is only
// shown for rates the meter supports.
func printSummary(cli *CLI, in *decodedAudio, out []float32, plan *pipeline.Plan, elapsed time.Duration) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("Prepared %s -> %s", filepath.Base(cli.Input), filepath.Base(cli.Output))))

	inSeconds := float64(in.frames()) / float64(in.format.SampleRate)
	printKV("Input", fmt.Sprintf("%s, %d Hz, %d ch, %.2fs", in.codec, in.format.SampleRate, in.format.Channels, inSeconds))
	printKV("Output", fmt.Sprintf("wav, %d Hz, 1 ch, %d samples", cli.Rate, len(out)))
	printKV("Rate plan", plan.String())
	if elapsed > 0 {
		printKV("Speed", fmt.Sprintf("%.1fx realtime (%v)", inSeconds/elapsed.Seconds(), elapsed.Round(time.Millisecond)))
	}

	fmt.Println()
	fmt.Println(sectionStyle.Render("Loudness"))
	before, err := audioprep.Measure(in.samples, uint32(in.format.Channels), in.format.SampleRate)
	if err != nil {
		printWarning(fmt.Sprintf("input not measured: %v", err))
	} else {
		printLoudness("Before", before)
	}

	after, err := audioprep.Measure(out, 1, cli.Rate)
	if err != nil {
		printWarning(fmt.Sprintf("output not measured: %v", err))
		return
	}
	printLoudness("After", after)

	if !cli.NoNormalize && !after.Measured() {
		printWarning("audio too short or quiet to measure; passed through unchanged")
	}
}

func printLoudness(label string, s audioprep.LoudnessStats) {
	printKV(label, fmt.Sprintf("%s integrated, LRA %.1f LU, peak %s",
		formatLUFS(s.Integrated), s.LoudnessRange, formatDBTP(s.MaxTruePeakDB())))
}
