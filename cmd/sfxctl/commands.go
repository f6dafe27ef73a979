package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gopxl/beep"
	"github.com/lixenwraith/sage-audio/audio"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show persisted toggles and what loaded",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, err := openSession(cmd, cfg, nil)
		if err != nil {
			return err
		}
		defer s.Close()

		printf(cmd, "sound: %s\n", onOff(s.SoundStatus()))
		printf(cmd, "music: %s\n", onOff(s.MusicStatus()))

		report := s.Report()
		for _, r := range report.Sounds {
			printf(cmd, "clip  %-12s %-32s %s\n", r.Event, r.Path, resultText(r.Err))
		}
		if report.Music != nil {
			printf(cmd, "music %-12s %-32s %s\n", "-", report.Music.Path, resultText(report.Music.Err))
		}

		if verbose {
			printf(cmd, "\n")
			_, err = s.metrics.WriteTo(cmd.OutOrStdout())
			return err
		}
		return nil
	},
}

var verbose bool

func resultText(err error) string {
	if err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

var toggleCmd = &cobra.Command{
	Use:       "toggle sound|music",
	Short:     "Flip a toggle and persist it",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"sound", "music"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, err := openSession(cmd, cfg, nil)
		if err != nil {
			return err
		}
		defer s.Close()

		var enabled bool
		switch args[0] {
		case "sound":
			enabled = s.ToggleSoundStatus()
		case "music":
			enabled = s.ToggleMusicStatus()
		}
		printf(cmd, "%s: %s\n", args[0], onOff(enabled))
		return nil
	},
}

var playWait time.Duration

var playCmd = &cobra.Command{
	Use:   "play <event>",
	Short: "Trigger a game event on the audio device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		event, err := audio.ParseGameEvent(args[0])
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out, err := audio.NewSpeakerOutput(cfg)
		if err != nil {
			return err
		}
		defer out.Close()

		s, err := openSession(cmd, cfg, out)
		if err != nil {
			return err
		}
		defer s.Close()

		if !s.SoundStatus() {
			printf(cmd, "sound is off\n")
			return nil
		}
		s.PlaySoundForGameEvent(event)
		time.Sleep(playWait)
		return nil
	},
}

var musicFor time.Duration

var musicCmd = &cobra.Command{
	Use:   "music",
	Short: "Play the background track on the audio device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out, err := audio.NewSpeakerOutput(cfg)
		if err != nil {
			return err
		}
		defer out.Close()

		s, err := openSession(cmd, cfg, out)
		if err != nil {
			return err
		}
		defer s.Close()

		if !s.MusicStatus() {
			printf(cmd, "music is off\n")
			return nil
		}
		if err := s.Report().Music.Err; err != nil {
			return err
		}
		s.ResumeBgMusic()
		time.Sleep(musicFor)
		return nil
	},
}

var genAssetsCmd = &cobra.Command{
	Use:   "gen-assets <dir>",
	Short: "Write placeholder clips and a music loop",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		written, err := audio.GenerateAssets(args[0], cfg)
		for _, rel := range written {
			printf(cmd, "wrote %s\n", filepath.Join(args[0], filepath.FromSlash(rel)))
		}
		if err != nil {
			return err
		}
		printf(cmd, "use %sMUSIC_FILE=%s to play the generated loop\n", audio.EnvPrefix, audio.GeneratedMusicFile)
		return nil
	},
}

var (
	renderFor    time.Duration
	renderEvents []string
	renderMusic  bool
)

var renderCmd = &cobra.Command{
	Use:   "render <out.wav>",
	Short: "Mix events and music offline into a WAV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		events := make([]audio.GameEvent, 0, len(renderEvents))
		for _, name := range renderEvents {
			e, err := audio.ParseGameEvent(name)
			if err != nil {
				return err
			}
			events = append(events, e)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := audio.NewManualOutput(beep.SampleRate(cfg.SampleRate))
		s, err := openSession(cmd, cfg, out)
		if err != nil {
			return err
		}
		defer s.Close()

		for _, e := range events {
			s.PlaySoundForGameEvent(e)
		}
		if renderMusic {
			s.ResumeBgMusic()
		}

		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		if err := out.Render(f, renderFor); err != nil {
			f.Close()
			return fmt.Errorf("render: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		printf(cmd, "rendered %s of audio to %s\n", renderFor, args[0])
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also print session metrics")
	playCmd.Flags().DurationVar(&playWait, "wait", 500*time.Millisecond, "how long to keep the device open")
	musicCmd.Flags().DurationVar(&musicFor, "for", 10*time.Second, "how long to play")
	renderCmd.Flags().DurationVar(&renderFor, "duration", time.Second, "length of the rendered file")
	renderCmd.Flags().StringSliceVar(&renderEvents, "event", []string{audio.BalloonHit.String()}, "events to trigger at the start")
	renderCmd.Flags().BoolVar(&renderMusic, "music", false, "mix in the background track")
}
