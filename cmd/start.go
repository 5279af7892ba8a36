package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chirp8/emu/chip8"
	"chirp8/emu/screen"
	"chirp8/emu/sound"

	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var startCmd = &cobra.Command{
	Use:   "start `path/image`",
	Short: "load and start the emulator",
	Args:  cobra.ExactArgs(1),
	RunE:  Start,
}

var (
	refreshRate int
	saveFile    string
)

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().IntVarP(&refreshRate, "refresh", "r", 60, "sets the refresh rate of the display")
	startCmd.Flags().StringVarP(&saveFile, "save", "s", "", "save snapshot path (default is the input with a .c8sv extension)")
}

// chirp8 start 'path/to/image.ch8' -r 60
func Start(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	logger := newLogger()
	path := args[0]

	if refreshRate < 1 || refreshRate > 240 {
		err := fmt.Errorf("%w: refresh rate %d (want 1-240)", chip8.ErrInvalidArgument, refreshRate)
		logger.Error(chip8.Message(err), log.Err(err))
		return err
	}

	state, err := loadInput(path)
	if err != nil {
		logger.Error(chip8.Message(err), log.Err(err))
		return err
	}

	win, err := screen.New(refreshRate, viper.GetInt("scale"))
	if err != nil {
		return fmt.Errorf("opening window: %w", err)
	}

	var beeper *sound.Beeper
	if !viper.GetBool("mute") {
		if beeper, err = sound.NewBeeper(); err != nil {
			logger.Warn("audio unavailable", log.Err(err))
			beeper = nil
		}
	}

	sess := chip8.NewSession(state, win)
	logger.Info("starting emulator", log.String("file", path))

	type result struct {
		outcome chip8.Outcome
		err     error
	}
	resCh := make(chan result, 1)
	go func() {
		outcome, err := sess.Run()
		resCh <- result{outcome, err}
	}()

	var res result
	for running := true; running; {
		select {
		case res = <-resCh:
			running = false
		default:
			win.Update(state, sess.AlarmActive())
			if beeper != nil {
				beeper.SetActive(sess.SoundActive())
			}
		}
	}
	if beeper != nil {
		beeper.SetActive(false)
	}

	if res.err != nil {
		logger.Error(chip8.Message(res.err), log.Err(res.err))
		return res.err
	}

	switch res.outcome {
	case chip8.ExitAndSave:
		out := saveFile
		if out == "" {
			out = strings.TrimSuffix(path, filepath.Ext(path)) + ".c8sv"
		}
		if err := os.WriteFile(out, chip8.EncodeSnapshot(state), 0644); err != nil {
			return fmt.Errorf("writing save snapshot: %w", err)
		}
		logger.Info(chip8.Message(nil), log.String("save", out))
	case chip8.Done:
		logger.Info(chip8.Message(nil))
	case chip8.SilentExit:
	}
	return nil
}

// loadInput dispatches a file to the matching loader by extension:
// .ch8 program images and .c8sv save snapshots.
func loadInput(path string) (*chip8.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", chip8.ErrRomLoad, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ch8":
		return chip8.LoadROM(data)
	case ".c8sv":
		return chip8.DecodeSnapshot(data)
	default:
		return nil, fmt.Errorf("%w: unrecognized file type %q", chip8.ErrRomLoad, filepath.Ext(path))
	}
}
