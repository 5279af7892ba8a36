package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chirp8/emu/chip8"

	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
)

var packCmd = &cobra.Command{
	Use:   "pack `path/rom`",
	Short: "compress a raw ROM into a chirp8 program image",
	Args:  cobra.ExactArgs(1),
	RunE:  Pack,
}

var packOutput string

func init() {
	rootCmd.AddCommand(packCmd)
	packCmd.Flags().StringVarP(&packOutput, "output", "o", "", "output file (default is the input with a .ch8 extension)")
}

// chirp8 pack 'path/to/game.rom'
func Pack(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	logger := newLogger()

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}

	image, err := chip8.PackROM(raw)
	if err != nil {
		logger.Error(chip8.Message(err), log.Err(err))
		return err
	}

	out := packOutput
	if out == "" {
		out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".ch8"
	}
	if err := os.WriteFile(out, image, 0644); err != nil {
		return fmt.Errorf("writing program image: %w", err)
	}

	logger.Info("packed program image",
		log.String("file", out),
		log.String("size", fmt.Sprintf("%d -> %d bytes", len(raw), len(image))),
	)
	return nil
}
