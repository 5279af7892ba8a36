package main

import (
	"chirp8/cmd"

	"github.com/faiface/pixel/pixelgl"
)

func main() {
	pixelgl.Run(runChirp8)
}

func runChirp8() {
	cmd.Execute()
}
