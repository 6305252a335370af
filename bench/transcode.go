package bench

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Transcoder is the external transcode capability. The runner only times
// it and treats a returned error as a failed trial, so tests can swap in a
// double without a real encoder.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath string) error
}

// FFmpeg transcodes the first ClipSeconds of the input to a throwaway
// matroska stream on stdout. The argument set is fixed so every machine
// runs an identical workload.
type FFmpeg struct {
	Path        string
	ClipSeconds float64
}

func (f FFmpeg) args(inputPath string) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-t", strconv.FormatFloat(f.ClipSeconds, 'f', -1, 64),
		"-i", inputPath,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-r", "30",
		"-crf", "26",
		"-f", "matroska",
		"-",
	}
}

func (f FFmpeg) Transcode(ctx context.Context, inputPath string) error {
	cmd := exec.CommandContext(ctx, f.Path, f.args(inputPath)...)

	var stderr bytes.Buffer

	// stdout is the encoded stream; drain and discard it
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return errors.Wrapf(err, "transcoding %s: %s", inputPath, msg)
		}

		return errors.Wrapf(err, "transcoding %s", inputPath)
	}

	return nil
}
