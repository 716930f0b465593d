package extract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// Trimmer cuts a single time range out of a media container.
type Trimmer interface {
	Trim(ctx context.Context, inputPath, outputPath string, start, end float64) error
}

// FFmpegTrimmer trims by shelling out to ffmpeg with stream copy, so the
// cut is fast and lossless but lands on keyframe boundaries.
type FFmpegTrimmer struct{}

// NewFFmpegTrimmer creates an ffmpeg backed trimmer
func NewFFmpegTrimmer() *FFmpegTrimmer {
	return &FFmpegTrimmer{}
}

// Trim runs ffmpeg to copy the [start, end] range of inputPath into
// outputPath. A non-zero exit returns an error carrying ffmpeg's stderr.
func (t *FFmpegTrimmer) Trim(ctx context.Context, inputPath, outputPath string, start, end float64) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-ss", strconv.FormatFloat(start, 'f', -1, 64),
		"-to", strconv.FormatFloat(end, 'f', -1, 64),
		"-i", inputPath,
		"-c", "copy",
		"-avoid_negative_ts", "make_zero",
		outputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("ffmpeg error: %s", stderr.String())
		}
		return fmt.Errorf("failed to run ffmpeg: %w", err)
	}

	return nil
}
