package video

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/otsaloma/gaupol-sub002/internal/position"
)

// reference video information
type Info struct {
	Path      string
	Duration  time.Duration
	Width     int
	Height    int
	Framerate position.Framerate
	Codec     string
	HasAudio  bool
}

// reads stream information from a video file
type Prober interface {
	Probe(ctx context.Context, videoPath string) (*Info, error)
}

var ErrNoFFProbe = errors.New("ffprobe not found in PATH")

// prober backed by ffprobe
type FFProbe struct{}

func (FFProbe) Probe(ctx context.Context, videoPath string) (*Info, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return nil, fmt.Errorf("video file not found: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return nil, ErrNoFFProbe
	}

	var out string
	var err error
	if deadline, ok := ctx.Deadline(); ok {
		out, err = ffmpeg.ProbeWithTimeout(videoPath, time.Until(deadline), ffmpeg.KwArgs{})
	} else {
		out, err = ffmpeg.Probe(videoPath)
	}
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	info, err := parseProbe(out)
	if err != nil {
		return nil, err
	}
	info.Path = videoPath
	return info, nil
}

type probeOutput struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		CodecName    string `json:"codec_name"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseProbe(data string) (*Info, error) {
	var out probeOutput
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &Info{}
	found := false
	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			if found {
				continue
			}
			found = true
			info.Codec = s.CodecName
			info.Width = s.Width
			info.Height = s.Height
			rate, err := ParseFrameRate(s.RFrameRate)
			if err != nil {
				rate, err = ParseFrameRate(s.AvgFrameRate)
			}
			if err != nil {
				return nil, fmt.Errorf("no usable frame rate: %w", err)
			}
			info.Framerate = rate
		case "audio":
			info.HasAudio = true
		}
	}
	if !found {
		return nil, fmt.Errorf("no video stream found")
	}

	if seconds, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
		info.Duration = time.Duration(seconds * float64(time.Second)).Round(time.Millisecond)
	}
	return info, nil
}

// parses ffprobe rates like "24000/1001", snapping to a standard framerate
// within 0.01 fps
func ParseFrameRate(s string) (position.Framerate, error) {
	rate, err := position.ParseFramerate(s)
	if err != nil {
		return 0, err
	}
	for _, f := range position.Framerates {
		if math.Abs(float64(f-rate)) < 0.01 {
			return f, nil
		}
	}
	return rate, nil
}
