package video

import (
	"context"
	"testing"
	"time"

	"github.com/otsaloma/gaupol-sub002/internal/position"
)

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		input   string
		want    position.Framerate
		wantErr bool
	}{
		{"24000/1001", position.FPS23976, false},
		{"25/1", position.FPS25, false},
		{"30000/1001", position.FPS29970, false},
		{"25", position.FPS25, false},
		{"12/1", position.Framerate(12), false},
		{"0/0", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseFrameRate(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFrameRate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFrameRate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseProbe(t *testing.T) {
	data := `{
		"streams": [
			{"codec_type": "audio", "codec_name": "aac"},
			{"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080,
			 "r_frame_rate": "24000/1001", "avg_frame_rate": "24000/1001"}
		],
		"format": {"duration": "5400.123000"}
	}`

	info, err := parseProbe(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Framerate != position.FPS23976 {
		t.Errorf("expected 23.976 fps, got %v", info.Framerate)
	}
	if info.Codec != "h264" || info.Width != 1920 || info.Height != 1080 {
		t.Errorf("unexpected stream info: %+v", info)
	}
	if !info.HasAudio {
		t.Error("expected audio stream detected")
	}
	if info.Duration != 5400123*time.Millisecond {
		t.Errorf("expected 1:30:00.123, got %v", info.Duration)
	}
}

func TestParseProbeWithoutVideo(t *testing.T) {
	if _, err := parseProbe(`{"streams": [{"codec_type": "audio"}]}`); err == nil {
		t.Error("expected error without video stream")
	}
}

func TestProbeMissingFile(t *testing.T) {
	if _, err := (FFProbe{}).Probe(context.Background(), "/nonexistent/movie.mkv"); err == nil {
		t.Error("expected error for missing file")
	}
}
