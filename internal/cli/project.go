package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/otsaloma/gaupol-sub002/internal/format"
	"github.com/otsaloma/gaupol-sub002/internal/position"
	"github.com/otsaloma/gaupol-sub002/internal/project"
)

func openProject(path string) (*project.Project, error) {
	p := project.New(cfg, logger)
	reordered, err := p.OpenMain(path, encoding)
	if err != nil {
		return nil, err
	}
	if reordered > 0 {
		logger.Warnw("Subtitles were out of order and have been sorted",
			"file", path,
			"reordered", reordered,
		)
	}
	return p, nil
}

// saves the main document to the --output path, or over the input
func saveProject(p *project.Project, formatName string) error {
	if outputPath == "" && formatName == "" {
		return p.SaveMain(nil)
	}

	main := p.Main()
	file := &project.File{
		Path:     outputPath,
		Format:   main.Format,
		Encoding: main.Encoding,
		Newline:  main.Newline,
	}
	if file.Path == "" {
		file.Path = main.Path
	}

	switch {
	case formatName != "":
		f, err := format.ParseFormat(formatName)
		if err != nil {
			return err
		}
		file.Format = f
	case outputPath != "":
		if f, err := format.ParseFormat(filepath.Ext(outputPath)); err == nil {
			file.Format = f
		}
	}
	if file.Format == main.Format {
		file.Header = main.Header
	}
	if outputPath == "" && file.Format != main.Format {
		codec, err := format.Get(file.Format)
		if err != nil {
			return err
		}
		file.Path = strings.TrimSuffix(main.Path, filepath.Ext(main.Path)) + codec.Extension()
	}
	return p.SaveMain(file)
}

// opens path, applies edit and saves the result
func editFile(path string, edit func(p *project.Project) error) (*project.Project, error) {
	p, err := openProject(path)
	if err != nil {
		return nil, err
	}
	if err := edit(p); err != nil {
		return nil, err
	}
	if err := saveProject(p, ""); err != nil {
		return nil, fmt.Errorf("failed to save: %w", err)
	}
	return p, nil
}

// parses 1-based subtitle numbers like "1-3,7" into 0-based indices; an
// empty string selects all
func parseIndices(s string, count int) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var indices []int
	seen := map[int]bool{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := strings.Cut(part, "-")
		first, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid subtitle number %q", part)
		}
		last := first
		if isRange {
			if last, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
				return nil, fmt.Errorf("invalid subtitle range %q", part)
			}
		}
		if first < 1 || last > count || first > last {
			return nil, fmt.Errorf("subtitle range %q outside 1-%d", part, count)
		}
		for n := first; n <= last; n++ {
			if !seen[n-1] {
				seen[n-1] = true
				indices = append(indices, n-1)
			}
		}
	}
	return indices, nil
}

// parses "00:01:02.500", "-1.5" (seconds) or "120f" (frames)
func parsePosition(s string) (position.Position, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasSuffix(s, "f"):
		n, err := strconv.Atoi(strings.TrimSuffix(s, "f"))
		if err != nil {
			return position.Position{}, fmt.Errorf("invalid frame count %q", s)
		}
		return position.FromFrame(n), nil
	case strings.Contains(s, ":"):
		d, err := position.ParseTime(s)
		if err != nil {
			return position.Position{}, err
		}
		return position.FromTime(d), nil
	default:
		seconds, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return position.Position{}, fmt.Errorf("invalid position %q", s)
		}
		return position.FromTime(time.Duration(seconds * float64(time.Second)).Round(time.Millisecond)), nil
	}
}
