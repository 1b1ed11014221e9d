// Package artifact stores the files a test run leaves behind: logs, failure
// screenshots, diagnostics and the HTML report.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
)

const (
	LogsDir        = "logs"
	ScreenshotsDir = "screenshots"
	DiagnosticsDir = "diagnostics"
	ReportFile     = "report.html"

	stampLayout = "20060102_150405"
	dayLayout   = "20060102"
)

// Artifact is a stored file.
type Artifact struct {
	// Name is the file name without directory and extension.
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// Store writes artifacts below the root of an afero filesystem.
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore uses fs as is. dir is only used to display paths.
func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// NewDirStore stores artifacts in dir on the local disk.
func NewDirStore(dir string) *Store {
	return NewStore(afero.NewBasePathFs(afero.NewOsFs(), dir), dir)
}

func (s *Store) Fs() afero.Fs { return s.fs }

// Dir returns the display root of the store.
func (s *Store) Dir() string { return s.dir }

// Location returns the display path of a stored file.
func (s *Store) Location(p string) string {
	if s.dir == "" {
		return p
	}
	return path.Join(s.dir, p)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SafeName turns a test name like "TestCart/remove item" into "TestCart_remove_item".
func SafeName(name string) string {
	return strings.Trim(unsafeChars.ReplaceAllString(name, "_"), "_")
}

// OpenLog opens the log file of the given day for appending.
func (s *Store) OpenLog(day time.Time) (afero.File, error) {
	if err := s.fs.MkdirAll(LogsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	p := path.Join(LogsDir, "test_"+day.Format(dayLayout)+".log")
	f, err := s.fs.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", p, err)
	}
	return f, nil
}

// SaveScreenshot stores a PNG as screenshots/<name>_<timestamp>.png and returns its path.
func (s *Store) SaveScreenshot(name string, at time.Time, png []byte) (string, error) {
	p := path.Join(ScreenshotsDir, StampedName(name, at)+".png")
	if err := s.write(p, png); err != nil {
		return "", err
	}
	return p, nil
}

// SaveDiagnostics stores v as indented JSON in diagnostics/<name>_<timestamp>.json.
func (s *Store) SaveDiagnostics(name string, at time.Time, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding diagnostics: %w", err)
	}
	p := path.Join(DiagnosticsDir, StampedName(name, at)+".json")
	if err := s.write(p, data); err != nil {
		return "", err
	}
	return p, nil
}

// CreateReport creates or truncates report.html.
func (s *Store) CreateReport() (io.WriteCloser, error) {
	f, err := s.fs.OpenFile(ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating report: %w", err)
	}
	return f, nil
}

// StampedName appends the timestamp used by screenshots and diagnostics.
func StampedName(name string, at time.Time) string {
	return SafeName(name) + "_" + at.Format(stampLayout)
}

func (s *Store) write(p string, data []byte) error {
	if err := s.fs.MkdirAll(path.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", path.Dir(p), err)
	}
	if err := afero.WriteFile(s.fs, p, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", p, err)
	}
	return nil
}

func (s *Store) ReadFile(p string) ([]byte, error) {
	return afero.ReadFile(s.fs, p)
}

// Screenshots lists stored screenshots, newest first.
func (s *Store) Screenshots() ([]Artifact, error) {
	return s.list(ScreenshotsDir, ".png")
}

// Diagnostics lists stored diagnostics, newest first.
func (s *Store) Diagnostics() ([]Artifact, error) {
	return s.list(DiagnosticsDir, ".json")
}

func (s *Store) list(dir, ext string) ([]Artifact, error) {
	infos, err := afero.ReadDir(s.fs, dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var artifacts []Artifact
	for _, info := range infos {
		if info.IsDir() || path.Ext(info.Name()) != ext {
			continue
		}
		artifacts = append(artifacts, Artifact{
			Name:    strings.TrimSuffix(info.Name(), ext),
			Path:    path.Join(dir, info.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.SliceStable(artifacts, func(i, j int) bool {
		if !artifacts[i].ModTime.Equal(artifacts[j].ModTime) {
			return artifacts[i].ModTime.After(artifacts[j].ModTime)
		}
		return artifacts[i].Name > artifacts[j].Name
	})
	return artifacts, nil
}
