package detector

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"gocv.io/x/gocv"
)

// ServiceScript is the file name of the MediaPipe face mesh service.
const ServiceScript = "face_mesh_service.py"

// ErrServiceNotFound is returned when the face mesh service script cannot be located.
var ErrServiceNotFound = errors.New(ServiceScript + " not found")

// ErrRestartBackoff is returned while a crashed service waits to be restarted.
var ErrRestartBackoff = errors.New("face mesh service restart pending")

const (
	// readyTimeout bounds how long the service may take to load its model.
	readyTimeout = 30 * time.Second

	minRestartDelay = 500 * time.Millisecond
	maxRestartDelay = 30 * time.Second
)

// MediaPipeDetector implements Detector using a Python MediaPipe face mesh subprocess.
//
// Each request is a 4-byte big-endian length followed by a JPEG frame on the
// service's stdin. Each response is one JSON line on its stdout. The service
// announces itself with a {"ready":true} line once its model is loaded.
type MediaPipeDetector struct {
	config     Config
	scriptPath string
	python     string // interpreter override; empty picks a venv or python3
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stdout     *bufio.Reader
	mu         sync.Mutex
	started    bool

	readyTimeout time.Duration
	now          func() time.Time
	retryAt      time.Time
	retryDelay   time.Duration
}

// NewMediaPipeDetector creates a new MediaPipe detector.
// The Python process is started lazily on first detection, or by Start.
func NewMediaPipeDetector(config Config) (*MediaPipeDetector, error) {
	scriptPath := findServiceScript()
	if scriptPath == "" {
		return nil, ErrServiceNotFound
	}

	return &MediaPipeDetector{
		config:       config,
		scriptPath:   scriptPath,
		readyTimeout: readyTimeout,
		now:          time.Now,
	}, nil
}

// Start launches the service process if it is not already running and waits
// for it to report ready. A service that dies while loading is an error.
func (d *MediaPipeDetector) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ensureStarted()
}

// Detect analyzes a frame and returns detected face landmarks.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]FaceLandmarks, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := d.stdin.Write(length); err != nil {
		return nil, d.fail(fmt.Errorf("write length: %w", err))
	}
	if _, err := d.stdin.Write(data); err != nil {
		return nil, d.fail(fmt.Errorf("write data: %w", err))
	}

	line, err := d.stdout.ReadBytes('\n')
	if err != nil {
		return nil, d.fail(fmt.Errorf("read response: %w", err))
	}
	d.retryDelay = 0

	return parseResponse(line)
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}
	if now := d.clock(); now.Before(d.retryAt) {
		return fmt.Errorf("%w: retry in %s", ErrRestartBackoff, d.retryAt.Sub(now).Round(time.Millisecond))
	}

	pythonPath := d.python
	if pythonPath == "" {
		// Use virtual environment Python if available
		pythonPath = findVenvPython()
	}
	if pythonPath == "" {
		pythonPath = "python3"
	}

	d.cmd = exec.Command(pythonPath, append([]string{d.scriptPath}, serviceArgs(d.config)...)...)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		d.backoff()
		return fmt.Errorf("start face mesh service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true

	if err := d.awaitReady(); err != nil {
		return d.fail(fmt.Errorf("face mesh service not ready: %w", err))
	}

	return nil
}

// awaitReady reads the service's handshake line. A service that neither
// answers nor exits within readyTimeout is killed.
func (d *MediaPipeDetector) awaitReady() error {
	type result struct {
		line []byte
		err  error
	}
	ch := make(chan result, 1)
	stdout := d.stdout
	go func() {
		line, err := stdout.ReadBytes('\n')
		ch <- result{line, err}
	}()

	timeout := d.readyTimeout
	if timeout <= 0 {
		timeout = readyTimeout
	}

	select {
	case r := <-ch:
		if r.err != nil {
			return fmt.Errorf("read handshake: %w", r.err)
		}
		return parseReady(r.line)
	case <-time.After(timeout):
		d.cmd.Process.Kill()
		return fmt.Errorf("no handshake after %s", timeout)
	}
}

// fail tears down a broken service. The next Detect restarts it once the
// restart delay has passed.
func (d *MediaPipeDetector) fail(err error) error {
	d.shutdown()
	d.backoff()
	return err
}

// backoff doubles the restart delay up to maxRestartDelay.
func (d *MediaPipeDetector) backoff() {
	switch {
	case d.retryDelay == 0:
		d.retryDelay = minRestartDelay
	case d.retryDelay < maxRestartDelay:
		d.retryDelay = min(2*d.retryDelay, maxRestartDelay)
	}
	d.retryAt = d.clock().Add(d.retryDelay)
}

func (d *MediaPipeDetector) clock() time.Time {
	if d.now == nil {
		return time.Now()
	}
	return d.now()
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

// serviceArgs renders the detector config as service command-line flags.
func serviceArgs(c Config) []string {
	args := []string{
		"--max-faces", strconv.Itoa(c.MaxFaces),
		"--min-detection-confidence", strconv.FormatFloat(c.MinConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(c.MinTrackingConf, 'f', -1, 64),
	}
	if c.RefineLandmarks {
		args = append(args, "--refine-landmarks")
	}
	return args
}

func findServiceScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		filepath.Join("scripts", ServiceScript),
		filepath.Join("..", "scripts", ServiceScript),
		filepath.Join(execDir, "scripts", ServiceScript),
		filepath.Join(os.Getenv("HOME"), ".headshooter", "scripts", ServiceScript),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".headshooter/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// json decodes service responses; each one carries 478 points per face at frame rate.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonFace represents the JSON structure from the Python service.
type jsonFace struct {
	Points []Point3D `json:"points"`
	Score  float64   `json:"score"`
}

type jsonResponse struct {
	Ready bool       `json:"ready,omitempty"`
	Faces []jsonFace `json:"faces"`
	Error string     `json:"error,omitempty"`
}

// parseReady checks the service's first line.
func parseReady(line []byte) error {
	var response jsonResponse
	if err := json.Unmarshal(line, &response); err != nil {
		return fmt.Errorf("parse handshake: %w", err)
	}
	if response.Error != "" {
		return fmt.Errorf("face mesh service: %s", response.Error)
	}
	if !response.Ready {
		return fmt.Errorf("unexpected handshake %q", bytes.TrimSpace(line))
	}
	return nil
}

// parseResponse decodes one response line from the service.
func parseResponse(line []byte) ([]FaceLandmarks, error) {
	var response jsonResponse
	if err := json.Unmarshal(line, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if response.Error != "" {
		return nil, fmt.Errorf("face mesh service: %s", response.Error)
	}

	result := make([]FaceLandmarks, 0, len(response.Faces))
	for _, f := range response.Faces {
		if len(f.Points) == 0 {
			continue
		}
		result = append(result, FaceLandmarks{Points: f.Points, Score: f.Score})
	}
	return result, nil
}
