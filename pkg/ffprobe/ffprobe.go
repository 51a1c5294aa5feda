// Package ffprobe shells out to ffprobe and exposes parsed container and
// stream metadata for media files.
package ffprobe

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultBinary is used when no explicit ffprobe path is configured.
const DefaultBinary = "ffprobe"

// Client runs ffprobe. Construct with New.
type Client struct {
	binary  string
	timeout time.Duration
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBinary sets the ffprobe executable path.
func WithBinary(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.binary = path
		}
	}
}

// WithTimeout caps the runtime of a single probe call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "ffprobe")
	}
}

// New creates an ffprobe client.
func New(opts ...Option) *Client {
	c := &Client{
		binary:  DefaultBinary,
		timeout: 30 * time.Second,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Probe runs a single ffprobe JSON call against path and returns the
// parsed result.
func (c *Client) Probe(ctx context.Context, path string) (*Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.binary,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	c.log.Debug("probed file", "path", path, "bytes", len(out))
	return ParseJSON(out)
}

// Version returns the first line of `ffprobe -version` output.
func (c *Client) Version(ctx context.Context) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out, err := exec.CommandContext(ctx, c.binary, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("ffprobe -version: %w", err)
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}

// ParseJSON converts raw ffprobe JSON output into a Result.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*Result, error) {
	var raw probeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildResult(&raw), nil
}

// Result is the parsed metadata for one media file.
type Result struct {
	Format  Format
	Streams []Stream
}

// Format describes the container.
type Format struct {
	Filename   string
	FormatName string
	Duration   float64 // seconds, 0 when ffprobe reports none
	Size       int64
	BitRate    int64
}

// Stream describes a single elementary stream.
type Stream struct {
	Index     int
	CodecType string
	CodecName string
	Width     int
	Height    int
	Channels  int
}

// Duration returns the container duration and whether ffprobe reported one.
func (r *Result) Duration() (time.Duration, bool) {
	if r.Format.Duration <= 0 {
		return 0, false
	}
	return time.Duration(r.Format.Duration * float64(time.Second)), true
}

// HasVideo reports whether the file carries at least one video stream.
func (r *Result) HasVideo() bool {
	for _, s := range r.Streams {
		if s.CodecType == "video" {
			return true
		}
	}
	return false
}

// VideoCodec returns the codec name of the first video stream, or "".
func (r *Result) VideoCodec() string {
	for _, s := range r.Streams {
		if s.CodecType == "video" {
			return s.CodecName
		}
	}
	return ""
}

// --- ffprobe JSON wire types ---

type probeOutput struct {
	Format  probeFormat   `json:"format"`
	Streams []probeStream `json:"streams"`
}

type probeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

type probeStream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Channels  int    `json:"channels"`
}

func buildResult(raw *probeOutput) *Result {
	r := &Result{
		Format: Format{
			Filename:   raw.Format.Filename,
			FormatName: raw.Format.FormatName,
			Duration:   parseFloat(raw.Format.Duration),
			Size:       parseInt64(raw.Format.Size),
			BitRate:    parseInt64(raw.Format.BitRate),
		},
	}
	for _, s := range raw.Streams {
		r.Streams = append(r.Streams, Stream{
			Index:     s.Index,
			CodecType: s.CodecType,
			CodecName: s.CodecName,
			Width:     s.Width,
			Height:    s.Height,
			Channels:  s.Channels,
		})
	}
	return r
}

// ffprobe returns numbers as strings.

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
