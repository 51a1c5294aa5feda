package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ffmpeg reports its position two ways: -progress blocks on stdout
// carry out_time=HH:MM:SS.micros lines, and -stats lines on stderr
// carry time=HH:MM:SS.cc. One unanchored pattern covers both.
var (
	timeRe  = regexp.MustCompile(`time=(\d{2}):(\d{2}):(\d{2}\.\d{2})`)
	frameRe = regexp.MustCompile(`frame=\s*(\d+)`)
)

// progressParser turns raw engine output lines into completion
// fractions. Without a known input duration no fraction can be
// computed, so observe reports ok=false and only the raw position is
// remembered for diagnostics.
type progressParser struct {
	total     time.Duration
	lastTime  time.Duration
	lastFrame int64
}

func newProgressParser(total time.Duration) *progressParser {
	return &progressParser{total: total}
}

// observe inspects one output line. When the line carries a time
// position and the input duration is known, it returns the completed
// fraction clamped to [0,1].
func (p *progressParser) observe(line string) (float64, bool) {
	if m := timeRe.FindStringSubmatch(line); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		seconds, _ := strconv.ParseFloat(m[3], 64)
		p.lastTime = time.Duration(hours)*time.Hour +
			time.Duration(minutes)*time.Minute +
			time.Duration(seconds*float64(time.Second))

		if p.total <= 0 {
			return 0, false
		}
		f := p.lastTime.Seconds() / p.total.Seconds()
		if f < 0 {
			f = 0
		}
		if f > 1 {
			f = 1
		}
		return f, true
	}

	if m := frameRe.FindStringSubmatch(line); m != nil {
		p.lastFrame, _ = strconv.ParseInt(m[1], 10, 64)
	}
	return 0, false
}

// position renders the last observed position for failure diagnostics,
// preferring the time position over a bare frame count.
func (p *progressParser) position() string {
	if p.lastTime > 0 {
		return p.lastTime.Round(time.Second).String()
	}
	if p.lastFrame > 0 {
		return fmt.Sprintf("frame %d", p.lastFrame)
	}
	return ""
}
