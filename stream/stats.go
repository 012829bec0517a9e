package stream

import (
	"log/slog"
	"time"
)

var discardLogger = slog.New(slog.DiscardHandler)

// PassStats describes the effect of one compression pass.
type PassStats struct {
	Pass       Pass
	SizeBefore int // Encoded block size before the pass
	SizeAfter  int // Encoded block size after the pass
	Symbols    int // Main sequence length after the pass
	Duration   time.Duration
}

// Saved returns the number of bytes the pass removed.
func (p PassStats) Saved() int {
	return p.SizeBefore - p.SizeAfter
}

type passTimer struct {
	s      *Stream
	pass   Pass
	before int
	start  time.Time
}

func (s *Stream) beginPass(pass Pass) passTimer {
	return passTimer{s: s, pass: pass, before: s.EncodedSize(), start: time.Now()}
}

func (t passTimer) end(attrs ...any) {
	st := PassStats{
		Pass:       t.pass,
		SizeBefore: t.before,
		SizeAfter:  t.s.EncodedSize(),
		Symbols:    len(t.s.Symbols),
		Duration:   time.Since(t.start),
	}
	t.s.Stats = append(t.s.Stats, st)

	args := append([]any{
		slog.Int("channel", t.s.Channel),
		slog.String("pass", st.Pass.String()),
		slog.Int("size_before", st.SizeBefore),
		slog.Int("size_after", st.SizeAfter),
		slog.Int("symbols", st.Symbols),
	}, attrs...)
	t.s.logger.Debug("compression pass finished", args...)
}
