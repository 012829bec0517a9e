package pack

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/umpack/endian"
	"github.com/arloliu/umpack/errs"
	"github.com/arloliu/umpack/format"
	"github.com/arloliu/umpack/internal/options"
	"github.com/arloliu/umpack/section"
	"github.com/arloliu/umpack/stream"
)

// EncoderConfig holds the encoder configuration: the header template, the
// stream tuning and the ambient settings.
type EncoderConfig struct {
	header    *section.Header
	streamCfg stream.Config
	verify    bool
	logger    *slog.Logger
	engine    endian.EndianEngine
}

// NewEncoderConfig creates a configuration with default stream tuning, no
// payload compression, little-endian layout and verification enabled.
func NewEncoderConfig() *EncoderConfig {
	header := section.NewHeader(0)

	return &EncoderConfig{
		header:    header,
		streamCfg: stream.DefaultConfig(),
		verify:    true,
		logger:    slog.New(slog.DiscardHandler),
		engine:    header.Flag.GetEndianEngine(),
	}
}

// StreamConfig returns the stream tuning.
func (c *EncoderConfig) StreamConfig() stream.Config {
	return c.streamCfg
}

// Compression returns the payload compression type.
func (c *EncoderConfig) Compression() format.CompressionType {
	return c.header.Flag.Compression()
}

// Verify reports whether every channel is decoded and compared after encoding.
func (c *EncoderConfig) Verify() bool {
	return c.verify
}

// setStreamConfig replaces the stream tuning and keeps the header short-gap
// bit in sync with it.
func (c *EncoderConfig) setStreamConfig(cfg stream.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.streamCfg = cfg
	c.header.Flag.SetShortGaps(cfg.ShortGaps)

	return nil
}

// updateStreamConfig applies fn to a copy of the stream tuning.
func (c *EncoderConfig) updateStreamConfig(fn func(*stream.Config)) error {
	cfg := c.streamCfg
	fn(&cfg)

	return c.setStreamConfig(cfg)
}

// setCompression sets the payload compression type.
func (c *EncoderConfig) setCompression(comp format.CompressionType) error {
	switch comp {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
		c.header.Flag.SetCompression(comp)
		return nil
	default:
		return fmt.Errorf("%w: %v", errs.ErrInvalidCompression, comp)
	}
}

// setEndianess sets the byte order of the header and channel index.
func (c *EncoderConfig) setEndianess(endiness endianness) {
	switch endiness {
	case bigEndianOpt:
		c.header.Flag.WithBigEndian()
	default:
		c.header.Flag.WithLittleEndian()
	}

	c.engine = c.header.Flag.GetEndianEngine()
}

// endianness represents the byte order configuration option.
type endianness uint8

const (
	littleEndianOpt endianness = iota
	bigEndianOpt
)

// EncoderOption represents a functional option for configuring the EncoderConfig.
type EncoderOption = options.Option[*EncoderConfig]

// WithStreamConfig replaces the whole stream tuning.
func WithStreamConfig(cfg stream.Config) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		return c.setStreamConfig(cfg)
	})
}

// WithPasses selects the compression passes each channel goes through.
func WithPasses(passes stream.Pass) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		return c.updateStreamConfig(func(cfg *stream.Config) { cfg.Passes = passes })
	})
}

// WithShortGaps enables or disables short-gap symbols. It is enabled by
// default.
//
// Disabling short gaps frees eight more dictionary indexes, so the dictionary
// cap can grow to 128.
func WithShortGaps(enabled bool) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		return c.updateStreamConfig(func(cfg *stream.Config) { cfg.ShortGaps = enabled })
	})
}

// WithDictionaryCap bounds the number of row dictionary entries per channel.
func WithDictionaryCap(n int) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		return c.updateStreamConfig(func(cfg *stream.Config) { cfg.DictionaryCap = n })
	})
}

// WithMaxSlices bounds the number of repeated slices per channel.
func WithMaxSlices(n int) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		return c.updateStreamConfig(func(cfg *stream.Config) { cfg.MaxSlices = n })
	})
}

// WithSliceLengthRange sets the inclusive range of repeated-slice lengths.
func WithSliceLengthRange(minLen, maxLen int) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		return c.updateStreamConfig(func(cfg *stream.Config) {
			cfg.MinSliceLength = minLen
			cfg.MaxSliceLength = maxLen
			if cfg.MinSearchLength < minLen {
				cfg.MinSearchLength = minLen
			}
		})
	})
}

// WithCompression sets the general-purpose codec applied to the payload.
// The default is format.CompressionNone.
func WithCompression(comp format.CompressionType) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		return c.setCompression(comp)
	})
}

// WithLittleEndian sets the header and channel index to little-endian byte
// order. It is the default option.
func WithLittleEndian() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.setEndianess(littleEndianOpt)
	})
}

// WithBigEndian sets the header and channel index to big-endian byte order.
// Channel blocks are byte-oriented and unaffected.
func WithBigEndian() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.setEndianess(bigEndianOpt)
	})
}

// WithVerify enables or disables decoding every channel block after encoding
// and comparing it with the source rows. It is enabled by default.
func WithVerify(enabled bool) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.verify = enabled
	})
}

// WithLogger sets the logger that receives per-pass and per-channel
// statistics at debug level. A nil logger disables logging.
func WithLogger(logger *slog.Logger) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		c.logger = logger
	})
}
