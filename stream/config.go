package stream

import (
	"fmt"

	"github.com/arloliu/umpack/errs"
	"github.com/arloliu/umpack/symbol"
)

// Format constants shared by encoder and decoder.
const (
	// ShortGapSlots is the number of Dictionary indexes reserved for short
	// gaps when short gaps are enabled. Dictionary(g) with g < ShortGapSlots
	// expands to g+2 empty rows, and row dictionary indexes start after them.
	ShortGapSlots = 8
	// SliceLengthBias is subtracted from slice lengths in the slice table. It
	// is also the width of the hashed prefix used to find repeated slices.
	SliceLengthBias = 4
	// MaxTableCount is the largest count a 1-byte table header holds.
	MaxTableCount = 0xFF
)

// Pass selects compression passes.
type Pass uint8

const (
	PassRLE        Pass = 1 << iota // PassRLE enables run-length encoding.
	PassDictionary                  // PassDictionary enables the row dictionary.
	PassSlices                      // PassSlices enables repeated-slice references.

	PassAll = PassRLE | PassDictionary | PassSlices
)

func (p Pass) String() string {
	switch p {
	case PassRLE:
		return "rle"
	case PassDictionary:
		return "dictionary"
	case PassSlices:
		return "slices"
	case PassAll:
		return "all"
	case 0:
		return "none"
	default:
		return fmt.Sprintf("passes(%03b)", uint8(p))
	}
}

// Config holds the tuning parameters of the compression passes.
//
// The defaults follow the values that worked best on real modules; none of
// them is part of the byte format except ShortGaps, which the container
// records.
type Config struct {
	// Passes selects which passes Compress runs.
	Passes Pass
	// MinRunLength is the shortest run of identical rows worth an RLE symbol.
	MinRunLength int
	// ShortGaps enables short-gap symbols and the matching dictionary bias.
	ShortGaps bool
	// DictionaryCap bounds the number of row dictionary entries.
	DictionaryCap int
	// MinDictionaryFields is the minimum number of non-zero fields a row needs
	// to be substituted by a Dictionary symbol.
	MinDictionaryFields int
	// MaxSlices bounds the number of registered slices.
	MaxSlices int
	// MinSearchLength is the stream length below which no slice search runs.
	MinSearchLength int
	// MinSliceLength and MaxSliceLength bound candidate slice lengths.
	MinSliceLength int
	MaxSliceLength int
	// MaxSlicePool bounds the number of symbols in the slice dictionary.
	MaxSlicePool int
}

// DefaultConfig returns the default tuning.
func DefaultConfig() Config {
	return Config{
		Passes:              PassAll,
		MinRunLength:        2,
		ShortGaps:           true,
		DictionaryCap:       120,
		MinDictionaryFields: 2,
		MaxSlices:           64,
		MinSearchLength:     8,
		MinSliceLength:      SliceLengthBias,
		MaxSliceLength:      20,
		MaxSlicePool:        MaxTableCount,
	}
}

// DictionaryBias returns the index of the first row dictionary entry.
func (c Config) DictionaryBias() int {
	if c.ShortGaps {
		return ShortGapSlots
	}

	return 0
}

// Validate checks that the configuration fits the byte format.
func (c Config) Validate() error {
	switch {
	case c.Passes&^PassAll != 0:
		return fmt.Errorf("%w: unknown passes %s", errs.ErrInvalidStreamConfiguration, c.Passes)
	case c.MinRunLength < 2:
		return fmt.Errorf("%w: min run length %d < 2", errs.ErrInvalidStreamConfiguration, c.MinRunLength)
	case c.DictionaryCap < 0 || c.DictionaryBias()+c.DictionaryCap > symbol.MaxDictionaryIndex+1:
		return fmt.Errorf("%w: dictionary cap %d with bias %d exceeds %d indexes",
			errs.ErrInvalidStreamConfiguration, c.DictionaryCap, c.DictionaryBias(), symbol.MaxDictionaryIndex+1)
	case c.MaxSlices < 0 || c.MaxSlices > symbol.MaxReferenceIndex+1:
		return fmt.Errorf("%w: max slices %d", errs.ErrInvalidStreamConfiguration, c.MaxSlices)
	case c.MinSliceLength < SliceLengthBias || c.MaxSliceLength < c.MinSliceLength ||
		c.MaxSliceLength > SliceLengthBias+MaxTableCount:
		return fmt.Errorf("%w: slice length range %d..%d",
			errs.ErrInvalidStreamConfiguration, c.MinSliceLength, c.MaxSliceLength)
	case c.MinSearchLength < c.MinSliceLength:
		return fmt.Errorf("%w: min search length %d < min slice length %d",
			errs.ErrInvalidStreamConfiguration, c.MinSearchLength, c.MinSliceLength)
	case c.MaxSlicePool < 0 || c.MaxSlicePool > MaxTableCount:
		return fmt.Errorf("%w: max slice pool %d", errs.ErrInvalidStreamConfiguration, c.MaxSlicePool)
	}

	return nil
}
