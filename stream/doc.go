// Package stream implements the event-stream codec for one tracker channel.
//
// A Stream starts as the channel's flat sequence of RowEvent symbols, one per
// pattern row in playback order, and is rewritten in place by up to three
// passes:
//
//  1. CompressRLE collapses runs of identical rows into a row plus an RLE
//     symbol, and optionally turns short runs of empty rows into one-byte gap
//     symbols.
//  2. CompressDictionary moves the most frequent multi-field rows into a
//     per-channel row dictionary and replaces them with Dictionary symbols.
//  3. CompressSlices greedily moves repeated multi-symbol slices into a
//     slice dictionary and replaces every occurrence, the first included,
//     with a Reference symbol.
//
// Expand is the decoder: it reproduces the original rows from the compressed
// symbols and the side tables, and every pass is verified against it.
// AppendBlock and ParseBlock convert a compressed stream to and from its
// serialized per-channel block.
//
// A Stream is owned by a single goroutine for its whole lifetime. Distinct
// channels share nothing and may be processed concurrently.
package stream
