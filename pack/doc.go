// Package pack converts songs to and from the packed module container.
//
// A packed module starts with a fixed 28-byte header followed by one 12-byte
// index entry per channel and the payload. The payload is the concatenation
// of every channel's event block, optionally compressed as a whole:
//
//	+--------+---------------------+----------------------------------+
//	| Header | Channel index       | Payload (None/Zstd/S2/LZ4)       |
//	| 28 B   | 12 B x channels     | block 0 | block 1 | ... | block n |
//	+--------+---------------------+----------------------------------+
//
// Each channel is compressed independently by the stream package, so a player
// can decode a single channel without touching the others.
//
// Basic usage:
//
//	enc, err := pack.NewEncoder(pack.WithCompression(format.CompressionZstd))
//	if err != nil {
//	    return err
//	}
//	data, err := enc.Encode(s)
//	if err != nil {
//	    return err
//	}
//
//	dec, err := pack.NewDecoder(data)
//	if err != nil {
//	    return err
//	}
//	rows, err := dec.Channel(0)
package pack
