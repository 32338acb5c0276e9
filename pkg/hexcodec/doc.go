// Package hexcodec converts between hexadecimal text and raw bytes.
//
// It is the encoding boundary for callers that can only exchange text: inputs
// arrive as hex strings, get decoded to bytes, and results are handed back as
// lowercase hex.
//
// # Policies
//
// Decoding supports two policies:
//
//   - Strict (default) rejects odd-length input and any non-hex digit with an
//     error wrapping ErrInvalidEncoding.
//   - Lenient never fails. It consumes floor(len/2) character pairs, replaces
//     every malformed pair with 0x00 and silently drops a trailing single
//     character. This mirrors the behaviour of older browser-side solvers and
//     exists for compatibility only.
//
// Both policies accept upper and lower case digits. Encode always emits
// lowercase.
//
// # Usage
//
//	b, err := hexcodec.Decode("DEADbeef", hexcodec.Strict)
//	if err != nil {
//	    // errors.Is(err, hexcodec.ErrInvalidEncoding)
//	}
//	s := hexcodec.Encode(b) // "deadbeef"
package hexcodec
