// Package hexkdf is the text boundary around scrypt: password and salt come in
// as hex strings, the derived key goes out as lowercase hex.
//
// The package glues hexcodec and kdf together and maps every failure to one of
// three kinds so callers on the other side of a text-only interface can react
// without inspecting error strings:
//
//   - InvalidEncoding: password or salt is not valid hex under the active policy.
//   - InvalidParams: N is not a power of two, or r, p, dklen are out of range.
//   - ComputationFailure: the derivation could not run, e.g. the scratch area
//     exceeds the configured memory limit.
//
// The package-level Scrypt uses the strict hex policy and no memory limit. Use
// New with options for the lenient policy, logging or a memory cap:
//
//	key, err := hexkdf.Scrypt("", "", 16, 1, 1, 64)
//
//	d := hexkdf.New(hexkdf.WithPolicy(hexcodec.Lenient), hexkdf.WithLogger(log))
//	key, err = d.Scrypt(passwordHex, saltHex, 16384, 8, 1, 16)
//
// Calls never panic and share no state, so a Deriver is safe for concurrent use.
package hexkdf
