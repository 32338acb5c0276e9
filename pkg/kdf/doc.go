// Package kdf derives keys with scrypt (RFC 7914) behind an explicit
// parameter contract.
//
// The mixing function itself comes from golang.org/x/crypto/scrypt. This
// package owns what surrounds it: validation of the cost parameters against
// the bounds the primitive and the RFC can honour, an exact integer log2 for
// the cost factor, an optional memory budget, and a typed error surface.
//
// # Parameters
//
// Params carries the linear cost factor N, the block size r, the
// parallelization p and the output length. N must be a power of two greater
// than one; its exponent is computed by bit scanning, never through a
// floating point logarithm. ParamsFromLog2 builds Params from the exponent
// form used by some callers.
//
// # Usage
//
//	params := kdf.Params{N: 16384, R: 8, P: 1, KeyLen: 32}
//	key, err := kdf.Derive(password, salt, params)
//	if err != nil {
//	    switch {
//	    case errors.Is(err, kdf.ErrInvalidParams):
//	        // caller error
//	    case errors.Is(err, kdf.ErrComputationFailure):
//	        // out of memory budget or primitive failure
//	    }
//	}
//
// # Resources
//
// Each call allocates a scratch area of roughly 128*N*r bytes that is local to
// the call and released when it returns. Nothing is pooled or cached, so calls
// may run concurrently from independent goroutines. A derivation cannot be
// interrupted once started.
package kdf
