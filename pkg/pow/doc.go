// Package pow implements scrypt based proof-of-work challenges.
//
// A server issues challenges: base64 encoded JSON documents that carry the
// scrypt parameters (N, r, p, klen), a random preimage (i, base64), a
// difficulty mask (d, hex) and the difficulty level (dl, in bits). A client
// searches for a nonce such that
//
//	scrypt(password = nonce, salt = preimage, N, r, p, klen)
//
// rendered as lowercase hex ends in a suffix that compares less than or equal
// to the mask. The server recomputes one derivation to verify the answer.
//
// Every derivation goes through hexkdf, so the nonce and preimage cross the
// same hex boundary on both sides.
//
// # Components
//
//   - Challenge, EncodeChallenge, DecodeChallenge: the wire format.
//   - DifficultyMask, Meets, NonceHex: the puzzle arithmetic.
//   - Service: issues challenge batches and verifies solutions. Issued
//     challenges are recorded in a Store and can be redeemed once.
//   - MemoryStore and RedisStore: Store implementations.
//   - Solve: a parallel solver over a pool of worker goroutines.
//
// # Usage
//
//	store := pow.NewMemoryStore()
//	defer store.Close()
//
//	svc := pow.NewService(store, pow.WithDifficultyLevel(8))
//	challenges, _ := svc.Issue(ctx)
//
//	sol, _ := pow.Solve(ctx, challenges[0], pow.WithWorkers(4))
//	res, err := svc.Verify(ctx, challenges[0], sol.Nonce)
package pow
