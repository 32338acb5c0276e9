// Package powapi exposes the proof-of-work service and the hex scrypt entry
// point over HTTP.
//
// Routes:
//
//	POST /getChallenges   -> ["<base64 challenge>", ...]
//	POST /verify          <- {"powChallenge": "...", "nonceHex": "..."}
//	                         or ?challenge=...&nonce=...
//	POST /scrypt          <- {"password","salt","n","r","p","dklen"} -> {"key": "<hex>"}
//	GET  /health/live
//	GET  /health/ready
//
// The router is built on github.com/go-chi/chi/v5 with request ids, real ip
// detection, panic recovery, structured request logging and CORS handled by
// github.com/rs/cors, since browser solvers usually run on another origin.
package powapi
