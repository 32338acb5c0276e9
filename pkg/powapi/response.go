package powapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/proofengine/pkg/hexkdf"
	"github.com/dmitrymomot/proofengine/pkg/pow"
)

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type verifyRequest struct {
	Challenge string `json:"powChallenge"`
	NonceHex  string `json:"nonceHex"`
}

type scryptRequest struct {
	Password string `json:"password"`
	Salt     string `json:"salt"`
	N        uint32 `json:"n"`
	R        uint32 `json:"r"`
	P        uint32 `json:"p"`
	DKLen    uint32 `json:"dklen"`
}

type scryptResponse struct {
	Key string `json:"key"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, statusResponse{Status: "error", Error: msg})
}

// verifyErrors maps verification failures to a status code. Order matters:
// the first sentinel found in the error chain wins.
var verifyErrors = []struct {
	err    error
	status int
}{
	{pow.ErrMissingInput, http.StatusBadRequest},
	{pow.ErrInvalidNonce, http.StatusBadRequest},
	{pow.ErrInvalidChallenge, http.StatusBadRequest},
	{pow.ErrInvalidPreimage, http.StatusBadRequest},
	{pow.ErrUnknownChallenge, http.StatusBadRequest},
	{pow.ErrDifficultyNotMet, http.StatusBadRequest},
	{pow.ErrStore, http.StatusServiceUnavailable},
	{pow.ErrComputation, http.StatusInternalServerError},
}

func verifyStatus(err error) (int, string) {
	for _, e := range verifyErrors {
		if errors.Is(err, e.err) {
			return e.status, e.err.Error()
		}
	}
	return http.StatusInternalServerError, pow.ErrComputation.Error()
}

func scryptStatus(err error) (int, string) {
	kind := hexkdf.Kind(err)
	switch kind {
	case hexkdf.InvalidEncoding, hexkdf.InvalidParams:
		return http.StatusBadRequest, kind.String()
	default:
		return http.StatusInternalServerError, hexkdf.ComputationFailure.String()
	}
}
