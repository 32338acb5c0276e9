package powapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrymomot/proofengine/pkg/logger"
)

func (a *api) getChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := a.svc.Issue(r.Context())
	if err != nil {
		a.logger.ErrorContext(r.Context(), "failed to issue challenges", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to issue challenges")
		return
	}
	writeJSON(w, http.StatusOK, challenges)
}

// verify accepts the solution in a JSON body or, for older clients, in the
// query string.
func (a *api) verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Challenge == "" {
		req.Challenge = r.URL.Query().Get("challenge")
	}
	if req.NonceHex == "" {
		req.NonceHex = r.URL.Query().Get("nonce")
	}

	if _, err := a.svc.Verify(r.Context(), req.Challenge, req.NonceHex); err != nil {
		status, msg := verifyStatus(err)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Status:  "success",
		Message: "Challenge verified successfully",
	})
}

func (a *api) scrypt(w http.ResponseWriter, r *http.Request) {
	var req scryptRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key, err := a.deriver.Scrypt(req.Password, req.Salt, req.N, req.R, req.P, req.DKLen)
	if err != nil {
		status, msg := scryptStatus(err)
		if status >= http.StatusInternalServerError {
			a.logger.ErrorContext(r.Context(), "scrypt failed", logger.Error(err))
		}
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, scryptResponse{Key: key})
}

// decodeBody reads an optional JSON body. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
