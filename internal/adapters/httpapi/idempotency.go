package httpapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mitchsmii/EllaRises/internal/ports/out/idempotency"
)

// idempotencyFingerprint builds the replay key for a mutating request:
// caller key + authenticated subject + method + route pattern + body hash.
// Returns false when the caller sent no Idempotency-Key or no store is wired.
func (s *Server) idempotencyFingerprint(r *http.Request, route string, body []byte) (idempotency.Fingerprint, bool) {
	if s.Idem == nil {
		return idempotency.Fingerprint{}, false
	}
	key := r.Header.Get("Idempotency-Key")
	if key == "" {
		return idempotency.Fingerprint{}, false
	}
	subject := ""
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		subject = claims.Email
	}
	sum := sha256.Sum256(body)
	return idempotency.Fingerprint{
		Key:      idempotency.Key(key),
		Subject:  subject,
		Method:   r.Method,
		Route:    route,
		BodyHash: hex.EncodeToString(sum[:]),
	}, true
}

// replayIdempotent writes the stored response for a repeated request.
// Returns true when a replay happened and the handler should stop.
func (s *Server) replayIdempotent(w http.ResponseWriter, r *http.Request, fp idempotency.Fingerprint) bool {
	rec, ok, err := s.Idem.Get(r.Context(), fp)
	if err != nil {
		s.writeServiceError(w, r, err)
		return true
	}
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", rec.ContentType)
	w.WriteHeader(rec.StatusCode)
	_, _ = w.Write(rec.Body)
	return true
}

// storeIdempotent records a successful response for replay. Failures here
// are logged, never surfaced: the real response already happened.
func (s *Server) storeIdempotent(ctx context.Context, fp idempotency.Fingerprint, status int, body []byte) {
	err := s.Idem.Put(ctx, fp, idempotency.Record{
		StatusCode:  status,
		ContentType: "application/json",
		Body:        body,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		s.Log.Warn("idempotency record not stored", zap.Error(err))
	}
}
