package middleware

import (
	"log/slog"
	"net/http"

	"games_catalog/internal/session"
)

type SessionMiddleware struct {
	store session.Store
	log   *slog.Logger
}

func NewSessionMiddleware(store session.Store, log *slog.Logger) *SessionMiddleware {
	return &SessionMiddleware{store: store, log: log}
}

// commitWriter saves the session right before the response headers go out.
type commitWriter struct {
	http.ResponseWriter
	sess *session.Session
	log  *slog.Logger
	done bool
}

func (w *commitWriter) commit() {
	if w.done {
		return
	}
	w.done = true
	if err := w.sess.Commit(w.ResponseWriter); err != nil {
		w.log.Error("failed to save session", slog.String("error", err.Error()))
	}
}

func (w *commitWriter) WriteHeader(code int) {
	w.commit()
	w.ResponseWriter.WriteHeader(code)
}

func (w *commitWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

func (w *commitWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// LoadSession puts the client's session into the request context. A session
// that cannot be read is treated as anonymous.
func (m *SessionMiddleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st, err := m.store.Load(r)
		if err != nil {
			m.log.Debug("dropping unreadable session", slog.String("error", err.Error()))
			st = session.State{}
		}

		sess := session.New(m.store, r, st)
		cw := &commitWriter{ResponseWriter: w, sess: sess, log: m.log}

		next.ServeHTTP(cw, r.WithContext(session.NewContext(r.Context(), sess)))
		cw.commit()
	})
}
