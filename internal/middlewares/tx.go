package middlewares

import (
	"bytes"
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-inventory/internal/logger"
)

// TxMiddleware runs the handler inside a database transaction. The response is
// buffered so the outcome of COMMIT decides what the client sees: statuses
// below 400 commit, anything else (or a panic) rolls back. Hooks registered
// with AfterCommit and AfterRollback run once the outcome is known.
func TxMiddleware(db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tx, err := db.BeginTxx(r.Context(), nil)
			if err != nil {
				logger.Log.Errorw("failed to begin transaction", "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			state := &txState{tx: tx}

			defer func() {
				if rec := recover(); rec != nil {
					_ = tx.Rollback()
					runHooks(state.afterRollback)
					panic(rec)
				}
			}()

			buf := newBufferedWriter()
			next.ServeHTTP(buf, r.WithContext(setTxToContext(r.Context(), state)))

			if buf.status >= http.StatusBadRequest {
				if err := tx.Rollback(); err != nil {
					logger.Log.Errorw("failed to rollback transaction", "error", err)
				}
				buf.flushTo(w)
				runHooks(state.afterRollback)
				return
			}

			if err := tx.Commit(); err != nil {
				logger.Log.Errorw("failed to commit transaction", "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				runHooks(state.afterRollback)
				return
			}
			buf.flushTo(w)
			runHooks(state.afterCommit)
		})
	}
}

// bufferedWriter holds a response until the transaction outcome is known.
type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: make(http.Header), status: http.StatusOK}
}

func (b *bufferedWriter) Header() http.Header {
	return b.header
}

func (b *bufferedWriter) WriteHeader(code int) {
	b.status = code
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	return b.body.Write(p)
}

func (b *bufferedWriter) flushTo(w http.ResponseWriter) {
	dst := w.Header()
	for k, v := range b.header {
		dst[k] = v
	}
	w.WriteHeader(b.status)
	_, _ = w.Write(b.body.Bytes())
}

// txState is the request transaction and the hooks waiting on its outcome.
type txState struct {
	tx            *sqlx.Tx
	afterCommit   []func()
	afterRollback []func()
}

func runHooks(hooks []func()) {
	for _, fn := range hooks {
		fn()
	}
}

type txKey struct{}

// setTxToContext stores a transaction in the context
func setTxToContext(ctx context.Context, state *txState) context.Context {
	return context.WithValue(ctx, txKey{}, state)
}

// GetTxFromContext retrieves the transaction from the context. Returns nil if not present.
func GetTxFromContext(ctx context.Context) *sqlx.Tx {
	state, _ := ctx.Value(txKey{}).(*txState)
	if state == nil {
		return nil
	}
	return state.tx
}

// AfterCommit registers fn to run after the request transaction commits.
// It reports false when ctx carries no transaction.
func AfterCommit(ctx context.Context, fn func()) bool {
	state, _ := ctx.Value(txKey{}).(*txState)
	if state == nil {
		return false
	}
	state.afterCommit = append(state.afterCommit, fn)
	return true
}

// AfterRollback registers fn to run after the request transaction rolls back,
// including a failed COMMIT. It reports false when ctx carries no transaction.
func AfterRollback(ctx context.Context, fn func()) bool {
	state, _ := ctx.Value(txKey{}).(*txState)
	if state == nil {
		return false
	}
	state.afterRollback = append(state.afterRollback, fn)
	return true
}
