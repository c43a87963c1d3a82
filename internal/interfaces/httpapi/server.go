package httpapi

import (
	"net/http"

	"github.com/draftday/draftsim/internal/platform/logging"
)

// RouterOptions carries the knobs that shape the middleware chain.
type RouterOptions struct {
	CORSAllowedOrigins []string
	CaptureRequestBody bool
	RequestBodyMax     int
}

func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	opts RouterOptions,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerCatalogRoutes(mux, handler)
	registerDraftRoutes(mux, handler)
	registerSimulationRoutes(mux, handler)
	registerArchiveRoutes(mux, handler)

	var chain http.Handler = recoverPanic(logger, mux)
	chain = CORS(opts.CORSAllowedOrigins, chain)
	if opts.CaptureRequestBody {
		chain = CaptureRequestBody(opts.RequestBodyMax, chain)
	}
	chain = RequestLogging(logger, chain)
	return RequestTracing(chain)
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
