package assessor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/prescreen/internal/analysis"
	"github.com/alexanderramin/prescreen/internal/domain"
	"github.com/alexanderramin/prescreen/internal/llm"
)

// AnalyzePath is the route the analysis client posts to.
const AnalyzePath = "/analyze-symptoms"

const maxBodyBytes = 1 << 20

// Assessor produces an assessment for a questionnaire.
type Assessor interface {
	Assess(ctx context.Context, fields domain.FieldMap) (domain.AnalysisResult, error)
}

// NewRouter builds the collaborator's HTTP surface around svc.
func NewRouter(svc Assessor, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(
		requestLogger(logger),
		gin.Recovery(),
		limitBodySize(maxBodyBytes),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type", "x-request-id"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST(AnalyzePath, analyzeHandler(svc, logger))
	return router
}

func analyzeHandler(svc Assessor, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID != "" {
			c.Header("X-Request-ID", requestID)
		}

		var req analysis.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		if req.FormData == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "formData is required"})
			return
		}
		if unknown := req.FormData.Unknown(domain.KnownFields); len(unknown) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown fields: %s", joinFields(unknown))})
			return
		}

		result, err := svc.Assess(c.Request.Context(), req.FormData)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, llm.ErrNotConfigured) {
				status = http.StatusServiceUnavailable
			}
			logger.Error("analyze-symptoms failed", "request_id", requestID, "status", status, "error", err)
			c.JSON(status, analysis.Fallback(err.Error()))
			return
		}
		c.JSON(http.StatusOK, analysis.ToResponse(result))
	}
}

func joinFields(fields []domain.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http_request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetHeader("X-Request-ID"),
		)
	}
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// Serve runs handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("analysis collaborator listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
