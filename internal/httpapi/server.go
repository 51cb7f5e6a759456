package httpapi

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ttsd/internal/common/fsutil"
	"ttsd/internal/gpu"
	"ttsd/internal/registry"
	"ttsd/internal/scheduler"
	"ttsd/pkg/types"
)

// Service defines the scheduler methods required by the HTTP API layer.
type Service interface {
	Submit(input types.SynthesisInput) (string, error)
	GetStatus(id string) (scheduler.Job, error)
	QueueStatus() types.QueueStatusResponse
	RemainingSeconds() float64
	Ready() bool
}

// Options carries the read-only collaborators of the HTTP layer.
type Options struct {
	// Catalog resolves demo voice presets; nil disables the demo routes'
	// content (they respond with empty listings).
	Catalog *registry.Catalog
	// Profile is the active GPU tuning profile, reported by /api/system/info.
	Profile gpu.Profile
	// OutputsDir is where generated wav files land.
	OutputsDir string
}

func NewMux(svc Service, opts Options) http.Handler {
	if opts.Catalog == nil {
		opts.Catalog = registry.NewCatalog(nil)
	}
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	r.Use(RequestLogger)
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsAllowedOrigins,
			AllowedMethods:   corsAllowedMethods,
			AllowedHeaders:   corsAllowedHeaders,
			AllowCredentials: true,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/api/tts/generate", func(w http.ResponseWriter, r *http.Request) {
		var req types.SynthesisRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			writeJSONError(w, http.StatusBadRequest, "text is required")
			return
		}
		if req.ReferenceAudio == "" {
			writeJSONError(w, http.StatusBadRequest, "reference audio is required")
			return
		}
		if !fsutil.PathExists(req.ReferenceAudio) {
			writeJSONError(w, http.StatusNotFound, "reference audio file not found")
			return
		}
		submit(w, svc, types.SynthesisInput{
			Text:           req.Text,
			ReferenceAudio: req.ReferenceAudio,
			EmoAudio:       req.EmoAudio,
			EmoAlpha:       req.EmoAlpha,
			EmoVector:      req.EmoVector,
			InferMode:      req.InferMode,
			Parameters:     req.Parameters,
		}, "synthesis queued")
	})

	r.Post("/api/demo/use", func(w http.ResponseWriter, r *http.Request) {
		var req types.DemoVoiceRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			writeJSONError(w, http.StatusBadRequest, "text is required")
			return
		}
		refPath := opts.Catalog.Resolve(req.Category, req.Subcategory, req.Filename)
		if refPath == "" {
			writeJSONError(w, http.StatusNotFound, "demo audio not found")
			return
		}
		submit(w, svc, types.SynthesisInput{
			Text:           req.Text,
			ReferenceAudio: refPath,
			Parameters:     req.Parameters,
		}, "demo voice synthesis queued")
	})

	r.Get("/api/tts/status/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		job, err := svc.GetStatus(id)
		if err != nil {
			if scheduler.IsJobNotFound(err) {
				writeJSONError(w, http.StatusNotFound, err.Error())
				return
			}
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp := types.JobStatusResponse{
			JobID:   job.ID,
			Status:  string(job.Status),
			Message: "job " + string(job.Status),
			Error:   job.ErrorMessage,
		}
		if job.ResultPath != "" {
			resp.ResultURL = "/api/tts/result/" + job.ID
		}
		if !job.StartedAt.IsZero() {
			resp.ElapsedSeconds = job.Elapsed(time.Now()).Seconds()
		}
		if job.Status == scheduler.StatusRunning {
			resp.EstimatedRemaining = svc.RemainingSeconds()
		}
		writeJSON(w, http.StatusOK, resp)
	})

	r.Get("/api/tts/result/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		job, err := svc.GetStatus(id)
		if err != nil {
			if scheduler.IsJobNotFound(err) {
				writeJSONError(w, http.StatusNotFound, err.Error())
				return
			}
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		switch {
		case job.Status == scheduler.StatusCompleted && job.ResultPath != "":
			if !fsutil.PathExists(job.ResultPath) {
				writeJSONError(w, http.StatusNotFound, "result file not found")
				return
			}
			serveWav(w, r, job.ResultPath)
		case job.Status == scheduler.StatusFailed:
			msg := job.ErrorMessage
			if msg == "" {
				msg = "job failed"
			}
			writeJSONError(w, http.StatusInternalServerError, msg)
		default:
			writeJSONError(w, http.StatusAccepted, "job not completed yet")
		}
	})

	r.Get("/api/queue/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.QueueStatus())
	})

	r.Get("/api/system/info", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, systemInfo(opts.Profile, opts.Catalog))
	})

	r.Get("/api/demo/categories", func(w http.ResponseWriter, r *http.Request) {
		cats := opts.Catalog.Categories()
		names := make([]string, 0, len(cats))
		for name := range cats {
			names = append(names, name)
		}
		sort.Strings(names)
		out := make([]map[string]any, 0, len(names))
		for _, name := range names {
			subs := cats[name]
			subNames := make([]string, 0, len(subs))
			for sub := range subs {
				subNames = append(subNames, sub)
			}
			sort.Strings(subNames)
			subList := make([]map[string]any, 0, len(subNames))
			for _, sub := range subNames {
				subList = append(subList, map[string]any{"name": sub, "audio_count": subs[sub]})
			}
			out = append(out, map[string]any{"name": name, "subcategories": subList})
		}
		writeJSON(w, http.StatusOK, map[string]any{"categories": out})
	})

	r.Get("/api/demo/voices/{category}/{subcategory}", func(w http.ResponseWriter, r *http.Request) {
		category := chi.URLParam(r, "category")
		subcategory := chi.URLParam(r, "subcategory")
		voices := opts.Catalog.VoicesIn(category, subcategory)
		if len(voices) == 0 {
			writeJSONError(w, http.StatusNotFound, "category or subcategory not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"category":    category,
			"subcategory": subcategory,
			"voices":      voices,
		})
	})

	r.Get("/api/audio/recent", func(w http.ResponseWriter, r *http.Request) {
		files, err := fsutil.RecentWavs(opts.OutputsDir, 10)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"files": files})
	})

	r.Get("/api/audio/download/{filename}", func(w http.ResponseWriter, r *http.Request) {
		filename := chi.URLParam(r, "filename")
		// Reject any path component to keep the lookup inside outputs.
		if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
			writeJSONError(w, http.StatusBadRequest, "invalid filename")
			return
		}
		path := filepath.Join(opts.OutputsDir, filename)
		if !fsutil.PathExists(path) {
			writeJSONError(w, http.StatusNotFound, "audio file not found")
			return
		}
		serveWav(w, r, path)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// submit runs admission and maps scheduler errors to HTTP codes.
func submit(w http.ResponseWriter, svc Service, input types.SynthesisInput, msg string) {
	id, err := svc.Submit(input)
	if err != nil {
		switch {
		case scheduler.IsQueueFull(err):
			IncrementBackpressure("queue_full")
			writeJSONError(w, http.StatusTooManyRequests, err.Error())
		case scheduler.IsShuttingDown(err):
			writeJSONError(w, http.StatusServiceUnavailable, err.Error())
		default:
			if he, ok := err.(HTTPError); ok {
				writeJSONError(w, he.StatusCode(), he.Error())
				return
			}
			writeJSONError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, types.SubmitResponse{
		Success:   true,
		JobID:     id,
		Message:   msg,
		ResultURL: "/api/tts/result/" + id,
	})
}

// decodeJSON enforces content type and body size, then decodes into dst.
// On failure it writes the error response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func serveWav(w http.ResponseWriter, r *http.Request, path string) {
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	http.ServeFile(w, r, path)
}

func systemInfo(prof gpu.Profile, cat *registry.Catalog) types.SystemInfoResponse {
	return types.SystemInfoResponse{
		System: map[string]any{
			"gpu_available": prof.Name != "CPU",
			"gpu_name":      prof.Name,
			"vram_gb":       prof.VRAMGB,
		},
		Model: map[string]any{
			"fp16_enabled":        prof.UseFP16,
			"cuda_kernel_enabled": prof.UseCUDAKernel,
			"deepspeed_enabled":   prof.UseDeepSpeed,
		},
		Capabilities: map[string]any{
			"fast_inference":   prof.OptimizeForSpeed,
			"batch_processing": prof.SentencesBucketMaxSize > 1,
			"demo_voices":      len(cat.Voices()) > 0,
			"queue_management": true,
		},
	}
}

// writeJSON writes v with the given status, falling back to a 500 payload on
// encode failure.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are gone; nothing more to do than log via middleware.
		return
	}
}
