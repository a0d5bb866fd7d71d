package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"os"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const batchSize = 50

// PGHandler is an slog.Handler that batches ERROR+ logs to the database.
type PGHandler struct {
	sink  *pgSink
	attrs []slog.Attr
}

type pgSink struct {
	db     *gorm.DB
	mu     sync.Mutex
	buffer []models.SystemLog
	ticker *time.Ticker
	done   chan struct{}
	// flush failures go here so they never re-enter buffer
	fallback *slog.Logger
}

func NewPGHandler(db *gorm.DB) *PGHandler {
	sink := &pgSink{
		db:       db,
		buffer:   make([]models.SystemLog, 0, batchSize),
		ticker:   time.NewTicker(5 * time.Second),
		done:     make(chan struct{}),
		fallback: slog.New(stdoutHandler(os.Stdout, slog.LevelError)),
	}
	go sink.flushLoop()
	return &PGHandler{sink: sink}
}

func (s *pgSink) flushLoop() {
	for {
		select {
		case <-s.ticker.C:
			s.flush()
		case <-s.done:
			s.flush()
			return
		}
	}
}

func (s *pgSink) flush() {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.buffer
	s.buffer = make([]models.SystemLog, 0, batchSize)
	s.mu.Unlock()

	if err := s.db.CreateInBatches(batch, batchSize).Error; err != nil {
		s.fallback.Error("failed to flush system logs to DB", "error", err, "count", len(batch))
	}
}

// Stop flushes what is buffered and ends the background loop.
func (h *PGHandler) Stop() {
	h.sink.ticker.Stop()
	close(h.sink.done)
}

// Flush writes buffered records now.
func (h *PGHandler) Flush() {
	h.sink.flush()
}

// Enabled only handles ERROR and above.
func (h *PGHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *PGHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	apply := func(a slog.Attr) bool {
		switch a.Key {
		case "request_id":
			entry.RequestID = a.Value.String()
		case "user_id":
			s := a.Value.String()
			entry.UserID = &s
		case "report_id":
			if id, ok := toUint(a.Value); ok {
				entry.ReportID = &id
			}
		case "action":
			entry.Action = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		case "latency_ms":
			if f, ok := a.Value.Any().(float64); ok {
				entry.LatencyMs = int(math.Round(f))
			}
		default:
			extra[a.Key] = a.Value.Any()
		}
		return true
	}
	for _, a := range h.attrs {
		apply(a)
	}
	record.Attrs(apply)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	s := h.sink
	s.mu.Lock()
	s.buffer = append(s.buffer, entry)
	needFlush := len(s.buffer) >= batchSize
	s.mu.Unlock()

	if needFlush {
		go s.flush()
	}
	return nil
}

func (h *PGHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &PGHandler{sink: h.sink, attrs: merged}
}

func (h *PGHandler) WithGroup(string) slog.Handler {
	return h
}

func toUint(v slog.Value) (uint, bool) {
	switch v.Kind() {
	case slog.KindUint64:
		return uint(v.Uint64()), true
	case slog.KindInt64:
		if v.Int64() >= 0 {
			return uint(v.Int64()), true
		}
	}
	return 0, false
}
