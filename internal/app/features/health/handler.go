// internal/app/features/health/handler.go
package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

type Handler struct {
	Client *mongo.Client
	Log    *zap.Logger
}

func NewHandler(client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{Client: client, Log: logger}
}

// report is the /health body. LiveFeeds is false on a standalone mongod,
// which cannot serve the change streams behind the live dashboards.
type report struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	LiveFeeds bool   `json:"live_feeds"`
	Error     string `json:"error,omitempty"`
}

// Serve answers 200 when Mongo responds to a ping and 503 otherwise.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health check: ping failed", zap.Error(err))
		writeReport(w, http.StatusServiceUnavailable, report{
			Status:   "error",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}

	writeReport(w, http.StatusOK, report{
		Status:    "ok",
		Database:  "connected",
		LiveFeeds: h.liveFeedsAvailable(ctx),
	})
}

func writeReport(w http.ResponseWriter, status int, rep report) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(rep)
}

// liveFeedsAvailable asks the server whether it is a replica set member or
// a mongos router.
func (h *Handler) liveFeedsAvailable(ctx context.Context) bool {
	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	cmd := bson.D{{Key: "hello", Value: 1}}
	if err := h.Client.Database("admin").RunCommand(ctx, cmd).Decode(&hello); err != nil {
		h.Log.Warn("health check: hello failed", zap.Error(err))
		return false
	}
	return hello.SetName != "" || hello.Msg == "isdbgrid"
}
