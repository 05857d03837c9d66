package openapi

import (
	"context"
	"net/http"

	"github.com/autom8ter/datasets"
	"github.com/gorilla/mux"
)

// watchHandler streams the dataset's record events as json websocket messages until the client disconnects
func (o *OpenAPIServer) watchHandler(db datasets.Datasets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dataset := mux.Vars(r)["dataset"]
		conn, err := o.upgrader.Upgrade(w, r, nil)
		if err != nil {
			o.logger.Warn(r.Context(), "failed to upgrade socket watch request", map[string]any{"error": err.Error()})
			return
		}
		defer conn.Close()
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.NextReader(); err != nil {
					return
				}
			}
		}()
		if err := db.Watch(ctx, dataset, func(ctx context.Context, event datasets.RecordEvent) (bool, error) {
			if err := conn.WriteJSON(event); err != nil {
				o.logger.Debug(ctx, "watcher disconnected", map[string]any{"error": err.Error()})
				return false, nil
			}
			return true, nil
		}); err != nil && ctx.Err() == nil {
			o.logger.Error(ctx, "watch failed", err, nil)
		}
	}
}
