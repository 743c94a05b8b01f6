package admin

import (
	"fmt"
	"net/http"

	"github.com/dustin/go-humanize"
	responder "github.com/freekieb7/fileresponder/http"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// StatsSource is implemented by *responder.Handler.
type StatsSource interface {
	Stats() responder.Stats
}

// NewHandler serves the operational endpoints next to the file responder.
func NewHandler(stats StatsSource) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, r *http.Request) {
		snapshot := stats.Stats()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "connections: %d\n", snapshot.ActiveConnections)
		fmt.Fprintf(w, "requests: %d\n", snapshot.Requests)
		fmt.Fprintf(w, "sent: %s\n", humanize.Bytes(uint64(max(snapshot.SentBytes, 0))))
	})

	return otelhttp.NewHandler(mux, "admin")
}
