package internal

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"

	"github.com/shirou/gopsutil/process"
)

//go:embed status.html
var templatesFS embed.FS

// StatusRow is one account line on the status page.
type StatusRow struct {
	Email  string
	Name   string
	Status string
	Groups string
}

type StatsProvider func() map[string]any
type UsersProvider func() []StatusRow

type pageData struct {
	Stats map[string]any
	Users []StatusRow
}

// StartDebugServer exposes a read-only status page with server
// counters, process resource usage and the account table. It serves in
// the background and never interferes with the chat listener.
func StartDebugServer(log *slog.Logger, port int, stats StatsProvider, users UsersProvider) {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "status.html"))

	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		data := pageData{Stats: make(map[string]any)}
		if stats != nil {
			data.Stats = stats()
		}
		if users != nil {
			data.Users = users()
		}
		addSelfStats(data.Stats)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			log.Error("failed to render status page", "err", err)
		}
	})

	go func() {
		addr := fmt.Sprintf("0.0.0.0:%d", port)
		log.Info("Starting debug server", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("debug server stopped", "err", err)
		}
	}()
}

// addSelfStats decorates the stats map with process RSS and CPU usage.
// Failures are ignored: the page stays useful without them.
func addSelfStats(stats map[string]any) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return
	}
	if mem, err := p.MemoryInfo(); err == nil {
		stats["rss_mb"] = mem.RSS / 1024 / 1024
	}
	if cpu, err := p.CPUPercent(); err == nil {
		stats["cpu_percent"] = fmt.Sprintf("%.1f", cpu)
	}
}
