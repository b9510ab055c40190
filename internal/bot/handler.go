// Package bot wires the metadata pipeline to a chat transport. The
// transport itself stays behind the Event interface: the handler only
// needs a sender, an optional attached image URL and a way to reply.
package bot

import (
	"context"

	"github.com/nightdust/imgmeta/internal/analyze"
	"github.com/nightdust/imgmeta/internal/archive"
	"github.com/nightdust/imgmeta/internal/config"
	"github.com/nightdust/imgmeta/internal/fetch"
	"github.com/nightdust/imgmeta/internal/geocode"
	"github.com/nightdust/imgmeta/internal/logger"
	"github.com/nightdust/imgmeta/internal/render"
	"github.com/nightdust/imgmeta/internal/session"
)

const msgDownloadFailed = "Image download failed, please try again"

// Event is one incoming chat message.
type Event interface {
	SenderID() string
	// ImageURL returns the URL of the attached image, or "" when the
	// message carries none.
	ImageURL() string
	Reply(text string) error
}

// Handler implements the two-step analyze flow: a command with an
// image attached is processed immediately; a bare command arms a
// waiting session consumed by the user's next image message.
type Handler struct {
	cfg        *config.Config
	downloader *fetch.Downloader
	analyzer   *analyze.Analyzer
	resolver   *geocode.Resolver
	sessions   *session.Store
	arch       *archive.Archive
}

// NewHandler creates a chat handler. arch may be nil to disable
// archival.
func NewHandler(cfg *config.Config, downloader *fetch.Downloader, analyzer *analyze.Analyzer,
	resolver *geocode.Resolver, sessions *session.Store, arch *archive.Archive) *Handler {
	return &Handler{
		cfg:        cfg,
		downloader: downloader,
		analyzer:   analyzer,
		resolver:   resolver,
		sessions:   sessions,
		arch:       arch,
	}
}

// HandleCommand processes the analyze command.
func (h *Handler) HandleCommand(ctx context.Context, ev Event) error {
	if url := ev.ImageURL(); url != "" {
		return h.process(ctx, ev, url)
	}

	h.sessions.Put(ev.SenderID(), func() {
		if err := ev.Reply(h.cfg.Bot.TimeoutPrompt); err != nil {
			logger.Warn("failed to send timeout prompt to %s: %v", ev.SenderID(), err)
		}
	})
	return ev.Reply(h.cfg.Bot.SendImagePrompt)
}

// HandleMessage watches ordinary messages for the image a waiting
// user was asked to send. Messages from users without a live session
// are ignored.
func (h *Handler) HandleMessage(ctx context.Context, ev Event) error {
	url := ev.ImageURL()
	if url == "" {
		return nil
	}
	if !h.sessions.Claim(ev.SenderID()) {
		return nil
	}
	return h.process(ctx, ev, url)
}

// Close releases the waiting-session store.
func (h *Handler) Close() {
	h.sessions.Close()
}

func (h *Handler) process(ctx context.Context, ev Event, url string) error {
	data, err := h.downloader.Download(ctx, url)
	if err != nil {
		logger.Error("download for %s failed: %v", ev.SenderID(), err)
		return ev.Reply(msgDownloadFailed)
	}

	res := h.analyzer.Parse(data)

	address := ""
	if res.GPS.Valid {
		address = h.resolver.Resolve(ctx, res.GPS.Lat, res.GPS.Lon)
	}

	if h.arch != nil && res.Error == "" {
		if err := h.arch.Store(ctx, url, data); err != nil {
			logger.Warn("archival failed: %v", err)
		}
	}

	report := render.Report(res, address, render.Options{MaxExifShow: h.cfg.Bot.MaxExifShow})
	return ev.Reply(report)
}
