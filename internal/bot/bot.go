package bot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"

	"morph/internal/config"
	"morph/internal/convert"
	"morph/internal/logging"
	"morph/internal/registry"
	"morph/internal/session"
	"morph/internal/workflow"
)

const sendTimeout = 30 * time.Second

// Bot syncs Matrix events and drives the session protocol.
type Bot struct {
	cfg      *config.Config
	client   *mautrix.Client
	sessions *session.Manager
	workflow *workflow.Manager
	logger   *slog.Logger

	startedAt time.Time
	ctx       context.Context
	cancel    context.CancelFunc
}

// New builds the bot with a connected mautrix client.
func New(cfg *config.Config, sessions *session.Manager, wf *workflow.Manager, logger *slog.Logger) (*Bot, error) {
	client, err := mautrix.NewClient(cfg.Matrix.Homeserver, id.UserID(cfg.Matrix.UserID), cfg.Matrix.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("creating matrix client: %w", err)
	}
	return &Bot{
		cfg:      cfg,
		client:   client,
		sessions: sessions,
		workflow: wf,
		logger:   logging.NewComponentLogger(logger, "bot"),
	}, nil
}

// Run starts syncing and blocks until the context is cancelled or the sync
// loop fails.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("starting matrix bot",
		logging.String("homeserver", b.cfg.Matrix.Homeserver),
		logging.String("user_id", b.cfg.Matrix.UserID),
	)

	b.ctx, b.cancel = context.WithCancel(ctx)
	defer b.cancel()
	b.startedAt = time.Now()

	syncer, ok := b.client.Syncer.(*mautrix.DefaultSyncer)
	if !ok {
		return fmt.Errorf("unexpected syncer type: %T", b.client.Syncer)
	}
	syncer.OnEventType(event.EventMessage, b.handleMessageEvent)

	syncErr := make(chan error, 1)
	go func() {
		syncErr <- b.client.SyncWithContext(b.ctx)
	}()

	select {
	case <-ctx.Done():
		b.logger.Info("shutting down matrix bot")
		b.cancel()
		return nil
	case err := <-syncErr:
		return fmt.Errorf("matrix sync failed: %w", err)
	}
}

func (b *Bot) handleMessageEvent(ctx context.Context, evt *event.Event) {
	if evt.Sender == id.UserID(b.cfg.Matrix.UserID) {
		return
	}
	// Sync replays history on startup; only react to fresh events.
	if time.UnixMilli(evt.Timestamp).Before(b.startedAt.Add(-time.Minute)) {
		return
	}
	if !b.isRoomAllowed(evt.RoomID.String()) {
		b.logger.Debug("ignoring event from non-allowed room", logging.String("room", evt.RoomID.String()))
		return
	}

	content, ok := evt.Content.Parsed.(*event.MessageEventContent)
	if !ok {
		return
	}

	// Handlers talk to the homeserver, so each event gets its own goroutine;
	// blocking here would stall the sync loop for every other user. The
	// session manager serializes per-user state behind its own mutex.
	switch content.MsgType {
	case event.MsgText:
		go b.handleText(evt.RoomID, evt.Sender, content.Body)
	case event.MsgFile, event.MsgImage, event.MsgAudio, event.MsgVideo:
		go b.handleFile(evt.RoomID, evt.Sender, content)
	}
}

func (b *Bot) handleText(roomID id.RoomID, sender id.UserID, body string) {
	if code, ok := parseSelection(body); ok {
		b.handleSelection(roomID, sender, code)
		return
	}

	switch strings.ToLower(strings.TrimSpace(body)) {
	case "cancel":
		if b.sessions.OnCancel(sender.String()) {
			b.sendText(roomID, "Dropped your pending file.")
		} else {
			b.sendText(roomID, "Nothing to cancel.")
		}
	case "formats":
		b.sendText(roomID, renderFormats())
	case "help", "start":
		b.sendText(roomID, renderHelp())
	}
}

func (b *Bot) handleFile(roomID id.RoomID, sender id.UserID, content *event.MessageEventContent) {
	fileName := strings.TrimSpace(content.Body)
	if fileName == "" {
		fileName = "file"
	}
	ext := ""
	if idx := strings.LastIndex(fileName, "."); idx >= 0 {
		ext = fileName[idx+1:]
	}
	var size int64
	if content.Info != nil {
		size = int64(content.Info.Size)
	}

	offer, err := b.sessions.OnFileReceived(sender.String(), string(content.URL), fileName, ext, size)
	if err != nil {
		b.sendText(roomID, renderError(err, b.sessions.MaxFileBytes()))
		return
	}
	b.sendText(roomID, renderOffer(fileName, offer))
}

func (b *Bot) handleSelection(roomID id.RoomID, sender id.UserID, code string) {
	sel, err := b.sessions.OnFormatChosen(sender.String(), code)
	if err != nil {
		b.sendText(roomID, renderError(err, b.sessions.MaxFileBytes()))
		return
	}

	statusID := b.sendText(roomID, renderWorking(sel.FileName, sel.TargetExt))

	// Conversions run off the sync goroutine; the pool bounds how many are
	// actually in flight.
	go b.runConversion(b.ctx, roomID, statusID, sel)
}

func (b *Bot) runConversion(ctx context.Context, roomID id.RoomID, statusID id.EventID, sel session.Selection) {
	result, err := b.workflow.Execute(ctx, workflow.Request{
		Selection: sel,
		SizeHint:  sel.Size,
		Fetch:     b.fetcher(sel.FileHandle),
		Deliver:   b.deliverer(roomID, sel),
	})
	if err != nil {
		b.editOrSend(roomID, statusID, renderError(err, b.sessions.MaxFileBytes()))
		return
	}
	b.editOrSend(roomID, statusID, renderDone(sel.FileName, sel.TargetExt, result.OutputBytes))
}

// fetcher downloads the stored mxc handle into the allocated input path.
func (b *Bot) fetcher(handle string) workflow.Fetch {
	return func(ctx context.Context, inputPath string) error {
		uri, err := id.ContentURIString(handle).Parse()
		if err != nil {
			return fmt.Errorf("parse content uri: %w", err)
		}
		data, err := b.client.DownloadBytes(ctx, uri)
		if err != nil {
			return fmt.Errorf("download source: %w", err)
		}
		// Events without size metadata pass the pre-download gate, so the
		// limit is re-checked against what actually arrived.
		if err := b.enforceSizeLimit(int64(len(data))); err != nil {
			return err
		}
		return os.WriteFile(inputPath, data, 0o600)
	}
}

func (b *Bot) enforceSizeLimit(n int64) error {
	limit := b.sessions.MaxFileBytes()
	if limit > 0 && n > limit {
		return convert.Wrap(convert.ErrSizeExceeded, "bot", "downloaded file", nil)
	}
	return nil
}

// deliverer uploads the artifact and posts it back into the room.
func (b *Bot) deliverer(roomID id.RoomID, sel session.Selection) workflow.Deliver {
	return func(ctx context.Context, outputPath string) error {
		data, err := os.ReadFile(outputPath)
		if err != nil {
			return fmt.Errorf("read artifact: %w", err)
		}

		name := outputName(sel.FileName, sel.TargetExt)
		mime := mimeForExt(sel.TargetExt)
		upload, err := b.client.UploadMedia(ctx, mautrix.ReqUploadMedia{
			ContentBytes: data,
			ContentType:  mime,
			FileName:     name,
		})
		if err != nil {
			return fmt.Errorf("upload artifact: %w", err)
		}

		_, err = b.client.SendMessageEvent(ctx, roomID, event.EventMessage, &event.MessageEventContent{
			MsgType: msgTypeForExt(sel.TargetExt),
			Body:    name,
			URL:     upload.ContentURI.CUString(),
			Info: &event.FileInfo{
				MimeType: mime,
				Size:     len(data),
			},
		})
		if err != nil {
			return fmt.Errorf("send artifact: %w", err)
		}
		return nil
	}
}

func (b *Bot) isRoomAllowed(roomID string) bool {
	if len(b.cfg.Matrix.AllowedRooms) == 0 {
		return true
	}
	for _, allowed := range b.cfg.Matrix.AllowedRooms {
		if allowed == roomID {
			return true
		}
	}
	return false
}

func (b *Bot) sendText(roomID id.RoomID, text string) id.EventID {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	resp, err := b.client.SendText(ctx, roomID, text)
	if err != nil {
		b.logger.Error("failed to send message", logging.String("room", roomID.String()), logging.Error(err))
		return ""
	}
	return resp.EventID
}

// editOrSend replaces the status message in place when we have its event ID,
// falling back to a fresh message.
func (b *Bot) editOrSend(roomID id.RoomID, statusID id.EventID, text string) {
	if statusID == "" {
		b.sendText(roomID, text)
		return
	}
	content := &event.MessageEventContent{
		MsgType: event.MsgText,
		Body:    text,
	}
	content.SetEdit(statusID)

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if _, err := b.client.SendMessageEvent(ctx, roomID, event.EventMessage, content); err != nil {
		b.logger.Warn("failed to edit status message", logging.Error(err))
		b.sendText(roomID, text)
	}
}

func msgTypeForExt(ext string) event.MessageType {
	switch registry.Classify(ext) {
	case registry.CategoryImage:
		return event.MsgImage
	case registry.CategoryAudio:
		return event.MsgAudio
	case registry.CategoryVideo:
		return event.MsgVideo
	default:
		return event.MsgFile
	}
}
