package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	clierrors "github.com/watchparty/cli/pkg/errors"
	"github.com/watchparty/cli/pkg/logger"
	"github.com/watchparty/cli/pkg/views"
	"github.com/watchparty/cli/pkg/websocket"
)

// Socket is the part of the party websocket client a live session uses
type Socket interface {
	Connect(ctx context.Context, partyID, token string) error
	Disconnect() error
	On(t websocket.MessageType, fn websocket.Handler) func()
	OnStateChange(fn func(websocket.ConnectionState))
	Send(msg websocket.Message) error
}

// WatchService joins a party room and streams its events to the terminal
type WatchService struct {
	env    *Env
	socket Socket
	in     io.Reader
}

// NewWatchService creates a watch service reading commands from in
func NewWatchService(env *Env, socket Socket, in io.Reader) *WatchService {
	if socket == nil {
		socket = websocket.GetClient()
	}
	return &WatchService{env: env, socket: socket, in: in}
}

// token prefers a short-lived socket token and falls back to the stored
// access token when the proxy route is unavailable
func (s *WatchService) token(ctx context.Context) (string, error) {
	var tok string
	err := s.env.call(ctx, func(ctx context.Context) error {
		res, err := s.env.API.Auth.WSToken(ctx)
		if err != nil {
			return err
		}
		tok = res.Token
		return nil
	})
	if err == nil && tok != "" {
		return tok, nil
	}
	logger.Debug("Socket token unavailable, using access token", "error", err)

	creds, lerr := s.env.Store.Load()
	if lerr != nil {
		return "", lerr
	}
	if creds == nil || creds.AccessToken == "" {
		return "", clierrors.AuthError("not logged in")
	}
	return creds.AccessToken, nil
}

// Run connects to partyID and blocks until ctx is done or input ends.
// Lines typed are sent as chat; /play, /pause, /seek N, /react E and /sync
// are commands.
func (s *WatchService) Run(ctx context.Context, partyID string) error {
	token, err := s.token(ctx)
	if err != nil {
		return err
	}

	s.subscribe()
	if err := s.socket.Connect(ctx, partyID, token); err != nil {
		return fmt.Errorf("failed to join party room: %w", err)
	}
	defer func() {
		if err := s.socket.Disconnect(); err != nil {
			logger.Debug("Disconnect failed", "error", err)
		}
	}()
	s.env.Out.Info("Connected to party %s. Type to chat, /help for commands, Ctrl+C to leave.", partyID)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := s.handleLine(line); err != nil {
				s.env.Out.Error("%v", err)
			}
		}
	}
}

func (s *WatchService) subscribe() {
	out := s.env.Out.Out
	stamp := func() string { return s.env.now().Format("15:04:05") }

	s.socket.OnStateChange(func(state websocket.ConnectionState) {
		if state == websocket.StateReconnecting {
			s.env.Out.Warning("Connection lost, reconnecting...")
		}
	})
	s.socket.On(websocket.TypeChatMessage, func(m websocket.Message) {
		var msg websocket.ChatMessage
		if m.Decode(&msg) == nil {
			fmt.Fprintf(out, "[%s] %s: %s\n", stamp(), msg.Username, msg.Message)
		}
	})
	s.socket.On(websocket.TypeUserJoined, func(m websocket.Message) {
		var u websocket.UserJoined
		if m.Decode(&u) == nil {
			fmt.Fprintf(out, "[%s] * %s joined\n", stamp(), u.Username)
		}
	})
	s.socket.On(websocket.TypeUserLeft, func(m websocket.Message) {
		var u websocket.UserLeft
		if m.Decode(&u) == nil {
			fmt.Fprintf(out, "[%s] * %s left\n", stamp(), u.Username)
		}
	})
	s.socket.On(websocket.TypeSyncState, func(m websocket.Message) {
		var st websocket.SyncState
		if m.Decode(&st) != nil {
			return
		}
		state := "paused"
		if st.IsPlaying {
			state = "playing"
		}
		fmt.Fprintf(out, "[%s] %s at %s / %s\n", stamp(), state,
			views.FormatDuration(st.CurrentTimestamp), views.FormatDuration(st.VideoDuration))
	})
	s.socket.On(websocket.TypeVideoControl, func(m websocket.Message) {
		var vc websocket.VideoControl
		if m.Decode(&vc) != nil {
			return
		}
		at := ""
		if vc.Timestamp != nil {
			at = " at " + views.FormatDuration(*vc.Timestamp)
		}
		fmt.Fprintf(out, "[%s] %s: %s%s\n", stamp(), vc.Username, vc.Action, at)
	})
	s.socket.On(websocket.TypeReaction, func(m websocket.Message) {
		var r websocket.Reaction
		if m.Decode(&r) == nil {
			fmt.Fprintf(out, "[%s] %s reacted %s\n", stamp(), r.Username, r.Emoji)
		}
	})
	s.socket.On(websocket.TypeError, func(m websocket.Message) {
		var e websocket.ServerError
		if m.Decode(&e) == nil {
			s.env.Out.Error("%s", e.Error())
		}
	})
}

func (s *WatchService) handleLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if !strings.HasPrefix(line, "/") {
		return s.socket.Send(websocket.Chat(line, ""))
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "/play":
		return s.socket.Send(websocket.Control(websocket.ActionPlay, -1))
	case "/pause":
		return s.socket.Send(websocket.Control(websocket.ActionPause, -1))
	case "/seek":
		if len(fields) < 2 {
			return clierrors.ValidationError("seek", "usage: /seek SECONDS")
		}
		pos, err := parsePosition(fields[1])
		if err != nil {
			return clierrors.ValidationError("seek", err.Error())
		}
		return s.socket.Send(websocket.Control(websocket.ActionSeek, pos))
	case "/react":
		if len(fields) < 2 {
			return clierrors.ValidationError("react", "usage: /react EMOJI")
		}
		return s.socket.Send(websocket.React(fields[1], 0))
	case "/sync":
		return s.socket.Send(websocket.SyncRequest())
	case "/help":
		fmt.Fprintln(s.env.Out.Out, "/play  /pause  /seek SECONDS|MM:SS  /react EMOJI  /sync")
		return nil
	default:
		return clierrors.ValidationError("command", fmt.Sprintf("unknown command %s", fields[0]))
	}
}

// parsePosition accepts seconds or MM:SS / HH:MM:SS
func parsePosition(s string) (float64, error) {
	if !strings.Contains(s, ":") {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid position %q", s)
		}
		return v, nil
	}
	var total time.Duration
	for _, part := range strings.Split(s, ":") {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid position %q", s)
		}
		total = total*60 + time.Duration(n)
	}
	return float64(total), nil
}
