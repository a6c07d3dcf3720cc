package websocket

import (
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	cfg := DefaultConfig()
	client := NewClient(cfg)

	if client == nil {
		t.Fatal("NewClient returned nil")
	}
	if client.config.URL != cfg.URL {
		t.Errorf("Config URL mismatch: got %s, want %s", client.config.URL, cfg.URL)
	}
	if client.State() != StateDisconnected {
		t.Errorf("Initial state should be StateDisconnected, got %v", client.State())
	}
	if len(client.listeners) != 0 {
		t.Errorf("Listeners should be empty, got %d", len(client.listeners))
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.HeartbeatTimeout != 45*time.Second {
		t.Errorf("HeartbeatTimeout should be 45s, got %v", cfg.HeartbeatTimeout)
	}
	if cfg.ReconnectBaseDelay != time.Second || cfg.ReconnectMaxDelay != 30*time.Second {
		t.Errorf("Reconnect delays incorrect: %+v", cfg)
	}
	if cfg.MaxReconnectAttempts != -1 {
		t.Errorf("MaxReconnectAttempts should be -1 (unlimited), got %d", cfg.MaxReconnectAttempts)
	}
}

func TestNewClientFillsZeroConfig(t *testing.T) {
	client := NewClient(Config{URL: "ws://x"})

	if client.config.HeartbeatTimeout != 45*time.Second {
		t.Errorf("HeartbeatTimeout default not applied: %v", client.config.HeartbeatTimeout)
	}
	if client.config.ReconnectMaxDelay < client.config.ReconnectBaseDelay {
		t.Errorf("Max delay below base: %+v", client.config)
	}
	if client.config.QueueSize != 100 {
		t.Errorf("QueueSize default not applied: %d", client.config.QueueSize)
	}
}

func TestOriginFromAPI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://localhost:8000", "ws://localhost:8000"},
		{"https://api.watchparty.example/", "wss://api.watchparty.example"},
		{"ws://already", "ws://already"},
	}

	for _, tt := range tests {
		if got := OriginFromAPI(tt.in); got != tt.want {
			t.Errorf("OriginFromAPI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPartyURL(t *testing.T) {
	got := PartyURL("wss://api.example/", "42", "a b+c")
	want := "wss://api.example/ws/party/42/?token=a+b%2Bc"
	if got != want {
		t.Errorf("PartyURL = %q, want %q", got, want)
	}

	if got := PartyURL("ws://h", "42", ""); got != "ws://h/ws/party/42/" {
		t.Errorf("PartyURL without token = %q", got)
	}
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{20, 30 * time.Second},
	}

	for _, tt := range tests {
		if got := Backoff(time.Second, 30*time.Second, tt.attempt); got != tt.want {
			t.Errorf("Backoff(attempt %d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestJitterBounded(t *testing.T) {
	for i := 0; i < 50; i++ {
		if j := jitter(time.Second); j < 0 || j > 250*time.Millisecond {
			t.Fatalf("jitter out of range: %v", j)
		}
	}
	if jitter(0) != 0 {
		t.Error("jitter of zero base should be zero")
	}
}

func TestOn_Unsubscribe(t *testing.T) {
	client := NewClient(DefaultConfig())

	var first, second int
	off := client.On(TypeChatMessage, func(Message) { first++ })
	client.On(TypeChatMessage, func(Message) { second++ })

	client.dispatch(Message{Type: TypeChatMessage})
	off()
	client.dispatch(Message{Type: TypeChatMessage})

	if first != 1 {
		t.Errorf("Unsubscribed handler called %d times, want 1", first)
	}
	if second != 2 {
		t.Errorf("Remaining handler called %d times, want 2", second)
	}
}

func TestDispatchRecoversPanics(t *testing.T) {
	client := NewClient(DefaultConfig())

	called := false
	client.On(TypeReaction, func(Message) { panic("boom") })
	client.On(Wildcard, func(Message) { called = true })

	client.dispatch(Message{Type: TypeReaction})

	if !called {
		t.Error("Wildcard handler should run after a panicking handler")
	}
}

func TestStateChangeHandlers(t *testing.T) {
	client := NewClient(DefaultConfig())

	var seen []ConnectionState
	client.OnStateChange(func(s ConnectionState) { seen = append(seen, s) })

	client.setState(StateConnecting)
	client.setState(StateConnecting)
	client.setState(StateConnected)

	if len(seen) != 2 || seen[0] != StateConnecting || seen[1] != StateConnected {
		t.Errorf("Unexpected transitions: %v", seen)
	}
	if StateReconnecting.String() != "reconnecting" {
		t.Errorf("String() = %q", StateReconnecting.String())
	}
}

func TestRecordStats(t *testing.T) {
	client := NewClient(DefaultConfig())

	for i := 0; i < 5; i++ {
		client.recordMessageSent()
		client.recordMessageReceived()
	}
	client.recordError("timeout error")
	client.recordConnected()
	client.recordHeartbeat()

	stats := client.GetStats()
	if stats.MessagesSent != 5 || stats.MessagesReceived != 5 {
		t.Errorf("Message counts incorrect: %+v", stats)
	}
	if stats.LastError != "timeout error" {
		t.Errorf("LastError mismatch: got %s", stats.LastError)
	}
	if stats.ConnectedAt.IsZero() || stats.LastHeartbeat.IsZero() {
		t.Error("Timestamps should be recorded")
	}
}

func TestSendQueueLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QueueSize = 1
	client := NewClient(cfg)

	if err := client.Send(SyncRequest()); err != nil {
		t.Fatalf("First send should queue: %v", err)
	}
	if err := client.Send(SyncRequest()); err != ErrNotConnected {
		t.Errorf("Second send should fail with ErrNotConnected, got %v", err)
	}
	if client.Queued() != 1 {
		t.Errorf("Queued = %d, want 1", client.Queued())
	}
}

func TestGetClientIsShared(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URL = "ws://shared.test"
	first := GetClient(cfg)
	second := GetClient()

	if first != second {
		t.Fatal("GetClient should return the same client")
	}
	if first.config.URL != "ws://shared.test" {
		t.Errorf("first config should win, got %s", first.config.URL)
	}
}
