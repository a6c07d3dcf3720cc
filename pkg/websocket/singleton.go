package websocket

import (
	"sync"
)

var (
	instance *Client
	once     sync.Once
)

// GetClient returns the shared party socket, configured from settings unless
// a config is passed on first use
func GetClient(config ...Config) *Client {
	once.Do(func() {
		cfg := ConfigFromSettings()
		if len(config) > 0 {
			cfg = config[0]
		}
		instance = NewClient(cfg)
	})
	return instance
}
