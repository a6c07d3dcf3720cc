package api

// SampleIntegrations is the connected-integrations list shown when the
// integrations service is unreachable
func SampleIntegrations() []Integration {
	return []Integration{
		{
			ID:          "1",
			Type:        "google-drive",
			Name:        "Google Drive",
			Status:      IntegrationConnected,
			ConnectedAt: "2025-09-15T10:00:00Z",
			LastSync:    "2025-10-01T08:00:00Z",
			AccountInfo: &AccountInfo{Email: "user@gmail.com"},
			Features:    []string{"File Storage", "Video Streaming", "Auto Sync"},
			Icon:        "📁",
		},
		{
			ID:          "2",
			Type:        "spotify",
			Name:        "Spotify",
			Status:      IntegrationConnected,
			ConnectedAt: "2025-09-20T14:00:00Z",
			LastSync:    "2025-10-01T12:00:00Z",
			AccountInfo: &AccountInfo{Username: "musiclover123"},
			Features:    []string{"Music Sync", "Playlist Sharing"},
			Icon:        "🎵",
		},
	}
}

// SampleIntegrationTypes is the catalog shown when the integrations
// service is unreachable
func SampleIntegrationTypes() []IntegrationType {
	return []IntegrationType{
		{
			ID:          "google-drive",
			Name:        "Google Drive",
			Description: "Stream videos directly from your Google Drive",
			Icon:        "📁",
			Features:    []string{"File Storage", "Video Streaming", "Auto Sync", "Sharing"},
			Category:    "storage",
		},
		{
			ID:          "netflix",
			Name:        "Netflix",
			Description: "Sync with Netflix watch parties",
			Icon:        "📺",
			Features:    []string{"Watch Parties", "Content Sync", "Progress Tracking"},
			Category:    "streaming",
			IsPremium:   true,
		},
		{
			ID:          "spotify",
			Name:        "Spotify",
			Description: "Add music to your watch parties",
			Icon:        "🎵",
			Features:    []string{"Music Sync", "Playlist Sharing", "Audio Controls"},
			Category:    "social",
		},
		{
			ID:          "discord",
			Name:        "Discord",
			Description: "Connect Discord voice channels to watch parties",
			Icon:        "🎮",
			Features:    []string{"Voice Chat", "Screen Share", "Bot Integration"},
			Category:    "social",
		},
		{
			ID:          "notion",
			Name:        "Notion",
			Description: "Create watch party notes and planning docs",
			Icon:        "📝",
			Features:    []string{"Note Taking", "Planning", "Templates"},
			Category:    "productivity",
		},
		{
			ID:          "trello",
			Name:        "Trello",
			Description: "Organize your movie watchlists",
			Icon:        "📋",
			Features:    []string{"Task Management", "Watchlists", "Collaboration"},
			Category:    "productivity",
		},
	}
}
