package api

import (
	"strconv"
	"strings"
)

// ID is a resource identifier. The backend uses UUID strings for most
// resources and integers for a few; both decode into an ID.
type ID string

// UnmarshalJSON accepts a JSON string or number
func (id *ID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		s, err := strconv.Unquote(raw)
		if err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return err
	}
	*id = ID(raw)
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Message is the acknowledgement returned by most mutating endpoints
type Message struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message"`
}

// Auth Types
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username,omitempty"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	PromoCode       string `json:"promo_code,omitempty"`
}

// AuthResponse carries tokens under either naming the backend uses
type AuthResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Access       string `json:"access,omitempty"`
	Refresh      string `json:"refresh,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// Tokens returns the access and refresh tokens, whichever naming was used
func (r *AuthResponse) Tokens() (access, refresh string) {
	access, refresh = r.AccessToken, r.RefreshToken
	if access == "" {
		access = r.Access
	}
	if refresh == "" {
		refresh = r.Refresh
	}
	return access, refresh
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// Session is the same-origin session view
type Session struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user,omitempty"`
}

// WSToken authenticates a party socket for a few minutes
type WSToken struct {
	Token     string `json:"wsToken" validate:"required"`
	ExpiresIn int64  `json:"expiresIn"`
	UserID    ID     `json:"userId,omitempty"`
}

type RefreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type PasswordResetRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// User Types
type User struct {
	ID          ID     `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	FullName    string `json:"full_name,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	Bio         string `json:"bio,omitempty"`
	IsVerified  bool   `json:"is_verified"`
	IsPremium   bool   `json:"is_premium"`
	IsStaff     bool   `json:"is_staff"`
	IsActive    bool   `json:"is_active"`
	IsOnline    bool   `json:"is_online,omitempty"`
	DateJoined  string `json:"date_joined,omitempty"`
	LastLogin   string `json:"last_login,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	FriendCount int    `json:"friends_count,omitempty" validate:"min=0"`
}

// DisplayName prefers the full name, then first/last, then username
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Username
}

// ProfileUpdate is a partial profile; nil fields are left unchanged
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
	Timezone  *string `json:"timezone,omitempty"`
	Language  *string `json:"language,omitempty"`
}

type FriendRequest struct {
	ID        ID     `json:"id"`
	FromUser  *User  `json:"from_user,omitempty"`
	ToUser    *User  `json:"to_user,omitempty"`
	Status    string `json:"status,omitempty" validate:"omitempty,oneof=pending accepted declined cancelled"`
	Message   string `json:"message,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Party Types
type PartyStatus string

const (
	PartyScheduled PartyStatus = "scheduled"
	PartyLive      PartyStatus = "live"
	PartyPaused    PartyStatus = "paused"
	PartyEnded     PartyStatus = "ended"
	PartyCancelled PartyStatus = "cancelled"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityFriends Visibility = "friends"
	VisibilityPrivate Visibility = "private"
)

type Party struct {
	ID               ID             `json:"id"`
	Title            string         `json:"title"`
	Description      string         `json:"description,omitempty"`
	Host             *User          `json:"host,omitempty"`
	Video            *Video         `json:"video,omitempty"`
	Status           PartyStatus    `json:"status,omitempty" validate:"omitempty,oneof=scheduled live paused ended cancelled"`
	Visibility       Visibility     `json:"visibility,omitempty" validate:"omitempty,oneof=public friends private"`
	ParticipantCount int            `json:"participant_count" validate:"min=0"`
	MaxParticipants  int            `json:"max_participants,omitempty" validate:"min=0"`
	RoomCode         string         `json:"room_code,omitempty"`
	InviteCode       string         `json:"invite_code,omitempty"`
	ScheduledStart   string         `json:"scheduled_start,omitempty"`
	StartedAt        string         `json:"started_at,omitempty"`
	EndedAt          string         `json:"ended_at,omitempty"`
	CreatedAt        string         `json:"created_at,omitempty"`
	UpdatedAt        string         `json:"updated_at,omitempty"`
	IsParticipant    bool           `json:"is_participant,omitempty"`
	Settings         *PartySettings `json:"settings,omitempty"`
}

// PartySettings controls guest access to a party
type PartySettings struct {
	IsPublic       bool `json:"is_public"`
	AllowGuestChat bool `json:"allow_guest_chat"`
}

// AllowsGuests reports whether anonymous users may join and chat
func (p Party) AllowsGuests() bool {
	return p.Settings != nil && p.Settings.IsPublic && p.Settings.AllowGuestChat
}

// IsPublic reports whether anyone can find and join the party
func (p Party) IsPublic() bool {
	return p.Visibility == VisibilityPublic
}

type CreatePartyRequest struct {
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	VideoID         string     `json:"video_id,omitempty"`
	Visibility      Visibility `json:"visibility,omitempty"`
	MaxParticipants int        `json:"max_participants,omitempty"`
	ScheduledStart  string     `json:"scheduled_start,omitempty"`
}

type UpdatePartyRequest struct {
	Title           *string     `json:"title,omitempty"`
	Description     *string     `json:"description,omitempty"`
	Visibility      *Visibility `json:"visibility,omitempty"`
	MaxParticipants *int        `json:"max_participants,omitempty"`
	ScheduledStart  *string     `json:"scheduled_start,omitempty"`
}

type Participant struct {
	ID       ID     `json:"id"`
	User     *User  `json:"user,omitempty"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=host moderator participant viewer"`
	Status   string `json:"status,omitempty"`
	JoinedAt string `json:"joined_at,omitempty"`
	IsActive bool   `json:"is_active"`
}

// VideoControl is a playback command sent by the host. A nil Timestamp
// leaves the position out of the request.
type VideoControl struct {
	Action    string   `json:"action"`
	Timestamp *float64 `json:"timestamp,omitempty"`
}

type Invitation struct {
	ID        ID     `json:"id"`
	Party     *Party `json:"party,omitempty"`
	Inviter   *User  `json:"inviter,omitempty"`
	Invitee   *User  `json:"invitee,omitempty"`
	Status    string `json:"status,omitempty" validate:"omitempty,oneof=pending accepted declined expired"`
	Message   string `json:"message,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

type InviteLink struct {
	InviteCode string `json:"invite_code"`
	InviteURL  string `json:"invite_url,omitempty"`
	ExpiresAt  string `json:"expires_at,omitempty"`
}

type JoinResponse struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message,omitempty"`
	Party       *Party       `json:"party,omitempty"`
	Participant *Participant `json:"participant,omitempty"`
}

// Video Types
type UploadStatus string

const (
	UploadPending    UploadStatus = "pending"
	UploadProcessing UploadStatus = "processing"
	UploadReady      UploadStatus = "ready"
	UploadFailed     UploadStatus = "failed"
)

type Video struct {
	ID                ID           `json:"id"`
	Title             string       `json:"title"`
	Description       string       `json:"description,omitempty"`
	SourceType        string       `json:"source_type,omitempty"`
	SourceURL         string       `json:"source_url,omitempty"`
	UploadStatus      UploadStatus `json:"upload_status,omitempty" validate:"omitempty,oneof=pending processing ready failed"`
	Visibility        Visibility   `json:"visibility,omitempty" validate:"omitempty,oneof=public friends private"`
	Duration          float64      `json:"duration,omitempty" validate:"min=0"`
	DurationFormatted string       `json:"duration_formatted,omitempty"`
	FileSize          int64        `json:"file_size,omitempty" validate:"min=0"`
	Thumbnail         string       `json:"thumbnail,omitempty"`
	ViewCount         int          `json:"view_count,omitempty" validate:"min=0"`
	LikeCount         int          `json:"like_count,omitempty" validate:"min=0"`
	Uploader          *User        `json:"uploader,omitempty"`
	CreatedAt         string       `json:"created_at,omitempty"`
}

type CreateVideoRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	SourceType  string     `json:"source_type,omitempty"`
	SourceURL   string     `json:"source_url,omitempty"`
	Visibility  Visibility `json:"visibility,omitempty"`
}

type URLValidation struct {
	Valid      bool    `json:"valid"`
	SourceType string  `json:"source_type,omitempty"`
	Title      string  `json:"title,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
	Message    string  `json:"message,omitempty"`
}

type DriveFile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MimeType  string `json:"mime_type,omitempty"`
	Size      int64  `json:"size,omitempty" validate:"min=0"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Modified  string `json:"modified_time,omitempty"`
}

type StreamURL struct {
	StreamURL string `json:"stream_url"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// Chat Types
type ChatMessage struct {
	ID          ID     `json:"id"`
	User        *User  `json:"user,omitempty"`
	Message     string `json:"message"`
	MessageType string `json:"message_type,omitempty" validate:"omitempty,oneof=text emoji system reaction"`
	IsDeleted   bool   `json:"is_deleted,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type ChatUser struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	IsTyping bool   `json:"is_typing,omitempty"`
}

type ModerationAction struct {
	ID        ID     `json:"id"`
	Action    string `json:"action"`
	Moderator *User  `json:"moderator,omitempty"`
	Target    *User  `json:"target_user,omitempty"`
	Reason    string `json:"reason,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type Emoji struct {
	Code     string `json:"code"`
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
}

// Analytics Types
type DashboardStats struct {
	Stats struct {
		TotalParties     int `json:"total_parties" validate:"min=0"`
		RecentParties    int `json:"recent_parties" validate:"min=0"`
		TotalVideos      int `json:"total_videos" validate:"min=0"`
		RecentVideos     int `json:"recent_videos" validate:"min=0"`
		WatchTimeMinutes int `json:"watch_time_minutes" validate:"min=0"`
		TotalFriends     int `json:"total_friends,omitempty" validate:"min=0"`
	} `json:"stats"`
	RecentActivity []Activity `json:"recent_activity,omitempty"`
}

type Activity struct {
	Type      string `json:"type"`
	Title     string `json:"title,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Stats is an untyped analytics snapshot. Keys vary by endpoint.
type Stats map[string]interface{}

// Int returns the numeric value at key, or 0
func (s Stats) Int(key string) int {
	switch v := s[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

// Float returns the numeric value at key, or 0
func (s Stats) Float(key string) float64 {
	switch v := s[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

type RealtimeSnapshot struct {
	OnlineUsers   int    `json:"online_users" validate:"min=0"`
	ActiveParties int    `json:"active_parties" validate:"min=0"`
	ActiveStreams int    `json:"active_streams,omitempty" validate:"min=0"`
	MessagesToday int    `json:"messages_today,omitempty" validate:"min=0"`
	Timestamp     string `json:"timestamp,omitempty"`
}

type AnalyticsDashboard struct {
	Overview struct {
		TotalUsers     int     `json:"total_users" validate:"min=0"`
		ActiveUsers    int     `json:"active_users" validate:"min=0"`
		TotalParties   int     `json:"total_parties" validate:"min=0"`
		TotalVideos    int     `json:"total_videos" validate:"min=0"`
		TotalWatchTime float64 `json:"total_watch_time" validate:"min=0"`
		EngagementRate float64 `json:"engagement_rate"`
		GrowthRate     float64 `json:"growth_rate"`
	} `json:"overview"`
	TimeRange string `json:"time_range,omitempty"`
}

type ExportRequest struct {
	Format    string   `json:"format,omitempty"`
	DateRange string   `json:"date_range,omitempty"`
	Metrics   []string `json:"metrics,omitempty"`
}

type ExportResult struct {
	DownloadURL string `json:"download_url"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}

// Admin Types
type SystemHealth struct {
	Status   string            `json:"status" validate:"omitempty,oneof=healthy degraded unhealthy"`
	Services map[string]string `json:"services,omitempty"`
	Uptime   float64           `json:"uptime,omitempty"`
	Version  string            `json:"version,omitempty"`
}

type LogEntry struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	Component string `json:"component,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Billing Types
type Plan struct {
	ID       ID       `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price" validate:"min=0"`
	Currency string   `json:"currency,omitempty"`
	Interval string   `json:"interval,omitempty" validate:"omitempty,oneof=month year"`
	Features []string `json:"features,omitempty"`
}

type Subscription struct {
	ID                ID     `json:"id"`
	Plan              *Plan  `json:"plan,omitempty"`
	Status            string `json:"status" validate:"omitempty,oneof=active trialing past_due canceled cancelled incomplete unpaid"`
	CurrentPeriodEnd  string `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd bool   `json:"cancel_at_period_end"`
}

type Payment struct {
	ID          ID      `json:"id"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency,omitempty"`
	Status      string  `json:"status,omitempty"`
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

// Store Types
type StoreItem struct {
	ID          ID      `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price" validate:"min=0"`
	Currency    string  `json:"currency,omitempty"`
	Owned       bool    `json:"owned,omitempty"`
}

type Purchase struct {
	ID          ID         `json:"id"`
	Item        *StoreItem `json:"item,omitempty"`
	Quantity    int        `json:"quantity" validate:"min=0"`
	PurchasedAt string     `json:"purchased_at,omitempty"`
}

// Interactive Types
type Poll struct {
	ID         ID           `json:"id"`
	Question   string       `json:"question"`
	Options    []PollOption `json:"options" validate:"dive"`
	IsActive   bool         `json:"is_active"`
	TotalVotes int          `json:"total_votes" validate:"min=0"`
	ExpiresAt  string       `json:"expires_at,omitempty"`
}

type PollOption struct {
	ID    ID     `json:"id"`
	Text  string `json:"text"`
	Votes int    `json:"votes" validate:"min=0"`
}

type CreatePollRequest struct {
	Question        string   `json:"question"`
	Options         []string `json:"options"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
}

type Reaction struct {
	ID        ID      `json:"id,omitempty"`
	Emoji     string  `json:"emoji"`
	User      *User   `json:"user,omitempty"`
	Timestamp float64 `json:"video_timestamp,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// SyncState is the authoritative playback position of a party
type SyncState struct {
	IsPlaying   bool    `json:"is_playing"`
	CurrentTime float64 `json:"current_time" validate:"min=0"`
	LastUpdated string  `json:"last_updated,omitempty"`
	UpdatedBy   string  `json:"updated_by,omitempty"`
}

// Search Types
type SearchResults struct {
	Query   string  `json:"query"`
	Parties []Party `json:"parties" validate:"dive"`
	Videos  []Video `json:"videos" validate:"dive"`
	Users   []User  `json:"users" validate:"dive"`
	Total   int     `json:"total_results" validate:"min=0"`
}

type Suggestions struct {
	Suggestions []string `json:"suggestions"`
}

// Support Types
type Ticket struct {
	ID        ID              `json:"id"`
	Subject   string          `json:"subject"`
	Category  string          `json:"category,omitempty"`
	Priority  string          `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	Status    string          `json:"status,omitempty" validate:"omitempty,oneof=open in_progress waiting resolved closed"`
	Messages  []TicketMessage `json:"messages,omitempty" validate:"dive"`
	CreatedAt string          `json:"created_at,omitempty"`
	UpdatedAt string          `json:"updated_at,omitempty"`
}

type TicketMessage struct {
	ID        ID     `json:"id"`
	Author    *User  `json:"author,omitempty"`
	Message   string `json:"message"`
	IsStaff   bool   `json:"is_staff_reply,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type CreateTicketRequest struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

type FAQ struct {
	ID           ID     `json:"id"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	Category     string `json:"category,omitempty"`
	HelpfulVotes int    `json:"helpful_votes,omitempty" validate:"min=0"`
	Views        int    `json:"view_count,omitempty" validate:"min=0"`
}

type FAQCategory struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug,omitempty"`
	Count int    `json:"faq_count,omitempty" validate:"min=0"`
}

type Feedback struct {
	ID        ID     `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"description,omitempty"`
	Type      string `json:"feedback_type,omitempty"`
	Status    string `json:"status,omitempty"`
	Votes     int    `json:"votes,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Notification Types
type Notification struct {
	ID        ID     `json:"id"`
	Type      string `json:"type,omitempty"`
	Title     string `json:"title"`
	Message   string `json:"message,omitempty"`
	IsRead    bool   `json:"is_read"`
	Priority  string `json:"priority,omitempty" validate:"omitempty,oneof=low normal medium high urgent"`
	ActionURL string `json:"action_url,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type UnreadCount struct {
	Count int `json:"count" validate:"min=0"`
}

type NotificationSettings struct {
	EmailNotifications bool `json:"email_notifications"`
	PushNotifications  bool `json:"push_notifications"`
	PartyInvites       bool `json:"party_invites"`
	FriendRequests     bool `json:"friend_requests"`
	ChatMentions       bool `json:"chat_mentions"`
}

// Integration Types
type IntegrationStatus string

const (
	IntegrationConnected    IntegrationStatus = "connected"
	IntegrationDisconnected IntegrationStatus = "disconnected"
	IntegrationPending      IntegrationStatus = "pending"
	IntegrationError        IntegrationStatus = "error"
)

type Integration struct {
	ID          ID                     `json:"id"`
	Type        string                 `json:"type"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Status      IntegrationStatus      `json:"status" validate:"omitempty,oneof=connected disconnected pending error"`
	ConnectedAt string                 `json:"connected_at,omitempty"`
	LastSync    string                 `json:"last_sync,omitempty"`
	AccountInfo *AccountInfo           `json:"account_info,omitempty"`
	Settings    map[string]interface{} `json:"settings,omitempty"`
	Features    []string               `json:"features,omitempty"`
	Icon        string                 `json:"icon,omitempty"`
}

type AccountInfo struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

type IntegrationType struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Features    []string `json:"features"`
	Category    string   `json:"category" validate:"omitempty,oneof=storage streaming social productivity"`
	IsPremium   bool     `json:"is_premium,omitempty"`
}

type AuthURL struct {
	AuthURL string `json:"auth_url" validate:"required"`
	State   string `json:"state,omitempty"`
}

type ConnectionTest struct {
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	Latency float64 `json:"latency_ms,omitempty"`
}

// Event Types
type Event struct {
	ID            ID     `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	StartTime     string `json:"start_time,omitempty"`
	EndTime       string `json:"end_time,omitempty"`
	Location      string `json:"location,omitempty"`
	Organizer     *User  `json:"organizer,omitempty"`
	AttendeeCount int    `json:"attendee_count,omitempty" validate:"min=0"`
	MaxAttendees  int    `json:"max_attendees,omitempty" validate:"min=0"`
	IsAttending   bool   `json:"is_attending,omitempty"`
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=upcoming ongoing completed cancelled"`
}

type CreateEventRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time,omitempty"`
	Location     string `json:"location,omitempty"`
	MaxAttendees int    `json:"max_attendees,omitempty"`
}

// Social Types
type Group struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MemberCount int    `json:"member_count" validate:"min=0"`
	IsPublic    bool   `json:"is_public"`
	IsMember    bool   `json:"is_member,omitempty"`
	Category    string `json:"category,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsPublic    bool   `json:"is_public"`
	Category    string `json:"category,omitempty"`
}

// Messaging Types
type Conversation struct {
	ID           ID             `json:"id"`
	Participants []User         `json:"participants,omitempty" validate:"dive"`
	LastMessage  *DirectMessage `json:"last_message,omitempty"`
	UnreadCount  int            `json:"unread_count,omitempty" validate:"min=0"`
	UpdatedAt    string         `json:"updated_at,omitempty"`
}

type DirectMessage struct {
	ID        ID     `json:"id"`
	Sender    *User  `json:"sender,omitempty"`
	Content   string `json:"content"`
	IsRead    bool   `json:"is_read,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}
