// Package formatter turns API models into output tables and records
package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/output"
	"github.com/watchparty/cli/pkg/views"
)

// TimeLayout is how timestamps are shown in tables
const TimeLayout = "2006-01-02 15:04"

// Timestamp renders an API timestamp in local time. Unparseable values are
// returned as-is.
func Timestamp(s string) string {
	t, ok := views.ParseTime(s)
	if !ok {
		return s
	}
	return t.Local().Format(TimeLayout)
}

// Ago renders how long before now s was, e.g. "5m ago"
func Ago(s string, now time.Time) string {
	t, ok := views.ParseTime(s)
	if !ok {
		return s
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
	return t.Local().Format("2006-01-02")
}

// Truncate shortens s to n runes with a trailing ellipsis
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n || n < 2 {
		return s
	}
	return string(r[:n-1]) + "…"
}

// UserName is the display name of u, or "-"
func UserName(u *api.User) string {
	if name := u.DisplayName(); name != "" {
		return name
	}
	return "-"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Parties renders a party list
func Parties(parties []api.Party) output.Table {
	t := output.Table{Headers: []string{"ID", "TITLE", "HOST", "STATUS", "VISIBILITY", "VIEWERS", "ROOM", "CREATED"}}
	for _, p := range parties {
		t.Rows = append(t.Rows, []string{
			string(p.ID),
			Truncate(p.Title, 40),
			UserName(p.Host),
			orDash(string(p.Status)),
			orDash(string(p.Visibility)),
			views.CompactNumber(p.ParticipantCount),
			orDash(p.RoomCode),
			orDash(Timestamp(p.CreatedAt)),
		})
	}
	return t
}

// Party renders one party
func Party(p *api.Party) []output.Field {
	fields := []output.Field{
		{Key: "ID", Value: string(p.ID)},
		{Key: "Title", Value: p.Title},
		{Key: "Description", Value: p.Description},
		{Key: "Host", Value: UserName(p.Host)},
		{Key: "Status", Value: string(p.Status)},
		{Key: "Visibility", Value: string(p.Visibility)},
		{Key: "Viewers", Value: participants(p)},
		{Key: "Room code", Value: p.RoomCode},
		{Key: "Invite code", Value: p.InviteCode},
		{Key: "Scheduled", Value: Timestamp(p.ScheduledStart)},
		{Key: "Started", Value: Timestamp(p.StartedAt)},
		{Key: "Guests allowed", Value: p.AllowsGuests()},
	}
	if p.Video != nil {
		fields = append(fields, output.Field{Key: "Video", Value: p.Video.Title})
	}
	return fields
}

func participants(p *api.Party) string {
	if p.MaxParticipants > 0 {
		return fmt.Sprintf("%d/%d", p.ParticipantCount, p.MaxParticipants)
	}
	return fmt.Sprintf("%d", p.ParticipantCount)
}

// Participants renders a party's participants
func Participants(items []api.Participant) output.Table {
	t := output.Table{Headers: []string{"USER", "ROLE", "STATUS", "ACTIVE", "JOINED"}}
	for _, p := range items {
		t.Rows = append(t.Rows, []string{
			UserName(p.User),
			orDash(p.Role),
			orDash(p.Status),
			yesNo(p.IsActive),
			orDash(Timestamp(p.JoinedAt)),
		})
	}
	return t
}

// Invitations renders pending party invitations
func Invitations(items []api.Invitation) output.Table {
	t := output.Table{Headers: []string{"ID", "PARTY", "FROM", "STATUS", "EXPIRES"}}
	for _, inv := range items {
		party := "-"
		if inv.Party != nil {
			party = Truncate(inv.Party.Title, 32)
		}
		t.Rows = append(t.Rows, []string{
			string(inv.ID),
			party,
			UserName(inv.Inviter),
			orDash(inv.Status),
			orDash(Timestamp(inv.ExpiresAt)),
		})
	}
	return t
}

// Videos renders a video list
func Videos(videos []api.Video) output.Table {
	t := output.Table{Headers: []string{"ID", "TITLE", "SOURCE", "STATUS", "DURATION", "SIZE", "VIEWS"}}
	for _, v := range videos {
		t.Rows = append(t.Rows, []string{
			string(v.ID),
			Truncate(v.Title, 40),
			orDash(v.SourceType),
			orDash(string(v.UploadStatus)),
			duration(v),
			views.FormatFileSize(v.FileSize),
			views.CompactNumber(v.ViewCount),
		})
	}
	return t
}

func duration(v api.Video) string {
	if v.DurationFormatted != "" {
		return v.DurationFormatted
	}
	return views.FormatDuration(v.Duration)
}

// Video renders one video
func Video(v *api.Video) []output.Field {
	return []output.Field{
		{Key: "ID", Value: string(v.ID)},
		{Key: "Title", Value: v.Title},
		{Key: "Description", Value: v.Description},
		{Key: "Source", Value: v.SourceType},
		{Key: "URL", Value: v.SourceURL},
		{Key: "Status", Value: string(v.UploadStatus)},
		{Key: "Visibility", Value: string(v.Visibility)},
		{Key: "Duration", Value: duration(*v)},
		{Key: "Size", Value: views.FormatFileSize(v.FileSize)},
		{Key: "Views", Value: views.CompactNumber(v.ViewCount)},
		{Key: "Likes", Value: views.CompactNumber(v.LikeCount)},
		{Key: "Uploader", Value: UserName(v.Uploader)},
		{Key: "Created", Value: Timestamp(v.CreatedAt)},
	}
}

// User renders a profile
func User(u *api.User) []output.Field {
	return []output.Field{
		{Key: "ID", Value: string(u.ID)},
		{Key: "Username", Value: u.Username},
		{Key: "Name", Value: u.DisplayName()},
		{Key: "Email", Value: u.Email},
		{Key: "Bio", Value: u.Bio},
		{Key: "Verified", Value: u.IsVerified},
		{Key: "Premium", Value: u.IsPremium},
		{Key: "Staff", Value: u.IsStaff},
		{Key: "Friends", Value: u.FriendCount},
		{Key: "Joined", Value: Timestamp(firstNonEmpty(u.DateJoined, u.CreatedAt))},
		{Key: "Last login", Value: Timestamp(u.LastLogin)},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Users renders a user list such as friends or search hits
func Users(users []api.User) output.Table {
	t := output.Table{Headers: []string{"ID", "USERNAME", "NAME", "ONLINE"}}
	for _, u := range users {
		t.Rows = append(t.Rows, []string{
			string(u.ID),
			u.Username,
			UserName(&u),
			yesNo(u.IsOnline),
		})
	}
	return t
}

// FriendRequests renders incoming friend requests
func FriendRequests(items []api.FriendRequest) output.Table {
	t := output.Table{Headers: []string{"ID", "FROM", "MESSAGE", "SENT"}}
	for _, r := range items {
		t.Rows = append(t.Rows, []string{
			string(r.ID),
			UserName(r.FromUser),
			orDash(Truncate(r.Message, 40)),
			orDash(Timestamp(r.CreatedAt)),
		})
	}
	return t
}

// Groups renders social groups
func Groups(groups []api.Group) output.Table {
	t := output.Table{Headers: []string{"ID", "NAME", "CATEGORY", "MEMBERS", "PUBLIC", "MEMBER"}}
	for _, g := range groups {
		t.Rows = append(t.Rows, []string{
			string(g.ID),
			Truncate(g.Name, 32),
			orDash(g.Category),
			views.CompactNumber(g.MemberCount),
			yesNo(g.IsPublic),
			yesNo(g.IsMember),
		})
	}
	return t
}

// Notifications renders the inbox. Unread items are marked with *.
func Notifications(items []api.Notification, now time.Time) output.Table {
	t := output.Table{Headers: []string{"", "ID", "TYPE", "TITLE", "PRIORITY", "WHEN"}}
	for _, n := range items {
		marker := " "
		if !n.IsRead {
			marker = "*"
		}
		t.Rows = append(t.Rows, []string{
			marker,
			string(n.ID),
			orDash(n.Type),
			Truncate(n.Title, 48),
			orDash(n.Priority),
			orDash(Ago(n.CreatedAt, now)),
		})
	}
	return t
}

// NotificationSettings renders notification preferences
func NotificationSettings(s *api.NotificationSettings) []output.Field {
	return []output.Field{
		{Key: "Email", Value: s.EmailNotifications},
		{Key: "Push", Value: s.PushNotifications},
		{Key: "Party invites", Value: s.PartyInvites},
		{Key: "Friend requests", Value: s.FriendRequests},
		{Key: "Chat mentions", Value: s.ChatMentions},
	}
}

// Integrations renders connected integrations
func Integrations(items []api.Integration) output.Table {
	t := output.Table{Headers: []string{"ID", "TYPE", "NAME", "STATUS", "ACCOUNT", "LAST SYNC"}}
	for _, i := range items {
		account := "-"
		if i.AccountInfo != nil {
			account = orDash(firstNonEmpty(i.AccountInfo.Email, i.AccountInfo.Username))
		}
		t.Rows = append(t.Rows, []string{
			string(i.ID),
			i.Type,
			i.Name,
			string(i.Status),
			account,
			orDash(Timestamp(i.LastSync)),
		})
	}
	return t
}

// IntegrationTypes renders the integrations a user can connect
func IntegrationTypes(items []api.IntegrationType) output.Table {
	t := output.Table{Headers: []string{"ID", "NAME", "CATEGORY", "PREMIUM", "FEATURES"}}
	for _, it := range items {
		t.Rows = append(t.Rows, []string{
			it.ID,
			it.Name,
			orDash(it.Category),
			yesNo(it.IsPremium),
			orDash(strings.Join(it.Features, ", ")),
		})
	}
	return t
}

// Tickets renders support tickets
func Tickets(items []api.Ticket) output.Table {
	t := output.Table{Headers: []string{"ID", "SUBJECT", "CATEGORY", "PRIORITY", "STATUS", "UPDATED"}}
	for _, tk := range items {
		t.Rows = append(t.Rows, []string{
			string(tk.ID),
			Truncate(tk.Subject, 40),
			orDash(tk.Category),
			orDash(tk.Priority),
			orDash(tk.Status),
			orDash(Timestamp(firstNonEmpty(tk.UpdatedAt, tk.CreatedAt))),
		})
	}
	return t
}

// FAQs renders FAQ entries
func FAQs(items []api.FAQ) output.Table {
	t := output.Table{Headers: []string{"ID", "QUESTION", "CATEGORY", "HELPFUL"}}
	for _, f := range items {
		t.Rows = append(t.Rows, []string{
			string(f.ID),
			Truncate(f.Question, 60),
			orDash(f.Category),
			views.CompactNumber(f.HelpfulVotes),
		})
	}
	return t
}

// Events renders community events
func Events(items []api.Event) output.Table {
	t := output.Table{Headers: []string{"ID", "TITLE", "STARTS", "LOCATION", "ATTENDEES", "STATUS", "GOING"}}
	for _, e := range items {
		attendees := views.CompactNumber(e.AttendeeCount)
		if e.MaxAttendees > 0 {
			attendees = fmt.Sprintf("%d/%d", e.AttendeeCount, e.MaxAttendees)
		}
		t.Rows = append(t.Rows, []string{
			string(e.ID),
			Truncate(e.Title, 36),
			orDash(Timestamp(e.StartTime)),
			orDash(e.Location),
			attendees,
			orDash(e.Status),
			yesNo(e.IsAttending),
		})
	}
	return t
}

// Plans renders billing plans
func Plans(items []api.Plan) output.Table {
	t := output.Table{Headers: []string{"ID", "NAME", "PRICE", "INTERVAL", "FEATURES"}}
	for _, p := range items {
		t.Rows = append(t.Rows, []string{
			string(p.ID),
			p.Name,
			Money(p.Price, p.Currency),
			orDash(p.Interval),
			orDash(strings.Join(p.Features, ", ")),
		})
	}
	return t
}

// Subscription renders the current subscription
func Subscription(s *api.Subscription) []output.Field {
	plan := "-"
	if s.Plan != nil {
		plan = s.Plan.Name
	}
	return []output.Field{
		{Key: "ID", Value: string(s.ID)},
		{Key: "Plan", Value: plan},
		{Key: "Status", Value: s.Status},
		{Key: "Renews", Value: Timestamp(s.CurrentPeriodEnd)},
		{Key: "Cancels at period end", Value: s.CancelAtPeriodEnd},
	}
}

// Payments renders billing history
func Payments(items []api.Payment) output.Table {
	t := output.Table{Headers: []string{"ID", "AMOUNT", "STATUS", "DESCRIPTION", "DATE"}}
	for _, p := range items {
		t.Rows = append(t.Rows, []string{
			string(p.ID),
			Money(p.Amount, p.Currency),
			orDash(p.Status),
			orDash(Truncate(p.Description, 40)),
			orDash(Timestamp(p.CreatedAt)),
		})
	}
	return t
}

// StoreItems renders the store catalog
func StoreItems(items []api.StoreItem) output.Table {
	t := output.Table{Headers: []string{"ID", "NAME", "CATEGORY", "PRICE", "OWNED"}}
	for _, it := range items {
		t.Rows = append(t.Rows, []string{
			string(it.ID),
			it.Name,
			orDash(it.Category),
			Money(it.Price, it.Currency),
			yesNo(it.Owned),
		})
	}
	return t
}

// Money renders an amount with its currency code, USD when unknown
func Money(amount float64, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%.2f %s", amount, strings.ToUpper(currency))
}

// Conversations renders direct message threads
func Conversations(items []api.Conversation) output.Table {
	t := output.Table{Headers: []string{"ID", "WITH", "LAST MESSAGE", "UNREAD", "UPDATED"}}
	for _, c := range items {
		names := make([]string, 0, len(c.Participants))
		for i := range c.Participants {
			names = append(names, c.Participants[i].Username)
		}
		last := "-"
		if c.LastMessage != nil {
			last = Truncate(c.LastMessage.Content, 40)
		}
		t.Rows = append(t.Rows, []string{
			string(c.ID),
			orDash(strings.Join(names, ", ")),
			last,
			fmt.Sprintf("%d", c.UnreadCount),
			orDash(Timestamp(c.UpdatedAt)),
		})
	}
	return t
}

// DirectMessages renders one conversation
func DirectMessages(items []api.DirectMessage) output.Table {
	t := output.Table{Headers: []string{"FROM", "MESSAGE", "SENT"}}
	for _, m := range items {
		t.Rows = append(t.Rows, []string{
			UserName(m.Sender),
			Truncate(m.Content, 72),
			orDash(Timestamp(m.CreatedAt)),
		})
	}
	return t
}

// ChatMessages renders party chat history. Deleted messages are hidden.
func ChatMessages(items []api.ChatMessage) output.Table {
	t := output.Table{Headers: []string{"FROM", "MESSAGE", "SENT"}}
	for _, m := range items {
		if m.IsDeleted {
			continue
		}
		t.Rows = append(t.Rows, []string{
			UserName(m.User),
			Truncate(m.Message, 72),
			orDash(Timestamp(m.CreatedAt)),
		})
	}
	return t
}

// Dashboard renders the user dashboard counters
func Dashboard(user *api.User, stats api.Stats) []output.Field {
	return []output.Field{
		{Key: "User", Value: UserName(user)},
		{Key: "Parties", Value: views.CompactNumber(stats.Int("total_parties"))},
		{Key: "Recent parties", Value: views.CompactNumber(stats.Int("recent_parties"))},
		{Key: "Videos", Value: views.CompactNumber(stats.Int("total_videos"))},
		{Key: "Watch time", Value: views.FormatDuration(float64(stats.Int("watch_time_minutes")) * 60)},
		{Key: "Friends", Value: views.CompactNumber(stats.Int("total_friends"))},
	}
}

// Realtime renders live platform numbers
func Realtime(r api.RealtimeSnapshot) []output.Field {
	return []output.Field{
		{Key: "Online users", Value: views.CompactNumber(r.OnlineUsers)},
		{Key: "Active parties", Value: views.CompactNumber(r.ActiveParties)},
		{Key: "Active streams", Value: views.CompactNumber(r.ActiveStreams)},
		{Key: "Messages today", Value: views.CompactNumber(r.MessagesToday)},
	}
}

// Overview renders the analytics overview
func Overview(d *api.AnalyticsDashboard) []output.Field {
	o := d.Overview
	return []output.Field{
		{Key: "Time range", Value: d.TimeRange},
		{Key: "Users", Value: views.CompactNumber(o.TotalUsers)},
		{Key: "Active users", Value: fmt.Sprintf("%s (%s)", views.CompactNumber(o.ActiveUsers), views.Percentage(float64(o.ActiveUsers), float64(o.TotalUsers)))},
		{Key: "Parties", Value: views.CompactNumber(o.TotalParties)},
		{Key: "Videos", Value: views.CompactNumber(o.TotalVideos)},
		{Key: "Watch time", Value: views.FormatDuration(o.TotalWatchTime)},
		{Key: "Engagement", Value: fmt.Sprintf("%.1f%%", o.EngagementRate)},
		{Key: "Growth", Value: fmt.Sprintf("%.1f%%", o.GrowthRate)},
	}
}

// StatKeys returns the keys of s in alphabetical order
func StatKeys(s api.Stats) []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stats renders an untyped stats map in key order
func Stats(s api.Stats, keys []string) []output.Field {
	fields := make([]output.Field, 0, len(keys))
	for _, k := range keys {
		v, ok := s[k]
		if !ok || k == "" {
			continue
		}
		label := strings.ReplaceAll(k, "_", " ")
		fields = append(fields, output.Field{Key: strings.ToUpper(label[:1]) + label[1:], Value: v})
	}
	return fields
}

// SystemHealth renders the admin health check
func SystemHealth(h *api.SystemHealth, serviceNames []string) []output.Field {
	fields := []output.Field{
		{Key: "Status", Value: h.Status},
		{Key: "Version", Value: h.Version},
		{Key: "Uptime", Value: views.FormatDuration(h.Uptime)},
	}
	for _, name := range serviceNames {
		fields = append(fields, output.Field{Key: name, Value: h.Services[name]})
	}
	return fields
}

// Logs renders admin log entries
func Logs(items []api.LogEntry) output.Table {
	t := output.Table{Headers: []string{"TIME", "LEVEL", "COMPONENT", "MESSAGE"}}
	for _, l := range items {
		t.Rows = append(t.Rows, []string{
			orDash(Timestamp(l.Timestamp)),
			strings.ToUpper(l.Level),
			orDash(l.Component),
			Truncate(l.Message, 80),
		})
	}
	return t
}
