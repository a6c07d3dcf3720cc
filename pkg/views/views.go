// Package views derives display state from API data: sorting, filtering,
// badge counts and human-readable numbers.
package views

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/watchparty/cli/pkg/api"
)

// Party sort modes
const (
	SortRecent    = "recent"
	SortPopular   = "popular"
	SortScheduled = "scheduled"
	SortName      = "name"
)

// TrendingThreshold is the participant count above which a party trends
const TrendingThreshold = 10

// NewUserDays is how many whole days after joining a user is greeted as new
const NewUserDays = 7

// ParseTime reads the timestamps the API returns. It accepts RFC 3339 with
// or without fractional seconds, and plain dates.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortParties returns a sorted copy. recent orders by created_at, newest
// first; popular by participant_count, highest first; scheduled by
// scheduled_start, soonest first; name alphabetically. Unknown modes keep
// the input order. Ties keep the input order.
func SortParties(parties []api.Party, mode string) []api.Party {
	out := make([]api.Party, len(parties))
	copy(out, parties)

	var less func(a, b api.Party) bool
	switch mode {
	case SortRecent:
		less = func(a, b api.Party) bool {
			return timeOf(a.CreatedAt).After(timeOf(b.CreatedAt))
		}
	case SortPopular:
		less = func(a, b api.Party) bool {
			return a.ParticipantCount > b.ParticipantCount
		}
	case SortScheduled:
		less = func(a, b api.Party) bool {
			ta, oka := ParseTime(a.ScheduledStart)
			tb, okb := ParseTime(b.ScheduledStart)
			if oka != okb {
				return oka
			}
			return ta.Before(tb)
		}
	case SortName:
		less = func(a, b api.Party) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func timeOf(s string) time.Time {
	t, _ := ParseTime(s)
	return t
}

// PartyFilter narrows a party list. Zero fields match everything.
type PartyFilter struct {
	Query      string
	Status     api.PartyStatus
	Visibility api.Visibility
}

// FilterParties keeps parties matching every set field. Query matches the
// title, description or host username, case-insensitively.
func FilterParties(parties []api.Party, f PartyFilter) []api.Party {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]api.Party, 0, len(parties))
	for _, p := range parties {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Visibility != "" && p.Visibility != f.Visibility {
			continue
		}
		if query != "" && !partyMatches(p, query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func partyMatches(p api.Party, query string) bool {
	if strings.Contains(strings.ToLower(p.Title), query) ||
		strings.Contains(strings.ToLower(p.Description), query) {
		return true
	}
	return p.Host != nil && strings.Contains(strings.ToLower(p.Host.Username), query)
}

// Badges are the counts shown on the party filter tabs
type Badges struct {
	All      int
	Public   int
	Recent   int
	Trending int
}

// PartyBadges counts public parties, parties created in the 24 hours before
// now, and parties with more than TrendingThreshold participants
func PartyBadges(parties []api.Party, now time.Time) Badges {
	b := Badges{All: len(parties)}
	cutoff := now.Add(-24 * time.Hour)
	for _, p := range parties {
		if p.IsPublic() {
			b.Public++
		}
		if t, ok := ParseTime(p.CreatedAt); ok && t.After(cutoff) {
			b.Recent++
		}
		if p.ParticipantCount > TrendingThreshold {
			b.Trending++
		}
	}
	return b
}

// CompactNumber renders 1234 as 1.2K and 3400000 as 3.4M
func CompactNumber(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// Percentage renders part/total with one decimal, 0.0% when total is zero
func Percentage(part, total float64) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", part/total*100)
}

// FormatDuration renders seconds as H:MM:SS, or M:SS under an hour.
// Zero or unknown durations render as "Unknown".
func FormatDuration(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "Unknown"
	}
	total := int64(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatFileSize renders bytes in B, KB, MB or GB with one decimal.
// Zero renders as "Unknown size".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "Unknown size"
	}
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(bytes)
	unit := 0
	for size >= 1024 && unit < len(units)-1 {
		size /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", size, units[unit])
}

// IsNewUser reports whether at most NewUserDays whole days have passed
// since the user joined
func IsNewUser(u *api.User, now time.Time) bool {
	if u == nil {
		return false
	}
	joined := u.DateJoined
	if joined == "" {
		joined = u.CreatedAt
	}
	t, ok := ParseTime(joined)
	if !ok {
		return false
	}
	return int(now.Sub(t).Hours()/24) <= NewUserDays
}

// SortVideos returns a sorted copy. popular orders by view count, name
// alphabetically, recent (the default) newest first.
func SortVideos(videos []api.Video, mode string) []api.Video {
	out := make([]api.Video, len(videos))
	copy(out, videos)

	switch mode {
	case SortPopular:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ViewCount > out[j].ViewCount })
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return timeOf(out[i].CreatedAt).After(timeOf(out[j].CreatedAt))
		})
	}
	return out
}

// CategoryAll disables category filtering
const CategoryAll = "all"

// IntegrationFilter narrows the integration catalog
type IntegrationFilter struct {
	Query    string
	Category string
	// AvailableOnly hides types the user already has connected.
	AvailableOnly bool
}

// FilterIntegrationTypes keeps catalog entries whose name or description
// contains the query, in the category, and (when AvailableOnly) not already
// connected
func FilterIntegrationTypes(types []api.IntegrationType, connected []api.Integration, f IntegrationFilter) []api.IntegrationType {
	query := strings.ToLower(f.Query)
	out := make([]api.IntegrationType, 0, len(types))
	for _, t := range types {
		if query != "" &&
			!strings.Contains(strings.ToLower(t.Name), query) &&
			!strings.Contains(strings.ToLower(t.Description), query) {
			continue
		}
		if f.Category != "" && f.Category != CategoryAll && t.Category != f.Category {
			continue
		}
		if f.AvailableOnly && isConnected(connected, t.ID) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func isConnected(connected []api.Integration, typeID string) bool {
	for _, c := range connected {
		if c.Type == typeID && c.Status == api.IntegrationConnected {
			return true
		}
	}
	return false
}

// ConnectedIntegrations keeps connected integrations whose name or type
// contains the query
func ConnectedIntegrations(integrations []api.Integration, query string) []api.Integration {
	query = strings.ToLower(query)
	out := make([]api.Integration, 0, len(integrations))
	for _, i := range integrations {
		if i.Status != api.IntegrationConnected {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(i.Name), query) &&
			!strings.Contains(strings.ToLower(i.Type), query) {
			continue
		}
		out = append(out, i)
	}
	return out
}
