package store

import (
	"context"
	"time"

	"github.com/optimapped/optimapped/internal/focusmap"
	"github.com/optimapped/optimapped/internal/scoring"
)

// Settings are the per-user preferences kept in the user document.
type Settings struct {
	DarkMode      bool `json:"darkMode" firestore:"darkMode"`
	Notifications bool `json:"notifications" firestore:"notifications"`
}

// DefaultSettings returns the settings of a user who never saved any.
func DefaultSettings() Settings {
	return Settings{DarkMode: true, Notifications: true}
}

// DocumentRepo is the per-user document store. Layout:
//
//	users/{uid}                  latestFocusAssessment, settings
//	users/{uid}/focus-maps/{id}  one document per saved map
//
// Reads of absent documents or fields return ErrNotFound.
type DocumentRepo interface {
	LatestAssessment(ctx context.Context, uid string) (*scoring.Report, error)
	SaveLatestAssessment(ctx context.Context, uid string, r *scoring.Report) error

	Settings(ctx context.Context, uid string) (Settings, error)
	SaveSettings(ctx context.Context, uid string, s Settings) error

	// CreateMap stores a new map and returns its generated ID.
	CreateMap(ctx context.Context, uid string, m *focusmap.Map) (string, error)
	// PutMap overwrites the map with the given ID. Last write wins.
	PutMap(ctx context.Context, uid, id string, m *focusmap.Map) error
	GetMap(ctx context.Context, uid, id string) (*focusmap.Map, error)
	// ListMaps returns the user's maps, most recently updated first.
	// limit <= 0 means no limit.
	ListMaps(ctx context.Context, uid string, limit int) ([]*focusmap.Map, error)
	DeleteMap(ctx context.Context, uid, id string) error
}

// Account is a locally registered user.
type Account struct {
	ID           string
	Email        string
	DisplayName  string
	PhotoURL     string
	Provider     string // "password" or "google"
	PasswordHash string
	CreatedAt    time.Time
}

// AccountRepo stores local accounts.
type AccountRepo interface {
	// CreateAccount inserts a. Returns ErrDuplicate when the email is taken.
	CreateAccount(ctx context.Context, a *Account) error
	AccountByEmail(ctx context.Context, email string) (*Account, error)
	AccountByID(ctx context.Context, id string) (*Account, error)
	UpdateProfile(ctx context.Context, id, displayName, photoURL string) error
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match ("" = any)
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for one purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo records and queries LLM request events.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
	// GetLLMEvent returns nil, nil when id does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
