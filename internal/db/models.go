package db

import (
	"time"

	"gorm.io/datatypes"
)

// EdgeStatus is the state of one directed interest edge.
type EdgeStatus string

const (
	StatusPending   EdgeStatus = "pending"
	StatusMatched   EdgeStatus = "matched"
	StatusUnmatched EdgeStatus = "unmatched"
	StatusBlocked   EdgeStatus = "blocked"
)

// Notification types written by the core.
const (
	NotificationMatch   = "match"
	NotificationMessage = "message"
)

// User table. Owns exactly one Profile.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"uniqueIndex;size:120;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`

	Profile         Profile            `gorm:"foreignKey:UserID"`
	LunchPreference *LunchPreference   `gorm:"foreignKey:UserID"`
	Photos          []Photo            `gorm:"foreignKey:UserID"`
	Availability    []AvailabilitySlot `gorm:"foreignKey:UserID"`
}

// Profile holds the public card data. University is the hard
// eligibility filter for discovery.
type Profile struct {
	ID             uint64 `gorm:"primaryKey;autoIncrement"`
	UserID         uint64 `gorm:"uniqueIndex;not null"`
	FirstName      string `gorm:"size:50;not null"`
	LastName       string `gorm:"size:50;not null"`
	University     string `gorm:"size:100;not null;index"`
	Department     string `gorm:"size:100"`
	Bio            string `gorm:"type:text"`
	GraduationYear *int
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// LunchPreference is optional per user (at most one).
type LunchPreference struct {
	ID                  uint64 `gorm:"primaryKey;autoIncrement"`
	UserID              uint64 `gorm:"uniqueIndex;not null"`
	MaxBudget           *float64
	PreferredGroupSize  int                  `gorm:"not null;default:2"`
	Cuisines            []CuisinePreference  `gorm:"foreignKey:LunchPreferenceID"`
	DietaryRestrictions []DietaryRestriction `gorm:"foreignKey:LunchPreferenceID"`
	CreatedAt           time.Time            `gorm:"autoCreateTime"`
	UpdatedAt           time.Time            `gorm:"autoUpdateTime"`
}

// CuisinePreference values are stored lower-cased; (preference, type) is unique.
type CuisinePreference struct {
	ID                uint64    `gorm:"primaryKey;autoIncrement"`
	LunchPreferenceID uint64    `gorm:"not null;uniqueIndex:uix_pref_cuisine,priority:1"`
	CuisineType       string    `gorm:"size:50;not null;uniqueIndex:uix_pref_cuisine,priority:2"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
}

type DietaryRestriction struct {
	ID                uint64    `gorm:"primaryKey;autoIncrement"`
	LunchPreferenceID uint64    `gorm:"not null;uniqueIndex:uix_pref_restriction,priority:1"`
	RestrictionType   string    `gorm:"size:50;not null;uniqueIndex:uix_pref_restriction,priority:2"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
}

// AvailabilitySlot is a weekly window. Day 0 is Monday.
// (user, day, start, end) is unique; start < end is checked on write.
type AvailabilitySlot struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement"`
	UserID    uint64         `gorm:"not null;uniqueIndex:uix_user_slot,priority:1"`
	DayOfWeek int            `gorm:"not null;uniqueIndex:uix_user_slot,priority:2"`
	StartTime datatypes.Time `gorm:"not null;uniqueIndex:uix_user_slot,priority:3"`
	EndTime   datatypes.Time `gorm:"not null;uniqueIndex:uix_user_slot,priority:4"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

// Photo points at an object in the photo store.
type Photo struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	UserID     uint64    `gorm:"not null;index"`
	Path       string    `gorm:"size:255;not null"`
	IsPrimary  bool      `gorm:"not null;default:false"`
	UploadedAt time.Time `gorm:"autoCreateTime"`
}

// InterestEdge is one user's stance toward another.
//
// Composite PK: (ActorUserID, TargetUserID)
//   - At most one edge per ordered pair.
//   - A mutual match is two edges, both StatusMatched, sharing MatchedDate.
//
// Indexes:
//   - idx_target_status(target_user_id, status) serves the reverse side of
//     the matched listing.
//
// Edges are never deleted on unmatch, only transitioned.
type InterestEdge struct {
	ActorUserID  uint64     `gorm:"primaryKey;autoIncrement:false"`
	TargetUserID uint64     `gorm:"primaryKey;autoIncrement:false;index:idx_target_status,priority:1"`
	Status       EdgeStatus `gorm:"size:16;not null;default:pending;index:idx_target_status,priority:2"`
	MatchedDate  *time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Restaurant is reference data. CuisineType may hold several
// comma-joined cuisines.
type Restaurant struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"size:100;not null"`
	Location    string `gorm:"size:200"`
	CuisineType string `gorm:"size:100"`
	PriceRange  *int
	Rating      *float64
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

type ConversationStarter struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Question  string    `gorm:"type:text;not null"`
	Category  string    `gorm:"size:50;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type Notification struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement"`
	UserID        uint64 `gorm:"not null;index:idx_user_read,priority:1"`
	Type          string `gorm:"size:50;not null"`
	Message       string `gorm:"type:text;not null"`
	RelatedUserID *uint64
	IsRead        bool      `gorm:"not null;default:false;index:idx_user_read,priority:2"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

// Message between two matched users.
type Message struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	SenderID   uint64    `gorm:"not null;index:idx_pair,priority:1"`
	ReceiverID uint64    `gorm:"not null;index:idx_pair,priority:2"`
	Content    string    `gorm:"type:text;not null"`
	IsRead     bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&User{}, &Profile{}, &LunchPreference{}, &CuisinePreference{}, &DietaryRestriction{},
		&AvailabilitySlot{}, &Photo{}, &InterestEdge{}, &Restaurant{}, &ConversationStarter{},
		&Notification{}, &Message{},
	}
}
