// Package profile manages what a user owns: profile fields, lunch
// preferences, weekly availability, photos and the account itself.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oggyb/lunchmatch/internal/app"
	"github.com/oggyb/lunchmatch/internal/auth"
	"github.com/oggyb/lunchmatch/internal/db"
	svcErr "github.com/oggyb/lunchmatch/internal/errors"
	"github.com/oggyb/lunchmatch/internal/matching"
	"github.com/oggyb/lunchmatch/internal/repository"
)

// ProfileUpdate holds the editable profile fields. Nil fields are left as is.
// University is owned by the identity provider and cannot be changed here.
type ProfileUpdate struct {
	FirstName      *string `json:"first_name" validate:"omitempty,min=1,max=50"`
	LastName       *string `json:"last_name" validate:"omitempty,min=1,max=50"`
	Department     *string `json:"department" validate:"omitempty,max=100"`
	Bio            *string `json:"bio" validate:"omitempty,max=1000"`
	GraduationYear *int    `json:"graduation_year" validate:"omitempty,gte=1950,lte=2100"`
}

// PreferencesInput is the full new state of the lunch preferences.
type PreferencesInput struct {
	MaxBudget           *float64 `json:"max_budget" validate:"omitempty,gte=0"`
	PreferredGroupSize  int      `json:"preferred_group_size" validate:"gte=1,lte=10"`
	Cuisines            []string `json:"cuisines" validate:"max=20,dive,required,max=50"`
	DietaryRestrictions []string `json:"dietary_restrictions" validate:"max=20,dive,required,max=50"`
}

type PhotoView struct {
	ID         uint64    `json:"id"`
	URL        string    `json:"url"`
	IsPrimary  bool      `json:"is_primary"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type SlotView struct {
	ID        uint64         `json:"id"`
	DayOfWeek int            `json:"day_of_week"`
	DayName   string         `json:"day_name"`
	StartTime datatypes.Time `json:"start_time"`
	EndTime   datatypes.Time `json:"end_time"`
}

// View is a full profile page. Score fields are filled when viewing
// someone else.
type View struct {
	matching.CandidateSummary
	PreferredGroupSize int         `json:"preferred_group_size"`
	Photos             []PhotoView `json:"photos"`
	Slots              []SlotView  `json:"slots"`
}

type Service struct {
	appCtx   *app.AppContext
	users    *repository.UserRepository
	profiles *repository.ProfileRepository
	validate *validator.Validate
	log      *slog.Logger
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		users:    repository.NewUserRepository(appCtx.DB),
		profiles: repository.NewProfileRepository(appCtx.DB),
		validate: validator.New(),
		log:      appCtx.Logger.With("component", "profile"),
	}
}

func (s *Service) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return svcErr.InvalidArgument(fmt.Sprintf("%s failed %s validation", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return svcErr.InvalidArgument(err.Error())
}

// Get loads userID's profile page.
func (s *Service) Get(ctx context.Context, viewer auth.Identity, userID uint64) (View, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return View{}, svcErr.Translate(err)
	}

	v := View{
		CandidateSummary: matching.SummaryOf(u, s.appCtx.PhotoURL(ctx, matching.PrimaryPhotoPath(u))),
		Photos:           make([]PhotoView, 0, len(u.Photos)),
		Slots:            make([]SlotView, 0, len(u.Availability)),
	}
	v.Restaurants = []matching.RestaurantSummary{}
	if u.LunchPreference != nil {
		v.PreferredGroupSize = u.LunchPreference.PreferredGroupSize
	}
	for _, p := range u.Photos {
		v.Photos = append(v.Photos, PhotoView{ID: p.ID, URL: s.appCtx.PhotoURL(ctx, p.Path), IsPrimary: p.IsPrimary, UploadedAt: p.UploadedAt})
	}
	for _, a := range u.Availability {
		v.Slots = append(v.Slots, SlotView{ID: a.ID, DayOfWeek: a.DayOfWeek, DayName: matching.DayName(a.DayOfWeek), StartTime: a.StartTime, EndTime: a.EndTime})
	}

	if userID != viewer.UserID {
		me, err := s.users.Get(ctx, viewer.UserID)
		if err != nil {
			return View{}, svcErr.Translate(err)
		}
		v.Result = matching.Score(matching.ParticipantOf(me), matching.ParticipantOf(u))
	}
	return v, nil
}

// UpdateProfile writes the non-nil fields of up.
func (s *Service) UpdateProfile(ctx context.Context, viewer auth.Identity, up ProfileUpdate) error {
	if err := s.check(up); err != nil {
		return err
	}
	fields := map[string]any{}
	if up.FirstName != nil {
		fields["first_name"] = strings.TrimSpace(*up.FirstName)
	}
	if up.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*up.LastName)
	}
	if up.Department != nil {
		fields["department"] = strings.TrimSpace(*up.Department)
	}
	if up.Bio != nil {
		fields["bio"] = strings.TrimSpace(*up.Bio)
	}
	if up.GraduationYear != nil {
		fields["graduation_year"] = *up.GraduationYear
	}
	if err := s.profiles.UpdateProfile(ctx, viewer.UserID, fields); err != nil {
		return svcErr.Translate(err)
	}
	return nil
}

// UpdatePreferences replaces the lunch preferences. Group size 0 means the
// default of 2.
func (s *Service) UpdatePreferences(ctx context.Context, viewer auth.Identity, in PreferencesInput) error {
	if in.PreferredGroupSize == 0 {
		in.PreferredGroupSize = 2
	}
	if err := s.check(in); err != nil {
		return err
	}
	err := s.profiles.SavePreferences(ctx, viewer.UserID, repository.PreferenceUpdate{
		MaxBudget:           in.MaxBudget,
		PreferredGroupSize:  in.PreferredGroupSize,
		Cuisines:            in.Cuisines,
		DietaryRestrictions: in.DietaryRestrictions,
	})
	if err != nil {
		return svcErr.Translate(err)
	}
	return nil
}

// AddAvailability adds a weekly slot. created is false when the identical
// slot already existed; that is still a success.
func (s *Service) AddAvailability(ctx context.Context, viewer auth.Identity, day int, start, end datatypes.Time) (SlotView, bool, error) {
	if day < 0 || day > 6 {
		return SlotView{}, false, svcErr.InvalidArgument("day_of_week must be between 0 (Monday) and 6 (Sunday)")
	}
	if start >= end {
		return SlotView{}, false, svcErr.InvalidArgument("start_time must be before end_time")
	}
	slot, created, err := s.profiles.AddAvailability(ctx, viewer.UserID, day, start, end)
	if err != nil {
		return SlotView{}, false, svcErr.Translate(err)
	}
	if slot == nil {
		return SlotView{DayOfWeek: day, DayName: matching.DayName(day), StartTime: start, EndTime: end}, false, nil
	}
	return SlotView{ID: slot.ID, DayOfWeek: slot.DayOfWeek, DayName: matching.DayName(slot.DayOfWeek), StartTime: slot.StartTime, EndTime: slot.EndTime}, created, nil
}

// DeleteAvailability removes one of viewer's slots.
func (s *Service) DeleteAvailability(ctx context.Context, viewer auth.Identity, slotID uint64) error {
	slot, err := s.profiles.GetAvailability(ctx, slotID)
	if err != nil {
		return svcErr.Translate(err)
	}
	if slot.UserID != viewer.UserID {
		return svcErr.Unauthorized("availability slot belongs to another user")
	}
	if err := s.profiles.DeleteAvailability(ctx, slotID); err != nil {
		return svcErr.Translate(err)
	}
	return nil
}

// AddPhoto records an object already uploaded to the photo store.
func (s *Service) AddPhoto(ctx context.Context, viewer auth.Identity, path string) (PhotoView, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return PhotoView{}, svcErr.InvalidArgument("photo path is required")
	}
	p, err := s.profiles.AddPhoto(ctx, viewer.UserID, path)
	if err != nil {
		return PhotoView{}, svcErr.Translate(err)
	}
	return PhotoView{ID: p.ID, URL: s.appCtx.PhotoURL(ctx, p.Path), IsPrimary: p.IsPrimary, UploadedAt: p.UploadedAt}, nil
}

func (s *Service) ownPhoto(ctx context.Context, viewer auth.Identity, photoID uint64) (*db.Photo, error) {
	p, err := s.profiles.GetPhoto(ctx, photoID)
	if err != nil {
		return nil, svcErr.Translate(err)
	}
	if p.UserID != viewer.UserID {
		return nil, svcErr.Unauthorized("photo belongs to another user")
	}
	return p, nil
}

// SetPrimaryPhoto makes photoID viewer's only primary photo.
func (s *Service) SetPrimaryPhoto(ctx context.Context, viewer auth.Identity, photoID uint64) error {
	if _, err := s.ownPhoto(ctx, viewer, photoID); err != nil {
		return err
	}
	if err := s.profiles.SetPrimaryPhoto(ctx, viewer.UserID, photoID); err != nil {
		return svcErr.Translate(err)
	}
	return nil
}

// DeletePhoto removes the row, promotes the newest remaining photo if the
// primary one went away, then deletes the stored object.
func (s *Service) DeletePhoto(ctx context.Context, viewer auth.Identity, photoID uint64) error {
	p, err := s.ownPhoto(ctx, viewer, photoID)
	if err != nil {
		return err
	}
	if err := s.profiles.DeletePhoto(ctx, p); err != nil {
		return svcErr.Translate(err)
	}
	if err := s.appCtx.Photos.Delete(ctx, p.Path); err != nil {
		s.log.Warn("photo object delete failed", "path", p.Path, "err", err)
	}
	return nil
}

// DeleteAccount removes viewer and everything they own, then clears their
// cached state and stored photos.
func (s *Service) DeleteAccount(ctx context.Context, viewer auth.Identity) error {
	u, err := s.users.Get(ctx, viewer.UserID)
	if err != nil {
		return svcErr.Translate(err)
	}
	if err := s.users.Delete(ctx, viewer.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return svcErr.NotFound("user not found")
		}
		return svcErr.Translate(err)
	}

	if err := s.appCtx.Cursors.EndSession(ctx, viewer.UserID); err != nil {
		s.log.Warn("discovery session cleanup failed", "user", viewer.UserID, "err", err)
	}
	if err := s.appCtx.RedisCache.InvalidateUnreadCount(ctx, viewer.UserID); err != nil {
		s.log.Warn("unread count cleanup failed", "user", viewer.UserID, "err", err)
	}
	for _, p := range u.Photos {
		if err := s.appCtx.Photos.Delete(ctx, p.Path); err != nil {
			s.log.Warn("photo object delete failed", "path", p.Path, "err", err)
		}
	}
	s.log.Info("account deleted", "user", viewer.UserID)
	return nil
}

// ParseClock reads "15:04" or "15:04:05" into a time-of-day value.
func ParseClock(s string) (datatypes.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0), nil
		}
	}
	return 0, svcErr.InvalidArgument(fmt.Sprintf("invalid time %q, want HH:MM", s))
}
