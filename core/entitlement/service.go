// Package entitlement decides what a user's subscription tier and
// download-credit balance allow.
package entitlement

import (
	"context"
	"time"

	"sonicstream/apperr"
	"sonicstream/model"
	"sonicstream/repository"
)

// PremiumDuration is how long one premium upgrade lasts.
const PremiumDuration = 30 * 24 * time.Hour

// Service implements subscription and download authorization.
type Service struct {
	users repository.UserRepository
	songs repository.SongRepository
	now   func() time.Time
}

// NewService creates an entitlement service.
func NewService(users repository.UserRepository, songs repository.SongRepository) *Service {
	return &Service{users: users, songs: songs, now: time.Now}
}

// IsPremiumActive reports whether the user's premium subscription is
// live at the given instant. Pure; expiry is exclusive.
func IsPremiumActive(user *model.User, now time.Time) bool {
	return user.IsPremiumActive(now)
}

// UpgradeToPremium switches the account to premium for PremiumDuration
// from now. Payment handling belongs to the billing collaborator and is
// out of scope here.
func (s *Service) UpgradeToPremium(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load user", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}

	until := s.now().Add(PremiumDuration)
	if err := s.users.SetPremium(userID, until); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to upgrade user", err)
	}

	user.Role = model.RolePremium
	user.PremiumUntil.Time = until
	user.PremiumUntil.Valid = true
	return user, nil
}

// AuthorizeDownload decides whether the user may download the song and
// applies the side effects of a granted download: a premium song needs
// an active subscription; a standard user spends one credit; admins and
// active-premium users never touch credits. The credit is spent before
// the download counter moves, so a failed authorization never bumps the
// counter.
func (s *Service) AuthorizeDownload(ctx context.Context, userID, songID int64) (*model.Song, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load user", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}

	song, err := s.songs.GetSongByID(songID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load song", err)
	}
	if song == nil {
		return nil, apperr.New(apperr.NotFound, "song not found")
	}

	premiumActive := user.IsPremiumActive(s.now())

	if song.IsPremium && !premiumActive {
		return nil, apperr.New(apperr.Forbidden, "premium required")
	}

	if !premiumActive && user.Role != model.RoleAdmin {
		spent, err := s.users.SpendDownloadCredit(userID)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "failed to spend download credit", err)
		}
		if !spent {
			return nil, apperr.New(apperr.Forbidden, "no credits")
		}
	}

	if err := s.songs.IncrementDownloads(songID); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to count download", err)
	}
	song.Downloads++
	return song, nil
}

// DownloadCredits reports the user's credit balance and premium state.
func (s *Service) DownloadCredits(ctx context.Context, userID int64) (*model.User, bool, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, false, apperr.Wrap(apperr.Internal, "failed to load user", err)
	}
	if user == nil {
		return nil, false, apperr.New(apperr.NotFound, "user not found")
	}
	return user, user.IsPremiumActive(s.now()), nil
}
