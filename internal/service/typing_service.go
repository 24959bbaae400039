package service

import (
	"time"

	"github.com/Ajaykannagit/multi-persona-messenger/internal/apperr"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/repository"
)

type TypingService struct {
	typingRepo repository.TypingRepositoryInterface
	channels   *ChannelService
	now        func() time.Time
}

func NewTypingService(typingRepo repository.TypingRepositoryInterface, channels *ChannelService) *TypingService {
	return &TypingService{
		typingRepo: typingRepo,
		channels:   channels,
		now:        time.Now,
	}
}

// Signal upserts the caller's typing row with a fresh expiry. A repeated
// signal while one is live just pushes the deadline out; the at-most-one
// row invariant is held by the primary key.
func (s *TypingService) Signal(userID, channelID uint) (*models.TypingSignal, error) {
	if _, _, err := s.channels.AuthorizeChannel(userID, channelID); err != nil {
		return nil, err
	}

	createdAt := s.now().UTC()
	expiresAt := createdAt.Add(models.TypingHorizon)
	if err := s.typingRepo.Upsert(channelID, userID, expiresAt); err != nil {
		return nil, apperr.Wrap(apperr.Transient, "typing_write_failed", "Typing signal failed", err)
	}
	return &models.TypingSignal{
		ChannelID: channelID,
		UserID:    userID,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Clear deletes the caller's typing row immediately (empty input box or a
// message was sent). Returns whether a row actually existed.
func (s *TypingService) Clear(userID, channelID uint) (bool, error) {
	if _, _, err := s.channels.AuthorizeChannel(userID, channelID); err != nil {
		return false, err
	}
	existed, err := s.typingRepo.Delete(channelID, userID)
	if err != nil {
		return false, apperr.Wrap(apperr.Transient, "typing_clear_failed", "Typing clear failed", err)
	}
	return existed, nil
}

// ClearAllForUser removes every typing row the user left behind; invoked on
// session teardown and abnormal disconnect as scoped resource release.
func (s *TypingService) ClearAllForUser(userID uint) (int64, error) {
	n, err := s.typingRepo.DeleteAllForUser(userID)
	if err != nil {
		return 0, apperr.Wrap(apperr.Transient, "typing_clear_failed", "Typing cleanup failed", err)
	}
	return n, nil
}

// SweepExpired physically deletes rows past their deadline. Correctness
// never depends on it; consumers already treat expired rows as absent.
func (s *TypingService) SweepExpired() (int64, error) {
	return s.typingRepo.DeleteExpired(s.now().UTC())
}
