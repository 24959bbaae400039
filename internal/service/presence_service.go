package service

import (
	"time"

	"github.com/Ajaykannagit/multi-persona-messenger/internal/apperr"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/cache"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
	"github.com/Ajaykannagit/multi-persona-messenger/internal/repository"
)

// HeartbeatInterval is the client ping cadence while a view is foreground.
// The staleness horizon for read-time offline inference is twice this.
const HeartbeatInterval = 30 * time.Second

type PresenceService struct {
	presenceRepo  repository.PresenceRepositoryInterface
	presenceCache *cache.PresenceCache
	now           func() time.Time
	// alive is the fast-path liveness probe backing GetMany. The cache TTL
	// key outlives clock skew between app servers and the stored last_seen.
	alive func(userID uint) bool
}

func NewPresenceService(presenceRepo repository.PresenceRepositoryInterface, presenceCache *cache.PresenceCache) *PresenceService {
	return &PresenceService{
		presenceRepo:  presenceRepo,
		presenceCache: presenceCache,
		now:           time.Now,
		alive:         presenceCache.IsOnline,
	}
}

// StaleAfter is the read-time horizon past which an online/away row is
// reported offline. The store never demotes silent clients itself.
func (s *PresenceService) StaleAfter() time.Duration {
	return 2 * HeartbeatInterval
}

// Response builds the wire shape of a presence row with the read-time
// staleness inference applied.
func (s *PresenceService) Response(p *models.Presence) models.PresenceResponse {
	return p.ToResponse(s.now().UTC(), s.StaleAfter())
}

// setStatus upserts the single row for the user. The repository guards
// last_seen with GREATEST, so it never regresses whatever order the
// heartbeat/visibility/teardown writes land in.
func (s *PresenceService) setStatus(userID uint, status models.PresenceStatus) (*models.Presence, error) {
	seenAt := s.now().UTC()
	if err := s.presenceRepo.Upsert(userID, status, seenAt); err != nil {
		return nil, apperr.Wrap(apperr.Transient, "presence_write_failed", "Presence update failed", err)
	}

	switch status {
	case models.PresenceOnline:
		_ = s.presenceCache.MarkOnline(userID)
	case models.PresenceOffline:
		_ = s.presenceCache.MarkOffline(userID)
	}

	presence, err := s.presenceRepo.Get(userID)
	if err != nil {
		// The upsert succeeded; synthesize the row rather than failing.
		return &models.Presence{UserID: userID, Status: status, LastSeen: seenAt}, nil
	}
	return presence, nil
}

// Heartbeat fires on the client's fixed interval while foreground: forces
// online and refreshes last_seen.
func (s *PresenceService) Heartbeat(userID uint) (*models.Presence, error) {
	_ = s.presenceCache.Refresh(userID)
	return s.setStatus(userID, models.PresenceOnline)
}

// VisibilityLost fires when the view is backgrounded.
func (s *PresenceService) VisibilityLost(userID uint) (*models.Presence, error) {
	return s.setStatus(userID, models.PresenceAway)
}

// VisibilityGained fires when the view returns to the foreground.
func (s *PresenceService) VisibilityGained(userID uint) (*models.Presence, error) {
	return s.setStatus(userID, models.PresenceOnline)
}

// Teardown fires on sign-out, unload or transport disconnect.
func (s *PresenceService) Teardown(userID uint) (*models.Presence, error) {
	return s.setStatus(userID, models.PresenceOffline)
}

// GetMany hydrates presence for a contact list. Users with no row yet are
// reported offline with a zero last_seen; staleness inference is applied
// to every returned status. A live cache TTL key vetoes the demotion, so
// a user whose heartbeats land on another app server is not reported
// offline off a lagging stored last_seen.
func (s *PresenceService) GetMany(userIDs []uint) (map[uint]models.PresenceResponse, error) {
	rows, err := s.presenceRepo.GetMany(userIDs)
	if err != nil {
		return nil, apperr.Wrap(apperr.Transient, "presence_fetch_failed", "Presence fetch failed", err)
	}

	now := s.now().UTC()
	out := make(map[uint]models.PresenceResponse, len(userIDs))
	for i := range rows {
		resp := rows[i].ToResponse(now, s.StaleAfter())
		if resp.Status == models.PresenceOffline && rows[i].Status != models.PresenceOffline && s.alive(rows[i].UserID) {
			resp.Status = rows[i].Status
		}
		out[rows[i].UserID] = resp
	}
	for _, id := range userIDs {
		if _, ok := out[id]; !ok {
			out[id] = models.PresenceResponse{UserID: id, Status: models.PresenceOffline}
		}
	}
	return out, nil
}
