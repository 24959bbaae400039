package service

import (
	"sort"
	"time"

	"github.com/Ajaykannagit/multi-persona-messenger/internal/models"
	"gorm.io/gorm"
)

// MockChannelRepository is a map-backed implementation of
// ChannelRepositoryInterface for testing.
type MockChannelRepository struct {
	channels map[uint]*models.Channel
	nextID   uint
}

func NewMockChannelRepository() *MockChannelRepository {
	return &MockChannelRepository{
		channels: make(map[uint]*models.Channel),
		nextID:   1,
	}
}

func (m *MockChannelRepository) ResolveOrCreate(contactID, personaID uint) (*models.Channel, error) {
	for _, ch := range m.channels {
		if ch.ContactID == contactID && ch.PersonaID == personaID {
			return ch, nil
		}
	}
	ch := &models.Channel{
		ID:                   m.nextID,
		ContactID:            contactID,
		PersonaID:            personaID,
		NotificationsEnabled: true,
		CreatedAt:            time.Now(),
	}
	m.nextID++
	m.channels[ch.ID] = ch
	return ch, nil
}

func (m *MockChannelRepository) FindByID(id uint) (*models.Channel, error) {
	if ch, ok := m.channels[id]; ok {
		copied := *ch
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockChannelRepository) ListByContact(contactID uint) ([]models.Channel, error) {
	var result []models.Channel
	for _, ch := range m.channels {
		if ch.ContactID == contactID {
			result = append(result, *ch)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockChannelRepository) SetLocked(id uint, locked bool) error {
	ch, ok := m.channels[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ch.IsLocked = locked
	return nil
}

func (m *MockChannelRepository) SetNotificationsEnabled(id uint, enabled bool) error {
	ch, ok := m.channels[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ch.NotificationsEnabled = enabled
	return nil
}

func (m *MockChannelRepository) ResetUnread(id uint) error {
	ch, ok := m.channels[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ch.UnreadCount = 0
	return nil
}

func (m *MockChannelRepository) SumUnreadByContact(contactID uint) (int64, error) {
	var total int64
	for _, ch := range m.channels {
		if ch.ContactID == contactID {
			total += int64(ch.UnreadCount)
		}
	}
	return total, nil
}

func (m *MockChannelRepository) DeleteWithMessages(id uint) error {
	if _, ok := m.channels[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.channels, id)
	return nil
}

// MockMessageRepository mirrors the transactional append: creating a
// message also advances the channel row, the way the real repository does
// in one transaction.
type MockMessageRepository struct {
	messages map[uint]*models.Message
	channels *MockChannelRepository
	nextID   uint
}

func NewMockMessageRepository(channels *MockChannelRepository) *MockMessageRepository {
	return &MockMessageRepository{
		messages: make(map[uint]*models.Message),
		channels: channels,
		nextID:   1,
	}
}

func (m *MockMessageRepository) CreateWithChannelUpdate(message *models.Message, inbound bool) error {
	if message.ID == 0 {
		message.ID = m.nextID
		m.nextID++
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	stored := *message
	m.messages[message.ID] = &stored

	if ch, ok := m.channels.channels[message.ChannelID]; ok {
		if ch.LastMessageAt == nil || message.CreatedAt.After(*ch.LastMessageAt) {
			t := message.CreatedAt
			ch.LastMessageAt = &t
		}
		if inbound {
			ch.UnreadCount++
		}
	}
	return nil
}

func (m *MockMessageRepository) FindByID(id uint) (*models.Message, error) {
	if msg, ok := m.messages[id]; ok {
		copied := *msg
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockMessageRepository) FindByClientID(clientID string, senderID uint) (*models.Message, error) {
	for _, msg := range m.messages {
		if msg.ClientID == clientID && msg.SenderID == senderID {
			copied := *msg
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockMessageRepository) FindManyByID(ids []uint) ([]models.Message, error) {
	var result []models.Message
	for _, id := range ids {
		if msg, ok := m.messages[id]; ok {
			result = append(result, *msg)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockMessageRepository) ListByChannel(channelID uint, cursor uint, limit int) ([]models.Message, error) {
	var all []models.Message
	for _, msg := range m.messages {
		if msg.ChannelID != channelID {
			continue
		}
		if cursor > 0 && msg.ID >= cursor {
			continue
		}
		all = append(all, *msg)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (m *MockMessageRepository) MarkDelivered(messageID uint) (bool, error) {
	msg, ok := m.messages[messageID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if msg.Status != models.StatusSent {
		return false, nil
	}
	now := time.Now()
	msg.Status = models.StatusDelivered
	msg.DeliveredAt = &now
	return true, nil
}

func (m *MockMessageRepository) MarkAllRead(channelID, readerID uint) ([]uint, error) {
	var ids []uint
	now := time.Now()
	for _, msg := range m.messages {
		if msg.ChannelID != channelID || msg.SenderID == readerID || msg.Status == models.StatusRead {
			continue
		}
		msg.Status = models.StatusRead
		msg.ReadAt = &now
		if msg.DeliveredAt == nil {
			msg.DeliveredAt = &now
		}
		ids = append(ids, msg.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// MockContactRepository is a map-backed ContactRepositoryInterface.
type MockContactRepository struct {
	contacts map[uint]*models.Contact
}

func NewMockContactRepository() *MockContactRepository {
	return &MockContactRepository{contacts: make(map[uint]*models.Contact)}
}

func (m *MockContactRepository) Add(contact *models.Contact) {
	m.contacts[contact.ID] = contact
}

func (m *MockContactRepository) FindByID(id uint) (*models.Contact, error) {
	if c, ok := m.contacts[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockContactRepository) ListByOwner(ownerID uint) ([]models.Contact, error) {
	var result []models.Contact
	for _, c := range m.contacts {
		if c.OwnerID == ownerID {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// MockPersonaRepository is a map-backed PersonaRepositoryInterface.
type MockPersonaRepository struct {
	personas map[uint]*models.Persona
}

func NewMockPersonaRepository() *MockPersonaRepository {
	return &MockPersonaRepository{personas: make(map[uint]*models.Persona)}
}

func (m *MockPersonaRepository) Add(persona *models.Persona) {
	m.personas[persona.ID] = persona
}

func (m *MockPersonaRepository) FindByID(id uint) (*models.Persona, error) {
	if p, ok := m.personas[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockPersonaRepository) List() ([]models.Persona, error) {
	var result []models.Persona
	for _, p := range m.personas {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// MockUserRepository is a map-backed UserRepositoryInterface.
type MockUserRepository struct {
	users map[uint]*models.User
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[uint]*models.User)}
}

func (m *MockUserRepository) Add(user *models.User) {
	m.users[user.ID] = user
}

func (m *MockUserRepository) FindByID(id uint) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepository) FindManyByID(ids []uint) ([]models.User, error) {
	var result []models.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

// MockPresenceRepository keeps the GREATEST(last_seen) guard of the real
// upsert so ordering tests exercise the same semantics.
type MockPresenceRepository struct {
	rows map[uint]*models.Presence
}

func NewMockPresenceRepository() *MockPresenceRepository {
	return &MockPresenceRepository{rows: make(map[uint]*models.Presence)}
}

func (m *MockPresenceRepository) Upsert(userID uint, status models.PresenceStatus, seenAt time.Time) error {
	if row, ok := m.rows[userID]; ok {
		row.Status = status
		if seenAt.After(row.LastSeen) {
			row.LastSeen = seenAt
		}
		return nil
	}
	m.rows[userID] = &models.Presence{UserID: userID, Status: status, LastSeen: seenAt}
	return nil
}

func (m *MockPresenceRepository) Get(userID uint) (*models.Presence, error) {
	if row, ok := m.rows[userID]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockPresenceRepository) GetMany(userIDs []uint) ([]models.Presence, error) {
	var result []models.Presence
	for _, id := range userIDs {
		if row, ok := m.rows[id]; ok {
			result = append(result, *row)
		}
	}
	return result, nil
}

// MockTypingRepository is a map-backed TypingRepositoryInterface keyed on
// the (channel, user) primary key.
type MockTypingRepository struct {
	rows map[[2]uint]*models.TypingSignal
}

func NewMockTypingRepository() *MockTypingRepository {
	return &MockTypingRepository{rows: make(map[[2]uint]*models.TypingSignal)}
}

func (m *MockTypingRepository) Upsert(channelID, userID uint, expiresAt time.Time) error {
	key := [2]uint{channelID, userID}
	if row, ok := m.rows[key]; ok {
		row.ExpiresAt = expiresAt
		return nil
	}
	m.rows[key] = &models.TypingSignal{
		ChannelID: channelID,
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
	return nil
}

func (m *MockTypingRepository) Get(channelID, userID uint) (*models.TypingSignal, error) {
	if row, ok := m.rows[[2]uint{channelID, userID}]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockTypingRepository) Delete(channelID, userID uint) (bool, error) {
	key := [2]uint{channelID, userID}
	if _, ok := m.rows[key]; !ok {
		return false, nil
	}
	delete(m.rows, key)
	return true, nil
}

func (m *MockTypingRepository) DeleteAllForUser(userID uint) (int64, error) {
	var n int64
	for key := range m.rows {
		if key[1] == userID {
			delete(m.rows, key)
			n++
		}
	}
	return n, nil
}

func (m *MockTypingRepository) DeleteExpired(now time.Time) (int64, error) {
	var n int64
	for key, row := range m.rows {
		if !row.ExpiresAt.After(now) {
			delete(m.rows, key)
			n++
		}
	}
	return n, nil
}
