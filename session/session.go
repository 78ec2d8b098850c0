package session

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

const (
	CookieName = "needs_session"

	keyAdmin    = "admin"
	keyProvider = "provider"
	keyFlashes  = "flashes"
)

// Flash categories, matching the board's alert styles.
const (
	Success = "success"
	Danger  = "danger"
	Info    = "info"
)

// Claims are the roles held by one session. Admin and provider are independent.
type Claims struct {
	Admin    bool
	Provider string
}

func (c Claims) IsProvider() bool {
	return c.Provider != ""
}

type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// State is everything the board keeps per client.
type State struct {
	Claims
	Flashes []Flash
}

// AddFlash queues a message for the next rendered page.
func (s *State) AddFlash(category, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
}

// PopFlashes returns and clears the queued messages.
func (s *State) PopFlashes() []Flash {
	out := s.Flashes
	s.Flashes = nil
	return out
}

type Config struct {
	// Storage holds session data. Nil keeps sessions in process memory.
	Storage fiber.Storage
	// TTL is the idle expiration of a session.
	TTL time.Duration
	// Secure marks the cookie as HTTPS only.
	Secure bool
}

// Manager loads and saves State through fiber sessions.
type Manager struct {
	store *session.Store
}

func NewManager(cfg Config) *Manager {
	return &Manager{
		store: session.New(session.Config{
			Expiration:     cfg.TTL,
			Storage:        cfg.Storage,
			KeyLookup:      "cookie:" + CookieName,
			CookieHTTPOnly: true,
			CookieSecure:   cfg.Secure,
			CookieSameSite: "Lax",
			KeyGenerator:   uuid.NewString,
		}),
	}
}

// Load reads the caller's state. A client without a session gets an empty state.
func (m *Manager) Load(c *fiber.Ctx) (*State, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return nil, fmt.Errorf("failed to load session. err: %w", err)
	}
	return decode(sess)
}

// Claims is a read-only shortcut for Load.
func (m *Manager) Claims(c *fiber.Ctx) (Claims, error) {
	st, err := m.Load(c)
	if err != nil {
		return Claims{}, err
	}
	return st.Claims, nil
}

// Update loads the state, applies fn and saves the result.
// Keys for empty roles are removed, so logging out of one role keeps the other.
func (m *Manager) Update(c *fiber.Ctx, fn func(*State)) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return fmt.Errorf("failed to load session. err: %w", err)
	}

	st, err := decode(sess)
	if err != nil {
		return err
	}
	fn(st)

	if st.Admin {
		sess.Set(keyAdmin, true)
	} else {
		sess.Delete(keyAdmin)
	}

	if st.IsProvider() {
		sess.Set(keyProvider, st.Provider)
	} else {
		sess.Delete(keyProvider)
	}

	if len(st.Flashes) > 0 {
		raw, err := jsoniter.MarshalToString(st.Flashes)
		if err != nil {
			return fmt.Errorf("failed to encode flashes. err: %w", err)
		}
		sess.Set(keyFlashes, raw)
	} else {
		sess.Delete(keyFlashes)
	}

	if err := sess.Save(); err != nil {
		return fmt.Errorf("failed to save session. err: %w", err)
	}
	return nil
}

// Flash queues one message for the caller.
func (m *Manager) Flash(c *fiber.Ctx, category, message string) error {
	return m.Update(c, func(st *State) {
		st.AddFlash(category, message)
	})
}

// PopFlashes returns the caller's queued messages and clears them.
func (m *Manager) PopFlashes(c *fiber.Ctx) ([]Flash, error) {
	st, err := m.Load(c)
	if err != nil {
		return nil, err
	}
	if len(st.Flashes) == 0 {
		return nil, nil
	}

	var flashes []Flash
	err = m.Update(c, func(st *State) {
		flashes = st.PopFlashes()
	})
	return flashes, err
}

func decode(sess *session.Session) (*State, error) {
	st := &State{}

	if admin, ok := sess.Get(keyAdmin).(bool); ok {
		st.Admin = admin
	}
	if provider, ok := sess.Get(keyProvider).(string); ok {
		st.Provider = provider
	}
	if raw, ok := sess.Get(keyFlashes).(string); ok && raw != "" {
		if err := jsoniter.UnmarshalFromString(raw, &st.Flashes); err != nil {
			return nil, fmt.Errorf("failed to decode flashes. err: %w", err)
		}
	}

	return st, nil
}
