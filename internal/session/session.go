// Package session keeps per-browser state in the database: the bound user,
// the cart and pending flash messages. The cookie only carries an HS256-signed
// token with the session id, the row holds everything else.
package session

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mkowalczyk/plant_shop/internal/cart"
	"github.com/mkowalczyk/plant_shop/internal/models"
)

const CookieName = "session"

type Flash struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// State is the decoded form of one models.Session row.
type State struct {
	ID      string
	UserID  uint
	Entries []cart.Entry
	Flashes []Flash
}

func (s *State) LoggedIn() bool { return s.UserID != 0 }

func (s *State) Flash(kind, text string) {
	s.Flashes = append(s.Flashes, Flash{Kind: kind, Text: text})
}

// PopFlashes returns pending flash messages and clears them, so each one is
// shown exactly once.
func (s *State) PopFlashes() []Flash {
	out := s.Flashes
	s.Flashes = nil
	return out
}

type Manager struct {
	DB     *gorm.DB
	Secret []byte
}

// Load resolves the session cookie into state, creating a fresh anonymous
// session (and setting the cookie) when the cookie is missing, unsigned or
// points at a row that no longer exists.
func (m *Manager) Load(c echo.Context) (*State, error) {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		if sid, err := ParseSessionToken(cookie.Value, m.Secret); err == nil {
			var rec models.Session
			if err := m.DB.Where("id = ?", sid).First(&rec).Error; err == nil {
				return decode(&rec)
			}
		}
	}
	return m.create(c)
}

func (m *Manager) create(c echo.Context) (*State, error) {
	now := time.Now().Unix()
	rec := models.Session{
		ID:        uuid.NewString(),
		Cart:      datatypes.JSON([]byte("[]")),
		Flashes:   datatypes.JSON([]byte("[]")),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.DB.Create(&rec).Error; err != nil {
		return nil, err
	}

	token, err := SignSessionToken(rec.ID, m.Secret)
	if err != nil {
		return nil, err
	}
	c.SetCookie(CreateCookie(CookieName, token, "/", time.Now().Add(TTL)))

	return &State{ID: rec.ID}, nil
}

// Save writes the state back to its row. Handlers call it after every
// mutation, matching last-write-wins session semantics.
func (m *Manager) Save(st *State) error {
	cartJSON, err := json.Marshal(st.Entries)
	if err != nil {
		return err
	}
	flashJSON, err := json.Marshal(st.Flashes)
	if err != nil {
		return err
	}

	return m.DB.Model(&models.Session{}).Where("id = ?", st.ID).Updates(map[string]interface{}{
		"user_id":    st.UserID,
		"cart":       datatypes.JSON(cartJSON),
		"flashes":    datatypes.JSON(flashJSON),
		"updated_at": time.Now().Unix(),
	}).Error
}

func decode(rec *models.Session) (*State, error) {
	st := &State{ID: rec.ID, UserID: rec.UserID}
	if len(rec.Cart) > 0 {
		if err := json.Unmarshal(rec.Cart, &st.Entries); err != nil {
			return nil, err
		}
	}
	if len(rec.Flashes) > 0 {
		if err := json.Unmarshal(rec.Flashes, &st.Flashes); err != nil {
			return nil, err
		}
	}
	return st, nil
}
