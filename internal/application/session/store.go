package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/roca12/Proyecto-de-grado/internal/domain"
	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
	"github.com/roca12/Proyecto-de-grado/pkg/jwt"
	"github.com/roca12/Proyecto-de-grado/pkg/logger"
)

// Claves del área persistida.
const (
	KeyToken = "authToken"
	KeyUser  = "userData"
)

// Storage área clave-valor persistente donde vive la sesión.
// Write reemplaza el área completa de una sola vez.
type Storage interface {
	Read(ctx context.Context) (map[string]string, error)
	Write(ctx context.Context, values map[string]string) error
}

// Snapshot par token/usuario leído de forma consistente.
type Snapshot struct {
	Token string
	User  *entity.SessionUser
}

// Authenticated hay token.
func (s Snapshot) Authenticated() bool {
	return s.Token != ""
}

// Role rol del usuario o RoleUnknown.
func (s Snapshot) Role() entity.Role {
	if s.User == nil {
		return entity.RoleUnknown
	}
	return s.User.Role()
}

// Store única fuente de verdad sobre quién está autenticado.
// La sesión está completa (token + usuario) o ausente; nunca a medias.
type Store struct {
	storage Storage
	log     *logger.Logger

	persistMu sync.Mutex // serializa escrituras al storage
	mu        sync.RWMutex
	token     string
	user      *entity.SessionUser
}

// NewStore construye el store; llamar Init antes de usarlo.
func NewStore(storage Storage, log *logger.Logger) *Store {
	return &Store{storage: storage, log: logger.OrNop(log)}
}

// Init lee el storage una sola vez. Un valor corrupto o a medias se trata como
// "sin sesión" y se eliminan ambas claves.
func (s *Store) Init(ctx context.Context) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	values, err := s.storage.Read(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("sesión: storage ilegible, se descarta")
		s.setMemory("", nil)
		return s.removeKeys(ctx, nil)
	}

	token := strings.TrimSpace(values[KeyToken])
	rawUser := values[KeyUser]
	if token == "" && rawUser == "" {
		s.setMemory("", nil)
		return nil
	}

	user, decodeErr := decodeUser(rawUser)
	if token == "" || decodeErr != nil {
		s.log.Warn().Err(decodeErr).Bool("has_token", token != "").Msg("sesión: estado parcial o corrupto, se limpia")
		s.setMemory("", nil)
		return s.removeKeys(ctx, values)
	}

	s.setMemory(token, user)
	return nil
}

// SetSession persiste token y usuario en una sola escritura. La memoria solo
// cambia si la escritura tuvo éxito.
func (s *Store) SetSession(ctx context.Context, token string, user *entity.SessionUser) error {
	token = strings.TrimSpace(token)
	if token == "" || user == nil {
		return domain.ErrInvalidInput
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("sesión: serializar usuario: %w", err)
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	values, err := s.storage.Read(ctx)
	if err != nil || values == nil {
		values = map[string]string{}
	}
	values[KeyToken] = token
	values[KeyUser] = string(raw)
	if err := s.storage.Write(ctx, values); err != nil {
		return fmt.Errorf("sesión: guardar: %w", err)
	}

	u := *user
	s.setMemory(token, &u)
	return nil
}

// Clear elimina la sesión. La memoria se limpia primero, así cualquier lectura
// posterior ya observa la sesión vacía aunque falle el storage.
func (s *Store) Clear(ctx context.Context) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.setMemory("", nil)

	values, err := s.storage.Read(ctx)
	if err != nil {
		values = nil
	}
	return s.removeKeys(ctx, values)
}

// Token devuelve el token actual.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// CurrentUser devuelve una copia del usuario actual.
func (s *Store) CurrentUser() (*entity.SessionUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil, false
	}
	u := *s.user
	return &u, true
}

// Snapshot devuelve token y usuario leídos bajo el mismo lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Token: s.token}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// IsAuthenticated hay sesión activa.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Token()
	return ok
}

// ExpiresAt lee el exp del token sin verificarlo. Solo informativo: quien decide
// la expiración es el servidor (401).
func (s *Store) ExpiresAt() (time.Time, bool) {
	token, ok := s.Token()
	if !ok {
		return time.Time{}, false
	}
	info, err := jwt.Inspect(token)
	if err != nil || info.ExpiresAt.IsZero() {
		return time.Time{}, false
	}
	return info.ExpiresAt, true
}

// TokenExpired indica si el exp del token ya pasó respecto a now. Es solo informativo:
// con un token opaco o sin exp devuelve false y la validez la decide el servidor (401).
func (s *Store) TokenExpired(now time.Time) bool {
	token, ok := s.Token()
	if !ok {
		return false
	}
	info, err := jwt.Inspect(token)
	return err == nil && info.Expired(now)
}

func (s *Store) setMemory(token string, user *entity.SessionUser) {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
}

// removeKeys borra ambas claves conservando el resto del área.
func (s *Store) removeKeys(ctx context.Context, values map[string]string) error {
	rest := make(map[string]string, len(values))
	for k, v := range values {
		if k == KeyToken || k == KeyUser {
			continue
		}
		rest[k] = v
	}
	if err := s.storage.Write(ctx, rest); err != nil {
		return fmt.Errorf("sesión: limpiar: %w", err)
	}
	return nil
}

func decodeUser(raw string) (*entity.SessionUser, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("userData vacío")
	}
	var u *entity.SessionUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("userData corrupto: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("userData nulo")
	}
	return u, nil
}
