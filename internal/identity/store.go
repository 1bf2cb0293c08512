// Package identity holds the principal directory and the single active
// session of the running process.
//
// Some operations are privileged: UpdateUser is meant for administrators, but
// the store does not check the caller's role. Callers must authorize first.
package identity

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/attendance/internal/domain"
)

// Sentinel errors for the identity package. Each wraps a domain category so
// callers can branch on either.
var (
	ErrInvalidCredentials = fmt.Errorf("identity: invalid credentials: %w", domain.ErrUnauthorized)
	ErrInvalidIDFormat    = fmt.Errorf("identity: id does not match required pattern: %w", domain.ErrValidation)
	ErrAlreadyRegistered  = fmt.Errorf("identity: id or email already registered: %w", domain.ErrConflict)
	ErrMissingField       = fmt.Errorf("identity: required field missing: %w", domain.ErrValidation)
)

// DefaultIDPattern is the accepted format of principal identifiers.
const DefaultIDPattern = `^E\d{4}$`

// Config controls registration defaults.
type Config struct {
	IDPattern           *regexp.Regexp
	DefaultDepartment   string
	DefaultCompensation float64
	DefaultOffice       domain.Coordinate
}

// RegisterInput carries a self-registration request.
type RegisterInput struct {
	Name       string
	Email      string
	Secret     string
	ProposedID string
	Department string
}

// UserFilter narrows a directory listing. Empty fields match everything.
type UserFilter struct {
	Department string
	Search     string // case-insensitive match on name, email or id
}

// Store is the principal directory plus the process session.
type Store struct {
	mu        sync.RWMutex
	cfg       Config
	auditor   domain.Auditor
	directory []*domain.Principal
	session   *domain.Session
	now       func() time.Time
}

// NewStore creates an empty directory.
func NewStore(cfg Config, auditor domain.Auditor) *Store {
	if cfg.IDPattern == nil {
		cfg.IDPattern = regexp.MustCompile(DefaultIDPattern)
	}
	if cfg.DefaultDepartment == "" {
		cfg.DefaultDepartment = "General Staff"
	}
	return &Store{
		cfg:     cfg,
		auditor: auditor,
		now:     time.Now,
	}
}

// Provision inserts a principal directly, bypassing the self-registration
// rules. It is used to bootstrap administrators at startup.
func (s *Store) Provision(p domain.Principal, secret string) (*domain.Principal, error) {
	p.ID = strings.ToUpper(strings.TrimSpace(p.ID))
	p.Email = strings.TrimSpace(p.Email)
	if p.ID == "" || p.Email == "" || secret == "" {
		return nil, fmt.Errorf("identity.Provision: %w", ErrMissingField)
	}
	if !p.Role.Valid() {
		return nil, fmt.Errorf("identity.Provision: role %q: %w", p.Role, domain.ErrValidation)
	}

	hash, err := hashSecret(secret)
	if err != nil {
		return nil, fmt.Errorf("identity.Provision: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collides(p.ID, p.Email, "") {
		return nil, fmt.Errorf("identity.Provision: %w", ErrAlreadyRegistered)
	}

	now := s.now()
	p.SecretHash = hash
	if p.DeviceID == "" {
		p.DeviceID = deviceID(p.ID)
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	s.directory = append(s.directory, &p)

	s.auditor.Record(domain.SystemActor, domain.ActionUserRegister,
		fmt.Sprintf("Principal provisioned: %s (%s, %s)", p.Name, p.ID, p.Role), domain.SeverityLow)

	out := p
	return &out, nil
}

// Login authenticates identifier (id, case-insensitive, or email) with secret
// and the claimed role. Exactly one principal must match. On success the
// session is replaced. The error never reveals which field mismatched.
func (s *Store) Login(identifier, secret string, role domain.Role) (*domain.Session, error) {
	identifier = strings.TrimSpace(identifier)

	s.mu.Lock()
	defer s.mu.Unlock()

	var matched *domain.Principal
	matches := 0
	for _, p := range s.directory {
		if !strings.EqualFold(p.ID, identifier) && !strings.EqualFold(p.Email, identifier) {
			continue
		}
		if p.Role != role || !verifySecret(secret, p.SecretHash) {
			continue
		}
		matched = p
		matches++
	}

	if matches != 1 {
		s.auditor.Record(s.actor(), domain.ActionFailedLogin,
			fmt.Sprintf("Unauthorized access attempt for %q as %s", identifier, role), domain.SeverityMedium)
		return nil, fmt.Errorf("identity.Login: %w", ErrInvalidCredentials)
	}

	if s.session != nil && s.session.Principal.ID != matched.ID {
		log.Info().
			Str("previous", s.session.Principal.ID).
			Str("principal", matched.ID).
			Msg("identity: replacing active session")
	}

	s.session = &domain.Session{
		ID:        uuid.NewString(),
		Principal: *matched,
		StartedAt: s.now(),
	}
	s.auditor.Record(domain.ActorOf(matched), domain.ActionUserLogin,
		fmt.Sprintf("User %s logged in", matched.Name), domain.SeverityLow)

	out := *s.session
	return &out, nil
}

// Register creates an EMPLOYEE principal. It does not touch the session.
func (s *Store) Register(in RegisterInput) (*domain.Principal, error) {
	id := strings.ToUpper(strings.TrimSpace(in.ProposedID))
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	if name == "" || email == "" || in.Secret == "" {
		return nil, fmt.Errorf("identity.Register: %w", ErrMissingField)
	}
	if !s.cfg.IDPattern.MatchString(id) {
		return nil, fmt.Errorf("identity.Register: %q: %w", in.ProposedID, ErrInvalidIDFormat)
	}

	hash, err := hashSecret(in.Secret)
	if err != nil {
		return nil, fmt.Errorf("identity.Register: %w", err)
	}

	department := strings.TrimSpace(in.Department)
	if department == "" {
		department = s.cfg.DefaultDepartment
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collides(id, email, "") {
		return nil, fmt.Errorf("identity.Register: %w", ErrAlreadyRegistered)
	}

	now := s.now()
	p := &domain.Principal{
		ID:               id,
		Name:             name,
		Email:            email,
		SecretHash:       hash,
		Role:             domain.RoleEmployee,
		Department:       department,
		BaseCompensation: s.cfg.DefaultCompensation,
		DeviceID:         deviceID(id),
		OfficeLocation:   s.cfg.DefaultOffice,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.directory = append(s.directory, p)

	s.auditor.Record(s.actor(), domain.ActionUserRegister,
		fmt.Sprintf("New staff account provisioned: %s (%s)", name, id), domain.SeverityLow)

	out := *p
	return &out, nil
}

// Logout ends the session and returns the principal that held it, or nil
// when nobody was logged in.
func (s *Store) Logout() *domain.Principal {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.auditor.Record(s.actor(), domain.ActionUserLogout, "User session terminated", domain.SeverityLow)

	if s.session == nil {
		return nil
	}
	p := s.session.Principal
	s.session = nil
	return &p
}

// UpdateUser merges patch into the principal with the given id.
// Privileged: the caller must have verified the acting principal is an admin.
func (s *Store) UpdateUser(id string, patch domain.PrincipalPatch) (*domain.Principal, error) {
	var hash string
	if patch.Secret != nil {
		if *patch.Secret == "" {
			return nil, fmt.Errorf("identity.UpdateUser: secret: %w", ErrMissingField)
		}
		h, err := hashSecret(*patch.Secret)
		if err != nil {
			return nil, fmt.Errorf("identity.UpdateUser: %w", err)
		}
		hash = h
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, fmt.Errorf("identity.UpdateUser: role %q: %w", *patch.Role, domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(id)
	if p == nil {
		return nil, fmt.Errorf("identity.UpdateUser: %s: %w", id, domain.ErrNotFound)
	}

	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if email == "" {
			return nil, fmt.Errorf("identity.UpdateUser: email: %w", ErrMissingField)
		}
		if s.collides("", email, p.ID) {
			return nil, fmt.Errorf("identity.UpdateUser: %w", ErrAlreadyRegistered)
		}
		patch.Email = &email
	}

	updated := *p
	var fields []string
	if patch.Name != nil {
		updated.Name = *patch.Name
		fields = append(fields, "name")
	}
	if patch.Email != nil {
		updated.Email = *patch.Email
		fields = append(fields, "email")
	}
	if hash != "" {
		updated.SecretHash = hash
		fields = append(fields, "secret")
	}
	if patch.Role != nil {
		updated.Role = *patch.Role
		fields = append(fields, "role")
	}
	if patch.Department != nil {
		updated.Department = *patch.Department
		fields = append(fields, "department")
	}
	if patch.BaseCompensation != nil {
		updated.BaseCompensation = *patch.BaseCompensation
		fields = append(fields, "base_compensation")
	}
	if patch.DeviceID != nil {
		updated.DeviceID = *patch.DeviceID
		fields = append(fields, "device_id")
	}
	if patch.OfficeLocation != nil {
		updated.OfficeLocation = *patch.OfficeLocation
		fields = append(fields, "office_location")
	}
	updated.UpdatedAt = s.now()
	*p = updated

	if s.session != nil && s.session.Principal.ID == p.ID {
		s.session.Principal = updated
	}

	s.auditor.Record(s.actor(), domain.ActionAdminOverride,
		fmt.Sprintf("Profile of %s (%s) updated: %s", updated.Name, updated.ID, strings.Join(fields, ", ")),
		domain.SeverityMedium)

	out := updated
	return &out, nil
}

// Session returns a copy of the active session, or nil.
func (s *Store) Session() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return nil
	}
	out := *s.session
	return &out
}

// Current returns a copy of the authenticated principal, or nil.
func (s *Store) Current() *domain.Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return nil
	}
	p := s.session.Principal
	return &p
}

// SessionActive reports whether sessionID is the active session.
func (s *Store) SessionActive(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.session != nil && s.session.ID == sessionID
}

// ActiveSession returns a copy of the session when sessionID is the active
// one. The copy carries the principal as it is now, including any
// administrative override made after login.
func (s *Store) ActiveSession(sessionID string) (*domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil || s.session.ID != sessionID {
		return nil, false
	}
	out := *s.session
	return &out, true
}

// Lookup returns a copy of the principal with the given id.
func (s *Store) Lookup(id string) (*domain.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.find(id)
	if p == nil {
		return nil, fmt.Errorf("identity.Lookup: %s: %w", id, domain.ErrNotFound)
	}
	out := *p
	return &out, nil
}

// Users returns copies of the directory entries matching filter, in
// registration order.
func (s *Store) Users(filter UserFilter) []domain.Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]domain.Principal, 0, len(s.directory))
	for _, p := range s.directory {
		if filter.Department != "" && p.Department != filter.Department {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Email), term) &&
			!strings.Contains(strings.ToLower(p.ID), term) {
			continue
		}
		out = append(out, *p)
	}
	return out
}

// Len returns the directory size.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.directory)
}

// actor must be called with s.mu held.
func (s *Store) actor() domain.Actor {
	if s.session == nil {
		return domain.SystemActor
	}
	return domain.ActorOf(&s.session.Principal)
}

// find must be called with s.mu held.
func (s *Store) find(id string) *domain.Principal {
	idx := slices.IndexFunc(s.directory, func(p *domain.Principal) bool {
		return strings.EqualFold(p.ID, id)
	})
	if idx < 0 {
		return nil
	}
	return s.directory[idx]
}

// collides reports whether id or email is taken by a principal other than
// except. Empty id or email are not checked. Must be called with s.mu held.
func (s *Store) collides(id, email, except string) bool {
	for _, p := range s.directory {
		if p.ID == except {
			continue
		}
		if id != "" && strings.EqualFold(p.ID, id) {
			return true
		}
		if email != "" && strings.EqualFold(p.Email, email) {
			return true
		}
	}
	return false
}

func deviceID(principalID string) string {
	return "DEV-" + principalID + "-" + rand.Text()[:4]
}
