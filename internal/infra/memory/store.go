package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// Store mantém todas as tabelas em mapas. Transações são serializadas e
// desfeitas por snapshot quando fn devolve erro.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	seq uint

	shops        map[uint]models.Barbershop
	users        map[uint]models.User
	services     map[uint]models.Service
	hours        map[uint]models.WorkingHours
	sessions     map[uint]models.WorkSession
	entries      map[uint]models.QueueEntry
	appointments map[uint]models.Appointment
	reviews      map[uint]models.Review
	favorites    map[uint]models.Favorite
}

func NewStore() *Store {
	return &Store{
		shops:        map[uint]models.Barbershop{},
		users:        map[uint]models.User{},
		services:     map[uint]models.Service{},
		hours:        map[uint]models.WorkingHours{},
		sessions:     map[uint]models.WorkSession{},
		entries:      map[uint]models.QueueEntry{},
		appointments: map[uint]models.Appointment{},
		reviews:      map[uint]models.Review{},
		favorites:    map[uint]models.Favorite{},
	}
}

type snapshot struct {
	seq          uint
	users        map[uint]models.User
	sessions     map[uint]models.WorkSession
	entries      map[uint]models.QueueEntry
	appointments map[uint]models.Appointment
}

func cloneMap[T any](m map[uint]T) map[uint]T {
	out := make(map[uint]T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) inTx(fn func() error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snap := snapshot{
		seq:          s.seq,
		users:        cloneMap(s.users),
		sessions:     cloneMap(s.sessions),
		entries:      cloneMap(s.entries),
		appointments: cloneMap(s.appointments),
	}
	s.mu.RUnlock()

	if err := fn(); err != nil {
		s.mu.Lock()
		s.seq = snap.seq
		s.users = snap.users
		s.sessions = snap.sessions
		s.entries = snap.entries
		s.appointments = snap.appointments
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) nextID() uint {
	s.seq++
	return s.seq
}

func stamp(created, updated *time.Time) {
	now := time.Now().UTC()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

// ===============================
// Seeding
// ===============================

func (s *Store) AddShop(shop *models.Barbershop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if shop.ID == 0 {
		shop.ID = s.nextID()
	}
	if shop.Timezone == "" {
		shop.Timezone = "America/Sao_Paulo"
	}
	s.shops[shop.ID] = *shop
}

func (s *Store) AddUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.nextID()
	}
	s.users[u.ID] = *u
}

func (s *Store) AddService(svc *models.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if svc.ID == 0 {
		svc.ID = s.nextID()
	}
	s.services[svc.ID] = *svc
}

func (s *Store) AddWorkingHours(wh *models.WorkingHours) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wh.ID == 0 {
		wh.ID = s.nextID()
	}
	s.hours[wh.ID] = *wh
}

// ===============================
// Catalog
// ===============================

type catalog struct {
	s *Store
}

func (c catalog) GetBarbershopByID(_ context.Context, id uint) (*models.Barbershop, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	shop, ok := c.s.shops[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &shop, nil
}

func (c catalog) GetBarbershopBySlug(_ context.Context, slug string) (*models.Barbershop, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	for _, shop := range c.s.shops {
		if strings.EqualFold(shop.Slug, slug) {
			return &shop, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (c catalog) GetBarber(_ context.Context, barberID uint) (*models.User, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	u, ok := c.s.users[barberID]
	if !ok || !u.Active || !u.IsStaff() || u.BarbershopID == nil {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (c catalog) GetCustomer(_ context.Context, customerID uint) (*models.User, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	u, ok := c.s.users[customerID]
	if !ok || u.Role != models.RoleCustomer {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (c catalog) GetService(_ context.Context, barbershopID, serviceID uint) (*models.Service, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	svc, ok := c.s.services[serviceID]
	if !ok || svc.BarbershopID != barbershopID || !svc.Active {
		return nil, domain.ErrNotFound
	}
	return &svc, nil
}

func (c catalog) GetWorkingHours(_ context.Context, barberID uint, weekday int) (*models.WorkingHours, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	for _, wh := range c.s.hours {
		if wh.BarberID == barberID && wh.Weekday == weekday {
			return &wh, nil
		}
	}
	return nil, domain.ErrNotFound
}

var _ domain.Catalog = catalog{}

// sortByID deixa a iteração sobre mapas determinística.
func sortByID[T any](items []T, id func(T) uint) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
