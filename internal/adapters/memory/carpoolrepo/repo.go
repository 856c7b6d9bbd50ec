package carpoolrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/mitchsmii/EllaRises/internal/domain"
	"github.com/mitchsmii/EllaRises/internal/ports/out/carpoolrepo"
)

// Repo is an in-memory implementation of carpoolrepo.Repository.
// It is safe for concurrent use; the single mutex makes CreateMatch's
// check-then-act sequence atomic per process.
type Repo struct {
	mu      sync.RWMutex
	nextID  domain.MatchID
	drivers map[domain.OccurrenceID][]domain.DriverOffer
	riders  map[domain.OccurrenceID][]domain.RiderRequest
	matches map[domain.OccurrenceID][]domain.Match
}

func NewRepo() *Repo {
	return &Repo{
		nextID:  1,
		drivers: make(map[domain.OccurrenceID][]domain.DriverOffer),
		riders:  make(map[domain.OccurrenceID][]domain.RiderRequest),
		matches: make(map[domain.OccurrenceID][]domain.Match),
	}
}

func (r *Repo) UpsertDriver(ctx context.Context, o domain.DriverOffer) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	o.Email = domain.NormalizeEmail(o.Email)
	list := r.drivers[o.OccurrenceID]
	for i, existing := range list {
		if existing.Email == o.Email {
			list[i] = o
			return nil
		}
	}
	r.drivers[o.OccurrenceID] = append(list, o)
	return nil
}

func (r *Repo) UpsertRider(ctx context.Context, req domain.RiderRequest) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	req.Email = domain.NormalizeEmail(req.Email)
	list := r.riders[req.OccurrenceID]
	for i, existing := range list {
		if existing.Email == req.Email {
			list[i] = req
			return nil
		}
	}
	r.riders[req.OccurrenceID] = append(list, req)
	return nil
}

func (r *Repo) RemoveByEmail(ctx context.Context, occurrenceID domain.OccurrenceID, email string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	email = domain.NormalizeEmail(email)

	drivers := r.drivers[occurrenceID][:0]
	for _, o := range r.drivers[occurrenceID] {
		if o.Email != email {
			drivers = append(drivers, o)
		}
	}
	r.drivers[occurrenceID] = drivers

	riders := r.riders[occurrenceID][:0]
	for _, req := range r.riders[occurrenceID] {
		if req.Email != email {
			riders = append(riders, req)
		}
	}
	r.riders[occurrenceID] = riders

	matches := r.matches[occurrenceID][:0]
	for _, m := range r.matches[occurrenceID] {
		if m.DriverEmail != email && m.RiderEmail != email {
			matches = append(matches, m)
		}
	}
	r.matches[occurrenceID] = matches
	return nil
}

func (r *Repo) ListDrivers(ctx context.Context, occurrenceID domain.OccurrenceID) ([]domain.DriverOffer, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]domain.DriverOffer(nil), r.drivers[occurrenceID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *Repo) ListRiders(ctx context.Context, occurrenceID domain.OccurrenceID) ([]domain.RiderRequest, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]domain.RiderRequest(nil), r.riders[occurrenceID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *Repo) ListMatches(ctx context.Context, occurrenceID domain.OccurrenceID) ([]domain.Match, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]domain.Match(nil), r.matches[occurrenceID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repo) CreateMatch(ctx context.Context, m domain.Match) (domain.Match, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	m.DriverEmail = domain.NormalizeEmail(m.DriverEmail)
	m.RiderEmail = domain.NormalizeEmail(m.RiderEmail)

	var driver *domain.DriverOffer
	for i := range r.drivers[m.OccurrenceID] {
		if r.drivers[m.OccurrenceID][i].Email == m.DriverEmail {
			driver = &r.drivers[m.OccurrenceID][i]
			break
		}
	}
	if driver == nil {
		return domain.Match{}, carpoolrepo.ErrDriverNotFound
	}

	riderFound := false
	for _, req := range r.riders[m.OccurrenceID] {
		if req.Email == m.RiderEmail {
			riderFound = true
			break
		}
	}
	if !riderFound {
		return domain.Match{}, carpoolrepo.ErrRiderNotFound
	}

	// Exact-pair duplicates are reported as such even when the driver is
	// full, so retries of an already-applied match stay distinguishable.
	matched := 0
	for _, existing := range r.matches[m.OccurrenceID] {
		if existing.DriverEmail == m.DriverEmail && existing.RiderEmail == m.RiderEmail {
			return domain.Match{}, carpoolrepo.ErrDuplicateMatch
		}
		if existing.DriverEmail == m.DriverEmail {
			matched++
		}
	}
	if matched >= driver.SeatCount {
		return domain.Match{}, carpoolrepo.ErrNoSeats
	}

	for _, existing := range r.matches[m.OccurrenceID] {
		if existing.RiderEmail == m.RiderEmail {
			return domain.Match{}, carpoolrepo.ErrRiderAlreadyMatched
		}
	}

	m.ID = r.nextID
	r.nextID++
	r.matches[m.OccurrenceID] = append(r.matches[m.OccurrenceID], m)
	return m, nil
}
