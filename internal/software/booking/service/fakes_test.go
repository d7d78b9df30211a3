package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"ride-booking/internal/domain/driver"
	"ride-booking/internal/domain/fare"
	"ride-booking/internal/domain/ledger"
	"ride-booking/internal/domain/rider"
	"ride-booking/internal/domain/trip"
	"ride-booking/internal/general/logger"
	"ride-booking/internal/ports"
)

// fakeStore is an in-memory stand-in for the Postgres repositories. WithinTx
// serializes callers and restores a snapshot on error, so the rollback and
// concurrency behavior of the real store can be exercised without a database.
type fakeStore struct {
	mu sync.Mutex

	riders   map[int64]rider.Rider
	drivers  map[int64]driver.Driver
	accounts map[int64]ledger.Account
	windows  map[int64]driver.AvailabilityWindow
	routes   map[[2]int64]decimal.Decimal
	dates    map[string]int64
	times    map[string]int64
	rides    map[int64]trip.Ride
	payments map[int64]trip.Payment

	riderSeq, driverSeq, accountSeq, windowSeq int64
	dateSeq, timeSeq, rideSeq, paymentSeq      int64

	failRideCreate    bool
	failPaymentCreate bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		riders:   make(map[int64]rider.Rider),
		drivers:  make(map[int64]driver.Driver),
		accounts: make(map[int64]ledger.Account),
		windows:  make(map[int64]driver.AvailabilityWindow),
		routes:   make(map[[2]int64]decimal.Decimal),
		dates:    make(map[string]int64),
		times:    make(map[string]int64),
		rides:    make(map[int64]trip.Ride),
		payments: make(map[int64]trip.Payment),
	}
}

// ----- seeding helpers (callers hold no lock; only used before the test acts) -----

func (s *fakeStore) addRider(name string, balance decimal.Decimal) int64 {
	s.riderSeq++
	id := s.riderSeq
	s.riders[id] = rider.Rider{ID: id, Name: name, CreatedAt: time.Now()}

	s.accountSeq++
	rid := id
	s.accounts[s.accountSeq] = ledger.Account{ID: s.accountSeq, RiderID: &rid, Kind: ledger.KindRider, Balance: balance}
	return id
}

func (s *fakeStore) addRiderWithoutAccount(name string) int64 {
	s.riderSeq++
	id := s.riderSeq
	s.riders[id] = rider.Rider{ID: id, Name: name, CreatedAt: time.Now()}
	return id
}

func (s *fakeStore) addDriver(name string) int64 {
	s.driverSeq++
	id := s.driverSeq
	s.drivers[id] = driver.Driver{ID: id, Name: name, CreatedAt: time.Now()}

	s.accountSeq++
	did := id
	s.accounts[s.accountSeq] = ledger.Account{ID: s.accountSeq, DriverID: &did, Kind: ledger.KindDriver, Balance: decimal.Zero}
	return id
}

func (s *fakeStore) addWindow(driverID int64, day, start, end int) int64 {
	s.windowSeq++
	s.windows[s.windowSeq] = driver.AvailabilityWindow{
		ID: s.windowSeq, DriverID: driverID, DayOfWeek: day, StartHour: start, EndHour: end, Active: true,
	}
	return s.windowSeq
}

func (s *fakeStore) setRoute(pickupID, destinationID int64, miles string) {
	s.routes[[2]int64{pickupID, destinationID}] = decimal.RequireFromString(miles)
}

func (s *fakeStore) riderBalance(riderID int64) decimal.Decimal {
	for _, a := range s.accounts {
		if a.Kind == ledger.KindRider && a.RiderID != nil && *a.RiderID == riderID {
			return a.Balance
		}
	}
	return decimal.Zero
}

func (s *fakeStore) driverBalance(driverID int64) decimal.Decimal {
	for _, a := range s.accounts {
		if a.Kind == ledger.KindDriver && a.DriverID != nil && *a.DriverID == driverID {
			return a.Balance
		}
	}
	return decimal.Zero
}

// ----- UnitOfWork -----

func (s *fakeStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(ctx); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type storeSnapshot struct {
	riders   map[int64]rider.Rider
	drivers  map[int64]driver.Driver
	accounts map[int64]ledger.Account
	windows  map[int64]driver.AvailabilityWindow
	routes   map[[2]int64]decimal.Decimal
	dates    map[string]int64
	times    map[string]int64
	rides    map[int64]trip.Ride
	payments map[int64]trip.Payment

	seqs [8]int64
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *fakeStore) snapshot() storeSnapshot {
	return storeSnapshot{
		riders:   copyMap(s.riders),
		drivers:  copyMap(s.drivers),
		accounts: copyMap(s.accounts),
		windows:  copyMap(s.windows),
		routes:   copyMap(s.routes),
		dates:    copyMap(s.dates),
		times:    copyMap(s.times),
		rides:    copyMap(s.rides),
		payments: copyMap(s.payments),
		seqs: [8]int64{
			s.riderSeq, s.driverSeq, s.accountSeq, s.windowSeq,
			s.dateSeq, s.timeSeq, s.rideSeq, s.paymentSeq,
		},
	}
}

func (s *fakeStore) restore(snap storeSnapshot) {
	s.riders, s.drivers, s.accounts, s.windows = snap.riders, snap.drivers, snap.accounts, snap.windows
	s.routes, s.dates, s.times = snap.routes, snap.dates, snap.times
	s.rides, s.payments = snap.rides, snap.payments
	s.riderSeq, s.driverSeq, s.accountSeq, s.windowSeq = snap.seqs[0], snap.seqs[1], snap.seqs[2], snap.seqs[3]
	s.dateSeq, s.timeSeq, s.rideSeq, s.paymentSeq = snap.seqs[4], snap.seqs[5], snap.seqs[6], snap.seqs[7]
}

// ----- RiderRepository -----

func (s *fakeStore) GetByID(ctx context.Context, id int64) (*rider.Rider, error) {
	if r, ok := s.riders[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (s *fakeStore) GetOrCreateByName(ctx context.Context, name string) (*rider.Rider, bool, error) {
	for _, r := range s.riders {
		if r.Name == name {
			return &r, false, nil
		}
	}
	s.riderSeq++
	r := rider.Rider{ID: s.riderSeq, Name: name, CreatedAt: time.Now()}
	s.riders[r.ID] = r
	return &r, true, nil
}

// fakeDrivers exposes the driver lookup side of the store under a separate
// receiver so the method set does not clash with the rider lookup.
type fakeDrivers struct{ s *fakeStore }

func (d fakeDrivers) GetByID(ctx context.Context, id int64) (*driver.Driver, error) {
	if drv, ok := d.s.drivers[id]; ok {
		return &drv, nil
	}
	return nil, nil
}

func (d fakeDrivers) FindAvailable(ctx context.Context, dayOfWeek, hour int, date, timeOfDay string) (*driver.Driver, error) {
	dateID, dateKnown := d.s.dates[date]
	timeID, timeKnown := d.s.times[timeOfDay]

	ids := make([]int64, 0, len(d.s.drivers))
	for id := range d.s.drivers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		covered := false
		for _, w := range d.s.windows {
			if w.DriverID == id && w.Active && w.DayOfWeek == dayOfWeek && w.StartHour <= hour && hour < w.EndHour {
				covered = true
				break
			}
		}
		if !covered {
			continue
		}

		busy := false
		if dateKnown && timeKnown {
			for _, r := range d.s.rides {
				if r.DriverID == id && r.DateID == dateID && r.TimeID == timeID {
					busy = true
					break
				}
			}
		}
		if !busy {
			drv := d.s.drivers[id]
			return &drv, nil
		}
	}
	return nil, nil
}

// ----- AvailabilityRepository -----

func (s *fakeStore) AddWindow(ctx context.Context, w *driver.AvailabilityWindow) error {
	s.windowSeq++
	w.ID = s.windowSeq
	s.windows[w.ID] = *w
	return nil
}

func (s *fakeStore) SetActive(ctx context.Context, windowID int64, active bool) (bool, error) {
	w, ok := s.windows[windowID]
	if !ok {
		return false, nil
	}
	w.Active = active
	s.windows[windowID] = w
	return true, nil
}

func (s *fakeStore) ListForDriver(ctx context.Context, driverID int64) ([]driver.AvailabilityWindow, error) {
	var out []driver.AvailabilityWindow
	for _, w := range s.windows {
		if w.DriverID == driverID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].StartHour < out[j].StartHour
	})
	return out, nil
}

// ----- AccountRepository -----

func (s *fakeStore) CreateForRider(ctx context.Context, riderID int64, openingBalance decimal.Decimal) (*ledger.Account, error) {
	s.accountSeq++
	rid := riderID
	a := ledger.Account{ID: s.accountSeq, RiderID: &rid, Kind: ledger.KindRider, Balance: openingBalance}
	s.accounts[a.ID] = a
	return &a, nil
}

func (s *fakeStore) GetForRiderLocked(ctx context.Context, riderID int64) (*ledger.Account, error) {
	for _, a := range s.accounts {
		if a.Kind == ledger.KindRider && a.RiderID != nil && *a.RiderID == riderID {
			return &a, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) Debit(ctx context.Context, accountID int64, amount decimal.Decimal) (bool, error) {
	a, ok := s.accounts[accountID]
	if !ok {
		return false, errors.New("account does not exist")
	}
	if a.Balance.LessThan(amount) {
		return false, nil
	}
	a.Balance = a.Balance.Sub(amount)
	s.accounts[accountID] = a
	return true, nil
}

func (s *fakeStore) Credit(ctx context.Context, accountID int64, amount decimal.Decimal) error {
	a, ok := s.accounts[accountID]
	if !ok {
		return errors.New("account does not exist")
	}
	a.Balance = a.Balance.Add(amount)
	s.accounts[accountID] = a
	return nil
}

func (s *fakeStore) CreditDriver(ctx context.Context, driverID int64, amount decimal.Decimal) error {
	for id, a := range s.accounts {
		if a.Kind == ledger.KindDriver && a.DriverID != nil && *a.DriverID == driverID {
			a.Balance = a.Balance.Add(amount)
			s.accounts[id] = a
			return nil
		}
	}
	return errors.New("driver account does not exist")
}

// ----- RouteRepository -----

func (s *fakeStore) DistanceBetween(ctx context.Context, pickupID, destinationID int64) (decimal.Decimal, bool, error) {
	miles, ok := s.routes[[2]int64{pickupID, destinationID}]
	return miles, ok, nil
}

func (s *fakeStore) Upsert(ctx context.Context, pickupID, destinationID int64, miles decimal.Decimal) error {
	s.routes[[2]int64{pickupID, destinationID}] = miles
	return nil
}

// ----- DimensionRepository -----

func (s *fakeStore) EnsureDate(ctx context.Context, date string) (int64, error) {
	if id, ok := s.dates[date]; ok {
		return id, nil
	}
	s.dateSeq++
	s.dates[date] = s.dateSeq
	return s.dateSeq, nil
}

func (s *fakeStore) EnsureTime(ctx context.Context, timeOfDay string) (int64, error) {
	if id, ok := s.times[timeOfDay]; ok {
		return id, nil
	}
	s.timeSeq++
	s.times[timeOfDay] = s.timeSeq
	return s.timeSeq, nil
}

// ----- RideRepository -----

// fakeRides mimics the driver-slot uniqueness constraint of the real table.
type fakeRides struct{ s *fakeStore }

func (fr fakeRides) Create(ctx context.Context, r *trip.Ride) error {
	if fr.s.failRideCreate {
		return errors.New("connection reset")
	}
	for _, existing := range fr.s.rides {
		if existing.DriverID == r.DriverID && existing.DateID == r.DateID && existing.TimeID == r.TimeID {
			return fmt.Errorf("duplicate key value violates unique constraint %q", "rides_driver_slot_key")
		}
	}
	fr.s.rideSeq++
	r.ID = fr.s.rideSeq
	r.CreatedAt = time.Now()
	fr.s.rides[r.ID] = *r
	return nil
}

// ----- PaymentRepository -----

type fakePayments struct{ s *fakeStore }

func (fp fakePayments) Create(ctx context.Context, p *trip.Payment) error {
	if fp.s.failPaymentCreate {
		return errors.New("connection reset")
	}
	fp.s.paymentSeq++
	p.ID = fp.s.paymentSeq
	fp.s.payments[p.ID] = *p
	return nil
}

// ----- publisher capture -----

type capturedEvent struct {
	exchange   string
	routingKey string
	body       []byte
}

type capturePublisher struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (p *capturePublisher) Publish(exchange, routingKey string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, capturedEvent{exchange: exchange, routingKey: routingKey, body: body})
	return nil
}

func (p *capturePublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.routingKey
	}
	return out
}

// newTestService wires a booking service over the fake store with the
// original deployment's rates and a 100.00 default opening balance.
func newTestService(store *fakeStore, pub ports.EventPublisher) ports.BookingService {
	return NewBookingService(
		logger.New("booking-test"),
		store,
		store,
		fakeDrivers{store},
		store,
		store,
		store,
		store,
		fakeRides{store},
		fakePayments{store},
		pub,
		fare.Default(),
		decimal.RequireFromString("100.00"),
	)
}
