package cart

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/your-org/foodie-backend/internal/infrastructure/storage"
	"github.com/your-org/foodie-backend/internal/pkg/apperror"
	"github.com/your-org/foodie-backend/internal/pkg/keylock"
	"github.com/your-org/foodie-backend/internal/pkg/testutil"
)

type failingStore struct {
	storage.Store
	failSet bool
	sets    int
}

func (f *failingStore) Set(ctx context.Context, owner, key, value string) error {
	f.sets++
	if f.failSet {
		return errors.New("quota exceeded")
	}
	return f.Store.Set(ctx, owner, key, value)
}

type CartSuite struct {
	suite.Suite
	ctx     context.Context
	session *failingStore
	durable *failingStore
	errLog  *apperror.Log
	manager *Manager
	owner   Owner
}

func TestCartSuite(t *testing.T) {
	suite.Run(t, new(CartSuite))
}

func (s *CartSuite) SetupTest() {
	_, rdb := testutil.NewRedis(s.T())
	db := testutil.NewDB(s.T(), &storage.Entry{})

	s.ctx = context.Background()
	s.session = &failingStore{Store: storage.NewSessionStore(rdb, time.Hour)}
	s.durable = &failingStore{Store: storage.NewDurableStore(db)}
	s.errLog = apperror.NewLog(apperror.DefaultCapacity, nil)
	store := NewStore(s.session, s.durable, s.errLog, nil, "")
	s.manager = NewManager(store, keylock.New(), DefaultPricing())
	s.owner = Owner{SessionID: "tab-1", ClientID: "device-1"}
}

func (s *CartSuite) open() *Cart {
	c, release, err := s.manager.Open(s.ctx, s.owner)
	s.Require().NoError(err)
	s.T().Cleanup(release)
	return c
}

func (s *CartSuite) seed(scope storage.Store, owner, key, value string) {
	s.Require().NoError(scope.Set(s.ctx, owner, key, value))
}

func (s *CartSuite) TestPizzaTotals() {
	s.seed(s.session, "tab-1", SessionKey, `[{"id":1,"name":"Pizza","price":250,"quantity":2}]`)

	c := s.open()
	totals := c.Totals()

	s.True(totals.Subtotal.Equal(decimal.NewFromInt(500)))
	s.True(totals.Tax.Equal(decimal.NewFromInt(50)))
	s.True(totals.Total.Equal(decimal.NewFromInt(579)))
	s.Equal(DisplayTotals{Subtotal: "500.00", Tax: "50.00", DeliveryFee: "29.00", Total: "579.00"}, totals.Display())
	s.Equal(int64(57900), totals.AmountMinor())
	s.Equal(2, c.TotalQuantity())
}

func (s *CartSuite) TestLoadFallsBackToDurable() {
	s.seed(s.session, "tab-1", SessionKey, `[]`)
	s.seed(s.durable, "device-1", DurableKey, `[{"id":"b1","name":"Biryani","price":"₹180","quantity":1}]`)

	c := s.open()
	items := c.Items()
	s.Require().Len(items, 1)
	s.Equal("b1", items[0].ID)
	s.True(items[0].Price.Equal(decimal.NewFromInt(180)))
}

func (s *CartSuite) TestLoadMalformedSessionFallsBack() {
	s.seed(s.session, "tab-1", SessionKey, `{"not":"an array"`)
	s.seed(s.durable, "device-1", DurableKey, `[{"id":"d1","price":40}]`)

	c := s.open()
	s.Require().Len(c.Items(), 1)
	s.Equal("d1", c.Items()[0].ID)
	s.Len(s.errLog.Recent(apperror.KindStorage), 1)
}

func (s *CartSuite) TestLoadNothingIsEmpty() {
	s.seed(s.durable, "device-1", DurableKey, `"garbage"`)

	c := s.open()
	s.True(c.IsEmpty())
	s.True(c.Totals().Total.Equal(decimal.RequireFromString("29")))
}

func (s *CartSuite) TestIngestionDefaults() {
	s.seed(s.session, "tab-1", SessionKey, `[
		{"id":"a","price":"Rs. 1,250.50"},
		{"name":"no id","price":10},
		{"id":"z","quantity":0},
		{"id":"a","name":"dup","quantity":9},
		{"id":"n","price":-5,"quantity":"3"}
	]`)

	items := s.open().Items()
	s.Require().Len(items, 2)
	s.Equal(Item{ID: "a", Name: DefaultName, Price: decimal.RequireFromString("1250.50"), Quantity: 1, Image: DefaultPlaceholder}, items[0])
	s.Equal("n", items[1].ID)
	s.True(items[1].Price.IsZero())
	s.Equal(3, items[1].Quantity)
}

func (s *CartSuite) TestSaveLoadRoundTrip() {
	c := s.open()
	s.Require().NoError(c.Replace(s.ctx, []RawItem{
		raw(`{"id":"p1","name":"Paneer Tikka","price":"₹249.99","quantity":2,"image":"p.png"}`),
		raw(`{"id":"p2","name":"Lassi","price":60}`),
	}))
	before := c.Items()

	_, err := s.session.Get(s.ctx, "tab-1", SessionKey)
	s.Require().NoError(err)
	durable, err := s.durable.Get(s.ctx, "device-1", DurableKey)
	s.Require().NoError(err)
	s.Contains(durable, "Paneer Tikka")

	store := s.manager.store
	after := store.Load(s.ctx, s.owner)
	s.Require().Len(after, len(before))
	for i := range before {
		s.Equal(before[i].ID, after[i].ID)
		s.Equal(before[i].Quantity, after[i].Quantity)
		s.True(before[i].Price.Equal(after[i].Price))
	}

	// a new tab on the same device starts from the durable copy
	other := store.Load(s.ctx, Owner{SessionID: "tab-2", ClientID: "device-1"})
	s.Len(other, 2)
}

func (s *CartSuite) TestChangeQuantity() {
	s.seed(s.session, "tab-1", SessionKey, `[{"id":"1","name":"Pizza","price":250,"quantity":2},{"id":"2","name":"Coke","price":40,"quantity":1}]`)
	c := s.open()
	sets := s.session.sets

	changed, err := c.ChangeQuantity(s.ctx, "1", 1)
	s.Require().NoError(err)
	s.True(changed)
	s.Equal(3, c.Items()[0].Quantity)
	s.Equal(sets+1, s.session.sets)

	changed, err = c.ChangeQuantity(s.ctx, "2", -5)
	s.Require().NoError(err)
	s.True(changed)
	s.Require().Len(c.Items(), 1)
	s.Equal("1", c.Items()[0].ID)

	changed, err = c.ChangeQuantity(s.ctx, "missing", 1)
	s.NoError(err)
	s.False(changed)
	s.Equal(sets+2, s.session.sets)

	for _, item := range c.Items() {
		s.GreaterOrEqual(item.Quantity, 1)
	}
	s.True(c.Totals().Subtotal.Equal(decimal.NewFromInt(750)))
}

func (s *CartSuite) TestQuantityIsCapped() {
	s.seed(s.session, "tab-1", SessionKey, `[
		{"id":"1","price":10,"quantity":1e30},
		{"id":"2","price":10,"quantity":"9223372036854775807999"},
		{"id":"3","price":10,"quantity":-1e30}
	]`)
	c := s.open()
	s.Require().Len(c.Items(), 2)
	s.Equal(MaxQuantity, c.Items()[0].Quantity)
	s.Equal(MaxQuantity, c.Items()[1].Quantity)

	_, err := c.Add(s.ctx, raw(`{"id":"1","price":10,"quantity":9223372036854775807}`))
	s.Require().NoError(err)
	_, err = c.Add(s.ctx, raw(`{"id":"5","price":10,"quantity":9223372036854775807}`))
	s.Require().NoError(err)
	_, err = c.Add(s.ctx, raw(`{"id":"5","price":10}`))
	s.Require().NoError(err)

	changed, err := c.ChangeQuantity(s.ctx, "2", math.MaxInt)
	s.Require().NoError(err)
	s.True(changed)

	for _, item := range c.Items() {
		s.Equal(MaxQuantity, item.Quantity, item.ID)
	}
	s.Equal(3*MaxQuantity, c.TotalQuantity())
	s.True(c.Totals().Subtotal.Equal(decimal.NewFromInt(3 * MaxQuantity * 10)))

	_, err = c.ChangeQuantity(s.ctx, "5", math.MinInt)
	s.Require().NoError(err)
	_, err = c.ChangeQuantity(s.ctx, "2", -(MaxQuantity - 1))
	s.Require().NoError(err)

	reloaded := s.manager.store.Load(s.ctx, s.owner)
	s.Require().Len(reloaded, 2)
	s.Equal(MaxQuantity, reloaded[0].Quantity)
	s.Equal(1, reloaded[1].Quantity)
}

func (s *CartSuite) TestChangeQuantitySequence() {
	ids := []string{"a", "b", "c", "d", "missing"}
	c := s.open()
	want := map[string]int{}
	for _, id := range ids[:4] {
		_, err := c.Add(s.ctx, raw(`{"id":"`+id+`","price":"12.50"}`))
		s.Require().NoError(err)
		want[id] = 1
	}

	rng := rand.New(rand.NewSource(7))
	for step := 0; step < 300; step++ {
		id := ids[rng.Intn(len(ids))]
		delta := rng.Intn(11) - 5
		if rng.Intn(20) == 0 {
			delta *= 400
		}

		q, present := want[id]
		if !present && id != "missing" && rng.Intn(2) == 0 {
			_, err := c.Add(s.ctx, raw(`{"id":"`+id+`","price":"12.50"}`))
			s.Require().NoError(err)
			want[id] = 1
			continue
		}

		changed, err := c.ChangeQuantity(s.ctx, id, delta)
		s.Require().NoError(err)
		s.Equal(present, changed, "step %d", step)
		if present {
			switch next := q + delta; {
			case next <= 0:
				delete(want, id)
			case next > MaxQuantity:
				want[id] = MaxQuantity
			default:
				want[id] = next
			}
		}

		got := map[string]int{}
		for _, item := range c.Items() {
			s.Require().GreaterOrEqual(item.Quantity, 1, "step %d", step)
			s.Require().LessOrEqual(item.Quantity, MaxQuantity, "step %d", step)
			got[item.ID] = item.Quantity
		}
		s.Require().Equal(want, got, "step %d", step)
	}

	sum := 0
	for _, q := range want {
		sum += q
	}
	s.Equal(sum, c.TotalQuantity())
	s.True(c.Totals().Subtotal.Equal(decimal.RequireFromString("12.50").Mul(decimal.NewFromInt(int64(sum)))))
}

func (s *CartSuite) TestTotalsStableWithoutChanges() {
	s.seed(s.session, "tab-1", SessionKey, `[{"id":"1","price":"33.333","quantity":3},{"id":"2","price":"₹ 1,250.50","quantity":2}]`)
	c := s.open()

	first := c.Totals()
	second := c.Totals()
	s.True(first.Subtotal.Equal(second.Subtotal))
	s.True(first.Tax.Equal(second.Tax))
	s.True(first.Total.Equal(second.Total))
	s.Equal(first.Display(), second.Display())
	s.Equal(first.AmountMinor(), second.AmountMinor())
}

func (s *CartSuite) TestSaveFailureIsWarning() {
	c := s.open()
	s.session.failSet = true

	ok, err := c.Add(s.ctx, raw(`{"id":"x","name":"Dosa","price":"90"}`))
	s.True(ok)
	s.Require().Error(err)
	s.True(apperror.Is(err, apperror.KindStorage))

	// in-memory state stays authoritative and the durable copy still landed
	s.Len(c.Items(), 1)
	durable, getErr := s.durable.Get(s.ctx, "device-1", DurableKey)
	s.Require().NoError(getErr)
	s.Contains(durable, "Dosa")
	s.Len(s.errLog.Recent(apperror.KindStorage), 1)
}

func (s *CartSuite) TestAddMergesAndClear() {
	c := s.open()
	_, err := c.Add(s.ctx, raw(`{"id":"x","price":"90","quantity":2}`))
	s.Require().NoError(err)
	_, err = c.Add(s.ctx, raw(`{"id":"x","price":"90"}`))
	s.Require().NoError(err)
	s.Equal(3, c.TotalQuantity())

	ok, err := c.Add(s.ctx, raw(`{"name":"no id"}`))
	s.NoError(err)
	s.False(ok)

	s.Require().NoError(c.Clear(s.ctx))
	s.True(c.IsEmpty())
	s.Empty(s.manager.store.Load(s.ctx, s.owner))
}

func raw(s string) RawItem {
	var r RawItem
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		panic(err)
	}
	return r
}

func TestNormalizePrice(t *testing.T) {
	cases := map[string]struct {
		in   interface{}
		want string
	}{
		"rupee symbol":  {"₹250", "250"},
		"thousands":     {"₹ 1,250.50", "1250.5"},
		"rs marker":     {"Rs. 99", "99"},
		"inr suffix":    {"120 INR", "120"},
		"slash dash":    {"45/-", "45"},
		"dollar":        {"$12.30", "12.3"},
		"number":        {249.99, "249.99"},
		"int":           {30, "30"},
		"negative":      {-10, "0"},
		"negative text": {"-₹10", "0"},
		"garbage":       {"free", "0"},
		"nil":           {nil, "0"},
		"json number":   {json.Number("12.5"), "12.5"},
		"huge exponent": {"1e900000000", "0"},
		"tiny exponent": {"1e-900000000", "0"},
		"above max":     {"2000000", "0"},
		"at max":        {"1000000", "1000000"},
		"long fraction": {"12.345678", "12.3457"},
		"nan":           {math.NaN(), "0"},
		"inf":           {math.Inf(1), "0"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := NormalizePrice(tc.in)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s", got)
		})
	}
}

func TestTotalsKeepPrecision(t *testing.T) {
	items := []Item{{ID: "a", Price: decimal.RequireFromString("33.333"), Quantity: 3}}
	totals := ComputeTotals(items, DefaultPricing())

	require.True(t, totals.Subtotal.Equal(decimal.RequireFromString("99.999")))
	assert.True(t, totals.Tax.Equal(decimal.RequireFromString("9.9999")))
	assert.Equal(t, "138.00", totals.Display().Total)
	assert.Equal(t, int64(13800), totals.AmountMinor())
}
