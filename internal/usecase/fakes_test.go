package usecase_test

import (
	"context"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// インメモリのDB代わり。
// fakeTxManagerがコピーに対して作業して、成功時だけ書き戻す（ロールバックを再現する）。
type fakeStore struct {
	addresses map[int64]model.Address
	products  map[int64]model.Product
	cartItems []model.CartItem
	orders    []model.Order
	details   []model.OrderDetail
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		addresses: map[int64]model.Address{},
		products:  map[int64]model.Product{},
		nextID:    1,
	}
}

func (s *fakeStore) id() int64 {
	v := s.nextID
	s.nextID++
	return v
}

func (s *fakeStore) clone() *fakeStore {
	c := &fakeStore{
		addresses: make(map[int64]model.Address, len(s.addresses)),
		products:  make(map[int64]model.Product, len(s.products)),
		nextID:    s.nextID,
	}
	for k, v := range s.addresses {
		c.addresses[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	c.cartItems = append([]model.CartItem(nil), s.cartItems...)
	c.orders = append([]model.Order(nil), s.orders...)
	c.details = append([]model.OrderDetail(nil), s.details...)
	return c
}

// fnがerrorを返したら作業コピーごと捨てる
type fakeTxManager struct {
	store *fakeStore
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	work := m.store.clone()
	if err := fn(&fakeTxRepos{s: work}); err != nil {
		return err
	}
	*m.store = *work
	return nil
}

type fakeTxRepos struct {
	s *fakeStore
}

func (r *fakeTxRepos) Orders() repo.OrderRepository             { return &fakeOrderRepo{s: r.s} }
func (r *fakeTxRepos) OrderDetails() repo.OrderDetailRepository { return &fakeDetailRepo{s: r.s} }
func (r *fakeTxRepos) Products() repo.ProductRepository         { return &fakeProductRepo{s: r.s} }
func (r *fakeTxRepos) CartItems() repo.CartItemRepository       { return &fakeCartRepo{s: r.s} }
func (r *fakeTxRepos) Addresses() repo.AddressRepository        { return &fakeAddressRepo{s: r.s} }

type fakeOrderRepo struct {
	s *fakeStore
}

func (r *fakeOrderRepo) Create(ctx context.Context, order model.Order) (model.Order, error) {
	order.ID = r.s.id()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	r.s.orders = append(r.s.orders, order)
	return order, nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	for _, o := range r.s.orders {
		if o.ID == orderID {
			return o, nil
		}
	}
	return model.Order{}, repo.ErrNotFound
}

func (r *fakeOrderRepo) FindByNo(ctx context.Context, no string) (model.Order, error) {
	for _, o := range r.s.orders {
		if o.No == no {
			return o, nil
		}
	}
	return model.Order{}, repo.ErrNotFound
}

func (r *fakeOrderRepo) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range r.s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	for i := range r.s.orders {
		if r.s.orders[i].ID == orderID {
			r.s.orders[i].Status = status
			return nil
		}
	}
	return repo.ErrNotFound
}

type fakeDetailRepo struct {
	s *fakeStore
}

func (r *fakeDetailRepo) CreateBulk(ctx context.Context, orderID int64, details []model.OrderDetail) ([]model.OrderDetail, error) {
	for i := range details {
		details[i].ID = r.s.id()
		details[i].OrderID = orderID
	}
	r.s.details = append(r.s.details, details...)
	return details, nil
}

func (r *fakeDetailRepo) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderDetail, error) {
	var out []model.OrderDetail
	for _, d := range r.s.details {
		if d.OrderID == orderID {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeProductRepo struct {
	s *fakeStore
}

func (r *fakeProductRepo) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.s.products {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id int64) (model.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindByUUID(ctx context.Context, u string) (model.Product, error) {
	for _, p := range r.s.products {
		if p.UUID == u {
			return p, nil
		}
	}
	return model.Product{}, repo.ErrNotFound
}

func (r *fakeProductRepo) ReserveStock(ctx context.Context, productID int64, qty int64) (bool, error) {
	p, ok := r.s.products[productID]
	if !ok || p.Count < qty {
		return false, nil
	}
	p.Count -= qty
	p.SafeCount += qty
	r.s.products[productID] = p
	return true, nil
}

func (r *fakeProductRepo) ReleaseStock(ctx context.Context, productID int64, qty int64) error {
	p, ok := r.s.products[productID]
	if !ok {
		return repo.ErrNotFound
	}
	p.Count += qty
	p.SafeCount -= qty
	r.s.products[productID] = p
	return nil
}

type fakeCartRepo struct {
	s *fakeStore
}

func (r *fakeCartRepo) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	var out []model.CartItem
	for _, it := range r.s.cartItems {
		if it.UserID == userID {
			it.Product = r.s.products[it.ProductID]
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *fakeCartRepo) UpsertByUserAndProduct(ctx context.Context, userID int64, productID int64, addQty int64) error {
	for i := range r.s.cartItems {
		if r.s.cartItems[i].UserID == userID && r.s.cartItems[i].ProductID == productID {
			r.s.cartItems[i].Number += addQty
			return nil
		}
	}
	r.s.cartItems = append(r.s.cartItems, model.CartItem{
		ID:        r.s.id(),
		UserID:    userID,
		ProductID: productID,
		Number:    addQty,
	})
	return nil
}

func (r *fakeCartRepo) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	for _, it := range r.s.cartItems {
		if it.ID == cartItemID {
			it.Product = r.s.products[it.ProductID]
			return it, nil
		}
	}
	return model.CartItem{}, repo.ErrNotFound
}

func (r *fakeCartRepo) DeleteByID(ctx context.Context, cartItemID int64) error {
	for i := range r.s.cartItems {
		if r.s.cartItems[i].ID == cartItemID {
			r.s.cartItems = append(r.s.cartItems[:i], r.s.cartItems[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (r *fakeCartRepo) IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error) {
	for _, it := range r.s.cartItems {
		if it.ID == cartItemID && it.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCartRepo) ClearByUserID(ctx context.Context, userID int64) error {
	kept := r.s.cartItems[:0]
	for _, it := range r.s.cartItems {
		if it.UserID != userID {
			kept = append(kept, it)
		}
	}
	r.s.cartItems = kept
	return nil
}

type fakeAddressRepo struct {
	s *fakeStore
}

func (r *fakeAddressRepo) Create(ctx context.Context, address model.Address) (model.Address, error) {
	address.ID = r.s.id()
	r.s.addresses[address.ID] = address
	return address, nil
}

func (r *fakeAddressRepo) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	var out []model.Address
	for _, a := range r.s.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAddressRepo) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	a, ok := r.s.addresses[addressID]
	if !ok {
		return model.Address{}, repo.ErrNotFound
	}
	return a, nil
}

func (r *fakeAddressRepo) IsOwnedByUser(ctx context.Context, addressID, userID int64) (bool, error) {
	a, ok := r.s.addresses[addressID]
	return ok && a.UserID == userID, nil
}

// コミット後のキャンセル予約を記録する
type scheduledCancel struct {
	orderNo string
	delay   time.Duration
}

type fakeScheduler struct {
	calls []scheduledCancel
	err   error
}

func (f *fakeScheduler) ScheduleCancel(ctx context.Context, orderNo string, delay time.Duration) error {
	f.calls = append(f.calls, scheduledCancel{orderNo: orderNo, delay: delay})
	return f.err
}

func seedAddress(s *fakeStore, userID int64) model.Address {
	a := model.Address{
		ID:         s.id(),
		UserID:     userID,
		PostalCode: "100-0001",
		Prefecture: "東京都",
		City:       "千代田区",
		Line1:      "1-1-1",
		Name:       "山田太郎",
		Phone:      "090-0000-0000",
	}
	s.addresses[a.ID] = a
	return a
}

func seedProduct(s *fakeStore, name string, price string, count int64) model.Product {
	p := model.Product{
		ID:    s.id(),
		UUID:  uuid.NewString(),
		Name:  name,
		Price: decimal.RequireFromString(price),
		Count: count,
	}
	s.products[p.ID] = p
	return p
}

func seedCartItem(s *fakeStore, userID int64, productID int64, number int64) model.CartItem {
	it := model.CartItem{
		ID:        s.id(),
		UserID:    userID,
		ProductID: productID,
		Number:    number,
	}
	s.cartItems = append(s.cartItems, it)
	return it
}
