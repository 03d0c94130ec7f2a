package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID   uuid.UUID `gorm:"primaryKey"           json:"id"`
	Name string    `gorm:"uniqueIndex;not null" json:"name"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Price is stored in cents. All money in the service is integer cents so
// totals compare exactly.
type Product struct {
	ID          uuid.UUID `gorm:"primaryKey"     json:"id"`
	Name        string    `gorm:"not null"       json:"name"`
	Description string    `json:"description"`
	Price       int64     `gorm:"not null"       json:"price"`
	Count       uint      `json:"count"`
	CategoryID  uuid.UUID `gorm:"index"          json:"category_id"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Cart exists as its own row so that a cart emptied item by item is still
// distinguishable from a customer who never had one. At most one cart per
// user.
type Cart struct {
	ID     uuid.UUID  `gorm:"primaryKey"           json:"id"`
	UserID uuid.UUID  `gorm:"uniqueIndex;not null" json:"user_id"`
	Items  []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// UnitPrice is the product price snapshotted when the line was added.
// Amount is recomputed as unit_price*quantity on every mutation.
type CartItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                             json:"id"`
	CartID    uuid.UUID `gorm:"uniqueIndex:idx_cart_product;not null"  json:"cart_id"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_cart_product;not null"  json:"product_id"`
	UnitPrice int64     `gorm:"not null"                               json:"unit_price"`
	Quantity  uint      `gorm:"default:1;check:quantity>0"             json:"quantity"`
	Amount    int64     `gorm:"not null"                               json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

// Order is append-only: created once by checkout, never mutated. PaymentID
// carries the provider transaction id and is unique, so a replayed payment
// confirmation cannot mint a second order.
type Order struct {
	ID        uuid.UUID   `gorm:"primaryKey"           json:"id"`
	UserID    uuid.UUID   `gorm:"index;not null"       json:"user_id"`
	PaymentID string      `gorm:"uniqueIndex;not null" json:"payment_id"`
	Total     int64       `gorm:"not null"             json:"total"`
	CreatedAt time.Time   `gorm:"index;not null"       json:"created_at"`
	Items     []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"primaryKey"     json:"id"`
	OrderID   uuid.UUID `gorm:"index;not null" json:"order_id"`
	ProductID uuid.UUID `gorm:"not null"       json:"product_id"`
	UnitPrice int64     `gorm:"not null"       json:"unit_price"`
	Quantity  uint      `gorm:"not null"       json:"quantity"`
	Amount    int64     `gorm:"not null"       json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

func (o *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (OrderItem) TableName() string {
	return "order_items"
}

type User struct {
	ID           uuid.UUID `gorm:"primaryKey"           json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null"             json:"-"`
	Role         string    `gorm:"not null"             json:"role"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type RefreshToken struct {
	JTI       string    `gorm:"primaryKey"     json:"jti"`
	UserID    uuid.UUID `gorm:"index;not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"       json:"expires_at"`
	Revoked   bool      `gorm:"not null"       json:"revoked"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// All registers every model for AutoMigrate.
func All() []any {
	return []any{
		&Category{},
		&Product{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&User{},
		&RefreshToken{},
	}
}
