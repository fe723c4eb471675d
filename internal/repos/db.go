package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline data if DB is empty (idempotent; safe to run every start)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users & sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  phone TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

CREATE TABLE IF NOT EXISTS addresses(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  recipient TEXT NOT NULL,
  phone TEXT NOT NULL,
  line1 TEXT NOT NULL,
  ward TEXT NOT NULL DEFAULT '',
  district TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL,
  is_default INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_addresses_user ON addresses(user_id);

-- Catalog
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  description TEXT,
  tags TEXT NOT NULL DEFAULT '[]',
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name));

CREATE TABLE IF NOT EXISTS variants(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  sku TEXT NOT NULL,
  color TEXT NOT NULL DEFAULT '',
  size TEXT NOT NULL DEFAULT '',
  material TEXT NOT NULL DEFAULT '',
  images TEXT NOT NULL DEFAULT '[]',
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_variants_sku ON variants(UPPER(sku));
CREATE INDEX IF NOT EXISTS idx_variants_product ON variants(product_id);

CREATE TABLE IF NOT EXISTS pricing(
  variant_id TEXT PRIMARY KEY REFERENCES variants(id) ON DELETE CASCADE,
  base_price INTEGER NOT NULL CHECK (base_price >= 0),
  sale_price INTEGER NOT NULL DEFAULT 0 CHECK (sale_price >= 0),
  sale_start TEXT NOT NULL DEFAULT '',
  sale_end   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS inventory(
  variant_id TEXT PRIMARY KEY REFERENCES variants(id) ON DELETE CASCADE,
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  reserved INTEGER NOT NULL DEFAULT 0 CHECK (reserved >= 0),
  updated_at TEXT
);

-- Shipping zones, first match by position wins
CREATE TABLE IF NOT EXISTS shipping_zones(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  cities TEXT NOT NULL DEFAULT '[]',
  fee INTEGER NOT NULL DEFAULT 0,
  free_threshold INTEGER NOT NULL DEFAULT 0,
  position INTEGER NOT NULL DEFAULT 0
);

-- Carts: owned by a user, or bound to a guest cookie token
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL DEFAULT '',
  guest_token TEXT NOT NULL DEFAULT '',
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_carts_user  ON carts(user_id);
CREATE INDEX IF NOT EXISTS idx_carts_guest ON carts(guest_token);

CREATE TABLE IF NOT EXISTS cart_items(
  id TEXT PRIMARY KEY,
  cart_id    TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  variant_id TEXT NOT NULL REFERENCES variants(id) ON DELETE RESTRICT,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  created_at TEXT,
  updated_at TEXT,
  UNIQUE (cart_id, variant_id)
);

-- Coupons
CREATE TABLE IF NOT EXISTS coupons(
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL,
  type TEXT NOT NULL CHECK (type IN ('PERCENTAGE','FIXED')),
  value INTEGER NOT NULL CHECK (value >= 0),
  min_order INTEGER NOT NULL DEFAULT 0,
  max_discount INTEGER NOT NULL DEFAULT 0,
  usage_limit INTEGER NOT NULL DEFAULT 0,
  used_count INTEGER NOT NULL DEFAULT 0,
  active INTEGER NOT NULL DEFAULT 1,
  start_date TEXT NOT NULL DEFAULT '',
  end_date TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_coupons_code ON coupons(UPPER(code));

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL REFERENCES users(id),
  address_id TEXT NOT NULL REFERENCES addresses(id),
  status TEXT NOT NULL DEFAULT 'PENDING',
  subtotal INTEGER NOT NULL,
  shipping_fee INTEGER NOT NULL,
  discount INTEGER NOT NULL DEFAULT 0,
  total INTEGER NOT NULL,
  coupon_id TEXT NOT NULL DEFAULT '',
  payment_method TEXT NOT NULL DEFAULT 'COD',
  note TEXT NOT NULL DEFAULT '',
  admin_note TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_user       ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  id TEXT PRIMARY KEY,
  order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  variant_id TEXT NOT NULL REFERENCES variants(id),
  quantity INTEGER NOT NULL,
  unit_price INTEGER NOT NULL,
  UNIQUE (order_id, variant_id)
);

CREATE TABLE IF NOT EXISTS order_status_history(
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  status TEXT NOT NULL,
  note TEXT NOT NULL DEFAULT '',
  actor TEXT NOT NULL DEFAULT 'system',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_history_order ON order_status_history(order_id);

-- After-sale
CREATE TABLE IF NOT EXISTS return_requests(
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL REFERENCES orders(id),
  user_id TEXT NOT NULL REFERENCES users(id),
  reason TEXT NOT NULL,
  detail TEXT NOT NULL DEFAULT '',
  evidence TEXT NOT NULL DEFAULT '[]',
  status TEXT NOT NULL DEFAULT 'PENDING',
  refund_amount INTEGER NOT NULL DEFAULT 0,
  admin_note TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_returns_order ON return_requests(order_id);

CREATE TABLE IF NOT EXISTS reviews(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products(id),
  user_id TEXT NOT NULL REFERENCES users(id),
  rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
  comment TEXT NOT NULL DEFAULT '',
  approved INTEGER NOT NULL DEFAULT 0,
  response TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  UNIQUE (product_id, user_id)
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo catalog/zones/coupons")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO categories(id,name,slug) VALUES
	  ('ao-dai','Áo dài','ao-dai'),
	  ('dam-vay','Đầm & Váy','dam-vay'),
	  ('ao-so-mi','Áo sơ mi lụa','ao-so-mi'),
	  ('phu-kien','Phụ kiện','phu-kien')`)

	tx.MustExec(`INSERT INTO products(id,category_id,name,description,tags) VALUES
	  ('ad-truyen-thong','ao-dai','Áo dài truyền thống','Áo dài lụa tơ tằm may thủ công','["lụa","truyền thống"]'),
	  ('dam-linen-01','dam-vay','Đầm linen dáng suông','Đầm linen thoáng mát cho mùa hè','["linen","mùa hè"]'),
	  ('sm-lua-01','ao-so-mi','Sơ mi lụa tay dài','Sơ mi lụa mềm, phù hợp công sở','["lụa","công sở"]')`)

	tx.MustExec(`INSERT INTO variants(id,product_id,sku,color,size,material,images) VALUES
	  ('v-ad-do-s','ad-truyen-thong','AD-DO-S','Đỏ','S','Lụa tơ tằm','["products/ad-truyen-thong/do-s.jpg"]'),
	  ('v-ad-do-m','ad-truyen-thong','AD-DO-M','Đỏ','M','Lụa tơ tằm','["products/ad-truyen-thong/do-m.jpg"]'),
	  ('v-dam-be-m','dam-linen-01','DAM-BE-M','Be','M','Linen','["products/dam-linen-01/be-m.jpg"]'),
	  ('v-sm-trang-l','sm-lua-01','SM-TRANG-L','Trắng','L','Lụa','["products/sm-lua-01/trang-l.jpg"]')`)

	tx.MustExec(`INSERT INTO pricing(variant_id,base_price,sale_price) VALUES
	  ('v-ad-do-s',1850000,0),
	  ('v-ad-do-m',1850000,1650000),
	  ('v-dam-be-m',790000,0),
	  ('v-sm-trang-l',650000,590000)`)

	tx.MustExec(`INSERT INTO inventory(variant_id,quantity,reserved) VALUES
	  ('v-ad-do-s',12,0),
	  ('v-ad-do-m',5,0),
	  ('v-dam-be-m',20,0),
	  ('v-sm-trang-l',8,0)`)

	tx.MustExec(`INSERT INTO shipping_zones(id,name,cities,fee,free_threshold,position) VALUES
	  ('zone-noi-thanh','Nội thành','["Hà Nội","Hồ Chí Minh"]',20000,500000,1),
	  ('zone-mien-trung','Miền Trung','["Huế","Đà Nẵng","Hội An"]',30000,0,2)`)

	tx.MustExec(`INSERT INTO coupons(id,code,type,value,min_order,max_discount,usage_limit,start_date,end_date) VALUES
	  ('cp-sale10','SALE10','PERCENTAGE',10,200000,100000,0,'',''),
	  ('cp-moi50','MOI50','FIXED',50000,300000,0,100,'','')`)

	return tx.Commit()
}

// seedUsers ensures a demo customer and one admin exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Phone, Role, Hash string
	}
	mk := func(id, email, name, phone, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Phone: phone, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-lan", "lan@aolua.test", "Ngọc Lan", "0912345678", "USER", "Matkhau1!"),
		mk("u-minh", "minh@aolua.test", "Minh Anh", "0987654321", "USER", "Matkhau1!"),
		mk("u-admin", "admin@aolua.test", "Quản trị", "0900000000", "ADMIN", "Matkhau1!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,phone,password_hash,role)
			VALUES(?,?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Phone, x.Hash, x.Role); err != nil {
			return err
		}
	}

	// A default address for the demo customer keeps checkout usable out of the box.
	if _, err := tx.Exec(`
		INSERT INTO addresses(id,user_id,recipient,phone,line1,ward,district,city,is_default)
		SELECT 'addr-lan-1','u-lan','Ngọc Lan','0912345678','12 Hàng Gai','Hàng Trống','Hoàn Kiếm','Hà Nội',1
		WHERE NOT EXISTS (SELECT 1 FROM addresses WHERE id='addr-lan-1')
	`); err != nil {
		return err
	}

	return tx.Commit()
}
