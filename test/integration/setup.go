package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id VARCHAR(50) PRIMARY KEY,
			slug VARCHAR(100) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price DECIMAL(10, 2) NOT NULL,
			type VARCHAR(20) NOT NULL DEFAULT 'digital',
			has_whatsapp_support BOOLEAN NOT NULL DEFAULT FALSE,
			whatsapp_number VARCHAR(20) NOT NULL DEFAULT '',
			status BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			customer_name VARCHAR(255) NOT NULL,
			customer_email VARCHAR(255) NOT NULL DEFAULT '',
			customer_cpf_cnpj VARCHAR(20) NOT NULL DEFAULT '',
			customer_phone VARCHAR(20) NOT NULL DEFAULT '',
			product_id VARCHAR(50) NOT NULL,
			product_name VARCHAR(255) NOT NULL,
			product_price DECIMAL(10, 2) NOT NULL,
			product_type VARCHAR(20) NOT NULL DEFAULT 'digital',
			payment_method VARCHAR(20) NOT NULL,
			status VARCHAR(30) NOT NULL DEFAULT 'PENDING',
			asaas_payment_id VARCHAR(100) NOT NULL DEFAULT '',
			has_whatsapp_support BOOLEAN NOT NULL DEFAULT FALSE,
			whatsapp_number VARCHAR(20) NOT NULL DEFAULT '',
			card_holder VARCHAR(255),
			card_number VARCHAR(30),
			card_expiry_month VARCHAR(2),
			card_expiry_year VARCHAR(4),
			card_cvv VARCHAR(4),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS gateway_config (
			id SERIAL PRIMARY KEY,
			use_netlify_functions BOOLEAN NOT NULL DEFAULT FALSE,
			manual_card_redirect_page VARCHAR(255) NOT NULL DEFAULT '',
			sandbox BOOLEAN NOT NULL DEFAULT TRUE
		);

		CREATE INDEX IF NOT EXISTS idx_orders_product_id ON orders(product_id);
		CREATE INDEX IF NOT EXISTS idx_orders_asaas_payment_id ON orders(asaas_payment_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedProducts inserts test product data into the database.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	products := []struct {
		id       string
		slug     string
		name     string
		price    float64
		typ      string
		whatsapp bool
		number   string
	}{
		{"P001", "curso-basico", "Curso Básico", 29.90, "digital", false, ""},
		{"P002", "curso-completo", "Curso Completo", 49.90, "digital", true, "5511999998888"},
		{"P003", "mentoria", "Mentoria Individual", 199.90, "digital", true, "5511999997777"},
		{"P004", "apostila-impressa", "Apostila Impressa", 79.90, "physical", false, ""},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx,
			`INSERT INTO products (id, slug, name, price, type, has_whatsapp_support, whatsapp_number)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.id, p.slug, p.name, p.price, p.typ, p.whatsapp, p.number,
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.id, err)
		}
	}
}

// SeedGatewayConfig inserts the single gateway configuration row.
func SeedGatewayConfig(t *testing.T, pool *pgxpool.Pool, useNetlify bool, redirectPage string) {
	t.Helper()

	ctx := context.Background()
	_, err := pool.Exec(ctx,
		`INSERT INTO gateway_config (use_netlify_functions, manual_card_redirect_page, sandbox)
		 VALUES ($1, $2, TRUE)`,
		useNetlify, redirectPage,
	)
	if err != nil {
		t.Fatalf("failed to seed gateway config: %v", err)
	}
}

// SeedOrder inserts one order row and returns its id.
func SeedOrder(t *testing.T, pool *pgxpool.Pool, status string) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	id := uuid.New()
	_, err := pool.Exec(ctx,
		`INSERT INTO orders (id, customer_name, customer_email, product_id, product_name, product_price, payment_method, status)
		 VALUES ($1, 'Maria Silva', 'maria@example.com', 'P002', 'Curso Completo', 49.90, 'pix', $2)`,
		id, status,
	)
	if err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	return id
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"orders", "gateway_config", "products"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
