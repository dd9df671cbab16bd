package schema_test

import (
	"context"
	"path/filepath"
	"reflect"
	"regexp"
	"testing"

	"spyglass/internal/dbclient"
	"spyglass/internal/domain"
	"spyglass/internal/schema"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockIntrospector(t *testing.T, client domain.Client) (*schema.Introspector, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	in, err := schema.New(dbclient.FromDB(client, db))
	if err != nil {
		t.Fatal(err)
	}
	return in, mock
}

var columnsHeader = []string{"name", "type", "prec", "nullable"}

// ── SplitIdentifier ─────────────────────────────────────────

func TestSplitIdentifier(t *testing.T) {
	cases := []struct{ in, schema, table string }{
		{"public.users", "public", "users"},
		{"users", "", "users"},
		{"a.b.c", "a", "b.c"},
	}
	for _, tc := range cases {
		s, tbl := schema.SplitIdentifier(tc.in)
		if s != tc.schema || tbl != tc.table {
			t.Errorf("%q: got (%q, %q), want (%q, %q)", tc.in, s, tbl, tc.schema, tc.table)
		}
	}
}

// ── Postgres ────────────────────────────────────────────────

func TestPostgresListTablesQualified(t *testing.T) {
	in, mock := newMockIntrospector(t, domain.ClientPostgres)
	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.tables")).
		WillReturnRows(sqlmock.NewRows([]string{"table_schema", "table_name"}).
			AddRow("public", "users").
			AddRow("sales", "orders"))

	tables, err := in.ListTables(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"public.users", "sales.orders"}
	if !reflect.DeepEqual(tables, want) {
		t.Errorf("got %v, want %v", tables, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresQualifiedColumnsAreScoped(t *testing.T) {
	in, mock := newMockIntrospector(t, domain.ClientPostgres)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE TABLE_SCHEMA = $1 AND TABLE_NAME = $2")).
		WithArgs("sales", "orders").
		WillReturnRows(sqlmock.NewRows(columnsHeader).
			AddRow("id", "integer", 32, "NO").
			AddRow("total", "numeric", 10, "YES").
			AddRow("note", "text", nil, "YES"))

	cols, err := in.Columns(context.Background(), "sales.orders")
	if err != nil {
		t.Fatal(err)
	}
	want := []domain.ColumnInfo{
		{Name: "id", Type: "integer", Numeric: true, Nullable: false},
		{Name: "total", Type: "numeric", Numeric: true, Nullable: true},
		{Name: "note", Type: "text", Numeric: false, Nullable: true},
	}
	if !reflect.DeepEqual(cols, want) {
		t.Errorf("got %+v, want %+v", cols, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// In a database with several schemas, looking up the bare name without
// scoping searches current_schema() and silently finds nothing.
func TestPostgresUnscopedLookupMissesOtherSchema(t *testing.T) {
	in, mock := newMockIntrospector(t, domain.ClientPostgres)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE TABLE_SCHEMA = current_schema() AND TABLE_NAME = $1")).
		WithArgs("orders").
		WillReturnRows(sqlmock.NewRows(columnsHeader))

	_, bare := schema.SplitIdentifier("sales.orders")
	cols, err := in.Columns(context.Background(), bare)
	if err != nil {
		t.Fatal(err)
	}
	if len(cols) != 0 {
		t.Errorf("unscoped lookup returned %v", cols)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresQualifiedMatchesScopedBare(t *testing.T) {
	in, mock := newMockIntrospector(t, domain.ClientPostgres)
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(regexp.QuoteMeta("WHERE TABLE_SCHEMA = $1 AND TABLE_NAME = $2")).
			WithArgs("public", "users").
			WillReturnRows(sqlmock.NewRows(columnsHeader).
				AddRow("id", "bigint", 64, "NO").
				AddRow("email", "text", nil, "NO"))
	}

	ctx := context.Background()
	qualified, err := in.Columns(ctx, "public.users")
	if err != nil {
		t.Fatal(err)
	}
	scoped, err := in.WithSchema("public").Columns(ctx, "users")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(qualified, scoped) {
		t.Errorf("qualified %v != scoped %v", qualified, scoped)
	}
}

func TestWithSchemaDoesNotMutateParent(t *testing.T) {
	in, _ := newMockIntrospector(t, domain.ClientPostgres)
	scoped := in.WithSchema("sales")
	if in.Schema() != "" || scoped.Schema() != "sales" {
		t.Errorf("parent %q, scoped %q", in.Schema(), scoped.Schema())
	}
}

// ── Other dialects ──────────────────────────────────────────

func TestMySQLUsesCurrentDatabase(t *testing.T) {
	in, mock := newMockIntrospector(t, domain.ClientMySQL)
	mock.ExpectQuery(regexp.QuoteMeta("TABLE_SCHEMA = DATABASE()")).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("orders"))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?")).
		WithArgs("orders").
		WillReturnRows(sqlmock.NewRows(columnsHeader).AddRow("qty", "int", "10", "NO"))

	catalog, err := in.Catalog(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := domain.Catalog{"orders": {{Name: "qty", Type: "int", Numeric: true}}}
	if !reflect.DeepEqual(catalog, want) {
		t.Errorf("got %+v", catalog)
	}
}

func TestMSSQLPlaceholders(t *testing.T) {
	in, mock := newMockIntrospector(t, domain.ClientMSSQL)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2")).
		WithArgs("sales", "orders").
		WillReturnRows(sqlmock.NewRows(columnsHeader))

	if _, err := in.Columns(context.Background(), "sales.orders"); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestOracleUsesUserTables(t *testing.T) {
	in, mock := newMockIntrospector(t, domain.ClientOracle)
	mock.ExpectQuery(regexp.QuoteMeta("FROM user_tables")).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("ORDERS"))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE owner = USER AND table_name = :1")).
		WithArgs("ORDERS").
		WillReturnRows(sqlmock.NewRows(columnsHeader).AddRow("AMOUNT", "NUMBER", 12, "Y"))

	catalog, err := in.Catalog(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := catalog["ORDERS"]; len(got) != 1 || !got[0].Numeric || !got[0].Nullable {
		t.Errorf("got %+v", got)
	}
}

func TestCatalogFailureIsWholesale(t *testing.T) {
	in, mock := newMockIntrospector(t, domain.ClientPostgres)
	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.tables")).
		WillReturnRows(sqlmock.NewRows([]string{"table_schema", "table_name"}).
			AddRow("public", "a").AddRow("public", "b"))
	mock.ExpectQuery(regexp.QuoteMeta("INFORMATION_SCHEMA.COLUMNS")).
		WillReturnRows(sqlmock.NewRows(columnsHeader).AddRow("id", "int", 32, "NO"))
	mock.ExpectQuery(regexp.QuoteMeta("INFORMATION_SCHEMA.COLUMNS")).
		WillReturnError(context.DeadlineExceeded)

	catalog, err := in.Catalog(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if catalog != nil {
		t.Errorf("partial catalog returned: %v", catalog)
	}
}

func TestUnsupportedClient(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := schema.New(dbclient.FromDB("db2", db)); err == nil {
		t.Fatal("expected error")
	}
}

// ── SQLite end to end ───────────────────────────────────────

func TestSQLiteCatalog(t *testing.T) {
	p := &domain.ConnectionProfile{Client: domain.ClientSQLite, Database: filepath.Join(t.TempDir(), "s.db")}
	conn, err := dbclient.NewConn(p, "")
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	ctx := context.Background()
	if _, err := conn.Query(ctx, `CREATE TABLE sales (id INTEGER PRIMARY KEY, region TEXT NOT NULL, amount REAL, paid_at DATETIME, raw BLOB)`); err != nil {
		t.Fatal(err)
	}

	in, err := schema.New(conn)
	if err != nil {
		t.Fatal(err)
	}
	catalog, err := in.Catalog(ctx)
	if err != nil {
		t.Fatal(err)
	}
	cols, ok := catalog["sales"]
	if !ok {
		t.Fatalf("sales missing from %v", catalog)
	}
	numeric := map[string]bool{}
	for _, c := range cols {
		numeric[c.Name] = c.Numeric
	}
	want := map[string]bool{"id": true, "region": false, "amount": true, "paid_at": true, "raw": false}
	if !reflect.DeepEqual(numeric, want) {
		t.Errorf("numeric = %v, want %v", numeric, want)
	}
	if cols[1].Nullable {
		t.Error("region is NOT NULL")
	}

	scoped, err := in.Columns(ctx, "main.sales")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(scoped, cols) {
		t.Errorf("main.sales = %v, want %v", scoped, cols)
	}
}
