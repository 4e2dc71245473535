package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/edukasiku/ms-go-premium/app/entity"
)

func packageRows(pkgs ...*entity.PremiumPackage) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "name", "duration_months", "price", "description", "is_popular", "is_active",
		"created_at", "updated_at",
	})
	for _, pkg := range pkgs {
		rows.AddRow(pkg.ID, pkg.Name, pkg.DurationMonths, pkg.Price, nil, pkg.IsPopular, pkg.IsActive, pkg.CreatedAt, pkg.UpdatedAt)
	}
	return rows
}

func TestPackageListActiveOnly(t *testing.T) {
	mock, db, done := newMock(t)
	defer done()

	now := time.Now().UTC()
	pkg := &entity.PremiumPackage{ID: 3, Name: "1 Bulan", DurationMonths: 1, Price: 40000, IsActive: true, CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery("SELECT (.+) FROM packages\\s+WHERE is_active = \\? ORDER BY price ASC").
		WithArgs(true).
		WillReturnRows(packageRows(pkg))

	repo := NewPackageRepository(db)
	items, err := repo.List(context.Background(), true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 1 || items[0].ID != 3 {
		t.Fatalf("unexpected result: %+v", items)
	}
}

func TestPackageListIncludesInactive(t *testing.T) {
	mock, db, done := newMock(t)
	defer done()

	now := time.Now().UTC()
	active := &entity.PremiumPackage{ID: 3, Name: "1 Bulan", DurationMonths: 1, Price: 40000, IsActive: true, CreatedAt: now, UpdatedAt: now}
	retired := &entity.PremiumPackage{ID: 4, Name: "Lama", DurationMonths: 6, Price: 200000, IsActive: false, CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery("SELECT (.+) FROM packages\\s+ORDER BY price ASC").
		WillReturnRows(packageRows(active, retired))

	repo := NewPackageRepository(db)
	items, err := repo.List(context.Background(), false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected both packages, got %d", len(items))
	}
}

func TestPackageFindByIDMissingReturnsNil(t *testing.T) {
	mock, db, done := newMock(t)
	defer done()

	mock.ExpectQuery("SELECT (.+) FROM packages").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewPackageRepository(db)
	pkg, err := repo.FindByID(context.Background(), 99)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pkg != nil {
		t.Fatalf("expected nil for missing package, got %+v", pkg)
	}
}

func TestPackageUpdateMissingRow(t *testing.T) {
	mock, db, done := newMock(t)
	defer done()

	mock.ExpectExec("UPDATE packages").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPackageRepository(db)
	err := repo.Update(context.Background(), &entity.PremiumPackage{ID: 99, Name: "X"})
	if err != ErrPackageNotFound {
		t.Fatalf("expected ErrPackageNotFound, got %v", err)
	}
}
