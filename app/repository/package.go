package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/edukasiku/ms-go-premium/app/entity"
)

var ErrPackageNotFound = errors.New("package not found")

type PackageRepository struct {
	db DBTX
}

func NewPackageRepository(db DBTX) *PackageRepository {
	return &PackageRepository{db: db}
}

const packageColumns = `id, name, duration_months, price, description, is_popular, is_active,
	       created_at, updated_at`

func (r *PackageRepository) Create(ctx context.Context, pkg *entity.PremiumPackage) error {
	query := `
		INSERT INTO packages (
			name, duration_months, price, description, is_popular, is_active,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		pkg.Name,
		pkg.DurationMonths,
		pkg.Price,
		nullableStringValue(pkg.Description),
		pkg.IsPopular,
		pkg.IsActive,
		pkg.CreatedAt,
		pkg.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	pkg.ID = uint64(id)
	return nil
}

func (r *PackageRepository) Update(ctx context.Context, pkg *entity.PremiumPackage) error {
	query := `
		UPDATE packages
		SET name = ?, duration_months = ?, price = ?, description = ?,
		    is_popular = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		pkg.Name,
		pkg.DurationMonths,
		pkg.Price,
		nullableStringValue(pkg.Description),
		pkg.IsPopular,
		pkg.IsActive,
		pkg.UpdatedAt,
		pkg.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPackageNotFound
	}

	return nil
}

func (r *PackageRepository) FindByID(ctx context.Context, id uint64) (*entity.PremiumPackage, error) {
	query := `
		SELECT ` + packageColumns + `
		FROM packages
		WHERE id = ?
	`

	item := &entity.PremiumPackage{}
	if err := scanPackage(
		r.db.QueryRowContext(ctx, query, id),
		item,
	); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *PackageRepository) List(ctx context.Context, activeOnly bool) ([]*entity.PremiumPackage, error) {
	query := `
		SELECT ` + packageColumns + `
		FROM packages
	`
	args := make([]interface{}, 0, 1)
	if activeOnly {
		query += " WHERE is_active = ?"
		args = append(args, true)
	}
	query += " ORDER BY price ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.PremiumPackage, 0)
	for rows.Next() {
		item := &entity.PremiumPackage{}
		if err := scanPackage(rows, item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func scanPackage(scanner rowScanner, item *entity.PremiumPackage) error {
	var description sql.NullString

	err := scanner.Scan(
		&item.ID,
		&item.Name,
		&item.DurationMonths,
		&item.Price,
		&description,
		&item.IsPopular,
		&item.IsActive,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if description.Valid {
		item.Description = &description.String
	} else {
		item.Description = nil
	}

	return nil
}
