package product

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productRowColumns = []string{"id", "name", "description", "price", "sizes", "image_url", "in_stock", "created_at"}

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows(productRowColumns).
		AddRow(1, "Classic Hoodie", "Brushed fleece", "1499", "{S,M,L}", "https://cdn/1.jpg", true, time.Now()).
		AddRow(2, "Zip Hoodie", nil, "899.50", "{M,XL}", nil, false, time.Now())
}

func TestRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("DefaultOrder", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM products ORDER BY created_at DESC`).
			WillReturnRows(productRows())

		products, err := repo.List(context.Background(), ListOptions{})
		require.NoError(t, err)
		require.Len(t, products, 2)

		assert.Equal(t, int64(1), products[0].ID)
		assert.True(t, products[0].Price.Equal(decimal.NewFromInt(1499)))
		assert.Equal(t, []string{"S", "M", "L"}, products[0].Sizes)
		require.NotNil(t, products[0].Description)
		assert.Equal(t, "Brushed fleece", *products[0].Description)

		assert.Nil(t, products[1].Description)
		assert.Nil(t, products[1].ImageURL)
		assert.True(t, products[1].Price.Equal(decimal.RequireFromString("899.5")))
	})

	t.Run("InStockSearchSortLimit", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM products WHERE in_stock = TRUE AND \(name ILIKE \$1 ESCAPE '\\' OR description ILIKE \$1 ESCAPE '\\'\) ORDER BY price ASC LIMIT \$2`).
			WithArgs("%hood%", 4).
			WillReturnRows(sqlmock.NewRows(productRowColumns))

		products, err := repo.List(context.Background(), ListOptions{
			InStock: true,
			Search:  " hood ",
			Sort:    SortPriceLow,
			Limit:   4,
		})
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("SearchMatchesWildcardsLiterally", func(t *testing.T) {
		mock.ExpectQuery(`name ILIKE \$1 ESCAPE`).
			WithArgs(`%50\%\_off\\%`).
			WillReturnRows(sqlmock.NewRows(productRowColumns))

		_, err := repo.List(context.Background(), ListOptions{Search: `50%_off\`})
		assert.NoError(t, err)
	})

	t.Run("PriceHigh", func(t *testing.T) {
		mock.ExpectQuery(`ORDER BY price DESC`).
			WillReturnRows(sqlmock.NewRows(productRowColumns))

		_, err := repo.List(context.Background(), ListOptions{Sort: SortPriceHigh})
		assert.NoError(t, err)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM products`).
			WillReturnError(errors.New("db error"))

		_, err := repo.List(context.Background(), ListOptions{})
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM products WHERE id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(productRows())

		p, err := repo.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Classic Hoodie", p.Name)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM products WHERE id = \$1`).
			WithArgs(int64(9)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), 9)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestRepository_CreateUpdateDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	input := Input{
		Name:    "Classic Hoodie",
		Price:   decimal.NewFromInt(1499),
		Sizes:   []string{"S", "M", "L"},
		InStock: true,
	}

	t.Run("Create", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO products`).
			WithArgs("Classic Hoodie", nil, sqlmock.AnyArg(), sqlmock.AnyArg(), nil, true).
			WillReturnRows(productRows())

		p, err := repo.Create(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, int64(1), p.ID)
	})

	t.Run("UpdateNotFound", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE products`).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Update(context.Background(), 5, input)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), 1))
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM products`).
			WithArgs(int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), 2), ErrProductNotFound)
	})

	t.Run("Count", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

		n, err := repo.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 12, n)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
