package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lurighe2000/laburen-desafio/internal/models"
	"github.com/lurighe2000/laburen-desafio/internal/storage"
)

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSeedProductsFromCSV(t *testing.T) {
	store := storage.NewMemoryStore()
	path := writeSeedFile(t, "name,description,price,stock\n"+
		"Media negra M,Cómoda,1000,50\n"+
		"Media blanca L,Clásica,\"1099,99\",30\n")

	require.NoError(t, storage.SeedProductsFromCSV(store, path))

	products, err := store.ListProducts("")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Media negra M", products[0].Name)
	assert.Equal(t, 1099.99, products[1].Price)
	assert.Equal(t, 30, products[1].Stock)
}

func TestSeedSkipsWhenCatalogPopulated(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.CreateProducts([]*models.Product{
		{Name: "Existente", Price: 1, Stock: 1},
	}))

	path := writeSeedFile(t, "Nuevo,,10,5\n")
	require.NoError(t, storage.SeedProductsFromCSV(store, path))

	count, err := store.CountProducts()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSeedSkipsMalformedRows(t *testing.T) {
	store := storage.NewMemoryStore()
	path := writeSeedFile(t, "Media,desc,1000,50\n"+
		"Rota,desc,precio,50\n"+
		"Corta,10\n")

	require.NoError(t, storage.SeedProductsFromCSV(store, path))

	count, err := store.CountProducts()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSeedMissingFile(t *testing.T) {
	store := storage.NewMemoryStore()
	err := storage.SeedProductsFromCSV(store, "/does/not/exist.csv")
	assert.Error(t, err)
}
