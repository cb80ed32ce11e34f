package repository

import (
	"context"
	"testing"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepoTest(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createTestShop(t *testing.T, testDB *gorm.DB, name string, groupID *string) *model.Shop {
	t.Helper()
	shop := &model.Shop{Name: name, StoreGroupID: groupID}
	require.NoError(t, NewShopRepository(testDB).Create(context.Background(), shop))
	return shop
}

func strPtr(s string) *string {
	return &s
}
