package services

import (
	"testing"
	"time"

	"github.com/K-Thour/PointsServer/config"
	"github.com/K-Thour/PointsServer/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testLoc = time.FixedZone("UTC+3", 3*60*60)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), config.GormConfig(zap.NewNop()))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to ":memory:" is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

type recordedEvent struct {
	userID uint
	rec    *models.DailyRecord
}

type fakeEvents struct{ events []recordedEvent }

func (f *fakeEvents) RecordCreated(userID uint, rec *models.DailyRecord) {
	f.events = append(f.events, recordedEvent{userID: userID, rec: rec})
}

func newTestRecordService(t *testing.T, now time.Time) (*RecordService, *fakeEvents, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	events := &fakeEvents{}
	svc := NewRecordService(NewRecordStore(db), events, testLoc, zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc, events, db
}

func allDone() map[string]bool {
	tasks := make(map[string]bool, len(models.RequiredTasks))
	for _, name := range models.RequiredTasks {
		tasks[name] = true
	}
	return tasks
}

func newRecord(userID uint, date time.Time) *models.DailyRecord {
	tasks := models.Tasks(allDone())
	return &models.DailyRecord{
		UserID:      userID,
		Date:        date,
		Tasks:       tasks,
		Reasons:     models.Reasons{},
		TotalPoints: tasks.Points(),
	}
}
