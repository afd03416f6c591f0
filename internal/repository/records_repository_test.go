package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub017/pkg/errors"
)

func TestMedicationRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewMedicationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO medications (student_id, name")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	med := &models.Medication{StudentID: 4, Name: "Albuterol", Status: models.MedicationStatusActive}
	require.NoError(t, repo.Create(context.Background(), med))
	assert.Equal(t, int64(12), med.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMedicationRepositoryListActiveOn(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewMedicationRepository(db)

	day := time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)
	studentID := int64(4)
	mock.ExpectQuery(`WHERE status = \$1 AND parent_consent = TRUE(.|\n)*AND student_id = \$3 ORDER BY student_id, name`).
		WithArgs(models.MedicationStatusActive, models.Date(2026, 10, 14), studentID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "name", "status"}).
			AddRow(1, 4, "Albuterol", "ACTIVE"))

	meds, err := repo.ListActiveOn(context.Background(), &studentID, day)
	require.NoError(t, err)
	require.Len(t, meds, 1)
	assert.Equal(t, "Albuterol", meds[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMedicationRepositoryListActiveOnWholeSchool(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewMedicationRepository(db)

	mock.ExpectQuery(`expiration_date >= \$2\) ORDER BY student_id, name`).
		WithArgs(models.MedicationStatusActive, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	meds, err := repo.ListActiveOn(context.Background(), nil, time.Now())
	require.NoError(t, err)
	assert.Empty(t, meds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAPIKeyRepositoryFindByHash(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAPIKeyRepository(db)

	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(apiKeySelect + " WHERE key_hash = $1")).
		WithArgs("digest").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "key_prefix", "key_hash", "scopes", "status", "issued_at"}).
			AddRow(3, "transport vendor", "hx_ab12cd34", "digest", "routes:read", "ACTIVE", issued))

	key, err := repo.FindByHash(context.Background(), "digest")
	require.NoError(t, err)
	assert.Equal(t, "hx_ab12cd34", key.KeyPrefix)
	assert.True(t, key.HasScope("routes:read"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAPIKeyRepositoryRevoke(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAPIKeyRepository(db)

	at := time.Now()
	actor := int64(2)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE api_keys SET status = $2")).
		WithArgs(int64(3), models.APIKeyStatusRevoked, at, &actor).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE api_keys SET status = $2")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Revoke(context.Background(), 3, &actor, at))
	err := repo.Revoke(context.Background(), 3, &actor, at)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordLockRepositoryFindActive(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewRecordLockRepository(db)

	now := time.Now()
	mock.ExpectQuery(`FROM record_locks WHERE resource_type = \$1 AND resource_id = \$2`).
		WithArgs("withdrawal", int64(7), models.LockStatusActive, now).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindActive(context.Background(), "withdrawal", 7, now)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordLockRepositoryRelease(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewRecordLockRepository(db)

	at := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE record_locks SET status = $2, released_at = $3")).
		WithArgs("tok", models.LockStatusReleased, at, nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Release(context.Background(), "tok", nil, at)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordLockRepositoryExpireStale(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewRecordLockRepository(db)

	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE record_locks SET status = $1, updated_at = $2 WHERE status = $3")).
		WithArgs(models.LockStatusExpired, now, models.LockStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.ExpireStale(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryOpenRecords(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM ieps WHERE status IN ($1, $2, $3)")).
		WithArgs(models.IEPStatusDraft, models.IEPStatusPendingApproval, models.IEPStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"id", "iep_number", "student_id", "status"}).AddRow(1, "IEP-1", 4, "ACTIVE"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM student_fees WHERE status IN ($1, $2)")).
		WithArgs(models.FeeStatusUnpaid, models.FeeStatusPartial).
		WillReturnRows(sqlmock.NewRows([]string{"id", "invoice_number", "amount_cents", "paid_cents"}).AddRow(2, "INV-2", 5000, 1000))

	ieps, err := repo.OpenIEPs(context.Background())
	require.NoError(t, err)
	require.Len(t, ieps, 1)
	assert.Equal(t, models.IEPStatusActive, ieps[0].Status)

	fees, err := repo.UnsettledFees(context.Background())
	require.NoError(t, err)
	require.Len(t, fees, 1)
	assert.Equal(t, "INV-2", fees[0].InvoiceNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryPropagatesErrors(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectQuery("FROM crisis_interventions").WillReturnError(errors.New("boom"))

	_, err := repo.OpenCrises(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list open crises")
}

func TestAuditRepositoryCreateDefaults(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry := &models.AuditLog{Action: models.AuditActionTransition, Resource: "withdrawal", ResourceID: models.Int64Ptr(7)}
	require.NoError(t, repo.CreateAuditLog(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryListClampsLimit(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectQuery("FROM audit_logs WHERE resource = \\$1").
		WithArgs("withdrawal", int64(7), 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "action"}).AddRow("a", "CREATE"))

	logs, err := repo.ListByResource(context.Background(), "withdrawal", 7, 1000)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheRepositoryDisabled(t *testing.T) {
	repo := NewCacheRepository(nil)
	var dest map[string]string

	assert.False(t, repo.Enabled())
	assert.ErrorIs(t, repo.Get(context.Background(), "k", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(context.Background(), "k", "v", time.Minute))
	assert.NoError(t, repo.Delete(context.Background(), "k"))
	assert.NoError(t, repo.Ping(context.Background()))
	assert.NoError(t, repo.Close())
}

func TestMedicationRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewMedicationRepository(db)

	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE medications SET status = $2")).
		WithArgs(int64(12), models.MedicationStatusOnHold, nil, now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 12, models.MedicationStatusOnHold, nil, now)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}
