package mysql

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bizsimlab/venture-sim/internal/domain/scenarios"
)

var scenarioColumns = []string{
	"id", "user_id", "title", "budget", "location", "timeline", "description",
	"simulation", "report_url", "created_at", "updated_at",
}

func sampleScenario() *domain.Scenario {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Scenario{
		ID:          "scn-1",
		UserID:      "u-1",
		Title:       "Bakery",
		Budget:      12000,
		Location:    "Lyon",
		Timeline:    "4 months",
		Description: "Sourdough bakery",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestScenarioRepositoryCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := sampleScenario()
	mock.ExpectExec("INSERT INTO scenarios").
		WithArgs(s.ID, s.UserID, s.Title, s.Budget, s.Location, s.Timeline, s.Description,
			nil, s.ReportURL, s.CreatedAt, s.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewScenarioRepository(db)
	require.NoError(t, repo.Create(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScenarioRepositoryUpdateStoresSimulationJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := sampleScenario()
	s.Simulation = domain.FallbackResult("raw output")
	simJSON, err := json.Marshal(s.Simulation)
	require.NoError(t, err)

	mock.ExpectExec("UPDATE scenarios").
		WithArgs(s.Title, s.Budget, s.Location, s.Timeline, s.Description,
			string(simJSON), s.ReportURL, s.UpdatedAt, s.UserID, s.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewScenarioRepository(db)
	require.NoError(t, repo.Update(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScenarioRepositoryFindAllByOwnerOrdersNewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	older := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	sim := `{"recommendations":"ok","marketAnalysis":{"marketSize":"medium","competitionLevel":"medium","growthPotential":"moderate"},"risks":[]}`

	rows := sqlmock.NewRows(scenarioColumns).
		AddRow("scn-2", "u-1", "Second", 5.0, "X", "1m", "d", sim, "", newer, newer).
		AddRow("scn-1", "u-1", "First", 3.0, "Y", "2m", "d", nil, "", older, older)

	mock.ExpectQuery("SELECT (.+) FROM scenarios WHERE user_id=\\? ORDER BY created_at DESC").
		WithArgs("u-1").
		WillReturnRows(rows)

	repo := NewScenarioRepository(db)
	list, err := repo.FindAllByOwner(context.Background(), "u-1")
	require.NoError(t, err)

	require.Len(t, list, 2)
	assert.Equal(t, domain.ScenarioID("scn-2"), list[0].ID)
	require.NotNil(t, list[0].Simulation)
	assert.Equal(t, "ok", list[0].Simulation.Recommendations)
	assert.Nil(t, list[1].Simulation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScenarioRepositoryFindOneAbsent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM scenarios WHERE user_id=\\? AND id=\\?").
		WithArgs("u-1", "nope").
		WillReturnRows(sqlmock.NewRows(scenarioColumns))

	repo := NewScenarioRepository(db)
	got, err := repo.FindOneByOwnerAndID(context.Background(), "u-1", "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScenarioRepositoryDeleteIsOwnerScoped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM scenarios WHERE user_id=\\? AND id=\\?").
		WithArgs("u-1", "scn-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewScenarioRepository(db)
	require.NoError(t, repo.Delete(context.Background(), "u-1", "scn-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByEmailAbsent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email=\\?").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}))

	repo := NewUserRepository(db)
	got, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
