package hackathons

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackhub/hackhub/go/internal/apperrors"
	"github.com/hackhub/hackhub/go/internal/models"
)

type fakeRepo struct {
	hackathons map[uuid.UUID]*models.Hackathon
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{hackathons: make(map[uuid.UUID]*models.Hackathon)}
}

func (f *fakeRepo) CreateHackathon(_ context.Context, req CreateHackathonRequest, createdBy uuid.UUID, createdAt time.Time) (*models.Hackathon, error) {
	h := &models.Hackathon{
		ID:                uuid.New(),
		Title:             req.Title,
		Description:       req.Description,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Location:          req.Location,
		Prize:             req.Prize,
		ImageURL:          req.ImageURL,
		ParticipationType: req.ParticipationType,
		MaxTeamSize:       req.MaxTeamSize,
		CreatedBy:         createdBy,
		CreatedAt:         createdAt,
	}
	f.hackathons[h.ID] = h
	return h, nil
}

func (f *fakeRepo) GetHackathon(_ context.Context, id uuid.UUID) (*models.Hackathon, error) {
	h, ok := f.hackathons[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *h
	return &copied, nil
}

func (f *fakeRepo) ListHackathons(_ context.Context) ([]models.Hackathon, error) {
	out := make([]models.Hackathon, 0, len(f.hackathons))
	for _, h := range f.hackathons {
		out = append(out, *h)
	}
	return out, nil
}

func (f *fakeRepo) ListRecentHackathons(_ context.Context, limit int) ([]models.Hackathon, error) {
	all, _ := f.ListHackathons(context.Background())
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeRepo) ListHackathonsByCreator(_ context.Context, userID uuid.UUID) ([]models.Hackathon, error) {
	var out []models.Hackathon
	for _, h := range f.hackathons {
		if h.CreatedBy == userID {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateHackathon(_ context.Context, h *models.Hackathon) (*models.Hackathon, error) {
	if _, ok := f.hackathons[h.ID]; !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *h
	f.hackathons[h.ID] = &copied
	return h, nil
}

func (f *fakeRepo) DeleteHackathon(_ context.Context, id uuid.UUID) error {
	delete(f.hackathons, id)
	return nil
}

type fakeSweeper struct {
	swept []uuid.UUID
	err   error
}

func (f *fakeSweeper) DeleteAllForHackathon(_ context.Context, hackathonID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.swept = append(f.swept, hackathonID)
	return nil
}

type testEnv struct {
	repo    *fakeRepo
	sweeper *fakeSweeper
	clock   *clockwork.FakeClock
	app     *App
}

func newTestEnv() *testEnv {
	repo := newFakeRepo()
	sweeper := &fakeSweeper{}
	clock := clockwork.NewFakeClock()
	return &testEnv{
		repo:    repo,
		sweeper: sweeper,
		clock:   clock,
		app:     NewApp(repo, sweeper, clock),
	}
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestCreateHackathonIndividualForcesSizeOne(t *testing.T) {
	env := newTestEnv()

	h, err := env.app.CreateHackathon(context.Background(), uuid.New(), CreateHackathonRequest{
		Title:             "Solo Jam",
		ParticipationType: models.ParticipationIndividual,
		MaxTeamSize:       4,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, h.MaxTeamSize)
	assert.Equal(t, env.clock.Now().UTC(), h.CreatedAt)
}

func TestCreateHackathonTeamSizeBounds(t *testing.T) {
	env := newTestEnv()
	actor := uuid.New()

	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"below minimum", 1, true},
		{"zero", 0, true},
		{"at minimum", 2, false},
		{"at maximum", 5, false},
		{"above maximum", 6, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.app.CreateHackathon(context.Background(), actor, CreateHackathonRequest{
				Title:             "Team Jam",
				ParticipationType: models.ParticipationTeam,
				MaxTeamSize:       tc.size,
			})
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateHackathonValidation(t *testing.T) {
	env := newTestEnv()

	_, err := env.app.CreateHackathon(context.Background(), uuid.New(), CreateHackathonRequest{
		ParticipationType: models.ParticipationIndividual,
	})
	assert.Error(t, err, "title required")

	_, err = env.app.CreateHackathon(context.Background(), uuid.New(), CreateHackathonRequest{
		Title:             "Mystery Jam",
		ParticipationType: "Squad",
	})
	assert.Error(t, err, "unknown participation type")
}

func TestUpdateHackathonCreatorOnly(t *testing.T) {
	env := newTestEnv()
	creator := uuid.New()

	h, err := env.app.CreateHackathon(context.Background(), creator, CreateHackathonRequest{
		Title:             "Solo Jam",
		ParticipationType: models.ParticipationIndividual,
	})
	require.NoError(t, err)

	_, err = env.app.UpdateHackathon(context.Background(), uuid.New(), h.ID, UpdateHackathonRequest{
		Title: strPtr("Hijacked"),
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := env.app.UpdateHackathon(context.Background(), creator, h.ID, UpdateHackathonRequest{
		Title: strPtr("Solo Jam 2026"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Solo Jam 2026", updated.Title)
}

func TestUpdateHackathonMergesFields(t *testing.T) {
	env := newTestEnv()
	creator := uuid.New()

	h, err := env.app.CreateHackathon(context.Background(), creator, CreateHackathonRequest{
		Title:             "Team Jam",
		Description:       strPtr("original"),
		Location:          strPtr("Berlin"),
		ParticipationType: models.ParticipationTeam,
		MaxTeamSize:       4,
	})
	require.NoError(t, err)

	updated, err := env.app.UpdateHackathon(context.Background(), creator, h.ID, UpdateHackathonRequest{
		Prize: strPtr("10k"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "original", *updated.Description)
	require.NotNil(t, updated.Location)
	assert.Equal(t, "Berlin", *updated.Location)
	require.NotNil(t, updated.Prize)
	assert.Equal(t, "10k", *updated.Prize)
	assert.Equal(t, 4, updated.MaxTeamSize)
}

func TestUpdateHackathonRevalidates(t *testing.T) {
	env := newTestEnv()
	creator := uuid.New()

	h, err := env.app.CreateHackathon(context.Background(), creator, CreateHackathonRequest{
		Title:             "Team Jam",
		ParticipationType: models.ParticipationTeam,
		MaxTeamSize:       4,
	})
	require.NoError(t, err)

	_, err = env.app.UpdateHackathon(context.Background(), creator, h.ID, UpdateHackathonRequest{
		MaxTeamSize: intPtr(9),
	})
	assert.Error(t, err)

	stored, err := env.app.GetHackathon(context.Background(), h.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.MaxTeamSize, "rejected update leaves the row unchanged")
}

func TestUpdateHackathonSwitchToIndividualForcesSizeOne(t *testing.T) {
	env := newTestEnv()
	creator := uuid.New()

	h, err := env.app.CreateHackathon(context.Background(), creator, CreateHackathonRequest{
		Title:             "Team Jam",
		ParticipationType: models.ParticipationTeam,
		MaxTeamSize:       4,
	})
	require.NoError(t, err)

	pt := models.ParticipationIndividual
	updated, err := env.app.UpdateHackathon(context.Background(), creator, h.ID, UpdateHackathonRequest{
		ParticipationType: &pt,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.MaxTeamSize)
}

func TestDeleteHackathonCascades(t *testing.T) {
	env := newTestEnv()
	creator := uuid.New()

	h, err := env.app.CreateHackathon(context.Background(), creator, CreateHackathonRequest{
		Title:             "Solo Jam",
		ParticipationType: models.ParticipationIndividual,
	})
	require.NoError(t, err)

	require.NoError(t, env.app.DeleteHackathon(context.Background(), creator, h.ID))
	assert.Equal(t, []uuid.UUID{h.ID}, env.sweeper.swept)

	_, err = env.app.GetHackathon(context.Background(), h.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteHackathonCreatorOnly(t *testing.T) {
	env := newTestEnv()
	creator := uuid.New()

	h, err := env.app.CreateHackathon(context.Background(), creator, CreateHackathonRequest{
		Title:             "Solo Jam",
		ParticipationType: models.ParticipationIndividual,
	})
	require.NoError(t, err)

	err = env.app.DeleteHackathon(context.Background(), uuid.New(), h.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Empty(t, env.sweeper.swept)
}

func TestDeleteHackathonAbortsWhenSweepFails(t *testing.T) {
	env := newTestEnv()
	creator := uuid.New()

	h, err := env.app.CreateHackathon(context.Background(), creator, CreateHackathonRequest{
		Title:             "Solo Jam",
		ParticipationType: models.ParticipationIndividual,
	})
	require.NoError(t, err)

	env.sweeper.err = assert.AnError
	err = env.app.DeleteHackathon(context.Background(), creator, h.ID)
	assert.Error(t, err)

	_, err = env.app.GetHackathon(context.Background(), h.ID)
	assert.NoError(t, err, "hackathon row survives a failed sweep")
}

func TestListRecentHackathonsDefaultLimit(t *testing.T) {
	env := newTestEnv()
	creator := uuid.New()

	for i := 0; i < 8; i++ {
		_, err := env.app.CreateHackathon(context.Background(), creator, CreateHackathonRequest{
			Title:             "Jam",
			ParticipationType: models.ParticipationIndividual,
		})
		require.NoError(t, err)
	}

	recent, err := env.app.ListRecentHackathons(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, recent, 6)
}
