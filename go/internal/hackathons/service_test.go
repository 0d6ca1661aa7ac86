package hackathons

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackhub/hackhub/go/internal/apperrors"
	"github.com/hackhub/hackhub/go/internal/auth"
	"github.com/hackhub/hackhub/go/internal/models"
	"github.com/hackhub/hackhub/go/internal/storage"
)

type fakeApp struct {
	hackathon *models.Hackathon
	updated   *UpdateHackathonRequest
}

func (f *fakeApp) CreateHackathon(_ context.Context, _ uuid.UUID, _ CreateHackathonRequest) (*models.Hackathon, error) {
	return nil, nil
}

func (f *fakeApp) GetHackathon(_ context.Context, id uuid.UUID) (*models.Hackathon, error) {
	if f.hackathon == nil || f.hackathon.ID != id {
		return nil, apperrors.ErrNotFound
	}
	return f.hackathon, nil
}

func (f *fakeApp) ListHackathons(_ context.Context) ([]models.Hackathon, error) {
	return nil, nil
}

func (f *fakeApp) ListRecentHackathons(_ context.Context, _ int) ([]models.Hackathon, error) {
	return nil, nil
}

func (f *fakeApp) ListHackathonsByCreator(_ context.Context, _ uuid.UUID) ([]models.Hackathon, error) {
	return nil, nil
}

func (f *fakeApp) UpdateHackathon(_ context.Context, actorID, id uuid.UUID, req UpdateHackathonRequest) (*models.Hackathon, error) {
	if f.hackathon == nil || f.hackathon.ID != id {
		return nil, apperrors.ErrNotFound
	}
	if f.hackathon.CreatedBy != actorID {
		return nil, apperrors.ErrForbidden
	}
	f.updated = &req
	applyUpdate(f.hackathon, req)
	return f.hackathon, nil
}

func (f *fakeApp) DeleteHackathon(_ context.Context, _, _ uuid.UUID) error {
	return nil
}

func imageUploadRequest(t *testing.T, hackathonID uuid.UUID, actor auth.Identity, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "banner.png")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/hackathons/"+hackathonID.String()+"/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetPathValue("id", hackathonID.String())
	return req.WithContext(auth.WithIdentity(req.Context(), actor))
}

func TestUploadImageRejectsNonCreatorBeforeStoreWrite(t *testing.T) {
	creator := uuid.New()
	app := &fakeApp{hackathon: &models.Hackathon{
		ID:                uuid.New(),
		Title:             "Solo Jam",
		ParticipationType: models.ParticipationIndividual,
		MaxTeamSize:       1,
		CreatedBy:         creator,
	}}

	store, err := storage.NewDiskStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)
	svc := NewService(app, store)

	objectPath := filepath.Join(store.Root(), "hackathons", app.hackathon.ID.String()+".png")
	require.NoError(t, os.MkdirAll(filepath.Dir(objectPath), 0o755))
	require.NoError(t, os.WriteFile(objectPath, []byte("original"), 0o644))

	rec := httptest.NewRecorder()
	req := imageUploadRequest(t, app.hackathon.ID, auth.Identity{ID: uuid.New()}, "defaced")
	svc.handleUploadImage(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	stored, err := os.ReadFile(objectPath)
	require.NoError(t, err)
	assert.Equal(t, "original", string(stored), "rejected upload must not touch the store")
	assert.Nil(t, app.updated)
}

func TestUploadImageStoresAndLinks(t *testing.T) {
	creator := uuid.New()
	app := &fakeApp{hackathon: &models.Hackathon{
		ID:                uuid.New(),
		Title:             "Solo Jam",
		ParticipationType: models.ParticipationIndividual,
		MaxTeamSize:       1,
		CreatedBy:         creator,
	}}

	store, err := storage.NewDiskStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)
	svc := NewService(app, store)

	rec := httptest.NewRecorder()
	req := imageUploadRequest(t, app.hackathon.ID, auth.Identity{ID: creator}, "banner bytes")
	svc.handleUploadImage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	objectPath := filepath.Join(store.Root(), "hackathons", app.hackathon.ID.String()+".png")
	stored, err := os.ReadFile(objectPath)
	require.NoError(t, err)
	assert.Equal(t, "banner bytes", string(stored))

	require.NotNil(t, app.updated)
	require.NotNil(t, app.updated.ImageURL)
	assert.Equal(t, store.PublicURL("hackathons/"+app.hackathon.ID.String()+".png"), *app.updated.ImageURL)
}

func TestUploadImageUnknownHackathon(t *testing.T) {
	store, err := storage.NewDiskStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)
	svc := NewService(&fakeApp{}, store)

	rec := httptest.NewRecorder()
	req := imageUploadRequest(t, uuid.New(), auth.Identity{ID: uuid.New()}, "banner bytes")
	svc.handleUploadImage(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
