package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"carefoundation/internal/models"
	"carefoundation/internal/utils"
	"carefoundation/internal/validators"
	"carefoundation/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newPartnerService(t *testing.T, env *testEnv, withStorage bool) PartnerService {
	t.Helper()
	var provider storage.Provider
	if withStorage {
		local, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
		require.NoError(t, err)
		provider = local
	}
	return NewPartnerService(env.repos.Partners, env.repos.Users, provider, 0, env.log)
}

func TestPartnerCreate_CompletesKYC(t *testing.T) {
	env := newTestEnv(t)
	svc := newPartnerService(t, env, false)
	ctx := context.Background()
	owner := env.user(t, models.UserRolePartner, true, false)

	partner, err := svc.Create(ctx, owner.ID, &validators.PartnerCreateRequest{
		Name: "Annapurna Kitchen",
		Type: "food",
		FormData: map[string]interface{}{
			"banner":        "data:image/png;base64,AAAA",
			"accountNumber": "1234",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.PartnerStatusPending, partner.Status)
	assert.Equal(t, models.PartnerTypeFood, partner.Type)
	assert.Equal(t, "data:image/png;base64,AAAA", partner.Photo)
	assert.NotContains(t, partner.FormData, "banner")
	assert.Equal(t, "1234", partner.FormData["accountNumber"])

	stored, err := env.repos.Users.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.True(t, stored.PartnerKYCCompleted)

	_, err = svc.Create(ctx, owner.ID, &validators.PartnerCreateRequest{Name: "Second", Type: "food"})
	assertAppError(t, err, utils.KindConflict, "PARTNER_EXISTS")
}

func TestPrepareIntakeForm_TruncatesOversizedImages(t *testing.T) {
	form := map[string]interface{}{
		"clinicPhotos": []interface{}{"data:image/png;base64," + strings.Repeat("A", 2048)},
		"doctorName":   "Dr. Rao",
	}

	photo, stored := prepareIntakeForm(form, 1024)
	assert.True(t, strings.HasPrefix(photo, "data:image/png;base64,"))
	assert.NotContains(t, stored, "clinicPhotos")
	assert.Equal(t, true, stored["_imagesTruncated"])
	assert.Equal(t, "Dr. Rao", stored["doctorName"])
	assert.Contains(t, form, "clinicPhotos")
}

func TestPartnerVisibility(t *testing.T) {
	env := newTestEnv(t)
	svc := newPartnerService(t, env, false)
	ctx := context.Background()

	owner := env.user(t, models.UserRolePartner, true, false)
	pending := env.partner(t, owner.ID, models.PartnerStatusPending)
	_, approved := env.readyPartner(t)

	_, err := svc.Get(ctx, nil, pending.ID)
	assertAppError(t, err, utils.KindForbidden, "PARTNER_UNAVAILABLE")

	got, err := svc.Get(ctx, &Caller{ID: owner.ID, Role: models.UserRolePartner}, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, got.ID)

	_, err = svc.Get(ctx, &Caller{ID: primitive.NewObjectID(), Role: models.UserRoleAdmin}, pending.ID)
	require.NoError(t, err)

	public, total, err := svc.List(ctx, nil, models.PartnerFilter{Status: models.PartnerStatusPending}, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, approved.ID, public[0].ID)

	all, _, err := svc.List(ctx, &Caller{Role: models.UserRoleAdmin}, models.PartnerFilter{}, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPartnerUpdateStatus_SyncsOwnerKYC(t *testing.T) {
	env := newTestEnv(t)
	svc := newPartnerService(t, env, false)
	ctx := context.Background()
	admin := primitive.NewObjectID()

	owner := env.user(t, models.UserRolePartner, true, false)
	partner := env.partner(t, owner.ID, models.PartnerStatusPending)

	updated, err := svc.UpdateStatus(ctx, partner.ID, admin, models.PartnerStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.PartnerStatusApproved, updated.Status)
	stored, err := env.repos.Users.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.True(t, stored.PartnerKYCCompleted)

	_, err = svc.UpdateStatus(ctx, partner.ID, admin, models.PartnerStatusRejected)
	require.NoError(t, err)
	stored, err = env.repos.Users.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.False(t, stored.PartnerKYCCompleted)

	_, err = svc.UpdateStatus(ctx, partner.ID, admin, "archived")
	assertAppError(t, err, utils.KindValidation, "")

	_, err = svc.UpdateStatus(ctx, primitive.NewObjectID(), admin, models.PartnerStatusActive)
	assertAppError(t, err, utils.KindNotFound, "")
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPartnerUploadPhoto(t *testing.T) {
	env := newTestEnv(t)
	svc := newPartnerService(t, env, true)
	ctx := context.Background()

	owner, partner := env.readyPartner(t)
	upload := &PhotoUpload{Filename: "front.png", Data: pngBytes(t, 640, 480)}

	_, err := svc.UploadPhoto(ctx, Caller{ID: primitive.NewObjectID(), Role: models.UserRolePartner}, partner.ID, upload)
	assertAppError(t, err, utils.KindForbidden, "NOT_PARTNER_OWNER")

	_, err = svc.UploadPhoto(ctx, Caller{ID: owner.ID, Role: owner.Role}, partner.ID, &PhotoUpload{Filename: "notes.txt", Data: []byte("x")})
	assertAppError(t, err, utils.KindValidation, "")

	updated, err := svc.UploadPhoto(ctx, Caller{ID: owner.ID, Role: owner.Role}, partner.ID, upload)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(updated.Photo, "http://localhost:8080/uploads/partners/"+partner.ID.Hex()))
	assert.Contains(t, updated.Thumbnail, "/thumbnails/")

	stored, err := env.repos.Partners.GetByID(ctx, partner.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Photo, stored.Photo)
}

func TestPartnerUploadPhoto_WithoutStorage(t *testing.T) {
	env := newTestEnv(t)
	svc := newPartnerService(t, env, false)
	owner, partner := env.readyPartner(t)

	_, err := svc.UploadPhoto(context.Background(), Caller{ID: owner.ID, Role: owner.Role}, partner.ID, &PhotoUpload{Filename: "a.png", Data: []byte{1}})
	assertAppError(t, err, utils.KindDependency, "")
}
