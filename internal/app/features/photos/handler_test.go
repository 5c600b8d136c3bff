package photos_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/averywhitlock/photocove/internal/app/features/photos"
	"github.com/averywhitlock/photocove/internal/app/system/apperr"
	"github.com/averywhitlock/photocove/internal/app/system/auth"
	"github.com/averywhitlock/photocove/internal/app/system/imaging"
	"github.com/averywhitlock/photocove/internal/domain/models"
	"github.com/averywhitlock/photocove/internal/testutil"
	"go.uber.org/zap"
)

var base = time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC)

func newHandler(t *testing.T) (*photos.Handler, *testutil.MemCatalog) {
	t.Helper()
	pipeline, err := imaging.NewLocalPipeline(t.TempDir(), "http://localhost:8080/media")
	if err != nil {
		t.Fatalf("NewLocalPipeline: %v", err)
	}
	cat := testutil.NewMemCatalog()
	return photos.NewHandler(cat, pipeline, zap.NewNop()), cat
}

func seedPhotos(t *testing.T, cat *testutil.MemCatalog, n int, uploaderID, albumID string) []models.Photo {
	t.Helper()
	start := 0
	for {
		if _, err := cat.GetPhoto(context.Background(), fmt.Sprintf("p%02d", start)); err != nil {
			break
		}
		start++
	}
	var out []models.Photo
	for i := start; i < start+n; i++ {
		p, err := cat.PutPhoto(context.Background(), models.Photo{
			ID:         fmt.Sprintf("p%02d", i),
			UploaderID: uploaderID,
			AlbumID:    albumID,
			UploadedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("seed photo: %v", err)
		}
		out = append(out, p)
	}
	return out
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) (photos []models.Photo, lastKey string) {
	t.Helper()
	var resp struct {
		Photos  []models.Photo `json:"photos"`
		LastKey string         `json:"lastKey"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse list response: %v", err)
	}
	return resp.Photos, resp.LastKey
}

func TestList_PaginatesNewestFirst(t *testing.T) {
	h, cat := newHandler(t)
	seedPhotos(t, cat, 5, "u1", "")
	user := testutil.MemberUser()

	rec := httptest.NewRecorder()
	h.List(rec, testutil.NewAuthenticatedRequest("GET", "/photos?limit=2", user))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	page1, lastKey := decodeList(t, rec)
	if len(page1) != 2 || lastKey == "" {
		t.Fatalf("page 1: %d photos, lastKey=%q", len(page1), lastKey)
	}
	if page1[0].ID != "p04" || page1[1].ID != "p03" {
		t.Errorf("page 1 order: %s, %s", page1[0].ID, page1[1].ID)
	}

	rec = httptest.NewRecorder()
	h.List(rec, testutil.NewAuthenticatedRequest("GET", "/photos?limit=2&lastKey="+lastKey, user))
	page2, _ := decodeList(t, rec)
	if len(page2) != 2 || page2[0].ID != "p02" {
		t.Errorf("page 2: %+v", page2)
	}
}

func TestList_RejectsForeignCursor(t *testing.T) {
	h, cat := newHandler(t)
	seedPhotos(t, cat, 3, "u1", "")
	user := testutil.MemberUser()

	// Get an uploader-path cursor, then replay it on the chronological path.
	rec := httptest.NewRecorder()
	req := testutil.NewAuthenticatedRequest("GET", "/photos/user/u1?limit=1", user)
	h.ListByUploader(rec, testutil.WithChiURLParam(req, "userID", "u1"))
	_, lastKey := decodeList(t, rec)
	if lastKey == "" {
		t.Fatal("expected an uploader cursor")
	}

	rec = httptest.NewRecorder()
	h.List(rec, testutil.NewAuthenticatedRequest("GET", "/photos?lastKey="+lastKey, user))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("foreign cursor status = %d, want 400", rec.Code)
	}
}

func TestListByAlbum(t *testing.T) {
	h, cat := newHandler(t)
	seedPhotos(t, cat, 3, "u1", "A")
	seedPhotos(t, cat, 2, "u1", "")
	user := testutil.MemberUser()

	rec := httptest.NewRecorder()
	req := testutil.NewAuthenticatedRequest("GET", "/photos/album/A", user)
	h.ListByAlbum(rec, testutil.WithChiURLParam(req, "albumID", "A"))
	got, _ := decodeList(t, rec)
	if len(got) != 3 {
		t.Errorf("album listing = %d photos, want 3", len(got))
	}

	rec = httptest.NewRecorder()
	req = testutil.NewAuthenticatedRequest("GET", "/photos/album/A?countOnly=1", user)
	h.ListByAlbum(rec, testutil.WithChiURLParam(req, "albumID", "A"))
	var counted struct {
		Count int64 `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &counted); err != nil {
		t.Fatalf("parse count: %v", err)
	}
	if counted.Count != 3 {
		t.Errorf("countOnly = %d, want 3", counted.Count)
	}
}

func multipartUpload(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename=%q`, filename))
	hdr.Set("Content-Type", "image/jpeg")
	fw, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write file: %v", err)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestUpload(t *testing.T) {
	h, cat := newHandler(t)
	user := testutil.MemberUser()

	body, contentType := multipartUpload(t,
		map[string]string{"caption": "<b>lake</b> day", "album_id": "trip-1"},
		"lake.jpg", []byte("jpeg bytes"))
	req := httptest.NewRequest("POST", "/photos", body)
	req.Header.Set("Content-Type", contentType)
	req = auth.WithUser(req, &user)

	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var p models.Photo
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("parse photo: %v", err)
	}
	if p.Caption != "lake day" {
		t.Errorf("caption = %q, want HTML stripped", p.Caption)
	}
	if p.UploaderID != user.ID || p.UploaderName != user.Name {
		t.Errorf("uploader denormalization: %+v", p)
	}
	if p.AlbumID != "trip-1" {
		t.Errorf("album id = %q", p.AlbumID)
	}

	// First upload with a new album id creates the metadata record.
	meta, err := cat.GetAlbumMetadata(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("album metadata missing: %v", err)
	}
	if p.AlbumName != meta.Name {
		t.Errorf("album name %q not copied from metadata %q", p.AlbumName, meta.Name)
	}
	if meta.Name != models.DefaultAlbumName(p.UploadedAt) {
		t.Errorf("metadata name = %q, want date-derived default", meta.Name)
	}
}

func TestUpload_MissingFile(t *testing.T) {
	h, _ := newHandler(t)
	user := testutil.MemberUser()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("caption", "no file")
	mw.Close()

	req := httptest.NewRequest("POST", "/photos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = auth.WithUser(req, &user)

	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateCaption_UploaderOnly(t *testing.T) {
	h, cat := newHandler(t)
	owner := testutil.MemberUser()
	stranger := testutil.MemberUser()
	admin := testutil.AdminUser()

	p, _ := cat.PutPhoto(context.Background(), models.Photo{ID: "p1", UploaderID: owner.ID, UploadedAt: base})

	patch := func(u auth.SessionUser, caption string) *httptest.ResponseRecorder {
		body := strings.NewReader(fmt.Sprintf(`{"caption":%q}`, caption))
		req := httptest.NewRequest("PATCH", "/photos/p1", body)
		req.Header.Set("Content-Type", "application/json")
		req = auth.WithUser(req, &u)
		rec := httptest.NewRecorder()
		h.UpdateCaption(rec, testutil.WithChiURLParam(req, "photoID", p.ID))
		return rec
	}

	if rec := patch(stranger, "nope"); rec.Code != http.StatusForbidden {
		t.Errorf("stranger patch = %d, want 403", rec.Code)
	}
	if rec := patch(owner, "mine"); rec.Code != http.StatusOK {
		t.Errorf("owner patch = %d: %s", rec.Code, rec.Body.String())
	}
	if rec := patch(admin, "admin override"); rec.Code != http.StatusOK {
		t.Errorf("admin patch = %d", rec.Code)
	}

	got, _ := cat.GetPhoto(context.Background(), "p1")
	if got.Caption != "admin override" {
		t.Errorf("caption = %q", got.Caption)
	}
}

func TestDelete_PolicyAndArtifacts(t *testing.T) {
	h, cat := newHandler(t)
	owner := testutil.MemberUser()
	stranger := testutil.MemberUser()

	// Upload through the handler so a real artifact exists on disk.
	body, contentType := multipartUpload(t, nil, "x.jpg", []byte("jpeg bytes"))
	req := httptest.NewRequest("POST", "/photos", body)
	req.Header.Set("Content-Type", contentType)
	req = auth.WithUser(req, &owner)
	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	var p models.Photo
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("parse upload: %v", err)
	}

	del := func(u auth.SessionUser) *httptest.ResponseRecorder {
		req := testutil.NewAuthenticatedRequest("DELETE", "/photos/"+p.ID, u)
		rec := httptest.NewRecorder()
		h.Delete(rec, testutil.WithChiURLParam(req, "photoID", p.ID))
		return rec
	}

	if rec := del(stranger); rec.Code != http.StatusForbidden {
		t.Errorf("stranger delete = %d, want 403", rec.Code)
	}
	if rec := del(owner); rec.Code != http.StatusNoContent {
		t.Errorf("owner delete = %d", rec.Code)
	}
	if _, err := cat.GetPhoto(context.Background(), p.ID); err == nil {
		t.Error("photo survived delete")
	}
	if rec := del(owner); rec.Code != http.StatusNotFound {
		t.Errorf("double delete = %d, want 404", rec.Code)
	}
}

// brokenPipeline fails on demand so handler error propagation is testable.
type brokenPipeline struct {
	storeErr  error
	deleteErr error
}

func (b *brokenPipeline) Store(_ context.Context, photoID string, _ []byte, _ string) (imaging.Result, error) {
	if b.storeErr != nil {
		return imaging.Result{}, b.storeErr
	}
	return imaging.Result{Key: "photos/" + photoID + "/original.jpg"}, nil
}

func (b *brokenPipeline) Delete(context.Context, string) error { return b.deleteErr }

func TestUpload_PipelineFailureIsUpstream(t *testing.T) {
	pipe := &brokenPipeline{storeErr: apperr.Upstream("could not store photo", errors.New("bucket unavailable"))}
	h := photos.NewHandler(testutil.NewMemCatalog(), pipe, zap.NewNop())
	user := testutil.MemberUser()

	body, contentType := multipartUpload(t, nil, "x.jpg", []byte("jpeg bytes"))
	req := httptest.NewRequest("POST", "/photos", body)
	req.Header.Set("Content-Type", contentType)
	req = auth.WithUser(req, &user)

	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502: %s", rec.Code, rec.Body.String())
	}
}

func TestDelete_ArtifactFailureReported(t *testing.T) {
	cat := testutil.NewMemCatalog()
	pipe := &brokenPipeline{deleteErr: errors.New("object store unavailable")}
	h := photos.NewHandler(cat, pipe, zap.NewNop())
	owner := testutil.MemberUser()

	p, err := cat.PutPhoto(context.Background(), models.Photo{
		ID:         "p1",
		UploaderID: owner.ID,
		StorageKey: "photos/p1/original.jpg",
		UploadedAt: base,
	})
	if err != nil {
		t.Fatalf("seed photo: %v", err)
	}

	req := testutil.NewAuthenticatedRequest("DELETE", "/photos/"+p.ID, owner)
	rec := httptest.NewRecorder()
	h.Delete(rec, testutil.WithChiURLParam(req, "photoID", p.ID))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502: %s", rec.Code, rec.Body.String())
	}
	// The catalog row goes first, so it is gone even when cleanup fails.
	if _, err := cat.GetPhoto(context.Background(), p.ID); err == nil {
		t.Error("photo should be removed from the catalog before artifact cleanup")
	}
}
