package annotations_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/averywhitlock/photocove/internal/app/features/annotations"
	"github.com/averywhitlock/photocove/internal/app/system/auth"
	"github.com/averywhitlock/photocove/internal/domain/models"
	"github.com/averywhitlock/photocove/internal/testutil"
	"go.uber.org/zap"
)

var base = time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T) *testutil.MemCatalog {
	t.Helper()
	cat := testutil.NewMemCatalog()
	ctx := context.Background()
	if _, err := cat.PutPhoto(ctx, models.Photo{ID: "p1", UploaderID: "u1", UploadedAt: base}); err != nil {
		t.Fatalf("seed photo: %v", err)
	}
	if _, err := cat.EnsureAlbum(ctx, "trip", "u1", base); err != nil {
		t.Fatalf("seed album: %v", err)
	}
	return cat
}

func jsonReq(method, target, body string, u auth.SessionUser) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return auth.WithUser(req, &u)
}

func TestToggleReaction_Photo(t *testing.T) {
	cat := seed(t)
	h := annotations.ForPhotos(cat, zap.NewNop())
	user := testutil.MemberUser()

	toggle := func() (models.Reaction, bool, int) {
		req := jsonReq("POST", "/photos/p1/reactions", `{"type":"heart"}`, user)
		rec := httptest.NewRecorder()
		h.ToggleReaction(rec, testutil.WithChiURLParam(req, "photoID", "p1"))
		var resp struct {
			Reaction models.Reaction `json:"reaction"`
			Added    bool            `json:"added"`
		}
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		return resp.Reaction, resp.Added, rec.Code
	}

	r, added, code := toggle()
	if code != http.StatusOK || !added || r.Type != "heart" || r.AuthorID != user.ID {
		t.Fatalf("first toggle = (%+v, %v, %d)", r, added, code)
	}
	_, added, code = toggle()
	if code != http.StatusOK || added {
		t.Fatalf("second toggle = (added=%v, %d), want removal", added, code)
	}

	got, _ := cat.GetPhoto(context.Background(), "p1")
	if len(got.Reactions) != 0 {
		t.Errorf("reactions after toggle off = %d", len(got.Reactions))
	}
}

func TestRemoveReactionByID(t *testing.T) {
	cat := seed(t)
	h := annotations.ForPhotos(cat, zap.NewNop())
	owner := testutil.MemberUser()
	stranger := testutil.MemberUser()

	req := jsonReq("POST", "/photos/p1/reactions", `{"type":"wave"}`, owner)
	rec := httptest.NewRecorder()
	h.ToggleReaction(rec, testutil.WithChiURLParam(req, "photoID", "p1"))
	var resp struct {
		Reaction models.Reaction `json:"reaction"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse toggle: %v", err)
	}

	del := func(u auth.SessionUser, reactionID string) int {
		req := testutil.NewAuthenticatedRequest("DELETE", "/photos/p1/reactions/"+reactionID, u)
		req = testutil.WithChiURLParam(req, "photoID", "p1")
		req = testutil.WithChiURLParam(req, "reactionID", reactionID)
		rec := httptest.NewRecorder()
		h.RemoveReaction(rec, req)
		return rec.Code
	}

	if code := del(stranger, resp.Reaction.ID); code != http.StatusForbidden {
		t.Errorf("stranger remove = %d, want 403", code)
	}
	if code := del(owner, resp.Reaction.ID); code != http.StatusNoContent {
		t.Errorf("owner remove = %d, want 204", code)
	}
	if code := del(owner, resp.Reaction.ID); code != http.StatusNotFound {
		t.Errorf("remove gone = %d, want 404", code)
	}
}

func TestComments_PolicyEnforced(t *testing.T) {
	cat := seed(t)
	h := annotations.ForPhotos(cat, zap.NewNop())
	author := testutil.MemberUser()
	stranger := testutil.MemberUser()
	admin := testutil.AdminUser()

	req := jsonReq("POST", "/photos/p1/comments", `{"body":"<script>x</script>nice shot"}`, author)
	rec := httptest.NewRecorder()
	h.AddComment(rec, testutil.WithChiURLParam(req, "photoID", "p1"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("add comment = %d: %s", rec.Code, rec.Body.String())
	}
	var c models.Comment
	if err := json.Unmarshal(rec.Body.Bytes(), &c); err != nil {
		t.Fatalf("parse comment: %v", err)
	}
	if strings.Contains(c.Body, "<script>") {
		t.Errorf("comment body not sanitized: %q", c.Body)
	}

	del := func(u auth.SessionUser) int {
		req := testutil.NewAuthenticatedRequest("DELETE", "/photos/p1/comments/"+c.ID, u)
		req = testutil.WithChiURLParam(req, "photoID", "p1")
		req = testutil.WithChiURLParam(req, "commentID", c.ID)
		rec := httptest.NewRecorder()
		h.DeleteComment(rec, req)
		return rec.Code
	}

	if code := del(stranger); code != http.StatusForbidden {
		t.Errorf("stranger delete = %d, want 403", code)
	}
	if code := del(admin); code != http.StatusNoContent {
		t.Errorf("admin delete = %d, want 204", code)
	}
	if code := del(author); code != http.StatusNotFound {
		t.Errorf("delete after gone = %d, want 404", code)
	}
}

func TestEmptyCommentRejected(t *testing.T) {
	cat := seed(t)
	h := annotations.ForPhotos(cat, zap.NewNop())

	// Whitespace plus markup sanitizes down to nothing.
	req := jsonReq("POST", "/photos/p1/comments", `{"body":"<p>   </p>"}`, testutil.MemberUser())
	rec := httptest.NewRecorder()
	h.AddComment(rec, testutil.WithChiURLParam(req, "photoID", "p1"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty comment = %d, want 400", rec.Code)
	}
}

func TestTags(t *testing.T) {
	cat := seed(t)
	h := annotations.ForPhotos(cat, zap.NewNop())
	user := testutil.MemberUser()

	add := func(tag string) *httptest.ResponseRecorder {
		req := jsonReq("POST", "/photos/p1/tags", fmt.Sprintf(`{"tag":%q}`, tag), user)
		rec := httptest.NewRecorder()
		h.AddTag(rec, testutil.WithChiURLParam(req, "photoID", "p1"))
		return rec
	}

	if rec := add("  Summer  "); rec.Code != http.StatusCreated {
		t.Fatalf("add tag = %d: %s", rec.Code, rec.Body.String())
	}
	// Same tag modulo case and whitespace.
	if rec := add("summer"); rec.Code != http.StatusConflict {
		t.Errorf("duplicate tag = %d, want 409", rec.Code)
	}

	req := testutil.NewAuthenticatedRequest("DELETE", "/photos/p1/tags/summer", user)
	req = testutil.WithChiURLParam(req, "photoID", "p1")
	req = testutil.WithChiURLParam(req, "tag", "summer")
	rec := httptest.NewRecorder()
	h.RemoveTag(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("remove tag = %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.RemoveTag(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("remove absent tag = %d, want 404", rec.Code)
	}
}

func TestTagLengthCountsRunes(t *testing.T) {
	cat := seed(t)
	h := annotations.ForPhotos(cat, zap.NewNop())
	user := testutil.MemberUser()

	add := func(tag string) *httptest.ResponseRecorder {
		req := jsonReq("POST", "/photos/p1/tags", fmt.Sprintf(`{"tag":%q}`, tag), user)
		rec := httptest.NewRecorder()
		h.AddTag(rec, testutil.WithChiURLParam(req, "photoID", "p1"))
		return rec
	}

	// 40 two-byte runes sit inside the 64-rune limit even though the byte
	// length is 80.
	if rec := add(strings.Repeat("é", 40)); rec.Code != http.StatusCreated {
		t.Errorf("multibyte tag inside limit = %d: %s", rec.Code, rec.Body.String())
	}
	if rec := add(strings.Repeat("é", 65)); rec.Code != http.StatusBadRequest {
		t.Errorf("tag over rune limit = %d, want 400", rec.Code)
	}
}

func TestAlbumAnnotations(t *testing.T) {
	cat := seed(t)
	h := annotations.ForAlbums(cat, zap.NewNop())
	user := testutil.MemberUser()

	req := jsonReq("POST", "/albums/trip/comments", `{"body":"what a weekend"}`, user)
	rec := httptest.NewRecorder()
	h.AddComment(rec, testutil.WithChiURLParam(req, "albumID", "trip"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("album comment = %d: %s", rec.Code, rec.Body.String())
	}

	meta, _ := cat.GetAlbumMetadata(context.Background(), "trip")
	if len(meta.Comments) != 1 || meta.Comments[0].Body != "what a weekend" {
		t.Errorf("album comments = %+v", meta.Comments)
	}

	// Unknown album id maps to a missing owner record.
	req = jsonReq("POST", "/albums/none/comments", `{"body":"hi"}`, user)
	rec = httptest.NewRecorder()
	h.AddComment(rec, testutil.WithChiURLParam(req, "albumID", "none"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown album = %d, want 404", rec.Code)
	}
}
