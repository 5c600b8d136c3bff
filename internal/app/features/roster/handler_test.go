package roster_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/averywhitlock/photocove/internal/app/features/roster"
	userstore "github.com/averywhitlock/photocove/internal/app/store/users"
	"github.com/averywhitlock/photocove/internal/app/system/apperr"
	"github.com/averywhitlock/photocove/internal/domain/models"
	"github.com/averywhitlock/photocove/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeUsers struct {
	users map[primitive.ObjectID]models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[primitive.ObjectID]models.User{}}
}

func (f *fakeUsers) List(context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeUsers) Create(_ context.Context, u models.User) (models.User, error) {
	if u.Name == "" || u.Email == "" {
		return models.User{}, apperr.Validation("name and email are required")
	}
	for _, existing := range f.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return models.User{}, apperr.Conflict("a user with this email already exists")
		}
	}
	u.ID = primitive.NewObjectID()
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUsers) Apply(_ context.Context, id primitive.ObjectID, upd userstore.Update) error {
	u, ok := f.users[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.Name = upd.Name
	u.IsAdmin = upd.IsAdmin
	f.users[id] = u
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.users[id]; !ok {
		return apperr.NotFound("user not found")
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return &u, nil
}

func TestMe(t *testing.T) {
	h := roster.NewHandler(newFakeUsers(), zap.NewNop())
	user := testutil.AdminUser()

	rec := httptest.NewRecorder()
	h.Me(rec, testutil.NewAuthenticatedRequest("GET", "/me", user))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	var got struct {
		ID      string `json:"id"`
		IsAdmin bool   `json:"isAdmin"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.ID != user.ID || !got.IsAdmin {
		t.Errorf("me = %+v", got)
	}
}

func TestCreateListUpdateDelete(t *testing.T) {
	users := newFakeUsers()
	h := roster.NewHandler(users, zap.NewNop())

	// Create.
	req := httptest.NewRequest("POST", "/admin/users", strings.NewReader(`{"name":"Rowan","email":"rowan@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("parse: %v", err)
	}

	// Duplicate email conflicts.
	req = httptest.NewRequest("POST", "/admin/users", strings.NewReader(`{"name":"Dup","email":"rowan@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.Create(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate create = %d, want 409", rec.Code)
	}

	// List.
	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest("GET", "/admin/users", nil))
	var listed struct {
		Users []json.RawMessage `json:"users"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("parse list: %v", err)
	}
	if len(listed.Users) != 1 {
		t.Errorf("list = %d users, want 1", len(listed.Users))
	}

	// Update.
	req = httptest.NewRequest("PATCH", "/admin/users/"+created.ID, strings.NewReader(`{"name":"Rowan W","isAdmin":true}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.Update(rec, testutil.WithChiURLParam(req, "userID", created.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("update = %d: %s", rec.Code, rec.Body.String())
	}
	var updated struct {
		Name    string `json:"name"`
		IsAdmin bool   `json:"isAdmin"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("parse update: %v", err)
	}
	if updated.Name != "Rowan W" || !updated.IsAdmin {
		t.Errorf("updated = %+v", updated)
	}

	// Delete.
	req = httptest.NewRequest("DELETE", "/admin/users/"+created.ID, nil)
	rec = httptest.NewRecorder()
	h.Delete(rec, testutil.WithChiURLParam(req, "userID", created.ID))
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete = %d, want 204", rec.Code)
	}

	// Malformed id.
	req = httptest.NewRequest("DELETE", "/admin/users/nope", nil)
	rec = httptest.NewRecorder()
	h.Delete(rec, testutil.WithChiURLParam(req, "userID", "nope"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed id = %d, want 400", rec.Code)
	}
}
