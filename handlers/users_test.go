package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"reelmatch/models"
	swipesvc "reelmatch/services/swipes"
)

type fakeUserService struct {
	users   map[string]*models.User
	renamed map[string]string
}

func (f *fakeUserService) User(userID string) (*models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, swipesvc.ErrInvalidUser
	}
	return u, nil
}

func (f *fakeUserService) RenameUser(userID, name string) error {
	if _, ok := f.users[userID]; !ok {
		return swipesvc.ErrInvalidUser
	}
	if f.renamed == nil {
		f.renamed = make(map[string]string)
	}
	f.renamed[userID] = name
	return nil
}

func TestUsersHandlerGet(t *testing.T) {
	svc := &fakeUserService{users: map[string]*models.User{
		models.UserOneID: {Name: "Alex", Liked: []int64{42}},
	}}
	handler := NewUsersHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/user?userId=user1", nil)
	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body struct {
		Success bool        `json:"success"`
		User    models.User `json:"user"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success || body.User.Name != "Alex" {
		t.Fatalf("body = %+v", body)
	}
}

func TestUsersHandlerGetUnknownUser(t *testing.T) {
	handler := NewUsersHandler(&fakeUserService{})

	req := httptest.NewRequest(http.MethodGet, "/api/user?userId=user9", nil)
	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestUsersHandlerRename(t *testing.T) {
	svc := &fakeUserService{users: map[string]*models.User{
		models.UserTwoID: {Name: models.UserTwoDefaultName},
	}}
	handler := NewUsersHandler(svc)

	buf, _ := json.Marshal(map[string]string{"userId": models.UserTwoID, "name": "Sam"})
	req := httptest.NewRequest(http.MethodPost, "/api/user", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	handler.Rename(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := svc.renamed[models.UserTwoID]; got != "Sam" {
		t.Fatalf("renamed to %q, want Sam", got)
	}
}
