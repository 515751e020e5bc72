package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/taskmanager-backend/internal/api/httpx"
	"github.com/baharkarakas/taskmanager-backend/internal/models"
	"github.com/baharkarakas/taskmanager-backend/internal/services"
)

const multipartOverhead = 64 << 10

type UserHandler struct {
	Svc            *services.UserService
	AvatarMaxBytes int64
}

func NewUserHandler(svc *services.UserService, avatarMaxBytes int64) *UserHandler {
	return &UserHandler{Svc: svc, AvatarMaxBytes: avatarMaxBytes}
}

type authResp struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var in services.SignupInput
	if !decode(w, r, &in) {
		return
	}
	u, tok, err := h.Svc.Signup(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, authResp{User: u, Token: tok})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	u, tok, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authResp{User: u, Token: tok})
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	uc := caller(r)
	if err := h.Svc.Logout(r.Context(), uc.User, uc.Token); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *UserHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.LogoutAll(r.Context(), caller(r).User); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.Svc.Profile(caller(r).User))
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var f services.Fields
	if !decode(w, r, &f) {
		return
	}
	u, err := h.Svc.UpdateProfile(r.Context(), caller(r).User, f)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusAccepted, u)
}

func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	u, err := h.Svc.DeleteAccount(r.Context(), caller(r).User)
	if err != nil {
		fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

// UploadAvatar reads the multipart field "avatar".
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.AvatarMaxBytes+multipartOverhead)
	file, _, err := r.FormFile("avatar")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			httpx.WriteError(w, http.StatusBadRequest, "validation_error", "avatar: file too large", nil)
			return
		}
		httpx.WriteError(w, http.StatusBadRequest, "validation_error", "avatar: please upload an image", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.AvatarMaxBytes+1))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_error", "avatar: unreadable upload", nil)
		return
	}
	if err := h.Svc.SetAvatar(r.Context(), caller(r).User, data); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *UserHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.ClearAvatar(r.Context(), caller(r).User); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *UserHandler) Avatar(w http.ResponseWriter, r *http.Request) {
	data, ct, err := h.Svc.Avatar(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
