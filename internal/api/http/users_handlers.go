package http

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	auth "github.com/mind-engage/mindengage-portal/internal/auth/middleware"
)

// UserDirectory is the user management side of the auth directory.
type UserDirectory interface {
	Upsert(ctx context.Context, users []auth.User) (inserted, updated int, err error)
	List(ctx context.Context, role string) ([]auth.User, error)
	ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error
	SetRole(ctx context.Context, target, role string) error
}

// POST /users/bulk
// Accepts a JSON array or a CSV with id,username,role[,password] columns,
// either as the body or as multipart field "file".
func BulkUpsertUsersHandler(dir UserDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body io.Reader = r.Body
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			f, _, err := r.FormFile("file")
			if err != nil {
				http.Error(w, "file required", http.StatusBadRequest)
				return
			}
			defer f.Close()
			body = f
		}
		rows, err := parseUsers(body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(rows) == 0 {
			respondJSON(w, http.StatusOK, map[string]any{"inserted": 0, "updated": 0})
			return
		}
		ins, upd, err := dir.Upsert(r.Context(), rows)
		switch {
		case errors.Is(err, auth.ErrUnknownRole), errors.Is(err, auth.ErrInvalidUser):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case err != nil:
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"inserted": ins, "updated": upd})
	}
}

// GET /users?role=student
func ListUsersHandler(dir UserDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := dir.List(r.Context(), r.URL.Query().Get("role"))
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"items": users})
	}
}

// POST /users/change-password  { "old_password": "...", "new_password": "..." }
func ChangePasswordHandler(dir UserDirectory) http.HandlerFunc {
	return withUser(func(w http.ResponseWriter, r *http.Request, uid string) {
		var req struct {
			OldPassword string `json:"old_password"`
			NewPassword string `json:"new_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewPassword == "" {
			http.Error(w, "new password required", http.StatusBadRequest)
			return
		}
		switch err := dir.ChangePassword(r.Context(), uid, req.OldPassword, req.NewPassword); {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, auth.ErrUnknownUser):
			http.Error(w, "user not found", http.StatusNotFound)
		case errors.Is(err, auth.ErrBadCredentials):
			http.Error(w, "incorrect old password", http.StatusForbidden)
		default:
			respondError(w, r, err)
		}
	})
}

// PATCH /users/{userID}/role  { "role": "tutor" }
// userID may be the id or the username.
func UpdateUserRoleHandler(dir UserDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Role string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		switch err := dir.SetRole(r.Context(), chi.URLParam(r, "userID"), req.Role); {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, auth.ErrUnknownUser):
			http.Error(w, "user not found", http.StatusNotFound)
		case errors.Is(err, auth.ErrLastStaff), errors.Is(err, auth.ErrUnknownRole):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			respondError(w, r, err)
		}
	}
}

// parseUsers sniffs JSON vs CSV by the first non-space byte.
func parseUsers(r io.Reader) ([]auth.User, error) {
	br := bufio.NewReader(r)
	for {
		b, err := br.Peek(1)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, err
		}
		if b[0] != ' ' && b[0] != '\n' && b[0] != '\r' && b[0] != '\t' {
			if b[0] == '[' {
				var rows []auth.User
				if err := json.NewDecoder(br).Decode(&rows); err != nil {
					return nil, errors.New("bad json")
				}
				return rows, nil
			}
			return parseUsersCSV(br)
		}
		_, _ = br.ReadByte()
	}
}

func parseUsersCSV(r io.Reader) ([]auth.User, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	hdr, err := cr.Read()
	if err != nil {
		return nil, errors.New("bad csv: " + err.Error())
	}
	idx := map[string]int{}
	for i, h := range hdr {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, k := range []string{"id", "username", "role"} {
		if _, ok := idx[k]; !ok {
			return nil, errors.New("missing column: " + k)
		}
	}
	var rows []auth.User
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.New("bad csv: " + err.Error())
		}
		u := auth.User{
			ID:       rec[idx["id"]],
			Username: rec[idx["username"]],
			Role:     rec[idx["role"]],
		}
		if i, ok := idx["password"]; ok {
			u.Password = rec[i]
		}
		rows = append(rows, u)
	}
	return rows, nil
}
