// Package mock provides an in-memory stand-in for the storage backend's REST
// API, served over httptest. It issues real HS256 JWTs, keeps users and files
// in memory and lets tests inject failures per route.
package mock

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophstorage/internal/client/models"
	"github.com/dmitrijs2005/gophstorage/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// MaxUploadSize mirrors the backend's 50 MB limit.
	MaxUploadSize = 50 << 20
	// Bucket is reported as S3Bucket of every stored file.
	Bucket = "mock-bucket"
)

var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// Claims mirrors the backend's token payload.
type Claims struct {
	UserID    string `json:"user_id"`
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name"`
	jwt.RegisteredClaims
}

type account struct {
	user     models.User
	password string
}

type object struct {
	meta models.StorageFile
	data []byte
}

type failure struct {
	status  int
	message string
}

// Server is a fake storage API. The zero value is not usable; call NewServer.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	now      func() time.Time
	tokenTTL time.Duration
	preview  bool
	secret   []byte
	accounts map[string]*account  // by email
	objects  map[string][]*object // by user id, upload order
	failures map[string]failure   // by route, e.g. "GET /storage/files"
	hits     map[string]int
}

// NewServer starts a fake API. Close it when done.
func NewServer() *Server {
	s := &Server{
		now:      time.Now,
		tokenTTL: time.Hour,
		preview:  true,
		secret:   []byte("mock-secret"),
		accounts: map[string]*account{},
		objects:  map[string][]*object{},
		failures: map[string]failure{},
		hits:     map[string]int{},
	}

	mux := http.NewServeMux()
	api := common.APIBasePath
	mux.HandleFunc("POST "+api+"/user/register", s.route("POST /user/register", s.register))
	mux.HandleFunc("POST "+api+"/user/login", s.route("POST /user/login", s.login))
	mux.HandleFunc("GET "+api+"/storage/files", s.route("GET /storage/files", s.authorized(s.listFiles)))
	mux.HandleFunc("POST "+api+"/storage/upload", s.route("POST /storage/upload", s.authorized(s.upload)))
	mux.HandleFunc("DELETE "+api+"/storage/files/{id}", s.route("DELETE /storage/files", s.authorized(s.deleteFile)))
	mux.HandleFunc("GET "+api+"/storage/files/{id}/download", s.route("GET /storage/files/download", s.authorized(s.download)))
	mux.HandleFunc("GET "+api+"/storage/dashboard", s.route("GET /storage/dashboard", s.authorized(s.dashboard)))
	mux.HandleFunc("GET /objects/{id}", s.route("GET /objects", s.object))

	s.Server = httptest.NewServer(mux)
	return s
}

// BaseURL is the API root to hand to client.NewHTTPClient.
func (s *Server) BaseURL() string {
	return s.URL + common.APIBasePath
}

// SetClock replaces the time source used for tokens and upload stamps.
func (s *Server) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SetTokenTTL sets the lifetime of tokens issued from now on.
func (s *Server) SetTokenTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenTTL = ttl
}

// SetPreview controls whether files stored from now on carry a previewUrl.
// Without one, clients have to download through the API.
func (s *Server) SetPreview(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preview = enabled
}

// Fail makes every following request to route answer with status and an
// {"error": message} body until Recover is called. Routes are the keys used in
// NewServer, e.g. "GET /storage/files". An empty message sends an empty body.
func (s *Server) Fail(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, message: message}
}

// Recover removes an injected failure.
func (s *Server) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// Hits reports how many requests reached route.
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// AddUser registers an account directly and returns its record.
func (s *Server) AddUser(name, email, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, email, password)
}

// Token issues a token for an existing user, as login would.
func (s *Server) Token(email string) (string, error) {
	s.mu.Lock()
	acc, ok := s.accounts[email]
	s.mu.Unlock()
	if !ok {
		return "", common.ErrorNotFound
	}
	return s.issue(acc.user)
}

// Files returns the stored metadata of a user's files in upload order.
func (s *Server) Files(userID string) []models.StorageFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.StorageFile, 0, len(s.objects[userID]))
	for _, o := range s.objects[userID] {
		out = append(out, o.meta)
	}
	return out
}

// Put stores a file for a user directly, bypassing the upload endpoint.
func (s *Server) Put(userID, name, contentType string, data []byte, uploadedAt time.Time) models.StorageFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putLocked(userID, name, contentType, data, nil, uploadedAt)
}

func (s *Server) addUserLocked(name, email, password string) models.User {
	u := models.User{
		UserID:    uuid.NewString(),
		UserName:  name,
		UserEmail: email,
		CreatedAt: s.now().Unix(),
	}
	u.UpdatedAt = u.CreatedAt
	s.accounts[email] = &account{user: u, password: password}
	return u
}

func (s *Server) putLocked(userID, name, contentType string, data []byte, description *string, at time.Time) models.StorageFile {
	id := uuid.NewString()
	meta := models.StorageFile{
		ObjectID:    id,
		UserID:      userID,
		FileName:    name,
		FileSize:    int64(len(data)),
		ContentType: contentType,
		S3Key:       fmt.Sprintf("users/%s/%s/%s", userID, id, name),
		S3Bucket:    Bucket,
		UploadedAt:  at.UTC(),
		UpdatedAt:   at.UTC(),
		Description: description,
	}
	if s.preview {
		meta.PreviewURL = s.URL + "/objects/" + id
	}
	s.objects[userID] = append(s.objects[userID], &object{meta: meta, data: data})
	return meta
}

func (s *Server) issue(u models.User) (string, error) {
	s.mu.Lock()
	now, ttl := s.now(), s.tokenTTL
	s.mu.Unlock()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    u.UserID,
		UserEmail: u.UserEmail,
		UserName:  u.UserName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	return token.SignedString(s.secret)
}

func (s *Server) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

type handlerWithUser func(w http.ResponseWriter, r *http.Request, userID string)

func (s *Server) route(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[name]++
		f, failing := s.failures[name]
		s.mu.Unlock()

		if failing {
			if f.message == "" {
				w.WriteHeader(f.status)
				return
			}
			writeError(w, f.status, f.message)
			return
		}
		h(w, r)
	}
}

func (s *Server) authorized(h handlerWithUser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}
		claims, err := s.parse(tokenString)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		h(w, r, claims.UserID)
	}
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserName     string `json:"user_name"`
		UserEmail    string `json:"user_email"`
		UserPassword string `json:"user_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	switch {
	case len(req.UserName) < 3:
		writeError(w, http.StatusBadRequest, "user name must be at least 3 characters")
		return
	case !strings.Contains(req.UserEmail, "@"):
		writeError(w, http.StatusBadRequest, "invalid email")
		return
	case len(req.UserPassword) < 8:
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[req.UserEmail]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "user with this email already exists")
		return
	}
	u := s.addUserLocked(req.UserName, req.UserEmail, req.UserPassword)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"message": u})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserEmail    string `json:"user_email"`
		UserPassword string `json:"user_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[req.UserEmail]
	s.mu.Unlock()
	if !ok || acc.password != req.UserPassword {
		writeError(w, http.StatusUnauthorized, "invalid credentials.")
		return
	}

	token, err := s.issue(acc.user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]string{
			"id":    acc.user.UserID,
			"email": acc.user.UserEmail,
			"name":  acc.user.UserName,
		},
	})
}

func (s *Server) listFiles(w http.ResponseWriter, r *http.Request, userID string) {
	files := s.Files(userID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Files retrieved successfully",
		"data":    files,
		"count":   len(files),
	})
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request, userID string) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	if header.Size > MaxUploadSize {
		writeError(w, http.StatusBadRequest, "file size exceeds 50 MB limit")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !allowedTypes[contentType] {
		writeError(w, http.StatusBadRequest, "file type not allowed. Allowed: JPEG, PNG, GIF, WebP, PDF")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to open file")
		return
	}

	var description *string
	if d := r.PostFormValue("description"); d != "" {
		description = &d
	}

	s.mu.Lock()
	meta := s.putLocked(userID, header.Filename, contentType, data, description, s.now())
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "File uploaded successfully",
		"data": models.UploadResult{
			ObjectID:    meta.ObjectID,
			FileName:    meta.FileName,
			FileSize:    meta.FileSize,
			ContentType: meta.ContentType,
			UploadedAt:  meta.UploadedAt,
			Description: meta.Description,
			Message:     "File uploaded successfully",
		},
	})
}

func (s *Server) deleteFile(w http.ResponseWriter, r *http.Request, userID string) {
	id := r.PathValue("id")

	s.mu.Lock()
	files := s.objects[userID]
	idx := -1
	for i, o := range files {
		if o.meta.ObjectID == id {
			idx = i
			break
		}
	}
	if idx >= 0 {
		s.objects[userID] = append(files[:idx:idx], files[idx+1:]...)
	}
	s.mu.Unlock()

	if idx < 0 {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "File deleted successfully"})
}

func (s *Server) download(w http.ResponseWriter, r *http.Request, userID string) {
	o := s.find(userID, r.PathValue("id"))
	if o == nil {
		writeError(w, http.StatusExpectationFailed, "Error while downloading file.")
		return
	}
	writeObject(w, o)
}

func (s *Server) object(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	var found *object
	for _, files := range s.objects {
		for _, o := range files {
			if o.meta.ObjectID == id {
				found = o
			}
		}
	}
	s.mu.Unlock()

	if found == nil {
		http.Error(w, "<Error><Code>NoSuchKey</Code></Error>", http.StatusNotFound)
		return
	}
	writeObject(w, found)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request, userID string) {
	byMonth := map[string]*models.MonthlyUsage{}
	var summary models.DashboardSummary

	for _, f := range s.Files(userID) {
		key := f.UploadedAt.Format("2006-01")
		m, ok := byMonth[key]
		if !ok {
			m = &models.MonthlyUsage{Month: key, MonthName: f.UploadedAt.Month().String()}
			byMonth[key] = m
		}
		m.TotalSize += f.FileSize
		m.FileCount++
		summary.TotalSizeInBytes += f.FileSize
		summary.TotalFiles++
	}

	months := make([]models.MonthlyUsage, 0, len(byMonth))
	for _, m := range byMonth {
		m.SizeInMB = float64(m.TotalSize) / (1 << 20)
		months = append(months, *m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })

	summary.TotalSizeInMB = float64(summary.TotalSizeInBytes) / (1 << 20)
	summary.TotalSizeInGB = float64(summary.TotalSizeInBytes) / (1 << 30)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Dashboard data retrieved successfully",
		"data":    models.Dashboard{Months: months, Summary: summary},
	})
}

func (s *Server) find(userID, id string) *object {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.objects[userID] {
		if o.meta.ObjectID == id {
			return o
		}
	}
	return nil
}

func writeObject(w http.ResponseWriter, o *object) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename="+o.meta.FileName)
	_, _ = w.Write(o.data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
