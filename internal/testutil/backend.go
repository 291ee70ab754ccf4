package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

const backendCookie = "access_token"

// BackendUser is an account known to the FakeBackend.
type BackendUser struct {
	ID       string
	Username string
	Email    string
	Password string
	Verified bool
}

// FakeBackend is an in-memory stand-in for the blog backend API. It speaks
// the same JSON envelope and sets a session cookie on sign-in.
type FakeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]*BackendUser
	sessions map[string]string
	posts    map[string]map[string]any
	hits     map[string]int
	// StructuredCodes makes unverified sign-ins carry code "email_not_verified".
	StructuredCodes bool
	// FailUploads makes every upload return 500.
	FailUploads bool
}

// NewFakeBackend starts a FakeBackend. Close it with t.Cleanup(b.Close).
func NewFakeBackend() *FakeBackend {
	b := &FakeBackend{
		users:    make(map[string]*BackendUser),
		sessions: make(map[string]string),
		posts:    make(map[string]map[string]any),
		hits:     make(map[string]int),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/signin", b.signIn)
	mux.HandleFunc("POST /api/auth/signup", b.signUp)
	mux.HandleFunc("POST /api/auth/google", b.google)
	mux.HandleFunc("POST /api/user/signout", b.signOut)
	mux.HandleFunc("POST /api/upload/image", b.upload)
	mux.HandleFunc("POST /api/post/create", b.createPost)
	b.Server = httptest.NewServer(b.count(mux))
	return b
}

// AddUser registers an account directly.
func (b *FakeBackend) AddUser(u BackendUser) {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := u
	b.users[strings.ToLower(u.Email)] = &cp
}

// Hits returns how many requests reached path.
func (b *FakeBackend) Hits(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[path]
}

// Post returns the stored create-post body for slug.
func (b *FakeBackend) Post(slug string) (map[string]any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.posts[slug]
	return p, ok
}

func (b *FakeBackend) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.hits[r.URL.Path]++
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func fail(w http.ResponseWriter, status int, msg string, extra ...string) {
	body := map[string]any{"success": false, "statusCode": status, "message": msg}
	if len(extra) == 1 {
		body["code"] = extra[0]
	}
	reply(w, status, body)
}

func userJSON(u *BackendUser) map[string]any {
	return map[string]any{"_id": u.ID, "username": u.Username, "email": u.Email, "isAdmin": false}
}

func (b *FakeBackend) signIn(w http.ResponseWriter, r *http.Request) {
	var in struct{ Email, Password string }
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Email == "" || in.Password == "" {
		fail(w, http.StatusBadRequest, "All fields are required")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[strings.ToLower(in.Email)]
	switch {
	case !ok:
		fail(w, http.StatusNotFound, "User not found")
	case u.Password != in.Password:
		fail(w, http.StatusBadRequest, "Invalid password")
	case !u.Verified && b.StructuredCodes:
		fail(w, http.StatusForbidden, "Account pending activation", "email_not_verified")
	case !u.Verified:
		fail(w, http.StatusForbidden, "Please verify your email before signing in")
	default:
		b.startSession(w, u)
		reply(w, http.StatusOK, userJSON(u))
	}
}

func (b *FakeBackend) startSession(w http.ResponseWriter, u *BackendUser) {
	token := "tok-" + u.ID
	b.sessions[token] = u.ID
	http.SetCookie(w, &http.Cookie{Name: backendCookie, Value: token, Path: "/", HttpOnly: true})
}

func (b *FakeBackend) signUp(w http.ResponseWriter, r *http.Request) {
	var in struct{ Username, Email, Password string }
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Username == "" || in.Email == "" || in.Password == "" {
		fail(w, http.StatusBadRequest, "All fields are required")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if strings.EqualFold(u.Username, in.Username) {
			fail(w, http.StatusBadRequest, "Username already exists")
			return
		}
	}
	if _, exists := b.users[strings.ToLower(in.Email)]; exists {
		fail(w, http.StatusBadRequest, "Email already exists")
		return
	}
	id := "u" + strconv.Itoa(len(b.users)+1)
	b.users[strings.ToLower(in.Email)] = &BackendUser{ID: id, Username: in.Username, Email: in.Email, Password: in.Password}
	reply(w, http.StatusCreated, "Signup successful. Please verify your email.")
}

func (b *FakeBackend) google(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name           string `json:"name"`
		Email          string `json:"email"`
		GooglePhotoURL string `json:"googlePhotoUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Email == "" {
		fail(w, http.StatusBadRequest, "Invalid Google account")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[strings.ToLower(in.Email)]
	if !ok {
		id := "u" + strconv.Itoa(len(b.users)+1)
		u = &BackendUser{ID: id, Username: strings.ToLower(strings.ReplaceAll(in.Name, " ", "")), Email: in.Email, Verified: true}
		b.users[strings.ToLower(in.Email)] = u
	}
	b.startSession(w, u)
	reply(w, http.StatusOK, userJSON(u))
}

func (b *FakeBackend) signOut(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(backendCookie); err == nil {
		b.mu.Lock()
		delete(b.sessions, c.Value)
		b.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: backendCookie, Value: "", Path: "/", MaxAge: -1})
	reply(w, http.StatusOK, "User has been signed out")
}

func (b *FakeBackend) authorized(r *http.Request) bool {
	c, err := r.Cookie(backendCookie)
	if err != nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.sessions[c.Value]
	return ok
}

func (b *FakeBackend) upload(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	b.mu.Lock()
	failing := b.FailUploads
	b.mu.Unlock()
	if failing {
		fail(w, http.StatusInternalServerError, "Upload provider unavailable")
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		fail(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer f.Close()
	_, _ = io.Copy(io.Discard, f)
	reply(w, http.StatusOK, map[string]any{"success": true, "url": "https://cdn.example.com/" + hdr.Filename})
}

var nonSlug = regexp.MustCompile(`[^a-z0-9-]`)

func (b *FakeBackend) createPost(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var in map[string]any
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		fail(w, http.StatusBadRequest, "Invalid body")
		return
	}
	title, _ := in["title"].(string)
	content, _ := in["content"].(string)
	if title == "" || content == "" {
		fail(w, http.StatusBadRequest, "Please provide all required fields")
		return
	}
	slug := nonSlug.ReplaceAllString(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(title)), " ", "-"), "")
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.posts[slug]; exists {
		fail(w, http.StatusBadRequest, "A post with this title already exists")
		return
	}
	b.posts[slug] = in
	reply(w, http.StatusCreated, map[string]any{"_id": "p" + strconv.Itoa(len(b.posts)), "slug": slug})
}
