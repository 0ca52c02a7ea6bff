package server

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const sessionCookie = "fixture_session"

// app holds the handlers' shared state.
type app struct {
	store    *Store
	email    string
	password string
	broken   map[string]bool

	mu       sync.Mutex
	sessions map[string]string // token -> email
}

func newApp(cfg Config, store *Store) *app {
	broken := make(map[string]bool, len(cfg.BrokenPages))
	for _, p := range cfg.BrokenPages {
		broken[p] = true
	}
	return &app{
		store:    store,
		email:    cfg.Email,
		password: cfg.Password,
		broken:   broken,
		sessions: make(map[string]string),
	}
}

func (a *app) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", a.handleIndex)
	mux.HandleFunc("GET /login", a.handleLoginForm)
	mux.HandleFunc("POST /login", a.handleLogin)
	mux.HandleFunc("GET /logout", a.handleLogout)

	mux.HandleFunc("GET /dashboard", a.requireUser(a.handleDashboard))
	mux.HandleFunc("GET /patients", a.requireUser(a.handlePatients))
	mux.HandleFunc("GET /patients/new", a.requireUser(a.handlePatientForm))
	mux.HandleFunc("POST /patients/new", a.requireUser(a.handleCreatePatient))
	mux.HandleFunc("GET /patients/{id}", a.requireUser(a.handlePatient))
	mux.HandleFunc("GET /appointments", a.requireUser(a.handleAppointments))
	mux.HandleFunc("POST /appointments", a.requireUser(a.handleCreateAppointment))
	mux.HandleFunc("GET /reports", a.requireUser(a.handleReports))
	mux.HandleFunc("GET /users", a.requireUser(a.handleUsers))
	mux.HandleFunc("GET /backup", a.requireUser(a.handleBackup))

	return a.breakPages(logRequests(mux))
}

// pageData is passed to every template.
type pageData struct {
	User         string
	Error        string
	Email        string
	Counts       Counts
	Patient      Patient
	Patients     []Patient
	Appointments []Appointment
	Now          string
}

func (a *app) render(w http.ResponseWriter, status int, page string, data pageData) {
	tmpl, ok := pages[page]
	if !ok {
		log.Printf("Unknown page %q", page)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("Failed to render %s: %v", page, err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (a *app) user(r *http.Request) string {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessions[c.Value]
}

type userHandler func(w http.ResponseWriter, r *http.Request, user string)

// requireUser redirects to the login page when the request carries no
// valid session.
func (a *app) requireUser(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := a.user(r)
		if user == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r, user)
	}
}

func (a *app) handleIndex(w http.ResponseWriter, r *http.Request) {
	if a.user(r) != "" {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (a *app) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	a.render(w, http.StatusOK, "login", pageData{})
}

func (a *app) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if email != a.email || password != a.password {
		log.Printf("Login rejected for %q", email)
		a.render(w, http.StatusUnauthorized, "login", pageData{Email: email, Error: "E-mail ou senha inválidos"})
		return
	}

	token := uuid.New().String()
	a.mu.Lock()
	a.sessions[token] = email
	a.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (a *app) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		a.mu.Lock()
		delete(a.sessions, c.Value)
		a.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (a *app) handleDashboard(w http.ResponseWriter, r *http.Request, user string) {
	counts, err := a.store.Counts(r.Context(), time.Now().Format(time.DateOnly))
	if err != nil {
		a.fail(w, err)
		return
	}
	a.render(w, http.StatusOK, "dashboard", pageData{User: user, Counts: counts})
}

func (a *app) handlePatients(w http.ResponseWriter, r *http.Request, user string) {
	patients, err := a.store.Patients(r.Context())
	if err != nil {
		a.fail(w, err)
		return
	}
	a.render(w, http.StatusOK, "patients", pageData{User: user, Patients: patients})
}

func (a *app) handlePatientForm(w http.ResponseWriter, r *http.Request, user string) {
	a.render(w, http.StatusOK, "patient-form", pageData{User: user})
}

func (a *app) handleCreatePatient(w http.ResponseWriter, r *http.Request, user string) {
	p := Patient{
		Name:  strings.TrimSpace(r.FormValue("nome_completo")),
		Email: strings.TrimSpace(r.FormValue("email")),
		Phone: strings.TrimSpace(r.FormValue("telefone")),
	}
	if p.Name == "" {
		a.render(w, http.StatusBadRequest, "patient-form", pageData{User: user, Error: "Nome completo é obrigatório"})
		return
	}

	p, err := a.store.CreatePatient(r.Context(), p)
	if err != nil {
		a.fail(w, err)
		return
	}
	log.Printf("Patient registered: id=%s", p.ID)
	http.Redirect(w, r, "/patients/"+p.ID, http.StatusSeeOther)
}

func (a *app) handlePatient(w http.ResponseWriter, r *http.Request, user string) {
	p, err := a.store.Patient(r.Context(), r.PathValue("id"))
	if errors.Is(err, ErrNoPatient) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		a.fail(w, err)
		return
	}
	a.render(w, http.StatusOK, "patient", pageData{User: user, Patient: p})
}

func (a *app) appointmentsPage(r *http.Request, user, formErr string) (pageData, error) {
	patients, err := a.store.Patients(r.Context())
	if err != nil {
		return pageData{}, err
	}
	appts, err := a.store.Appointments(r.Context())
	if err != nil {
		return pageData{}, err
	}
	return pageData{User: user, Error: formErr, Patients: patients, Appointments: appts}, nil
}

func (a *app) handleAppointments(w http.ResponseWriter, r *http.Request, user string) {
	data, err := a.appointmentsPage(r, user, "")
	if err != nil {
		a.fail(w, err)
		return
	}
	a.render(w, http.StatusOK, "appointments", data)
}

func (a *app) handleCreateAppointment(w http.ResponseWriter, r *http.Request, user string) {
	appt := Appointment{
		PatientID: r.FormValue("paciente_id"),
		Date:      strings.TrimSpace(r.FormValue("data_consulta")),
		Time:      strings.TrimSpace(r.FormValue("hora_consulta")),
	}

	formErr := ""
	switch {
	case appt.Date == "" || appt.Time == "":
		formErr = "Data e hora são obrigatórias"
	default:
		created, err := a.store.CreateAppointment(r.Context(), appt)
		if errors.Is(err, ErrNoPatient) {
			formErr = "Paciente inválido"
			break
		}
		if err != nil {
			a.fail(w, err)
			return
		}
		log.Printf("Appointment created: id=%s date=%s time=%s", created.ID, created.Date, created.Time)
		http.Redirect(w, r, "/appointments", http.StatusSeeOther)
		return
	}

	data, err := a.appointmentsPage(r, user, formErr)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.render(w, http.StatusBadRequest, "appointments", data)
}

func (a *app) handleReports(w http.ResponseWriter, r *http.Request, user string) {
	counts, err := a.store.Counts(r.Context(), time.Now().Format(time.DateOnly))
	if err != nil {
		a.fail(w, err)
		return
	}
	a.render(w, http.StatusOK, "reports", pageData{User: user, Counts: counts})
}

func (a *app) handleUsers(w http.ResponseWriter, r *http.Request, user string) {
	a.render(w, http.StatusOK, "users", pageData{User: user})
}

func (a *app) handleBackup(w http.ResponseWriter, r *http.Request, user string) {
	a.render(w, http.StatusOK, "backup", pageData{User: user, Now: time.Now().Format(time.DateTime)})
}

func (a *app) fail(w http.ResponseWriter, err error) {
	log.Printf("Request failed: %v", err)
	http.Error(w, "Internal error", http.StatusInternalServerError)
}

// breakPages answers configured paths with a bare 500 so journeys can be
// exercised against a partially broken application.
func (a *app) breakPages(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.broken[r.URL.Path] {
			log.Printf("%s %s -> broken page", r.Method, r.URL.Path)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %v", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}
