package server

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// ErrNoPatient is returned when a record lookup finds nothing.
var ErrNoPatient = errors.New("patient not found")

// Patient is a registered patient.
type Patient struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}

// Appointment is a scheduled consultation. PatientName is empty when the
// appointment was booked without a patient.
type Appointment struct {
	ID          string
	PatientID   string
	PatientName string
	Date        string
	Time        string
	CreatedAt   time.Time
}

// Store keeps the fixture application's records in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore creates or opens a SQLite database at path. ":memory:" keeps
// everything in memory for the lifetime of the store.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: an in-memory database is private to its connection,
	// and SQLite allows a single writer anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// CreatePatient inserts p with a fresh ID and returns the stored record.
func (s *Store) CreatePatient(ctx context.Context, p Patient) (Patient, error) {
	p.ID = uuid.New().String()
	p.CreatedAt = time.Now().UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO patients (id, nome_completo, email, telefone, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Email, p.Phone, p.CreatedAt.Unix())
	if err != nil {
		return Patient{}, fmt.Errorf("failed to insert patient: %w", err)
	}
	return p, nil
}

// Patient returns the patient with id, or ErrNoPatient.
func (s *Store) Patient(ctx context.Context, id string) (Patient, error) {
	var (
		p       Patient
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, nome_completo, email, telefone, created_at FROM patients WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Patient{}, ErrNoPatient
	}
	if err != nil {
		return Patient{}, fmt.Errorf("failed to read patient: %w", err)
	}
	p.CreatedAt = time.Unix(created, 0).UTC()
	return p, nil
}

// Patients returns every patient ordered by name.
func (s *Store) Patients(ctx context.Context) ([]Patient, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, nome_completo, email, telefone, created_at FROM patients ORDER BY nome_completo, created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	var out []Patient
	for rows.Next() {
		var (
			p       Patient
			created int64
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &created); err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		p.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreateAppointment inserts a. An empty PatientID stores no patient; an
// unknown one returns ErrNoPatient.
func (s *Store) CreateAppointment(ctx context.Context, a Appointment) (Appointment, error) {
	a.ID = uuid.New().String()
	a.CreatedAt = time.Now().UTC().Truncate(time.Second)

	var patient sql.NullString
	if a.PatientID != "" {
		p, err := s.Patient(ctx, a.PatientID)
		if err != nil {
			return Appointment{}, err
		}
		patient = sql.NullString{String: p.ID, Valid: true}
		a.PatientName = p.Name
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO appointments (id, paciente_id, data_consulta, hora_consulta, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.ID, patient, a.Date, a.Time, a.CreatedAt.Unix())
	if err != nil {
		return Appointment{}, fmt.Errorf("failed to insert appointment: %w", err)
	}
	return a, nil
}

// Appointments returns every appointment ordered by date and time.
func (s *Store) Appointments(ctx context.Context) ([]Appointment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, COALESCE(a.paciente_id, ''), COALESCE(p.nome_completo, ''),
		       a.data_consulta, a.hora_consulta, a.created_at
		FROM appointments a
		LEFT JOIN patients p ON p.id = a.paciente_id
		ORDER BY a.data_consulta, a.hora_consulta, a.created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		var (
			a       Appointment
			created int64
		)
		if err := rows.Scan(&a.ID, &a.PatientID, &a.PatientName, &a.Date, &a.Time, &created); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		a.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

// Counts holds the dashboard totals.
type Counts struct {
	Patients     int
	Appointments int
	Today        int
}

// Counts returns record totals. today is a date in the same format the
// appointment form uses.
func (s *Store) Counts(ctx context.Context, today string) (Counts, error) {
	var c Counts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM patients),
			(SELECT COUNT(*) FROM appointments),
			(SELECT COUNT(*) FROM appointments WHERE data_consulta = ?)`, today).
		Scan(&c.Patients, &c.Appointments, &c.Today)
	if err != nil {
		return Counts{}, fmt.Errorf("failed to count records: %w", err)
	}
	return c, nil
}
