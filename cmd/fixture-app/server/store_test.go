package server

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_Patients(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	p, err := s.CreatePatient(ctx, Patient{Name: "João Teste Silva", Email: "joao@teste.com", Phone: "11999999999"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	got, err := s.Patient(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "João Teste Silva", got.Name)
	assert.Equal(t, "joao@teste.com", got.Email)
	assert.Equal(t, "11999999999", got.Phone)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))

	_, err = s.CreatePatient(ctx, Patient{Name: "Ana Souza"})
	require.NoError(t, err)

	all, err := s.Patients(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ana Souza", all[0].Name)

	_, err = s.Patient(ctx, "missing")
	assert.ErrorIs(t, err, ErrNoPatient)
}

func TestStore_Appointments(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	p, err := s.CreatePatient(ctx, Patient{Name: "João Teste Silva"})
	require.NoError(t, err)

	_, err = s.CreateAppointment(ctx, Appointment{Date: "2024-12-25", Time: "14:00", PatientID: p.ID})
	require.NoError(t, err)
	_, err = s.CreateAppointment(ctx, Appointment{Date: "2024-12-24", Time: "09:30"})
	require.NoError(t, err)

	_, err = s.CreateAppointment(ctx, Appointment{Date: "2024-12-26", Time: "10:00", PatientID: "missing"})
	assert.ErrorIs(t, err, ErrNoPatient)

	appts, err := s.Appointments(ctx)
	require.NoError(t, err)
	require.Len(t, appts, 2)
	assert.Equal(t, "2024-12-24", appts[0].Date)
	assert.Empty(t, appts[0].PatientName)
	assert.Equal(t, "João Teste Silva", appts[1].PatientName)

	c, err := s.Counts(ctx, "2024-12-25")
	require.NoError(t, err)
	assert.Equal(t, Counts{Patients: 1, Appointments: 2, Today: 1}, c)
}

func TestStore_PersistsToFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fixture.db")

	s, err := OpenStore(path)
	require.NoError(t, err)
	_, err = s.CreatePatient(ctx, Patient{Name: "Persisted"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenStore(path)
	require.NoError(t, err)
	defer s.Close()

	all, err := s.Patients(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Persisted", all[0].Name)
}
