package patient

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -- Mock Repository --

type mockRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.patients[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, search string, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.patients {
		if search == "" ||
			strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) ||
			strings.Contains(p.Phone, search) {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, len(result), nil
}

func validPatient() *Patient {
	return &Patient{Name: "Asha Rao", Age: 42, Gender: "F", Phone: "555-0101"}
}

// -- Tests --

func TestCreatePatient(t *testing.T) {
	svc := NewService(newMockRepo())
	p := validPatient()
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("id not assigned")
	}
}

func TestCreatePatient_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	tests := []struct {
		name   string
		mutate func(*Patient)
	}{
		{"missing name", func(p *Patient) { p.Name = "" }},
		{"whitespace name", func(p *Patient) { p.Name = "   " }},
		{"negative age", func(p *Patient) { p.Age = -1 }},
		{"implausible age", func(p *Patient) { p.Age = 200 }},
		{"missing gender", func(p *Patient) { p.Gender = "" }},
		{"missing phone", func(p *Patient) { p.Phone = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPatient()
			tt.mutate(p)
			if err := svc.CreatePatient(context.Background(), p); err == nil {
				t.Error("invalid patient accepted")
			}
		})
	}
}

func TestUpdatePatient_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	p := validPatient()
	p.ID = uuid.New()
	if err := svc.UpdatePatient(context.Background(), p); err != pgx.ErrNoRows {
		t.Errorf("err = %v, want pgx.ErrNoRows", err)
	}
}

func TestUpdatePatient_RequiresID(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.UpdatePatient(context.Background(), validPatient()); err == nil {
		t.Error("update without id accepted")
	}
}

func TestDeletePatient(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	p := validPatient()
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}

	if err := svc.DeletePatient(context.Background(), p.ID); err != nil {
		t.Fatalf("DeletePatient: %v", err)
	}
	if err := svc.DeletePatient(context.Background(), p.ID); err != pgx.ErrNoRows {
		t.Errorf("second delete err = %v, want pgx.ErrNoRows", err)
	}
}

func TestListPatients_Search(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	for _, p := range []*Patient{
		{Name: "Asha Rao", Age: 42, Gender: "F", Phone: "555-0101"},
		{Name: "Ben Okafor", Age: 35, Gender: "M", Phone: "555-0202"},
		{Name: "Carla Mendes", Age: 28, Gender: "F", Phone: "777-0303"},
	} {
		if err := svc.CreatePatient(context.Background(), p); err != nil {
			t.Fatalf("CreatePatient: %v", err)
		}
	}

	byName, _, err := svc.ListPatients(context.Background(), "asha", 20, 0)
	if err != nil {
		t.Fatalf("ListPatients: %v", err)
	}
	if len(byName) != 1 || byName[0].Name != "Asha Rao" {
		t.Errorf("search by name returned %d results", len(byName))
	}

	byPhone, _, err := svc.ListPatients(context.Background(), "777", 20, 0)
	if err != nil {
		t.Fatalf("ListPatients: %v", err)
	}
	if len(byPhone) != 1 || byPhone[0].Name != "Carla Mendes" {
		t.Errorf("search by phone returned %d results", len(byPhone))
	}

	none, noneTotal, err := svc.ListPatients(context.Background(), "zzz-no-such", 20, 0)
	if err != nil {
		t.Fatalf("ListPatients: %v", err)
	}
	if len(none) != 0 || noneTotal != 0 {
		t.Errorf("search with no match returned %d/%d, want 0/0", len(none), noneTotal)
	}

	all, total, err := svc.ListPatients(context.Background(), "", 20, 0)
	if err != nil {
		t.Fatalf("ListPatients: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Fatalf("list all returned %d/%d, want 3", len(all), total)
	}
	// alphabetical order
	for i := 1; i < len(all); i++ {
		if all[i-1].Name > all[i].Name {
			t.Errorf("results not ordered by name: %q before %q", all[i-1].Name, all[i].Name)
		}
	}
}
