package postgres

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/rx-admin/internal/model"
)

var (
	demoLastNames = []string{
		"Martin", "Bernard", "Thomas", "Petit", "Robert", "Richard", "Durand", "Dubois",
		"Moreau", "Laurent", "Michel", "Garcia", "David", "Bertrand", "Roux", "Vincent",
		"Fournier", "Morel", "Lefebvre", "Mercier", "Dupont", "Lambert", "Bonnet", "Francois",
		"Martinez", "Legrand", "Garnier", "Faure", "Andre", "Rousseau", "Simon", "Leroy",
		"Girard", "Colin", "Lefevre", "Boyer", "Chevalier", "Robin", "Masson", "Picard",
		"Blanc", "Gautier", "Nicolas", "Henry", "Perrin", "Morin", "Mathieu", "Clement",
		"Gauthier", "Dumont", "Lopez", "Fontaine", "Schmitt", "Rodriguez", "Dufour",
		"Blanchard", "Meunier", "Brunet", "Roy",
	}
	demoFirstNames = []string{
		"Jean", "Jeanne", "Marie", "Luc", "Lucie", "Paul", "Camille", "Pierre", "Sophie",
		"Emma", "Louis", "Louise", "Alice", "Gabriel", "Jules", "Lucas", "Hugo", "Arthur",
		"Adam", "Raphael", "Leo", "Nathan", "Tom", "Zoe", "Chloe", "Ines", "Lea", "Lena",
		"Eva", "Nina", "Ethan", "Noah", "Liam", "Rose", "Anna", "Jade", "Maeva", "Sarah",
		"Laura", "Clara", "Julie", "Nicolas", "Thomas", "Antoine", "Emilie", "Mathilde",
		"Charlotte", "Manon", "Julia", "Elise", "Victor", "Alex", "Samuel", "Valentin",
		"Axel", "Simon", "Romain", "Vincent", "Marc", "David",
	}
	demoMedications = []string{
		"Paracetamol", "Ibuprofen", "Amoxicillin", "Aspirin", "Omeprazole", "Metformin",
		"Loratadine", "Cetirizine", "Azithromycin", "Atorvastatin", "Simvastatin",
		"Lisinopril", "Amlodipine", "Metoprolol", "Sertraline", "Fluoxetine", "Escitalopram",
		"Gabapentin", "Pregabalin", "Tramadol", "Oxycodone", "Hydrocodone", "Morphine",
		"Diazepam", "Alprazolam", "Clonazepam", "Zolpidem", "Trazodone", "Cyclobenzaprine",
		"Meloxicam", "Prednisone", "Methylprednisolone", "Hydrocortisone", "Fluticasone",
		"Montelukast", "Albuterol", "Fluconazole", "Terbinafine", "Metronidazole",
		"Ciprofloxacin", "Doxycycline", "Cephalexin", "Nitrofurantoin", "Pantoprazole",
		"Ranitidine", "Famotidine", "Dicyclomine", "Ondansetron", "Promethazine", "Meclizine",
	}
	demoDosages  = []int{15, 20, 25, 50, 100, 200, 250, 300, 400, 500, 800, 1000}
	demoUnits    = []string{"mg", "g", "µg"}
	demoComments = []string{
		"Take with meals",
		"Follow the treatment strictly",
		"In case of pain",
		"Renewal planned",
		"Watch for side effects",
		"Dosage to monitor",
		"", "", "",
	}
)

const (
	minPrescriptionDays = 1
	maxPrescriptionDays = 180
	minMedicationCode   = 1000
	maxMedicationCode   = 9999
)

// SeedCounts sizes the demo data set
type SeedCounts struct {
	Patients      int
	Medications   int
	Prescriptions int
}

// DefaultSeedCounts matches a small demo database
var DefaultSeedCounts = SeedCounts{Patients: 10, Medications: 5, Prescriptions: 30}

// DemoData is a generated data set. Prescriptions reference patients and
// medications by their index in the respective slices.
type DemoData struct {
	Patients      []model.Patient
	Medications   []model.Medication
	Prescriptions []DemoPrescription
}

type DemoPrescription struct {
	Patient    int
	Medication int
	model.Prescription
}

func randomDate(rnd *rand.Rand, fromYear, toYear int) model.Date {
	start := model.NewDate(fromYear, time.January, 1)
	end := model.NewDate(toYear, time.December, 31)
	days := int(end.Sub(start.Time).Hours() / 24)
	return start.AddDays(rnd.Intn(days + 1))
}

func weighted[T any](rnd *rand.Rand, values []T, weights []float64) T {
	var total float64
	for _, w := range weights {
		total += w
	}
	x := rnd.Float64() * total
	for i, w := range weights {
		if x < w {
			return values[i]
		}
		x -= w
	}
	return values[len(values)-1]
}

func pick[T any](rnd *rand.Rand, values []T) T {
	return values[rnd.Intn(len(values))]
}

// GenerateDemoData builds a demo data set. Medication codes are unique.
// Prescriptions are only generated when there is at least one patient
// and one medication.
func GenerateDemoData(rnd *rand.Rand, counts SeedCounts) DemoData {
	var data DemoData

	for i := 0; i < counts.Patients; i++ {
		birth := randomDate(rnd, 1940, 2025)
		data.Patients = append(data.Patients, model.Patient{
			LastName:  pick(rnd, demoLastNames),
			FirstName: pick(rnd, demoFirstNames),
			BirthDate: &birth,
		})
	}

	wanted := counts.Medications
	if limit := (maxMedicationCode - minMedicationCode + 1) * 26; wanted > limit {
		wanted = limit
	}
	codes := map[string]bool{}
	for len(data.Medications) < wanted {
		code := fmt.Sprintf("MED%d%c",
			minMedicationCode+rnd.Intn(maxMedicationCode-minMedicationCode+1),
			'A'+rune(rnd.Intn(26)))
		if codes[code] {
			continue
		}
		codes[code] = true
		data.Medications = append(data.Medications, model.Medication{
			Code:  code,
			Label: fmt.Sprintf("%s %d%s", pick(rnd, demoMedications), pick(rnd, demoDosages), pick(rnd, demoUnits)),
			Status: weighted(rnd,
				[]model.MedicationStatus{model.MedicationStatusActive, model.MedicationStatusRemoved},
				[]float64{0.8, 0.2}),
		})
	}

	if len(data.Patients) == 0 || len(data.Medications) == 0 {
		return data
	}
	for i := 0; i < counts.Prescriptions; i++ {
		start := randomDate(rnd, 2020, 2026)
		days := minPrescriptionDays + rnd.Intn(maxPrescriptionDays-minPrescriptionDays+1)
		data.Prescriptions = append(data.Prescriptions, DemoPrescription{
			Patient:    rnd.Intn(len(data.Patients)),
			Medication: rnd.Intn(len(data.Medications)),
			Prescription: model.Prescription{
				StartDate: start,
				EndDate:   start.AddDays(days),
				Status: weighted(rnd, model.PrescriptionStatuses,
					[]float64{0.6, 0.3, 0.1}),
				Comment: pick(rnd, demoComments),
			},
		})
	}
	return data
}

// Seeder replaces the database content with demo data
type Seeder struct {
	BaseRepository
	rnd *rand.Rand
}

func NewSeeder(db *sqlx.DB, rnd *rand.Rand) *Seeder {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Seeder{BaseRepository: NewBaseRepository(db), rnd: rnd}
}

// Seed purges patients, medications and prescriptions, then inserts a
// freshly generated data set in one transaction.
func (s *Seeder) Seed(ctx context.Context, counts SeedCounts) (SeedCounts, error) {
	data := GenerateDemoData(s.rnd, counts)

	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, table := range []string{"prescriptions", "patients", "medications"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to purge %s: %w", table, err)
			}
		}

		patientIDs := make([]int64, len(data.Patients))
		for i, p := range data.Patients {
			if err := tx.GetContext(ctx, &patientIDs[i],
				`INSERT INTO patients (last_name, first_name, birth_date) VALUES ($1, $2, $3) RETURNING id`,
				p.LastName, p.FirstName, p.BirthDate); err != nil {
				return fmt.Errorf("failed to create patient: %w", err)
			}
		}

		medicationIDs := make([]int64, len(data.Medications))
		for i, m := range data.Medications {
			if err := tx.GetContext(ctx, &medicationIDs[i],
				`INSERT INTO medications (code, label, status) VALUES ($1, $2, $3) RETURNING id`,
				m.Code, m.Label, m.Status); err != nil {
				return fmt.Errorf("failed to create medication: %w", err)
			}
		}

		for _, p := range data.Prescriptions {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO prescriptions (patient_id, medication_id, start_date, end_date, status, comment)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				patientIDs[p.Patient], medicationIDs[p.Medication],
				p.StartDate, p.EndDate, p.Status, p.Comment); err != nil {
				return fmt.Errorf("failed to create prescription: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return SeedCounts{}, err
	}

	return SeedCounts{
		Patients:      len(data.Patients),
		Medications:   len(data.Medications),
		Prescriptions: len(data.Prescriptions),
	}, nil
}
