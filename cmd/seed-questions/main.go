package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mediquiz/mediquiz-backend/internal/config"
	"github.com/mediquiz/mediquiz-backend/internal/database"
	"github.com/mediquiz/mediquiz-backend/internal/logger"
	"github.com/mediquiz/mediquiz-backend/internal/model"
	"github.com/mediquiz/mediquiz-backend/internal/repository"
)

// seedQuestion pairs a prompt with its options; the first option is
// always the correct one here, prompts are shuffled per session anyway.
type seedQuestion struct {
	prompt     string
	options    []string
	difficulty model.Difficulty
}

var catalog = map[string][]seedQuestion{
	"Cardiology": {
		{"Which valve separates the left atrium from the left ventricle?", []string{"Mitral valve", "Tricuspid valve", "Aortic valve", "Pulmonary valve"}, model.DifficultyEasy},
		{"What is the most common cause of myocardial infarction?", []string{"Atherosclerotic plaque rupture", "Coronary vasospasm", "Aortic dissection", "Embolism"}, model.DifficultyEasy},
		{"Which ECG change is most specific for an acute STEMI?", []string{"ST elevation in contiguous leads", "Sinus tachycardia", "First-degree AV block", "Low voltage QRS"}, model.DifficultyMedium},
		{"Which murmur is characteristic of aortic stenosis?", []string{"Crescendo-decrescendo systolic murmur", "Holosystolic apical murmur", "Early diastolic decrescendo murmur", "Continuous machinery murmur"}, model.DifficultyMedium},
		{"In Wellens' syndrome, which artery is critically stenosed?", []string{"Proximal left anterior descending", "Right coronary artery", "Left circumflex", "Left main"}, model.DifficultyHard},
	},
	"Pharmacology": {
		{"Which drug class does lisinopril belong to?", []string{"ACE inhibitors", "Beta blockers", "Calcium channel blockers", "Diuretics"}, model.DifficultyEasy},
		{"What is the antidote for warfarin overdose?", []string{"Vitamin K", "Protamine sulfate", "Naloxone", "Flumazenil"}, model.DifficultyEasy},
		{"Which antibiotic is associated with tendon rupture?", []string{"Ciprofloxacin", "Amoxicillin", "Azithromycin", "Doxycycline"}, model.DifficultyMedium},
		{"Which cytochrome isoenzyme metabolizes most drugs?", []string{"CYP3A4", "CYP2D6", "CYP1A2", "CYP2C9"}, model.DifficultyHard},
	},
	"Neurology": {
		{"Which cranial nerve controls facial expression?", []string{"Facial nerve (VII)", "Trigeminal nerve (V)", "Vagus nerve (X)", "Hypoglossal nerve (XII)"}, model.DifficultyEasy},
		{"A lesion of Broca's area produces which deficit?", []string{"Expressive aphasia", "Receptive aphasia", "Hemineglect", "Prosopagnosia"}, model.DifficultyMedium},
		{"Which tract carries pain and temperature sensation?", []string{"Spinothalamic tract", "Dorsal columns", "Corticospinal tract", "Spinocerebellar tract"}, model.DifficultyMedium},
		{"Anti-NMDA receptor encephalitis is classically associated with which tumor?", []string{"Ovarian teratoma", "Small cell lung cancer", "Thymoma", "Neuroblastoma"}, model.DifficultyHard},
	},
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	catalogRepo := repository.NewCatalogRepository(pool)

	fmt.Println("=== Seeding Question Catalog ===")

	seeded := 0
	for categoryName, questions := range catalog {
		category := &model.Category{
			Name: categoryName,
			Slug: slugify(categoryName),
		}
		if err := catalogRepo.CreateCategory(ctx, category); err != nil {
			log.Fatal().Err(err).Str("category", categoryName).Msg("Failed to create category")
		}
		fmt.Printf("Category %s: %s\n", categoryName, category.ID)

		for _, sq := range questions {
			q := &model.Question{
				CategoryID: category.ID,
				Prompt:     sq.prompt,
				Difficulty: sq.difficulty,
			}
			for i, text := range sq.options {
				q.Options = append(q.Options, model.Option{
					ID:   fmt.Sprintf("opt_%d", i+1),
					Text: text,
				})
			}
			q.CorrectOptionID = q.Options[0].ID

			if err := catalogRepo.CreateQuestion(ctx, q); err != nil {
				log.Fatal().Err(err).Str("prompt", sq.prompt).Msg("Failed to create question")
			}
			seeded++
		}
	}

	fmt.Printf("Done. Seeded %d questions across %d categories.\n", seeded, len(catalog))
}

func slugify(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ' || r == '-':
			out = append(out, '-')
		}
	}
	return string(out)
}
