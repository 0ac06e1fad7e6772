// Package devplan holds the pure derivation logic for development plans:
// seed-bundle generation, skill-tree reconstruction, progress and level math.
package devplan

import (
	"time"

	"github.com/shalomhq/shalom/internal/types"
)

// SeedBundle is the deterministic starter content for a new plan.
// IDs are not assigned here; the store mints them at insert time.
type SeedBundle struct {
	Plan       types.Plan
	Milestones []types.Milestone
	Habits     []types.Habit
	Skills     []SeedSkill
}

// SeedSkill is a skill template. ParentRoot marks children of the root node;
// the store resolves the actual parent ID after the root is inserted.
type SeedSkill struct {
	Name       string
	ParentRoot bool
}

// milestoneTemplate is a seed milestone with its due-date offset in days.
type milestoneTemplate struct {
	title       string
	description string
	dueInDays   int
}

// habitTemplate is a seed habit.
type habitTemplate struct {
	title       string
	description string
	frequency   types.Frequency
}

// categoryTemplate bundles everything a category seeds.
type categoryTemplate struct {
	rootSkillName string
	childSkills   []string
	milestones    []milestoneTemplate
	habits        []habitTemplate
}

// seedTemplates maps each plan category to its starter content. Adding a
// category means adding a row here, nothing else.
var seedTemplates = map[types.Category]categoryTemplate{
	types.CategoryProgramming: {
		rootSkillName: "Desenvolvimento Web",
		childSkills:   []string{"Frontend", "Backend"},
		milestones: []milestoneTemplate{
			{"Dominar os fundamentos", "Sintaxe, estruturas de dados e ferramentas básicas", 30},
			{"Construir um projeto prático", "Aplicação completa do início ao fim", 90},
			{"Contribuir para um projeto real", "Código em produção ou open source", 180},
		},
		habits: []habitTemplate{
			{"Programar diariamente", "Pelo menos 30 minutos de código", types.FrequencyDaily},
			{"Revisar conceitos", "Releitura semanal de anotações e documentação", types.FrequencyWeekly},
		},
	},
	types.CategoryLanguages: {
		rootSkillName: "Idiomas",
		milestones: []milestoneTemplate{
			{"Vocabulário essencial", "As 500 palavras mais frequentes", 30},
			{"Conversação básica", "Manter um diálogo simples de 10 minutos", 90},
			{"Consumir mídia nativa", "Filme ou livro sem legendas/tradução", 180},
		},
		habits: []habitTemplate{
			{"Estudar vocabulário", "Sessão diária de flashcards", types.FrequencyDaily},
			{"Praticar conversação", "Conversa semanal com falante nativo", types.FrequencyWeekly},
		},
	},
	types.CategoryExercises: {
		rootSkillName: "Condicionamento Físico",
		milestones: []milestoneTemplate{
			{"Estabelecer rotina", "Treinos regulares por quatro semanas seguidas", 30},
			{"Atingir meta de resistência", "Progresso mensurável em carga ou distância", 90},
		},
		habits: []habitTemplate{
			{"Treinar", "Sessão de exercícios conforme o plano", types.FrequencyDaily},
			{"Alongar", "Sessão semanal de mobilidade", types.FrequencyWeekly},
		},
	},
	types.CategoryOther: {
		rootSkillName: "Desenvolvimento Pessoal",
		milestones: []milestoneTemplate{
			{"Definir o primeiro marco", "Quebrar o objetivo em passos concretos", 30},
			{"Revisão de meio de caminho", "Avaliar progresso e ajustar o plano", 90},
		},
		habits: []habitTemplate{
			{"Trabalhar no objetivo", "Progresso diário, por menor que seja", types.FrequencyDaily},
			{"Refletir sobre o progresso", "Revisão semanal por escrito", types.FrequencyWeekly},
		},
	},
}

// NewSeedBundle produces the starter bundle for a new plan. Deterministic
// given the same inputs and now. It does not validate: callers must reject
// empty titles and unknown categories first.
func NewSeedBundle(userID, title, description string, category types.Category, targetDate string, now time.Time) SeedBundle {
	tmpl := seedTemplates[category]
	today := now.UTC().Format(types.DateLayout)

	bundle := SeedBundle{
		Plan: types.Plan{
			UserID:      userID,
			Title:       title,
			Description: description,
			Category:    category,
			StartDate:   today,
			TargetDate:  targetDate,
			Progress:    0,
		},
	}

	for _, m := range tmpl.milestones {
		due := now.UTC().AddDate(0, 0, m.dueInDays).Format(types.DateLayout)
		bundle.Milestones = append(bundle.Milestones, types.Milestone{
			Title:       m.title,
			Description: m.description,
			DueDate:     &due,
		})
	}

	for _, h := range tmpl.habits {
		bundle.Habits = append(bundle.Habits, types.Habit{
			Title:       h.title,
			Description: h.description,
			Frequency:   h.frequency,
		})
	}

	bundle.Skills = append(bundle.Skills, SeedSkill{Name: tmpl.rootSkillName})
	for _, name := range tmpl.childSkills {
		bundle.Skills = append(bundle.Skills, SeedSkill{Name: name, ParentRoot: true})
	}

	return bundle
}
