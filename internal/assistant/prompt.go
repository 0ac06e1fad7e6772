package assistant

import (
	"fmt"
	"strings"
)

// systemPrompt sets the assistant's persona. Sophia answers in the user's
// language and leans on the profile numbers instead of inventing context.
const systemPrompt = `Você é Sophia, uma assistente pessoal de desenvolvimento humano.
Você acompanha planos de desenvolvimento, hábitos, finanças e o diário emocional do usuário.
Responda sempre no idioma em que o usuário escrever.
Seja acolhedora, direta e prática. Use os dados do perfil abaixo quando forem relevantes,
e nunca invente números que não estejam nele. Quando não souber algo, diga que não sabe.`

// renderProfile formats the user's current state as a plain-text block
// appended to the system prompt.
func renderProfile(p Profile) string {
	var b strings.Builder
	b.WriteString("Perfil atual do usuário:\n")
	fmt.Fprintf(&b, "- Bem-estar: %d/100\n", p.Wellbeing)
	fmt.Fprintf(&b, "- Sequência de registros no diário: %d dias\n", p.JournalStreak)
	fmt.Fprintf(&b, "- Planos de desenvolvimento ativos: %d (progresso médio %d%%)\n", p.PlanCount, p.MeanProgress)
	fmt.Fprintf(&b, "- Taxa de poupança do mês: %d%%\n", p.SavingsRate)
	if len(p.RecentEmotions) > 0 {
		fmt.Fprintf(&b, "- Emoções recentes: %s\n", strings.Join(p.RecentEmotions, ", "))
	}
	if len(p.GoalNames) > 0 {
		fmt.Fprintf(&b, "- Metas financeiras: %s\n", strings.Join(p.GoalNames, ", "))
	}
	return b.String()
}
