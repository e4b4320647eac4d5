package abuseguard

import "bot-sentinela/security/abuseguard/domain"

// DefaultPatternGroups é a tabela padrão de ameaças, na ordem de
// precedência: o detector para no primeiro match, então um texto que
// casaria em dois grupos só é registrado no primeiro declarado aqui.
// (A alternativa de avaliar todos os grupos e ficar com a maior
// severidade está anotada no DESIGN.md.)
func DefaultPatternGroups() []domain.PatternGroup {
	return []domain.PatternGroup{
		{
			Key:      "code_injection",
			Severity: domain.SeverityCritical,
			AutoBan:  true,
			Patterns: []string{
				`\beval\s*\(`,
				`\bexec\s*\(`,
				`__import__\s*\(`,
				`\bcompile\s*\(`,
				`\bsubprocess\b`,
				`\bos\.system\s*\(`,
				`\bos\.popen\s*\(`,
				`rm\s+-rf`,
			},
			Description: "tentativa de injeção de código no bot",
		},
		{
			Key:      "rcon_escape",
			Severity: domain.SeverityCritical,
			AutoBan:  true,
			Patterns: []string{
				`(^|\s)/c\b`,
				`(^|\s)/sc\b`,
				`/silent-command\b`,
				`/measured-command\b`,
			},
			Description: "payload de console injetado via chat",
		},
		{
			Key:      "sql_injection",
			Severity: domain.SeverityHigh,
			AutoBan:  true,
			Patterns: []string{
				`union\s+(all\s+)?select`,
				`drop\s+table|truncate\s+table|delete\s+from`,
				`\bor\b\s+\d+\s*=\s*\d+`,
			},
			Description: "injeção de SQL em campo de texto",
		},
		{
			Key:      "path_traversal",
			Severity: domain.SeverityHigh,
			AutoBan:  false,
			Patterns: []string{
				`(\.\./){2,}`,
				`/etc/passwd|/etc/shadow`,
			},
			Description: "tentativa de escapar do diretório do servidor",
		},
		{
			Key:      "chat_markup_flood",
			Severity: domain.SeverityMedium,
			AutoBan:  false,
			Patterns: []string{
				`(\[color=[^\]]*\]){4,}`,
				`(\[font=[^\]]*\]){4,}`,
			},
			Description: "abuso de marcação rich-text no chat",
		},
	}
}
