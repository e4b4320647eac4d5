package infra

import (
	"fmt"
	"os"

	"bot-sentinela/security/abuseguard/domain"

	"gopkg.in/yaml.v3"
)

// patternsFile é o formato YAML de sobrescrita da tabela de padrões.
type patternsFile struct {
	Groups []domain.PatternGroup `yaml:"groups"`
}

// LoadPatternsFile carrega uma tabela de padrões de um arquivo YAML,
// preservando a ordem de declaração (que define a precedência dos grupos).
//
// Expressões malformadas NÃO são rejeitadas aqui: a compilação no detector
// é quem descarta expressão por expressão, mantendo o resto do grupo.
func LoadPatternsFile(path string) ([]domain.PatternGroup, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lendo tabela de padrões: %w", err)
	}

	var f patternsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("tabela de padrões inválida: %w", err)
	}
	if len(f.Groups) == 0 {
		return nil, fmt.Errorf("tabela de padrões vazia: %s", path)
	}
	return f.Groups, nil
}
