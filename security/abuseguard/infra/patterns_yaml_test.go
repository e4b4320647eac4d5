package infra

import (
	"os"
	"path/filepath"
	"testing"

	"bot-sentinela/security/abuseguard/domain"
)

const samplePatternsYAML = `groups:
  - key: code_injection
    severity: critical
    auto_ban: true
    description: injeção de código
    patterns:
      - '\beval\s*\('
      - '[malformada'
  - key: chat_markup_flood
    severity: medium
    auto_ban: false
    description: flood de marcação
    patterns:
      - '(\[color=[^\]]*\]){4,}'
`

func TestLoadPatternsFile_PreservesDeclarationOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	if err := os.WriteFile(path, []byte(samplePatternsYAML), 0o644); err != nil {
		t.Fatalf("seeding patterns file: %v", err)
	}

	groups, err := LoadPatternsFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Key != "code_injection" || groups[1].Key != "chat_markup_flood" {
		t.Fatalf("expected declaration order preserved, got %q %q", groups[0].Key, groups[1].Key)
	}
	if !groups[0].AutoBan || groups[0].Severity != domain.SeverityCritical {
		t.Fatalf("expected code_injection to be critical auto-ban, got %+v", groups[0])
	}
}

func TestLoadPatternsFile_MalformedExprOnlyDropsAtCompile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	if err := os.WriteFile(path, []byte(samplePatternsYAML), 0o644); err != nil {
		t.Fatalf("seeding patterns file: %v", err)
	}

	groups, err := LoadPatternsFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	compiled, dropped := domain.CompileGroups(groups)
	if len(dropped) != 1 {
		t.Fatalf("expected exactly one dropped expression, got %d", len(dropped))
	}
	// o grupo continua funcionando com a expressão boa
	if len(compiled[0].Exprs) != 1 || compiled[0].Exprs[0].Source != `\beval\s*\(` {
		t.Fatalf("expected surviving expression, got %+v", compiled[0].Exprs)
	}
}

func TestLoadPatternsFile_Errors(t *testing.T) {
	if _, err := LoadPatternsFile(filepath.Join(t.TempDir(), "nada.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "vazio.yaml")
	if err := os.WriteFile(path, []byte("groups: []\n"), 0o644); err != nil {
		t.Fatalf("seeding empty file: %v", err)
	}
	if _, err := LoadPatternsFile(path); err == nil {
		t.Fatalf("expected error for empty table")
	}
}
