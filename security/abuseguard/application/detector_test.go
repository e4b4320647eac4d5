package application

import (
	"errors"
	"strings"
	"testing"

	"bot-sentinela/security/abuseguard/domain"

	"github.com/hashicorp/go-hclog"
)

type fakeBanStore struct {
	banned  map[string]struct{}
	banCall int
}

func newFakeBanStore() *fakeBanStore {
	return &fakeBanStore{banned: make(map[string]struct{})}
}

func (f *fakeBanStore) Ban(actor, _ string) {
	f.banCall++
	f.banned[actor] = struct{}{}
}

func (f *fakeBanStore) Unban(actor string) bool {
	if _, ok := f.banned[actor]; !ok {
		return false
	}
	delete(f.banned, actor)
	return true
}

func (f *fakeBanStore) IsBanned(actor string) bool {
	_, ok := f.banned[actor]
	return ok
}

func (f *fakeBanStore) Banned() []string { return nil }

type fakeAuditLog struct {
	appended []domain.Infraction
	err      error
}

func (f *fakeAuditLog) Append(inf domain.Infraction) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, inf)
	return nil
}

func testGroups() []domain.PatternGroup {
	return []domain.PatternGroup{
		{
			Key:         "code_injection",
			Severity:    domain.SeverityCritical,
			AutoBan:     true,
			Patterns:    []string{`\beval\s*\(`, `\bsubprocess\b`, `rm\s+-rf`},
			Description: "injeção de código",
		},
		{
			Key:         "chat_markup_flood",
			Severity:    domain.SeverityMedium,
			AutoBan:     false,
			Patterns:    []string{`(\[color=[^\]]*\]){4,}`},
			Description: "flood de marcação",
		},
	}
}

func newTestDetector(bans *fakeBanStore, audit *fakeAuditLog) *DetectorService {
	return NewDetector(testGroups(), bans, audit, hclog.NewNullLogger())
}

func TestDetector_EvalIsCriticalAutoBan(t *testing.T) {
	bans := newFakeBanStore()
	audit := &fakeAuditLog{}
	d := newTestDetector(bans, audit)

	inf := d.Scan("eval(game.players)", "Griefer")
	if inf == nil {
		t.Fatalf("expected an infraction")
	}
	if inf.PatternType != "code_injection" {
		t.Fatalf("expected code_injection, got %q", inf.PatternType)
	}
	if inf.Severity != domain.SeverityCritical {
		t.Fatalf("expected critical, got %q", inf.Severity)
	}
	if !inf.AutoBanned {
		t.Fatalf("expected auto_banned=true")
	}
	if !bans.IsBanned("Griefer") {
		t.Fatalf("expected actor to be banned")
	}
	if len(audit.appended) != 1 {
		t.Fatalf("expected one audit record, got %d", len(audit.appended))
	}
}

func TestDetector_SubprocessScenario(t *testing.T) {
	bans := newFakeBanStore()
	d := newTestDetector(bans, &fakeAuditLog{})

	inf := d.Scan("subprocess.call('rm -rf /', shell=True)", "Attacker")
	if inf == nil || !inf.AutoBanned {
		t.Fatalf("expected an auto-banning infraction, got %+v", inf)
	}
	if !bans.IsBanned("Attacker") {
		t.Fatalf("expected Attacker to be banned")
	}
}

func TestDetector_BannedActorIsSkipped(t *testing.T) {
	bans := newFakeBanStore()
	audit := &fakeAuditLog{}
	d := newTestDetector(bans, audit)

	if inf := d.Scan("eval(x)", "Griefer"); inf == nil {
		t.Fatalf("expected first scan to detect")
	}
	if bans.banCall != 1 {
		t.Fatalf("expected one ban call, got %d", bans.banCall)
	}

	// ofensor já tratado: nem infração nova, nem ban duplicado
	if inf := d.Scan("eval(de novo)", "Griefer"); inf != nil {
		t.Fatalf("expected no infraction for banned actor, got %+v", inf)
	}
	if bans.banCall != 1 {
		t.Fatalf("expected no duplicate ban call, got %d", bans.banCall)
	}
	if len(audit.appended) != 1 {
		t.Fatalf("expected no new audit record, got %d", len(audit.appended))
	}
}

func TestDetector_EmptyInputsAreNotScanned(t *testing.T) {
	d := newTestDetector(newFakeBanStore(), &fakeAuditLog{})

	if inf := d.Scan("", "Griefer"); inf != nil {
		t.Fatalf("expected nil for empty text")
	}
	if inf := d.Scan("eval(x)", "  "); inf != nil {
		t.Fatalf("expected nil for blank actor")
	}
}

func TestDetector_CleanTextReturnsNil(t *testing.T) {
	d := newTestDetector(newFakeBanStore(), &fakeAuditLog{})

	if inf := d.Scan("bom dia pessoal, alguém tem ferro sobrando?", "Peaceful"); inf != nil {
		t.Fatalf("expected nil for clean text, got %+v", inf)
	}
}

func TestDetector_FirstMatchWinsByDeclarationOrder(t *testing.T) {
	bans := newFakeBanStore()
	d := newTestDetector(bans, &fakeAuditLog{})

	// casa nos dois grupos; só o primeiro declarado é registrado
	text := "eval(x) [color=red][color=red][color=red][color=red]"
	inf := d.Scan(text, "Griefer")
	if inf == nil || inf.PatternType != "code_injection" {
		t.Fatalf("expected first declared group to win, got %+v", inf)
	}
}

func TestDetector_MatchIsCaseInsensitive(t *testing.T) {
	d := newTestDetector(newFakeBanStore(), &fakeAuditLog{})

	if inf := d.Scan("EVAL(x)", "Griefer"); inf == nil {
		t.Fatalf("expected case-insensitive match")
	}
}

func TestDetector_RawTextIsTruncated(t *testing.T) {
	d := newTestDetector(newFakeBanStore(), &fakeAuditLog{})

	text := "eval(" + strings.Repeat("a", 500) + ")"
	inf := d.Scan(text, "Griefer")
	if inf == nil {
		t.Fatalf("expected an infraction")
	}
	if len(inf.RawText) != maxRawPreview {
		t.Fatalf("expected preview of %d chars, got %d", maxRawPreview, len(inf.RawText))
	}
}

func TestDetector_MetadataCarriesMatchedSubstring(t *testing.T) {
	d := newTestDetector(newFakeBanStore(), &fakeAuditLog{})

	inf := d.Scan("tenta eval (x) aqui", "Griefer")
	if inf == nil {
		t.Fatalf("expected an infraction")
	}
	if inf.Metadata["matched_substring"] == "" {
		t.Fatalf("expected matched_substring metadata")
	}
	if inf.Metadata["group_description"] != "injeção de código" {
		t.Fatalf("expected group description metadata, got %q", inf.Metadata["group_description"])
	}
}

func TestDetector_AuditFailureDoesNotBlockDetectionNorBan(t *testing.T) {
	bans := newFakeBanStore()
	audit := &fakeAuditLog{err: errors.New("disco cheio")}
	d := newTestDetector(bans, audit)

	inf := d.Scan("eval(x)", "Griefer")
	if inf == nil {
		t.Fatalf("expected infraction despite audit failure")
	}
	if !bans.IsBanned("Griefer") {
		t.Fatalf("expected ban despite audit failure")
	}
}

func TestDetector_MalformedExpressionIsDroppedGroupSurvives(t *testing.T) {
	groups := []domain.PatternGroup{
		{
			Key:      "code_injection",
			Severity: domain.SeverityCritical,
			AutoBan:  true,
			Patterns: []string{`[quebrada`, `\beval\s*\(`},
		},
	}
	bans := newFakeBanStore()
	d := NewDetector(groups, bans, &fakeAuditLog{}, hclog.NewNullLogger())

	inf := d.Scan("eval(x)", "Griefer")
	if inf == nil {
		t.Fatalf("expected surviving expression to still match")
	}
	if inf.MatchedPattern != `\beval\s*\(` {
		t.Fatalf("expected the surviving expression to be reported, got %q", inf.MatchedPattern)
	}
}
