package infra

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"bot-sentinela/security/abuseguard/domain"

	"github.com/hashicorp/go-hclog"
)

const auditFileName = "infractions.jsonl"

// FileAuditLog é a trilha append-only de infrações: um objeto JSON por
// linha, UTF-8, nunca reescrita no lugar.
//
// Append é serializado por mutex para que duas detecções concorrentes não
// intercalem linhas. Leitura é sempre o arquivo inteiro mais um recorte do
// final; este subsistema não indexa nem rotaciona.
type FileAuditLog struct {
	mu   sync.Mutex
	path string
	log  hclog.Logger
}

// NewFileAuditLog resolve o caminho como a lista de banidos: path
// explícito > SENTINEL_DATA_DIR > diretório padrão.
func NewFileAuditLog(path string, logger hclog.Logger) *FileAuditLog {
	if logger == nil {
		logger = hclog.Default()
	}
	logger = logger.Named("audit")

	if path == "" {
		dir := os.Getenv(EnvDataDir)
		if dir == "" {
			dir = defaultDataDir
		}
		path = filepath.Join(dir, auditFileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Error("não consegui criar o diretório da auditoria", "path", path, "err", err)
	}

	return &FileAuditLog{path: path, log: logger}
}

// Path devolve o arquivo em uso (diagnóstico/testes).
func (l *FileAuditLog) Path() string { return l.path }

// Append grava uma infração no final da trilha.
func (l *FileAuditLog) Append(inf domain.Infraction) error {
	raw, err := json.Marshal(inf)
	if err != nil {
		return err
	}
	raw = append(raw, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(raw); err != nil {
		return err
	}
	return nil
}

// Recent devolve as últimas n infrações, da mais nova para a mais velha.
// Se actor não for vazio, filtra por ator antes do recorte. Linha
// malformada é pulada com diagnóstico.
func (l *FileAuditLog) Recent(n int, actor string) ([]domain.Infraction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var all []domain.Infraction
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var inf domain.Infraction
		if err := json.Unmarshal(line, &inf); err != nil {
			l.log.Warn("linha de auditoria malformada ignorada", "err", err)
			continue
		}
		if actor != "" && inf.PlayerName != actor {
			continue
		}
		all = append(all, inf)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if n > 0 && len(all) > n {
		all = all[len(all)-n:]
	}
	// inverte: mais recente primeiro
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return all, nil
}
