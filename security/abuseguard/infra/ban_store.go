package infra

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// EnvDataDir aponta o diretório base dos arquivos de estado do bot.
	EnvDataDir = "SENTINEL_DATA_DIR"

	defaultDataDir = "data"
	banFileName    = "banned_players.json"
)

// banDocument é o formato externo da lista de banidos: editável à mão
// entre execuções do bot.
type banDocument struct {
	BannedPlayers []string `json:"banned_players"`
	LastUpdated   string   `json:"last_updated"`
}

// FileBanStore guarda o conjunto de atores banidos, persistido num
// documento JSON reescrito por inteiro a cada mutação.
//
// Toda mutação passa por um único mutex: dois bans simultâneos não podem
// disputar a escrita e perder uma entrada. O conjunto em memória é a
// autoridade; falha de escrita é logada e não desfaz a mutação.
type FileBanStore struct {
	mu     sync.Mutex
	path   string
	banned map[string]struct{}
	log    hclog.Logger
}

// NewFileBanStore abre (ou cria) a lista de banidos.
//
// Resolução do caminho: path explícito > diretório da env SENTINEL_DATA_DIR
// > diretório padrão "data". O diretório pai é criado se faltar.
// Arquivo ausente ou corrompido vira conjunto vazio com diagnóstico;
// nunca é fatal.
func NewFileBanStore(path string, logger hclog.Logger) *FileBanStore {
	if logger == nil {
		logger = hclog.Default()
	}
	logger = logger.Named("banstore")

	if path == "" {
		dir := os.Getenv(EnvDataDir)
		if dir == "" {
			dir = defaultDataDir
		}
		path = filepath.Join(dir, banFileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Error("não consegui criar o diretório da lista de banidos", "path", path, "err", err)
	}

	s := &FileBanStore{
		path:   path,
		banned: make(map[string]struct{}),
		log:    logger,
	}
	s.load()
	return s
}

// Path devolve o arquivo em uso (diagnóstico/testes).
func (s *FileBanStore) Path() string { return s.path }

func (s *FileBanStore) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("lista de banidos ilegível, começando vazia", "path", s.path, "err", err)
		}
		return
	}

	var doc banDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.log.Warn("lista de banidos corrompida, começando vazia", "path", s.path, "err", err)
		return
	}
	for _, name := range doc.BannedPlayers {
		s.banned[name] = struct{}{}
	}
}

// Ban adiciona o ator e persiste antes de retornar. Repetir o ban é
// no-op (logado): nada muda em memória nem em disco.
func (s *FileBanStore) Ban(actor, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.banned[actor]; ok {
		s.log.Info("ator já banido", "actor", actor)
		return
	}
	s.banned[actor] = struct{}{}
	s.log.Warn("ator banido", "actor", actor, "reason", reason)
	s.persistLocked()
}

// Unban remove o ator. Retorna false sem tocar no arquivo se ele não
// estava banido.
func (s *FileBanStore) Unban(actor string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.banned[actor]; !ok {
		return false
	}
	delete(s.banned, actor)
	s.log.Info("ator desbanido", "actor", actor)
	s.persistLocked()
	return true
}

func (s *FileBanStore) IsBanned(actor string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.banned[actor]
	return ok
}

// Banned devolve o conjunto atual, ordenado.
func (s *FileBanStore) Banned() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

func (s *FileBanStore) sortedLocked() []string {
	out := make([]string, 0, len(s.banned))
	for name := range s.banned {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *FileBanStore) persistLocked() {
	doc := banDocument{
		BannedPlayers: s.sortedLocked(),
		LastUpdated:   time.Now().UTC().Format(time.RFC3339),
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		s.log.Error("falha ao serializar a lista de banidos", "err", err)
		return
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		// memória continua valendo mesmo com a escrita perdida
		s.log.Error("falha ao gravar a lista de banidos", "path", s.path, "err", err)
	}
}
