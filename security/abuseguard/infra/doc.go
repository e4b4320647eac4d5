// Package infra contém as implementações concretas da camada de segurança:
// janela deslizante em memória, lista de banidos em arquivo JSON, auditoria
// JSONL, estatísticas (memória/redis), pacer global e pool de vagas.
package infra
